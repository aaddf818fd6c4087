package voc2yolo

// Dataset descriptor and split manifest files.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// File names written to the output root.
const (
	DatasetFileName  = "data.yaml"
	ManifestFileName = "split.yaml"
)

// Output subdirectories under the output root.
const (
	imagesDir = "images"
	labelsDir = "labels"
)

// DatasetDescriptor is the dataset configuration read by YOLO trainers.
type DatasetDescriptor struct {
	Path  string   `yaml:"path"`  // The dataset root.
	Train string   `yaml:"train"` // Relative to Path.
	Val   string   `yaml:"val"`   // Relative to Path.
	Test  string   `yaml:"test"`  // Relative to Path.
	NC    int      `yaml:"nc"`    // The number of classes.
	Names []string `yaml:"names"` // Class names in ID order.
}

// NewDatasetDescriptor describes the dataset layout under outputDir for the given classes.
func NewDatasetDescriptor(outputDir string, classes *ClassRegistry) (DatasetDescriptor, error) {
	root, err := filepath.Abs(outputDir)
	if err != nil {
		return DatasetDescriptor{}, err
	}

	return DatasetDescriptor{
		Path:  filepath.ToSlash(root),
		Train: imagesDir + "/" + SubsetTrain,
		Val:   imagesDir + "/" + SubsetVal,
		Test:  imagesDir + "/" + SubsetTest,
		NC:    classes.Len(),
		Names: classes.Names(),
	}, nil
}

// WriteDatasetYAML writes the dataset descriptor to <outputDir>/data.yaml.
func WriteDatasetYAML(outputDir string, classes *ClassRegistry) error {
	d, err := NewDatasetDescriptor(outputDir, classes)
	if err != nil {
		return err
	}
	return writeYAML(filepath.Join(outputDir, DatasetFileName), &d)
}

// Manifest records how a run split the dataset. A split can be reproduced by running again with
// the recorded seed and ratios.
type Manifest struct {
	RunID     string    `yaml:"run_id"`
	CreatedAt time.Time `yaml:"created_at"`
	Seed      int64     `yaml:"seed"`
	Ratios    Ratios    `yaml:"ratios"`
	Splits    Splits    `yaml:"splits"`
}

// WriteManifest writes m to <outputDir>/split.yaml.
func WriteManifest(outputDir string, m Manifest) error {
	return writeYAML(filepath.Join(outputDir, ManifestFileName), &m)
}

// ReadManifest reads the split manifest from <outputDir>/split.yaml.
func ReadManifest(outputDir string) (Manifest, error) {
	path := filepath.Join(outputDir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest %q: %w", path, err)
	}
	return m, nil
}

func writeYAML(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write file %q: %w", path, err)
	}
	return nil
}
