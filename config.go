package voc2yolo

import (
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// DefaultImageExts are the image file extensions tried, in order, when looking for the image that
// belongs to an annotation.
var DefaultImageExts = []string{".jpg", ".jpeg", ".png"}

// Config is the complete configuration of a conversion run.
type Config struct {
	AnnotationsDir string `mapstructure:"annotations_dir" yaml:"annotations_dir" validate:"required"`
	ImagesDir      string `mapstructure:"images_dir" yaml:"images_dir" validate:"required"`
	OutputDir      string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`

	// Classes defines the class IDs by position. If empty, the names are read from ClassesFile.
	Classes     []string `mapstructure:"classes" yaml:"classes" validate:"unique,dive,required"`
	ClassesFile string   `mapstructure:"classes_file" yaml:"classes_file"`
	// LabelMap renames source labels (old=new) before the class lookup.
	LabelMap []string `mapstructure:"label_map" yaml:"label_map"`

	Ratios Ratios `mapstructure:"ratios" yaml:"ratios"`
	// Seed makes the split reproducible. A time based seed is used if nil.
	Seed *int64 `mapstructure:"seed" yaml:"seed,omitempty"`

	AnnotationExt string   `mapstructure:"annotation_ext" yaml:"annotation_ext" validate:"required,startswith=."`
	ImageExts     []string `mapstructure:"image_exts" yaml:"image_exts" validate:"min=1,dive,startswith=."`

	StrictBoxes   bool          `mapstructure:"strict_boxes" yaml:"strict_boxes"`
	SizeFromImage bool          `mapstructure:"size_from_image" yaml:"size_from_image"`
	Resize        ResizeOptions `mapstructure:"resize" yaml:"resize"`

	WriteDatasetYAML bool `mapstructure:"write_dataset_yaml" yaml:"write_dataset_yaml"`
	WriteManifest    bool `mapstructure:"write_manifest" yaml:"write_manifest"`
}

// DefaultConfig returns a configuration with all optional settings at their defaults. The
// directories and classes still need to be set.
func DefaultConfig() Config {
	return Config{
		Ratios:           DefaultRatios,
		AnnotationExt:    ".xml",
		ImageExts:        append([]string(nil), DefaultImageExts...),
		WriteDatasetYAML: true,
		WriteManifest:    true,
	}
}

var validate = validator.New()

// Validate checks the configuration for settings that would make a run impossible.
//
// Ratios that do not add up to 1 are accepted; see Ratios.Validate.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(c.Classes) == 0 && c.ClassesFile == "" {
		return fmt.Errorf("invalid configuration: no classes and no classes file given")
	}
	if _, err := ParseLabelMap(c.LabelMap); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out := filepath.Clean(c.OutputDir)
	if out == filepath.Clean(c.AnnotationsDir) || out == filepath.Clean(c.ImagesDir) {
		return fmt.Errorf("invalid configuration: the output directory must differ from the input directories")
	}

	return nil
}

// ClassRegistry builds the class registry from Classes, or from ClassesFile if Classes is empty.
func (c Config) ClassRegistry() (*ClassRegistry, error) {
	names := c.Classes
	if len(names) == 0 {
		var err error
		if names, err = LoadClassNames(c.ClassesFile); err != nil {
			return nil, err
		}
	}
	return NewClassRegistry(names)
}
