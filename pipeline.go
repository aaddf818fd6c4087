package voc2yolo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// The errors that abort a run. All other problems are logged and the run continues.
var (
	ErrAnnotationDirNotFound = errors.New("annotation directory not found")
	ErrNoAnnotations         = errors.New("no annotation files found")
)

// Summary counts the outcome of a run.
type Summary struct {
	Seed  int64 // The seed the split was drawn with.
	Total int   // The number of annotation files.
	Train int
	Val   int
	Test  int

	LabelsWritten  int // Label files written, including empty ones.
	EmptyLabels    int // Label files without any lines.
	ObjectsWritten int // Label lines written.
	ObjectsSkipped int // Objects dropped because of an unknown class or a bad bounding box.
	FilesFailed    int // Annotation files that could not be parsed or lacked an image size.
	ImagesCopied   int
	ImagesMissing  int // Labels written without a matching image.
	WriteErrors    int // Label or image files that could not be written.
}

// PrepareLayout creates the images/<subset> and labels/<subset> directories under outputDir.
// Existing directories are not an error.
func PrepareLayout(outputDir string) error {
	for _, subset := range Subsets {
		for _, dir := range []string{imagesDir, labelsDir} {
			p := filepath.Join(outputDir, dir, subset)
			if err := os.MkdirAll(p, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", p, err)
			}
		}
	}
	return nil
}

// DiscoverAnnotations returns the names of the annotation files with extension ext in dir, sorted
// by name.
func DiscoverAnnotations(dir, ext string) ([]string, error) {
	files, err := filesByExtInDir(dir, ext)
	if err != nil {
		if isNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAnnotationDirNotFound, dir)
		}
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no %q files in %s", ErrNoAnnotations, ext, dir)
	}
	return files, nil
}

// Run converts all annotations in cfg.AnnotationsDir to YOLO labels and copies the matching images,
// split into train, validation and test sets under cfg.OutputDir.
//
// Run returns an error only if the configuration is invalid, the output layout cannot be created,
// or no annotation files are found. Problems with individual files are logged to log and
// counted in the returned Summary.
func Run(cfg Config, log logrus.FieldLogger) (Summary, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	classes, err := cfg.ClassRegistry()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load the class list: %w", err)
	}
	labelMap, err := ParseLabelMap(cfg.LabelMap)
	if err != nil {
		return Summary{}, err
	}
	if err := cfg.Ratios.Validate(); err != nil {
		log.Warn(err)
	}

	if err := PrepareLayout(cfg.OutputDir); err != nil {
		return Summary{}, err
	}
	log.WithField("output", cfg.OutputDir).Info("Created the output directories")

	files, err := DiscoverAnnotations(cfg.AnnotationsDir, cfg.AnnotationExt)
	if err != nil {
		return Summary{}, err
	}

	for base, names := range sharedBaseNames(files) {
		log.WithField("files", names).Warnf(
			"%d annotation files share the base name %s, only the last one processed keeps its label",
			len(names), base)
	}

	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	splits := Split(files, cfg.Ratios, NewRand(seed))

	summary := Summary{
		Seed:  seed,
		Total: len(files),
		Train: len(splits.Train),
		Val:   len(splits.Val),
		Test:  len(splits.Test),
	}
	log.Infof("Splitting %d files with seed %d", summary.Total, seed)
	for _, subset := range Subsets {
		log.Infof("%-5s set: %d files (%.0f%%)", subset, len(splits.Of(subset)),
			cfg.Ratios.Of(subset)*100)
	}

	r := runner{
		cfg: cfg,
		conv: &Converter{
			Classes:       classes,
			LabelMap:      labelMap,
			StrictBoxes:   cfg.StrictBoxes,
			SizeFromImage: cfg.SizeFromImage,
			Log:           log,
		},
		log:     log,
		summary: &summary,
	}
	for _, subset := range Subsets {
		log.Infof("Processing the %s set", subset)
		for _, name := range splits.Of(subset) {
			r.process(subset, name)
		}
	}

	if cfg.WriteDatasetYAML {
		if err := WriteDatasetYAML(cfg.OutputDir, classes); err != nil {
			log.WithError(err).Warn("Failed to write the dataset descriptor")
			summary.WriteErrors++
		}
	}
	if cfg.WriteManifest {
		m := Manifest{
			RunID:     uuid.NewString(),
			CreatedAt: time.Now().UTC(),
			Seed:      seed,
			Ratios:    cfg.Ratios,
			Splits:    splits,
		}
		if err := WriteManifest(cfg.OutputDir, m); err != nil {
			log.WithError(err).Warn("Failed to write the split manifest")
			summary.WriteErrors++
		}
	}

	log.WithFields(logrus.Fields{
		"labels":         summary.LabelsWritten,
		"objects":        summary.ObjectsWritten,
		"images":         summary.ImagesCopied,
		"missing_images": summary.ImagesMissing,
	}).Infof("Data preparation complete, the YOLO dataset is in %s", cfg.OutputDir)

	return summary, nil
}

// runner processes the items of a run one at a time.
type runner struct {
	cfg     Config
	conv    *Converter
	log     logrus.FieldLogger
	summary *Summary
}

// process writes the label for the annotation file name and copies its image into subset.
func (r *runner) process(subset, name string) {
	base := baseName(name)
	log := r.log.WithField("file", name)

	imagePath, imageExt, haveImage := FindImage(r.cfg.ImagesDir, base, r.cfg.ImageExts)

	res := r.conv.Convert(filepath.Join(r.cfg.AnnotationsDir, name), imagePath)
	if res.Err != nil {
		r.summary.FilesFailed++
	}
	r.summary.ObjectsSkipped += res.Skipped

	labelPath := filepath.Join(r.cfg.OutputDir, labelsDir, subset, base+".txt")
	if err := writeLines(labelPath, res.Lines); err != nil {
		log.WithError(err).Warn("Failed to write the label file")
		r.summary.WriteErrors++
	} else {
		r.summary.LabelsWritten++
		r.summary.ObjectsWritten += len(res.Lines)
		if len(res.Lines) == 0 {
			r.summary.EmptyLabels++
		}
	}

	if !haveImage {
		log.Warnf("Image file not found for %s, skipping the image copy", base)
		r.summary.ImagesMissing++
		return
	}
	dst := filepath.Join(r.cfg.OutputDir, imagesDir, subset, base+imageExt)
	if err := CopyImage(imagePath, dst, r.cfg.Resize); err != nil {
		log.WithError(err).Warn("Failed to copy the image")
		r.summary.WriteErrors++
		return
	}
	r.summary.ImagesCopied++
}
