package voc2yolo

// The intermediate annotation representation and the VOC to YOLO label conversion.

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Annotation is a single object label with a resolved class ID.
type Annotation struct {
	Box     Box // Absolute pixel coordinates.
	ClassID int
	Label   string
}

// AnnotatedFile holds the recognized annotations of one annotation file.
type AnnotatedFile struct {
	Annotations []Annotation // In the order of the source document.
	FilePath    string       // The annotation file.
	Width       int          // Image width in pixels.
	Height      int          // Image height in pixels.
}

// Lines returns the YOLO label lines for all annotations, in order.
func (f AnnotatedFile) Lines() []string {
	lines := make([]string, 0, len(f.Annotations))
	for _, a := range f.Annotations {
		lines = append(lines, ToYOLO(f.Width, f.Height, a.Box).Line(a.ClassID))
	}
	return lines
}

// LabelMap replaces source class names before they are looked up in the class registry.
type LabelMap map[string]string

// ParseLabelMap parses label mappings of the form old=new.
func ParseLabelMap(mappings []string) (LabelMap, error) {
	if len(mappings) == 0 {
		return nil, nil
	}

	m := make(LabelMap, len(mappings))
	for _, v := range mappings {
		a := strings.Split(v, "=")
		if len(a) != 2 || a[0] == "" || a[1] == "" {
			return nil, fmt.Errorf("invalid label mapping: %v", v)
		}
		m[a[0]] = a[1]
	}

	return m, nil
}

// Apply returns the mapped name for label, or label itself if it has no mapping.
func (m LabelMap) Apply(label string) string {
	if v, ok := m[label]; ok {
		return v
	}
	return label
}

// ConvertResult is the outcome of converting one annotation file.
type ConvertResult struct {
	File    AnnotatedFile
	Lines   []string // The YOLO label lines; empty if the file or all its objects were rejected.
	Skipped int      // The number of objects that were dropped.
	Err     error    // Set if the file as a whole could not be used.
}

// Converter turns VOC annotation files into YOLO label lines.
//
// Errors never abort a conversion. A file that cannot be parsed, or lacks a usable image size,
// yields no lines. An object with an unknown class or an incomplete bounding box is dropped while
// the remaining objects of the file are kept. Every such case is logged as a warning.
type Converter struct {
	Classes       *ClassRegistry
	LabelMap      LabelMap
	StrictBoxes   bool // Drop inverted boxes and boxes that exceed the image bounds.
	SizeFromImage bool // Read the size from the image header if the annotation lacks one.
	Log           logrus.FieldLogger
}

// Convert converts the annotation file at path. The imagePath of the matching image may be empty;
// it is only used when SizeFromImage is set.
func (c *Converter) Convert(path, imagePath string) ConvertResult {
	log := c.logger().WithField("file", path)
	res := ConvertResult{File: AnnotatedFile{FilePath: path}}

	doc, err := ReadVOC(path)
	if err != nil {
		log.WithError(err).Warn("Could not parse the annotation file, writing an empty label")
		res.Err = err
		return res
	}

	width, height, err := doc.ImageSize()
	if err != nil && c.SizeFromImage && imagePath != "" {
		cfg, imgErr := decodeImageConfig(imagePath)
		if imgErr == nil && cfg.Width > 0 && cfg.Height > 0 {
			log.WithError(err).Debugf("Using the size of %q", imagePath)
			width, height, err = cfg.Width, cfg.Height, nil
		}
	}
	if err != nil {
		log.WithError(err).Warn("Could not find the image size, writing an empty label")
		res.Err = err
		return res
	}
	res.File.Width = width
	res.File.Height = height

	res.File.Annotations = make([]Annotation, 0, len(doc.Objects))
	for i, obj := range doc.Objects {
		objLog := log.WithField("object", i)

		label, err := obj.Label()
		if err != nil {
			objLog.WithError(err).Warn("Skipping object without a class name")
			res.Skipped++
			continue
		}
		label = c.LabelMap.Apply(label)

		classID, ok := c.Classes.Index(label)
		if !ok {
			objLog.WithField("class", label).Warn("Skipping object with a class that is not configured")
			res.Skipped++
			continue
		}

		box, err := obj.Box()
		if err != nil {
			objLog.WithError(err).Warn("Skipping object with missing bounding box coordinates")
			res.Skipped++
			continue
		}

		if c.StrictBoxes && (box.Inverted() || !box.Within(width, height)) {
			objLog.WithField("box", fmt.Sprintf("(%d,%d)(%d,%d)", box.XMin, box.YMin, box.XMax, box.YMax)).
					Warn("Skipping object with an invalid bounding box")
			res.Skipped++
			continue
		}

		res.File.Annotations = append(res.File.Annotations,
			Annotation{Box: box, ClassID: classID, Label: label})
	}

	res.Lines = res.File.Lines()
	return res
}

func (c *Converter) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}
