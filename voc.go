package voc2yolo

// PASCAL VOC specific functionality.

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// errMissingField is returned when an expected XML element is absent.
var errMissingField = errors.New("missing field")

// VOCAnnotation is the PASCAL VOC annotation document for a single image.
//
// Numeric fields are kept as raw text, so that missing and malformed values can be told apart and
// reported per field rather than failing the decoding of the whole document.
type VOCAnnotation struct {
	Filename string      `xml:"filename"`
	Size     *VOCSize    `xml:"size"`
	Objects  []VOCObject `xml:"object"`
}

// VOCSize is the image size section.
type VOCSize struct {
	Width  *string `xml:"width"`
	Height *string `xml:"height"`
	Depth  *string `xml:"depth"`
}

// VOCObject is a single labeled object.
type VOCObject struct {
	Name   *string    `xml:"name"`
	BndBox *VOCBndBox `xml:"bndbox"`
}

// VOCBndBox is the absolute bounding box of an object.
type VOCBndBox struct {
	XMin *string `xml:"xmin"`
	YMin *string `xml:"ymin"`
	XMax *string `xml:"xmax"`
	YMax *string `xml:"ymax"`
}

// ReadVOC reads and decodes the VOC annotation file at path.
func ReadVOC(path string) (VOCAnnotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return VOCAnnotation{}, err
	}
	defer f.Close()

	var data VOCAnnotation
	if err := xml.NewDecoder(f).Decode(&data); err != nil {
		return VOCAnnotation{}, fmt.Errorf("failed to parse VOC XML from %q: %w", path, err)
	}

	return data, nil
}

// ImageSize returns the image width and height from the size section. Both must be positive.
func (a VOCAnnotation) ImageSize() (width, height int, err error) {
	if a.Size == nil {
		return 0, 0, fmt.Errorf("size: %w", errMissingField)
	}
	if width, err = parseVOCInt(a.Size.Width); err != nil {
		return 0, 0, fmt.Errorf("size/width: %w", err)
	}
	if height, err = parseVOCInt(a.Size.Height); err != nil {
		return 0, 0, fmt.Errorf("size/height: %w", err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("non-positive image size %dx%d", width, height)
	}

	return width, height, nil
}

// Label returns the trimmed class name of the object.
func (o VOCObject) Label() (string, error) {
	if o.Name == nil {
		return "", fmt.Errorf("name: %w", errMissingField)
	}
	name := strings.TrimSpace(*o.Name)
	if name == "" {
		return "", fmt.Errorf("name: %w", errMissingField)
	}
	return name, nil
}

// Box returns the object's bounding box. All four coordinates are required.
func (o VOCObject) Box() (Box, error) {
	if o.BndBox == nil {
		return Box{}, fmt.Errorf("bndbox: %w", errMissingField)
	}

	names := [4]string{"xmin", "ymin", "xmax", "ymax"}
	raws := [4]*string{o.BndBox.XMin, o.BndBox.YMin, o.BndBox.XMax, o.BndBox.YMax}
	var coords [4]int
	for i, raw := range raws {
		v, err := parseVOCInt(raw)
		if err != nil {
			return Box{}, fmt.Errorf("bndbox/%s: %w", names[i], err)
		}
		coords[i] = v
	}

	return Box{XMin: coords[0], YMin: coords[1], XMax: coords[2], YMax: coords[3]}, nil
}

// Pixel values outside the int32 range are rejected as malformed.
const (
	minVOCInt = math.MinInt32
	maxVOCInt = math.MaxInt32
)

// parseVOCInt parses an integer element value. Decimal values are truncated toward zero, as some
// annotation tools write pixel coordinates as floats.
func parseVOCInt(raw *string) (int, error) {
	if raw == nil {
		return 0, errMissingField
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return 0, errMissingField
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v < minVOCInt || v > maxVOCInt {
			return 0, fmt.Errorf("invalid integer %q", s)
		}
		return int(v), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < minVOCInt || f > maxVOCInt {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(f), nil
}
