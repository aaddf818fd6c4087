package voc2yolo

// YOLO label specific functionality.

import "fmt"

// Box is an axis-aligned bounding box in absolute pixel coordinates, measured from the top-left
// corner of the image.
type Box struct {
	XMin, YMin, XMax, YMax int
}

// Width is the box width in pixels.
func (b Box) Width() int {
	return b.XMax - b.XMin
}

// Height is the box height in pixels.
func (b Box) Height() int {
	return b.YMax - b.YMin
}

// Inverted reports whether the minimum coordinate exceeds the maximum on either axis.
func (b Box) Inverted() bool {
	return b.XMin > b.XMax || b.YMin > b.YMax
}

// Within reports whether b lies inside an image of the given size.
func (b Box) Within(width, height int) bool {
	return b.XMin >= 0 && b.YMin >= 0 && b.XMax <= width && b.YMax <= height
}

// YOLOBox is a bounding box in the normalized center/size form used by YOLO labels.
type YOLOBox struct {
	XCenter, YCenter, Width, Height float64
}

// ToYOLO normalizes the absolute box b by the image width and height.
//
// No clamping is done, so boxes outside the image yield values outside [0, 1]. The caller must
// ensure that width and height are positive.
func ToYOLO(width, height int, b Box) YOLOBox {
	w := float64(width)
	h := float64(height)
	return YOLOBox{
		XCenter: (float64(b.XMin) + float64(b.XMax)) / (2 * w),
		YCenter: (float64(b.YMin) + float64(b.YMax)) / (2 * h),
		Width:   (float64(b.XMax) - float64(b.XMin)) / w,
		Height:  (float64(b.YMax) - float64(b.YMin)) / h,
	}
}

// Line formats the box as a single YOLO label line for classID, including the trailing newline.
func (y YOLOBox) Line(classID int) string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f\n", classID, y.XCenter, y.YCenter, y.Width, y.Height)
}

// Expand maps the normalized box back to absolute x1, y1, x2, y2 coordinates.
func (y YOLOBox) Expand(width, height int) [4]float64 {
	w := float64(width)
	h := float64(height)
	return [4]float64{
		(y.XCenter - y.Width/2) * w,
		(y.YCenter - y.Height/2) * h,
		(y.XCenter + y.Width/2) * w,
		(y.YCenter + y.Height/2) * h,
	}
}
