package voc2yolo

import (
	"fmt"
	"image"
	_ "image/jpeg" // Registers the JPEG decoder for image.DecodeConfig.
	_ "image/png"  // Registers the PNG decoder for image.DecodeConfig.
	"math"
	"os"

	"github.com/disintegration/imaging"
)

// ResizeOptions control optional resampling of images while they are copied into the dataset.
//
// YOLO labels are normalized to the image size, so they remain valid for the resized images.
type ResizeOptions struct {
	Longer           int    `mapstructure:"longer" yaml:"longer" validate:"gte=0"`
	Shorter          int    `mapstructure:"shorter" yaml:"shorter" validate:"gte=0"`
	DownsampleFilter string `mapstructure:"downsample_filter" yaml:"downsample_filter" validate:"omitempty,oneof=nearest box linear gaussian lanczos"`
	UpsampleFilter   string `mapstructure:"upsample_filter" yaml:"upsample_filter" validate:"omitempty,oneof=nearest box linear gaussian lanczos"`
	JPEGQuality      int    `mapstructure:"jpeg_quality" yaml:"jpeg_quality" validate:"omitempty,gte=1,lte=100"`
}

// Enabled reports whether images are resized rather than copied verbatim.
func (o ResizeOptions) Enabled() bool {
	return o.Longer > 0 || o.Shorter > 0
}

// resampleFilter returns the imaging filter with the given name.
func resampleFilter(name string, fallback imaging.ResampleFilter) (imaging.ResampleFilter, error) {
	switch name {
	case "":
		return fallback, nil
	case "nearest":
		return imaging.NearestNeighbor, nil
	case "box":
		return imaging.Box, nil
	case "linear":
		return imaging.Linear, nil
	case "gaussian":
		return imaging.Gaussian, nil
	case "lanczos":
		return imaging.Lanczos, nil
	}
	return imaging.ResampleFilter{}, fmt.Errorf("unknown resampling filter %q", name)
}

// CopyImage places the image at src into dst. Without resizing the file is copied byte by byte.
// Otherwise it is decoded, resampled and encoded again in the format implied by the extension of
// dst.
func CopyImage(src, dst string, opts ResizeOptions) error {
	if !opts.Enabled() {
		return copyFile(src, dst)
	}

	downsample, err := resampleFilter(opts.DownsampleFilter, imaging.Box)
	if err != nil {
		return err
	}
	upsample, err := resampleFilter(opts.UpsampleFilter, imaging.Linear)
	if err != nil {
		return err
	}
	quality := opts.JPEGQuality
	if quality == 0 {
		quality = 90
	}

	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("failed to decode %q: %w", src, err)
	}
	resized := resizeImage(img, opts.Longer, opts.Shorter, downsample, upsample)
	if err := imaging.Save(resized, dst, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode %q: %w", dst, err)
	}
	return nil
}

// resizeImage resamples the image to match the longer and shorter sides (one may be 0, in which
// case the aspect ratio is kept).
func resizeImage(img image.Image, longerSide, shorterSide int,
		downsamplingFilter, upsamplingFilter imaging.ResampleFilter) image.Image {

	imgBounds := img.Bounds()
	imgWidth := imgBounds.Dx()
	imgHeight := imgBounds.Dy()

	imgLonger := imgWidth
	imgShorter := imgHeight
	isLandscape := true
	if imgHeight > imgWidth {
		imgLonger = imgHeight
		imgShorter = imgWidth
		isLandscape = false
	}

	// Calculate the target dimensions.
	if longerSide <= 0 {
		longerSide = int(math.Round(float64(shorterSide) * (float64(imgLonger) / float64(imgShorter))))
	} else if shorterSide <= 0 {
		shorterSide = int(math.Round(float64(longerSide) * (float64(imgShorter) / float64(imgLonger))))
	}

	// Select the filter based on the direction of the rescaling operation.
	filter := upsamplingFilter
	if longerSide*shorterSide < imgWidth*imgHeight {
		filter = downsamplingFilter
	}

	if isLandscape {
		return imaging.Resize(img, longerSide, shorterSide, filter)
	}
	return imaging.Resize(img, shorterSide, longerSide, filter)
}

// decodeImageConfig reads the dimensions of the image at path from its header.
func decodeImageConfig(path string) (cfg image.Config, err error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer closeWithErrCheck(f, &err)

	if cfg, _, err = image.DecodeConfig(f); err != nil {
		return image.Config{}, fmt.Errorf("cannot decode the image header of %q: %w", path, err)
	}
	return cfg, nil
}
