package voc2yolo

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG writes a width x height image to dir/name and returns the path.
func writePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, x%height, color.RGBA{R: 255, A: 255})
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestCopyImage_Verbatim(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "src.png", 40, 20)
	dst := filepath.Join(dir, "dst.png")

	require.NoError(t, CopyImage(src, dst, ResizeOptions{}))

	want, err := os.ReadFile(src)
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCopyImage_Resize(t *testing.T) {
	tests := []struct {
		name                  string
		width, height         int
		opts                  ResizeOptions
		wantWidth, wantHeight int
	}{
		{
			name:  "landscape by longer side",
			width: 64, height: 32,
			opts:      ResizeOptions{Longer: 32},
			wantWidth: 32, wantHeight: 16,
		},
		{
			name:  "portrait by shorter side",
			width: 20, height: 40,
			opts:      ResizeOptions{Shorter: 40, UpsampleFilter: "lanczos"},
			wantWidth: 40, wantHeight: 80,
		},
		{
			name:  "both sides",
			width: 30, height: 30,
			opts:      ResizeOptions{Longer: 20, Shorter: 10, DownsampleFilter: "nearest"},
			wantWidth: 20, wantHeight: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writePNG(t, dir, "src.png", tt.width, tt.height)
			dst := filepath.Join(dir, "dst.png")

			require.NoError(t, CopyImage(src, dst, tt.opts))

			cfg, err := decodeImageConfig(dst)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWidth, cfg.Width)
			assert.Equal(t, tt.wantHeight, cfg.Height)
		})
	}
}

func TestCopyImage_Errors(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "src.png", 8, 8)

	err := CopyImage(src, filepath.Join(dir, "a.png"), ResizeOptions{Longer: 4, DownsampleFilter: "bicubic"})
	assert.EqualError(t, err, `unknown resampling filter "bicubic"`)

	notImage := writeFile(t, dir, "fake.png", "not a png")
	err = CopyImage(notImage, filepath.Join(dir, "b.png"), ResizeOptions{Longer: 4})
	assert.Error(t, err)
}

func TestDecodeImageConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := decodeImageConfig(writePNG(t, dir, "src.png", 12, 7))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Width)
	assert.Equal(t, 7, cfg.Height)

	_, err = decodeImageConfig(writeFile(t, dir, "fake.png", "not a png"))
	assert.ErrorContains(t, err, "cannot decode the image header")

	_, err = decodeImageConfig(filepath.Join(dir, "missing.png"))
	assert.True(t, isNotExist(err))
}
