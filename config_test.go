package voc2yolo

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.AnnotationsDir = filepath.Join(root, "annotations")
	cfg.ImagesDir = filepath.Join(root, "images")
	cfg.OutputDir = filepath.Join(root, "yolo")
	cfg.Classes = []string{"pothole"}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultRatios, cfg.Ratios)
	assert.Equal(t, ".xml", cfg.AnnotationExt)
	assert.Equal(t, []string{".jpg", ".jpeg", ".png"}, cfg.ImageExts)
	assert.Nil(t, cfg.Seed)
	assert.False(t, cfg.Resize.Enabled())
	assert.True(t, cfg.WriteDatasetYAML)
	assert.True(t, cfg.WriteManifest)

	cfg.ImageExts[0] = ".bmp"
	assert.Equal(t, ".jpg", DefaultImageExts[0], "defaults are copied")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "valid", modify: func(c *Config) {}},
		{name: "classes file instead of classes", modify: func(c *Config) {
			c.Classes = nil
			c.ClassesFile = "classes.txt"
		}},
		{name: "uneven ratios are accepted", modify: func(c *Config) { c.Ratios = Ratios{Train: 0.5} }},
		{name: "missing annotations dir", modify: func(c *Config) { c.AnnotationsDir = "" }, wantErr: true},
		{name: "missing images dir", modify: func(c *Config) { c.ImagesDir = "" }, wantErr: true},
		{name: "missing output dir", modify: func(c *Config) { c.OutputDir = "" }, wantErr: true},
		{name: "no classes", modify: func(c *Config) { c.Classes = nil }, wantErr: true},
		{name: "duplicate classes", modify: func(c *Config) { c.Classes = []string{"a", "a"} }, wantErr: true},
		{name: "empty class name", modify: func(c *Config) { c.Classes = []string{"a", ""} }, wantErr: true},
		{name: "ratio out of range", modify: func(c *Config) { c.Ratios.Train = 1.5 }, wantErr: true},
		{name: "negative ratio", modify: func(c *Config) { c.Ratios.Val = -0.1 }, wantErr: true},
		{name: "annotation ext without dot", modify: func(c *Config) { c.AnnotationExt = "xml" }, wantErr: true},
		{name: "no image exts", modify: func(c *Config) { c.ImageExts = nil }, wantErr: true},
		{name: "image ext without dot", modify: func(c *Config) { c.ImageExts = []string{".jpg", "png"} }, wantErr: true},
		{name: "bad label map", modify: func(c *Config) { c.LabelMap = []string{"nomapping"} }, wantErr: true},
		{name: "output equals images dir", modify: func(c *Config) { c.OutputDir = c.ImagesDir + "/" }, wantErr: true},
		{name: "bad resize filter", modify: func(c *Config) { c.Resize.UpsampleFilter = "cubic" }, wantErr: true},
		{name: "bad jpeg quality", modify: func(c *Config) { c.Resize.JPEGQuality = 101 }, wantErr: true},
		{name: "negative resize", modify: func(c *Config) { c.Resize.Longer = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ClassRegistry(t *testing.T) {
	cfg := validConfig(t)
	cfg.Classes = []string{"a", "b"}
	reg, err := cfg.ClassRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, reg.Names())

	dir := t.TempDir()
	cfg.Classes = nil
	cfg.ClassesFile = writeFile(t, dir, "classes.txt", "x\ny\n")
	reg, err = cfg.ClassRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, reg.Names())

	cfg.ClassesFile = writeFile(t, dir, "empty.txt", "# nothing\n")
	_, err = cfg.ClassRegistry()
	assert.Error(t, err)
}
