// Converts PASCAL VOC annotations to YOLO labels and splits the dataset into train, validation and
// test sets.
package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sensorable/voc2yolo"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in the persistent pre-run hook.
var logger = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "voc2yolo",
	Short: "Convert PASCAL VOC annotations into a YOLO dataset",
	Long: `voc2yolo converts PASCAL VOC XML annotations into YOLO text labels and
randomly splits the annotated images into train, val and test sets:

  <output>/images/{train,val,test}/<name>.<ext>
  <output>/labels/{train,val,test}/<name>.txt

Settings are read from flags, VOC2YOLO_* environment variables and a
voc2yolo.yaml config file, in that order of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		configureLogger(logger, verbose, viper.GetString("log_file"))
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debugf("Using config file %s", f)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		_, err = voc2yolo.Run(cfg, logger)
		return err
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./voc2yolo.yaml or ~/.config/voc2yolo/voc2yolo.yaml)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("log-file", "", "also write the log to this `path`, rotated by size")
	bindFlags(map[string]string{
		"log_file": "log-file",
	}, pf)

	addRunFlags(rootCmd.Flags())
}

// addRunFlags defines the conversion flags on f and binds them to their config keys.
func addRunFlags(f *pflag.FlagSet) {
	defaults := voc2yolo.DefaultConfig()

	f.String("annotations", "", "the `dir` with the VOC XML annotation files")
	f.String("images", "", "the `dir` with the images")
	f.String("output", "", "the output dataset `dir`")
	f.StringSlice("classes", nil, "the class names in class ID order")
	f.String("classes-file", "", "a `file` listing the class names, one per line (used if --classes is empty)")
	f.StringSlice("label-map", nil, "`old=new` label replacements applied before the class lookup")
	f.Float64("train", defaults.Ratios.Train, "the fraction of files in the train set")
	f.Float64("val", defaults.Ratios.Val, "the fraction of files in the validation set")
	f.Float64("test", defaults.Ratios.Test, "the fraction of files in the test set")
	f.Int64("seed", 0, "the random seed for the split (default: time based)")
	f.String("annotation-ext", defaults.AnnotationExt, "the annotation file extension")
	f.StringSlice("image-exts", defaults.ImageExts, "the image file extensions to try, in order")
	f.Bool("strict-boxes", false, "skip objects with inverted or out of bounds boxes")
	f.Bool("size-from-image", false, "read the image size from the image if the annotation lacks it")
	f.Int("resize-longer", 0, "resize images so the longer side has this `length` (0 keeps the aspect ratio)")
	f.Int("resize-shorter", 0, "resize images so the shorter side has this `length` (0 keeps the aspect ratio)")
	f.String("downsample-filter", "box", "the downsampling filter {nearest, box, linear, gaussian, lanczos}")
	f.String("upsample-filter", "linear", "the upsampling filter {nearest, box, linear, gaussian, lanczos}")
	f.Int("jpeg-quality", 90, "the JPEG quality for resized images [1, 100]")
	f.Bool("write-dataset-yaml", defaults.WriteDatasetYAML, "write "+voc2yolo.DatasetFileName+" to the output dir")
	f.Bool("write-manifest", defaults.WriteManifest, "write "+voc2yolo.ManifestFileName+" to the output dir")

	bindFlags(map[string]string{
		"annotations_dir":          "annotations",
		"images_dir":               "images",
		"output_dir":               "output",
		"classes":                  "classes",
		"classes_file":             "classes-file",
		"label_map":                "label-map",
		"ratios.train":             "train",
		"ratios.val":               "val",
		"ratios.test":              "test",
		"annotation_ext":           "annotation-ext",
		"image_exts":               "image-exts",
		"strict_boxes":             "strict-boxes",
		"size_from_image":          "size-from-image",
		"resize.longer":            "resize-longer",
		"resize.shorter":           "resize-shorter",
		"resize.downsample_filter": "downsample-filter",
		"resize.upsample_filter":   "upsample-filter",
		"resize.jpeg_quality":      "jpeg-quality",
		"write_dataset_yaml":       "write-dataset-yaml",
		"write_manifest":           "write-manifest",
	}, f)
}

// bindFlags binds each viper key to the named flag in fs.
func bindFlags(keys map[string]string, fs *pflag.FlagSet) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("voc2yolo")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "voc2yolo"))
		}
	}

	bindEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			logger.WithError(err).Warn("Could not read the config file")
		}
	}
}

// bindEnv makes every config key overridable by a VOC2YOLO_<KEY> environment variable, with dots
// in nested keys replaced by underscores.
func bindEnv() {
	viper.SetEnvPrefix("VOC2YOLO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// loadConfig assembles the run configuration from viper and the seed flag in flags.
func loadConfig(flags *pflag.FlagSet) (voc2yolo.Config, error) {
	cfg := voc2yolo.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return voc2yolo.Config{}, err
	}

	// The seed is optional, so it is only taken from an explicit flag, env var or config entry.
	cfg.Seed = nil
	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		cfg.Seed = &seed
	} else if viper.IsSet("seed") {
		seed := viper.GetInt64("seed")
		cfg.Seed = &seed
	}

	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Error("voc2yolo failed")
		os.Exit(1)
	}
}
