// Package config holds the settings of the command line tool,
// loaded with viper from flags, a YAML file and SVGTREE_* variables.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgconv"
	"github.com/benoitkugler/svgtree/svgtree"
)

// Config is the root of the configuration file.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Convert ConvertConfig `mapstructure:"convert" yaml:"convert"`
	Render  RenderConfig  `mapstructure:"render" yaml:"render"`
}

// LoggerConfig configures the console logger and the optional rotated file.
type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"` // console or json
	AddSource  bool   `mapstructure:"add_source" yaml:"add_source"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// ConvertConfig mirrors svgconv.Options.
type ConvertConfig struct {
	DPI           float64 `mapstructure:"dpi" yaml:"dpi"`
	FontSize      float64 `mapstructure:"font_size" yaml:"font_size"`
	DefaultWidth  float64 `mapstructure:"default_width" yaml:"default_width"`
	DefaultHeight float64 `mapstructure:"default_height" yaml:"default_height"`
	ResourcesDir  string  `mapstructure:"resources_dir" yaml:"resources_dir"`
	ErrorMode     string  `mapstructure:"error_mode" yaml:"error_mode"`
	MaxDepth      int     `mapstructure:"max_depth" yaml:"max_depth"`
}

// RenderConfig is used by the raster output.
// A zero dimension is taken from the tree size.
type RenderConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// SetDefaults registers the default values, matching svgconv.DefaultOptions.
func SetDefaults(v *viper.Viper) {
	def := svgconv.DefaultOptions()

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", true)

	v.SetDefault("convert.dpi", def.DPI)
	v.SetDefault("convert.font_size", def.FontSize)
	v.SetDefault("convert.default_width", def.DefaultSize.W)
	v.SetDefault("convert.default_height", def.DefaultSize.H)
	v.SetDefault("convert.resources_dir", "")
	v.SetDefault("convert.error_mode", def.ErrorMode.String())
	v.SetDefault("convert.max_depth", def.MaxDepth)

	v.SetDefault("render.width", 0)
	v.SetDefault("render.height", 0)
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load unmarshals and validates the settings held by `v`.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values which can't be safely defaulted.
func (c *Config) Validate() error {
	var errs []error
	if c.Convert.DPI <= 0 {
		errs = append(errs, errors.New("convert.dpi must be positive"))
	}
	if c.Convert.FontSize <= 0 {
		errs = append(errs, errors.New("convert.font_size must be positive"))
	}
	if c.Convert.DefaultWidth <= 0 || c.Convert.DefaultHeight <= 0 {
		errs = append(errs, errors.New("convert.default_width and convert.default_height must be positive"))
	}
	if _, ok := svgconv.ParseErrorMode(c.Convert.ErrorMode); !ok {
		errs = append(errs, fmt.Errorf("convert.error_mode must be one of ignore, warn or strict, got %q", c.Convert.ErrorMode))
	}
	if c.Convert.MaxDepth <= 0 {
		errs = append(errs, errors.New("convert.max_depth must be a positive integer"))
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		errs = append(errs, errors.New("render.width and render.height must not be negative"))
	}
	return errors.Join(errs...)
}

// Options returns the conversion options, logging to `logger`.
// The config is expected to be valid.
func (c ConvertConfig) Options(logger *zap.Logger) svgconv.Options {
	mode, _ := svgconv.ParseErrorMode(c.ErrorMode)
	return svgconv.Options{
		DPI:          c.DPI,
		FontSize:     c.FontSize,
		DefaultSize:  svgtree.Size{W: c.DefaultWidth, H: c.DefaultHeight},
		ResourcesDir: c.ResourcesDir,
		ErrorMode:    mode,
		MaxDepth:     c.MaxDepth,
		Logger:       logger,
	}
}
