package config

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgtree/svgconv"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.NoError(t, cfg.Validate())

	// the defaults match the library ones
	opts := cfg.Convert.Options(nil)
	assert.Equal(t, svgconv.DefaultOptions(), opts)
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Convert.DPI = 0
	cfg.Convert.ErrorMode = "loud"
	cfg.Render.Width = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "convert.dpi must be positive")
	assert.Contains(t, err.Error(), `got "loud"`)
	assert.Contains(t, err.Error(), "render.width")
}

func TestLoadYAML(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	yaml := []byte(`
logger:
  level: debug
convert:
  dpi: 72
  error_mode: strict
render:
  width: 640
`)
	require.NoError(t, v.ReadConfig(bytes.NewReader(yaml)))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 640, cfg.Render.Width)

	opts := cfg.Convert.Options(nil)
	assert.Equal(t, 72.0, opts.DPI)
	assert.Equal(t, svgconv.StrictErrorMode, opts.ErrorMode)
	assert.Equal(t, 12.0, opts.FontSize) // default kept
}

func TestLoadInvalid(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("convert.max_depth", 0)

	_, err := Load(v)
	assert.ErrorContains(t, err, "convert.max_depth")
}
