package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgtree/svgtree"
)

const sample = `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20">
	<g opacity="0.5"><rect id="r" width="10" height="10" fill="red"/></g>
	<circle cx="30" cy="10" r="5" fill="blue"/>
	<text>Hello  world</text>
	<foreignObject/>
</svg>`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.svg")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd, _ := newRootCmd()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInfo(t *testing.T) {
	out, err := execute(t, "info", writeSample(t))
	require.NoError(t, err)

	assert.Contains(t, out, "size: 40x20\n")
	assert.Contains(t, out, "view box: 0 0 40 20\n")
	assert.Contains(t, out, "groups: 2\n") // root and the opacity group
	assert.Contains(t, out, "paths: 2\n")
	assert.Contains(t, out, "texts: 1\n")
	assert.Contains(t, out, "bounding box: 0 0 ")
}

func TestStrictMode(t *testing.T) {
	_, err := execute(t, "info", "--error-mode", "strict", writeSample(t))
	assert.Error(t, err)

	_, err = execute(t, "info", "--error-mode", "loud", writeSample(t))
	assert.ErrorContains(t, err, "convert.error_mode")
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("convert:\n  error_mode: strict\n"), 0o644))

	_, err := execute(t, "info", "--config", cfg, writeSample(t))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SVGTREE_CONVERT_ERROR_MODE", "strict")

	_, err := execute(t, "info", writeSample(t))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	input := writeSample(t)
	output := filepath.Join(t.TempDir(), "out.png")

	_, err := execute(t, "render", input, "-o", output, "--width", "80")
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestPDF(t *testing.T) {
	input := writeSample(t)

	_, err := execute(t, "pdf", input)
	require.NoError(t, err)

	data, err := os.ReadFile(outputPath("", input, ".pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderSize(t *testing.T) {
	size := svgtree.Size{W: 100, H: 50}
	for _, test := range []struct {
		w, h       int
		expW, expH int
	}{
		{0, 0, 100, 50},
		{200, 0, 200, 100},
		{0, 10, 20, 10},
		{30, 30, 30, 30},
	} {
		w, h := renderSize(size, test.w, test.h)
		assert.Equal(t, test.expW, w)
		assert.Equal(t, test.expH, h)
	}
}
