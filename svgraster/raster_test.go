package svgraster

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/svgtree/svgconv"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

func parseTree(t *testing.T, content string) *svgtree.Tree {
	t.Helper()
	src := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">` + content + `</svg>`
	tree, err := svgconv.Parse(strings.NewReader(src), svgconv.DefaultOptions())
	require.NoError(t, err)
	return tree
}

var (
	transparent = color.RGBA{}
	opaqueRed   = color.RGBA{R: 0xff, A: 0xff}
	opaqueBlue  = color.RGBA{B: 0xff, A: 0xff}
)

func TestFilledRect(t *testing.T) {
	tree := parseTree(t, `<rect x="10" y="10" width="40" height="40" fill="red"/>`)

	img := RasterTree(tree, 100, 100, nil)
	assert.Equal(t, opaqueRed, img.RGBAAt(30, 30))
	assert.Equal(t, transparent, img.RGBAAt(80, 80))

	// the view box is scaled to the output size
	img = RasterTree(tree, 200, 200, nil)
	assert.Equal(t, opaqueRed, img.RGBAAt(90, 90))
	assert.Equal(t, transparent, img.RGBAAt(150, 150))
}

func TestGroupOpacity(t *testing.T) {
	tree := parseTree(t, `<g opacity="0.5"><rect width="100" height="100" fill="red"/></g>`)

	img := RasterTree(tree, 100, 100, nil)
	c := img.RGBAAt(50, 50)
	assert.InDelta(t, 128, int(c.A), 2)
	assert.Equal(t, c.A, c.R) // premultiplied
}

func TestStrokedLine(t *testing.T) {
	tree := parseTree(t, `<line x1="0" y1="50" x2="100" y2="50" stroke="blue" stroke-width="10"/>`)

	img := RasterTree(tree, 100, 100, nil)
	assert.Equal(t, opaqueBlue, img.RGBAAt(50, 50))
	assert.Equal(t, transparent, img.RGBAAt(50, 30))
}

func TestPaintOrder(t *testing.T) {
	tree := parseTree(t, `<rect x="20" y="20" width="60" height="60" fill="red" stroke="blue" stroke-width="20" paint-order="stroke"/>`)

	img := RasterTree(tree, 100, 100, nil)
	// the fill covers the inner half of the stroke
	assert.Equal(t, opaqueRed, img.RGBAAt(25, 50))
	assert.Equal(t, opaqueBlue, img.RGBAAt(15, 50))
}

func TestHidden(t *testing.T) {
	tree := parseTree(t, `<rect width="100" height="100" fill="red" visibility="hidden"/>`)

	img := RasterTree(tree, 100, 100, nil)
	assert.Equal(t, transparent, img.RGBAAt(50, 50))
}

func TestLinearGradient(t *testing.T) {
	tree := parseTree(t, `
	<linearGradient id="lg">
		<stop offset="0" stop-color="red"/>
		<stop offset="1" stop-color="blue"/>
	</linearGradient>
	<rect width="100" height="100" fill="url(#lg)"/>`)

	img := RasterTree(tree, 100, 100, nil)
	left, right := img.RGBAAt(5, 50), img.RGBAAt(95, 50)
	assert.Greater(t, left.R, left.B)
	assert.Greater(t, right.B, right.R)
	assert.Equal(t, uint8(0xff), left.A)
}

func TestEmbeddedImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			src.Set(x, y, color.NRGBA{R: 0xff, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	href := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	tree := parseTree(t, `<image x="20" y="20" width="60" height="60" href="`+href+`"/>`)

	img := RasterTree(tree, 100, 100, nil)
	assert.Equal(t, opaqueRed, img.RGBAAt(50, 50))
	assert.Equal(t, transparent, img.RGBAAt(5, 5))
}

type recorder struct{ starts, stops int }

func (r *recorder) Start(fixed.Point26_6) { r.starts++ }
func (r *recorder) Line(fixed.Point26_6) {}
func (r *recorder) QuadBezier(_, _ fixed.Point26_6) {}
func (r *recorder) CubeBezier(_, _, _ fixed.Point26_6) {}
func (r *recorder) Stop(bool) { r.stops++ }

func TestReplay(t *testing.T) {
	data, err := svgpath.ParsePathData("M 10 10 L 20 10 L 20 20 Z L 30 30 M 40 40 L 50 50")
	require.NoError(t, err)

	var rec recorder
	replay(&rec, data, svgpath.Identity)
	// the line after Z restarts a subpath
	assert.Equal(t, 3, rec.starts)
	assert.Equal(t, 3, rec.stops)
}
