package svgpath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixMult(t *testing.T) {
	m := Identity.Translate(10, 20).Scale(2, 3)
	x, y := m.Apply(1, 1)
	assert.InDelta(t, 12., x, Epsilon)
	assert.InDelta(t, 23., y, Epsilon)

	// b applied first
	a := Identity.Translate(5, 0)
	b := Identity.Scale(2, 2)
	x, y = a.Mult(b).Apply(1, 1)
	assert.InDelta(t, 7., x, Epsilon)
	assert.InDelta(t, 2., y, Epsilon)

	assert.True(t, Identity.IsIdentity())
	assert.False(t, m.IsIdentity())
}

func TestMatrixInvert(t *testing.T) {
	m := Identity.Translate(3, -4).Rotate(math.Pi / 5).Scale(2, 0.5).SkewX(0.3)
	require.True(t, m.IsInvertible())
	assert.True(t, m.Mult(m.Invert()).FuzzyEq(Identity))
	assert.False(t, Identity.Scale(0, 1).IsInvertible())
}

func TestBboxValidity(t *testing.T) {
	_, ok := NewBbox(0, 0, 0, 0)
	assert.False(t, ok)
	_, ok = NewBbox(0, 0, 10, 0)
	assert.True(t, ok)
	_, ok = NewBbox(0, 0, -1, 5)
	assert.False(t, ok)

	_, ok = NewRect(0, 0, 10, 0)
	assert.False(t, ok)
}

func TestBboxExpand(t *testing.T) {
	a := Bbox{0, 0, 10, 10}
	b := Bbox{5, -5, 20, 2}
	assert.True(t, a.Expand(b).FuzzyEq(Bbox{0, -5, 25, 15}))
}

func TestPathBbox(t *testing.T) {
	var p Path
	p.AddRect(10, 20, 30, 40)
	bb, ok := p.Bbox()
	require.True(t, ok)
	assert.True(t, bb.FuzzyEq(Bbox{10, 20, 30, 40}))

	// the control points of a cubic are not part of the box
	p = Path{MoveTo{0, 0}, CubicTo{{0, 100}, {100, 100}, {100, 0}}}
	bb, ok = p.Bbox()
	require.True(t, ok)
	assert.InDelta(t, 75., bb.H, 1e-9)
	assert.InDelta(t, 100., bb.W, 1e-9)

	var e Path
	e.AddEllipse(50, 50, 20, 10)
	bb, ok = e.Bbox()
	require.True(t, ok)
	assert.InDelta(t, 30., bb.X, 1e-6)
	assert.InDelta(t, 40., bb.W, 1e-6)
	assert.InDelta(t, 20., bb.H, 1e-6)

	_, ok = Path{MoveTo{10, 10}, LineTo{10, 10}}.Bbox()
	assert.False(t, ok)
	_, ok = Path{}.Bbox()
	assert.False(t, ok)
}

func TestBboxWithTransform(t *testing.T) {
	var p Path
	p.AddRect(0, 0, 10, 10)
	bb, ok := p.BboxWithTransform(Identity.Translate(5, 5).Scale(2, 2), 0)
	require.True(t, ok)
	assert.True(t, bb.FuzzyEq(Bbox{5, 5, 20, 20}))

	bb, ok = p.BboxWithTransform(Identity, 2)
	require.True(t, ok)
	assert.True(t, bb.FuzzyEq(Bbox{-1, -1, 12, 12}))
}

func TestParsePathData(t *testing.T) {
	for _, test := range []struct {
		d        string
		expected string
	}{
		{"M10 20 L30 40", "M10.000,20.000 L30.000,40.000"},
		{"m10,20 l5,5 h5 v-10 z", "M10.000,20.000 L15.000,25.000 L20.000,25.000 L20.000,15.000 Z"},
		{"M0 0 10 10 20 0", "M0.000,0.000 L10.000,10.000 L20.000,0.000"},
		{"M0-1.5.5.5", "M0.000,-1.500 L0.500,0.500"},
		{"M0 0Q10 10 20 0T40 0", "M0.000,0.000 Q10.000,10.000,20.000,0.000 Q30.000,-10.000,40.000,0.000"},
		{"M0 0C0 10 10 10 10 0S20 -10 20 0", "M0.000,0.000 C0.000,10.000,10.000,10.000,10.000,0.000 C10.000,-10.000,20.000,-10.000,20.000,0.000"},
		{"M0 0 H10 Z L5 5", "M0.000,0.000 L10.000,0.000 Z M0.000,0.000 L5.000,5.000"},
	} {
		p, err := ParsePathData(test.d)
		assert.NoError(t, err, test.d)
		assert.Equal(t, test.expected, p.String(), test.d)
	}
}

func TestParsePathDataArc(t *testing.T) {
	p, err := ParsePathData("M0 0 A10 10 0 0 1 20 0")
	require.NoError(t, err)
	bb, ok := p.Bbox()
	require.True(t, ok)
	assert.InDelta(t, 20., bb.W, 1e-4)
	assert.InDelta(t, 10., bb.H, 1e-2)

	// compact flags
	p, err = ParsePathData("M0 0a10 10 0 1020 0")
	require.NoError(t, err)
	assert.Greater(t, len(p), 1)

	// zero radius is a line
	p, err = ParsePathData("M0 0 A0 10 0 0 1 20 0")
	require.NoError(t, err)
	assert.Equal(t, "M0.000,0.000 L20.000,0.000", p.String())
}

func TestParsePathDataError(t *testing.T) {
	p, err := ParsePathData("M10 10 L20 20 L30")
	assert.Error(t, err)
	assert.Equal(t, 2, len(p)) // segments before the error are kept

	_, err = ParsePathData("L10 10")
	assert.Error(t, err)

	_, err = ParsePathData("M10 10 X")
	assert.Error(t, err)
}
