package svgtree

import (
	"fmt"
	"image/color"

	"github.com/benoitkugler/svgtree/svgpath"
)

// Units is the coordinate system of a shared resource.
type Units uint8

const (
	UserSpaceOnUse Units = iota
	ObjectBoundingBox
)

func (u Units) String() string {
	switch u {
	case UserSpaceOnUse:
		return "userSpaceOnUse"
	case ObjectBoundingBox:
		return "objectBoundingBox"
	default:
		return "<unknown Units>"
	}
}

// Color is an opaque RGB color. The alpha channel of
// the source colors is stored separately, as an Opacity.
type Color struct{ R, G, B uint8 }

// SplitAlpha returns the RGB part of `c`, and its alpha as an opacity.
func SplitAlpha(c color.NRGBA) (Color, Opacity) {
	return Color{c.R, c.G, c.B}, NewOpacity(float64(c.A) / 255)
}

// NRGBA returns the color with the given opacity.
func (c Color) NRGBA(opacity Opacity) color.NRGBA {
	return color.NRGBA{c.R, c.G, c.B, uint8(float64(opacity)*255 + 0.5)}
}

func (c Color) String() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Paint is one of Color, *LinearGradient, *RadialGradient or *Pattern.
//
// Paints may be compared with == : colors are compared by value,
// paint servers by identity, so that two servers with the same content
// but defined separately are different.
type Paint interface {
	// Units returns false for colors
	Units() (Units, bool)
	isPaint()
}

func (Color) isPaint()           {}
func (*LinearGradient) isPaint() {}
func (*RadialGradient) isPaint() {}
func (*Pattern) isPaint()        {}

func (Color) Units() (Units, bool)             { return 0, false }
func (g *LinearGradient) Units() (Units, bool) { return g.GradientUnits, true }
func (g *RadialGradient) Units() (Units, bool) { return g.GradientUnits, true }
func (p *Pattern) Units() (Units, bool)        { return p.PatternUnits, true }

// SpreadMethod is the `spreadMethod` attribute of gradients.
type SpreadMethod uint8

const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

// Stop is a gradient stop, with an offset in [0, 1].
type Stop struct {
	Offset  float64
	Color   Color
	Opacity Opacity
}

// BaseGradient stores the attributes common to
// linear and radial gradients.
type BaseGradient struct {
	ID            string
	GradientUnits Units
	Transform     svgpath.Matrix2D
	Spread        SpreadMethod
	Stops         []Stop // at least two, with non decreasing offsets
}

// LinearGradient is a shared `linearGradient` definition.
type LinearGradient struct {
	BaseGradient
	X1, Y1, X2, Y2 float64
}

// RadialGradient is a shared `radialGradient` definition.
type RadialGradient struct {
	BaseGradient
	Cx, Cy float64
	R      float64 // strictly positive
	Fx, Fy float64
}

// Pattern is a shared `pattern` definition.
type Pattern struct {
	ID           string
	PatternUnits Units
	ContentUnits Units
	Transform    svgpath.Matrix2D
	Rect         svgpath.Rect
	ViewBox      *svgpath.ViewBox // optional
	// Root is a Group node holding the pattern content.
	Root *Node
}
