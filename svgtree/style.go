package svgtree

import "math"

// Opacity is a number in [0, 1].
type Opacity float64

// NewOpacity clamps `v` to [0, 1]. NaN is mapped to 0.
func NewOpacity(v float64) Opacity {
	if !(v > 0) {
		return 0
	}
	return Opacity(math.Min(v, 1))
}

// OpacityOne is the fully opaque value.
const OpacityOne Opacity = 1

// StrokeWidth is a strictly positive width.
type StrokeWidth float64

// NewStrokeWidth returns false if `v` is not strictly positive.
func NewStrokeWidth(v float64) (StrokeWidth, bool) {
	if !(v > 0) || math.IsInf(v, 0) {
		return 0, false
	}
	return StrokeWidth(v), true
}

// StrokeMiterlimit is a miter limit, always >= 1.
type StrokeMiterlimit float64

// NewStrokeMiterlimit clamps `v` to [1, +inf[. NaN is mapped to 1.
func NewStrokeMiterlimit(v float64) StrokeMiterlimit {
	if !(v >= 1) {
		return 1
	}
	return StrokeMiterlimit(v)
}

// DefaultMiterlimit is the initial value of stroke-miterlimit.
const DefaultMiterlimit StrokeMiterlimit = 4

// FillRule is the `fill-rule` or `clip-rule` property.
type FillRule uint8

const (
	NonZero FillRule = iota
	EvenOdd
)

func (f FillRule) String() string {
	switch f {
	case NonZero:
		return "NonZero"
	case EvenOdd:
		return "EvenOdd"
	default:
		return "<unknown FillRule>"
	}
}

// LineCap is the `stroke-linecap` property.
type LineCap uint8

const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
)

func (c LineCap) String() string {
	switch c {
	case ButtCap:
		return "ButtCap"
	case RoundCap:
		return "RoundCap"
	case SquareCap:
		return "SquareCap"
	default:
		return "<unknown LineCap>"
	}
}

// LineJoin is the `stroke-linejoin` property.
type LineJoin uint8

const (
	MiterJoin LineJoin = iota
	RoundJoin
	BevelJoin
)

func (j LineJoin) String() string {
	switch j {
	case MiterJoin:
		return "MiterJoin"
	case RoundJoin:
		return "RoundJoin"
	case BevelJoin:
		return "BevelJoin"
	default:
		return "<unknown LineJoin>"
	}
}

// Fill is a resolved fill style.
type Fill struct {
	Paint   Paint
	Opacity Opacity
	Rule    FillRule
}

// DefaultFill is an opaque black, non-zero fill.
func DefaultFill() Fill {
	return Fill{Paint: Color{0, 0, 0}, Opacity: OpacityOne, Rule: NonZero}
}

// Stroke is a resolved stroke style.
type Stroke struct {
	Paint      Paint
	Dasharray  []float64 // nil for no dashing, or an even number of non-negative values
	Dashoffset float64
	Miterlimit StrokeMiterlimit
	Opacity    Opacity
	Width      StrokeWidth
	Linecap    LineCap
	Linejoin   LineJoin
}

// Visibility is the `visibility` property.
type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
	Collapse
)

// PaintOrder is the `paint-order` property.
// Markers are not supported, so only two orders are possible.
type PaintOrder uint8

const (
	FillAndStroke PaintOrder = iota
	StrokeAndFill
)

// ShapeRendering is the `shape-rendering` property.
type ShapeRendering uint8

const (
	GeometricPrecision ShapeRendering = iota // default
	OptimizeSpeed
	CrispEdges
)

// UseAntialiasing returns false for OptimizeSpeed and CrispEdges.
func (s ShapeRendering) UseAntialiasing() bool { return s == GeometricPrecision }

// ImageRendering is the `image-rendering` property.
type ImageRendering uint8

const (
	OptimizeQuality ImageRendering = iota
	OptimizeSpeedImage
)

// BlendMode is the `mix-blend-mode` property.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

var blendModeNames = [...]string{
	"normal", "multiply", "screen", "overlay", "darken", "lighten", "color-dodge", "color-burn",
	"hard-light", "soft-light", "difference", "exclusion", "hue", "saturation", "color", "luminosity",
}

// String returns the CSS keyword of the mode.
func (b BlendMode) String() string {
	if int(b) < len(blendModeNames) {
		return blendModeNames[b]
	}
	return "<unknown BlendMode>"
}

// ParseBlendMode returns false for unknown keywords.
func ParseBlendMode(s string) (BlendMode, bool) {
	for i, name := range blendModeNames {
		if name == s {
			return BlendMode(i), true
		}
	}
	return BlendNormal, false
}
