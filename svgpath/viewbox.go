package svgpath

import "math"

// Align is the alignment value of the preserveAspectRatio attribute.
type Align uint8

const (
	AlignXMidYMid Align = iota // default
	AlignNone
	AlignXMinYMin
	AlignXMidYMin
	AlignXMaxYMin
	AlignXMinYMid
	AlignXMaxYMid
	AlignXMinYMax
	AlignXMidYMax
	AlignXMaxYMax
)

// AspectRatio is the parsed form of preserveAspectRatio.
// Its zero value is the SVG default, "xMidYMid meet".
type AspectRatio struct {
	Align Align
	Slice bool
}

// ViewBox is a viewBox rectangle with its aspect policy.
type ViewBox struct {
	Rect   Rect
	Aspect AspectRatio
}

// alignOffsets returns the relative position (0, 0.5 or 1)
// on each axis.
func (a Align) alignOffsets() (fx, fy float64) {
	switch a {
	case AlignXMinYMin:
		return 0, 0
	case AlignXMidYMin:
		return 0.5, 0
	case AlignXMaxYMin:
		return 1, 0
	case AlignXMinYMid:
		return 0, 0.5
	case AlignXMaxYMid:
		return 1, 0.5
	case AlignXMinYMax:
		return 0, 1
	case AlignXMidYMax:
		return 0.5, 1
	case AlignXMaxYMax:
		return 1, 1
	default:
		return 0.5, 0.5
	}
}

// Transform returns the matrix mapping the view box
// to a viewport of size (w, h) placed at the origin.
func (vb ViewBox) Transform(w, h float64) Matrix2D {
	sx, sy := w/vb.Rect.W, h/vb.Rect.H
	if vb.Aspect.Align == AlignNone {
		return Identity.Scale(sx, sy).Translate(-vb.Rect.X, -vb.Rect.Y)
	}
	s := math.Min(sx, sy)
	if vb.Aspect.Slice {
		s = math.Max(sx, sy)
	}
	fx, fy := vb.Aspect.Align.alignOffsets()
	dx := (w - vb.Rect.W*s) * fx
	dy := (h - vb.Rect.H*s) * fy
	return Identity.Translate(dx, dy).Scale(s, s).Translate(-vb.Rect.X, -vb.Rect.Y)
}
