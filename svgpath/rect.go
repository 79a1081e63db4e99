package svgpath

import "math"

// Epsilon is the tolerance used by every fuzzy comparison
// of the module (dash array sums, bounding boxes, transforms).
const Epsilon = 1e-5

// FuzzyEq returns true if a and b are equal up to Epsilon.
func FuzzyEq(a, b float64) bool { return math.Abs(a-b) <= Epsilon }

// FuzzyZero returns true if a is zero up to Epsilon.
func FuzzyZero(a float64) bool { return FuzzyEq(a, 0) }

// Point is a 2D point in user space.
type Point struct{ X, Y float64 }

// Rect is a rectangle with strictly positive size.
type Rect struct{ X, Y, W, H float64 }

// NewRect returns false if the size is not strictly positive.
func NewRect(x, y, w, h float64) (Rect, bool) {
	if !(w > 0 && h > 0) {
		return Rect{}, false
	}
	return Rect{x, y, w, h}, true
}

// Right returns X+W
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns Y+H
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Bbox is the bounding box of a path : unlike Rect, one of the width and
// height may be zero (for horizontal or vertical lines), but not both.
type Bbox struct{ X, Y, W, H float64 }

// NewBbox returns false if both dimensions are zero or
// if one of them is negative.
func NewBbox(x, y, w, h float64) (Bbox, bool) {
	if w < 0 || h < 0 || (FuzzyZero(w) && FuzzyZero(h)) {
		return Bbox{}, false
	}
	if math.IsNaN(x+y+w+h) || math.IsInf(x+y+w+h, 0) {
		return Bbox{}, false
	}
	return Bbox{x, y, w, h}, true
}

// bboxFromExtrema is a shortcut for NewBbox(minX, minY, maxX-minX, maxY-minY)
func bboxFromExtrema(minX, minY, maxX, maxY float64) (Bbox, bool) {
	return NewBbox(minX, minY, maxX-minX, maxY-minY)
}

// Right returns X+W
func (b Bbox) Right() float64 { return b.X + b.W }

// Bottom returns Y+H
func (b Bbox) Bottom() float64 { return b.Y + b.H }

// Expand returns the union of the two boxes.
func (b Bbox) Expand(other Bbox) Bbox {
	minX, minY := math.Min(b.X, other.X), math.Min(b.Y, other.Y)
	maxX, maxY := math.Max(b.Right(), other.Right()), math.Max(b.Bottom(), other.Bottom())
	return Bbox{minX, minY, maxX - minX, maxY - minY}
}

// Outset grows the box by d on each side.
func (b Bbox) Outset(d float64) Bbox {
	return Bbox{b.X - d, b.Y - d, b.W + 2*d, b.H + 2*d}
}

// Transform returns the box enclosing the four transformed corners.
func (b Bbox) Transform(m Matrix2D) (Bbox, bool) {
	if m.IsIdentity() {
		return b, true
	}
	pts := [4]Point{
		m.ApplyPoint(Point{b.X, b.Y}),
		m.ApplyPoint(Point{b.Right(), b.Y}),
		m.ApplyPoint(Point{b.Right(), b.Bottom()}),
		m.ApplyPoint(Point{b.X, b.Bottom()}),
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	return bboxFromExtrema(minX, minY, maxX, maxY)
}

// ToRect returns false if one of the dimension is zero.
func (b Bbox) ToRect() (Rect, bool) { return NewRect(b.X, b.Y, b.W, b.H) }

// FuzzyEq compares the boxes up to Epsilon.
func (b Bbox) FuzzyEq(other Bbox) bool {
	return FuzzyEq(b.X, other.X) && FuzzyEq(b.Y, other.Y) &&
		FuzzyEq(b.W, other.W) && FuzzyEq(b.H, other.H)
}
