package svgpath

import "math"

// Matrix2D represents an SVG style matrix
// [A C E]
// [B D F]
// [0 0 1]
// A point is mapped to (A*x + C*y + E, B*x + D*y + F).
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the identity matrix
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult returns a*b : `b` is applied first, then `a`.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Translate returns a translated by (x, y) in its own space.
func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

// Scale returns a scaled by (x, y) in its own space.
func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Rotate returns a rotated by theta, in radians.
func (a Matrix2D) Rotate(theta float64) Matrix2D {
	s, c := math.Sincos(theta)
	return a.Mult(Matrix2D{c, s, -s, c, 0, 0})
}

// SkewX returns a skewed along the x axis by theta, in radians.
func (a Matrix2D) SkewX(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, math.Tan(theta), 1, 0, 0})
}

// SkewY returns a skewed along the y axis by theta, in radians.
func (a Matrix2D) SkewY(theta float64) Matrix2D {
	return a.Mult(Matrix2D{1, math.Tan(theta), 0, 1, 0, 0})
}

// Det returns the determinant of the linear part.
func (a Matrix2D) Det() float64 { return a.A*a.D - a.B*a.C }

// IsInvertible returns false for degenerated matrices.
func (a Matrix2D) IsInvertible() bool {
	d := a.Det()
	return !FuzzyZero(d) && !math.IsNaN(d) && !math.IsInf(d, 0)
}

// Invert returns the inverse matrix. The result is meaningless
// if `a` is not invertible.
func (a Matrix2D) Invert() Matrix2D {
	det := a.Det()
	return Matrix2D{
		A: a.D / det,
		B: -a.B / det,
		C: -a.C / det,
		D: a.A / det,
		E: (a.C*a.F - a.D*a.E) / det,
		F: (a.B*a.E - a.A*a.F) / det,
	}
}

// Apply maps the point (x, y).
func (a Matrix2D) Apply(x, y float64) (float64, float64) {
	return a.A*x + a.C*y + a.E, a.B*x + a.D*y + a.F
}

// ApplyPoint maps the point p.
func (a Matrix2D) ApplyPoint(p Point) Point {
	x, y := a.Apply(p.X, p.Y)
	return Point{x, y}
}

// IsIdentity uses fuzzy comparison.
func (a Matrix2D) IsIdentity() bool { return a.FuzzyEq(Identity) }

// FuzzyEq compares each coefficient up to Epsilon.
func (a Matrix2D) FuzzyEq(b Matrix2D) bool {
	return FuzzyEq(a.A, b.A) && FuzzyEq(a.B, b.B) && FuzzyEq(a.C, b.C) &&
		FuzzyEq(a.D, b.D) && FuzzyEq(a.E, b.E) && FuzzyEq(a.F, b.F)
}

// MeanScale returns the geometric mean of the scale factors,
// used to map a length (such as a stroke width) through the matrix.
func (a Matrix2D) MeanScale() float64 {
	return math.Sqrt(math.Abs(a.Det()))
}
