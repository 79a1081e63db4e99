package svgpath

import (
	"math"
)

// compute the tight bouding box of a path, needed by the object bounding box
// paint servers and by the renderers

type bezier interface {
	// compute the t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// compute the point a time t
	evaluateCurve(t float64) (x, y float64)
}

type line [2]Point

func (l line) criticalPoints() (tX, tY []float64) {
	return nil, nil
}

func (l line) evaluateCurve(t float64) (x, y float64) {
	return bezierLine(l[0].X, l[1].X, t), bezierLine(l[0].Y, l[1].Y, t)
}

func bezierLine(p0, p1, t float64) float64 {
	return (p1-p0)*t + p0
}

type quadBezier [3]Point

// quadratic polinomial
// x = At^2 + Bt + C
// where
// A = p0 + p2 - 2p1
// B = 2(p1 - p0)
// C = p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b where a,b :
func quadraticDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - p1 - (p1 - p0)), 2 * (p1 - p0)
}

// handle the case where a = 0
func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func (cu quadBezier) criticalPoints() (tX, tY []float64) {
	aX, bX := quadraticDerivative(cu[0].X, cu[1].X, cu[2].X)
	aY, bY := quadraticDerivative(cu[0].Y, cu[1].Y, cu[2].Y)
	return linearRoots(aX, bX), linearRoots(aY, bY)
}

func (cu quadBezier) evaluateCurve(t float64) (x, y float64) {
	return bezierQuad(cu[0].X, cu[1].X, cu[2].X, t), bezierQuad(cu[0].Y, cu[1].Y, cu[2].Y, t)
}

type cubicBezier [4]Point

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	aX, bX, cX := cubicDerivative(cu[0].X, cu[1].X, cu[2].X, cu[3].X)
	aY, bY, cY := cubicDerivative(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y)
	return quadraticRoots(aX, bX, cX), quadraticRoots(aY, bY, cY)
}

func (cu cubicBezier) evaluateCurve(t float64) (x, y float64) {
	return bezierSpline(cu[0].X, cu[1].X, cu[2].X, cu[3].X, t),
		bezierSpline(cu[0].Y, cu[1].Y, cu[2].Y, cu[3].Y, t)
}

// cubic polinomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierSpline(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		(p0)
}

// We would like to know the values of t where X = 0
// X  = (p3-3*p2+3*p1-p0)t^3 + (3*p2-6*p1+3*p0)t^2 + (3*p1-3*p0)t + (p0)
// Derivative :
// X' = (3*p3-9*p2+9*p1-3*p0)t^2 + (6*p2-12*p1+6*p0)t + (3*p1-3*p0)
// taken as aX^2 + bX + c  a,b and c are:
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

// b^2 - 4ac = Determinant
func determinant(a, b, c float64) float64 { return b*b - 4*a*c }

func solve(a, b, c float64, s bool) float64 {
	sign := 1.
	if !s {
		sign = -1.
	}
	return (-b + (math.Sqrt((b*b)-(4*a*c)) * sign)) / (2 * a)
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		// bX + c : this is a simple line
		return linearRoots(b, c)
	}

	d := determinant(a, b, c)
	if d < 0 {
		return nil
	}

	if d == 0 {
		return []float64{solve(a, b, c, true)}
	}
	return []float64{
		solve(a, b, c, true),
		solve(a, b, c, false),
	}
}

// extrema accumulates the points of a path
type extrema struct {
	minX, minY, maxX, maxY float64
	empty                  bool
}

func newExtrema() extrema {
	return extrema{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1), true}
}

func (e *extrema) add(x, y float64) {
	e.minX, e.minY = math.Min(e.minX, x), math.Min(e.minY, y)
	e.maxX, e.maxY = math.Max(e.maxX, x), math.Max(e.maxY, y)
	e.empty = false
}

func (e *extrema) addCurve(curve bezier) {
	resX, resY := curve.criticalPoints()
	// add begin and end point
	for _, t := range append(append(resX, 0, 1), resY...) {
		// filter invalid value
		if !(0 <= t && t <= 1) {
			continue
		}
		e.add(curve.evaluateCurve(t))
	}
}

func (e extrema) bbox() (Bbox, bool) {
	if e.empty {
		return Bbox{}, false
	}
	return bboxFromExtrema(e.minX, e.minY, e.maxX, e.maxY)
}

// Bbox returns the tight bounding box of the path, or false
// if the path is empty or reduced to a point.
func (p Path) Bbox() (Bbox, bool) {
	ext := newExtrema()
	var first, current Point
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			current, first = Point(op), Point(op)
			ext.add(op.X, op.Y)
		case LineTo:
			ext.addCurve(line{current, Point(op)})
			current = Point(op)
		case QuadTo:
			ext.addCurve(quadBezier{current, op[0], op[1]})
			current = op[1]
		case CubicTo:
			ext.addCurve(cubicBezier{current, op[0], op[1], op[2]})
			current = op[2]
		case Close:
			current = first
		}
	}
	return ext.bbox()
}

// BboxWithTransform returns the tight bounding box of the path mapped by m,
// outset by half the stroke width (in user space) when strokeWidth is positive.
// The stroke outset ignores miter joins and square caps.
func (p Path) BboxWithTransform(m Matrix2D, strokeWidth float64) (Bbox, bool) {
	bbox, ok := p.Transform(m).Bbox()
	if !ok {
		return bbox, false
	}
	if strokeWidth > 0 {
		bbox = bbox.Outset(strokeWidth / 2 * m.MeanScale())
	}
	return bbox, true
}
