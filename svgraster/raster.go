// Implements a raster backend to render resolved SVG trees,
// by wrapping rasterx.
package svgraster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif" // register the decoders used by image.Decode
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/rasterx"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// Renderer draws the paths of a tree into an image.
// Clipping, masking, filters and blending are not supported:
// the content of such groups is drawn as is.
// Group opacity is applied to each child.
type Renderer struct {
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance

	dst    draw.Image
	logger *zap.Logger
}

// NewRenderer returns a renderer writing into `dst`,
// using a rasterx.ScannerGV.
// `logger` may be nil.
func NewRenderer(dst draw.Image, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(w, h, dst, b)
	return &Renderer{
		dasher: rasterx.NewDasher(w, h, scanner),
		filler: rasterx.NewFiller(w, h, scanner),
		dst:    dst,
		logger: logger,
	}
}

// RasterTree renders `tree` into a new (w x h) image.
func RasterTree(tree *svgtree.Tree, w, h int, logger *zap.Logger) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	NewRenderer(img, logger).DrawTree(tree)
	return img
}

// DrawTree fits the tree view box into the destination image.
func (rd *Renderer) DrawTree(tree *svgtree.Tree) {
	b := rd.dst.Bounds()
	ts := tree.ViewBox.Transform(float64(b.Dx()), float64(b.Dy()))
	rd.drawNode(tree.Root, ts, 1)
}

func (rd *Renderer) drawNode(node *svgtree.Node, ts svgpath.Matrix2D, opacity float64) {
	switch kind := node.Kind.(type) {
	case *svgtree.Group:
		if kind.ClipPath != nil || kind.Mask != nil || len(kind.Filters) != 0 {
			rd.logger.Debug("group effects are not rendered", zap.String("id", kind.ID))
		}
		ts = ts.Mult(kind.Transform)
		opacity *= float64(kind.Opacity)
		for _, child := range node.Children() {
			rd.drawNode(child, ts, opacity)
		}
	case *svgtree.Path:
		rd.drawPath(kind, ts.Mult(kind.Transform), opacity)
	case *svgtree.Image:
		rd.drawImage(kind, ts.Mult(kind.Transform), opacity)
	case *svgtree.Text:
		rd.logger.Debug("text layout is not supported", zap.String("id", kind.ID))
	}
}

func (rd *Renderer) drawPath(p *svgtree.Path, ts svgpath.Matrix2D, opacity float64) {
	if p.Visibility != svgtree.Visible {
		return
	}
	if p.PaintOrder == svgtree.StrokeAndFill {
		rd.stroke(p, ts, opacity)
		rd.fill(p, ts, opacity)
	} else {
		rd.fill(p, ts, opacity)
		rd.stroke(p, ts, opacity)
	}
}

func (rd *Renderer) fill(p *svgtree.Path, ts svgpath.Matrix2D, opacity float64) {
	if p.Fill == nil {
		return
	}
	rd.filler.Clear()
	rd.filler.SetWinding(p.Fill.Rule == svgtree.NonZero)
	replay(rd.filler, p.Data, ts)
	if rd.setColor(rd.filler.Scanner, p, p.Fill.Paint, float64(p.Fill.Opacity)*opacity, ts) {
		rd.filler.Draw()
	}
	rd.filler.SetWinding(true) // default is true
}

var (
	joinToJoin = [...]rasterx.JoinMode{
		svgtree.MiterJoin: rasterx.Miter,
		svgtree.RoundJoin: rasterx.Round,
		svgtree.BevelJoin: rasterx.Bevel,
	}

	capToFunc = [...]rasterx.CapFunc{
		svgtree.ButtCap:   rasterx.ButtCap,
		svgtree.RoundCap:  rasterx.RoundCap,
		svgtree.SquareCap: rasterx.SquareCap,
	}
)

func (rd *Renderer) stroke(p *svgtree.Path, ts svgpath.Matrix2D, opacity float64) {
	s := p.Stroke
	if s == nil {
		return
	}
	// points are transformed before being sent to rasterx,
	// so the lengths are scaled
	scale := ts.MeanScale()
	var dashes []float64
	for _, d := range s.Dasharray {
		dashes = append(dashes, d*scale)
	}
	rd.dasher.Clear()
	rd.dasher.SetStroke(
		fixed.Int26_6(float64(s.Width)*scale*64), fixed.Int26_6(float64(s.Miterlimit)*64),
		capToFunc[s.Linecap], capToFunc[s.Linecap], rasterx.FlatGap,
		joinToJoin[s.Linejoin], dashes, s.Dashoffset*scale,
	)
	replay(rd.dasher, p.Data, ts)
	if rd.setColor(rd.dasher.Scanner, p, s.Paint, float64(s.Opacity)*opacity, ts) {
		rd.dasher.Draw()
	}
}

// adder is implemented by rasterx Filler and Dasher
type adder interface {
	Start(a fixed.Point26_6)
	Line(b fixed.Point26_6)
	QuadBezier(b, c fixed.Point26_6)
	CubeBezier(b, c, d fixed.Point26_6)
	Stop(closeLoop bool)
}

// replay sends the transformed path to `dst`,
// restarting subpaths implicitly opened after a Close.
func replay(dst adder, data svgpath.Path, ts svgpath.Matrix2D) {
	var (
		start, current svgpath.Point
		open           bool
	)
	ensureOpen := func() {
		if !open {
			dst.Start(svgpath.ToFixed(ts.ApplyPoint(current)))
			start, open = current, true
		}
	}
	for _, op := range data {
		switch op := op.(type) {
		case svgpath.MoveTo:
			if open {
				dst.Stop(false)
			}
			current = svgpath.Point(op)
			start, open = current, true
			dst.Start(svgpath.ToFixed(ts.ApplyPoint(current)))
		case svgpath.LineTo:
			ensureOpen()
			current = svgpath.Point(op)
			dst.Line(svgpath.ToFixed(ts.ApplyPoint(current)))
		case svgpath.QuadTo:
			ensureOpen()
			dst.QuadBezier(svgpath.ToFixed(ts.ApplyPoint(op[0])), svgpath.ToFixed(ts.ApplyPoint(op[1])))
			current = op[1]
		case svgpath.CubicTo:
			ensureOpen()
			dst.CubeBezier(svgpath.ToFixed(ts.ApplyPoint(op[0])), svgpath.ToFixed(ts.ApplyPoint(op[1])),
				svgpath.ToFixed(ts.ApplyPoint(op[2])))
			current = op[2]
		case svgpath.Close:
			if open {
				dst.Stop(true)
				open = false
			}
			current = start
		}
	}
	if open {
		dst.Stop(false)
	}
}

// setColor returns false if nothing should be painted.
func (rd *Renderer) setColor(scanner rasterx.Scanner, p *svgtree.Path, paint svgtree.Paint, opacity float64, ts svgpath.Matrix2D) bool {
	switch paint := paint.(type) {
	case svgtree.Color:
		scanner.SetColor(rasterx.ApplyOpacity(paint.NRGBA(svgtree.OpacityOne), opacity))
	case *svgtree.LinearGradient:
		m, ok := gradientMatrix(p, paint.BaseGradient, ts)
		if !ok {
			return false
		}
		g := toRasterxGradient(paint.BaseGradient, m)
		g.Points = [5]float64{paint.X1, paint.Y1, paint.X2, paint.Y2}
		scanner.SetColor(g.GetColorFunction(opacity))
	case *svgtree.RadialGradient:
		m, ok := gradientMatrix(p, paint.BaseGradient, ts)
		if !ok {
			return false
		}
		g := toRasterxGradient(paint.BaseGradient, m)
		g.Points = [5]float64{paint.Cx, paint.Cy, paint.Fx, paint.Fy, paint.R}
		g.IsRadial = true
		scanner.SetColor(g.GetColorFunction(opacity))
	default:
		rd.logger.Debug("paint is not supported", zap.String("id", p.ID))
		return false
	}
	return true
}

// gradientMatrix returns the mapping from gradient space to device space.
func gradientMatrix(p *svgtree.Path, grad svgtree.BaseGradient, ts svgpath.Matrix2D) (svgpath.Matrix2D, bool) {
	if grad.GradientUnits == svgtree.ObjectBoundingBox {
		bbox, ok := p.Data.Bbox()
		if !ok {
			return svgpath.Matrix2D{}, false
		}
		ts = ts.Mult(svgpath.Identity.Translate(bbox.X, bbox.Y).Scale(bbox.W, bbox.H))
	}
	return ts.Mult(grad.Transform), true
}

// toRasterxGradient expects a device space matrix,
// so that rasterx never has to resolve bounding boxes.
func toRasterxGradient(grad svgtree.BaseGradient, m svgpath.Matrix2D) rasterx.Gradient {
	stops := make([]rasterx.GradStop, len(grad.Stops))
	for i, stop := range grad.Stops {
		stops[i] = rasterx.GradStop{
			StopColor: stop.Color.NRGBA(svgtree.OpacityOne),
			Offset:    stop.Offset,
			Opacity:   float64(stop.Opacity),
		}
	}
	return rasterx.Gradient{
		Stops:  stops,
		Matrix: rasterx.Matrix2D{A: m.A, B: m.B, C: m.C, D: m.D, E: m.E, F: m.F},
		Spread: spreadToSpread[grad.Spread],
		Units:  rasterx.UserSpaceOnUse,
	}
}

var spreadToSpread = [...]rasterx.SpreadMethod{
	svgtree.PadSpread:     rasterx.PadSpread,
	svgtree.ReflectSpread: rasterx.ReflectSpread,
	svgtree.RepeatSpread:  rasterx.RepeatSpread,
}

// drawImage fits the image into its view box rectangle.
// Slice aspects are not clipped.
func (rd *Renderer) drawImage(img *svgtree.Image, ts svgpath.Matrix2D, opacity float64) {
	if img.Visibility != svgtree.Visible {
		return
	}
	rect := img.ViewBox.Rect
	ts = ts.Translate(rect.X, rect.Y)

	var data []byte
	switch kind := img.Kind.(type) {
	case svgtree.ImageSVG:
		sub := kind.Tree
		fit := svgpath.ViewBox{
			Rect:   svgpath.Rect{W: sub.Size.W, H: sub.Size.H},
			Aspect: img.ViewBox.Aspect,
		}.Transform(rect.W, rect.H)
		ts = ts.Mult(fit).Mult(sub.ViewBox.Transform(sub.Size.W, sub.Size.H))
		rd.drawNode(sub.Root, ts, opacity)
		return
	case svgtree.ImagePNG:
		data = kind
	case svgtree.ImageJPEG:
		data = kind
	case svgtree.ImageGIF:
		data = kind
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		rd.logger.Warn("invalid image data", zap.String("id", img.ID), zap.Error(err))
		return
	}
	sb := src.Bounds()
	fit := svgpath.ViewBox{
		Rect:   svgpath.Rect{W: float64(sb.Dx()), H: float64(sb.Dy())},
		Aspect: img.ViewBox.Aspect,
	}.Transform(rect.W, rect.H)
	m := ts.Mult(fit).Translate(-float64(sb.Min.X), -float64(sb.Min.Y))

	var interp xdraw.Interpolator = xdraw.BiLinear
	if img.ImageRendering == svgtree.OptimizeSpeedImage {
		interp = xdraw.NearestNeighbor
	}
	var opts *xdraw.Options
	if opacity < 1 {
		opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})}
	}
	interp.Transform(rd.dst, f64.Aff3{m.A, m.C, m.E, m.B, m.D, m.F}, src, sb, xdraw.Over, opts)
}
