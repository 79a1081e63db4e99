// Implements a PDF backend to render resolved SVG trees,
// by wrapping github.com/jung-kurt/gofpdf.
package svgpdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register the decoders used by image.DecodeConfig
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// Renderer writes the paths of a tree in the current page of a PDF document.
// Gradients are approximated by their first stop, patterns and
// group effects are ignored.
type Renderer struct {
	pdf    *gofpdf.Fpdf
	logger *zap.Logger

	images int // used to name the registered images
}

// NewRenderer return a renderer which will
// write to the given `pdf`.
// `logger` may be nil.
func NewRenderer(pdf *gofpdf.Fpdf, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{pdf: pdf, logger: logger}
}

// WriteTree renders the tree in a one page document,
// sized after the tree, and writes it to `w`.
func WriteTree(tree *svgtree.Tree, w io.Writer, logger *zap.Logger) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: tree.Size.W, Ht: tree.Size.H})
	NewRenderer(pdf, logger).DrawTree(tree, 0, 0, tree.Size.W, tree.Size.H)
	return pdf.Output(w)
}

// DrawTree fits the tree view box in the given rectangle,
// expressed in the unit of the document.
func (r *Renderer) DrawTree(tree *svgtree.Tree, x, y, w, h float64) {
	ts := svgpath.Identity.Translate(x, y).Mult(tree.ViewBox.Transform(w, h))
	r.drawNode(tree.Root, ts, 1)
}

func (r *Renderer) drawNode(node *svgtree.Node, ts svgpath.Matrix2D, opacity float64) {
	switch kind := node.Kind.(type) {
	case *svgtree.Group:
		if kind.ClipPath != nil || kind.Mask != nil || len(kind.Filters) != 0 {
			r.logger.Debug("group effects are not rendered", zap.String("id", kind.ID))
		}
		ts = ts.Mult(kind.Transform)
		opacity *= float64(kind.Opacity)
		for _, child := range node.Children() {
			r.drawNode(child, ts, opacity)
		}
	case *svgtree.Path:
		r.drawPath(kind, ts.Mult(kind.Transform), opacity)
	case *svgtree.Image:
		r.drawImage(kind, ts.Mult(kind.Transform), opacity)
	case *svgtree.Text:
		r.logger.Debug("text layout is not supported", zap.String("id", kind.ID))
	}
}

func (r *Renderer) drawPath(p *svgtree.Path, ts svgpath.Matrix2D, opacity float64) {
	if p.Visibility != svgtree.Visible {
		return
	}
	if p.PaintOrder == svgtree.StrokeAndFill {
		r.stroke(p, ts, opacity)
		r.fill(p, ts, opacity)
	} else {
		r.fill(p, ts, opacity)
		r.stroke(p, ts, opacity)
	}
}

func (r *Renderer) fill(p *svgtree.Path, ts svgpath.Matrix2D, opacity float64) {
	if p.Fill == nil {
		return
	}
	c, ok := r.solidColor(p.Fill.Paint, p.ID)
	if !ok {
		return
	}
	r.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	r.pdf.SetAlpha(float64(p.Fill.Opacity)*opacity, "Normal")
	r.writePath(p.Data, ts)
	styleStr := "f*"
	if p.Fill.Rule == svgtree.NonZero {
		styleStr = "f"
	}
	r.pdf.DrawPath(styleStr)
}

var (
	capStyles = [...]string{
		svgtree.ButtCap:   "butt",
		svgtree.RoundCap:  "round",
		svgtree.SquareCap: "square",
	}
	joinStyles = [...]string{
		svgtree.MiterJoin: "miter",
		svgtree.RoundJoin: "round",
		svgtree.BevelJoin: "bevel",
	}
)

func (r *Renderer) stroke(p *svgtree.Path, ts svgpath.Matrix2D, opacity float64) {
	s := p.Stroke
	if s == nil {
		return
	}
	c, ok := r.solidColor(s.Paint, p.ID)
	if !ok {
		return
	}
	// points are transformed before being written,
	// so the lengths are scaled
	scale := ts.MeanScale()
	dashes := make([]float64, len(s.Dasharray))
	for i, d := range s.Dasharray {
		dashes[i] = d * scale
	}
	r.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	r.pdf.SetAlpha(float64(s.Opacity)*opacity, "Normal")
	r.pdf.SetLineWidth(float64(s.Width) * scale)
	r.pdf.SetLineCapStyle(capStyles[s.Linecap])
	r.pdf.SetLineJoinStyle(joinStyles[s.Linejoin])
	r.pdf.SetDashPattern(dashes, s.Dashoffset*scale)
	r.writePath(p.Data, ts)
	r.pdf.DrawPath("D")
}

// solidColor returns false for paints which can't be approximated.
func (r *Renderer) solidColor(paint svgtree.Paint, id string) (svgtree.Color, bool) {
	switch paint := paint.(type) {
	case svgtree.Color:
		return paint, true
	case *svgtree.LinearGradient:
		r.logger.Debug("gradient approximated by its first stop", zap.String("id", id))
		return paint.Stops[0].Color, true
	case *svgtree.RadialGradient:
		r.logger.Debug("gradient approximated by its first stop", zap.String("id", id))
		return paint.Stops[0].Color, true
	default:
		r.logger.Debug("paint is not supported", zap.String("id", id))
		return svgtree.Color{}, false
	}
}

func (r *Renderer) writePath(data svgpath.Path, ts svgpath.Matrix2D) {
	var start, current svgpath.Point
	for _, op := range data {
		switch op := op.(type) {
		case svgpath.MoveTo:
			current = ts.ApplyPoint(svgpath.Point(op))
			start = current
			r.pdf.MoveTo(current.X, current.Y)
		case svgpath.LineTo:
			current = ts.ApplyPoint(svgpath.Point(op))
			r.pdf.LineTo(current.X, current.Y)
		case svgpath.QuadTo:
			c, to := ts.ApplyPoint(op[0]), ts.ApplyPoint(op[1])
			r.pdf.CurveTo(c.X, c.Y, to.X, to.Y)
			current = to
		case svgpath.CubicTo:
			c1, c2, to := ts.ApplyPoint(op[0]), ts.ApplyPoint(op[1]), ts.ApplyPoint(op[2])
			r.pdf.CurveBezierCubicTo(c1.X, c1.Y, c2.X, c2.Y, to.X, to.Y)
			current = to
		case svgpath.Close:
			r.pdf.ClosePath()
			// the next segment starts at the subpath origin
			current = start
			r.pdf.MoveTo(current.X, current.Y)
		}
	}
}

var imageTypes = map[string]string{
	"png":  "PNG",
	"jpeg": "JPG",
	"gif":  "GIF",
}

// drawImage only supports transforms without rotation or skew.
func (r *Renderer) drawImage(img *svgtree.Image, ts svgpath.Matrix2D, opacity float64) {
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
		r.drawNode(sub.Root, ts.Mult(fit).Mult(sub.ViewBox.Transform(sub.Size.W, sub.Size.H)), opacity)
		return
	case svgtree.ImagePNG:
		data = kind
	case svgtree.ImageJPEG:
		data = kind
	case svgtree.ImageGIF:
		data = kind
	}

	if !svgpath.FuzzyZero(ts.B) || !svgpath.FuzzyZero(ts.C) {
		r.logger.Debug("rotated images are not supported", zap.String("id", img.ID))
		return
	}
	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		r.logger.Warn("invalid image data", zap.String("id", img.ID), zap.Error(err))
		return
	}
	fit := svgpath.ViewBox{
		Rect:   svgpath.Rect{W: float64(config.Width), H: float64(config.Height)},
		Aspect: img.ViewBox.Aspect,
	}.Transform(rect.W, rect.H)
	m := ts.Mult(fit)
	x0, y0 := m.Apply(0, 0)
	x1, y1 := m.Apply(float64(config.Width), float64(config.Height))

	r.images++
	name := fmt.Sprintf("svgtree-image-%d", r.images)
	opts := gofpdf.ImageOptions{ImageType: imageTypes[format]}
	r.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	r.pdf.SetAlpha(opacity, "Normal")
	r.pdf.ImageOptions(name, x0, y0, x1-x0, y1-y0, false, opts, 0, "")
}
