package svgconv

import (
	"image/color"
	"strings"

	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgdoc"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

var (
	black       = svgtree.Color{}
	opaqueBlack = color.NRGBA{A: 0xff}
)

// resolveFill returns the fill of the shape `node`, or nil if it is not filled.
// `hasBbox` is false for shapes with zero extent, which can't use
// paint servers in object bounding box units.
func (c *converter) resolveFill(node *svgdoc.Node, hasBbox bool, st state) *svgtree.Fill {
	if st.parentClipPath != nil {
		// clip paths content is filled with opaque black
		return &svgtree.Fill{
			Paint:   black,
			Opacity: svgtree.OpacityOne,
			Rule:    c.fillRule(node, "clip-rule"),
		}
	}

	subOpacity := svgtree.OpacityOne
	var paint svgtree.Paint = black
	if decl := node.FindDeclarer("fill"); decl != nil {
		var ok bool
		paint, ok = c.convertPaint(decl, "fill", hasBbox, st, &subOpacity)
		if !ok {
			return nil
		}
	}

	return &svgtree.Fill{
		Paint:   paint,
		Opacity: subOpacity * c.opacityAttr(node, "fill-opacity"),
		Rule:    c.fillRule(node, "fill-rule"),
	}
}

// resolveStroke returns the stroke of the shape `node`, or nil if it is not stroked.
func (c *converter) resolveStroke(node *svgdoc.Node, hasBbox bool, st state) *svgtree.Stroke {
	if st.parentClipPath != nil {
		return nil
	}

	decl := node.FindDeclarer("stroke")
	if decl == nil {
		return nil
	}
	subOpacity := svgtree.OpacityOne
	paint, ok := c.convertPaint(decl, "stroke", hasBbox, st, &subOpacity)
	if !ok {
		return nil
	}

	width, ok := svgtree.NewStrokeWidth(c.inheritedLength(node, "stroke-width", st, 1))
	if !ok {
		return nil
	}

	miterlimit := float64(svgtree.DefaultMiterlimit)
	if decl := node.FindDeclarer("stroke-miterlimit"); decl != nil {
		miterlimit = c.numberAttr(decl, "stroke-miterlimit", miterlimit)
	}

	return &svgtree.Stroke{
		Paint:      paint,
		Dasharray:  c.convertDasharray(node, st),
		Dashoffset: c.inheritedLength(node, "stroke-dashoffset", st, 0),
		Miterlimit: svgtree.NewStrokeMiterlimit(miterlimit),
		Opacity:    subOpacity * c.opacityAttr(node, "stroke-opacity"),
		Width:      width,
		Linecap:    c.lineCap(node),
		Linejoin:   c.lineJoin(node),
	}
}

// convertPaint interprets the `aid` value (fill or stroke) set on `node`.
// It returns false if nothing should be painted.
// When the paint collapses to a color, `opacity` is set to its alpha.
func (c *converter) convertPaint(node *svgdoc.Node, aid string, hasBbox bool, st state, opacity *svgtree.Opacity) (svgtree.Paint, bool) {
	raw, _ := node.Attribute(aid)
	value, err := svgdoc.ParsePaint(raw)
	if err != nil {
		if aid == "fill" {
			c.logger.Warn("invalid fill value, using black", zap.String("value", raw), zap.Error(err))
			return black, true
		}
		c.logger.Warn("invalid stroke value", zap.String("value", raw), zap.Error(err))
		return nil, false
	}

	switch value.Kind {
	case svgdoc.PaintColor:
		rgb, alpha := svgtree.SplitAlpha(value.Color)
		*opacity = alpha
		return rgb, true
	case svgdoc.PaintCurrentColor:
		rgb, alpha := svgtree.SplitAlpha(c.currentColor(node))
		*opacity = alpha
		return rgb, true
	case svgdoc.PaintFuncIRI:
		link := c.doc.ElementByID(value.IRI)
		if link == nil {
			c.logger.Warn("missing paint server", zap.String("attribute", aid), zap.String("id", value.IRI))
			return c.fromFallback(node, aid, value.Fallback, opacity)
		}
		if !link.Tag().IsPaintServer() {
			c.logger.Warn("referenced element is not a paint server",
				zap.String("attribute", aid), zap.String("id", value.IRI), zap.String("element", link.Name()))
			return c.fromFallback(node, aid, value.Fallback, opacity)
		}

		server, ok := c.convertPaintServer(link, st)
		if !ok {
			return c.fromFallback(node, aid, value.Fallback, opacity)
		}
		switch {
		case server.none:
			return nil, false
		case server.paint != nil:
			if units, _ := server.paint.Units(); units == svgtree.ObjectBoundingBox && !hasBbox {
				// the server can't be mapped to an empty box
				return c.fromFallback(node, aid, value.Fallback, opacity)
			}
			return server.paint, true
		default:
			*opacity = server.opacity
			return server.color, true
		}
	default: // none, or an inherit without value
		return nil, false
	}
}

// fromFallback interprets the fallback of a paint reference which
// could not be used. Without fallback, fill uses black and stroke is disabled.
func (c *converter) fromFallback(node *svgdoc.Node, aid string, fallback *svgdoc.Paint, opacity *svgtree.Opacity) (svgtree.Paint, bool) {
	if fallback == nil {
		if aid == "fill" {
			return black, true
		}
		return nil, false
	}
	switch fallback.Kind {
	case svgdoc.PaintCurrentColor:
		rgb, alpha := svgtree.SplitAlpha(c.currentColor(node))
		*opacity = alpha
		return rgb, true
	case svgdoc.PaintColor:
		rgb, alpha := svgtree.SplitAlpha(fallback.Color)
		*opacity = alpha
		return rgb, true
	default:
		return nil, false
	}
}

// convertDasharray returns nil if the stroke is not dashed.
func (c *converter) convertDasharray(node *svgdoc.Node, st state) []float64 {
	decl := node.FindDeclarer("stroke-dasharray")
	if decl == nil {
		return nil
	}
	raw, _ := decl.Attribute("stroke-dasharray")
	if raw == "none" {
		return nil
	}
	lengths, err := svgdoc.ParseLengthList(raw)
	if err != nil {
		c.logger.Warn("invalid stroke-dasharray", zap.String("value", raw), zap.Error(err))
		return nil
	}
	values := make([]float64, len(lengths))
	for i, l := range lengths {
		values[i] = c.convertLength(l, decl, "stroke-dasharray", svgtree.UserSpaceOnUse, st)
	}
	return normalizeDasharray(values)
}

// normalizeDasharray returns nil if one of the values is negative,
// or if their sum is zero. An odd number of values is repeated
// to yield an even number.
func normalizeDasharray(values []float64) []float64 {
	var sum float64
	for _, v := range values {
		if v < 0 {
			return nil
		}
		sum += v
	}
	if svgpath.FuzzyZero(sum) {
		return nil
	}
	if len(values)%2 != 0 {
		values = append(values, values...)
	}
	return values
}

// currentColor returns the value of the `color` property
// for `node`, default to black.
func (c *converter) currentColor(node *svgdoc.Node) color.NRGBA {
	raw, ok := node.FindAttribute("color")
	if !ok {
		return opaqueBlack
	}
	out, err := svgdoc.ParseColor(raw)
	if err != nil {
		c.logger.Warn("invalid color", zap.String("value", raw))
		return opaqueBlack
	}
	return out
}

// inheritedKeyword returns the inherited value of `aid`,
// or an empty string.
func inheritedKeyword(node *svgdoc.Node, aid string) string {
	v, _ := node.FindAttribute(aid)
	return v
}

func (c *converter) fillRule(node *svgdoc.Node, aid string) svgtree.FillRule {
	switch v := inheritedKeyword(node, aid); v {
	case "", "nonzero":
		return svgtree.NonZero
	case "evenodd":
		return svgtree.EvenOdd
	default:
		c.logger.Warn("invalid fill rule", zap.String("attribute", aid), zap.String("value", v))
		return svgtree.NonZero
	}
}

func (c *converter) lineCap(node *svgdoc.Node) svgtree.LineCap {
	switch v := inheritedKeyword(node, "stroke-linecap"); v {
	case "", "butt":
		return svgtree.ButtCap
	case "round":
		return svgtree.RoundCap
	case "square":
		return svgtree.SquareCap
	default:
		c.logger.Warn("invalid stroke-linecap", zap.String("value", v))
		return svgtree.ButtCap
	}
}

func (c *converter) lineJoin(node *svgdoc.Node) svgtree.LineJoin {
	switch v := inheritedKeyword(node, "stroke-linejoin"); v {
	case "", "miter":
		return svgtree.MiterJoin
	case "round":
		return svgtree.RoundJoin
	case "bevel":
		return svgtree.BevelJoin
	default:
		c.logger.Warn("invalid stroke-linejoin", zap.String("value", v))
		return svgtree.MiterJoin
	}
}

func visibility(node *svgdoc.Node) svgtree.Visibility {
	switch inheritedKeyword(node, "visibility") {
	case "hidden":
		return svgtree.Hidden
	case "collapse":
		return svgtree.Collapse
	default:
		return svgtree.Visible
	}
}

// paintOrder only compares the positions of fill and stroke,
// since markers are not part of the tree. A missing keyword
// comes after the listed ones.
func paintOrder(node *svgdoc.Node) svgtree.PaintOrder {
	fill, stroke := -1, -1
	for i, token := range strings.Fields(inheritedKeyword(node, "paint-order")) {
		switch token {
		case "fill":
			fill = i
		case "stroke":
			stroke = i
		case "markers", "normal":
		default:
			return svgtree.FillAndStroke
		}
	}
	if stroke != -1 && (fill == -1 || stroke < fill) {
		return svgtree.StrokeAndFill
	}
	return svgtree.FillAndStroke
}

func shapeRendering(node *svgdoc.Node) svgtree.ShapeRendering {
	switch inheritedKeyword(node, "shape-rendering") {
	case "optimizeSpeed":
		return svgtree.OptimizeSpeed
	case "crispEdges":
		return svgtree.CrispEdges
	default:
		return svgtree.GeometricPrecision
	}
}

func imageRendering(node *svgdoc.Node) svgtree.ImageRendering {
	switch inheritedKeyword(node, "image-rendering") {
	case "optimizeSpeed", "pixelated", "crisp-edges":
		return svgtree.OptimizeSpeedImage
	default:
		return svgtree.OptimizeQuality
	}
}
