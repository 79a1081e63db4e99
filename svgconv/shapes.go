package svgconv

import (
	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgdoc"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// convertPath converts a basic shape or a <path>.
func (c *converter) convertPath(node *svgdoc.Node, st state, parent *svgtree.Node) {
	data := c.shapeData(node, st)
	if data.Segments() == 0 {
		return
	}
	ts, ok := c.transformAttr(node, "transform")
	if !ok {
		return
	}

	_, hasBbox := data.Bbox()
	fill := c.resolveFill(node, hasBbox, st)
	stroke := c.resolveStroke(node, hasBbox, st)
	if fill == nil && stroke == nil {
		return
	}

	g, ok := c.convertGroup(node, st, false, ts, parent)
	if !ok {
		return
	}
	id := node.ID()
	if g != parent { // the group carries the id and the transform
		id, ts = "", svgpath.Identity
	}
	g.AppendKind(&svgtree.Path{
		ID:             id,
		Transform:      ts,
		Visibility:     visibility(node),
		Fill:           fill,
		Stroke:         stroke,
		PaintOrder:     paintOrder(node),
		ShapeRendering: shapeRendering(node),
		Data:           data,
	})
}

// shapeData returns an empty path for invalid shapes.
func (c *converter) shapeData(node *svgdoc.Node, st state) svgpath.Path {
	var (
		out  svgpath.Path
		user = svgtree.UserSpaceOnUse
	)
	switch node.Tag() {
	case svgdoc.ElementPath:
		raw, _ := node.Attribute("d")
		data, err := svgpath.ParsePathData(raw)
		if err != nil {
			// the segments before the error are rendered
			c.logger.Warn("invalid path data", zap.String("id", node.ID()), zap.Error(err))
		}
		out = data
	case svgdoc.ElementRect:
		x := c.lengthAttr(node, "x", user, st, 0)
		y := c.lengthAttr(node, "y", user, st, 0)
		w := c.lengthAttr(node, "width", user, st, 0)
		h := c.lengthAttr(node, "height", user, st, 0)
		if w <= 0 || h <= 0 {
			c.logger.Debug("rect with an invalid size", zap.String("id", node.ID()))
			return nil
		}
		rx, ry := c.radii(node, st)
		out.AddRoundRect(x, y, w, h, rx, ry)
	case svgdoc.ElementCircle:
		cx := c.lengthAttr(node, "cx", user, st, 0)
		cy := c.lengthAttr(node, "cy", user, st, 0)
		r := c.lengthAttr(node, "r", user, st, 0)
		if r <= 0 {
			return nil
		}
		out.AddEllipse(cx, cy, r, r)
	case svgdoc.ElementEllipse:
		cx := c.lengthAttr(node, "cx", user, st, 0)
		cy := c.lengthAttr(node, "cy", user, st, 0)
		rx, ry := c.radii(node, st)
		if rx <= 0 || ry <= 0 {
			return nil
		}
		out.AddEllipse(cx, cy, rx, ry)
	case svgdoc.ElementLine:
		x1 := c.lengthAttr(node, "x1", user, st, 0)
		y1 := c.lengthAttr(node, "y1", user, st, 0)
		x2 := c.lengthAttr(node, "x2", user, st, 0)
		y2 := c.lengthAttr(node, "y2", user, st, 0)
		out.Start(svgpath.Point{X: x1, Y: y1})
		out.Line(svgpath.Point{X: x2, Y: y2})
	case svgdoc.ElementPolyline, svgdoc.ElementPolygon:
		raw, _ := node.Attribute("points")
		points, err := svgdoc.ParseNumberList(raw)
		if err != nil {
			c.logger.Warn("invalid points", zap.String("id", node.ID()), zap.Error(err))
		}
		out.AddPolyline(points, node.Tag() == svgdoc.ElementPolygon)
	}
	return out
}

// radii resolves `rx` and `ry`: a missing value
// takes the other one.
func (c *converter) radii(node *svgdoc.Node, st state) (rx, ry float64) {
	user := svgtree.UserSpaceOnUse
	hasRx, hasRy := node.HasAttribute("rx"), node.HasAttribute("ry")
	rx = c.lengthAttr(node, "rx", user, st, 0)
	ry = c.lengthAttr(node, "ry", user, st, 0)
	switch {
	case hasRx && !hasRy:
		ry = rx
	case !hasRx && hasRy:
		rx = ry
	}
	return rx, ry
}
