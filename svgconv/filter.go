package svgconv

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgdoc"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// resolveFilterAttr returns false if the element must not be rendered,
// which happens when one of its filters is missing or invalid.
func (c *converter) resolveFilterAttr(node *svgdoc.Node, st state) ([]*svgtree.Filter, bool) {
	raw, ok := node.Attribute("filter")
	if !ok || raw == "none" {
		return nil, true
	}
	ids, err := svgdoc.ParseFuncIRIList(raw)
	if err != nil {
		c.logger.Warn("invalid filter attribute, ignored", zap.String("value", raw), zap.Error(err))
		return nil, true
	}
	var out []*svgtree.Filter
	for _, id := range ids {
		link := c.doc.ElementByID(id)
		if link == nil || link.Tag() != svgdoc.ElementFilter {
			c.logger.Warn("invalid filter link, element not rendered", zap.String("id", id))
			return nil, false
		}
		filter, ok := c.convertFilter(link, st)
		if !ok {
			c.logger.Warn("invalid filter, element not rendered", zap.String("id", id))
			return nil, false
		}
		out = append(out, filter)
	}
	return out, true
}

func (c *converter) convertFilter(node *svgdoc.Node, st state) (*svgtree.Filter, bool) {
	if filter, ok := c.cache.filters[node]; ok {
		return filter, filter != nil
	}

	rawUnits, _ := node.Attribute("filterUnits")
	units := unitsFromString(rawUnits, svgtree.ObjectBoundingBox)
	rawUnits, _ = node.Attribute("primitiveUnits")
	primitiveUnits := unitsFromString(rawUnits, svgtree.UserSpaceOnUse)

	rect, ok := c.regionAttrs(node, units, st)
	if !ok {
		c.cache.filters[node] = nil
		return nil, false
	}

	filter := &svgtree.Filter{
		ID:             node.ID(),
		Units:          units,
		PrimitiveUnits: primitiveUnits,
		Rect:           rect,
	}
	for _, child := range node.Children() {
		if child.Tag() != svgdoc.ElementFilterPrimitive {
			continue
		}
		filter.Primitives = append(filter.Primitives, convertPrimitive(child, filter.Primitives))
	}
	c.cache.filters[node] = filter
	return filter, true
}

// convertPrimitive reads the inputs of `node`. Missing inputs default to
// SourceGraphic for the first primitive, and to the result
// of the previous one otherwise.
func convertPrimitive(node *svgdoc.Node, previous []svgtree.Primitive) svgtree.Primitive {
	result, _ := node.Attribute("result")
	if result == "" {
		result = fmt.Sprintf("result%d", len(previous)+1)
	}
	defaultInput := svgtree.Input{Kind: svgtree.SourceGraphic}
	if len(previous) != 0 {
		defaultInput = svgtree.Input{Kind: svgtree.Reference, Name: previous[len(previous)-1].Result}
	}
	input := func(n *svgdoc.Node, aid string) svgtree.Input {
		raw, ok := n.Attribute(aid)
		if raw = strings.TrimSpace(raw); !ok || raw == "" {
			return defaultInput
		}
		return svgtree.ParseInput(raw)
	}

	kind := svgtree.PrimitiveKind{Name: node.Name()}
	switch kind.Name {
	case "feFlood", "feImage", "feTurbulence": // no input
	case "feMerge":
		for _, child := range node.Children() {
			if child.Name() == "feMergeNode" {
				kind.Inputs = append(kind.Inputs, input(child, "in"))
			}
		}
	case "feBlend", "feComposite", "feDisplacementMap":
		kind.Inputs = []svgtree.Input{input(node, "in"), input(node, "in2")}
	default:
		kind.Inputs = []svgtree.Input{input(node, "in")}
	}
	return svgtree.Primitive{Result: result, Kind: kind}
}

// filterPaints resolves the fill and stroke of `node` when
// one of the filters uses the FillPaint or StrokePaint inputs.
func (c *converter) filterPaints(node *svgdoc.Node, filters []*svgtree.Filter, st state) (fill, stroke svgtree.Paint) {
	var usesFill, usesStroke bool
	for _, filter := range filters {
		for _, p := range filter.Primitives {
			usesFill = usesFill || p.Kind.HasInput(svgtree.Input{Kind: svgtree.FillPaint})
			usesStroke = usesStroke || p.Kind.HasInput(svgtree.Input{Kind: svgtree.StrokePaint})
		}
	}
	// the paint is resolved for a non empty box
	if usesFill {
		if f := c.resolveFill(node, true, st); f != nil {
			fill = f.Paint
		}
	}
	if usesStroke {
		if s := c.resolveStroke(node, true, st); s != nil {
			stroke = s.Paint
		}
	}
	return fill, stroke
}

// enableBackground parses `enable-background="new [x y width height]"`.
func (c *converter) enableBackground(node *svgdoc.Node) *svgtree.EnableBackground {
	raw, ok := node.Attribute("enable-background")
	if !ok {
		return nil
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 || fields[0] != "new" {
		return nil // accumulate
	}
	out := &svgtree.EnableBackground{}
	if len(fields) == 1 {
		return out
	}
	values, err := svgdoc.ParseNumberList(strings.Join(fields[1:], " "))
	if err != nil || len(values) != 4 {
		c.logger.Warn("invalid enable-background region", zap.String("value", raw))
		return out
	}
	if rect, ok := svgpath.NewRect(values[0], values[1], values[2], values[3]); ok {
		out.Rect = &rect
	}
	return out
}
