package svgconv

import (
	"math"

	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgdoc"
	"github.com/benoitkugler/svgtree/svgtree"
)

// percentages of these attributes are relative to the view box width
var horizontalAttributes = map[string]bool{
	"cx": true, "dx": true, "fx": true, "markerWidth": true, "refX": true,
	"rx": true, "width": true, "x": true, "x1": true, "x2": true,
}

// percentages of these attributes are relative to the view box height
var verticalAttributes = map[string]bool{
	"cy": true, "dy": true, "fy": true, "height": true, "markerHeight": true,
	"refY": true, "ry": true, "y": true, "y1": true, "y2": true,
}

// font-size keywords, relative to the default font size
var fontSizeKeywords = map[string]float64{
	"xx-small": 3. / 5,
	"x-small":  3. / 4,
	"small":    8. / 9,
	"medium":   1,
	"large":    6. / 5,
	"x-large":  3. / 2,
	"xx-large": 2,
}

// convertLength converts `length`, set for the attribute `aid` of `node`,
// to user units. With ObjectBoundingBox units, percentages are
// returned as fractions.
func (c *converter) convertLength(length svgdoc.Length, node *svgdoc.Node, aid string, units svgtree.Units, st state) float64 {
	n := length.Value
	switch length.Unit {
	case svgdoc.UnitEm:
		return n * c.resolveFontSize(node, st)
	case svgdoc.UnitEx:
		return n * c.resolveFontSize(node, st) / 2
	case svgdoc.UnitPercent:
		if units == svgtree.ObjectBoundingBox {
			return n / 100
		}
		vb := st.viewBox
		switch {
		case horizontalAttributes[aid]:
			return vb.W * n / 100
		case verticalAttributes[aid]:
			return vb.H * n / 100
		default:
			diag := math.Sqrt(vb.W*vb.W+vb.H*vb.H) / math.Sqrt2
			return diag * n / 100
		}
	default:
		return c.convertAbsolute(length)
	}
}

// convertAbsolute handles the units which don't depend on the context.
func (c *converter) convertAbsolute(length svgdoc.Length) float64 {
	n, dpi := length.Value, c.opts.DPI
	switch length.Unit {
	case svgdoc.UnitIn:
		return n * dpi
	case svgdoc.UnitCm:
		return n * dpi / 2.54
	case svgdoc.UnitMm:
		return n * dpi / 25.4
	case svgdoc.UnitPt:
		return n * dpi / 72
	case svgdoc.UnitPc:
		return n * dpi / 6
	default:
		return n
	}
}

// resolveFontSize walks the ancestors of `node` from the root,
// since relative font sizes are relative to the parent font size.
func (c *converter) resolveFontSize(node *svgdoc.Node, st state) float64 {
	ancestors := node.Ancestors()
	fontSize := c.opts.FontSize
	for i := len(ancestors) - 1; i >= 0; i-- {
		raw, ok := ancestors[i].Attribute("font-size")
		if !ok {
			continue
		}
		if factor, ok := fontSizeKeywords[raw]; ok {
			fontSize = c.opts.FontSize * factor
			continue
		}
		switch raw {
		case "larger":
			fontSize *= 1.2
			continue
		case "smaller":
			fontSize /= 1.2
			continue
		}
		length, err := svgdoc.ParseLength(raw)
		if err != nil {
			c.logger.Warn("invalid font-size", zap.String("value", raw))
			continue
		}
		switch length.Unit {
		case svgdoc.UnitEm:
			fontSize *= length.Value
		case svgdoc.UnitEx:
			fontSize *= length.Value / 2
		case svgdoc.UnitPercent:
			fontSize *= length.Value / 100
		default:
			fontSize = c.convertAbsolute(length)
		}
	}
	return fontSize
}

// lengthAttr returns the converted value of the attribute
// directly set on `node`, or `def` if it is missing or invalid.
func (c *converter) lengthAttr(node *svgdoc.Node, aid string, units svgtree.Units, st state, def float64) float64 {
	raw, ok := node.Attribute(aid)
	if !ok {
		return def
	}
	length, err := svgdoc.ParseLength(raw)
	if err != nil {
		c.logger.Warn("invalid length", zap.String("attribute", aid), zap.String("value", raw))
		return def
	}
	return c.convertLength(length, node, aid, units, st)
}

// inheritedLength is like lengthAttr, but the value is searched
// on the ancestors of `node`.
func (c *converter) inheritedLength(node *svgdoc.Node, aid string, st state, def float64) float64 {
	decl := node.FindDeclarer(aid)
	if decl == nil {
		return def
	}
	return c.lengthAttr(decl, aid, svgtree.UserSpaceOnUse, st, def)
}

// numberAttr returns the number directly set on `node`, or `def`.
func (c *converter) numberAttr(node *svgdoc.Node, aid string, def float64) float64 {
	raw, ok := node.Attribute(aid)
	if !ok {
		return def
	}
	v, err := svgdoc.ParseNumber(raw)
	if err != nil {
		c.logger.Warn("invalid number", zap.String("attribute", aid), zap.String("value", raw))
		return def
	}
	return v
}

// opacityAttr returns the clamped opacity set on `node`, default to 1.
func (c *converter) opacityAttr(node *svgdoc.Node, aid string) svgtree.Opacity {
	raw, ok := node.Attribute(aid)
	if !ok {
		return svgtree.OpacityOne
	}
	v, err := svgdoc.ParseOpacity(raw)
	if err != nil {
		c.logger.Warn("invalid opacity", zap.String("attribute", aid), zap.String("value", raw))
		return svgtree.OpacityOne
	}
	return svgtree.NewOpacity(v)
}

// unitsFromString parses userSpaceOnUse or objectBoundingBox.
func unitsFromString(raw string, def svgtree.Units) svgtree.Units {
	switch raw {
	case "userSpaceOnUse":
		return svgtree.UserSpaceOnUse
	case "objectBoundingBox":
		return svgtree.ObjectBoundingBox
	default:
		return def
	}
}
