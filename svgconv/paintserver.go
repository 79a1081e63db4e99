package svgconv

import (
	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgdoc"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// serverOrColor is the result of a paint server resolution:
// either a shared server, or a degenerate server collapsed
// to a flat color, or painting nothing.
type serverOrColor struct {
	paint   svgtree.Paint // *LinearGradient, *RadialGradient or *Pattern
	color   svgtree.Color
	opacity svgtree.Opacity
	none    bool
}

type paintEntry struct {
	server serverOrColor
	ok     bool
}

// convertPaintServer resolves a gradient or pattern element.
// It returns false if the server is invalid or recursive. Results are cached,
// so that every reference to the same element shares the same server.
func (c *converter) convertPaintServer(node *svgdoc.Node, st state) (serverOrColor, bool) {
	if entry, ok := c.cache.paints[node]; ok {
		return entry.server, entry.ok
	}
	if c.cache.inProgress[node] {
		c.logger.Warn("recursive paint server", zap.String("id", node.ID()))
		return serverOrColor{}, false
	}
	c.cache.inProgress[node] = true
	defer delete(c.cache.inProgress, node)

	var (
		server serverOrColor
		ok     bool
	)
	switch node.Tag() {
	case svgdoc.ElementLinearGradient:
		server, ok = c.convertLinear(node, st)
	case svgdoc.ElementRadialGradient:
		server, ok = c.convertRadial(node, st)
	case svgdoc.ElementPattern:
		server, ok = c.convertPattern(node, st)
	}
	c.cache.paints[node] = paintEntry{server, ok}
	return server, ok
}

// hrefChain returns `node` followed by the elements it references
// through `href`, stopping on cycles.
func (c *converter) hrefChain(node *svgdoc.Node) []*svgdoc.Node {
	seen := make(map[*svgdoc.Node]bool)
	var out []*svgdoc.Node
	for n := node; n != nil && !seen[n]; n = c.doc.ElementByID(n.Href()) {
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func isGradient(tag svgdoc.ElementID) bool {
	return tag == svgdoc.ElementLinearGradient || tag == svgdoc.ElementRadialGradient
}

// chainAttribute returns the first element of the chain with a value for `aid`,
// among the elements with the tag `tag`, or any gradient for the attributes
// shared by the gradients (see `anyGradient`).
func chainAttribute(chain []*svgdoc.Node, aid string, tag svgdoc.ElementID, anyGradient bool) *svgdoc.Node {
	for _, n := range chain {
		if n.Tag() != tag && !(anyGradient && isGradient(n.Tag())) {
			continue
		}
		if n.HasAttribute(aid) {
			return n
		}
	}
	return nil
}

func (c *converter) chainLength(chain []*svgdoc.Node, aid string, units svgtree.Units, st state, def svgdoc.Length) float64 {
	tag := chain[0].Tag()
	node := chainAttribute(chain, aid, tag, false)
	if node == nil {
		return c.convertLength(def, chain[0], aid, units, st)
	}
	return c.lengthAttr(node, aid, units, st, c.convertLength(def, chain[0], aid, units, st))
}

func (c *converter) chainUnits(chain []*svgdoc.Node, aid string, def svgtree.Units) svgtree.Units {
	node := chainAttribute(chain, aid, chain[0].Tag(), true)
	if node == nil {
		return def
	}
	raw, _ := node.Attribute(aid)
	return unitsFromString(raw, def)
}

// chainTransform returns false for non invertible transforms.
func (c *converter) chainTransform(chain []*svgdoc.Node, aid string) (svgpath.Matrix2D, bool) {
	node := chainAttribute(chain, aid, chain[0].Tag(), true)
	if node == nil {
		return svgpath.Identity, true
	}
	return c.transformAttr(node, aid)
}

func (c *converter) chainSpread(chain []*svgdoc.Node) svgtree.SpreadMethod {
	node := chainAttribute(chain, "spreadMethod", chain[0].Tag(), true)
	if node == nil {
		return svgtree.PadSpread
	}
	switch raw, _ := node.Attribute("spreadMethod"); raw {
	case "reflect":
		return svgtree.ReflectSpread
	case "repeat":
		return svgtree.RepeatSpread
	default:
		return svgtree.PadSpread
	}
}

// convertStops uses the stops of the first gradient of the chain
// defining some.
func (c *converter) convertStops(chain []*svgdoc.Node) []svgtree.Stop {
	for _, n := range chain {
		if !isGradient(n.Tag()) {
			continue
		}
		var stops []svgtree.Stop
		prevOffset := 0.
		for _, child := range n.Children() {
			if child.Tag() != svgdoc.ElementStop {
				continue
			}
			offset := c.stopOffset(child)
			// offsets are clamped and non decreasing
			if offset < prevOffset {
				offset = prevOffset
			}
			prevOffset = offset

			rgba := opaqueBlack
			if raw, ok := child.Attribute("stop-color"); ok {
				if raw == "currentColor" {
					rgba = c.currentColor(child)
				} else if col, err := svgdoc.ParseColor(raw); err == nil {
					rgba = col
				} else {
					c.logger.Warn("invalid stop-color", zap.String("value", raw))
				}
			}
			rgb, alpha := svgtree.SplitAlpha(rgba)
			stops = append(stops, svgtree.Stop{
				Offset:  offset,
				Color:   rgb,
				Opacity: alpha * c.opacityAttr(child, "stop-opacity"),
			})
		}
		if len(stops) != 0 {
			return stops
		}
	}
	return nil
}

func (c *converter) stopOffset(stop *svgdoc.Node) float64 {
	raw, ok := stop.Attribute("offset")
	if !ok {
		return 0
	}
	v, err := svgdoc.ParseOpacity(raw)
	if err != nil {
		c.logger.Warn("invalid stop offset", zap.String("value", raw))
		return 0
	}
	return float64(svgtree.NewOpacity(v))
}

// degenerateStops handles the gradients with less than two stops.
func degenerateStops(stops []svgtree.Stop) (serverOrColor, bool) {
	switch len(stops) {
	case 0:
		return serverOrColor{none: true}, true
	case 1:
		return serverOrColor{color: stops[0].Color, opacity: stops[0].Opacity}, true
	}
	return serverOrColor{}, false
}

func lastStopColor(stops []svgtree.Stop) serverOrColor {
	last := stops[len(stops)-1]
	return serverOrColor{color: last.Color, opacity: last.Opacity}
}

func (c *converter) convertLinear(node *svgdoc.Node, st state) (serverOrColor, bool) {
	chain := c.hrefChain(node)
	stops := c.convertStops(chain)
	if server, ok := degenerateStops(stops); ok {
		return server, true
	}

	units := c.chainUnits(chain, "gradientUnits", svgtree.ObjectBoundingBox)
	ts, ok := c.chainTransform(chain, "gradientTransform")
	if !ok {
		return serverOrColor{}, false
	}
	zero, full := svgdoc.Length{}, svgdoc.Length{Value: 100, Unit: svgdoc.UnitPercent}
	x1 := c.chainLength(chain, "x1", units, st, zero)
	y1 := c.chainLength(chain, "y1", units, st, zero)
	x2 := c.chainLength(chain, "x2", units, st, full)
	y2 := c.chainLength(chain, "y2", units, st, zero)
	if svgpath.FuzzyEq(x1, x2) && svgpath.FuzzyEq(y1, y2) {
		return lastStopColor(stops), true
	}

	return serverOrColor{paint: &svgtree.LinearGradient{
		BaseGradient: svgtree.BaseGradient{
			ID:            node.ID(),
			GradientUnits: units,
			Transform:     ts,
			Spread:        c.chainSpread(chain),
			Stops:         stops,
		},
		X1: x1, Y1: y1, X2: x2, Y2: y2,
	}}, true
}

func (c *converter) convertRadial(node *svgdoc.Node, st state) (serverOrColor, bool) {
	chain := c.hrefChain(node)
	stops := c.convertStops(chain)
	if server, ok := degenerateStops(stops); ok {
		return server, true
	}

	units := c.chainUnits(chain, "gradientUnits", svgtree.ObjectBoundingBox)
	ts, ok := c.chainTransform(chain, "gradientTransform")
	if !ok {
		return serverOrColor{}, false
	}
	half := svgdoc.Length{Value: 50, Unit: svgdoc.UnitPercent}
	r := c.chainLength(chain, "r", units, st, half)
	if r <= 0 || svgpath.FuzzyZero(r) {
		return lastStopColor(stops), true
	}
	cx := c.chainLength(chain, "cx", units, st, half)
	cy := c.chainLength(chain, "cy", units, st, half)
	// the focal point defaults to the center
	fx, fy := cx, cy
	if n := chainAttribute(chain, "fx", svgdoc.ElementRadialGradient, false); n != nil {
		fx = c.lengthAttr(n, "fx", units, st, cx)
	}
	if n := chainAttribute(chain, "fy", svgdoc.ElementRadialGradient, false); n != nil {
		fy = c.lengthAttr(n, "fy", units, st, cy)
	}

	return serverOrColor{paint: &svgtree.RadialGradient{
		BaseGradient: svgtree.BaseGradient{
			ID:            node.ID(),
			GradientUnits: units,
			Transform:     ts,
			Spread:        c.chainSpread(chain),
			Stops:         stops,
		},
		Cx: cx, Cy: cy, R: r, Fx: fx, Fy: fy,
	}}, true
}

func (c *converter) convertPattern(node *svgdoc.Node, st state) (serverOrColor, bool) {
	chain := c.hrefChain(node)
	// only patterns share attributes
	patterns := chain[:0:0]
	for _, n := range chain {
		if n.Tag() == svgdoc.ElementPattern {
			patterns = append(patterns, n)
		}
	}
	units := c.chainUnits(patterns, "patternUnits", svgtree.ObjectBoundingBox)
	contentUnits := c.chainUnits(patterns, "patternContentUnits", svgtree.UserSpaceOnUse)
	ts, ok := c.chainTransform(patterns, "patternTransform")
	if !ok {
		return serverOrColor{}, false
	}

	var zero svgdoc.Length
	rect, ok := svgpath.NewRect(
		c.chainLength(patterns, "x", units, st, zero),
		c.chainLength(patterns, "y", units, st, zero),
		c.chainLength(patterns, "width", units, st, zero),
		c.chainLength(patterns, "height", units, st, zero),
	)
	if !ok {
		c.logger.Warn("pattern with an invalid size", zap.String("id", node.ID()))
		return serverOrColor{}, false
	}

	pattern := &svgtree.Pattern{
		ID:           node.ID(),
		PatternUnits: units,
		ContentUnits: contentUnits,
		Transform:    ts,
		Rect:         rect,
		Root:         svgtree.NewNode(svgtree.NewGroup()),
	}
	if n := chainAttribute(patterns, "viewBox", svgdoc.ElementPattern, false); n != nil {
		if vb, ok := c.viewBoxAttr(n); ok {
			pattern.ViewBox = &vb
		}
	}

	// the content of the first pattern with children is used
	for _, n := range patterns {
		if len(n.Children()) == 0 {
			continue
		}
		contentState := state{viewBox: st.viewBox, depth: st.depth}
		if pattern.ViewBox != nil {
			contentState.viewBox = pattern.ViewBox.Rect
		}
		c.convertChildren(n, contentState, pattern.Root)
		break
	}
	return serverOrColor{paint: pattern}, true
}
