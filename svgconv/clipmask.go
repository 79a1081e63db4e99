package svgconv

import (
	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgdoc"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// linkAttr returns the element referenced by the `aid` attribute of `node`,
// if it has the expected tag. Invalid references are logged and ignored.
func (c *converter) linkAttr(node *svgdoc.Node, aid string, tag svgdoc.ElementID) *svgdoc.Node {
	raw, ok := node.Attribute(aid)
	if !ok || raw == "none" {
		return nil
	}
	id, err := svgdoc.ParseFuncIRI(raw)
	if err != nil {
		c.logger.Warn("invalid reference", zap.String("attribute", aid), zap.String("value", raw))
		return nil
	}
	link := c.doc.ElementByID(id)
	if link == nil || link.Tag() != tag {
		c.logger.Warn("invalid link, attribute ignored", zap.String("attribute", aid), zap.String("id", id))
		return nil
	}
	return link
}

// resolveClipPathAttr returns nil if `node` is not clipped,
// or if its clip path is invalid.
func (c *converter) resolveClipPathAttr(node *svgdoc.Node, aid string, st state) *svgtree.ClipPath {
	link := c.linkAttr(node, aid, svgdoc.ElementClipPath)
	if link == nil {
		return nil
	}
	clip, ok := c.convertClipPath(link, st)
	if !ok {
		c.logger.Warn("invalid clip path, attribute ignored", zap.String("id", link.ID()))
		return nil
	}
	return clip
}

func (c *converter) convertClipPath(node *svgdoc.Node, st state) (*svgtree.ClipPath, bool) {
	if clip, ok := c.cache.clipPaths[node]; ok {
		return clip, clip != nil
	}
	if c.cache.inProgress[node] {
		return nil, false
	}
	c.cache.inProgress[node] = true
	defer delete(c.cache.inProgress, node)

	ts, ok := c.transformAttr(node, "transform")
	if !ok {
		c.cache.clipPaths[node] = nil
		return nil, false
	}
	units, _ := node.Attribute("clipPathUnits")
	clip := &svgtree.ClipPath{
		ID:        node.ID(),
		Units:     unitsFromString(units, svgtree.UserSpaceOnUse),
		Transform: ts,
		Root:      svgtree.NewNode(svgtree.NewGroup()),
	}
	// clip paths may be clipped themselves
	clip.ClipPath = c.resolveClipPathAttr(node, "clip-path", st)

	clipState := state{parentClipPath: node, viewBox: st.viewBox, depth: st.depth}
	for _, child := range node.Children() {
		switch tag := child.Tag(); {
		case tag.IsShape(), tag == svgdoc.ElementText, tag == svgdoc.ElementUse:
			c.convertElement(child, clipState, clip.Root)
		}
	}
	c.cache.clipPaths[node] = clip
	return clip, true
}

// resolveMaskAttr returns nil if `node` is not masked,
// or if its mask is invalid.
func (c *converter) resolveMaskAttr(node *svgdoc.Node, aid string, st state) *svgtree.Mask {
	link := c.linkAttr(node, aid, svgdoc.ElementMask)
	if link == nil {
		return nil
	}
	mask, ok := c.convertMask(link, st)
	if !ok {
		c.logger.Warn("invalid mask, attribute ignored", zap.String("id", link.ID()))
		return nil
	}
	return mask
}

func (c *converter) convertMask(node *svgdoc.Node, st state) (*svgtree.Mask, bool) {
	if mask, ok := c.cache.masks[node]; ok {
		return mask, mask != nil
	}
	if c.cache.inProgress[node] {
		return nil, false
	}
	c.cache.inProgress[node] = true
	defer delete(c.cache.inProgress, node)

	rawUnits, _ := node.Attribute("maskUnits")
	units := unitsFromString(rawUnits, svgtree.ObjectBoundingBox)
	rawUnits, _ = node.Attribute("maskContentUnits")
	contentUnits := unitsFromString(rawUnits, svgtree.UserSpaceOnUse)

	rect, ok := c.regionAttrs(node, units, st)
	if !ok {
		c.logger.Warn("mask with an invalid size", zap.String("id", node.ID()))
		c.cache.masks[node] = nil
		return nil, false
	}
	mask := &svgtree.Mask{
		ID:           node.ID(),
		Units:        units,
		ContentUnits: contentUnits,
		Rect:         rect,
		Root:         svgtree.NewNode(svgtree.NewGroup()),
	}
	mask.Mask = c.resolveMaskAttr(node, "mask", st)

	c.convertChildren(node, state{viewBox: st.viewBox, depth: st.depth}, mask.Root)
	c.cache.masks[node] = mask
	return mask, true
}

// regionAttrs reads the x, y, width and height attributes of masks
// and filters, which default to -10%, -10%, 120%, 120%.
func (c *converter) regionAttrs(node *svgdoc.Node, units svgtree.Units, st state) (svgpath.Rect, bool) {
	minus10 := svgdoc.Length{Value: -10, Unit: svgdoc.UnitPercent}
	plus120 := svgdoc.Length{Value: 120, Unit: svgdoc.UnitPercent}
	attr := func(aid string, def svgdoc.Length) float64 {
		return c.lengthAttr(node, aid, units, st, c.convertLength(def, node, aid, units, st))
	}
	return svgpath.NewRect(attr("x", minus10), attr("y", minus10), attr("width", plus120), attr("height", plus120))
}
