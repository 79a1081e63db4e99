package svgconv

import (
	"strings"

	"github.com/benoitkugler/svgtree/svgdoc"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

// convertText keeps the raw content of the element, with
// the white spaces collapsed. Layout is not supported.
func (c *converter) convertText(node *svgdoc.Node, st state, parent *svgtree.Node) {
	content := strings.Join(strings.Fields(node.Text()), " ")
	if content == "" {
		return
	}
	ts, ok := c.transformAttr(node, "transform")
	if !ok {
		return
	}
	g, ok := c.convertGroup(node, st, false, ts, parent)
	if !ok {
		return
	}
	id := node.ID()
	if g != parent {
		id, ts = "", svgpath.Identity
	}
	g.AppendKind(&svgtree.Text{ID: id, Transform: ts, Content: content})
}
