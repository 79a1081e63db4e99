package svgtree

import "github.com/benoitkugler/svgtree/svgpath"

// CalculateBbox returns the bounding box of the node in canvas coordinates,
// that is using its absolute transform, including the stroke of the paths.
// It returns false for empty groups and text nodes.
func (n *Node) CalculateBbox() (svgpath.Bbox, bool) {
	return calcNodeBbox(n, n.AbsTransform())
}

// calcNodeBbox computes the box of `node` when its content
// is mapped by `ts` (which includes the node transform).
func calcNodeBbox(node *Node, ts svgpath.Matrix2D) (svgpath.Bbox, bool) {
	switch kind := node.Kind.(type) {
	case *Path:
		var strokeWidth float64
		if kind.Stroke != nil {
			strokeWidth = float64(kind.Stroke.Width)
		}
		return kind.Data.BboxWithTransform(ts, strokeWidth)
	case *Image:
		var p svgpath.Path
		r := kind.ViewBox.Rect
		p.AddRect(r.X, r.Y, r.W, r.H)
		return p.BboxWithTransform(ts, 0)
	case *Group:
		var (
			bbox svgpath.Bbox
			ok   bool
		)
		for _, child := range node.children {
			childBbox, childOk := calcNodeBbox(child, ts.Mult(child.Transform()))
			if !childOk {
				continue
			}
			if ok {
				bbox = bbox.Expand(childBbox)
			} else {
				bbox, ok = childBbox, true
			}
		}
		return bbox, ok
	default: // text
		return svgpath.Bbox{}, false
	}
}
