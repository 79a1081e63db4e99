package svgtree

import "github.com/benoitkugler/svgtree/svgpath"

// Size is a strictly positive size.
type Size struct{ W, H float64 }

// Tree is a resolved SVG document.
type Tree struct {
	// Size is the output size, from the root `width` and `height`.
	Size Size
	// ViewBox maps the user space into Size.
	ViewBox svgpath.ViewBox
	// Root is a Group node, with identity transform.
	Root *Node
}

// NodeByID returns the first node (in depth-first order) with the given id,
// or nil. An empty `id` always returns nil.
func (t *Tree) NodeByID(id string) *Node {
	if id == "" {
		return nil
	}
	for _, n := range t.Root.Descendants() {
		if n.ID() == id {
			return n
		}
	}
	return nil
}

// HasTextNodes returns true if a Text node is reachable from the root,
// including through the clip paths, the masks and the patterns referenced
// by the tree.
func (t *Tree) HasTextNodes() bool {
	return hasTextNodes(t.Root, map[*Node]bool{})
}

func hasTextNodes(root *Node, seen map[*Node]bool) bool {
	if seen[root] {
		return false
	}
	seen[root] = true
	for _, n := range root.Descendants() {
		switch kind := n.Kind.(type) {
		case *Text:
			return true
		case *Group:
			for clip := kind.ClipPath; clip != nil; clip = clip.ClipPath {
				if hasTextNodes(clip.Root, seen) {
					return true
				}
			}
			for mask := kind.Mask; mask != nil; mask = mask.Mask {
				if hasTextNodes(mask.Root, seen) {
					return true
				}
			}
		case *Path:
			if kind.Fill != nil {
				if pattern, ok := kind.Fill.Paint.(*Pattern); ok && hasTextNodes(pattern.Root, seen) {
					return true
				}
			}
			if kind.Stroke != nil {
				if pattern, ok := kind.Stroke.Paint.(*Pattern); ok && hasTextNodes(pattern.Root, seen) {
					return true
				}
			}
		}
	}
	return false
}
