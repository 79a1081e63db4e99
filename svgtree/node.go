// Package svgtree defines the resolved scene graph produced from an SVG
// document: every style attribute is resolved to a concrete value,
// every paint reference to a typed paint, so that the tree
// may be rendered directly, without any knowledge of the SVG cascade.
//
// The tree is built once, by the svgconv package, and is then
// read-only. Shared resources (gradients, patterns, clip paths, masks and filters)
// are referenced by pointer, so that identity comparisons are meaningful.
package svgtree

import "github.com/benoitkugler/svgtree/svgpath"

// NodeKind is the payload of a Node, one of
// *Group, *Path, *Image, *Text
type NodeKind interface {
	nodeID() string
	nodeTransform() svgpath.Matrix2D
}

func (g *Group) nodeID() string { return g.ID }
func (p *Path) nodeID() string  { return p.ID }
func (i *Image) nodeID() string { return i.ID }
func (t *Text) nodeID() string  { return t.ID }

func (g *Group) nodeTransform() svgpath.Matrix2D { return g.Transform }
func (p *Path) nodeTransform() svgpath.Matrix2D  { return p.Transform }
func (i *Image) nodeTransform() svgpath.Matrix2D { return i.Transform }
func (t *Text) nodeTransform() svgpath.Matrix2D  { return t.Transform }

// Node is an element of the tree. Children are owned by
// their parent; the parent link is only a back reference.
type Node struct {
	Kind NodeKind

	parent   *Node
	children []*Node
}

// NewNode returns a detached node.
func NewNode(kind NodeKind) *Node { return &Node{Kind: kind} }

// Append adds `child` as the last child of `n`.
// `child` must be detached.
func (n *Node) Append(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// AppendKind is a shortcut for n.Append(NewNode(kind)), and returns the new node.
func (n *Node) AppendKind(kind NodeKind) *Node {
	child := NewNode(kind)
	n.Append(child)
	return child
}

// Parent returns nil for the root node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the children of the node, in rendering order.
func (n *Node) Children() []*Node { return n.children }

// HasChildren returns true if the node has at least one child.
func (n *Node) HasChildren() bool { return len(n.children) != 0 }

// ID returns the element id, which may be empty.
func (n *Node) ID() string { return n.Kind.nodeID() }

// Transform returns the node own transform.
func (n *Node) Transform() svgpath.Matrix2D { return n.Kind.nodeTransform() }

// Ancestors returns the node and its ancestors, from `n` to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for ; n != nil; n = n.parent {
		out = append(out, n)
	}
	return out
}

// Descendants returns the node and all its descendants, in depth-first order.
func (n *Node) Descendants() []*Node {
	out := []*Node{n}
	for _, c := range n.children {
		out = append(out, c.Descendants()...)
	}
	return out
}

// AbsTransform returns the composition of the transforms of
// the ancestors of `n` (including `n`), the root one being applied last.
func (n *Node) AbsTransform() svgpath.Matrix2D {
	abs := svgpath.Identity
	for _, p := range n.Ancestors() {
		abs = p.Transform().Mult(abs)
	}
	return abs
}
