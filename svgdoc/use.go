package svgdoc

import "strings"

// maxUseNesting bounds the number of nested <use> copies.
const maxUseNesting = 8

// Href returns the local reference of the `href` attribute
// (either plain or xlink), without the leading #, or an empty string.
func (n *Node) Href() string {
	href := n.attrs["href"]
	if !strings.HasPrefix(href, "#") {
		return ""
	}
	return href[1:]
}

// expandUses attaches to each <use> element a copy of the element it references.
// References to an ancestor of the <use> (including itself), to a missing
// element, or nested too deeply, are dropped.
func (d *Document) expandUses(n *Node, nesting int) {
	if n.tag == ElementUse {
		if !n.expanded {
			n.children = nil // <use> children (like <title>) are not rendered
			target := d.ElementByID(n.Href())
			if target != nil && !n.isAncestor(target) && nesting < maxUseNesting {
				n.appendChild(target.clone())
			}
			n.expanded = true
		}
		nesting++
	}
	for _, c := range n.children {
		d.expandUses(c, nesting)
	}
}

// clone returns a deep copy of `n`, without ids, to avoid duplicates
func (n *Node) clone() *Node {
	out := &Node{
		tag:      n.tag,
		name:     n.name,
		attrs:    make(map[string]string, len(n.attrs)),
		text:     n.text,
		origin:   n,
		expanded: n.expanded,
	}
	if n.origin != nil {
		out.origin = n.origin
	}
	for k, v := range n.attrs {
		if k == "id" {
			continue
		}
		out.attrs[k] = v
	}
	for _, c := range n.children {
		out.appendChild(c.clone())
	}
	return out
}
