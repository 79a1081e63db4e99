// Package svgdoc loads SVG files into a tree of elements carrying
// their raw attributes, once the CSS cascade has been applied,
// `inherit` values replaced and `use` elements expanded.
//
// The values are not interpreted: this is the job of the typed parsers
// (see ParseLength, ParsePaint, etc...) and of the resolution pass.
package svgdoc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

var (
	errNotSVG       = errors.New("svgdoc: root element is not <svg>")
	errMultipleRoot = errors.New("svgdoc: multiple root elements")
)

// Node is one element of the document.
type Node struct {
	tag      ElementID
	name     string // local name, useful for unknown elements
	attrs    map[string]string
	parent   *Node
	children []*Node
	text     string // character data directly contained

	origin   *Node // for nodes copied by a <use>, the original node
	expanded bool  // for <use>, the referenced element has been copied
}

// newNode copies the element `e` and its content.
func newNode(e *etree.Element) *Node {
	n := &Node{
		tag:   elementByName(namespace(e.Space, e.NamespaceURI()), e.Tag),
		name:  e.Tag,
		attrs: make(map[string]string, len(e.Attr)),
	}
	for i := range e.Attr {
		attr := &e.Attr[i]
		if attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns") {
			continue
		}
		switch namespace(attr.Space, attr.NamespaceURI()) {
		case "", svgNamespace, xlinkNamespace, "xlink":
		default: // editor specific data
			continue
		}
		n.attrs[attr.Key] = strings.TrimSpace(attr.Value)
	}
	for _, token := range e.Child {
		switch token := token.(type) {
		case *etree.Element:
			n.appendChild(newNode(token))
		case *etree.CharData:
			n.text += token.Data
		}
	}
	return n
}

// namespace returns the URI bound to `prefix`,
// or the prefix itself when it is not declared.
func namespace(prefix, uri string) string {
	if uri == "" {
		return prefix
	}
	return uri
}

// Tag returns the kind of the element.
func (n *Node) Tag() ElementID { return n.tag }

// Name returns the local name of the element, as written in the file.
func (n *Node) Name() string { return n.name }

// ID returns the `id` attribute, or an empty string.
func (n *Node) ID() string { return n.attrs["id"] }

// HasAttribute returns true if the attribute is directly set on `n`.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.attrs[name]
	return ok
}

// Attribute returns the raw value of the attribute directly set on `n`.
func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// SetAttribute overrides the value of `name`.
func (n *Node) SetAttribute(name, value string) { n.attrs[name] = value }

// Parent returns nil for the root element.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child elements, in document order.
func (n *Node) Children() []*Node { return n.children }

// Ancestors returns the chain of nodes from `n` (included) to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for ; n != nil; n = n.parent {
		out = append(out, n)
	}
	return out
}

// Text returns the character data of the node and its descendants.
func (n *Node) Text() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	b.WriteString(n.text)
	for _, c := range n.children {
		c.writeText(b)
	}
}

// FindDeclarer returns the nearest node at or above `n` with a value
// directly set for `name`, or nil if no ancestor sets it.
// The cost is linear in the depth of `n`.
func (n *Node) FindDeclarer(name string) *Node {
	for ; n != nil; n = n.parent {
		if _, ok := n.attrs[name]; ok {
			return n
		}
	}
	return nil
}

// FindAttribute returns the raw value set by the declarer of `name`.
func (n *Node) FindAttribute(name string) (string, bool) {
	if decl := n.FindDeclarer(name); decl != nil {
		return decl.attrs[name], true
	}
	return "", false
}

func (n *Node) appendChild(c *Node) {
	c.parent = n
	n.children = append(n.children, c)
}

// isAncestor returns true if `other`, or the node it was copied from,
// is `n` or one of its ancestors
func (n *Node) isAncestor(other *Node) bool {
	for ; n != nil; n = n.parent {
		if n == other || n.origin == other {
			return true
		}
	}
	return false
}

// Document is a loaded SVG file.
type Document struct {
	root *Node
	ids  map[string]*Node
}

// Root returns the root <svg> element.
func (d *Document) Root() *Node { return d.root }

// ElementByID returns nil if no element has the given `id`.
// Elements copied by <use> are not registered.
func (d *Document) ElementByID(id string) *Node {
	if id == "" {
		return nil
	}
	return d.ids[id]
}

// Parse reads an SVG document, and applies the styling cascade,
// the `use` expansion and the `inherit` resolution.
func Parse(r io.Reader) (*Document, error) {
	source := etree.NewDocument()
	source.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := source.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("svgdoc: invalid xml: %w", err)
	}
	roots := source.ChildElements()
	if len(roots) > 1 {
		return nil, errMultipleRoot
	}
	if len(roots) == 0 {
		return nil, errNotSVG
	}
	doc := &Document{root: newNode(roots[0]), ids: make(map[string]*Node)}
	if doc.root.tag != ElementSvg {
		return nil, errNotSVG
	}

	doc.collectIDs(doc.root)
	if err := doc.applyStyleSheets(); err != nil {
		return nil, err
	}
	doc.expandUses(doc.root, 0)
	resolveInherit(doc.root)
	return doc, nil
}

// ParseFile opens and parses the given file.
func ParseFile(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// collectIDs registers the first element for each id
func (d *Document) collectIDs(n *Node) {
	if id := n.ID(); id != "" {
		if _, has := d.ids[id]; !has {
			d.ids[id] = n
		}
	}
	for _, c := range n.children {
		d.collectIDs(c)
	}
}

// resolveInherit replaces the `inherit` values by the value
// of the nearest ancestor, or removes them. The walk is top-down so
// that the parent chain is already resolved.
func resolveInherit(n *Node) {
	for name, v := range n.attrs {
		if v != "inherit" {
			continue
		}
		var (
			pv string
			ok bool
		)
		if n.parent != nil {
			pv, ok = n.parent.FindAttribute(name)
		}
		if ok {
			n.attrs[name] = pv
		} else {
			delete(n.attrs, name)
		}
	}
	for _, c := range n.children {
		resolveInherit(c)
	}
}
