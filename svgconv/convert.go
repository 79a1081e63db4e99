// Package svgconv resolves a source document into a scene graph
// (see the svgtree package): styles are interpreted, paint servers,
// clip paths, masks and filters are shared, and every length is converted
// to user units.
//
// Invalid attributes never abort the conversion: they fall back to
// their default value (or disable the element) and a warning is logged.
package svgconv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgdoc"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

var errUnsupportedElement = errors.New("svgconv: unsupported element")

// maxImageNesting bounds the depth of SVG images
// embedding other SVG images.
const maxImageNesting = 4

// state is the context of the element being converted.
// It is passed by value, so that children may change it freely.
type state struct {
	// parentClipPath is not nil inside a `clipPath`
	parentClipPath *svgdoc.Node
	// viewBox is the reference for percentages
	viewBox svgpath.Rect
	depth   int
}

// cache stores the shared resources, by source element.
type cache struct {
	paints    map[*svgdoc.Node]paintEntry
	clipPaths map[*svgdoc.Node]*svgtree.ClipPath
	masks     map[*svgdoc.Node]*svgtree.Mask
	filters   map[*svgdoc.Node]*svgtree.Filter

	// the resources being converted, used to detect cycles
	inProgress map[*svgdoc.Node]bool
}

func newCache() *cache {
	return &cache{
		paints:     make(map[*svgdoc.Node]paintEntry),
		clipPaths:  make(map[*svgdoc.Node]*svgtree.ClipPath),
		masks:      make(map[*svgdoc.Node]*svgtree.Mask),
		filters:    make(map[*svgdoc.Node]*svgtree.Filter),
		inProgress: make(map[*svgdoc.Node]bool),
	}
}

type converter struct {
	doc    *svgdoc.Document
	opts   Options
	logger *zap.Logger
	cache  *cache

	imageNesting int
	err          error // first error, in strict mode
}

// Parse reads an SVG document and converts it.
func Parse(r io.Reader, opts Options) (*svgtree.Tree, error) {
	doc, err := svgdoc.Parse(r)
	if err != nil {
		return nil, err
	}
	return Convert(doc, opts)
}

// ParseFile reads and converts the given file. If not set,
// `opts.ResourcesDir` defaults to the directory of the file.
func ParseFile(filename string, opts Options) (*svgtree.Tree, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if opts.ResourcesDir == "" {
		opts.ResourcesDir = filepath.Dir(filename)
	}
	return Parse(f, opts)
}

// Convert resolves `doc` into a scene graph.
func Convert(doc *svgdoc.Document, opts Options) (*svgtree.Tree, error) {
	return convert(doc, opts, 0)
}

func convert(doc *svgdoc.Document, opts Options, imageNesting int) (*svgtree.Tree, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultOptions().MaxDepth
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultOptions().DPI
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultOptions().FontSize
	}
	c := &converter{
		doc:          doc,
		opts:         opts,
		logger:       opts.logger(),
		cache:        newCache(),
		imageNesting: imageNesting,
	}

	root := doc.Root()
	size, viewBox := c.resolveSize(root)
	tree := &svgtree.Tree{
		Size:    size,
		ViewBox: viewBox,
		Root:    svgtree.NewNode(svgtree.NewGroup()),
	}
	st := state{viewBox: viewBox.Rect}
	// the root element may carry group properties, but no transform
	if g, ok := c.convertGroup(root, st, false, svgpath.Identity, tree.Root); ok {
		c.convertChildren(root, st, g)
	}
	if c.err != nil {
		return nil, c.err
	}
	return tree, nil
}

// resolveSize returns the size of the root element
// and its view box.
func (c *converter) resolveSize(root *svgdoc.Node) (svgtree.Size, svgpath.ViewBox) {
	var (
		vb    svgpath.ViewBox
		hasVB bool
	)
	if raw, ok := root.Attribute("viewBox"); ok {
		rect, err := svgdoc.ParseViewBox(raw)
		if err != nil {
			c.logger.Warn("invalid root viewBox", zap.String("value", raw), zap.Error(err))
		} else {
			vb.Rect, hasVB = rect, true
		}
	}
	vb.Aspect = c.aspectAttr(root)

	reference := svgpath.Rect{W: c.opts.DefaultSize.W, H: c.opts.DefaultSize.H}
	if hasVB {
		reference = vb.Rect
	}
	dimension := func(aid string, def float64) float64 {
		raw, ok := root.Attribute(aid)
		if !ok {
			return def
		}
		l, err := svgdoc.ParseLength(raw)
		if err != nil {
			c.logger.Warn("invalid root size", zap.String("attribute", aid), zap.String("value", raw))
			return def
		}
		if l.Unit == svgdoc.UnitPercent {
			return def * l.Value / 100
		}
		return c.convertLength(l, root, aid, svgtree.UserSpaceOnUse, state{viewBox: reference})
	}
	size := svgtree.Size{W: dimension("width", reference.W), H: dimension("height", reference.H)}
	if size.W <= 0 || size.H <= 0 {
		c.logger.Warn("invalid root size, using the default", zap.Float64("width", size.W), zap.Float64("height", size.H))
		size = svgtree.Size{W: reference.W, H: reference.H}
	}
	if !hasVB {
		vb.Rect = svgpath.Rect{W: size.W, H: size.H}
	}
	return size, vb
}

// unsupported applies the error mode.
func (c *converter) unsupported(node *svgdoc.Node) {
	switch c.opts.ErrorMode {
	case StrictErrorMode:
		if c.err == nil {
			c.err = fmt.Errorf("%w: %s", errUnsupportedElement, node.Name())
		}
	case WarnErrorMode:
		c.logger.Warn("cannot process svg element", zap.String("element", node.Name()))
	}
}

func (c *converter) convertChildren(node *svgdoc.Node, st state, parent *svgtree.Node) {
	for _, child := range node.Children() {
		c.convertElement(child, st, parent)
	}
}

func (c *converter) convertElement(node *svgdoc.Node, st state, parent *svgtree.Node) {
	if c.err != nil {
		return
	}
	tag := node.Tag()
	if tag == svgdoc.ElementUnknown {
		c.unsupported(node)
		return
	}
	if tag.IsNonRendering() || !isDisplayed(node) {
		return
	}
	if tag == svgdoc.ElementTspan || tag == svgdoc.ElementTextPath {
		return // only meaningful inside text
	}
	if st.depth >= c.opts.MaxDepth {
		c.logger.Warn("maximum depth reached, skipping element", zap.String("element", node.Name()), zap.Int("depth", st.depth))
		return
	}
	st.depth++

	switch tag {
	case svgdoc.ElementG, svgdoc.ElementA:
		ts, ok := c.transformAttr(node, "transform")
		if !ok {
			return
		}
		if g, ok := c.convertGroup(node, st, true, ts, parent); ok {
			c.convertChildren(node, st, g)
		}
	case svgdoc.ElementSwitch:
		c.convertSwitch(node, st, parent)
	case svgdoc.ElementSvg:
		c.convertNestedSvg(node, st, parent)
	case svgdoc.ElementUse:
		c.convertUse(node, st, parent)
	case svgdoc.ElementText:
		c.convertText(node, st, parent)
	case svgdoc.ElementImage:
		c.convertImage(node, st, parent)
	default:
		if tag.IsShape() {
			c.convertPath(node, st, parent)
		}
	}
}

func isDisplayed(node *svgdoc.Node) bool {
	display, _ := node.Attribute("display")
	return display != "none"
}

// convertGroup returns the node receiving the content of `node`:
// a new Group when one is needed (always if `force` is true),
// or `parent` otherwise, in which case `ts` is not used and must be
// applied by the caller.
// It returns false if the element must not be rendered.
func (c *converter) convertGroup(node *svgdoc.Node, st state, force bool, ts svgpath.Matrix2D, parent *svgtree.Node) (*svgtree.Node, bool) {
	g := svgtree.NewGroup()
	g.ID = node.ID()
	g.Transform = ts

	g.ClipPath = c.resolveClipPathAttr(node, "clip-path", st)

	// inside a clip path, only the clipping is relevant
	if st.parentClipPath == nil {
		g.Opacity = c.opacityAttr(node, "opacity")
		g.Mask = c.resolveMaskAttr(node, "mask", st)

		filters, ok := c.resolveFilterAttr(node, st)
		if !ok {
			return nil, false
		}
		g.Filters = filters
		if len(filters) != 0 {
			g.FilterFill, g.FilterStroke = c.filterPaints(node, filters, st)
		}

		if raw, ok := node.Attribute("mix-blend-mode"); ok {
			if mode, ok := svgtree.ParseBlendMode(raw); ok {
				g.BlendMode = mode
			} else {
				c.logger.Warn("invalid mix-blend-mode", zap.String("value", raw))
			}
		}
		isolation, _ := node.Attribute("isolation")
		g.Isolate = isolation == "isolate"
		g.EnableBackground = c.enableBackground(node)
	}

	if !force && !g.ShouldIsolate() && g.EnableBackground == nil {
		return parent, true
	}
	return parent.AppendKind(g), true
}

// transformAttr returns false for non invertible transforms:
// such elements are not rendered.
func (c *converter) transformAttr(node *svgdoc.Node, aid string) (svgpath.Matrix2D, bool) {
	raw, ok := node.Attribute(aid)
	if !ok {
		return svgpath.Identity, true
	}
	ts, err := svgdoc.ParseTransform(raw)
	if err != nil {
		c.logger.Warn("invalid transform", zap.String("attribute", aid), zap.String("value", raw), zap.Error(err))
		return svgpath.Identity, true
	}
	if !ts.IsInvertible() {
		c.logger.Debug("non invertible transform", zap.String("element", node.Name()), zap.String("value", raw))
		return ts, false
	}
	return ts, true
}

func (c *converter) aspectAttr(node *svgdoc.Node) svgpath.AspectRatio {
	raw, ok := node.Attribute("preserveAspectRatio")
	if !ok {
		return svgpath.AspectRatio{}
	}
	aspect, err := svgdoc.ParseAspectRatio(raw)
	if err != nil {
		c.logger.Warn("invalid preserveAspectRatio", zap.String("value", raw))
	}
	return aspect
}

// viewBoxAttr returns false if the attribute is missing or invalid.
func (c *converter) viewBoxAttr(node *svgdoc.Node) (svgpath.ViewBox, bool) {
	raw, ok := node.Attribute("viewBox")
	if !ok {
		return svgpath.ViewBox{}, false
	}
	rect, err := svgdoc.ParseViewBox(raw)
	if err != nil {
		c.logger.Warn("invalid viewBox", zap.String("value", raw), zap.Error(err))
		return svgpath.ViewBox{}, false
	}
	return svgpath.ViewBox{Rect: rect, Aspect: c.aspectAttr(node)}, true
}

// convertSwitch renders the first child whose conditions are met.
func (c *converter) convertSwitch(node *svgdoc.Node, st state, parent *svgtree.Node) {
	ts, ok := c.transformAttr(node, "transform")
	if !ok {
		return
	}
	for _, child := range node.Children() {
		tag := child.Tag()
		if tag == svgdoc.ElementUnknown || tag.IsNonRendering() || !evalConditions(child) {
			continue
		}
		if g, ok := c.convertGroup(node, st, true, ts, parent); ok {
			c.convertElement(child, st, g)
		}
		return
	}
}

// evalConditions handles the conditional processing attributes.
// Extensions are never supported and English is the only language.
func evalConditions(node *svgdoc.Node) bool {
	if node.HasAttribute("requiredExtensions") {
		return false
	}
	if raw, ok := node.Attribute("systemLanguage"); ok {
		for _, lang := range strings.Split(raw, ",") {
			if lang = strings.TrimSpace(lang); lang == "en" || strings.HasPrefix(lang, "en-") {
				return true
			}
		}
		return false
	}
	return true
}

// convertNestedSvg establishes a new viewport. Clipping to the viewport
// is not applied.
func (c *converter) convertNestedSvg(node *svgdoc.Node, st state, parent *svgtree.Node) {
	x := c.lengthAttr(node, "x", svgtree.UserSpaceOnUse, st, 0)
	y := c.lengthAttr(node, "y", svgtree.UserSpaceOnUse, st, 0)
	w := c.lengthAttr(node, "width", svgtree.UserSpaceOnUse, st, st.viewBox.W)
	h := c.lengthAttr(node, "height", svgtree.UserSpaceOnUse, st, st.viewBox.H)
	if w <= 0 || h <= 0 {
		return
	}
	ts := svgpath.Identity.Translate(x, y)
	st.viewBox = svgpath.Rect{W: w, H: h}
	if vb, ok := c.viewBoxAttr(node); ok {
		ts = ts.Mult(vb.Transform(w, h))
		st.viewBox = vb.Rect
	}
	if g, ok := c.convertGroup(node, st, true, ts, parent); ok {
		c.convertChildren(node, st, g)
	}
}

// convertUse renders the copy of the referenced element attached
// to `node` while loading the document.
func (c *converter) convertUse(node *svgdoc.Node, st state, parent *svgtree.Node) {
	children := node.Children()
	if len(children) == 0 {
		c.logger.Debug("use element without target", zap.String("href", node.Href()))
		return
	}
	target := children[0]
	ts, ok := c.transformAttr(node, "transform")
	if !ok {
		return
	}
	x := c.lengthAttr(node, "x", svgtree.UserSpaceOnUse, st, 0)
	y := c.lengthAttr(node, "y", svgtree.UserSpaceOnUse, st, 0)
	ts = ts.Translate(x, y)

	g, ok := c.convertGroup(node, st, true, ts, parent)
	if !ok {
		return
	}
	switch target.Tag() {
	case svgdoc.ElementSymbol:
		c.convertSymbol(node, target, st, g)
	case svgdoc.ElementSvg:
		// the use size overrides the nested svg size
		if w, ok := node.Attribute("width"); ok {
			target.SetAttribute("width", w)
		}
		if h, ok := node.Attribute("height"); ok {
			target.SetAttribute("height", h)
		}
		c.convertElement(target, st, g)
	default:
		c.convertElement(target, st, g)
	}
}

// convertSymbol renders the content of a symbol instantiated by `use`.
func (c *converter) convertSymbol(use, symbol *svgdoc.Node, st state, parent *svgtree.Node) {
	if !isDisplayed(symbol) {
		return
	}
	vb, ok := c.viewBoxAttr(symbol)
	if !ok {
		c.convertChildren(symbol, st, parent)
		return
	}
	w := c.lengthAttr(use, "width", svgtree.UserSpaceOnUse, st, st.viewBox.W)
	h := c.lengthAttr(use, "height", svgtree.UserSpaceOnUse, st, st.viewBox.H)
	if w <= 0 || h <= 0 {
		return
	}
	g := svgtree.NewGroup()
	g.ID = symbol.ID()
	g.Transform = vb.Transform(w, h)
	st.viewBox = vb.Rect
	c.convertChildren(symbol, st, parent.AppendKind(g))
}
