package svgtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgtree/svgpath"
)

func rectPath(id string, x, y, w, h float64) *Path {
	var data svgpath.Path
	data.AddRect(x, y, w, h)
	fill := DefaultFill()
	return &Path{ID: id, Transform: svgpath.Identity, Fill: &fill, Data: data}
}

func TestShouldIsolate(t *testing.T) {
	// exhaustive over the 6 conditions
	for mask := 0; mask < 1<<6; mask++ {
		g := NewGroup()
		if mask&1 != 0 {
			g.Isolate = true
		}
		if mask&2 != 0 {
			g.Opacity = 0.5
		}
		if mask&4 != 0 {
			g.ClipPath = &ClipPath{Root: NewNode(NewGroup())}
		}
		if mask&8 != 0 {
			g.Mask = &Mask{Root: NewNode(NewGroup())}
		}
		if mask&16 != 0 {
			g.Filters = []*Filter{{}}
		}
		if mask&32 != 0 {
			g.BlendMode = BlendMultiply
		}
		assert.Equal(t, mask != 0, g.ShouldIsolate(), "conditions %06b", mask)
	}
}

func TestAbsTransform(t *testing.T) {
	root := NewNode(NewGroup())
	assert.Equal(t, svgpath.Identity, root.AbsTransform())

	g1 := NewGroup()
	g1.Transform = svgpath.Identity.Translate(10, 0)
	n1 := root.AppendKind(g1)
	g2 := NewGroup()
	g2.Transform = svgpath.Identity.Scale(2, 2)
	n2 := n1.AppendKind(g2)
	p := rectPath("p", 0, 0, 1, 1)
	p.Transform = svgpath.Identity.Translate(0, 5)
	n3 := n2.AppendKind(p)

	expected := g1.Transform.Mult(g2.Transform).Mult(p.Transform)
	assert.True(t, n3.AbsTransform().FuzzyEq(expected))
	x, y := n3.AbsTransform().Apply(1, 1)
	assert.InDelta(t, 12., x, 1e-9)
	assert.InDelta(t, 12., y, 1e-9)

	assert.Equal(t, []*Node{n3, n2, n1, root}, n3.Ancestors())
	assert.Equal(t, root, n1.Parent())
	assert.Nil(t, root.Parent())
}

func TestCalculateBbox(t *testing.T) {
	root := NewNode(NewGroup())
	_, ok := root.CalculateBbox()
	assert.False(t, ok) // no children

	empty := root.AppendKind(NewGroup())
	empty.AppendKind(&Text{Transform: svgpath.Identity, Content: "hello"})
	_, ok = root.CalculateBbox()
	assert.False(t, ok) // only empty children

	p := rectPath("p", 0, 0, 10, 20)
	p.Transform = svgpath.Identity.Translate(5, 5).Scale(2, 2)
	pn := root.AppendKind(p)
	bbox, ok := root.CalculateBbox()
	require.True(t, ok)
	expected, _ := p.Data.BboxWithTransform(p.Transform, 0)
	assert.True(t, bbox.FuzzyEq(expected))
	assert.True(t, bbox.FuzzyEq(svgpath.Bbox{X: 5, Y: 5, W: 20, H: 40}))

	pnBbox, ok := pn.CalculateBbox()
	require.True(t, ok)
	assert.True(t, pnBbox.FuzzyEq(bbox))

	// stroke outset
	p.Stroke = &Stroke{Paint: Color{}, Width: 2, Opacity: 1, Miterlimit: DefaultMiterlimit}
	bbox, _ = root.CalculateBbox()
	assert.True(t, bbox.FuzzyEq(svgpath.Bbox{X: 3, Y: 3, W: 24, H: 44}))

	// union with an image
	img := &Image{Transform: svgpath.Identity, ViewBox: svgpath.ViewBox{Rect: svgpath.Rect{X: -10, Y: 0, W: 5, H: 5}}, Kind: ImagePNG(nil)}
	root.AppendKind(img)
	bbox, _ = root.CalculateBbox()
	assert.InDelta(t, -10., bbox.X, 1e-9)
	assert.InDelta(t, 37., bbox.W, 1e-9)

	_, ok = NewNode(&Text{}).CalculateBbox()
	assert.False(t, ok)
}

func TestNodeByID(t *testing.T) {
	root := NewNode(NewGroup())
	root.AppendKind(rectPath("", 0, 0, 1, 1))
	g := root.AppendKind(&Group{ID: "g", Transform: svgpath.Identity, Opacity: 1})
	p := g.AppendKind(rectPath("p", 0, 0, 1, 1))
	tree := Tree{Size: Size{10, 10}, Root: root}

	assert.Nil(t, tree.NodeByID("")) // even if nodes have an empty id
	assert.Equal(t, g, tree.NodeByID("g"))
	assert.Equal(t, p, tree.NodeByID("p"))
	assert.Nil(t, tree.NodeByID("missing"))
}

func TestHasTextNodes(t *testing.T) {
	newTree := func() (*Tree, *Path) {
		root := NewNode(NewGroup())
		p := rectPath("p", 0, 0, 10, 10)
		root.AppendKind(p)
		return &Tree{Size: Size{10, 10}, Root: root}, p
	}
	textGroup := func() *Node {
		n := NewNode(NewGroup())
		n.AppendKind(&Text{Content: "hidden"})
		return n
	}

	tree, _ := newTree()
	assert.False(t, tree.HasTextNodes())

	tree.Root.AppendKind(&Text{Content: "direct"})
	assert.True(t, tree.HasTextNodes())

	// only reachable through a pattern used as fill
	tree, p := newTree()
	p.Fill.Paint = &Pattern{ID: "pat", Rect: svgpath.Rect{W: 1, H: 1}, Root: textGroup()}
	assert.True(t, tree.HasTextNodes())

	// through a stroke pattern
	tree, p = newTree()
	p.Stroke = &Stroke{Paint: &Pattern{Root: textGroup()}, Width: 1, Opacity: 1, Miterlimit: 4}
	assert.True(t, tree.HasTextNodes())

	// through a chained clip path
	tree, _ = newTree()
	g := NewGroup()
	g.ClipPath = &ClipPath{Root: NewNode(NewGroup()), ClipPath: &ClipPath{Root: textGroup()}}
	tree.Root.AppendKind(g)
	assert.True(t, tree.HasTextNodes())

	// through a mask
	tree, _ = newTree()
	g = NewGroup()
	g.Mask = &Mask{Root: textGroup()}
	tree.Root.AppendKind(g)
	assert.True(t, tree.HasTextNodes())
}

func TestFilterBackgroundStartNode(t *testing.T) {
	root := NewNode(NewGroup())
	bg := NewGroup()
	bg.EnableBackground = &EnableBackground{}
	bgNode := root.AppendKind(bg)
	inner := bgNode.AppendKind(NewGroup())

	self := NewGroup()
	self.EnableBackground = &EnableBackground{} // ignored: only strict ancestors are considered
	filtered := inner.AppendKind(self)

	noBackground := &Filter{Primitives: []Primitive{
		{Kind: PrimitiveKind{Name: "feOffset", Inputs: []Input{{Kind: SourceGraphic}}}},
	}}
	assert.Nil(t, filtered.FilterBackgroundStartNode(noBackground))

	withBackground := &Filter{Primitives: []Primitive{
		{Kind: PrimitiveKind{Name: "feBlend", Inputs: []Input{{Kind: SourceGraphic}, ParseInput("BackgroundAlpha")}}},
	}}
	assert.Equal(t, bgNode, filtered.FilterBackgroundStartNode(withBackground))

	// no marked ancestor
	assert.Nil(t, bgNode.FilterBackgroundStartNode(withBackground))
}

func TestPaintEquality(t *testing.T) {
	var a, b Paint = Color{1, 2, 3}, Color{1, 2, 3}
	assert.True(t, a == b)

	g1 := &LinearGradient{BaseGradient: BaseGradient{ID: "g", GradientUnits: ObjectBoundingBox}}
	g2 := &LinearGradient{BaseGradient: BaseGradient{ID: "g", GradientUnits: ObjectBoundingBox}}
	a, b = g1, g2
	assert.False(t, a == b) // structurally equal, but not the same definition
	b = g1
	assert.True(t, a == b)

	u, ok := Paint(Color{}).Units()
	assert.False(t, ok)
	assert.Equal(t, Units(0), u)
	u, ok = a.Units()
	assert.True(t, ok)
	assert.Equal(t, ObjectBoundingBox, u)
	u, ok = Paint(&Pattern{PatternUnits: UserSpaceOnUse}).Units()
	assert.True(t, ok)
	assert.Equal(t, UserSpaceOnUse, u)
	_, ok = Paint(&RadialGradient{}).Units()
	assert.True(t, ok)
}

func TestValueClamping(t *testing.T) {
	assert.Equal(t, Opacity(0), NewOpacity(-1))
	assert.Equal(t, Opacity(1), NewOpacity(2))
	assert.Equal(t, Opacity(0.25), NewOpacity(0.25))
	assert.Equal(t, Opacity(0), NewOpacity(math.NaN()))

	_, ok := NewStrokeWidth(0)
	assert.False(t, ok)
	_, ok = NewStrokeWidth(-2)
	assert.False(t, ok)
	w, ok := NewStrokeWidth(1.5)
	assert.True(t, ok)
	assert.Equal(t, StrokeWidth(1.5), w)

	assert.Equal(t, StrokeMiterlimit(1), NewStrokeMiterlimit(0.5))
	assert.Equal(t, StrokeMiterlimit(10), NewStrokeMiterlimit(10))
	assert.Equal(t, StrokeMiterlimit(1), NewStrokeMiterlimit(math.NaN()))

	c, o := SplitAlpha(Color{10, 20, 30}.NRGBA(0.5))
	assert.Equal(t, Color{10, 20, 30}, c)
	assert.InDelta(t, 0.5, float64(o), 0.01)

	mode, ok := ParseBlendMode("color-dodge")
	assert.True(t, ok)
	assert.Equal(t, BlendColorDodge, mode)
	assert.Equal(t, "luminosity", BlendLuminosity.String())
}
