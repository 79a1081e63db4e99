package svgconv

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgdoc"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

func TestResolveSize(t *testing.T) {
	for _, test := range []struct {
		root     string
		expected svgtree.Size
		viewBox  svgpath.Rect
	}{
		{`<svg xmlns="http://www.w3.org/2000/svg" width="20" height="30">`, svgtree.Size{W: 20, H: 30}, svgpath.Rect{W: 20, H: 30}},
		{`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 50 25">`, svgtree.Size{W: 50, H: 25}, svgpath.Rect{W: 50, H: 25}},
		{`<svg xmlns="http://www.w3.org/2000/svg" width="50%" viewBox="10 10 50 25">`, svgtree.Size{W: 25, H: 25}, svgpath.Rect{X: 10, Y: 10, W: 50, H: 25}},
		{`<svg xmlns="http://www.w3.org/2000/svg" width="1in" height="72pt">`, svgtree.Size{W: 96, H: 96}, svgpath.Rect{W: 96, H: 96}},
		{`<svg xmlns="http://www.w3.org/2000/svg">`, svgtree.Size{W: 100, H: 100}, svgpath.Rect{W: 100, H: 100}},
		{`<svg xmlns="http://www.w3.org/2000/svg" width="0" height="10">`, svgtree.Size{W: 100, H: 100}, svgpath.Rect{W: 100, H: 100}},
	} {
		tree, err := Parse(strings.NewReader(test.root+"</svg>"), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, test.expected, tree.Size, test.root)
		assert.Equal(t, test.viewBox, tree.ViewBox.Rect, test.root)
		assert.Equal(t, svgpath.Identity, tree.Root.Transform())
	}
}

func TestConvertLength(t *testing.T) {
	doc, err := svgdoc.Parse(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg" font-size="20">
		<g font-size="2em"><rect id="r" font-size="50%"/></g>
		<rect id="keyword" font-size="large"/>
	</svg>`))
	require.NoError(t, err)
	c := &converter{doc: doc, opts: DefaultOptions(), logger: zap.NewNop(), cache: newCache()}
	st := state{viewBox: svgpath.Rect{W: 200, H: 100}}
	node := doc.ElementByID("r")
	user := svgtree.UserSpaceOnUse

	for _, test := range []struct {
		length   svgdoc.Length
		aid      string
		expected float64
	}{
		{svgdoc.Length{Value: 3}, "x", 3},
		{svgdoc.Length{Value: 3, Unit: svgdoc.UnitPx}, "x", 3},
		{svgdoc.Length{Value: 1, Unit: svgdoc.UnitIn}, "x", 96},
		{svgdoc.Length{Value: 2.54, Unit: svgdoc.UnitCm}, "x", 96},
		{svgdoc.Length{Value: 25.4, Unit: svgdoc.UnitMm}, "x", 96},
		{svgdoc.Length{Value: 72, Unit: svgdoc.UnitPt}, "x", 96},
		{svgdoc.Length{Value: 6, Unit: svgdoc.UnitPc}, "x", 96},
		{svgdoc.Length{Value: 1, Unit: svgdoc.UnitEm}, "x", 20}, // 20 * 2 * 50%
		{svgdoc.Length{Value: 1, Unit: svgdoc.UnitEx}, "x", 10},
		{svgdoc.Length{Value: 50, Unit: svgdoc.UnitPercent}, "width", 100},
		{svgdoc.Length{Value: 50, Unit: svgdoc.UnitPercent}, "cy", 50},
		{svgdoc.Length{Value: 100, Unit: svgdoc.UnitPercent}, "r", math.Sqrt(200*200+100*100) / math.Sqrt2},
	} {
		got := c.convertLength(test.length, node, test.aid, user, st)
		assert.InDelta(t, test.expected, got, 1e-9, "%v for %s", test.length, test.aid)
	}

	got := c.convertLength(svgdoc.Length{Value: 50, Unit: svgdoc.UnitPercent}, node, "x", svgtree.ObjectBoundingBox, st)
	assert.Equal(t, 0.5, got)

	assert.InDelta(t, 12*1.2, c.resolveFontSize(doc.ElementByID("keyword"), st), 1e-9)
}

func TestGroupWrapping(t *testing.T) {
	tree, _ := convertString(t, `
	<g id="plain"><rect id="inner" width="10" height="10"/></g>
	<rect id="r" width="10" height="10" opacity="0.5" transform="translate(1 2)"/>
	<circle id="c" r="5" mix-blend-mode="multiply"/>
	<rect id="iso" width="10" height="10" style="isolation:isolate"/>`)

	_, ok := tree.NodeByID("plain").Kind.(*svgtree.Group)
	assert.True(t, ok) // g elements always produce a group
	assert.Equal(t, tree.NodeByID("plain"), tree.NodeByID("inner").Parent())

	node := tree.NodeByID("r")
	g, ok := node.Kind.(*svgtree.Group)
	require.True(t, ok)
	assert.Equal(t, svgtree.Opacity(0.5), g.Opacity)
	assert.Equal(t, svgpath.Identity.Translate(1, 2), g.Transform)
	require.Len(t, node.Children(), 1)
	p := node.Children()[0].Kind.(*svgtree.Path)
	assert.Equal(t, "", p.ID)
	assert.Equal(t, svgpath.Identity, p.Transform)

	g = tree.NodeByID("c").Kind.(*svgtree.Group)
	assert.Equal(t, svgtree.BlendMultiply, g.BlendMode)
	assert.True(t, g.ShouldIsolate())

	g = tree.NodeByID("iso").Kind.(*svgtree.Group)
	assert.True(t, g.Isolate)
}

func TestDisplayAndVisibility(t *testing.T) {
	tree, _ := convertString(t, `
	<g display="none"><rect id="hidden" width="10" height="10"/></g>
	<g visibility="hidden"><rect id="invisible" width="10" height="10"/></g>
	<defs><rect id="def" width="10" height="10"/></defs>`)
	assert.Nil(t, tree.NodeByID("hidden"))
	assert.Nil(t, tree.NodeByID("def"))
	assert.Equal(t, svgtree.Hidden, pathByID(t, tree, "invisible").Visibility)
}

func TestMaxDepth(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDepth = 2
	tree, logs, err := parseWithLogs(t, `<g id="a"><g id="b"><rect id="r" width="10" height="10"/></g></g>`, opts)
	require.NoError(t, err)
	assert.NotNil(t, tree.NodeByID("a"))
	assert.NotNil(t, tree.NodeByID("b"))
	assert.Nil(t, tree.NodeByID("r"))
	assert.Equal(t, 1, logs.FilterMessage("maximum depth reached, skipping element").Len())
}

func TestErrorMode(t *testing.T) {
	const content = `<foreignObject/><rect id="r" width="10" height="10"/>`

	opts := DefaultOptions()
	tree, logs, err := parseWithLogs(t, content, opts)
	require.NoError(t, err)
	assert.NotNil(t, tree.NodeByID("r"))
	assert.Equal(t, 0, logs.Len())

	opts.ErrorMode = WarnErrorMode
	_, logs, err = parseWithLogs(t, content, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("cannot process svg element").Len())

	opts.ErrorMode = StrictErrorMode
	_, _, err = parseWithLogs(t, content, opts)
	assert.True(t, errors.Is(err, errUnsupportedElement))

	mode, ok := ParseErrorMode(StrictErrorMode.String())
	assert.True(t, ok)
	assert.Equal(t, StrictErrorMode, mode)
}

func TestUseAndSymbol(t *testing.T) {
	tree, _ := convertString(t, `
	<defs>
		<rect id="src" width="10" height="10" fill="red"/>
		<symbol id="sym" viewBox="0 0 10 10"><rect width="10" height="10"/></symbol>
	</defs>
	<use id="u" href="#src" x="5" y="6" transform="scale(2)"/>
	<use id="s" href="#sym" width="20" height="20"/>
	<use id="missing" href="#nothing"/>`)

	u := tree.NodeByID("u")
	g, ok := u.Kind.(*svgtree.Group)
	require.True(t, ok)
	assert.True(t, g.Transform.FuzzyEq(svgpath.Identity.Scale(2, 2).Translate(5, 6)))
	require.Len(t, u.Children(), 1)
	p := u.Children()[0].Kind.(*svgtree.Path)
	assert.Equal(t, svgtree.Paint(red), p.Fill.Paint)
	bbox, ok := u.CalculateBbox()
	require.True(t, ok)
	assert.True(t, bbox.FuzzyEq(svgpath.Bbox{X: 10, Y: 12, W: 20, H: 20}), "%v", bbox)

	bbox, ok = tree.NodeByID("s").CalculateBbox()
	require.True(t, ok)
	assert.True(t, bbox.FuzzyEq(svgpath.Bbox{W: 20, H: 20}), "%v", bbox)

	// without target, nothing is rendered
	assert.Nil(t, tree.NodeByID("missing"))
}

func TestNestedSvg(t *testing.T) {
	tree, _ := convertString(t, `
	<svg id="inner" x="10" y="10" width="20" height="20" viewBox="0 0 10 10">
		<rect id="r" width="50%" height="10"/>
	</svg>`)
	bbox, ok := tree.NodeByID("r").CalculateBbox()
	require.True(t, ok)
	// the percentage is relative to the nested view box
	assert.True(t, bbox.FuzzyEq(svgpath.Bbox{X: 10, Y: 10, W: 10, H: 20}), "%v", bbox)
}

func TestSwitch(t *testing.T) {
	tree, _ := convertString(t, `
	<switch id="sw">
		<rect id="ext" requiredExtensions="http://example.org/ext" width="1" height="1"/>
		<rect id="fr" systemLanguage="fr" width="1" height="1"/>
		<rect id="en" systemLanguage="fr, en-US" width="1" height="1"/>
		<rect id="other" width="1" height="1"/>
	</switch>`)
	assert.Nil(t, tree.NodeByID("ext"))
	assert.Nil(t, tree.NodeByID("fr"))
	assert.NotNil(t, tree.NodeByID("en"))
	assert.Nil(t, tree.NodeByID("other"))
}

func TestShapes(t *testing.T) {
	tree, logs := convertString(t, `
	<rect id="round" width="10" height="20" rx="2"/>
	<rect id="empty" width="0" height="20"/>
	<circle id="circle" cx="5" cy="5" r="5"/>
	<ellipse id="ellipse" cx="5" cy="5" ry="2"/>
	<line id="line" x1="0" y1="0" x2="10" y2="0" stroke="black"/>
	<polyline id="polyline" points="0,0 10,0 10,10 5"/>
	<polygon id="polygon" points="0 0 10 0 10 10"/>
	<path id="partial" d="M0 0 L10 10 L20"/>`)

	bbox := func(id string) svgpath.Bbox {
		b, ok := tree.NodeByID(id).CalculateBbox()
		require.True(t, ok, id)
		return b
	}
	assert.True(t, bbox("round").FuzzyEq(svgpath.Bbox{W: 10, H: 20}))
	assert.Nil(t, tree.NodeByID("empty"))
	assert.True(t, bbox("circle").FuzzyEq(svgpath.Bbox{W: 10, H: 10}))
	assert.True(t, bbox("ellipse").FuzzyEq(svgpath.Bbox{X: 3, Y: 3, W: 4, H: 4})) // rx defaults to ry
	assert.True(t, bbox("line").FuzzyEq(svgpath.Bbox{X: -0.5, Y: -0.5, W: 11, H: 1}))
	assert.True(t, bbox("polyline").FuzzyEq(svgpath.Bbox{W: 10, H: 10}))
	_, isClosed := pathByID(t, tree, "polygon").Data[len(pathByID(t, tree, "polygon").Data)-1].(svgpath.Close)
	assert.True(t, isClosed)

	// the segments before the error are kept
	assert.Equal(t, 1, pathByID(t, tree, "partial").Data.Segments())
	assert.Equal(t, 1, logs.FilterMessage("invalid path data").Len())
}

func TestMask(t *testing.T) {
	tree, _ := convertString(t, `
	<mask id="m"><rect width="1" height="1" fill="white"/></mask>
	<mask id="flat" height="0"><rect width="1" height="1"/></mask>
	<rect id="r" width="10" height="10" mask="url(#m)"/>
	<rect id="f" width="10" height="10" mask="url(#flat)"/>`)

	g := tree.NodeByID("r").Kind.(*svgtree.Group)
	require.NotNil(t, g.Mask)
	assert.Equal(t, svgtree.ObjectBoundingBox, g.Mask.Units)
	assert.Equal(t, svgtree.UserSpaceOnUse, g.Mask.ContentUnits)
	assert.InDelta(t, -0.1, g.Mask.Rect.X, 1e-9)
	assert.InDelta(t, 1.2, g.Mask.Rect.W, 1e-9)
	assert.Len(t, g.Mask.Root.Children(), 1)

	// invalid masks are ignored
	_ = pathByID(t, tree, "f")
}

func TestFilter(t *testing.T) {
	tree, logs := convertString(t, `
	<filter id="f">
		<feOffset dx="1"/>
		<feBlend in="SourceGraphic" in2="BackgroundImage" result="blend"/>
		<feMerge><feMergeNode in="blend"/><feMergeNode/></feMerge>
	</filter>
	<filter id="fp"><feFlood/><feBlend in="FillPaint"/></filter>
	<g id="bg" enable-background="new 0 0 50 50">
		<rect id="r" width="10" height="10" filter="url(#f)"/>
	</g>
	<rect id="missing" width="10" height="10" filter="url(#nope)"/>
	<rect id="paint" width="10" height="10" fill="red" filter="url(#fp)"/>`)

	node := tree.NodeByID("r")
	g := node.Kind.(*svgtree.Group)
	require.Len(t, g.Filters, 1)
	filter := g.Filters[0]
	assert.Equal(t, svgtree.ObjectBoundingBox, filter.Units)
	assert.Equal(t, svgtree.UserSpaceOnUse, filter.PrimitiveUnits)
	require.Len(t, filter.Primitives, 3)
	assert.Equal(t, svgtree.Primitive{Result: "result1", Kind: svgtree.PrimitiveKind{
		Name: "feOffset", Inputs: []svgtree.Input{{Kind: svgtree.SourceGraphic}},
	}}, filter.Primitives[0])
	assert.Equal(t, []svgtree.Input{{Kind: svgtree.SourceGraphic}, {Kind: svgtree.BackgroundImage}}, filter.Primitives[1].Kind.Inputs)
	assert.Equal(t, []svgtree.Input{{Kind: svgtree.Reference, Name: "blend"}, {Kind: svgtree.Reference, Name: "blend"}}, filter.Primitives[2].Kind.Inputs)

	bg := tree.NodeByID("bg")
	require.NotNil(t, bg.Kind.(*svgtree.Group).EnableBackground)
	assert.Equal(t, &svgpath.Rect{W: 50, H: 50}, bg.Kind.(*svgtree.Group).EnableBackground.Rect)
	assert.Equal(t, bg, node.FilterBackgroundStartNode(filter))

	// a missing filter disables the element
	assert.Nil(t, tree.NodeByID("missing"))
	assert.Equal(t, 1, logs.FilterMessage("invalid filter link, element not rendered").Len())

	g = tree.NodeByID("paint").Kind.(*svgtree.Group)
	assert.Equal(t, svgtree.Paint(red), g.FilterFill)
	assert.Nil(t, g.FilterStroke)
	assert.Empty(t, g.Filters[0].Primitives[0].Kind.Inputs) // feFlood
}

func pngDataURL(t *testing.T, w, h int) string {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestImage(t *testing.T) {
	nested := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="5"><text>inner</text></svg>`
	tree, logs := convertString(t, `
	<image id="png" href="`+pngDataURL(t, 3, 2)+`" x="1" y="2" width="6"/>
	<image id="svg" href="data:image/svg+xml;base64,`+base64.StdEncoding.EncodeToString([]byte(nested))+`"/>
	<image id="file" href="image.png" width="10" height="10"/>
	<image id="garbage" href="data:image/png;base64,AAAA"/>`)

	img := tree.NodeByID("png").Kind.(*svgtree.Image)
	assert.IsType(t, svgtree.ImagePNG(nil), img.Kind)
	assert.Equal(t, svgpath.Rect{X: 1, Y: 2, W: 6, H: 4}, img.ViewBox.Rect)

	img = tree.NodeByID("svg").Kind.(*svgtree.Image)
	embedded, ok := img.Kind.(svgtree.ImageSVG)
	require.True(t, ok)
	assert.Equal(t, svgtree.Size{W: 10, H: 5}, embedded.Tree.Size)
	assert.Equal(t, svgpath.Rect{W: 10, H: 5}, img.ViewBox.Rect)
	assert.True(t, embedded.Tree.HasTextNodes())
	assert.False(t, tree.HasTextNodes()) // embedded trees are opaque

	// no resources directory
	assert.Nil(t, tree.NodeByID("file"))
	assert.Nil(t, tree.NodeByID("garbage"))
	assert.Equal(t, 2, logs.FilterMessage("image not loaded").Len())
}

func TestDecodeDataURL(t *testing.T) {
	mediaType, data, err := decodeDataURL("data:text/plain;charset=utf-8,hello%20world")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mediaType)
	assert.Equal(t, "hello world", string(data))

	mediaType, data, err = decodeDataURL("data:image/svg+xml;base64,PHN2\nZz4=")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", mediaType)
	assert.Equal(t, "<svg>", string(data))

	_, _, err = decodeDataURL("data:image/png;base64")
	assert.True(t, errors.Is(err, errInvalidDataURL))
}

func TestText(t *testing.T) {
	tree, _ := convertString(t, `
	<text id="t" x="0" y="10">Hello
		<tspan>world</tspan></text>
	<text id="empty">   </text>`)
	text := tree.NodeByID("t").Kind.(*svgtree.Text)
	assert.Equal(t, "Hello world", text.Content)
	assert.Nil(t, tree.NodeByID("empty"))
	assert.True(t, tree.HasTextNodes())

	tree, _ = convertString(t, `
	<pattern id="p" width="1" height="1"><text>in a pattern</text></pattern>
	<rect width="10" height="10" fill="url(#p)"/>`)
	assert.True(t, tree.HasTextNodes())
}
