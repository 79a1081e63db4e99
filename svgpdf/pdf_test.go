package svgpdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgtree/svgconv"
	"github.com/benoitkugler/svgtree/svgtree"
)

func parseTree(t *testing.T, content string) *svgtree.Tree {
	t.Helper()
	src := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50">` + content + `</svg>`
	tree, err := svgconv.Parse(strings.NewReader(src), svgconv.DefaultOptions())
	require.NoError(t, err)
	return tree
}

// render returns the uncompressed content of the document
func render(t *testing.T, tree *svgtree.Tree) string {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(false)
	pdf.AddPage()
	NewRenderer(pdf, nil).DrawTree(tree, 0, 0, tree.Size.W, tree.Size.H)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.String()
}

func TestWriteTree(t *testing.T) {
	tree := parseTree(t, `<rect width="50" height="20" fill="red"/>`)

	var buf bytes.Buffer
	require.NoError(t, WriteTree(tree, &buf, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestFillAndStroke(t *testing.T) {
	tree := parseTree(t, `
	<rect width="50" height="20" fill="red" fill-rule="evenodd"/>
	<line x1="0" y1="40" x2="100" y2="40" stroke="blue" stroke-dasharray="5 5"/>`)

	out := render(t, tree)
	assert.Contains(t, out, "1.000 0.000 0.000 rg")
	assert.Contains(t, out, "f*")
	assert.Contains(t, out, "0.000 0.000 1.000 RG")
}

func TestHiddenPath(t *testing.T) {
	tree := parseTree(t, `<rect width="50" height="20" fill="red" visibility="hidden"/>`)

	out := render(t, tree)
	assert.NotContains(t, out, "1.000 0.000 0.000 rg")
}

func TestGradientApproximation(t *testing.T) {
	tree := parseTree(t, `
	<linearGradient id="lg">
		<stop offset="0" stop-color="lime"/>
		<stop offset="1" stop-color="blue"/>
	</linearGradient>
	<rect width="50" height="20" fill="url(#lg)"/>`)

	out := render(t, tree)
	assert.Contains(t, out, "0.000 1.000 0.000 rg")
}
