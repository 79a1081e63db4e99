package svgtree

import "github.com/benoitkugler/svgtree/svgpath"

// Filter is a shared `filter` definition. The primitives
// are only described by their inputs: they are not rendered.
type Filter struct {
	ID             string
	Units          Units
	PrimitiveUnits Units
	Rect           svgpath.Rect
	Primitives     []Primitive
}

// Primitive is one fe* element of a filter.
type Primitive struct {
	Result string // may be empty
	Kind   PrimitiveKind
}

// PrimitiveKind stores the element name (like "feBlend") and
// its inputs (`in` and `in2`, in order).
type PrimitiveKind struct {
	Name   string
	Inputs []Input
}

// HasInput returns true if one of the inputs of the primitive is `in`.
func (k PrimitiveKind) HasInput(in Input) bool {
	for _, i := range k.Inputs {
		if i == in {
			return true
		}
	}
	return false
}

// InputKind is the type of a filter input.
type InputKind uint8

const (
	SourceGraphic InputKind = iota
	SourceAlpha
	BackgroundImage
	BackgroundAlpha
	FillPaint
	StrokePaint
	Reference // the result of an other primitive
)

// Input is a filter primitive input. Name is only used
// for Reference.
type Input struct {
	Kind InputKind
	Name string
}

// ParseInput maps the keywords to their kind, and other
// values to a Reference.
func ParseInput(s string) Input {
	switch s {
	case "SourceGraphic":
		return Input{Kind: SourceGraphic}
	case "SourceAlpha":
		return Input{Kind: SourceAlpha}
	case "BackgroundImage":
		return Input{Kind: BackgroundImage}
	case "BackgroundAlpha":
		return Input{Kind: BackgroundAlpha}
	case "FillPaint":
		return Input{Kind: FillPaint}
	case "StrokePaint":
		return Input{Kind: StrokePaint}
	default:
		return Input{Kind: Reference, Name: s}
	}
}

// usesBackground returns true if one of the primitives of `f`
// reads the BackgroundImage or BackgroundAlpha inputs.
func (f *Filter) usesBackground() bool {
	for _, p := range f.Primitives {
		if p.Kind.HasInput(Input{Kind: BackgroundImage}) || p.Kind.HasInput(Input{Kind: BackgroundAlpha}) {
			return true
		}
	}
	return false
}

// FilterBackgroundStartNode returns the node from which the
// filter background should be rendered, that is the nearest strict ancestor
// with an `enable-background` marker, or nil if the filter does not
// use the background inputs.
func (n *Node) FilterBackgroundStartNode(filter *Filter) *Node {
	if !filter.usesBackground() {
		return nil
	}
	for p := n.parent; p != nil; p = p.parent {
		if g, ok := p.Kind.(*Group); ok && g.EnableBackground != nil {
			return p
		}
	}
	return nil
}
