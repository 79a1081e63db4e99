package svgtree

import "github.com/benoitkugler/svgtree/svgpath"

type (
	// Group is a container node, the only one which
	// may have children.
	Group struct {
		ID        string
		Transform svgpath.Matrix2D
		Opacity   Opacity
		BlendMode BlendMode
		Isolate   bool

		ClipPath *ClipPath // optional
		Mask     *Mask     // optional
		Filters  []*Filter

		// FilterFill and FilterStroke are the paints used by
		// the FillPaint and StrokePaint filter inputs (may be nil).
		FilterFill, FilterStroke Paint

		// EnableBackground is only set when `enable-background="new"`
		EnableBackground *EnableBackground
	}

	// EnableBackground marks a group as a background image
	// starting point, with an optional clip region.
	EnableBackground struct {
		Rect *svgpath.Rect
	}

	// Path is a shape with its resolved style.
	Path struct {
		ID             string
		Transform      svgpath.Matrix2D
		Visibility     Visibility
		Fill           *Fill   // optional
		Stroke         *Stroke // optional
		PaintOrder     PaintOrder
		ShapeRendering ShapeRendering

		// TextBbox is only set for paths built from text;
		// it includes the whitespace of the font metrics and is thus larger
		// than the geometric bounding box.
		TextBbox *svgpath.Rect

		Data svgpath.Path
	}

	// Image is a raster image or an embedded SVG tree.
	Image struct {
		ID             string
		Transform      svgpath.Matrix2D
		Visibility     Visibility
		ViewBox        svgpath.ViewBox // the image is fitted in this rectangle
		ImageRendering ImageRendering
		Kind           ImageKind
	}

	// Text is the raw content of a <text> element.
	// Text layout is not supported.
	Text struct {
		ID        string
		Transform svgpath.Matrix2D
		Content   string
	}
)

// NewGroup returns an empty, opaque group, with identity transform.
func NewGroup() *Group {
	return &Group{Transform: svgpath.Identity, Opacity: OpacityOne}
}

// ShouldIsolate returns true if the group must be rendered
// into an offscreen buffer before being composited.
func (g *Group) ShouldIsolate() bool {
	return g.Isolate ||
		g.Opacity != OpacityOne ||
		g.ClipPath != nil ||
		g.Mask != nil ||
		len(g.Filters) != 0 ||
		g.BlendMode != BlendNormal
}

// ImageKind is the payload of an Image, one of
// ImageJPEG, ImagePNG, ImageGIF or ImageSVG
type ImageKind interface {
	isImageKind()
}

type (
	ImageJPEG []byte
	ImagePNG  []byte
	ImageGIF  []byte
	// ImageSVG is an embedded, already resolved, tree.
	ImageSVG struct{ Tree *Tree }
)

func (ImageJPEG) isImageKind() {}
func (ImagePNG) isImageKind()  {}
func (ImageGIF) isImageKind()  {}
func (ImageSVG) isImageKind()  {}

// ClipPath is a shared `clipPath` definition.
type ClipPath struct {
	ID        string
	Units     Units
	Transform svgpath.Matrix2D
	// ClipPath is applied to this clip path, and so on.
	ClipPath *ClipPath
	// Root is a Group node holding the clip content.
	Root *Node
}

// Mask is a shared `mask` definition.
type Mask struct {
	ID           string
	Units        Units
	ContentUnits Units
	Rect         svgpath.Rect
	// Mask is applied to this mask, and so on.
	Mask *Mask
	// Root is a Group node holding the mask content.
	Root *Node
}
