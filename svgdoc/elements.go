package svgdoc

const (
	svgNamespace   = "http://www.w3.org/2000/svg"
	xlinkNamespace = "http://www.w3.org/1999/xlink"
)

// ElementID identifies the SVG elements used by the resolution pass.
type ElementID uint8

const (
	ElementUnknown ElementID = iota
	ElementA
	ElementCircle
	ElementClipPath
	ElementDefs
	ElementDesc
	ElementEllipse
	ElementFilter
	ElementG
	ElementImage
	ElementLine
	ElementLinearGradient
	ElementMarker
	ElementMask
	ElementMetadata
	ElementPath
	ElementPattern
	ElementPolygon
	ElementPolyline
	ElementRadialGradient
	ElementRect
	ElementStop
	ElementStyle
	ElementSvg
	ElementSwitch
	ElementSymbol
	ElementText
	ElementTextPath
	ElementTitle
	ElementTspan
	ElementUse
	ElementFilterPrimitive // any fe* element
)

var elementNames = map[string]ElementID{
	"a":              ElementA,
	"circle":         ElementCircle,
	"clipPath":       ElementClipPath,
	"defs":           ElementDefs,
	"desc":           ElementDesc,
	"ellipse":        ElementEllipse,
	"filter":         ElementFilter,
	"g":              ElementG,
	"image":          ElementImage,
	"line":           ElementLine,
	"linearGradient": ElementLinearGradient,
	"marker":         ElementMarker,
	"mask":           ElementMask,
	"metadata":       ElementMetadata,
	"path":           ElementPath,
	"pattern":        ElementPattern,
	"polygon":        ElementPolygon,
	"polyline":       ElementPolyline,
	"radialGradient": ElementRadialGradient,
	"rect":           ElementRect,
	"stop":           ElementStop,
	"style":          ElementStyle,
	"svg":            ElementSvg,
	"switch":         ElementSwitch,
	"symbol":         ElementSymbol,
	"text":           ElementText,
	"textPath":       ElementTextPath,
	"title":          ElementTitle,
	"tspan":          ElementTspan,
	"use":            ElementUse,
}

// elementByName only accepts elements from the SVG namespace
// (or without namespace).
func elementByName(space, local string) ElementID {
	if space != "" && space != svgNamespace {
		return ElementUnknown
	}
	if id, ok := elementNames[local]; ok {
		return id
	}
	if len(local) > 2 && local[:2] == "fe" {
		return ElementFilterPrimitive
	}
	return ElementUnknown
}

// IsPaintServer returns true for linearGradient, radialGradient and pattern.
func (e ElementID) IsPaintServer() bool {
	switch e {
	case ElementLinearGradient, ElementRadialGradient, ElementPattern:
		return true
	}
	return false
}

// IsGraphic returns true for the elements producing geometry.
func (e ElementID) IsGraphic() bool {
	switch e {
	case ElementCircle, ElementEllipse, ElementImage, ElementLine, ElementPath,
		ElementPolygon, ElementPolyline, ElementRect, ElementText, ElementUse:
		return true
	}
	return false
}

// IsShape returns true for the basic shapes and <path>.
func (e ElementID) IsShape() bool {
	switch e {
	case ElementCircle, ElementEllipse, ElementLine, ElementPath,
		ElementPolygon, ElementPolyline, ElementRect:
		return true
	}
	return false
}

// IsNonRendering returns true for the elements which are only
// rendered when referenced.
func (e ElementID) IsNonRendering() bool {
	switch e {
	case ElementClipPath, ElementDefs, ElementDesc, ElementFilter, ElementLinearGradient,
		ElementMarker, ElementMask, ElementMetadata, ElementPattern, ElementRadialGradient,
		ElementStop, ElementStyle, ElementSymbol, ElementTitle, ElementFilterPrimitive:
		return true
	}
	return false
}
