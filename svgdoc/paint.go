package svgdoc

import (
	"fmt"
	"image/color"
	"strings"
)

// PaintKind is the syntactic form of a `fill` or `stroke` value.
type PaintKind uint8

const (
	PaintNone PaintKind = iota
	PaintInherit
	PaintCurrentColor
	PaintColor
	PaintFuncIRI
)

// Paint is the parsed, not yet resolved, value of
// a `fill` or `stroke` attribute.
type Paint struct {
	Kind  PaintKind
	Color color.NRGBA // for PaintColor, with its alpha
	IRI   string      // for PaintFuncIRI: the referenced id
	// Fallback is the optional value used when the
	// reference can't be used. It is never a PaintFuncIRI.
	Fallback *Paint
}

func parseSimplePaint(s string) (Paint, error) {
	switch s {
	case "none":
		return Paint{Kind: PaintNone}, nil
	case "inherit":
		return Paint{Kind: PaintInherit}, nil
	case "currentColor":
		return Paint{Kind: PaintCurrentColor}, nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return Paint{}, err
	}
	return Paint{Kind: PaintColor, Color: c}, nil
}

// ParsePaint parses a paint value: none, inherit, currentColor,
// a color or a functional IRI with an optional fallback.
func ParsePaint(s string) (Paint, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "url(") {
		return parseSimplePaint(s)
	}
	id, rest, err := parseFuncIRI(s)
	if err != nil {
		return Paint{}, err
	}
	out := Paint{Kind: PaintFuncIRI, IRI: id}
	if rest = strings.TrimSpace(rest); rest != "" {
		fb, err := parseSimplePaint(rest)
		if err != nil || fb.Kind == PaintInherit {
			return Paint{}, fmt.Errorf("svgdoc: invalid paint fallback %q", rest)
		}
		out.Fallback = &fb
	}
	return out, nil
}
