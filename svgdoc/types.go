package svgdoc

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/tdewolff/parse/v2/strconv"
)

var (
	errParamMismatch = errors.New("svgdoc: param mismatch")
	errInvalidNumber = errors.New("svgdoc: invalid number")
	errInvalidIRI    = errors.New("svgdoc: invalid functional IRI")
)

// numberLexer reads a list of numbers separated by spaces
// and/or one comma
type numberLexer struct {
	data []byte
	pos  int
}

func (l *numberLexer) skipSpaces() {
	for l.pos < len(l.data) {
		switch l.data[l.pos] {
		case ' ', '\t', '\n', '\r', '\f':
			l.pos++
		default:
			return
		}
	}
}

func (l *numberLexer) skipSeparator() {
	l.skipSpaces()
	if l.pos < len(l.data) && l.data[l.pos] == ',' {
		l.pos++
		l.skipSpaces()
	}
}

func (l *numberLexer) done() bool { return l.pos >= len(l.data) }

func (l *numberLexer) number() (float64, error) {
	f, n := strconv.ParseFloat(l.data[l.pos:])
	if n == 0 {
		return 0, fmt.Errorf("%w at %d in %q", errInvalidNumber, l.pos, l.data)
	}
	l.pos += n
	return f, nil
}

// ParseNumber parses a number, without unit.
func ParseNumber(s string) (float64, error) {
	b := []byte(strings.TrimSpace(s))
	f, n := strconv.ParseFloat(b)
	if n == 0 || n != len(b) {
		return 0, fmt.Errorf("%w: %q", errInvalidNumber, s)
	}
	return f, nil
}

// ParseNumberList parses a list of numbers, separated by spaces or commas.
func ParseNumberList(s string) ([]float64, error) {
	l := numberLexer{data: []byte(s)}
	var out []float64
	l.skipSpaces()
	for !l.done() {
		f, err := l.number()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
		l.skipSeparator()
	}
	return out, nil
}

// Unit is the unit of a Length.
type Unit uint8

const (
	UnitNone Unit = iota
	UnitPx
	UnitEm
	UnitEx
	UnitIn
	UnitCm
	UnitMm
	UnitPt
	UnitPc
	UnitPercent
)

var unitNames = [...]string{"", "px", "em", "ex", "in", "cm", "mm", "pt", "pc", "%"}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("<unit %d>", u)
}

// Length is a number with its unit.
type Length struct {
	Value float64
	Unit  Unit
}

func (l *numberLexer) length() (Length, error) {
	f, err := l.number()
	if err != nil {
		return Length{}, err
	}
	rest := l.data[l.pos:]
	if len(rest) != 0 && rest[0] == '%' {
		l.pos++
		return Length{f, UnitPercent}, nil
	}
	if len(rest) >= 2 {
		for u := UnitPx; u < UnitPercent; u++ {
			if string(rest[:2]) == unitNames[u] {
				l.pos += 2
				return Length{f, u}, nil
			}
		}
	}
	return Length{f, UnitNone}, nil
}

// ParseLength parses a length such as "2.5mm", "50%" or "10".
func ParseLength(s string) (Length, error) {
	l := numberLexer{data: []byte(strings.TrimSpace(s))}
	out, err := l.length()
	if err != nil {
		return Length{}, err
	}
	if !l.done() {
		return Length{}, fmt.Errorf("%w: %q", errInvalidNumber, s)
	}
	return out, nil
}

// ParseLengthList parses a list of lengths, separated by spaces or commas.
func ParseLengthList(s string) ([]Length, error) {
	l := numberLexer{data: []byte(s)}
	var out []Length
	l.skipSpaces()
	for !l.done() {
		length, err := l.length()
		if err != nil {
			return nil, err
		}
		out = append(out, length)
		l.skipSeparator()
	}
	return out, nil
}

// ParseOpacity parses a number or a percentage. The value is not clamped.
func ParseOpacity(s string) (float64, error) {
	length, err := ParseLength(s)
	if err != nil {
		return 0, err
	}
	switch length.Unit {
	case UnitNone:
		return length.Value, nil
	case UnitPercent:
		return length.Value / 100, nil
	default:
		return 0, fmt.Errorf("%w: %q", errInvalidNumber, s)
	}
}

// ParseFuncIRI parses a reference of the form url(#id),
// and returns the id.
func ParseFuncIRI(s string) (string, error) {
	id, rest, err := parseFuncIRI(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(rest) != "" {
		return "", fmt.Errorf("%w: %q", errInvalidIRI, s)
	}
	return id, nil
}

// ParseFuncIRIList parses a list of url(#id) references, as used by `filter`.
func ParseFuncIRIList(s string) ([]string, error) {
	var out []string
	rest := strings.TrimSpace(s)
	for rest != "" {
		var (
			id  string
			err error
		)
		id, rest, err = parseFuncIRI(rest)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
		rest = strings.TrimLeft(rest, " \t\n\r,")
	}
	return out, nil
}

// parseFuncIRI parses url(#id) at the start of `s`,
// and returns the remaining text
func parseFuncIRI(s string) (id, rest string, err error) {
	if !strings.HasPrefix(s, "url(") {
		return "", "", fmt.Errorf("%w: %q", errInvalidIRI, s)
	}
	end := strings.IndexByte(s, ')')
	if end == -1 {
		return "", "", fmt.Errorf("%w: %q", errInvalidIRI, s)
	}
	ref := strings.TrimSpace(s[4:end])
	ref = strings.Trim(ref, `'"`)
	if !strings.HasPrefix(ref, "#") || len(ref) == 1 {
		return "", "", fmt.Errorf("%w: %q", errInvalidIRI, s)
	}
	return ref[1:], s[end+1:], nil
}

// ParseViewBox parses the `viewBox` attribute, which must have
// a strictly positive size.
func ParseViewBox(s string) (svgpath.Rect, error) {
	nums, err := ParseNumberList(s)
	if err != nil {
		return svgpath.Rect{}, err
	}
	if len(nums) != 4 {
		return svgpath.Rect{}, errParamMismatch
	}
	r, ok := svgpath.NewRect(nums[0], nums[1], nums[2], nums[3])
	if !ok {
		return svgpath.Rect{}, fmt.Errorf("svgdoc: invalid viewBox %q", s)
	}
	return r, nil
}

var alignNames = map[string]svgpath.Align{
	"none":     svgpath.AlignNone,
	"xMinYMin": svgpath.AlignXMinYMin,
	"xMidYMin": svgpath.AlignXMidYMin,
	"xMaxYMin": svgpath.AlignXMaxYMin,
	"xMinYMid": svgpath.AlignXMinYMid,
	"xMidYMid": svgpath.AlignXMidYMid,
	"xMaxYMid": svgpath.AlignXMaxYMid,
	"xMinYMax": svgpath.AlignXMinYMax,
	"xMidYMax": svgpath.AlignXMidYMax,
	"xMaxYMax": svgpath.AlignXMaxYMax,
}

// ParseAspectRatio parses the `preserveAspectRatio` attribute.
func ParseAspectRatio(s string) (svgpath.AspectRatio, error) {
	fields := strings.Fields(s)
	if len(fields) != 0 && fields[0] == "defer" {
		fields = fields[1:]
	}
	if len(fields) == 0 || len(fields) > 2 {
		return svgpath.AspectRatio{}, errParamMismatch
	}
	align, ok := alignNames[fields[0]]
	if !ok {
		return svgpath.AspectRatio{}, fmt.Errorf("svgdoc: invalid alignment %q", fields[0])
	}
	out := svgpath.AspectRatio{Align: align}
	if len(fields) == 2 {
		switch fields[1] {
		case "meet":
		case "slice":
			out.Slice = true
		default:
			return svgpath.AspectRatio{}, fmt.Errorf("svgdoc: invalid aspect policy %q", fields[1])
		}
	}
	return out, nil
}

func readTransformAttr(m1 svgpath.Matrix2D, k string, points []float64) (svgpath.Matrix2D, error) {
	ln := len(points)
	switch k {
	case "rotate":
		if ln == 1 {
			m1 = m1.Rotate(points[0] * math.Pi / 180)
		} else if ln == 3 {
			m1 = m1.Translate(points[1], points[2]).
				Rotate(points[0]*math.Pi/180).
				Translate(-points[1], -points[2])
		} else {
			return m1, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m1 = m1.Translate(points[0], 0)
		} else if ln == 2 {
			m1 = m1.Translate(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "skewX":
		if ln == 1 {
			m1 = m1.SkewX(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "skewY":
		if ln == 1 {
			m1 = m1.SkewY(points[0] * math.Pi / 180)
		} else {
			return m1, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m1 = m1.Scale(points[0], points[0])
		} else if ln == 2 {
			m1 = m1.Scale(points[0], points[1])
		} else {
			return m1, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m1 = m1.Mult(svgpath.Matrix2D{
				A: points[0],
				B: points[1],
				C: points[2],
				D: points[3],
				E: points[4],
				F: points[5]})
		} else {
			return m1, errParamMismatch
		}
	default:
		return m1, errParamMismatch
	}
	return m1, nil
}

// ParseTransform parses a transform list, such as
// "translate(10, 20) rotate(45)". The transforms are applied
// right to left, as in SVG.
func ParseTransform(v string) (svgpath.Matrix2D, error) {
	ts := strings.Split(v, ")")
	m1 := svgpath.Identity
	for _, t := range ts {
		t = strings.TrimLeft(strings.TrimSpace(t), ",")
		t = strings.TrimSpace(t)
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return m1, errParamMismatch // badly formed transformation
		}
		points, err := ParseNumberList(d[1])
		if err != nil {
			return m1, err
		}
		m1, err = readTransformAttr(m1, strings.TrimSpace(d[0]), points)
		if err != nil {
			return m1, err
		}
	}
	return m1, nil
}
