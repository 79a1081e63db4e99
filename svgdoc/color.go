package svgdoc

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses an SVG color string in all forms
// including all SVG1.1 names, obtained from the colornames package,
// hexadecimal notations, rgb(), rgba(), hsl(), hsla() and 'transparent'.
// `currentColor` and `none` are not colors and are rejected.
func ParseColor(colorStr string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(colorStr))
	if v == "" {
		return color.NRGBA{}, errParamMismatch
	}
	if v == "transparent" {
		return color.NRGBA{}, nil
	}
	if cn, ok := colornames.Map[v]; ok {
		return color.NRGBA{cn.R, cn.G, cn.B, cn.A}, nil
	}
	if v[0] == '#' {
		return parseColorHex(v[1:])
	}
	if i := strings.IndexByte(v, '('); i != -1 && strings.HasSuffix(v, ")") {
		name, args := strings.TrimSpace(v[:i]), v[i+1:len(v)-1]
		vals := strings.FieldsFunc(args, func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
		switch name {
		case "rgb", "rgba":
			return parseColorRGB(vals)
		case "hsl", "hsla":
			return parseColorHSL(vals)
		}
	}
	return color.NRGBA{}, fmt.Errorf("svgdoc: invalid color %q", colorStr)
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// parseColorHex accepts 3, 4, 6 or 8 digits.
// SVG specs say duplicate characters in case of 3 (or 4) digits hex number
func parseColorHex(s string) (color.NRGBA, error) {
	if len(s) == 3 || len(s) == 4 {
		b := make([]byte, 0, 2*len(s))
		for i := 0; i < len(s); i++ {
			b = append(b, s[i], s[i])
		}
		s = string(b)
	}
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("svgdoc: invalid hex color #%s", s)
	}
	var out [4]uint8
	out[3] = 0xFF
	for i := 0; i < len(s)/2; i++ {
		hi, ok1 := hexDigit(s[2*i])
		lo, ok2 := hexDigit(s[2*i+1])
		if !ok1 || !ok2 {
			return color.NRGBA{}, fmt.Errorf("svgdoc: invalid hex color #%s", s)
		}
		out[i] = hi<<4 | lo
	}
	return color.NRGBA{out[0], out[1], out[2], out[3]}, nil
}

func clampUint8(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, f))))
}

// parseColorValue reads a channel as a number in [0, 255] or a percentage
func parseColorValue(v string) (uint8, error) {
	length, err := ParseLength(v)
	if err != nil {
		return 0, err
	}
	switch length.Unit {
	case UnitNone:
		return clampUint8(length.Value), nil
	case UnitPercent:
		return clampUint8(length.Value * 255 / 100), nil
	}
	return 0, errParamMismatch
}

// parseAlphaValue reads an alpha channel, as number in [0, 1] or a percentage
func parseAlphaValue(v string) (uint8, error) {
	a, err := ParseOpacity(v)
	if err != nil {
		return 0, err
	}
	return clampUint8(a * 255), nil
}

func parseColorRGB(vals []string) (color.NRGBA, error) {
	if len(vals) != 3 && len(vals) != 4 {
		return color.NRGBA{}, errParamMismatch
	}
	var (
		cvals [4]uint8
		err   error
	)
	cvals[3] = 0xFF
	for i := range vals {
		if i == 3 {
			cvals[3], err = parseAlphaValue(vals[3])
		} else {
			cvals[i], err = parseColorValue(vals[i])
		}
		if err != nil {
			return color.NRGBA{}, err
		}
	}
	return color.NRGBA{cvals[0], cvals[1], cvals[2], cvals[3]}, nil
}

func parseColorHSL(vals []string) (color.NRGBA, error) {
	if len(vals) != 3 && len(vals) != 4 {
		return color.NRGBA{}, errParamMismatch
	}
	h, err := ParseNumber(strings.TrimSuffix(vals[0], "deg"))
	if err != nil {
		return color.NRGBA{}, err
	}
	var sl [2]float64
	for i := range sl {
		sl[i], err = ParseOpacity(vals[i+1])
		if err != nil {
			return color.NRGBA{}, err
		}
		sl[i] = math.Max(0, math.Min(1, sl[i]))
	}
	alpha := uint8(0xFF)
	if len(vals) == 4 {
		alpha, err = parseAlphaValue(vals[3])
		if err != nil {
			return color.NRGBA{}, err
		}
	}
	r, g, b := hslToRGB(h, sl[0], sl[1])
	return color.NRGBA{clampUint8(r * 255), clampUint8(g * 255), clampUint8(b * 255), alpha}, nil
}

// hslToRGB follows the CSS Color Module algorithm;
// h is in degrees, s and l in [0, 1]
func hslToRGB(h, s, l float64) (r, g, b float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360
	var t2 float64
	if l <= 0.5 {
		t2 = l * (s + 1)
	} else {
		t2 = l + s - l*s
	}
	t1 := l*2 - t2
	return hueToRGB(t1, t2, h+1./3), hueToRGB(t1, t2, h), hueToRGB(t1, t2, h-1./3)
}

func hueToRGB(t1, t2, h float64) float64 {
	if h < 0 {
		h++
	}
	if h > 1 {
		h--
	}
	switch {
	case h*6 < 1:
		return (t2-t1)*h*6 + t1
	case h*2 < 1:
		return t2
	case h*3 < 2:
		return (t2-t1)*(2./3-h)*6 + t1
	}
	return t1
}
