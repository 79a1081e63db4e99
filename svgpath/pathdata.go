package svgpath

import (
	"errors"
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"
)

var errInvalidPathData = errors.New("invalid path data")

// pathLexer reads the numbers and commands of the `d` attribute
type pathLexer struct {
	data []byte
	pos  int
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' }

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

func isNumberStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+'
}

func (l *pathLexer) skipSpaces() {
	for l.pos < len(l.data) && isSpace(l.data[l.pos]) {
		l.pos++
	}
}

// skipSeparator skips spaces and at most one comma
func (l *pathLexer) skipSeparator() {
	l.skipSpaces()
	if l.pos < len(l.data) && l.data[l.pos] == ',' {
		l.pos++
		l.skipSpaces()
	}
}

func (l *pathLexer) done() bool { return l.pos >= len(l.data) }

func (l *pathLexer) hasNumber() bool {
	return l.pos < len(l.data) && isNumberStart(l.data[l.pos])
}

func (l *pathLexer) number() (float64, error) {
	l.skipSpaces()
	f, n := strconv.ParseFloat(l.data[l.pos:])
	if n == 0 {
		return 0, fmt.Errorf("%w: expected number at %d", errInvalidPathData, l.pos)
	}
	l.pos += n
	l.skipSeparator()
	return f, nil
}

// flag reads an arc flag, which may not be followed by a separator
func (l *pathLexer) flag() (bool, error) {
	l.skipSpaces()
	if l.done() {
		return false, fmt.Errorf("%w: expected flag at %d", errInvalidPathData, l.pos)
	}
	c := l.data[l.pos]
	if c != '0' && c != '1' {
		return false, fmt.Errorf("%w: invalid flag %q at %d", errInvalidPathData, c, l.pos)
	}
	l.pos++
	l.skipSeparator()
	return c == '1', nil
}

func (l *pathLexer) numbers(out []float64) error {
	for i := range out {
		var err error
		out[i], err = l.number()
		if err != nil {
			return err
		}
	}
	return nil
}

// ParsePathData compiles the SVG path data `d` into absolute operations.
// On error, the path read so far is returned along with the error,
// following the SVG error handling rules.
func ParsePathData(d string) (Path, error) {
	var (
		p                Path
		cur, start, ctrl Point // ctrl is the last control point, used by S and T
		prev             byte
		needMove         bool // after a Close, a drawing command starts at `start`
		args             [7]float64
	)
	l := pathLexer{data: []byte(d)}
	for {
		l.skipSpaces()
		if l.done() {
			return p, nil
		}
		var cmd byte
		if c := l.data[l.pos]; isCommand(c) {
			cmd = c
			l.pos++
		} else if prev != 0 && prev != 'Z' && prev != 'z' && l.hasNumber() {
			// implicit repetition
			cmd = prev
			if cmd == 'M' {
				cmd = 'L'
			} else if cmd == 'm' {
				cmd = 'l'
			}
		} else {
			return p, fmt.Errorf("%w: unexpected character %q at %d", errInvalidPathData, c, l.pos)
		}
		if prev == 0 && cmd != 'M' && cmd != 'm' {
			return p, fmt.Errorf("%w: path must start with a moveto", errInvalidPathData)
		}

		relative := cmd >= 'a'
		var ox, oy float64
		if relative {
			ox, oy = cur.X, cur.Y
		}
		if needMove && cmd != 'M' && cmd != 'm' && cmd != 'Z' && cmd != 'z' {
			p.Start(start)
		}
		needMove = false

		switch cmd {
		case 'M', 'm':
			if err := l.numbers(args[:2]); err != nil {
				return p, err
			}
			cur = Point{args[0] + ox, args[1] + oy}
			start = cur
			p.Start(cur)
		case 'L', 'l':
			if err := l.numbers(args[:2]); err != nil {
				return p, err
			}
			cur = Point{args[0] + ox, args[1] + oy}
			p.Line(cur)
		case 'H', 'h':
			if err := l.numbers(args[:1]); err != nil {
				return p, err
			}
			cur = Point{args[0] + ox, cur.Y}
			p.Line(cur)
		case 'V', 'v':
			if err := l.numbers(args[:1]); err != nil {
				return p, err
			}
			cur = Point{cur.X, args[0] + oy}
			p.Line(cur)
		case 'C', 'c':
			if err := l.numbers(args[:6]); err != nil {
				return p, err
			}
			c1 := Point{args[0] + ox, args[1] + oy}
			ctrl = Point{args[2] + ox, args[3] + oy}
			cur = Point{args[4] + ox, args[5] + oy}
			p.CubeBezier(c1, ctrl, cur)
		case 'S', 's':
			if err := l.numbers(args[:4]); err != nil {
				return p, err
			}
			c1 := cur
			if prev == 'C' || prev == 'c' || prev == 'S' || prev == 's' {
				c1 = Point{2*cur.X - ctrl.X, 2*cur.Y - ctrl.Y}
			}
			ctrl = Point{args[0] + ox, args[1] + oy}
			cur = Point{args[2] + ox, args[3] + oy}
			p.CubeBezier(c1, ctrl, cur)
		case 'Q', 'q':
			if err := l.numbers(args[:4]); err != nil {
				return p, err
			}
			ctrl = Point{args[0] + ox, args[1] + oy}
			cur = Point{args[2] + ox, args[3] + oy}
			p.QuadBezier(ctrl, cur)
		case 'T', 't':
			if err := l.numbers(args[:2]); err != nil {
				return p, err
			}
			if prev == 'Q' || prev == 'q' || prev == 'T' || prev == 't' {
				ctrl = Point{2*cur.X - ctrl.X, 2*cur.Y - ctrl.Y}
			} else {
				ctrl = cur
			}
			cur = Point{args[0] + ox, args[1] + oy}
			p.QuadBezier(ctrl, cur)
		case 'A', 'a':
			if err := l.numbers(args[:3]); err != nil {
				return p, err
			}
			largeArc, err := l.flag()
			if err != nil {
				return p, err
			}
			sweep, err := l.flag()
			if err != nil {
				return p, err
			}
			if err := l.numbers(args[5:7]); err != nil {
				return p, err
			}
			end := Point{args[5] + ox, args[6] + oy}
			p.ArcTo(cur.X, cur.Y, args[0], args[1], args[2], largeArc, sweep, end.X, end.Y)
			cur = end
		case 'Z', 'z':
			p.Stop(true)
			cur = start
			needMove = true
			l.skipSeparator()
		}
		prev = cmd
	}
}
