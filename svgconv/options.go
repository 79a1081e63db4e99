package svgconv

import (
	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgtree"
)

// ErrorMode is the policy applied when an unsupported
// element is found.
type ErrorMode uint8

const (
	// IgnoreErrorMode silently skips the element.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode skips the element and logs a warning.
	WarnErrorMode
	// StrictErrorMode aborts the conversion.
	StrictErrorMode
)

func (e ErrorMode) String() string {
	switch e {
	case IgnoreErrorMode:
		return "ignore"
	case WarnErrorMode:
		return "warn"
	case StrictErrorMode:
		return "strict"
	default:
		return "<unknown ErrorMode>"
	}
}

// ParseErrorMode accepts the values returned by ErrorMode.String.
func ParseErrorMode(s string) (ErrorMode, bool) {
	switch s {
	case "ignore":
		return IgnoreErrorMode, true
	case "warn":
		return WarnErrorMode, true
	case "strict":
		return StrictErrorMode, true
	}
	return 0, false
}

// Options controls the conversion.
type Options struct {
	// DPI is used to convert absolute units (in, cm, mm, pt, pc).
	DPI float64
	// FontSize is the default font size, used for em and ex units.
	FontSize float64
	// DefaultSize is used when the root element has neither
	// a size nor a view box.
	DefaultSize svgtree.Size
	// ResourcesDir is the directory used to resolve the relative
	// paths of images. If empty, only data URLs are loaded.
	ResourcesDir string
	// ErrorMode is applied to unsupported elements.
	ErrorMode ErrorMode
	// MaxDepth bounds the depth of the converted elements.
	MaxDepth int

	// Logger receives the warnings. If nil, nothing is logged.
	Logger *zap.Logger
}

// DefaultOptions returns the options used by Parse and ParseFile
// when none are given.
func DefaultOptions() Options {
	return Options{
		DPI:         96,
		FontSize:    12,
		DefaultSize: svgtree.Size{W: 100, H: 100},
		ErrorMode:   IgnoreErrorMode,
		MaxDepth:    256,
	}
}

func (opts Options) logger() *zap.Logger {
	if opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}
