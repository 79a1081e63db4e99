package svgdoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// selector is a compound selector made of
// an optional type, an optional id and classes, such as `rect.a.b#c`.
// Combinators, pseudo-classes and attribute selectors are not supported.
type selector struct {
	tag     string // empty matches any element
	id      string
	classes []string
}

func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n>+~:[") {
		return selector{}, false
	}
	var sel selector
	// split on '.' and '#', keeping the delimiters
	start := 0
	flush := func(end int) bool {
		part := s[start:end]
		switch {
		case part == "":
			return start == 0 // only the tag may be empty
		case part[0] == '.':
			if len(part) == 1 {
				return false
			}
			sel.classes = append(sel.classes, part[1:])
		case part[0] == '#':
			if len(part) == 1 || sel.id != "" {
				return false
			}
			sel.id = part[1:]
		case part == "*":
		default:
			sel.tag = part
		}
		return true
	}
	for i := 1; i < len(s); i++ {
		if s[i] == '.' || s[i] == '#' {
			if !flush(i) {
				return selector{}, false
			}
			start = i
		}
	}
	if !flush(len(s)) {
		return selector{}, false
	}
	return sel, true
}

// specificity is computed as (ids, classes, types) packed in one int
func (sel selector) specificity() int {
	s := 10 * len(sel.classes)
	if sel.id != "" {
		s += 100
	}
	if sel.tag != "" {
		s++
	}
	return s
}

func (sel selector) match(n *Node) bool {
	if sel.tag != "" && sel.tag != n.name {
		return false
	}
	if sel.id != "" && sel.id != n.ID() {
		return false
	}
	if len(sel.classes) != 0 {
		classes := strings.Fields(n.attrs["class"])
		for _, class := range sel.classes {
			found := false
			for _, c := range classes {
				if c == class {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

type cssRule struct {
	sel          selector
	declarations []*css.Declaration
	order        int // position in the stylesheets
}

// applyStyleSheets applies, for every element, by increasing priority:
// the presentation attributes (already stored), the rules
// of the <style> elements and the `style` attribute. Important declarations
// are applied last.
func (d *Document) applyStyleSheets() error {
	var rules []cssRule
	var collect func(n *Node) error
	collect = func(n *Node) error {
		if n.tag == ElementStyle {
			if t := n.attrs["type"]; t != "" && t != "text/css" {
				return nil
			}
			sheet, err := parser.Parse(n.Text())
			if err != nil {
				return fmt.Errorf("svgdoc: invalid stylesheet: %w", err)
			}
			for _, r := range sheet.Rules {
				if r.Kind == css.AtRule {
					continue // not supported
				}
				for _, s := range r.Selectors {
					sel, ok := parseSelector(s)
					if !ok {
						continue
					}
					rules = append(rules, cssRule{sel: sel, declarations: r.Declarations, order: len(rules)})
				}
			}
		}
		for _, c := range n.children {
			if err := collect(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := collect(d.root); err != nil {
		return err
	}
	sort.SliceStable(rules, func(i, j int) bool {
		si, sj := rules[i].sel.specificity(), rules[j].sel.specificity()
		if si != sj {
			return si < sj
		}
		return rules[i].order < rules[j].order
	})

	d.walk(func(n *Node) {
		var important []*css.Declaration
		for _, r := range rules {
			if !r.sel.match(n) {
				continue
			}
			for _, decl := range r.declarations {
				if decl.Important {
					important = append(important, decl)
				} else {
					n.attrs[decl.Property] = decl.Value
				}
			}
		}
		if style, ok := n.attrs["style"]; ok {
			for _, decl := range parseInlineStyle(style) {
				if decl.Important {
					important = append(important, decl)
				} else {
					n.attrs[decl.Property] = decl.Value
				}
			}
			delete(n.attrs, "style")
		}
		for _, decl := range important {
			n.attrs[decl.Property] = decl.Value
		}
	})
	return nil
}

// parseInlineStyle parses the content of a `style` attribute.
// The parser is strict about semicolons, but they are optional
// after the last declaration. When the whole content is invalid,
// each declaration is tried on its own and the invalid ones are ignored,
// as browsers do.
func parseInlineStyle(style string) []*css.Declaration {
	style = strings.TrimSpace(style)
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}
	if decls, err := parser.ParseDeclarations(style); err == nil {
		return decls
	}
	var out []*css.Declaration
	for _, chunk := range strings.Split(style, ";") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		decls, err := parser.ParseDeclarations(chunk + ";")
		if err != nil {
			continue
		}
		out = append(out, decls...)
	}
	return out
}

// walk calls fn on every node, in document order
func (d *Document) walk(fn func(n *Node)) {
	var rec func(n *Node)
	rec = func(n *Node) {
		fn(n)
		for _, c := range n.children {
			rec(c)
		}
	}
	rec(d.root)
}
