package sections

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/attributes"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

type numberer struct {
	table    *attributes.Table
	sectnums bool
	all      bool
	partnums bool
	levels   int

	parts    int
	chapters int
	appendix int
	numbered int
}

// number assigns numerals and captions. Level 1 sections share one counter
// so book chapters keep counting across parts; appendices count with
// letters on their own.
func (e *Engine) number(doc *ast.Document) int {
	table := doc.Table()
	n := &numberer{
		table:    table,
		sectnums: table.IsSet("sectnums"),
		all:      strings.EqualFold(table.Value("sectnums", ""), "all"),
		partnums: table.IsSet("partnums"),
		levels:   SectnumLevels(table),
	}
	n.children(doc, true)
	return n.numbered
}

// SectnumLevels reads sectnumlevels, falling back to the default for unset
// or malformed values.
func SectnumLevels(table *attributes.Table) int {
	raw, ok := table.GetString("sectnumlevels")
	if !ok || strings.TrimSpace(raw) == "" {
		return DefaultSectnumLevels
	}
	levels, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || levels < 0 {
		return DefaultSectnumLevels
	}
	return levels
}

func (n *numberer) children(parent interfaces.Node, parentNumbered bool) {
	counter := 0
	for _, child := range parent.Children() {
		s, ok := child.(*ast.Section)
		if !ok {
			continue
		}
		switch {
		case s.Level == 0:
			if n.partnums {
				n.parts++
				numeral := Roman(n.parts)
				s.Numbered = true
				s.SetNumeral(numeral)
				if sig, ok := n.table.GetString("part-signifier"); ok && sig != "" {
					s.Caption = sig + " " + numeral + ": "
				}
				n.numbered++
			}
			n.children(s, true)
		case s.Sectname == "appendix" && s.Level == 1:
			n.appendix++
			letter := Alpha(n.appendix)
			s.SetNumeral(letter)
			s.Numbered = n.sectnums
			if label := n.table.Value("appendix-caption", ""); label != "" {
				s.Caption = label + " " + letter + ": "
			}
			if s.Numbered {
				n.numbered++
			}
			n.children(s, s.Numbered)
		case s.Special && !n.all:
			s.Numbered = false
			n.children(s, false)
		default:
			s.Numbered = false
			if n.sectnums && parentNumbered && s.Level <= n.levels {
				var numeral int
				if s.Level == 1 {
					n.chapters++
					numeral = n.chapters
				} else {
					counter++
					numeral = counter
				}
				s.Numbered = true
				s.SetNumeral(strconv.Itoa(numeral))
				n.numbered++
			}
			n.children(s, s.Numbered)
		}
	}
}

// Alpha renders n as an upper-case letter sequence (1 → A, 27 → AA).
func Alpha(n int) string {
	if n <= 0 {
		return ""
	}
	var out []byte
	for n > 0 {
		n--
		out = append([]byte{byte('A' + n%26)}, out...)
		n /= 26
	}
	return string(out)
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman renders n as an upper-case roman numeral.
func Roman(n int) string {
	var b strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}
