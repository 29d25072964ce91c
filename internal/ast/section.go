package ast

import (
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// Section is a titled container. Level 0 is a book part.
type Section struct {
	base

	Level    int
	Sectname string
	Special  bool
	Numbered bool
	Caption  string
	// Index is the position among sibling sections, starting at 0.
	Index int
	// ExplicitID is set when the id came from an anchor or attribute.
	ExplicitID bool

	numeral string
	blocks  []interfaces.Node
}

// NewSection returns a section at level with the source title.
func NewSection(level int, title string, lineno int) *Section {
	s := &Section{Level: level, Sectname: "section"}
	s.SetTitle(title)
	s.lineno = lineno
	return s
}

func (s *Section) Kind() interfaces.NodeKind { return interfaces.KindSection }

func (s *Section) Context() string { return "section" }

func (s *Section) Content() string { return joinContent(s.blocks) }

func (s *Section) Children() []interfaces.Node { return append([]interfaces.Node(nil), s.blocks...) }

// Blocks returns the section body, nested sections included.
func (s *Section) Blocks() []interfaces.Node { return s.Children() }

func (s *Section) AppendBlock(node interfaces.Node) {
	setParent(node, s)
	s.blocks = append(s.blocks, node)
}

func (s *Section) SetBlocks(nodes []interfaces.Node) {
	for _, n := range nodes {
		setParent(n, s)
	}
	s.blocks = nodes
}

// Sections returns the direct child sections.
func (s *Section) Sections() []*Section {
	var out []*Section
	for _, n := range s.blocks {
		if child, ok := n.(*Section); ok {
			out = append(out, child)
		}
	}
	return out
}

// Numeral is the label of this section among its siblings ("2", "B").
func (s *Section) Numeral() string { return s.numeral }

func (s *Section) SetNumeral(numeral string) { s.numeral = numeral }

// Sectnum returns the dotted number ("1.2.") built from the numerals of the
// enclosing sections. Unnumbered sections return "".
func (s *Section) Sectnum() string {
	if !s.Numbered || s.numeral == "" {
		return ""
	}
	if parent, ok := s.parent.(*Section); ok && s.Level > 1 && parent.Numbered {
		return parent.Sectnum() + s.numeral + "."
	}
	return s.numeral + "."
}

// DisplayTitle is the title as a converter prints it: a caption replaces the
// section number.
func (s *Section) DisplayTitle() string {
	switch {
	case s.Caption != "":
		return s.Caption + s.Title()
	case s.Numbered && s.Sectnum() != "":
		return s.Sectnum() + " " + s.Title()
	default:
		return s.Title()
	}
}

// IsPart reports whether the section is a book part.
func (s *Section) IsPart() bool { return s.Level == 0 }

// Special section names recognised in section styles.
var specialSections = map[string]struct{}{
	"abstract":        {},
	"acknowledgments": {},
	"appendix":        {},
	"bibliography":    {},
	"colophon":        {},
	"dedication":      {},
	"glossary":        {},
	"index":           {},
	"partintro":       {},
	"preface":         {},
	"synopsis":        {},
}

// IsSpecialSectname reports whether name is a special section style.
func IsSpecialSectname(name string) bool {
	_, ok := specialSections[strings.ToLower(name)]
	return ok
}
