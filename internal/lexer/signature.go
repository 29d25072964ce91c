package lexer

import "github.com/goliatone/go-asciidoc/pkg/interfaces"

// Signature is the classification of one line. Only the fields relevant to
// Kind are populated.
type Signature struct {
	Kind Kind
	Line string

	// Section titles: Level is 0 for "= Title" and "# Title".
	Level    int
	Markdown bool

	// Text carries the title, attribute value, list item text, admonition
	// paragraph text or the literal line.
	Text string
	// Name carries the attribute name, macro or directive name, or the
	// admonition label.
	Name string
	// Target carries the macro or directive target and the anchor id.
	Target string
	// Attrs is the raw bracket content of macros, directives and attribute lists.
	Attrs string
	// Reftext is the optional reftext of a block anchor.
	Reftext string
	Unset   bool
	// Escaped marks a preprocessor directive written with a leading backslash.
	Escaped bool

	Delimiter Delimiter
	// Fence is the exact fence line; a block closes only on an identical line.
	Fence string
	// Language is the info string of a markdown code fence.
	Language string

	List interfaces.ListKind
	// Marker is the list marker as written ("**", "1.", "term::").
	Marker string
	// Family groups markers that continue the same list ("*", "1.", "a.", "::").
	Family string
	// Style is the numbering style of an ordered item.
	Style string
	// Ordinal is the explicit number of an ordered item (0 when implicit).
	Ordinal int
}

// Context is the parser state consulted by Classify.
type Context struct {
	// Verbatim is set while the parser is inside an open verbatim block.
	Verbatim bool
	// Terminator is the fence that closes the open verbatim block.
	Terminator string
}
