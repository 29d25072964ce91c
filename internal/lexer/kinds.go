// Package lexer classifies source lines by their structural role.
package lexer

// Kind is the structural role of a single source line.
type Kind uint8

const (
	KindText Kind = iota
	KindBlank
	KindComment
	KindDirective
	KindAttributeEntry
	KindBiblioAnchor
	KindBlockAnchor
	KindBlockAttributes
	KindDelimiter
	KindThematicBreak
	KindPageBreak
	KindSectionTitle
	KindBlockMacro
	KindListItem
	KindListContinuation
	KindAdmonition
	KindBlockTitle
	KindLiteralParagraph
)

var kindNames = [...]string{
	KindText:             "text",
	KindBlank:            "blank",
	KindComment:          "comment",
	KindDirective:        "directive",
	KindAttributeEntry:   "attribute_entry",
	KindBiblioAnchor:     "biblio_anchor",
	KindBlockAnchor:      "block_anchor",
	KindBlockAttributes:  "block_attributes",
	KindDelimiter:        "delimiter",
	KindThematicBreak:    "thematic_break",
	KindPageBreak:        "page_break",
	KindSectionTitle:     "section_title",
	KindBlockMacro:       "block_macro",
	KindListItem:         "list_item",
	KindListContinuation: "list_continuation",
	KindAdmonition:       "admonition",
	KindBlockTitle:       "block_title",
	KindLiteralParagraph: "literal_paragraph",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Delimiter identifies a delimited block fence.
type Delimiter uint8

const (
	DelimNone Delimiter = iota
	DelimComment
	DelimExample
	DelimListing
	DelimLiteral
	DelimQuote
	DelimSidebar
	DelimPass
	DelimOpen
	DelimFenced
	DelimTable
)

var delimiterNames = [...]string{
	DelimNone:    "none",
	DelimComment: "comment",
	DelimExample: "example",
	DelimListing: "listing",
	DelimLiteral: "literal",
	DelimQuote:   "quote",
	DelimSidebar: "sidebar",
	DelimPass:    "pass",
	DelimOpen:    "open",
	DelimFenced:  "fenced_code",
	DelimTable:   "table",
}

func (d Delimiter) String() string {
	if int(d) < len(delimiterNames) {
		return delimiterNames[d]
	}
	return "unknown"
}

// Verbatim reports whether the block absorbs every line until its terminator.
func (d Delimiter) Verbatim() bool {
	switch d {
	case DelimComment, DelimListing, DelimLiteral, DelimPass, DelimFenced:
		return true
	default:
		return false
	}
}
