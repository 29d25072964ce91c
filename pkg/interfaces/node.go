package interfaces

// NodeKind identifies the structural variant of a document node. Converters
// switch on it (or on the concrete type) instead of dispatching dynamically.
type NodeKind uint8

const (
	KindDocument NodeKind = iota
	KindSection
	KindBlock
	KindList
	KindListItem
	KindTable
	KindRow
	KindCell
	KindInline
)

// String returns the lower-case name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindSection:
		return "section"
	case KindBlock:
		return "block"
	case KindList:
		return "list"
	case KindListItem:
		return "list_item"
	case KindTable:
		return "table"
	case KindRow:
		return "row"
	case KindCell:
		return "cell"
	case KindInline:
		return "inline"
	default:
		return "unknown"
	}
}

// BlockKind enumerates the block contexts produced by the parser.
type BlockKind uint8

const (
	BlockParagraph BlockKind = iota
	BlockListing
	BlockLiteral
	BlockQuote
	BlockVerse
	BlockSidebar
	BlockExample
	BlockAdmonition
	BlockOpen
	BlockImage
	BlockAudio
	BlockVideo
	BlockRuler
	BlockPageBreak
	BlockTOC
	BlockPass
	BlockPreamble
	BlockFloatingTitle
)

var blockContexts = [...]string{
	BlockParagraph:     "paragraph",
	BlockListing:       "listing",
	BlockLiteral:       "literal",
	BlockQuote:         "quote",
	BlockVerse:         "verse",
	BlockSidebar:       "sidebar",
	BlockExample:       "example",
	BlockAdmonition:    "admonition",
	BlockOpen:          "open",
	BlockImage:         "image",
	BlockAudio:         "audio",
	BlockVideo:         "video",
	BlockRuler:         "thematic_break",
	BlockPageBreak:     "page_break",
	BlockTOC:           "toc",
	BlockPass:          "pass",
	BlockPreamble:      "preamble",
	BlockFloatingTitle: "floating_title",
}

// String returns the block context name used in the node read interface.
func (k BlockKind) String() string {
	if int(k) < len(blockContexts) {
		return blockContexts[k]
	}
	return "unknown"
}

// ContentModel reports how a block's content is produced and whether
// substitutions run on it.
type ContentModel uint8

const (
	ContentSimple ContentModel = iota
	ContentCompound
	ContentVerbatim
	ContentRaw
	ContentEmpty
)

// String returns the content model name.
func (m ContentModel) String() string {
	switch m {
	case ContentSimple:
		return "simple"
	case ContentCompound:
		return "compound"
	case ContentVerbatim:
		return "verbatim"
	case ContentRaw:
		return "raw"
	case ContentEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// ContentModelFor returns the fixed content model of a block kind.
func ContentModelFor(kind BlockKind) ContentModel {
	switch kind {
	case BlockParagraph, BlockFloatingTitle:
		return ContentSimple
	case BlockListing, BlockLiteral, BlockVerse:
		return ContentVerbatim
	case BlockPass:
		return ContentRaw
	case BlockImage, BlockAudio, BlockVideo, BlockRuler, BlockPageBreak, BlockTOC:
		return ContentEmpty
	default:
		return ContentCompound
	}
}

// ListKind enumerates list flavours.
type ListKind uint8

const (
	ListUnordered ListKind = iota
	ListOrdered
	ListDescription
	ListCallout
)

// String returns the list context name (ulist, olist, dlist, colist).
func (k ListKind) String() string {
	switch k {
	case ListUnordered:
		return "ulist"
	case ListOrdered:
		return "olist"
	case ListDescription:
		return "dlist"
	case ListCallout:
		return "colist"
	default:
		return "unknown"
	}
}

// Node is the read-only view of a parsed document node. Converters only ever
// read through this contract; the parser owns every mutation.
type Node interface {
	Kind() NodeKind
	// Context is the converter-facing name ("paragraph", "section", "ulist", ...).
	Context() string
	ID() string
	Title() string
	Role() string
	Roles() []string
	HasRole(name string) bool
	Attr(name string) (string, bool)
	Attributes() map[string]string
	// Content returns substituted text for leaf nodes and the newline-joined
	// content of the children for compound nodes.
	Content() string
	Children() []Node
	Parent() Node
	Lineno() int
}
