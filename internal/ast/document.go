package ast

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-asciidoc/internal/attributes"
	"github.com/goliatone/go-asciidoc/internal/registry"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// Author is one entry of the document author line.
type Author struct {
	Name       string
	Firstname  string
	Middlename string
	Lastname   string
	Initials   string
	Email      string
}

// Revision is the parsed revision line.
type Revision struct {
	Number string
	Date   string
	Remark string
}

// Document is the tree root. It owns the attribute table and the registries.
type Document struct {
	base

	SourceID uuid.UUID
	Source   string

	authors  []Author
	revision Revision
	blocks   []interfaces.Node

	table     *attributes.Table
	ids       *registry.IDs
	footnotes *registry.Footnotes
	callouts  *registry.Callouts

	diagnostics []interfaces.Diagnostic
	frontMatter map[string]any
	nested      bool
	parentDoc   *Document
}

// NewDocument returns an empty document bound to table.
func NewDocument(table *attributes.Table) *Document {
	if table == nil {
		table = attributes.NewTable()
	}
	return &Document{
		table:     table,
		ids:       registry.NewIDs(),
		footnotes: registry.NewFootnotes(),
		callouts:  registry.NewCallouts(),
	}
}

// NewNestedDocument returns a fragment document (an asciidoc table cell)
// sharing the registries of parent and starting from a copy of its attributes.
func NewNestedDocument(parent *Document) *Document {
	return &Document{
		table:     parent.table.Clone(),
		ids:       parent.ids,
		footnotes: parent.footnotes,
		callouts:  parent.callouts,
		nested:    true,
		parentDoc: parent,
		Source:    parent.Source,
	}
}

func (d *Document) Kind() interfaces.NodeKind { return interfaces.KindDocument }

func (d *Document) Context() string { return "document" }

func (d *Document) Content() string { return joinContent(d.blocks) }

func (d *Document) Children() []interfaces.Node { return append([]interfaces.Node(nil), d.blocks...) }

// Blocks returns the top-level sections and blocks.
func (d *Document) Blocks() []interfaces.Node { return d.Children() }

// AppendBlock adds a top-level node.
func (d *Document) AppendBlock(node interfaces.Node) {
	setParent(node, d)
	d.blocks = append(d.blocks, node)
}

// SetBlocks replaces the top-level nodes.
func (d *Document) SetBlocks(nodes []interfaces.Node) {
	for _, n := range nodes {
		setParent(n, d)
	}
	d.blocks = nodes
}

// Attr reads document attributes first, then node attributes.
func (d *Document) Attr(name string) (string, bool) {
	if v, ok := d.table.GetString(name); ok {
		return v, true
	}
	return d.base.Attr(name)
}

// Attributes returns a snapshot of the document attribute table.
func (d *Document) Attributes() map[string]string { return d.table.Snapshot() }

// Table exposes the attribute table.
func (d *Document) Table() *attributes.Table { return d.table }

// IDs exposes the id catalog.
func (d *Document) IDs() *registry.IDs { return d.ids }

// Footnotes exposes the footnote registry.
func (d *Document) Footnotes() *registry.Footnotes { return d.footnotes }

// Callouts exposes the callout registry.
func (d *Document) Callouts() *registry.Callouts { return d.callouts }

// Doctype returns the doctype attribute (article by default).
func (d *Document) Doctype() string { return d.table.Value("doctype", "article") }

// Doctitle returns the substituted document title.
func (d *Document) Doctitle() string { return d.Title() }

func (d *Document) Authors() []Author { return append([]Author(nil), d.authors...) }

func (d *Document) SetAuthors(authors []Author) { d.authors = authors }

func (d *Document) Revision() Revision { return d.revision }

func (d *Document) SetRevision(rev Revision) { d.revision = rev }

// Nested reports whether the document is a table cell fragment.
func (d *Document) Nested() bool { return d.nested }

// ParentDocument returns the enclosing document of a nested fragment.
func (d *Document) ParentDocument() *Document { return d.parentDoc }

// FrontMatter returns the decoded front matter, if any.
func (d *Document) FrontMatter() map[string]any { return d.frontMatter }

func (d *Document) SetFrontMatter(meta map[string]any) { d.frontMatter = meta }

// Diagnostics returns the warnings collected while parsing.
func (d *Document) Diagnostics() []interfaces.Diagnostic {
	return append([]interfaces.Diagnostic(nil), d.diagnostics...)
}

// AddDiagnostic records a diagnostic on the document.
func (d *Document) AddDiagnostic(diag interfaces.Diagnostic) {
	d.diagnostics = append(d.diagnostics, diag)
}

// Sections returns the top-level sections.
func (d *Document) Sections() []*Section {
	var out []*Section
	for _, n := range d.blocks {
		if s, ok := n.(*Section); ok {
			out = append(out, s)
		}
	}
	return out
}

// Freeze makes the attribute table read-only.
func (d *Document) Freeze() { d.table.Freeze() }

type parentSetter interface {
	SetParent(interfaces.Node)
}

func setParent(child interfaces.Node, parent interfaces.Node) {
	if ps, ok := child.(parentSetter); ok {
		ps.SetParent(parent)
	}
}
