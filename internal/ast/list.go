package ast

import (
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// List holds items of one kind and marker family.
type List struct {
	base

	ListKind interfaces.ListKind
	Style    string
	Marker   string
	// Start is the first ordinal of an ordered list (0 when implicit).
	Start int

	items []*ListItem
}

func NewList(kind interfaces.ListKind, lineno int) *List {
	l := &List{ListKind: kind}
	l.lineno = lineno
	return l
}

func (l *List) Kind() interfaces.NodeKind { return interfaces.KindList }

func (l *List) Context() string { return l.ListKind.String() }

func (l *List) Content() string {
	nodes := make([]interfaces.Node, len(l.items))
	for i, item := range l.items {
		nodes[i] = item
	}
	return joinContent(nodes)
}

func (l *List) Children() []interfaces.Node {
	nodes := make([]interfaces.Node, len(l.items))
	for i, item := range l.items {
		nodes[i] = item
	}
	return nodes
}

// Items returns the list items in source order.
func (l *List) Items() []*ListItem { return append([]*ListItem(nil), l.items...) }

func (l *List) AppendItem(item *ListItem) {
	item.SetParent(l)
	l.items = append(l.items, item)
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// ListItem is one entry of a list. Description list items carry one or more
// terms; the item text is the description.
type ListItem struct {
	base

	Marker  string
	Ordinal int
	// Checkbox is set for checklist items; Checked reports the state.
	Checkbox bool
	Checked  bool

	text           string
	converted      string
	hasConverted   bool
	terms          []string
	convertedTerms []string
	blocks         []interfaces.Node
}

func NewListItem(marker, text string, lineno int) *ListItem {
	item := &ListItem{Marker: marker, text: text}
	item.lineno = lineno
	return item
}

func (i *ListItem) Kind() interfaces.NodeKind { return interfaces.KindListItem }

func (i *ListItem) Context() string { return "list_item" }

// Text returns the substituted principal text.
func (i *ListItem) Text() string {
	if i.hasConverted {
		return i.converted
	}
	return i.text
}

// RawText returns the principal text as written.
func (i *ListItem) RawText() string { return i.text }

// HasText reports whether the item has principal text.
func (i *ListItem) HasText() bool { return strings.TrimSpace(i.text) != "" }

func (i *ListItem) SetText(text string) { i.text = text }

// AppendText adds a wrapped line to the principal text.
func (i *ListItem) AppendText(line string) {
	if i.text == "" {
		i.text = line
		return
	}
	i.text += "\n" + line
}

func (i *ListItem) SetConvertedText(text string) {
	i.converted = text
	i.hasConverted = true
}

// Terms returns the substituted description list terms.
func (i *ListItem) Terms() []string {
	if i.convertedTerms != nil {
		return append([]string(nil), i.convertedTerms...)
	}
	return append([]string(nil), i.terms...)
}

func (i *ListItem) RawTerms() []string { return append([]string(nil), i.terms...) }

func (i *ListItem) AddTerm(term string) { i.terms = append(i.terms, term) }

func (i *ListItem) SetConvertedTerms(terms []string) { i.convertedTerms = terms }

func (i *ListItem) Content() string {
	parts := make([]string, 0, 2)
	if t := i.Text(); t != "" {
		parts = append(parts, t)
	}
	if c := joinContent(i.blocks); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, "\n")
}

func (i *ListItem) Children() []interfaces.Node { return append([]interfaces.Node(nil), i.blocks...) }

// Blocks returns the blocks attached to the item.
func (i *ListItem) Blocks() []interfaces.Node { return i.Children() }

func (i *ListItem) AppendBlock(node interfaces.Node) {
	setParent(node, i)
	i.blocks = append(i.blocks, node)
}

func (i *ListItem) SetBlocks(nodes []interfaces.Node) {
	for _, n := range nodes {
		setParent(n, i)
	}
	i.blocks = nodes
}
