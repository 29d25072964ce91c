package parser

import (
	"strings"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/attributes"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/internal/substitution"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// titled is a node whose title is converted in the substitution phase.
type titled interface {
	interfaces.Node
	HasTitle() bool
	RawTitle() string
	SetConvertedTitle(string)
}

// substitute rewinds the table to the end of the header and walks the tree
// in document order. Each node first replays the attribute entries that
// preceded it, so every text is converted against the attributes in effect
// at its position. Entries after the last node are applied at the end.
func (st *state) substitute() {
	st.table.Restore(st.header)
	trailing := st.pending
	st.pending = nil

	st.convertTitle(st.doc)
	root := interfaces.Node(st.doc)
	ast.Walk(st.doc, func(n interfaces.Node) bool {
		if n == root {
			return true
		}
		st.replay(st.entries[n])
		switch node := n.(type) {
		case *ast.Section:
			st.convertTitle(node)
		case *ast.Block:
			st.substituteBlock(node)
		case *ast.List:
			st.substituteList(node)
		case *ast.ListItem:
			st.substituteItem(node)
		case *ast.Table:
			st.convertTitle(node)
		case *ast.Cell:
			return st.substituteCell(node)
		}
		return true
	})
	st.replay(trailing)
}

func (st *state) replay(entries []attributes.Entry) {
	for _, e := range entries {
		if err := st.table.Apply(e); err != nil {
			st.logger.Debug("attribute entry not replayed", "name", e.Name, "line", e.Line, "error", err)
		}
	}
}

func (st *state) convertTitle(node titled) {
	if !node.HasTitle() {
		return
	}
	scope := substitution.Scope{Node: node, Line: node.Lineno()}
	node.SetConvertedTitle(st.subs.ApplyIn(scope, node.RawTitle(), substitution.TitleSubs))
}

func (st *state) substituteBlock(b *ast.Block) {
	st.convertTitle(b)
	switch b.ContentModel() {
	case interfaces.ContentSimple, interfaces.ContentVerbatim, interfaces.ContentRaw:
		scope := substitution.Scope{
			Node:       b,
			Line:       b.Lineno(),
			Hardbreaks: b.HasOption("hardbreaks") || st.table.IsSet("hardbreaks"),
		}
		b.SetContent(st.subs.ApplyIn(scope, b.Source(), b.Subs))
	}
}

// substituteList links callout list items to the callouts registered by
// the verbatim blocks above them.
func (st *state) substituteList(l *ast.List) {
	st.convertTitle(l)
	if l.ListKind != interfaces.ListCallout {
		return
	}
	callouts := st.doc.Callouts()
	for _, item := range l.Items() {
		ids := callouts.IDs(item.Ordinal)
		if len(ids) == 0 {
			st.warn(item.Lineno(), diagnostics.CodeCalloutMismatch, "no callout found for <%d>", item.Ordinal)
			continue
		}
		item.SetAttr("coids", strings.Join(ids, " "))
	}
	callouts.NextList()
}

func (st *state) substituteItem(item *ast.ListItem) {
	scope := substitution.Scope{Node: item, Line: item.Lineno()}
	if text := item.RawText(); text != "" {
		item.SetConvertedText(st.subs.ApplyIn(scope, text, substitution.NormalSubs))
	}
	terms := item.RawTerms()
	if len(terms) == 0 {
		return
	}
	converted := make([]string, len(terms))
	for i, term := range terms {
		converted[i] = st.subs.ApplyIn(scope, term, substitution.NormalSubs)
	}
	item.SetConvertedTerms(converted)
}

// substituteCell converts a cell by its style. Asciidoc cells run the
// section engine and the substitution phase of their nested document.
func (st *state) substituteCell(cell *ast.Cell) bool {
	if inner := cell.Inner(); inner != nil {
		if sub, ok := st.cells[cell]; ok {
			st.p.engine.Process(inner, st.diags)
			sub.substitute()
			st.problems = append(st.problems, sub.problems...)
		}
		inner.Freeze()
		return false
	}
	subs := substitution.NormalSubs
	if cell.Style == "literal" {
		subs = substitution.VerbatimSubs
	}
	scope := substitution.Scope{Node: cell, Line: cell.Lineno()}
	cell.SetContent(st.subs.ApplyIn(scope, cell.Text(), subs))
	return true
}
