package parser

import (
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/internal/lexer"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// parseList reads the consecutive items of one list. ancestors holds the
// marker families of the enclosing lists; an item of one of those families
// closes this list.
func (st *state) parseList(r *reader, first lexer.Signature, meta *metadata, ancestors []string) *ast.List {
	ln, _ := r.peek()
	list := ast.NewList(first.List, ln.no)
	st.claim(list)
	st.applyMetadata(list, meta)
	st.registerID(list, ln.no)
	list.Marker = first.Marker
	list.Style = meta.style()

	if first.List == interfaces.ListOrdered {
		if list.Style == "" {
			list.Style = first.Style
		}
		if list.Style == "" {
			list.Style = "arabic"
		}
		if start, ok := list.Attr("start"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(start)); err == nil {
				list.Start = n
			}
		} else if first.Ordinal > 1 {
			list.Start = first.Ordinal
		}
	}

	chain := append(append([]string(nil), ancestors...), first.Family)
	for {
		next, ok := r.peek()
		if !ok {
			break
		}
		sig := lexer.Classify(next.text, lexer.Context{})
		if sig.Kind != lexer.KindListItem || sig.List != first.List || sig.Family != first.Family {
			break
		}
		r.next()
		list.AppendItem(st.parseListItem(r, list, sig, next, chain))
	}
	st.numberItems(list)
	return list
}

func (st *state) parseListItem(r *reader, list *ast.List, sig lexer.Signature, ln line, chain []string) *ast.ListItem {
	item := ast.NewListItem(sig.Marker, "", ln.no)
	st.claim(item)

	text := sig.Text
	switch list.ListKind {
	case interfaces.ListDescription:
		item.AddTerm(sig.Target)
		// stacked terms share one description
		for text == "" {
			next, ok := r.peek()
			if !ok {
				break
			}
			more := lexer.Classify(next.text, lexer.Context{})
			if more.Kind != lexer.KindListItem || more.List != interfaces.ListDescription || more.Family != sig.Family {
				break
			}
			r.next()
			item.AddTerm(more.Target)
			text = more.Text
		}
	case interfaces.ListOrdered, interfaces.ListCallout:
		item.Ordinal = sig.Ordinal
	case interfaces.ListUnordered:
		if checked, rest, ok := checkbox(text); ok {
			item.Checkbox = true
			item.Checked = checked
			text = rest
			list.SetAttr("checklist-option", "")
		}
	}
	item.SetText(text)

	st.readItemText(r, item)
	st.readAttachments(r, list, item, sig.Family, chain)
	return item
}

// readItemText appends the wrapped lines of the item principal text.
func (st *state) readItemText(r *reader, item *ast.ListItem) {
	for {
		ln, ok := r.peek()
		if !ok || strings.TrimSpace(ln.text) == "" {
			return
		}
		switch lexer.Classify(ln.text, lexer.Context{}).Kind {
		case lexer.KindListItem, lexer.KindListContinuation, lexer.KindDelimiter,
			lexer.KindBlockAttributes, lexer.KindSectionTitle:
			return
		case lexer.KindComment:
			r.next()
			continue
		}
		r.next()
		item.AppendText(strings.TrimSpace(ln.text))
	}
}

// readAttachments attaches blocks joined with a list continuation, nested
// lists and indented literal paragraphs to item. It stops at a sibling
// item, an item of an enclosing list or any other content.
func (st *state) readAttachments(r *reader, list *ast.List, item *ast.ListItem, family string, chain []string) {
	for {
		blanks := r.skipBlank()
		ln, ok := r.peek()
		if !ok {
			return
		}
		sig := lexer.Classify(ln.text, lexer.Context{})
		switch sig.Kind {
		case lexer.KindListContinuation:
			r.next()
			meta := st.readMetadata(r, nil)
			next, ok := r.peek()
			if !ok {
				return
			}
			nextSig := lexer.Classify(next.text, lexer.Context{})
			if nextSig.Kind == lexer.KindListItem && !paragraphStyles[meta.style()] {
				item.AppendBlock(st.parseList(r, nextSig, meta, chain))
				continue
			}
			if b := st.parseBlock(r, meta, blockContext{inList: true}); b != nil {
				item.AppendBlock(b)
			}
		case lexer.KindListItem:
			if sig.List == list.ListKind && sig.Family == family {
				return
			}
			if slices.Contains(chain[:len(chain)-1], sig.Family) {
				return
			}
			item.AppendBlock(st.parseList(r, sig, nil, chain))
		case lexer.KindLiteralParagraph:
			if blanks == 0 {
				return
			}
			if b := st.parseBlock(r, nil, blockContext{inList: true}); b != nil {
				item.AppendBlock(b)
			}
		default:
			return
		}
	}
}

// numberItems resolves implicit ordinals and reports ordered items whose
// explicit number breaks the sequence.
func (st *state) numberItems(list *ast.List) {
	switch list.ListKind {
	case interfaces.ListOrdered:
		expected := list.Start
		if expected == 0 {
			expected = 1
		}
		for _, item := range list.Items() {
			if item.Ordinal != 0 && item.Ordinal != expected {
				st.warn(item.Lineno(), diagnostics.CodeListOutOfSequence, "list item index: expected %d, got %d", expected, item.Ordinal)
			}
			item.Ordinal = expected
			expected++
		}
	case interfaces.ListCallout:
		for i, item := range list.Items() {
			if item.Ordinal == 0 {
				item.Ordinal = i + 1
			} else if item.Ordinal != i+1 {
				st.warn(item.Lineno(), diagnostics.CodeListOutOfSequence, "callout list item index: expected %d, got %d", i+1, item.Ordinal)
			}
		}
	}
}

// checkbox splits a checklist marker ("[ ]", "[x]", "[*]") off item text.
func checkbox(text string) (checked bool, rest string, ok bool) {
	if len(text) < 4 || text[0] != '[' || text[2] != ']' || (text[3] != ' ' && text[3] != '\t') {
		return false, text, false
	}
	rest = strings.TrimSpace(text[4:])
	switch text[1] {
	case ' ':
		return false, rest, true
	case 'x', 'X', '*':
		return true, rest, true
	}
	return false, text, false
}
