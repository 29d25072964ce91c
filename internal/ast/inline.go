package ast

import "github.com/goliatone/go-asciidoc/pkg/interfaces"

var inlineContexts = [...]string{
	interfaces.InlineQuoted:    "inline_quoted",
	interfaces.InlineAnchor:    "inline_anchor",
	interfaces.InlineBreak:     "inline_break",
	interfaces.InlineButton:    "inline_button",
	interfaces.InlineCallout:   "inline_callout",
	interfaces.InlineFootnote:  "inline_footnote",
	interfaces.InlineImage:     "inline_image",
	interfaces.InlineIndexTerm: "inline_indexterm",
	interfaces.InlineKbd:       "inline_kbd",
	interfaces.InlineMenu:      "inline_menu",
}

// Inline is a transient span handed to the inline converter during
// substitution. It is not kept in the tree.
type Inline struct {
	base

	kind   interfaces.InlineKind
	typ    string
	text   string
	target string
}

// NewInline builds a span. attrs may be nil.
func NewInline(parent interfaces.Node, kind interfaces.InlineKind, typ, text, target string, attrs map[string]string) *Inline {
	in := &Inline{kind: kind, typ: typ, text: text, target: target}
	in.parent = parent
	for k, v := range attrs {
		in.SetAttr(k, v)
	}
	if id, ok := attrs["id"]; ok {
		in.id = id
	}
	return in
}

func (i *Inline) Kind() interfaces.NodeKind { return interfaces.KindInline }

func (i *Inline) Context() string {
	if int(i.kind) < len(inlineContexts) {
		return inlineContexts[i.kind]
	}
	return "inline"
}

func (i *Inline) InlineKind() interfaces.InlineKind { return i.kind }

func (i *Inline) Type() string { return i.typ }

func (i *Inline) Text() string { return i.text }

func (i *Inline) Target() string { return i.target }

func (i *Inline) Content() string { return i.text }

func (i *Inline) Children() []interfaces.Node { return nil }
