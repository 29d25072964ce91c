// Package ast defines the document tree produced by the parser. Every node
// implements interfaces.Node; the exported setters are used by the parser
// and the section engine while the tree is being built.
package ast

import (
	"sort"
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

type base struct {
	id           string
	title        string
	converted    string
	hasConverted bool
	hasTitle     bool
	attrs        map[string]string
	parent       interfaces.Node
	lineno       int
}

func (b *base) ID() string { return b.id }

// Title returns the substituted title once the substitution pass ran, the
// source title before that.
func (b *base) Title() string {
	if b.hasConverted {
		return b.converted
	}
	return b.title
}

// ConvertedTitle returns the substituted title and whether the substitution
// pass has produced it yet.
func (b *base) ConvertedTitle() (string, bool) { return b.converted, b.hasConverted }

// RawTitle returns the title as written in the source.
func (b *base) RawTitle() string { return b.title }

// HasTitle reports whether a title was assigned.
func (b *base) HasTitle() bool { return b.hasTitle }

func (b *base) Role() string { return b.attrs["role"] }

func (b *base) Roles() []string { return strings.Fields(b.attrs["role"]) }

func (b *base) HasRole(name string) bool {
	for _, role := range b.Roles() {
		if role == name {
			return true
		}
	}
	return false
}

func (b *base) Attr(name string) (string, bool) {
	v, ok := b.attrs[strings.ToLower(name)]
	return v, ok
}

func (b *base) Attributes() map[string]string {
	out := make(map[string]string, len(b.attrs))
	for k, v := range b.attrs {
		out[k] = v
	}
	return out
}

// HasOption reports whether the option was set through %name or options=.
func (b *base) HasOption(name string) bool {
	_, ok := b.attrs[name+"-option"]
	return ok
}

func (b *base) Parent() interfaces.Node { return b.parent }

func (b *base) Lineno() int { return b.lineno }

func (b *base) SetID(id string) {
	b.id = strings.TrimSpace(id)
	if b.id != "" {
		b.SetAttr("id", b.id)
	}
}

func (b *base) SetTitle(title string) {
	b.title = title
	b.hasTitle = title != ""
}

// SetConvertedTitle stores the substituted title.
func (b *base) SetConvertedTitle(title string) {
	b.converted = title
	b.hasConverted = true
}

func (b *base) SetAttr(name, value string) {
	if b.attrs == nil {
		b.attrs = make(map[string]string)
	}
	b.attrs[strings.ToLower(name)] = value
}

// RemoveAttr deletes an attribute.
func (b *base) RemoveAttr(name string) {
	delete(b.attrs, strings.ToLower(name))
}

// MergeAttributes copies attrs onto the node.
func (b *base) MergeAttributes(attrs map[string]string) {
	for k, v := range attrs {
		b.SetAttr(k, v)
	}
}

func (b *base) SetParent(parent interfaces.Node) { b.parent = parent }

func (b *base) SetLineno(line int) { b.lineno = line }

// AttributeNames returns the sorted attribute names, for stable output.
func (b *base) AttributeNames() []string {
	names := make([]string, 0, len(b.attrs))
	for k := range b.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func joinContent(children []interfaces.Node) string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		if c := child.Content(); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n")
}
