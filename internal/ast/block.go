package ast

import (
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// Block is a leaf or compound block: paragraphs, delimited blocks, block
// macros and breaks.
type Block struct {
	base

	BlockKind interfaces.BlockKind
	Style     string
	Subs      []interfaces.Substitution
	// Caption is the label prefix of a titled block ("Example 1. ").
	Caption string
	// Delimiter is the fence the block was opened with, empty for paragraphs.
	Delimiter string

	model     interfaces.ContentModel
	lines     []string
	content   string
	converted bool
	blocks    []interfaces.Node
}

// NewBlock returns a block of kind using the kind's default content model.
func NewBlock(kind interfaces.BlockKind, lineno int) *Block {
	b := &Block{BlockKind: kind, model: interfaces.ContentModelFor(kind)}
	b.lineno = lineno
	return b
}

func (b *Block) Kind() interfaces.NodeKind { return interfaces.KindBlock }

func (b *Block) Context() string { return b.BlockKind.String() }

// ContentModel reports how the block content is produced.
func (b *Block) ContentModel() interfaces.ContentModel { return b.model }

// SetContentModel overrides the default model (admonition paragraphs are
// simple, admonition blocks compound).
func (b *Block) SetContentModel(model interfaces.ContentModel) { b.model = model }

// Content returns substituted text for simple and verbatim blocks and the
// joined content of the children for compound blocks.
func (b *Block) Content() string {
	switch b.model {
	case interfaces.ContentCompound:
		return joinContent(b.blocks)
	case interfaces.ContentEmpty:
		return ""
	}
	if b.converted {
		return b.content
	}
	return strings.Join(b.lines, "\n")
}

// Source returns the unsubstituted lines joined by newlines.
func (b *Block) Source() string { return strings.Join(b.lines, "\n") }

func (b *Block) Lines() []string { return append([]string(nil), b.lines...) }

func (b *Block) SetLines(lines []string) { b.lines = lines }

// SetContent stores the substituted content.
func (b *Block) SetContent(content string) {
	b.content = content
	b.converted = true
}

func (b *Block) Children() []interfaces.Node { return append([]interfaces.Node(nil), b.blocks...) }

func (b *Block) Blocks() []interfaces.Node { return b.Children() }

func (b *Block) AppendBlock(node interfaces.Node) {
	setParent(node, b)
	b.blocks = append(b.blocks, node)
}

func (b *Block) SetBlocks(nodes []interfaces.Node) {
	for _, n := range nodes {
		setParent(n, b)
	}
	b.blocks = nodes
}

// HasSub reports whether the substitution runs on the block content.
func (b *Block) HasSub(sub interfaces.Substitution) bool {
	for _, s := range b.Subs {
		if s == sub {
			return true
		}
	}
	return false
}

// CaptionedTitle is the caption followed by the title.
func (b *Block) CaptionedTitle() string { return b.Caption + b.Title() }
