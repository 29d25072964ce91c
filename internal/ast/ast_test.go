package ast

import (
	"testing"

	"github.com/goliatone/go-asciidoc/internal/attributes"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

func TestSection_Sectnum(t *testing.T) {
	doc := NewDocument(attributes.NewTable())
	chapter := NewSection(1, "Chapter", 1)
	chapter.Numbered = true
	chapter.SetNumeral("2")
	doc.AppendBlock(chapter)

	child := NewSection(2, "Child", 3)
	child.Numbered = true
	child.SetNumeral("1")
	chapter.AppendBlock(child)

	if got := child.Sectnum(); got != "2.1." {
		t.Fatalf("Sectnum() = %q, want 2.1.", got)
	}
	if got := child.DisplayTitle(); got != "2.1. Child" {
		t.Fatalf("DisplayTitle() = %q", got)
	}

	child.Caption = "Appendix A: "
	if got := child.DisplayTitle(); got != "Appendix A: Child" {
		t.Fatalf("caption should replace the number, got %q", got)
	}
}

func TestBlock_ContentModel(t *testing.T) {
	para := NewBlock(interfaces.BlockParagraph, 1)
	para.SetLines([]string{"a", "b"})
	if para.Content() != "a\nb" {
		t.Fatalf("unsubstituted content = %q", para.Content())
	}
	para.SetContent("A B")
	if para.Content() != "A B" {
		t.Fatalf("substituted content = %q", para.Content())
	}

	example := NewBlock(interfaces.BlockExample, 1)
	example.AppendBlock(para)
	if example.Content() != "A B" {
		t.Fatalf("compound content = %q", example.Content())
	}
	if para.Parent() != example {
		t.Fatalf("parent not assigned")
	}

	image := NewBlock(interfaces.BlockImage, 1)
	image.SetLines([]string{"ignored"})
	if image.Content() != "" {
		t.Fatalf("empty block content = %q", image.Content())
	}
}

func TestTable_ColumnWidths(t *testing.T) {
	table := NewTable(1)
	table.SetColumns([]*Column{{Width: 1}, {Width: 1}, {Width: 1}})

	cols := table.Columns()
	if cols[0].Percent != 33.3333 {
		t.Fatalf("first column = %v", cols[0].Percent)
	}
	if cols[2].Percent != 33.3334 {
		t.Fatalf("last column takes the remainder, got %v", cols[2].Percent)
	}
}

func TestNodeAttributes(t *testing.T) {
	b := NewBlock(interfaces.BlockSidebar, 4)
	b.MergeAttributes(map[string]string{"role": "lead wide", "header-option": ""})
	b.SetID("side")

	if !b.HasRole("wide") || b.Role() != "lead wide" {
		t.Fatalf("roles = %v", b.Roles())
	}
	if !b.HasOption("header") {
		t.Fatalf("HasOption(header) = false")
	}
	if v, ok := b.Attr("ID"); !ok || v != "side" {
		t.Fatalf("Attr(id) = %q, %v", v, ok)
	}
}

func TestWalk_DocumentOrder(t *testing.T) {
	doc := NewDocument(nil)
	sec := NewSection(1, "S", 1)
	doc.AppendBlock(sec)
	list := NewList(interfaces.ListUnordered, 2)
	item := NewListItem("*", "x", 2)
	list.AppendItem(item)
	sec.AppendBlock(list)

	var contexts []string
	Walk(doc, func(n interfaces.Node) bool {
		contexts = append(contexts, n.Context())
		return true
	})
	want := []string{"document", "section", "ulist", "list_item"}
	if len(contexts) != len(want) {
		t.Fatalf("Walk() = %v", contexts)
	}
	for i := range want {
		if contexts[i] != want[i] {
			t.Fatalf("Walk() = %v, want %v", contexts, want)
		}
	}
	if DocumentOf(item) != doc || FindSection(item) != sec {
		t.Fatalf("ancestor lookups failed")
	}
}
