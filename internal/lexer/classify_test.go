package lexer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		line string
		kind Kind
	}{
		{"", KindBlank},
		{"   ", KindBlank},
		{"// a comment", KindComment},
		{"//", KindComment},
		{"/// not a comment", KindText},
		{"////", KindDelimiter},
		{":toc:", KindAttributeEntry},
		{":name: value", KindAttributeEntry},
		{":name!:", KindAttributeEntry},
		{":!name:", KindAttributeEntry},
		{"[[anchor]]", KindBlockAnchor},
		{"[[anchor, Ref Text]]", KindBlockAnchor},
		{"[[[biblio]]]", KindBiblioAnchor},
		{"[source,ruby]", KindBlockAttributes},
		{"[.lead]", KindBlockAttributes},
		{"[#id%header]", KindBlockAttributes},
		{"[]", KindBlockAttributes},
		{".Block title", KindBlockTitle},
		{". list item", KindListItem},
		{"..Not a title", KindText},
		{"= Document Title", KindSectionTitle},
		{"== Section", KindSectionTitle},
		{"====== Level five", KindSectionTitle},
		{"## Markdown", KindSectionTitle},
		{"==", KindText},
		{"====", KindDelimiter},
		{"----", KindDelimiter},
		{"....", KindDelimiter},
		{"____", KindDelimiter},
		{"****", KindDelimiter},
		{"++++", KindDelimiter},
		{"--", KindDelimiter},
		{"```ruby", KindDelimiter},
		{"|===", KindDelimiter},
		{",===", KindDelimiter},
		{"!===", KindDelimiter},
		{"'''", KindThematicBreak},
		{"---", KindThematicBreak},
		{"* * *", KindThematicBreak},
		{"<<<", KindPageBreak},
		{"image::sunset.jpg[Sunset]", KindBlockMacro},
		{"toc::[]", KindBlockMacro},
		{"ifdef::env-github[]", KindDirective},
		{"include::chapter.adoc[]", KindDirective},
		{"+", KindListContinuation},
		{"* item", KindListItem},
		{"** nested", KindListItem},
		{"- dash", KindListItem},
		{"1. first", KindListItem},
		{"b. second", KindListItem},
		{"iv) fourth", KindListItem},
		{"<1> callout", KindListItem},
		{"CPU:: The brain", KindListItem},
		{"Term;;", KindListItem},
		{"NOTE: Heads up", KindAdmonition},
		{"  indented literal", KindLiteralParagraph},
		{"std::vector is a container", KindText},
		{"**bold** at start", KindText},
		{"Plain text", KindText},
	}

	for _, tc := range cases {
		got := Classify(tc.line, Context{})
		if got.Kind != tc.kind {
			t.Fatalf("Classify(%q) = %s, want %s", tc.line, got.Kind, tc.kind)
		}
	}
}

func TestClassify_Fields(t *testing.T) {
	sig := Classify(":foo!:", Context{})
	if sig.Name != "foo" || !sig.Unset {
		t.Fatalf("attribute unset = %+v", sig)
	}

	sig = Classify(":description: A long one", Context{})
	if sig.Name != "description" || sig.Text != "A long one" || sig.Unset {
		t.Fatalf("attribute entry = %+v", sig)
	}

	sig = Classify("=== Third level ===", Context{})
	if sig.Level != 2 || sig.Text != "Third level" {
		t.Fatalf("section = %+v", sig)
	}

	sig = Classify("[[install, Installation]]", Context{})
	if sig.Target != "install" || sig.Reftext != "Installation" {
		t.Fatalf("anchor = %+v", sig)
	}

	sig = Classify("c. third", Context{})
	if sig.List != interfaces.ListOrdered || sig.Family != "a." || sig.Style != "loweralpha" || sig.Ordinal != 3 {
		t.Fatalf("ordered = %+v", sig)
	}

	sig = Classify("IX) nine", Context{})
	if sig.Style != "upperroman" || sig.Ordinal != 9 {
		t.Fatalf("roman = %+v", sig)
	}

	sig = Classify("Hard drive::: Permanent storage", Context{})
	if sig.List != interfaces.ListDescription || sig.Target != "Hard drive" || sig.Marker != ":::" || sig.Text != "Permanent storage" {
		t.Fatalf("description = %+v", sig)
	}

	sig = Classify("```go", Context{})
	if sig.Delimiter != DelimFenced || sig.Language != "go" || sig.Fence != "```" {
		t.Fatalf("fence = %+v", sig)
	}

	sig = Classify("\\include::other.adoc[]", Context{})
	if sig.Kind != KindDirective || !sig.Escaped || sig.Target != "other.adoc" {
		t.Fatalf("escaped directive = %+v", sig)
	}
}

func TestClassify_VerbatimTerminator(t *testing.T) {
	ctx := Context{Verbatim: true, Terminator: "------"}

	if got := Classify("----", ctx); got.Kind != KindText {
		t.Fatalf("shorter fence should be content, got %s", got.Kind)
	}
	if got := Classify("====", ctx); got.Kind != KindText {
		t.Fatalf("different fence should be content, got %s", got.Kind)
	}
	got := Classify("------", ctx)
	if got.Kind != KindDelimiter || got.Delimiter != DelimListing || got.Line != "------" {
		t.Fatalf("terminator not recognised: %+v", got)
	}
	if got := Classify("------  ", ctx); got.Kind != KindDelimiter {
		t.Fatalf("trailing whitespace should not hide the terminator")
	}
}

// Heading-like lines inside an open verbatim block are always text.
func TestClassify_HeadingsSuppressedInsideVerbatim(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	fences := []string{"----", "....", "////", "++++", "```", "-------"}
	words := []string{"not", "a", "heading", "Title", "x", "==", "*"}

	for i := 0; i < 500; i++ {
		level := rng.Intn(6) + 1
		marker := strings.Repeat("=", level)
		if rng.Intn(3) == 0 {
			marker = strings.Repeat("#", level)
		}
		n := rng.Intn(4) + 1
		parts := make([]string, n)
		for j := range parts {
			parts[j] = words[rng.Intn(len(words))]
		}
		line := marker + strings.Repeat(" ", rng.Intn(3)+1) + strings.Join(parts, " ")

		if Classify(line, Context{}).Kind != KindSectionTitle {
			t.Fatalf("precondition: %q should be a heading outside verbatim content", line)
		}
		ctx := Context{Verbatim: true, Terminator: fences[rng.Intn(len(fences))]}
		if got := Classify(line, ctx); got.Kind != KindText {
			t.Fatalf("Classify(%q) inside %q = %s, want text", line, ctx.Terminator, got.Kind)
		}
	}
}

func TestSetextTitle(t *testing.T) {
	cases := []struct {
		title, underline string
		level            int
		ok               bool
	}{
		{"Document Title", "==============", 0, true},
		{"Section", "-------", 1, true},
		{"Section", "--------", 1, true},
		{"Section", "~~~~~~~~~~", 0, false},
		{".Title", "------", 0, false},
		{"* item", "------", 0, false},
		{"Level four", "++++++++++", 4, true},
	}
	for _, tc := range cases {
		level, ok := SetextTitle(tc.title, tc.underline)
		if ok != tc.ok || (ok && level != tc.level) {
			t.Fatalf("SetextTitle(%q, %q) = %d, %v; want %d, %v", tc.title, tc.underline, level, ok, tc.level, tc.ok)
		}
	}
}

func TestKindsOrder(t *testing.T) {
	kinds := Kinds()
	if kinds[0] != KindBlank || kinds[len(kinds)-1] != KindText {
		t.Fatalf("unexpected classification order: %v", kinds)
	}
	pos := map[Kind]int{}
	for i, k := range kinds {
		pos[k] = i
	}
	if pos[KindDelimiter] > pos[KindComment] {
		t.Fatalf("comment fences must be checked before line comments")
	}
	if pos[KindBiblioAnchor] > pos[KindBlockAnchor] {
		t.Fatalf("biblio anchors must be checked before block anchors")
	}
	if pos[KindListItem] > pos[KindLiteralParagraph] {
		t.Fatalf("indented list items must be checked before literal paragraphs")
	}
}
