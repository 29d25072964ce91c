package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

func firstBlock(t *testing.T, doc *ast.Document) *ast.Block {
	t.Helper()
	blocks := doc.Blocks()
	if len(blocks) == 0 {
		t.Fatalf("document has no blocks")
	}
	b, ok := blocks[0].(*ast.Block)
	if !ok {
		t.Fatalf("first node is %T, want *ast.Block", blocks[0])
	}
	return b
}

func TestParse_FenceClosesOnIdenticalFence(t *testing.T) {
	doc := parse(t, "....\nliteral\n.....\nstill literal\n....\n", Options{})
	b := firstBlock(t, doc)
	if b.BlockKind != interfaces.BlockLiteral {
		t.Fatalf("kind = %v", b.BlockKind)
	}
	if got := b.Lines(); len(got) != 3 || got[1] != "....." {
		t.Fatalf("lines = %q", got)
	}
	if len(doc.Blocks()) != 1 {
		t.Fatalf("expected a single block, got %d", len(doc.Blocks()))
	}
}

func TestParse_UnterminatedBlock(t *testing.T) {
	doc := parse(t, "====\nnever closed\n", Options{})
	if !hasDiagnostic(doc, diagnostics.CodeUnterminatedBlock) {
		t.Fatalf("expected an unterminated block warning")
	}
	b := firstBlock(t, doc)
	if b.BlockKind != interfaces.BlockExample || b.Content() != "never closed" {
		t.Fatalf("block = %v %q", b.BlockKind, b.Content())
	}
}

func TestParse_ParagraphSubstitutions(t *testing.T) {
	doc := parse(t, ":product: Widget\n\nThe *{product}* is < 10 cm.\n", Options{})
	got := firstBlock(t, doc).Content()
	if got != "The <strong>Widget</strong> is &lt; 10 cm." {
		t.Fatalf("content = %q", got)
	}
}

func TestParse_Admonitions(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		style string
		body  string
	}{
		{name: "paragraph label", src: "NOTE: Remember this.", style: "NOTE", body: "Remember this."},
		{name: "style attribute", src: "[TIP]\nUse the flag.", style: "TIP", body: "Use the flag."},
		{name: "delimited", src: "[WARNING]\n====\nHot surface.\n====", style: "WARNING", body: "Hot surface."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := firstBlock(t, parse(t, tt.src, Options{}))
			if b.BlockKind != interfaces.BlockAdmonition {
				t.Fatalf("kind = %v", b.BlockKind)
			}
			if b.Style != tt.style {
				t.Fatalf("style = %q", b.Style)
			}
			if name, _ := b.Attr("name"); name != strings.ToLower(tt.style) {
				t.Fatalf("name attr = %q", name)
			}
			if b.Content() != tt.body {
				t.Fatalf("content = %q", b.Content())
			}
		})
	}
}

func TestParse_SourceLanguage(t *testing.T) {
	tests := []struct {
		name string
		src  string
		lang string
	}{
		{name: "positional", src: "[source,go]\n----\nfmt.Println(1)\n----", lang: "go"},
		{name: "fenced", src: "```ruby\nputs 1\n```", lang: "ruby"},
		{name: "document default", src: ":source-language: python\n\n[source]\n----\nprint(1)\n----", lang: "python"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := firstBlock(t, parse(t, tt.src, Options{}))
			if b.BlockKind != interfaces.BlockListing || b.Style != "source" {
				t.Fatalf("kind = %v style = %q", b.BlockKind, b.Style)
			}
			if lang, _ := b.Attr("language"); lang != tt.lang {
				t.Fatalf("language = %q", lang)
			}
		})
	}
}

func TestParse_VerbatimKeepsMarkup(t *testing.T) {
	b := firstBlock(t, parse(t, "----\n*not bold* {attr}\n----\n", Options{}))
	if b.Content() != "*not bold* {attr}" {
		t.Fatalf("content = %q", b.Content())
	}
}

func TestParse_SubsAttribute(t *testing.T) {
	doc := parse(t, ":v: 1.0\n\n[subs=\"attributes+\"]\n----\nversion {v}\n----\n", Options{})
	if got := firstBlock(t, doc).Content(); got != "version 1.0" {
		t.Fatalf("content = %q", got)
	}

	doc = parse(t, "[subs=\"bogus\"]\ntext\n", Options{})
	if !hasDiagnostic(doc, diagnostics.CodeUnknownSubs) {
		t.Fatalf("expected an unknown substitution warning")
	}
}

func TestParse_ExampleCaptions(t *testing.T) {
	src := ".First\n====\nOne.\n====\n\n.Second\n====\nTwo.\n====\n\n====\nUntitled.\n====\n"
	doc := parse(t, src, Options{})
	blocks := doc.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	want := []string{"Example 1. ", "Example 2. ", ""}
	for i, n := range blocks {
		if got := n.(*ast.Block).Caption; got != want[i] {
			t.Fatalf("block %d caption = %q, want %q", i, got, want[i])
		}
	}
	if got := blocks[1].(*ast.Block).CaptionedTitle(); got != "Example 2. Second" {
		t.Fatalf("captioned title = %q", got)
	}
}

func TestParse_QuoteAttribution(t *testing.T) {
	b := firstBlock(t, parse(t, "[quote,Ada Lovelace,Notes]\n____\nThe engine weaves.\n____\n", Options{}))
	if b.BlockKind != interfaces.BlockQuote {
		t.Fatalf("kind = %v", b.BlockKind)
	}
	if got, _ := b.Attr("attribution"); got != "Ada Lovelace" {
		t.Fatalf("attribution = %q", got)
	}
	if got, _ := b.Attr("citetitle"); got != "Notes" {
		t.Fatalf("citetitle = %q", got)
	}
}

func TestParse_OpenBlockMasquerade(t *testing.T) {
	b := firstBlock(t, parse(t, "[sidebar]\n--\nAside.\n--\n", Options{}))
	if b.BlockKind != interfaces.BlockSidebar {
		t.Fatalf("kind = %v", b.BlockKind)
	}
}

func TestParse_ImageMacro(t *testing.T) {
	doc := parse(t, ":imagesdir: img\n\n.A diagram\nimage::{imagesdir}/flow-chart.png[]\n", Options{})
	b := firstBlock(t, doc)
	if b.BlockKind != interfaces.BlockImage {
		t.Fatalf("kind = %v", b.BlockKind)
	}
	if got, _ := b.Attr("target"); got != "img/flow-chart.png" {
		t.Fatalf("target = %q", got)
	}
	if got, _ := b.Attr("alt"); got != "flow chart" {
		t.Fatalf("alt = %q", got)
	}
}

func TestParse_DelimitedBlocksClose(t *testing.T) {
	fences := []string{"----", "....", "====", "****", "____", "--", "++++", "```"}
	for _, fence := range fences {
		doc := parse(t, fence+"\ncode\n"+fence+"\n\nafter\n", Options{})
		got := blockContents(doc.Blocks())
		if len(got) != 2 || got[0] != "code" || got[1] != "after" {
			t.Fatalf("%s: contents = %q", fence, got)
		}
		if hasDiagnostic(doc, diagnostics.CodeUnterminatedBlock) {
			t.Fatalf("%s: block reported as unterminated", fence)
		}
	}
}

func TestParse_SectionTitleInListAttachment(t *testing.T) {
	doc := parse(t, "* item\n+\n----\n== not a heading\n----\n* item 2\n\n== Real\n\ntext\n", Options{})
	secs := doc.Sections()
	if len(secs) != 1 || secs[0].ID() != "_real" {
		t.Fatalf("expected only the real section, got %d", len(secs))
	}
	list, ok := doc.Blocks()[0].(*ast.List)
	if !ok || list.Len() != 2 {
		t.Fatalf("attached listing must not close the list")
	}
	listing := list.Items()[0].Blocks()[0].(*ast.Block)
	if listing.BlockKind != interfaces.BlockListing || listing.Content() != "== not a heading" {
		t.Fatalf("listing = %s %q", listing.BlockKind, listing.Content())
	}

	doc = parse(t, "* item\n+\n====\n== inside\n====\n", Options{})
	if len(doc.Sections()) != 0 {
		t.Fatalf("example content must not open a section")
	}
	list = doc.Blocks()[0].(*ast.List)
	example := list.Items()[0].Blocks()[0].(*ast.Block)
	heading, ok := example.Blocks()[0].(*ast.Block)
	if !ok || heading.BlockKind != interfaces.BlockFloatingTitle {
		t.Fatalf("expected a floating title inside the example")
	}
}

func TestParse_CommentsDropped(t *testing.T) {
	doc := parse(t, "// note to self\n\n////\nhidden\n////\n\nvisible\n", Options{})
	if got := blockContents(doc.Blocks()); len(got) != 1 || got[0] != "visible" {
		t.Fatalf("contents = %q", got)
	}
}

func TestParse_Includes(t *testing.T) {
	resolver := mapResolver{
		"part.adoc": {"Included text.", "", "== From Include"},
	}
	doc := parse(t, "include::part.adoc[]\n\ninclude::missing.adoc[]\n",
		Options{Source: "guide.adoc"}, WithIncludeResolver(resolver))

	blocks := doc.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("expected paragraph and section, got %d nodes", len(blocks))
	}
	if blocks[0].Content() != "Included text." {
		t.Fatalf("included content = %q", blocks[0].Content())
	}
	sec, ok := blocks[1].(*ast.Section)
	if !ok {
		t.Fatalf("expected section from include, got %T", blocks[1])
	}
	if len(sec.Blocks()) != 1 || !strings.Contains(sec.Blocks()[0].Content(), "Unresolved directive in guide.adoc") {
		t.Fatalf("unresolved include text missing: %v", blockContents(sec.Blocks()))
	}
	if !hasDiagnostic(doc, diagnostics.CodeIncludeUnresolved) {
		t.Fatalf("expected include warning")
	}
}

func TestParse_IncludeWithoutResolver(t *testing.T) {
	doc := parse(t, "include::chapter.adoc[]\n", Options{})
	b := firstBlock(t, doc)
	if !strings.Contains(b.Content(), "chapter.adoc") {
		t.Fatalf("content = %q", b.Content())
	}
	if !hasDiagnostic(doc, diagnostics.CodeIncludeUnresolved) {
		t.Fatalf("expected include warning")
	}
}

func TestParse_IncludeDepth(t *testing.T) {
	resolver := mapResolver{"loop.adoc": {"include::loop.adoc[]"}}
	doc := parse(t, "include::loop.adoc[]\n", Options{MaxIncludeDepth: 3}, WithIncludeResolver(resolver))
	if !hasDiagnostic(doc, diagnostics.CodeIncludeDepth) {
		t.Fatalf("expected include depth warning")
	}
}

func TestParse_IncludeTags(t *testing.T) {
	resolver := mapResolver{"code.go": {
		"package main",
		"// tag::body[]",
		"func main() {}",
		"// end::body[]",
	}}
	doc := parse(t, "----\ninclude::code.go[tag=body]\n----\n", Options{}, WithIncludeResolver(resolver))
	if got := firstBlock(t, doc).Content(); got != "func main() {}" {
		t.Fatalf("content = %q", got)
	}
}

func TestParse_Conditionals(t *testing.T) {
	src := strings.Join([]string{
		":flag:",
		":level: 2",
		"",
		"ifdef::flag[]",
		"shown",
		"endif::flag[]",
		"",
		"ifndef::flag[]",
		"hidden",
		"endif::[]",
		"",
		"ifdef::flag[inline text]",
		"",
		"ifeval::[{level} > 1]",
		"deep",
		"endif::[]",
		"",
		"ifdef::other,flag[]",
		"any",
		"endif::[]",
		"",
		"ifdef::other+flag[]",
		"all",
		"endif::[]",
	}, "\n")
	doc := parse(t, src, Options{})
	got := strings.Join(blockContents(doc.Blocks()), "|")
	if got != "shown|inline text|deep|any" {
		t.Fatalf("contents = %q", got)
	}
}

func TestParse_ConditionalSeesBodyEntries(t *testing.T) {
	doc := parse(t, "text\n\n:late:\n\nifdef::late[]\nafter\nendif::[]\n", Options{})
	if got := blockContents(doc.Blocks()); len(got) != 2 || got[1] != "after" {
		t.Fatalf("contents = %q", got)
	}
}

func TestParse_UnterminatedConditional(t *testing.T) {
	doc := parse(t, "ifdef::flag[]\nhidden\n", Options{})
	if !hasDiagnostic(doc, diagnostics.CodeUnterminatedIf) {
		t.Fatalf("expected unterminated conditional warning")
	}
}

func TestParse_DuplicateBlockID(t *testing.T) {
	doc := parse(t, "[#dup]\nOne.\n\n[#dup]\nTwo.\n", Options{})
	if !hasDiagnostic(doc, diagnostics.CodeDuplicateID) {
		t.Fatalf("expected duplicate id warning")
	}
}

func TestParse_Xref(t *testing.T) {
	doc := parse(t, "[[target,Target Text]]\n== Heading\n\nSee <<target>>.\n", Options{})
	sec := doc.Sections()[0]
	content := sec.Blocks()[0].Content()
	if !strings.Contains(content, `href="#target"`) || !strings.Contains(content, "Target Text") {
		t.Fatalf("xref content = %q", content)
	}
}

func TestParser_ConcurrentUse(t *testing.T) {
	p := New()
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := p.Parse(context.Background(), "= Doc\n\n== A\n\ntext {counter:c}\n", Options{})
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
	}
}
