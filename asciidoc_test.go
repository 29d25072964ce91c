package asciidoc_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	asciidoc "github.com/goliatone/go-asciidoc"
	"github.com/goliatone/go-asciidoc/internal/commands/fixtures"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
	"github.com/goliatone/go-command/dispatcher"
	goerrors "github.com/goliatone/go-errors"
)

func newEngine(t *testing.T, cfg asciidoc.Config, opts ...asciidoc.Option) *asciidoc.Engine {
	t.Helper()
	engine, err := asciidoc.New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return engine
}

func contents(doc *asciidoc.Document) []string {
	var out []string
	for _, n := range doc.Blocks() {
		out = append(out, n.Content())
	}
	return out
}

func hasCode(doc *asciidoc.Document, code string) bool {
	for _, d := range doc.Diagnostics() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestEngine_Parse(t *testing.T) {
	engine := newEngine(t, asciidoc.DefaultConfig())
	doc, err := engine.Parse(context.Background(), "= Guide\n\n== Install\n\nRun *it*.\n", asciidoc.ParseOptions{Source: "guide.adoc"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Title() != "Guide" || doc.Doctype() != "article" {
		t.Fatalf("title = %q doctype = %q", doc.Title(), doc.Doctype())
	}
	secs := doc.Sections()
	if len(secs) != 1 || secs[0].ID() != "_install" {
		t.Fatalf("sections = %v", secs)
	}
	var paragraphs []string
	asciidoc.Walk(doc, func(n asciidoc.Node) bool {
		if b, ok := n.(*asciidoc.Block); ok && b.BlockKind == interfaces.BlockParagraph {
			paragraphs = append(paragraphs, b.Content())
		}
		return true
	})
	if len(paragraphs) != 1 || paragraphs[0] != "Run <strong>it</strong>." {
		t.Fatalf("paragraphs = %q", paragraphs)
	}
}

func TestEngine_DocumentCache(t *testing.T) {
	engine := newEngine(t, asciidoc.DefaultConfig())
	ctx := context.Background()
	src := "= Cached\n\ntext\n"

	first, err := engine.Parse(ctx, src, asciidoc.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	second, _ := engine.Parse(ctx, src, asciidoc.ParseOptions{})
	if first != second || engine.CachedDocuments() != 1 {
		t.Fatalf("expected a cache hit, cached = %d", engine.CachedDocuments())
	}

	other, _ := engine.Parse(ctx, src, asciidoc.ParseOptions{Attributes: map[string]string{"x": "1"}})
	if other == first {
		t.Fatalf("different attributes must not share a cache entry")
	}
	fresh, _ := engine.Parse(ctx, src, asciidoc.ParseOptions{NoCache: true})
	if fresh == first {
		t.Fatalf("NoCache should parse again")
	}

	engine.Purge()
	if engine.CachedDocuments() != 0 {
		t.Fatalf("purge left %d documents", engine.CachedDocuments())
	}
}

func TestEngine_CacheDisabled(t *testing.T) {
	cfg := asciidoc.DefaultConfig()
	cfg.Cache.Enabled = false
	engine := newEngine(t, cfg)

	a, _ := engine.Parse(context.Background(), "text", asciidoc.ParseOptions{})
	b, _ := engine.Parse(context.Background(), "text", asciidoc.ParseOptions{})
	if a == nil || a == b || engine.CachedDocuments() != 0 {
		t.Fatalf("cache should be disabled")
	}
}

func TestEngine_ParseError(t *testing.T) {
	engine := newEngine(t, asciidoc.DefaultConfig())
	_, err := engine.Parse(context.Background(), "[cols=\"2\"]\n|===\n|a |b |c\n|===\n", asciidoc.ParseOptions{Source: "t.adoc"})
	if !errors.Is(err, asciidoc.ErrParseFailed) {
		t.Fatalf("expected ErrParseFailed, got %v", err)
	}
	var pe *asciidoc.ParseError
	if !errors.As(err, &pe) || len(pe.Problems) != 1 {
		t.Fatalf("expected a single problem, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		t.Fatalf("expected bad input category, got %v", err)
	}
}

func TestEngine_ConfiguredAttributes(t *testing.T) {
	cfg := asciidoc.DefaultConfig()
	cfg.Parser.Attributes = map[string]string{"product": "Locked"}
	cfg.Parser.IDPrefix = "sec-"
	cfg.Parser.IDSeparator = "-"
	engine := newEngine(t, cfg)

	src := ":product: FromDoc\n:idseparator: .\n\n{product}\n\n== Two Words\n"
	doc, err := engine.Parse(context.Background(), src, asciidoc.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := contents(doc)[0]; got != "Locked" {
		t.Fatalf("configured attribute should be locked, got %q", got)
	}
	if id := doc.Sections()[0].ID(); id != "sec-two.words" {
		t.Fatalf("soft id settings should yield to the document, id = %q", id)
	}
}

func TestEngine_DoctypeFromConfigIsSoft(t *testing.T) {
	cfg := asciidoc.DefaultConfig()
	cfg.Parser.Doctype = "book"
	engine := newEngine(t, cfg)

	doc, _ := engine.Parse(context.Background(), "= Doc\n\ntext\n", asciidoc.ParseOptions{})
	if doc.Doctype() != "book" {
		t.Fatalf("doctype = %q", doc.Doctype())
	}
	doc, _ = engine.Parse(context.Background(), "= Doc\n:doctype: article\n\ntext\n", asciidoc.ParseOptions{})
	if doc.Doctype() != "article" {
		t.Fatalf("document should override the configured doctype, got %q", doc.Doctype())
	}
	doc, _ = engine.Parse(context.Background(), "= Doc\n:doctype: article\n\ntext\n", asciidoc.ParseOptions{Doctype: "book", NoCache: true})
	if doc.Doctype() != "book" {
		t.Fatalf("per call doctype should lock, got %q", doc.Doctype())
	}
}

func TestEngine_FrontMatter(t *testing.T) {
	cfg := asciidoc.DefaultConfig()
	cfg.FrontMatter.Enabled = true
	engine := newEngine(t, cfg)

	src := strings.Join([]string{
		"---",
		"title: Shipping",
		"attributes:",
		"  product: Widget",
		"  icons: image",
		"---",
		"= Doc",
		":icons: font",
		"",
		"{product} uses {icons} icons.",
	}, "\n")
	doc, err := engine.Parse(context.Background(), src, asciidoc.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := contents(doc)[0]; got != "Widget uses font icons." {
		t.Fatalf("content = %q", got)
	}
	if doc.FrontMatter()["title"] != "Shipping" {
		t.Fatalf("front matter = %v", doc.FrontMatter())
	}
	if raw, ok := doc.Attr("front-matter"); !ok || !strings.HasPrefix(raw, "title: Shipping") {
		t.Fatalf("front-matter attribute = %q", raw)
	}
	if doc.Lineno() != 7 {
		t.Fatalf("title line = %d, want 7", doc.Lineno())
	}
}

func TestEngine_FrontMatterDisabledKeepsText(t *testing.T) {
	engine := newEngine(t, asciidoc.DefaultConfig())
	doc, err := engine.Parse(context.Background(), "---\ntitle: x\n---\n\ntext\n", asciidoc.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.FrontMatter() != nil {
		t.Fatalf("front matter should not be read when disabled")
	}
}

func TestEngine_FrontMatterSchema(t *testing.T) {
	cfg := asciidoc.DefaultConfig()
	cfg.FrontMatter.Enabled = true
	cfg.FrontMatter.Schema = map[string]any{
		"type":     "object",
		"required": []any{"title"},
	}
	var reported []interfaces.Diagnostic
	engine := newEngine(t, cfg, asciidoc.WithDiagnosticSink(interfaces.DiagnosticFunc(func(d interfaces.Diagnostic) {
		reported = append(reported, d)
	})))

	doc, err := engine.Parse(context.Background(), "---\ndraft: true\n---\ntext\n", asciidoc.ParseOptions{Source: "post.adoc"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !hasCode(doc, diagnostics.CodeFrontMatterInvalid) {
		t.Fatalf("expected front matter warning, got %v", doc.Diagnostics())
	}
	if len(reported) == 0 || reported[0].Source != "post.adoc" {
		t.Fatalf("sink received %v", reported)
	}
}

func TestEngine_InvalidFrontMatterSchema(t *testing.T) {
	cfg := asciidoc.DefaultConfig()
	cfg.FrontMatter.Enabled = true
	cfg.FrontMatter.Schema = map[string]any{"type": 12}
	if _, err := asciidoc.New(cfg); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestEngine_ParseFile(t *testing.T) {
	fsys := fstest.MapFS{
		"docs/guide.adoc":   {Data: []byte("= Guide\n\ninclude::chapter.adoc[]\n")},
		"docs/chapter.adoc": {Data: []byte("Included text.\n")},
	}
	engine := newEngine(t, asciidoc.DefaultConfig(), asciidoc.WithFS(fsys))

	doc, err := engine.ParseFile(context.Background(), "docs/guide.adoc", asciidoc.ParseOptions{})
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if got := contents(doc); len(got) != 1 || got[0] != "Included text." {
		t.Fatalf("contents = %q", got)
	}
	if doc.Source != "docs/guide.adoc" {
		t.Fatalf("source = %q", doc.Source)
	}
	if got, _ := doc.Attr("docname"); got != "guide" {
		t.Fatalf("docname = %q", got)
	}

	_, err = engine.ParseFile(context.Background(), "docs/missing.adoc", asciidoc.ParseOptions{})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
}

func TestEngine_ParseFileWithoutFilesystem(t *testing.T) {
	engine := newEngine(t, asciidoc.DefaultConfig())
	if _, err := engine.ParseFile(context.Background(), "a.adoc", asciidoc.ParseOptions{}); !errors.Is(err, asciidoc.ErrNoFilesystem) {
		t.Fatalf("expected ErrNoFilesystem, got %v", err)
	}
}

func TestFSResolver(t *testing.T) {
	fsys := fstest.MapFS{
		"docs/part.adoc": {Data: []byte("one\r\ntwo\n")},
		"secret.adoc":    {Data: []byte("nope")},
	}
	r := asciidoc.NewFSResolver(fsys, "docs")

	lines, err := r.ResolveInclude(context.Background(), "part.adoc", nil)
	if err != nil || len(lines) != 2 || lines[1] != "two" {
		t.Fatalf("lines = %q err = %v", lines, err)
	}
	if _, err := r.ResolveInclude(context.Background(), "../../secret.adoc", nil); err == nil {
		t.Fatal("expected escape to be rejected")
	}
	if _, err := r.ResolveInclude(context.Background(), "https://example.com/x.adoc", nil); err == nil {
		t.Fatal("expected remote target to be rejected")
	}
}

func TestEngine_CanceledContext(t *testing.T) {
	engine := newEngine(t, asciidoc.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Parse(ctx, "text", asciidoc.ParseOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEngine_LoggerProviders(t *testing.T) {
	for _, provider := range []string{"console", "gologger"} {
		cfg := asciidoc.DefaultConfig()
		cfg.Features.Logger = true
		cfg.Logging.Provider = provider
		cfg.Logging.Level = "error"
		engine := newEngine(t, cfg)
		if _, err := engine.Parse(context.Background(), "text", asciidoc.ParseOptions{}); err != nil {
			t.Fatalf("%s: Parse() error = %v", provider, err)
		}
	}
}

func TestEngine_RegisterCommands(t *testing.T) {
	engine := newEngine(t, asciidoc.DefaultConfig(), asciidoc.WithFS(fstest.MapFS{
		"a.adoc": {Data: []byte("= From File\n")},
	}))

	var titles []string
	registry := fixtures.NewRecordingRegistry()
	set, err := engine.RegisterCommands(registry, asciidoc.WithCommandResults(func(_ context.Context, doc *asciidoc.Document) {
		titles = append(titles, doc.Title())
	}))
	if err != nil {
		t.Fatalf("RegisterCommands() error = %v", err)
	}

	if len(registry.Handlers) != 2 {
		t.Fatalf("registered %d handlers", len(registry.Handlers))
	}

	sub := dispatcher.SubscribeCommand[asciidoc.ParseDocumentCommand](set.Document)
	t.Cleanup(sub.Unsubscribe)
	if err := dispatcher.Dispatch(context.Background(), asciidoc.ParseDocumentCommand{Content: "= From Bus\n"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := set.File.Execute(context.Background(), asciidoc.ParseFileCommand{Path: "a.adoc"}); err != nil {
		t.Fatalf("execute file command: %v", err)
	}
	if len(titles) != 2 || titles[0] != "From Bus" || titles[1] != "From File" {
		t.Fatalf("titles = %q", titles)
	}

	err = set.Document.Execute(context.Background(), asciidoc.ParseDocumentCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}
