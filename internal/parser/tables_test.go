package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
)

func firstTable(t *testing.T, doc *ast.Document) *ast.Table {
	t.Helper()
	blocks := doc.Blocks()
	if len(blocks) == 0 {
		t.Fatalf("document has no blocks")
	}
	table, ok := blocks[0].(*ast.Table)
	if !ok {
		t.Fatalf("first node is %T, want *ast.Table", blocks[0])
	}
	return table
}

func cellTexts(row *ast.Row) []string {
	var out []string
	for _, c := range row.Cells() {
		out = append(out, c.Content())
	}
	return out
}

func TestParse_TableImplicitHeader(t *testing.T) {
	table := firstTable(t, parse(t, "|===\n|Name |Value\n\n|a |1\n|b |2\n|===\n", Options{}))
	if len(table.Columns()) != 2 {
		t.Fatalf("columns = %d", len(table.Columns()))
	}
	if len(table.Head()) != 1 || len(table.Body()) != 2 {
		t.Fatalf("head = %d body = %d", len(table.Head()), len(table.Body()))
	}
	if got := cellTexts(table.Head()[0]); got[0] != "Name" || got[1] != "Value" {
		t.Fatalf("header cells = %q", got)
	}
	if got, _ := table.Attr("rowcount"); got != "3" {
		t.Fatalf("rowcount = %q", got)
	}
}

func TestParse_TableFlowRows(t *testing.T) {
	table := firstTable(t, parse(t, "[cols=\"3*\"]\n|===\n|a |b\n|c\n|d |e |f\n|===\n", Options{}))
	rows := table.Body()
	if len(rows) != 2 {
		t.Fatalf("expected cells to flow into 2 rows, got %d", len(rows))
	}
	if got := cellTexts(rows[1]); got[0] != "d" || got[2] != "f" {
		t.Fatalf("second row = %q", got)
	}
}

func TestParse_TableHeaderThenOneCellPerLine(t *testing.T) {
	src := "[cols=\"1,1\"]\n|===\n|Col A |Col B\n\n|a\n|b\n|c\n|d\n|===\n"
	table := firstTable(t, parse(t, src, Options{}))
	if len(table.Head()) != 1 {
		t.Fatalf("head = %d", len(table.Head()))
	}
	rows := table.Body()
	if len(rows) != 2 {
		t.Fatalf("expected 2 body rows, got %d", len(rows))
	}
	if got := cellTexts(rows[0]); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("first row = %q", got)
	}
	if rows[0].Lineno() != 5 || rows[1].Lineno() != 7 {
		t.Fatalf("row lines = %d, %d", rows[0].Lineno(), rows[1].Lineno())
	}
	if got := cellTexts(rows[1]); len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Fatalf("second row = %q", got)
	}
}

func TestParse_TableCellCountMismatch(t *testing.T) {
	src := "|===\n|a |b\n|c\n|d |e |f\n|g |h\n|===\n"
	_, err := New().Parse(context.Background(), src, Options{Source: "rows.adoc"})
	if !errors.Is(err, ErrParseFailed) {
		t.Fatalf("expected ErrParseFailed, got %v", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	lines := pe.Lines()
	if len(lines) != 2 || lines[0] != 3 || lines[1] != 4 {
		t.Fatalf("problem lines = %v, want [3 4]", lines)
	}
	for _, p := range pe.Problems {
		if p.Code != ProblemTableCells {
			t.Fatalf("problem code = %q", p.Code)
		}
	}
	if pe.Source != "rows.adoc" {
		t.Fatalf("source = %q", pe.Source)
	}
}

func TestParse_TableTrailingPartialRow(t *testing.T) {
	_, err := New().Parse(context.Background(), "[cols=\"2\"]\n|===\n|a |b |c\n|===\n", Options{})
	var pe *ParseError
	if !errors.As(err, &pe) || len(pe.Problems) != 1 || pe.Problems[0].Line != 3 {
		t.Fatalf("expected one problem at line 3, got %v", err)
	}
}

func TestParse_TableSpans(t *testing.T) {
	src := "[cols=\"3\"]\n|===\n2+|wide |c\n.2+|tall |x |y\n|z |w\n|===\n"
	table := firstTable(t, parse(t, src, Options{}))
	rows := table.Body()
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	wide := rows[0].Cells()[0]
	if wide.Colspan != 2 {
		t.Fatalf("colspan = %d", wide.Colspan)
	}
	if tall := rows[1].Cells()[0]; tall.Rowspan != 2 {
		t.Fatalf("rowspan = %d", tall.Rowspan)
	}
	if got := len(rows[2].Cells()); got != 2 {
		t.Fatalf("row under a rowspan should hold 2 cells, got %d", got)
	}
}

func TestParse_TableColumnSpecs(t *testing.T) {
	table := firstTable(t, parse(t, "[cols=\"1,^2m,>3\"]\n|===\n|a |b |c\n|===\n", Options{}))
	cols := table.Columns()
	if len(cols) != 3 {
		t.Fatalf("columns = %d", len(cols))
	}
	if cols[1].HAlign != "center" || cols[1].Style != "monospaced" || cols[2].HAlign != "right" {
		t.Fatalf("column specs = %+v %+v", cols[1], cols[2])
	}
	if cols[2].Percent <= cols[0].Percent {
		t.Fatalf("widths not proportional: %v %v", cols[0].Percent, cols[2].Percent)
	}
}

func TestParse_TableEscapedSeparator(t *testing.T) {
	table := firstTable(t, parse(t, "|===\n|a \\| b |c\n|===\n", Options{}))
	if got := table.Body()[0].Cells()[0].Text(); got != "a | b" {
		t.Fatalf("cell text = %q", got)
	}
}

func TestParse_TableCSV(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "format attribute", src: "[format=csv]\n|===\na,\"b,c\"\nd,e\n|===\n"},
		{name: "comma fence", src: ",===\na,\"b,c\"\nd,e\n,===\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := firstTable(t, parse(t, tt.src, Options{}))
			rows := table.Rows()
			if len(rows) != 2 {
				t.Fatalf("rows = %d", len(rows))
			}
			if got := rows[0].Cells()[1].Text(); got != "b,c" {
				t.Fatalf("quoted field = %q", got)
			}
		})
	}
}

func TestParse_TableDSV(t *testing.T) {
	table := firstTable(t, parse(t, ":===\nroot:x:0\nuser\\:name:y:1\n:===\n", Options{}))
	rows := table.Rows()
	if len(rows) != 2 || len(table.Columns()) != 3 {
		t.Fatalf("rows = %d columns = %d", len(rows), len(table.Columns()))
	}
	if got := rows[1].Cells()[0].Text(); got != "user:name" {
		t.Fatalf("escaped delimiter = %q", got)
	}
}

func TestParse_TableEmpty(t *testing.T) {
	doc := parse(t, "|===\n|===\n", Options{})
	if !hasDiagnostic(doc, diagnostics.CodeTableEmpty) {
		t.Fatalf("expected empty table warning")
	}
}

func TestParse_TableCaption(t *testing.T) {
	table := firstTable(t, parse(t, ".Prices\n|===\n|a |b\n|===\n", Options{}))
	if table.Caption != "Table 1. " {
		t.Fatalf("caption = %q", table.Caption)
	}
}

func TestParse_TableFooterOption(t *testing.T) {
	table := firstTable(t, parse(t, "[%footer]\n|===\n|a |b\n|c |d\n|sum |e\n|===\n", Options{}))
	if len(table.Foot()) != 1 || table.Foot()[0].Cells()[0].Text() != "sum" {
		t.Fatalf("footer rows = %d", len(table.Foot()))
	}
}

func TestParse_AsciidocCell(t *testing.T) {
	src := ":who: team\n\n[cols=\"1a,1\"]\n|===\n|* one\n* {who}\n|plain *text*\n|===\n"
	table := firstTable(t, parse(t, src, Options{}))
	cells := table.Body()[0].Cells()
	inner := cells[0].Inner()
	if inner == nil {
		t.Fatalf("asciidoc cell should hold a nested document")
	}
	list, ok := inner.Blocks()[0].(*ast.List)
	if !ok || list.Len() != 2 {
		t.Fatalf("nested content = %T", inner.Blocks()[0])
	}
	if got := list.Items()[1].Text(); got != "team" {
		t.Fatalf("nested attribute reference = %q", got)
	}
	if got := cells[1].Content(); got != "plain <strong>text</strong>" {
		t.Fatalf("plain cell content = %q", got)
	}
}

func TestParse_AsciidocCellSharesFootnotes(t *testing.T) {
	src := "Intro.footnote:n[Shared note.]\n\n[cols=\"1a\"]\n|===\n|Cell.footnote:n[]\n|===\n"
	doc := parse(t, src, Options{})
	if doc.Footnotes().Len() != 1 {
		t.Fatalf("footnotes = %d", doc.Footnotes().Len())
	}
}

func TestParse_CaptionCountersVisibleInBody(t *testing.T) {
	src := ".Data\n|===\n|a\n|===\n\nSee table {table-number}.\n\n.Sample\n====\ninside\n====\n\nExample {example-number}.\n"
	doc := parse(t, src, Options{})
	if table := firstTable(t, doc); table.Caption != "Table 1. " {
		t.Fatalf("caption = %q", table.Caption)
	}
	got := blockContents(doc.Blocks())
	if len(got) != 4 || got[1] != "See table 1." || got[3] != "Example 1." {
		t.Fatalf("contents = %q", got)
	}
}
