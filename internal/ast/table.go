package ast

import (
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// Column is one entry of the table column spec.
type Column struct {
	Number int
	// Width is the relative width from the cols spec (1 when unspecified).
	Width int
	// Percent is Width scaled so the columns add up to 100.
	Percent float64
	// Autowidth is set for "~" widths.
	Autowidth bool
	HAlign    string
	VAlign    string
	Style     string
}

// Table is a parsed table with its column spec and row groups.
type Table struct {
	base

	Format    string
	Separator string
	// Caption is the numbered label of a titled table ("Table 1. ").
	Caption string

	columns []*Column
	head    []*Row
	body    []*Row
	foot    []*Row
}

func NewTable(lineno int) *Table {
	t := &Table{Format: "psv", Separator: "|"}
	t.lineno = lineno
	return t
}

func (t *Table) Kind() interfaces.NodeKind { return interfaces.KindTable }

func (t *Table) Context() string { return "table" }

func (t *Table) Content() string {
	return joinContent(t.Children())
}

func (t *Table) Children() []interfaces.Node {
	rows := t.Rows()
	out := make([]interfaces.Node, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func (t *Table) Columns() []*Column { return append([]*Column(nil), t.columns...) }

func (t *Table) SetColumns(cols []*Column) {
	t.columns = cols
	t.AssignColumnWidths()
}

// AssignColumnWidths converts relative widths to percentages. Rounding
// leftovers go to the last column.
func (t *Table) AssignColumnWidths() {
	total := 0
	for _, c := range t.columns {
		if c.Width <= 0 {
			c.Width = 1
		}
		total += c.Width
	}
	if total == 0 {
		return
	}
	sum := 0.0
	for i, c := range t.columns {
		if i == len(t.columns)-1 {
			c.Percent = float64(int((100-sum)*10000+0.5)) / 10000
			break
		}
		c.Percent = float64(int(float64(c.Width)*100/float64(total)*10000)) / 10000
		sum += c.Percent
	}
}

// Rows returns head, body and foot rows in order.
func (t *Table) Rows() []*Row {
	out := make([]*Row, 0, len(t.head)+len(t.body)+len(t.foot))
	out = append(out, t.head...)
	out = append(out, t.body...)
	return append(out, t.foot...)
}

func (t *Table) Head() []*Row { return append([]*Row(nil), t.head...) }
func (t *Table) Body() []*Row { return append([]*Row(nil), t.body...) }
func (t *Table) Foot() []*Row { return append([]*Row(nil), t.foot...) }

// SetRows assigns the row groups; rows learn their group and parent.
func (t *Table) SetRows(head, body, foot []*Row) {
	for _, group := range []struct {
		name string
		rows []*Row
	}{{"head", head}, {"body", body}, {"foot", foot}} {
		for _, r := range group.rows {
			r.Section = group.name
			r.SetParent(t)
		}
	}
	t.head, t.body, t.foot = head, body, foot
}

// Row is one table row.
type Row struct {
	base

	Section string
	cells   []*Cell
}

func NewRow(lineno int) *Row {
	r := &Row{}
	r.lineno = lineno
	return r
}

func (r *Row) Kind() interfaces.NodeKind { return interfaces.KindRow }

func (r *Row) Context() string { return "row" }

func (r *Row) Content() string {
	parts := make([]string, len(r.cells))
	for i, c := range r.cells {
		parts[i] = c.Content()
	}
	return strings.Join(parts, "\n")
}

func (r *Row) Children() []interfaces.Node {
	out := make([]interfaces.Node, len(r.cells))
	for i, c := range r.cells {
		out[i] = c
	}
	return out
}

func (r *Row) Cells() []*Cell { return append([]*Cell(nil), r.cells...) }

func (r *Row) AppendCell(c *Cell) {
	c.SetParent(r)
	r.cells = append(r.cells, c)
}

// Cell is one table cell. Cells styled "asciidoc" hold a nested document.
type Cell struct {
	base

	Colspan int
	Rowspan int
	Style   string
	HAlign  string
	VAlign  string
	Column  *Column

	text      string
	content   string
	converted bool
	inner     *Document
}

func NewCell(text string, lineno int) *Cell {
	c := &Cell{text: text, Colspan: 1, Rowspan: 1}
	c.lineno = lineno
	return c
}

func (c *Cell) Kind() interfaces.NodeKind { return interfaces.KindCell }

func (c *Cell) Context() string { return "cell" }

// Text returns the cell source text.
func (c *Cell) Text() string { return c.text }

func (c *Cell) SetText(text string) { c.text = text }

func (c *Cell) SetContent(content string) {
	c.content = content
	c.converted = true
}

func (c *Cell) Content() string {
	if c.inner != nil {
		return c.inner.Content()
	}
	if c.converted {
		return c.content
	}
	return c.text
}

// Inner returns the nested document of an asciidoc cell.
func (c *Cell) Inner() *Document { return c.inner }

func (c *Cell) SetInner(doc *Document) {
	c.inner = doc
	if doc != nil {
		doc.SetParent(c)
	}
}

func (c *Cell) Children() []interfaces.Node {
	if c.inner == nil {
		return nil
	}
	return c.inner.Children()
}
