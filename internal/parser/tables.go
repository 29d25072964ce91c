package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/internal/lexer"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

var (
	cellSpecRx = regexp.MustCompile(`^(?:(\d+(?:\.\d*)?|(?:\d*\.)?\d+)([*+]))?([<^>])?(?:\.([<^>]))?([adehlmsv])?$`)
	colSpecRx  = regexp.MustCompile(`^(?:(\d+)\*)?([<^>])?(?:\.([<^>]))?(\d+%?|~)?([adehlmsv])?$`)
)

var cellStyles = map[byte]string{
	'a': "asciidoc",
	'd': "",
	'e': "emphasis",
	'h': "header",
	'l': "literal",
	'm': "monospaced",
	's': "strong",
	'v': "verse",
}

var (
	halignNames = map[string]string{"<": "left", "^": "center", ">": "right"}
	valignNames = map[string]string{"<": "top", "^": "middle", ">": "bottom"}
)

// cellSpec is the prefix written before a cell separator ("2+", "3*",
// ".2+^.>s").
type cellSpec struct {
	repeat  int
	colspan int
	rowspan int
	halign  string
	valign  string
	style   string
	styled  bool
}

func defaultCellSpec() cellSpec {
	return cellSpec{repeat: 1, colspan: 1, rowspan: 1}
}

// rawCell is cell text split from the table source before rows are built.
type rawCell struct {
	text string
	spec cellSpec
	line int
	// index is the position of the cell's first line within the table body.
	index int
	// startsLine is set when the cell separator opens its source line.
	startsLine bool
}

// parseTable builds a table. The opening fence was consumed.
func (st *state) parseTable(r *reader, sig lexer.Signature, open line, meta *metadata) interfaces.Node {
	t := ast.NewTable(open.no)
	st.claim(t)
	st.applyMetadata(t, meta)
	st.registerID(t, open.no)
	lines := st.readUntilFence(r, sig.Fence, open.no, "table")
	t.Format, t.Separator = st.tableFormat(sig.Fence, t)

	explicit := st.explicitColumns(t)

	var groups [][]rawCell
	strict := true
	switch t.Format {
	case "csv", "tsv":
		groups = st.splitCSV(lines, t.Separator)
	case "dsv":
		groups = st.splitDSV(lines, t.Separator)
	default:
		cells := expandRepeats(st.splitPSV(lines, t.Separator))
		groups, strict = groupPSV(cells, len(explicit))
	}

	if len(groups) == 0 {
		st.warn(open.no, diagnostics.CodeTableEmpty, "table has no cells")
		t.SetColumns(explicit)
		t.Caption = st.caption(t, "table")
		return t
	}

	columns := explicit
	if len(columns) == 0 {
		ncols := 0
		for _, rc := range groups[0] {
			ncols += rc.spec.colspan
		}
		columns = plainColumns(ncols)
	}
	t.SetColumns(columns)

	var rows []*ast.Row
	if strict {
		rows = st.strictRows(groups, columns, t.Format == "psv")
	} else {
		rows = st.flowRows(groups[0], columns)
	}

	var head, foot []*ast.Row
	body := rows
	if len(body) > 0 && st.hasHeader(t, lines, groups[0], rows[0]) {
		head, body = body[:1], body[1:]
	}
	if len(body) > 0 && t.HasOption("footer") {
		body, foot = body[:len(body)-1], body[len(body)-1:]
	}
	for _, row := range head {
		for _, cell := range row.Cells() {
			if cell.Style == "asciidoc" {
				cell.Style = ""
			}
		}
	}
	t.SetRows(head, body, foot)
	t.SetAttr("colcount", strconv.Itoa(len(columns)))
	t.SetAttr("rowcount", strconv.Itoa(len(rows)))
	t.Caption = st.caption(t, "table")

	for _, row := range append(body, foot...) {
		for _, cell := range row.Cells() {
			if cell.Style == "asciidoc" {
				st.parseCellDocument(cell)
			}
		}
	}
	return t
}

// tableFormat resolves the data format and separator from the fence and the
// format and separator attributes.
func (st *state) tableFormat(fence string, t *ast.Table) (string, string) {
	format, sep := "psv", "|"
	switch fence[0] {
	case '!':
		sep = "!"
	case ',':
		format, sep = "csv", ","
	case ':':
		format, sep = "dsv", ":"
	}
	if f, ok := t.Attr("format"); ok {
		switch f = strings.ToLower(strings.TrimSpace(f)); f {
		case "psv", "csv", "dsv", "tsv":
			if f != format {
				format = f
				sep = map[string]string{"psv": "|", "csv": ",", "dsv": ":", "tsv": "\t"}[f]
			}
		default:
			st.warn(t.Lineno(), diagnostics.CodeInvalidAttribute, "unknown table format: %s", f)
		}
	}
	if s, ok := t.Attr("separator"); ok && s != "" {
		if s == `\t` {
			s = "\t"
		}
		sep = s
	}
	return format, sep
}

// explicitColumns builds the columns of the cols attribute. It returns nil
// when the attribute is absent or invalid.
func (st *state) explicitColumns(t *ast.Table) []*ast.Column {
	spec, ok := t.Attr("cols")
	if !ok || strings.TrimSpace(spec) == "" {
		return nil
	}
	cols, err := parseCols(spec)
	if err != nil {
		st.warn(t.Lineno(), diagnostics.CodeInvalidAttribute, "invalid table cols attribute %q: %v", spec, err)
		return nil
	}
	return cols
}

func plainColumns(n int) []*ast.Column {
	cols := make([]*ast.Column, n)
	for i := range cols {
		cols[i] = &ast.Column{Number: i + 1, Width: 1, HAlign: "left", VAlign: "top"}
	}
	return cols
}

// parseCols parses a cols spec: a column count or a comma separated list of
// "[N*][halign][.valign][width][style]" entries.
func parseCols(spec string) ([]*ast.Column, error) {
	spec = strings.TrimSpace(spec)
	if n, err := strconv.Atoi(spec); err == nil {
		if n <= 0 {
			return nil, fmt.Errorf("column count must be positive")
		}
		return plainColumns(n), nil
	}
	var cols []*ast.Column
	for _, part := range strings.Split(strings.ReplaceAll(spec, ";", ","), ",") {
		part = strings.TrimSpace(part)
		m := colSpecRx.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("invalid column spec %q", part)
		}
		repeat := 1
		if m[1] != "" {
			repeat, _ = strconv.Atoi(m[1])
		}
		for i := 0; i < repeat; i++ {
			col := &ast.Column{Number: len(cols) + 1, Width: 1, HAlign: "left", VAlign: "top"}
			if m[2] != "" {
				col.HAlign = halignNames[m[2]]
			}
			if m[3] != "" {
				col.VAlign = valignNames[m[3]]
			}
			switch w := m[4]; {
			case w == "~":
				col.Autowidth = true
			case w != "":
				col.Width, _ = strconv.Atoi(strings.TrimSuffix(w, "%"))
			}
			if m[5] != "" {
				col.Style = cellStyles[m[5][0]]
			}
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns")
	}
	return cols, nil
}

// separatorRx matches the separator, capturing a preceding backslash so
// escaped separators can be skipped.
func (st *state) separatorRx(sep string) *regexp.Regexp {
	return st.p.patterns.MustCompile(`(\\)?` + regexp.QuoteMeta(sep))
}

// splitUnescaped splits text at every separator not preceded by a backslash.
func splitUnescaped(text string, rx *regexp.Regexp) []string {
	var pieces []string
	start := 0
	for _, m := range rx.FindAllStringSubmatchIndex(text, -1) {
		if m[2] >= 0 {
			continue
		}
		pieces = append(pieces, text[start:m[0]])
		start = m[1]
	}
	return append(pieces, text[start:])
}

// splitPSV splits prefix-separated cells. The text before a separator may
// end with the spec of the cell that follows it.
func (st *state) splitPSV(lines []line, sep string) []rawCell {
	rx := st.separatorRx(sep)
	var (
		cells []rawCell
		cur   *rawCell
		buf   strings.Builder
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.text = strings.ReplaceAll(strings.TrimSpace(buf.String()), `\`+sep, sep)
		cells = append(cells, *cur)
		buf.Reset()
	}
	for idx, ln := range lines {
		pieces := splitUnescaped(ln.text, rx)
		if cur == nil && len(pieces) == 1 {
			continue
		}
		for i, piece := range pieces {
			last := i == len(pieces)-1
			spec, hasSpec := defaultCellSpec(), false
			if !last {
				piece, spec, hasSpec = splitSpec(piece, i == 0)
			}
			if cur != nil {
				if i == 0 {
					buf.WriteByte('\n')
				}
				buf.WriteString(piece)
			}
			if last {
				continue
			}
			flush()
			if !hasSpec {
				spec = defaultCellSpec()
			}
			cur = &rawCell{spec: spec, line: ln.no, index: idx, startsLine: i == 0 && strings.TrimSpace(piece) == ""}
		}
	}
	flush()
	return cells
}

// splitSpec separates a trailing cell spec from piece. Mid-line the spec
// must follow whitespace; at the start of a line the whole piece may be
// the spec.
func splitSpec(piece string, atStart bool) (string, cellSpec, bool) {
	if atStart {
		if spec, ok := parseCellSpec(strings.TrimSpace(piece)); ok {
			return "", spec, true
		}
	}
	i := strings.LastIndexAny(piece, " \t")
	if i < 0 {
		return piece, cellSpec{}, false
	}
	if spec, ok := parseCellSpec(piece[i+1:]); ok {
		return piece[:i+1], spec, true
	}
	return piece, cellSpec{}, false
}

func parseCellSpec(token string) (cellSpec, bool) {
	spec := defaultCellSpec()
	if token == "" {
		return spec, false
	}
	m := cellSpecRx.FindStringSubmatch(token)
	if m == nil {
		return spec, false
	}
	if m[1] != "" {
		if m[2] == "*" {
			whole, _, _ := strings.Cut(m[1], ".")
			spec.repeat = atLeastOne(whole)
		} else {
			col, row, _ := strings.Cut(m[1], ".")
			spec.colspan = atLeastOne(col)
			spec.rowspan = atLeastOne(row)
		}
	}
	spec.halign = halignNames[m[3]]
	spec.valign = valignNames[m[4]]
	if m[5] != "" {
		spec.style = cellStyles[m[5][0]]
		spec.styled = true
	}
	return spec, true
}

func atLeastOne(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// expandRepeats duplicates cells written with a "N*" spec.
func expandRepeats(cells []rawCell) []rawCell {
	out := make([]rawCell, 0, len(cells))
	for _, rc := range cells {
		n := rc.spec.repeat
		rc.spec.repeat = 1
		out = append(out, rc)
		for i := 1; i < n; i++ {
			dup := rc
			dup.startsLine = false
			out = append(out, dup)
		}
	}
	return out
}

// groupPSV decides how prefix-separated cells form rows. When the first
// source line holds exactly one row, cells are grouped by the line that
// opens them and rows are checked strictly. Otherwise cells flow into rows
// of the column count and a single group is returned.
func groupPSV(cells []rawCell, explicit int) ([][]rawCell, bool) {
	if len(cells) == 0 {
		return nil, true
	}
	firstLine := 0
	for _, rc := range cells {
		if rc.index != cells[0].index {
			break
		}
		firstLine += rc.spec.colspan
	}
	if explicit > 0 && explicit != firstLine {
		return [][]rawCell{cells}, false
	}
	var groups [][]rawCell
	for i, rc := range cells {
		if i == 0 || rc.startsLine {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], rc)
	}
	return groups, true
}

// strictRows builds rows from line groups. With join set, consecutive
// groups that leave columns free are combined until they fill the row, so a
// row may be written one cell per line. A group that would overfill the
// pending row closes it short; every short or overfilled row is a fatal
// problem at the line of the group that made it so.
func (st *state) strictRows(groups [][]rawCell, columns []*ast.Column, join bool) []*ast.Row {
	ncols := len(columns)
	spans := make([]int, ncols)
	rows := make([]*ast.Row, 0, len(groups))
	var (
		row   *ast.Row
		used  []bool
		next  []int
		slots int
		col   int
	)
	open := func(lineno int) {
		row = ast.NewRow(lineno)
		used = make([]bool, ncols)
		next = make([]int, ncols)
		slots, col = 0, 0
		for c := range used {
			if spans[c] > 0 {
				used[c] = true
				slots++
			}
		}
	}
	closeRow := func(lineno int) {
		if slots != ncols {
			st.problem(lineno, 0, ProblemTableCells,
				fmt.Sprintf("table row has %d cells, expected %d", slots, ncols))
		}
		advanceSpans(spans, next)
		rows = append(rows, row)
		row = nil
	}
	for _, group := range groups {
		width := 0
		for _, rc := range group {
			width += rc.spec.colspan
		}
		if row != nil && slots+width > ncols {
			closeRow(row.Lineno())
		}
		if row == nil {
			open(group[0].line)
		}
		for _, rc := range group {
			for col < ncols && used[col] {
				col++
			}
			row.AppendCell(st.newCell(rc, columnAt(columns, col)))
			for k := 0; k < rc.spec.colspan && col+k < ncols; k++ {
				used[col+k] = true
				next[col+k] = rc.spec.rowspan - 1
			}
			col += rc.spec.colspan
			slots += rc.spec.colspan
		}
		if !join || slots >= ncols {
			closeRow(group[0].line)
		}
	}
	if row != nil {
		closeRow(row.Lineno())
	}
	return rows
}

// flowRows fills rows of the column count from a cell stream. A trailing
// incomplete row is a fatal problem.
func (st *state) flowRows(cells []rawCell, columns []*ast.Column) []*ast.Row {
	ncols := len(columns)
	spans := make([]int, ncols)
	var (
		rows  []*ast.Row
		row   *ast.Row
		used  []bool
		next  []int
		slots int
		col   int
	)
	open := func(lineno int) {
		row = ast.NewRow(lineno)
		used = make([]bool, ncols)
		next = make([]int, ncols)
		slots, col = 0, 0
		for c := range used {
			if spans[c] > 0 {
				used[c] = true
				slots++
			}
		}
	}
	closeRow := func() {
		advanceSpans(spans, next)
		rows = append(rows, row)
		row = nil
	}
	for _, rc := range cells {
		if row == nil {
			open(rc.line)
		}
		for col < ncols && used[col] {
			col++
		}
		if slots+rc.spec.colspan > ncols {
			st.warn(rc.line, diagnostics.CodeTableSpanOverflow, "table cell spans past the last column")
		}
		row.AppendCell(st.newCell(rc, columnAt(columns, col)))
		for k := 0; k < rc.spec.colspan && col+k < ncols; k++ {
			used[col+k] = true
			next[col+k] = rc.spec.rowspan - 1
		}
		col += rc.spec.colspan
		slots += rc.spec.colspan
		if slots >= ncols {
			closeRow()
		}
	}
	if row != nil {
		st.problem(row.Lineno(), 0, ProblemTableCells,
			fmt.Sprintf("table row has %d cells, expected %d", slots, ncols))
		closeRow()
	}
	return rows
}

func advanceSpans(spans, next []int) {
	for c := range spans {
		if spans[c] > 0 {
			spans[c]--
		}
		if next[c] > 0 {
			spans[c] = next[c]
		}
	}
}

func columnAt(columns []*ast.Column, i int) *ast.Column {
	if i < len(columns) {
		return columns[i]
	}
	return nil
}

func (st *state) newCell(rc rawCell, col *ast.Column) *ast.Cell {
	cell := ast.NewCell(rc.text, rc.line)
	cell.Colspan = rc.spec.colspan
	cell.Rowspan = rc.spec.rowspan
	cell.Column = col
	if col != nil {
		cell.HAlign, cell.VAlign, cell.Style = col.HAlign, col.VAlign, col.Style
	}
	if rc.spec.halign != "" {
		cell.HAlign = rc.spec.halign
	}
	if rc.spec.valign != "" {
		cell.VAlign = rc.spec.valign
	}
	if rc.spec.styled {
		cell.Style = rc.spec.style
	}
	if cell.Colspan > 1 {
		cell.SetAttr("colspan", strconv.Itoa(cell.Colspan))
	}
	if cell.Rowspan > 1 {
		cell.SetAttr("rowspan", strconv.Itoa(cell.Rowspan))
	}
	return cell
}

// hasHeader reports whether the first row is a header: forced by the header
// option, or implicit when the first line holds the whole row and a blank
// line follows it.
func (st *state) hasHeader(t *ast.Table, lines []line, first []rawCell, row *ast.Row) bool {
	if t.HasOption("noheader") {
		return false
	}
	if t.HasOption("header") {
		return true
	}
	if len(first) == 0 {
		return false
	}
	index := first[0].index
	for _, rc := range first[:min(len(first), len(row.Cells()))] {
		if rc.index != index {
			return false
		}
	}
	return index+1 < len(lines) && strings.TrimSpace(lines[index+1].text) == ""
}

// splitCSV reads comma or tab separated records; each record is one row.
func (st *state) splitCSV(lines []line, sep string) [][]rawCell {
	if len(lines) == 0 {
		return nil
	}
	comma, size := utf8.DecodeRuneInString(sep)
	if size != len(sep) {
		st.warn(lines[0].no, diagnostics.CodeInvalidAttribute, "csv separator must be a single character, using %q", string(comma))
	}
	cr := csv.NewReader(strings.NewReader(strings.Join(texts(lines), "\n")))
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var records [][]rawCell
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records
		}
		if err != nil {
			var pe *csv.ParseError
			lineno := lines[0].no
			column := 0
			if errors.As(err, &pe) && pe.Line > 0 && pe.Line <= len(lines) {
				lineno, column = lines[pe.Line-1].no, pe.Column
			}
			st.problem(lineno, column, ProblemTableCSV, err.Error())
			return records
		}
		cells := make([]rawCell, len(record))
		for i, field := range record {
			at, _ := cr.FieldPos(i)
			idx := min(max(at-1, 0), len(lines)-1)
			cells[i] = rawCell{
				text:       strings.TrimSpace(field),
				spec:       defaultCellSpec(),
				line:       lines[idx].no,
				index:      idx,
				startsLine: i == 0,
			}
		}
		records = append(records, cells)
	}
}

// splitDSV reads delimiter separated lines; "\:" escapes the delimiter.
func (st *state) splitDSV(lines []line, sep string) [][]rawCell {
	rx := st.separatorRx(sep)
	var records [][]rawCell
	for idx, ln := range lines {
		if strings.TrimSpace(ln.text) == "" {
			continue
		}
		pieces := splitUnescaped(ln.text, rx)
		cells := make([]rawCell, len(pieces))
		for i, piece := range pieces {
			cells[i] = rawCell{
				text:       strings.ReplaceAll(strings.TrimSpace(piece), `\`+sep, sep),
				spec:       defaultCellSpec(),
				line:       ln.no,
				index:      idx,
				startsLine: i == 0,
			}
		}
		records = append(records, cells)
	}
	return records
}

// parseCellDocument parses an asciidoc cell into a nested document that
// inherits the attributes in effect at the table.
func (st *state) parseCellDocument(cell *ast.Cell) {
	nested := ast.NewNestedDocument(st.doc)
	sub := st.nestedState(nested)
	var lines []line
	for i, text := range strings.Split(cell.Text(), "\n") {
		lines = append(lines, line{text: text, no: cell.Lineno() + i})
	}
	sub.parseSection(newReader(lines), nested, -1, nil)
	cell.SetInner(nested)
	st.cells[cell] = sub
}
