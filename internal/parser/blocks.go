package parser

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/attributes"
	"github.com/goliatone/go-asciidoc/internal/attrlist"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/internal/lexer"
	"github.com/goliatone/go-asciidoc/internal/sections"
	"github.com/goliatone/go-asciidoc/internal/substitution"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

var titleAnchorRx = regexp.MustCompile(`^(.*?)[ \t]*\[\[([\p{L}_:][\w:.\-]*)(?:,[ \t]*(.+?))?\]\]$`)

// container is a node that accepts child blocks.
type container interface {
	interfaces.Node
	AppendBlock(interfaces.Node)
}

// attributed is the mutable surface shared by every node carrying metadata.
type attributed interface {
	interfaces.Node
	SetID(string)
	SetTitle(string)
	SetAttr(name, value string)
	MergeAttributes(map[string]string)
}

// blockContext tells the block parser where it is running.
type blockContext struct {
	// inList stops paragraphs at list items; set for blocks attached to a
	// list item.
	inList bool
}

// metadata is the buffer of block attribute lines, anchors and the block
// title that precede a block.
type metadata struct {
	attrs   map[string]string
	title   string
	id      string
	reftext string
	line    int
}

func (m *metadata) ensure(lineno int) *metadata {
	if m != nil {
		return m
	}
	return &metadata{attrs: map[string]string{}, line: lineno}
}

func (m *metadata) style() string {
	if m == nil {
		return ""
	}
	return m.attrs["style"]
}

// readMetadata consumes blank lines, comments, attribute entries and the
// metadata lines of the next block. Body attribute entries are applied to
// the live table and queued for replay.
func (st *state) readMetadata(r *reader, meta *metadata) *metadata {
	for {
		ln, ok := r.peek()
		if !ok {
			return meta
		}
		sig := lexer.Classify(ln.text, lexer.Context{})
		switch sig.Kind {
		case lexer.KindBlank, lexer.KindComment:
			r.next()
		case lexer.KindDelimiter:
			if sig.Delimiter != lexer.DelimComment {
				return meta
			}
			r.next()
			st.readUntilFence(r, sig.Fence, ln.no, sig.Delimiter.String())
		case lexer.KindAttributeEntry:
			r.next()
			value := st.entryValue(r, sig.Text)
			if entry, ok := st.applyEntry(ln.no, sig.Name, value, sig.Unset); ok {
				st.pending = append(st.pending, entry)
			}
		case lexer.KindBlockAnchor:
			r.next()
			meta = meta.ensure(ln.no)
			meta.id = sig.Target
			if sig.Reftext != "" {
				meta.reftext = sig.Reftext
			}
		case lexer.KindBlockAttributes:
			r.next()
			meta = meta.ensure(ln.no)
			source := sig.Attrs
			if strings.Contains(source, "{") {
				source = st.subs.Apply(source, attributeSubs)
			}
			attrs := attrlist.Block(source)
			if id, ok := attrs["id"]; ok {
				meta.id = id
				delete(attrs, "id")
			}
			if reftext, ok := attrs["reftext"]; ok {
				meta.reftext = reftext
			}
			meta.attrs = attrlist.Merge(meta.attrs, attrs)
		case lexer.KindBlockTitle:
			r.next()
			meta = meta.ensure(ln.no)
			meta.title = sig.Text
		default:
			return meta
		}
	}
}

// readUntilFence collects lines up to the closing fence, which must be
// identical to the opening one. A missing fence is reported at the opening
// line and the rest of the input becomes the block content.
func (st *state) readUntilFence(r *reader, fence string, openLine int, name string) []line {
	ctx := lexer.Context{Verbatim: true, Terminator: fence}
	var out []line
	for {
		ln, ok := r.next()
		if !ok {
			st.warn(openLine, diagnostics.CodeUnterminatedBlock, "unterminated %s block", name)
			return out
		}
		if lexer.Classify(ln.text, ctx).Kind == lexer.KindDelimiter {
			return out
		}
		out = append(out, ln)
	}
}

func (st *state) parseBody() {
	st.parseSection(st.reader, st.doc, -1, nil)
	st.wrapPreamble()
}

// parseSection reads blocks into parent until a section title at or above
// level. The metadata already read for that title is handed back to the
// caller.
func (st *state) parseSection(r *reader, parent container, level int, meta *metadata) *metadata {
	book := st.doc.Doctype() == "book"
	for {
		meta = st.readMetadata(r, meta)
		ln, ok := r.peek()
		if !ok {
			return nil
		}
		lvl, title, n, isTitle := st.sectionTitle(r, ln)
		if !isTitle {
			if b := st.parseBlock(r, meta, blockContext{}); b != nil {
				parent.AppendBlock(b)
			}
			meta = nil
			continue
		}
		if style := meta.style(); style == "discrete" || style == "float" {
			skip(r, n)
			parent.AppendBlock(st.floatingTitle(lvl, title, ln, meta))
			meta = nil
			continue
		}

		normalized, ok := sections.NormalizeLevel(st.doc.Doctype(), lvl)
		if !ok {
			st.warn(ln.no, diagnostics.CodeLevelZeroSection, "level 0 sections can only be used when doctype is book")
		}
		if level >= 0 && normalized <= level {
			return meta
		}
		skip(r, n)

		expected := level + 1
		if level < 0 {
			expected = 1
			if book && normalized == 0 {
				expected = 0
			}
		}
		if normalized > expected {
			st.warn(ln.no, diagnostics.CodeSectionLevel, "section title out of sequence: expected level %d, got level %d", expected, normalized)
		}

		sec := st.newSection(normalized, title, ln, meta, book)
		parent.AppendBlock(sec)
		meta = st.parseSection(r, sec, normalized, nil)
	}
}

// sectionTitle recognises a one-line or two-line section title at ln.
func (st *state) sectionTitle(r *reader, ln line) (level int, title string, lines int, ok bool) {
	sig := lexer.Classify(ln.text, lexer.Context{})
	if sig.Kind == lexer.KindSectionTitle {
		return sig.Level, sig.Text, 1, true
	}
	if sig.Kind != lexer.KindText {
		return 0, "", 0, false
	}
	under, found := r.peekAhead()
	if !found {
		return 0, "", 0, false
	}
	if lvl, ok := lexer.SetextTitle(ln.text, under.text); ok {
		return lvl, strings.TrimSpace(ln.text), 2, true
	}
	return 0, "", 0, false
}

func skip(r *reader, n int) {
	for i := 0; i < n; i++ {
		r.next()
	}
}

func (st *state) newSection(level int, title string, ln line, meta *metadata, book bool) *ast.Section {
	id, reftext := "", ""
	if m := titleAnchorRx.FindStringSubmatch(title); m != nil && m[1] != "" {
		title, id, reftext = m[1], m[2], m[3]
	}
	sec := ast.NewSection(level, title, ln.no)
	st.claim(sec)
	switch {
	case level == 0:
		sec.Sectname = "part"
	case level == 1 && book:
		sec.Sectname = "chapter"
	}
	if style := strings.ToLower(meta.style()); ast.IsSpecialSectname(style) {
		sec.Sectname = style
		sec.Special = true
	}
	if meta != nil {
		sec.MergeAttributes(meta.attrs)
		if meta.id != "" {
			id = meta.id
		}
		if meta.reftext != "" {
			reftext = meta.reftext
		}
	}
	if reftext != "" {
		sec.SetAttr("reftext", reftext)
	}
	if id != "" {
		sec.SetID(id)
		sec.ExplicitID = true
	}
	return sec
}

// floatingTitle builds a discrete heading. It takes part in the id registry
// like a section but never nests content.
func (st *state) floatingTitle(level int, title string, ln line, meta *metadata) *ast.Block {
	b := st.newBlock(interfaces.BlockFloatingTitle, ln, meta)
	b.SetTitle(title)
	b.SetAttr("level", strconv.Itoa(level))
	if b.ID() == "" && st.table.IsSet("sectids") {
		if id := st.p.engine.GenerateID(title, st.table, st.doc.IDs()); id != "" {
			b.SetID(id)
			st.doc.IDs().Register(id, "", b)
		}
	}
	return b
}

// parseBlocks reads the content of a compound block or list item
// attachment. Section titles become discrete headings.
func (st *state) parseBlocks(r *reader, parent container, bc blockContext) {
	var meta *metadata
	for {
		meta = st.readMetadata(r, meta)
		ln, ok := r.peek()
		if !ok {
			return
		}
		if lvl, title, n, isTitle := st.sectionTitle(r, ln); isTitle {
			skip(r, n)
			parent.AppendBlock(st.floatingTitle(lvl, title, ln, meta))
			meta = nil
			continue
		}
		if b := st.parseBlock(r, meta, bc); b != nil {
			parent.AppendBlock(b)
		}
		meta = nil
	}
}

// parseBlock parses the block starting at the next line.
func (st *state) parseBlock(r *reader, meta *metadata, bc blockContext) interfaces.Node {
	ln, ok := r.peek()
	if !ok {
		return nil
	}
	sig := lexer.Classify(ln.text, lexer.Context{})
	switch sig.Kind {
	case lexer.KindDelimiter:
		r.next()
		if sig.Delimiter == lexer.DelimTable {
			return st.parseTable(r, sig, ln, meta)
		}
		return st.parseDelimited(r, sig, ln, meta)
	case lexer.KindSectionTitle:
		r.next()
		return st.floatingTitle(sig.Level, sig.Text, ln, meta)
	case lexer.KindThematicBreak:
		r.next()
		return st.newBlock(interfaces.BlockRuler, ln, meta)
	case lexer.KindPageBreak:
		r.next()
		return st.newBlock(interfaces.BlockPageBreak, ln, meta)
	case lexer.KindBlockMacro:
		r.next()
		return st.blockMacro(sig, ln, meta)
	case lexer.KindListItem:
		if !paragraphStyles[meta.style()] {
			return st.parseList(r, sig, meta, nil)
		}
	}
	return st.parseParagraph(r, sig, ln, meta, bc)
}

// paragraphStyles force the following lines to be read as a paragraph.
var paragraphStyles = map[string]bool{
	"source": true, "listing": true, "literal": true, "pass": true,
	"verse": true, "quote": true, "normal": true,
}

var admonitionStyles = map[string]bool{
	"NOTE": true, "TIP": true, "IMPORTANT": true, "WARNING": true, "CAUTION": true,
}

// readParagraph reads the lines of a paragraph. A paragraph ends at a blank
// line, a list continuation, a block attribute line or a delimiter; inside
// a list it also ends at the next list item.
func (st *state) readParagraph(r *reader, bc blockContext, literal bool) []line {
	var out []line
	for {
		ln, ok := r.peek()
		if !ok || strings.TrimSpace(ln.text) == "" {
			return out
		}
		if len(out) > 0 {
			sig := lexer.Classify(ln.text, lexer.Context{})
			switch sig.Kind {
			case lexer.KindListContinuation, lexer.KindBlockAttributes, lexer.KindDelimiter:
				return out
			case lexer.KindListItem:
				if bc.inList {
					return out
				}
			case lexer.KindComment:
				if !literal {
					r.next()
					continue
				}
			}
		}
		r.next()
		out = append(out, ln)
	}
}

func (st *state) parseParagraph(r *reader, first lexer.Signature, ln line, meta *metadata, bc blockContext) interfaces.Node {
	style := meta.style()
	literal := first.Kind == lexer.KindLiteralParagraph
	lines := texts(st.readParagraph(r, bc, literal))
	if len(lines) == 0 {
		r.next()
		return nil
	}

	var b *ast.Block
	switch {
	case style == "" && first.Kind == lexer.KindAdmonition:
		lines[0] = first.Text
		b = st.newBlock(interfaces.BlockAdmonition, ln, meta)
		st.admonition(b, first.Name)
		b.SetContentModel(interfaces.ContentSimple)
	case admonitionStyles[style]:
		b = st.newBlock(interfaces.BlockAdmonition, ln, meta)
		st.admonition(b, style)
		b.SetContentModel(interfaces.ContentSimple)
	case style == "source" || style == "listing":
		b = st.newBlock(interfaces.BlockListing, ln, meta)
		st.sourceAttrs(b, "")
		lines = outdent(lines)
	case style == "literal":
		b = st.newBlock(interfaces.BlockLiteral, ln, meta)
		lines = outdent(lines)
	case style == "pass":
		b = st.newBlock(interfaces.BlockPass, ln, meta)
	case style == "verse":
		b = st.newBlock(interfaces.BlockVerse, ln, meta)
		st.attribution(b)
	case style == "quote":
		b = st.newBlock(interfaces.BlockQuote, ln, meta)
		b.SetContentModel(interfaces.ContentSimple)
		st.attribution(b)
	case style == "sidebar":
		b = st.newBlock(interfaces.BlockSidebar, ln, meta)
		b.SetContentModel(interfaces.ContentSimple)
	case style == "example":
		b = st.newBlock(interfaces.BlockExample, ln, meta)
		b.SetContentModel(interfaces.ContentSimple)
	case style == "open" || style == "abstract" || style == "partintro":
		b = st.newBlock(interfaces.BlockOpen, ln, meta)
		b.SetContentModel(interfaces.ContentSimple)
	case literal && style != "normal":
		b = st.newBlock(interfaces.BlockLiteral, ln, meta)
		lines = outdent(lines)
	default:
		b = st.newBlock(interfaces.BlockParagraph, ln, meta)
		if literal {
			lines = outdent(lines)
		}
	}
	b.SetLines(lines)
	st.finishBlock(b)
	return b
}

// parseDelimited builds a delimited block. The opening fence was consumed.
func (st *state) parseDelimited(r *reader, sig lexer.Signature, open line, meta *metadata) interfaces.Node {
	name := sig.Delimiter.String()
	if sig.Delimiter == lexer.DelimComment {
		st.readUntilFence(r, sig.Fence, open.no, name)
		return nil
	}
	style := meta.style()
	kind, model := delimitedKind(sig.Delimiter, style)
	lines := st.readUntilFence(r, sig.Fence, open.no, name)

	b := st.newBlock(kind, open, meta)
	b.Delimiter = sig.Fence
	b.SetContentModel(model)
	switch kind {
	case interfaces.BlockAdmonition:
		st.admonition(b, style)
	case interfaces.BlockListing:
		if sig.Delimiter == lexer.DelimFenced {
			if b.Style == "" {
				b.Style = "source"
				b.SetAttr("style", "source")
			}
			st.sourceAttrs(b, sig.Language)
		} else if style == "source" {
			st.sourceAttrs(b, "")
		}
	case interfaces.BlockQuote, interfaces.BlockVerse:
		st.attribution(b)
	}

	if model == interfaces.ContentCompound {
		st.parseBlocks(newReader(lines), b, blockContext{})
	} else {
		b.SetLines(texts(lines))
	}
	st.finishBlock(b)
	return b
}

// delimitedKind maps a fence and the block style onto the block kind and
// its content model.
func delimitedKind(d lexer.Delimiter, style string) (interfaces.BlockKind, interfaces.ContentModel) {
	compound := interfaces.ContentCompound
	switch d {
	case lexer.DelimListing, lexer.DelimFenced:
		switch style {
		case "literal":
			return interfaces.BlockLiteral, interfaces.ContentVerbatim
		case "pass":
			return interfaces.BlockPass, interfaces.ContentRaw
		}
		return interfaces.BlockListing, interfaces.ContentVerbatim
	case lexer.DelimLiteral:
		if style == "listing" || style == "source" {
			return interfaces.BlockListing, interfaces.ContentVerbatim
		}
		return interfaces.BlockLiteral, interfaces.ContentVerbatim
	case lexer.DelimPass:
		return interfaces.BlockPass, interfaces.ContentRaw
	case lexer.DelimExample:
		if admonitionStyles[style] {
			return interfaces.BlockAdmonition, compound
		}
		return interfaces.BlockExample, compound
	case lexer.DelimQuote:
		if style == "verse" {
			return interfaces.BlockVerse, interfaces.ContentVerbatim
		}
		return interfaces.BlockQuote, compound
	case lexer.DelimSidebar:
		return interfaces.BlockSidebar, compound
	}

	// open blocks masquerade as any other block except tables and passthroughs
	// written with their own fence
	switch {
	case admonitionStyles[style]:
		return interfaces.BlockAdmonition, compound
	case style == "source" || style == "listing":
		return interfaces.BlockListing, interfaces.ContentVerbatim
	case style == "literal":
		return interfaces.BlockLiteral, interfaces.ContentVerbatim
	case style == "pass":
		return interfaces.BlockPass, interfaces.ContentRaw
	case style == "quote":
		return interfaces.BlockQuote, compound
	case style == "verse":
		return interfaces.BlockVerse, interfaces.ContentVerbatim
	case style == "sidebar":
		return interfaces.BlockSidebar, compound
	case style == "example":
		return interfaces.BlockExample, compound
	}
	return interfaces.BlockOpen, compound
}

// blockMacro builds image, video, audio and toc blocks.
func (st *state) blockMacro(sig lexer.Signature, ln line, meta *metadata) interfaces.Node {
	target := sig.Target
	if strings.Contains(target, "{") {
		target = st.subs.Apply(target, attributeSubs)
	}
	var kind interfaces.BlockKind
	var posattrs []string
	switch sig.Name {
	case "image":
		kind, posattrs = interfaces.BlockImage, []string{"alt", "width", "height"}
	case "video":
		kind, posattrs = interfaces.BlockVideo, []string{"poster", "width", "height"}
	case "audio":
		kind = interfaces.BlockAudio
	default:
		kind = interfaces.BlockTOC
	}
	b := st.newBlock(kind, ln, meta)
	source := sig.Attrs
	if strings.Contains(source, "{") {
		source = st.subs.Apply(source, attributeSubs)
	}
	attrs := attrlist.Parse(source).Map(posattrs...)
	b.MergeAttributes(attrs)
	if id, ok := attrs["id"]; ok && id != "" && b.ID() == "" {
		b.SetID(id)
		st.registerID(b, ln.no)
	}
	if target != "" {
		b.SetAttr("target", target)
	}
	if kind == interfaces.BlockImage {
		if alt, ok := b.Attr("alt"); !ok || alt == "" {
			b.SetAttr("alt", defaultAlt(target))
			b.SetAttr("default-alt", defaultAlt(target))
		}
		b.Caption = st.caption(b, "figure")
	}
	b.Subs = nil
	return b
}

// defaultAlt derives alt text from an image file name.
func defaultAlt(target string) string {
	base := path.Base(target)
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.NewReplacer("_", " ", "-", " ").Replace(base)
}

// newBlock creates a block, claims pending attribute entries for it and
// applies the metadata buffer.
func (st *state) newBlock(kind interfaces.BlockKind, ln line, meta *metadata) *ast.Block {
	b := ast.NewBlock(kind, ln.no)
	st.claim(b)
	st.applyMetadata(b, meta)
	b.Style = meta.style()
	st.registerID(b, ln.no)
	return b
}

func (st *state) applyMetadata(node attributed, meta *metadata) {
	if meta == nil {
		return
	}
	if meta.title != "" {
		node.SetTitle(meta.title)
	}
	node.MergeAttributes(meta.attrs)
	if meta.reftext != "" {
		node.SetAttr("reftext", meta.reftext)
	}
	if meta.id != "" {
		node.SetID(meta.id)
	}
}

// registerID records the explicit id of a block in the document registry.
func (st *state) registerID(node interfaces.Node, lineno int) {
	id := node.ID()
	if id == "" {
		return
	}
	reftext, _ := node.Attr("reftext")
	if st.doc.IDs().Register(id, reftext, node) {
		st.warn(lineno, diagnostics.CodeDuplicateID, "id assigned to block already in use: %s", id)
	}
}

// claim attaches the attribute entries read since the previous node to
// node, so the substitution phase replays them at the same point.
func (st *state) claim(node interfaces.Node) {
	if len(st.pending) == 0 {
		return
	}
	st.entries[node] = st.pending
	st.pending = nil
}

func (st *state) admonition(b *ast.Block, label string) {
	name := strings.ToLower(label)
	b.Style = strings.ToUpper(label)
	b.SetAttr("style", b.Style)
	b.SetAttr("name", name)
	text := st.table.Value(name+"-caption", "")
	if text == "" {
		text = strings.ToUpper(name[:1]) + name[1:]
	}
	b.SetAttr("textlabel", text)
}

// sourceAttrs resolves the language of a source block from the second
// positional attribute, the fence info string or source-language.
func (st *state) sourceAttrs(b *ast.Block, fenceLang string) {
	if _, ok := b.Attr("language"); !ok {
		switch lang, ok := b.Attr("2"); {
		case ok && lang != "":
			b.SetAttr("language", lang)
		case fenceLang != "":
			b.SetAttr("language", fenceLang)
		default:
			if lang := st.table.Value("source-language", ""); lang != "" {
				b.SetAttr("language", lang)
			}
		}
	}
	if linenums, ok := b.Attr("3"); ok && linenums == "linenums" {
		b.SetAttr("linenums-option", "")
	}
}

// attribution maps the positional attributes of quote and verse blocks.
func (st *state) attribution(b *ast.Block) {
	if v, ok := b.Attr("2"); ok && v != "" {
		if _, set := b.Attr("attribution"); !set {
			b.SetAttr("attribution", v)
		}
	}
	if v, ok := b.Attr("3"); ok && v != "" {
		if _, set := b.Attr("citetitle"); !set {
			b.SetAttr("citetitle", v)
		}
	}
}

// finishBlock picks the substitutions of a leaf block and its caption.
func (st *state) finishBlock(b *ast.Block) {
	defaults := defaultSubs(b)
	b.Subs = defaults
	if spec, ok := b.Attr("subs"); ok {
		subs, unknown := substitution.ResolveSubs(spec, defaults)
		for _, name := range unknown {
			st.warn(b.Lineno(), diagnostics.CodeUnknownSubs, "invalid substitution type for %s: %s", b.Context(), name)
		}
		b.Subs = subs
	}
	switch b.BlockKind {
	case interfaces.BlockExample:
		b.Caption = st.caption(b, "example")
	case interfaces.BlockListing:
		b.Caption = st.caption(b, "listing")
	}
}

func defaultSubs(b *ast.Block) []interfaces.Substitution {
	switch b.BlockKind {
	case interfaces.BlockListing, interfaces.BlockLiteral:
		return substitution.VerbatimSubs
	case interfaces.BlockPass:
		return substitution.PassSubs
	}
	switch b.ContentModel() {
	case interfaces.ContentSimple, interfaces.ContentVerbatim:
		return substitution.NormalSubs
	}
	return nil
}

// captioned is a titled node that may receive a numbered caption.
type captioned interface {
	interfaces.Node
	HasTitle() bool
}

// caption returns the numbered label of a titled block ("Example 1. "). An
// explicit caption attribute wins; an unset <kind>-caption disables it.
func (st *state) caption(node captioned, kind string) string {
	if !node.HasTitle() {
		return ""
	}
	if explicit, ok := node.Attr("caption"); ok {
		return explicit
	}
	label := st.table.Value(kind+"-caption", "")
	if label == "" {
		return ""
	}
	name := kind + "-number"
	number, err := st.table.Counter(name, "")
	if err != nil {
		return label + " "
	}
	// the substitution phase rewinds the table; replay the advance at node
	if !st.table.IsLocked(name) {
		st.entries[node] = append(st.entries[node], attributes.Entry{Name: name, Value: number, Line: node.Lineno()})
	}
	return label + " " + number.String() + ". "
}

// outdent strips the indentation shared by all non-blank lines.
func outdent(lines []string) []string {
	shared := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if shared < 0 || n < shared {
			shared = n
		}
	}
	if shared <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= shared {
			out[i] = l[shared:]
		} else {
			out[i] = strings.TrimLeft(l, " \t")
		}
	}
	return out
}

// wrapPreamble moves the blocks before the first section of a titled
// document into a preamble block.
func (st *state) wrapPreamble() {
	doc := st.doc
	if !doc.HasTitle() {
		return
	}
	children := doc.Children()
	first := -1
	for i, child := range children {
		if _, ok := child.(*ast.Section); ok {
			first = i
			break
		}
	}
	if first <= 0 {
		return
	}
	preamble := ast.NewBlock(interfaces.BlockPreamble, children[0].Lineno())
	preamble.SetBlocks(append([]interfaces.Node(nil), children[:first]...))
	doc.SetBlocks(append([]interfaces.Node{preamble}, children[first:]...))
}
