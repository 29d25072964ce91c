package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/attributes"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/internal/lexer"
)

var authorRx = regexp.MustCompile(`^([\p{L}\p{N}_][\p{L}\p{N}_\-'.]*)(?:[ \t]+([\p{L}\p{N}_][\p{L}\p{N}_\-'.]*))?(?:[ \t]+([\p{L}\p{N}_][\p{L}\p{N}_\-'.]*))?(?:[ \t]+<([^>]+)>)?$`)

// parseHeader reads the document header: leading attribute entries, the
// level 0 title, the author and revision lines and the header attribute
// entries up to the first blank line. The attribute table is snapshotted
// afterwards so the substitution phase can replay body entries from here.
func (st *state) parseHeader() {
	r := st.reader
	defer func() { st.header = st.table.Clone() }()

	for {
		r.skipBlank()
		if !st.readHeaderEntries(r) {
			break
		}
	}

	ln, ok := r.peek()
	if !ok {
		return
	}
	title, consumed := st.documentTitle(r, ln)
	if consumed == 0 {
		return
	}
	for i := 0; i < consumed; i++ {
		r.next()
	}
	st.doc.SetTitle(title)
	st.doc.SetLineno(ln.no)
	_ = st.table.SetString("doctitle", st.subs.ApplyHeader(title))

	authorLine := false
	if next, ok := r.peek(); ok && isHeaderText(next.text) {
		r.next()
		st.applyAuthors(next.text)
		authorLine = true
		if rev, ok := r.peek(); ok && isHeaderText(rev.text) {
			r.next()
			st.applyRevision(rev.text)
		}
	}
	st.readHeaderEntries(r)

	if !authorLine {
		if author, ok := st.table.GetString("author"); ok && author != "" {
			st.applyAuthors(author)
		}
	}
}

// documentTitle recognises "= Title", "# Title" and a two-line title
// underlined with "=". It returns the title and the number of lines used.
func (st *state) documentTitle(r *reader, ln line) (string, int) {
	sig := lexer.Classify(ln.text, lexer.Context{})
	if sig.Kind == lexer.KindSectionTitle && sig.Level == 0 {
		return sig.Text, 1
	}
	if sig.Kind != lexer.KindText {
		return "", 0
	}
	under, ok := r.peekAhead()
	if !ok {
		return "", 0
	}
	if level, ok := lexer.SetextTitle(ln.text, under.text); ok && level == 0 {
		return strings.TrimSpace(ln.text), 2
	}
	return "", 0
}

// readHeaderEntries consumes attribute entries and comments until a blank
// line or other content. It reports whether anything was consumed.
func (st *state) readHeaderEntries(r *reader) bool {
	consumed := false
	for {
		ln, ok := r.peek()
		if !ok {
			return consumed
		}
		sig := lexer.Classify(ln.text, lexer.Context{})
		switch {
		case sig.Kind == lexer.KindComment:
			r.next()
		case sig.Kind == lexer.KindDelimiter && sig.Delimiter == lexer.DelimComment:
			r.next()
			st.readUntilFence(r, sig.Fence, ln.no, "comment")
		case sig.Kind == lexer.KindAttributeEntry:
			r.next()
			value := st.entryValue(r, sig.Text)
			st.applyEntry(ln.no, sig.Name, value, sig.Unset)
		default:
			return consumed
		}
		consumed = true
	}
}

// isHeaderText reports whether a line directly below the title is an
// author or revision line.
func isHeaderText(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return lexer.Classify(text, lexer.Context{}).Kind == lexer.KindText
}

// entryValue joins continuation lines of an attribute entry value. A value
// ending in " \" continues on the next line; " + \" keeps a hard line break.
func (st *state) entryValue(r *reader, value string) string {
	for strings.HasSuffix(value, ` \`) || value == `\` {
		next, ok := r.peek()
		if !ok {
			return strings.TrimSuffix(value, `\`)
		}
		r.next()
		head := strings.TrimRight(strings.TrimSuffix(value, `\`), " \t")
		tail := strings.TrimSpace(next.text)
		if strings.HasSuffix(head, " +") || head == "+" {
			value = head + "\n" + tail
		} else {
			value = head + " " + tail
		}
	}
	return strings.TrimSpace(value)
}

// applyEntry assigns or removes an attribute from an entry line. Locked
// attributes ignore the entry. The applied entry is returned for replay.
func (st *state) applyEntry(lineno int, name, raw string, unset bool) (attributes.Entry, bool) {
	key := attributes.Normalize(name)
	if st.table.IsLocked(key) {
		st.logger.Debug("attribute entry ignored, attribute is locked", "name", key, "line", lineno)
		return attributes.Entry{}, false
	}
	entry := attributes.Entry{Name: key, Unset: unset, Line: lineno}
	var err error
	if unset {
		err = st.table.Unset(key)
	} else {
		value := st.subs.ApplyHeader(raw)
		if key == "lang" {
			st.validateLang(lineno, value)
		}
		entry.Value = attributes.String(value)
		err = st.table.Set(key, entry.Value)
	}
	if err != nil {
		st.warn(lineno, diagnostics.CodeInvalidAttribute, "attribute entry %q rejected: %v", key, err)
		return attributes.Entry{}, false
	}
	return entry, true
}

// validateLang records a fatal problem for a value that is not a BCP 47
// language tag.
func (st *state) validateLang(lineno int, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, err := language.Parse(value); err != nil {
		st.problem(lineno, 0, ProblemInvalidLang, fmt.Sprintf("unknown language %q: %v", value, err))
	}
}

// applyAuthors parses a semicolon separated author line and derives the
// author attributes.
func (st *state) applyAuthors(text string) {
	var authors []ast.Author
	for _, part := range strings.Split(text, ";") {
		if part = strings.TrimSpace(part); part != "" {
			authors = append(authors, parseAuthor(part))
		}
	}
	if len(authors) == 0 {
		return
	}
	st.doc.SetAuthors(authors)

	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.Name
		suffix := ""
		if i > 0 {
			suffix = "_" + strconv.Itoa(i+1)
		}
		st.deriveAttr("author"+suffix, a.Name)
		st.deriveAttr("firstname"+suffix, a.Firstname)
		st.deriveAttr("middlename"+suffix, a.Middlename)
		st.deriveAttr("lastname"+suffix, a.Lastname)
		st.deriveAttr("authorinitials"+suffix, a.Initials)
		st.deriveAttr("email"+suffix, a.Email)
	}
	st.deriveAttr("authors", strings.Join(names, ", "))
	st.deriveAttr("authorcount", strconv.Itoa(len(authors)))
}

func parseAuthor(text string) ast.Author {
	m := authorRx.FindStringSubmatch(text)
	if m == nil {
		name := strings.ReplaceAll(text, "_", " ")
		return ast.Author{Name: name, Firstname: name, Initials: initial(name)}
	}
	first, middle, last := m[1], m[2], m[3]
	if last == "" && middle != "" {
		middle, last = "", middle
	}
	a := ast.Author{
		Firstname:  strings.ReplaceAll(first, "_", " "),
		Middlename: strings.ReplaceAll(middle, "_", " "),
		Lastname:   strings.ReplaceAll(last, "_", " "),
		Email:      m[4],
	}
	parts := []string{a.Firstname}
	for _, p := range []string{a.Middlename, a.Lastname} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	a.Name = strings.Join(parts, " ")
	for _, p := range parts {
		a.Initials += initial(p)
	}
	return a
}

func initial(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// applyRevision parses "v1.2, 2024-01-01: remark" and its shorter forms.
func (st *state) applyRevision(text string) {
	var rev ast.Revision
	rest := text
	if i := strings.Index(rest, ":"); i >= 0 {
		rev.Remark = strings.TrimSpace(rest[i+1:])
		rest = rest[:i]
	}
	if i := strings.Index(rest, ","); i >= 0 {
		rev.Number = versionNumber(rest[:i])
		rev.Date = strings.TrimSpace(rest[i+1:])
	} else if isVersion(rest) {
		rev.Number = versionNumber(rest)
	} else {
		rev.Date = strings.TrimSpace(rest)
	}
	st.doc.SetRevision(rev)
	st.deriveAttr("revnumber", rev.Number)
	st.deriveAttr("revdate", rev.Date)
	st.deriveAttr("revremark", rev.Remark)
}

func isVersion(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) > 1 && (s[0] == 'v' || s[0] == 'V') {
		s = s[1:]
	}
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// versionNumber drops the non-numeric prefix of a version ("v1.0" → "1.0").
func versionNumber(s string) string {
	s = strings.TrimSpace(s)
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return s[i:]
		}
	}
	return s
}

// deriveAttr sets a header-derived attribute unless it is empty or locked.
func (st *state) deriveAttr(name, value string) {
	if value == "" || st.table.IsLocked(name) {
		return
	}
	_ = st.table.SetString(name, value)
}
