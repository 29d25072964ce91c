package lexer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

var (
	directiveRx      = regexp.MustCompile(`^(\\)?(ifdef|ifndef|ifeval|endif|include)::([^\[]*)\[(.*)\]$`)
	attributeEntryRx = regexp.MustCompile(`^:(!?\w[^:]*):(?:[ \t]+(.*))?$`)
	biblioAnchorRx   = regexp.MustCompile(`^\[\[\[([\p{L}_:][\w:.\-]*)(?:,[ \t]*(.+))?\]\]\]$`)
	blockAnchorRx    = regexp.MustCompile(`^\[\[([\p{L}_:][\w:.\-]*)(?:,[ \t]*(.+))?\]\]$`)
	blockAttrsRx     = regexp.MustCompile(`^\[(|[#%,.\w{"'].*)\]$`)
	atxTitleRx       = regexp.MustCompile(`^(={1,6})[ \t]+(\S.*?)[ \t]*$`)
	markdownTitleRx  = regexp.MustCompile(`^(#{1,6})[ \t]+(\S.*?)[ \t]*$`)
	blockMacroRx     = regexp.MustCompile(`^(image|video|audio|toc)::(\S*?)\[(.*)\]$`)
	calloutItemRx    = regexp.MustCompile(`^<(\d+|\.)>[ \t]+(\S.*)$`)
	unorderedItemRx  = regexp.MustCompile(`^[ \t]*(-|\*{1,5})[ \t]+(\S.*)$`)
	orderedItemRx    = regexp.MustCompile(`^[ \t]*(\.{1,5}|\d+\.|[a-zA-Z]\.|[IVXivx]+\))[ \t]+(\S.*)$`)
	descriptionRx    = regexp.MustCompile(`^[ \t]*([^ \t].*?)(:{2,4}|;;)(?:[ \t]+(.*))?$`)
	admonitionRx     = regexp.MustCompile(`^(NOTE|TIP|IMPORTANT|WARNING|CAUTION):[ \t]+(\S.*)$`)
	blockTitleRx     = regexp.MustCompile(`^\.([^ \t.].*)$`)
)

type matcher struct {
	kind  Kind
	match func(line string) (Signature, bool)
}

// signatures is evaluated top to bottom; the first match wins. More specific
// forms precede the general ones they overlap with (fences before comments,
// biblio anchors before block anchors, lists before literal paragraphs).
var signatures = []matcher{
	{KindBlank, matchBlank},
	{KindDirective, matchDirective},
	{KindDelimiter, matchDelimiter},
	{KindComment, matchComment},
	{KindAttributeEntry, matchAttributeEntry},
	{KindBiblioAnchor, matchBiblioAnchor},
	{KindBlockAnchor, matchBlockAnchor},
	{KindBlockAttributes, matchBlockAttributes},
	{KindThematicBreak, matchThematicBreak},
	{KindPageBreak, matchPageBreak},
	{KindSectionTitle, matchSectionTitle},
	{KindBlockMacro, matchBlockMacro},
	{KindListContinuation, matchContinuation},
	{KindListItem, matchListItem},
	{KindAdmonition, matchAdmonition},
	{KindBlockTitle, matchBlockTitle},
	{KindLiteralParagraph, matchLiteral},
}

// Classify returns the signature of line. Inside an open verbatim block every
// line is text except the exact terminator fence.
func Classify(line string, ctx Context) Signature {
	line = strings.TrimRight(line, " \t\r")
	if ctx.Verbatim {
		if line == ctx.Terminator {
			if sig, ok := matchDelimiter(line); ok {
				sig.Kind, sig.Line = KindDelimiter, line
				return sig
			}
		}
		return Signature{Kind: KindText, Line: line, Text: line}
	}
	for _, m := range signatures {
		if sig, ok := m.match(line); ok {
			sig.Kind = m.kind
			sig.Line = line
			return sig
		}
	}
	return Signature{Kind: KindText, Line: line, Text: line}
}

// Kinds returns the classification order, for diagnostics and tests.
func Kinds() []Kind {
	out := make([]Kind, 0, len(signatures)+1)
	for _, m := range signatures {
		out = append(out, m.kind)
	}
	return append(out, KindText)
}

func matchBlank(line string) (Signature, bool) {
	return Signature{}, strings.TrimSpace(line) == ""
}

func matchDirective(line string) (Signature, bool) {
	m := directiveRx.FindStringSubmatch(line)
	if m == nil {
		return Signature{}, false
	}
	return Signature{Escaped: m[1] != "", Name: m[2], Target: m[3], Attrs: m[4]}, true
}

// FenceOf reports the delimited block opened or closed by line.
func FenceOf(line string) (Delimiter, bool) {
	sig, ok := matchDelimiter(line)
	return sig.Delimiter, ok
}

func matchDelimiter(line string) (Signature, bool) {
	if line == "--" {
		return Signature{Delimiter: DelimOpen, Fence: line}, true
	}
	if strings.HasPrefix(line, "```") {
		lang := strings.TrimSpace(line[3:])
		if strings.ContainsAny(lang, "` \t") {
			return Signature{}, false
		}
		return Signature{Delimiter: DelimFenced, Fence: "```", Language: lang}, true
	}
	if len(line) < 4 {
		return Signature{}, false
	}
	if strings.IndexByte("|,:!", line[0]) >= 0 && isRun(line[1:], '=') && len(line) >= 4 {
		return Signature{Delimiter: DelimTable, Fence: line}, true
	}
	if !isRun(line, line[0]) {
		return Signature{}, false
	}
	var d Delimiter
	switch line[0] {
	case '/':
		d = DelimComment
	case '=':
		d = DelimExample
	case '-':
		d = DelimListing
	case '.':
		d = DelimLiteral
	case '_':
		d = DelimQuote
	case '*':
		d = DelimSidebar
	case '+':
		d = DelimPass
	default:
		return Signature{}, false
	}
	return Signature{Delimiter: d, Fence: line}, true
}

func matchComment(line string) (Signature, bool) {
	if !strings.HasPrefix(line, "//") {
		return Signature{}, false
	}
	if len(line) > 2 && line[2] == '/' {
		return Signature{}, false
	}
	return Signature{Text: strings.TrimSpace(line[2:])}, true
}

func matchAttributeEntry(line string) (Signature, bool) {
	m := attributeEntryRx.FindStringSubmatch(line)
	if m == nil {
		return Signature{}, false
	}
	name := m[1]
	unset := false
	if strings.HasPrefix(name, "!") {
		name, unset = name[1:], true
	} else if strings.HasSuffix(name, "!") {
		name, unset = strings.TrimSuffix(name, "!"), true
	}
	if name == "" {
		return Signature{}, false
	}
	return Signature{Name: strings.TrimSpace(name), Text: m[2], Unset: unset}, true
}

func matchBiblioAnchor(line string) (Signature, bool) {
	m := biblioAnchorRx.FindStringSubmatch(line)
	if m == nil {
		return Signature{}, false
	}
	return Signature{Target: m[1], Reftext: m[2]}, true
}

func matchBlockAnchor(line string) (Signature, bool) {
	m := blockAnchorRx.FindStringSubmatch(line)
	if m == nil {
		return Signature{}, false
	}
	return Signature{Target: m[1], Reftext: strings.TrimSpace(m[2])}, true
}

func matchBlockAttributes(line string) (Signature, bool) {
	m := blockAttrsRx.FindStringSubmatch(line)
	if m == nil || strings.HasPrefix(line, "[[") {
		return Signature{}, false
	}
	return Signature{Attrs: m[1]}, true
}

func matchThematicBreak(line string) (Signature, bool) {
	if len(line) >= 3 && isRun(line, '\'') {
		return Signature{}, true
	}
	// markdown breaks: three identical marks, optionally separated by the same spacing
	if len(line) < 3 || strings.IndexByte("-*_", line[0]) < 0 {
		return Signature{}, false
	}
	c := line[0]
	rest := line[1:]
	gap := len(rest) - len(strings.TrimLeft(rest, " "))
	sep := strings.Repeat(" ", gap)
	return Signature{}, line == string(c)+sep+string(c)+sep+string(c)
}

func matchPageBreak(line string) (Signature, bool) {
	return Signature{}, len(line) >= 3 && isRun(line, '<')
}

func matchSectionTitle(line string) (Signature, bool) {
	if m := atxTitleRx.FindStringSubmatch(line); m != nil {
		title := trimClosingMarker(m[2], m[1])
		if title == "" {
			return Signature{}, false
		}
		return Signature{Level: len(m[1]) - 1, Text: title, Marker: m[1]}, true
	}
	if m := markdownTitleRx.FindStringSubmatch(line); m != nil {
		title := trimClosingMarker(m[2], m[1])
		if title == "" {
			return Signature{}, false
		}
		return Signature{Level: len(m[1]) - 1, Text: title, Marker: m[1], Markdown: true}, true
	}
	return Signature{}, false
}

// trimClosingMarker removes a symmetric closing marker ("== Title ==").
func trimClosingMarker(title, marker string) string {
	suffix := " " + marker
	if strings.HasSuffix(title, suffix) {
		return strings.TrimSpace(strings.TrimSuffix(title, suffix))
	}
	return title
}

func matchBlockMacro(line string) (Signature, bool) {
	m := blockMacroRx.FindStringSubmatch(line)
	if m == nil {
		return Signature{}, false
	}
	return Signature{Name: m[1], Target: m[2], Attrs: m[3]}, true
}

func matchContinuation(line string) (Signature, bool) {
	return Signature{}, line == "+"
}

func matchListItem(line string) (Signature, bool) {
	if m := calloutItemRx.FindStringSubmatch(line); m != nil {
		ordinal, _ := strconv.Atoi(m[1])
		return Signature{List: interfaces.ListCallout, Marker: "<" + m[1] + ">", Family: "<>", Text: m[2], Ordinal: ordinal}, true
	}
	if m := unorderedItemRx.FindStringSubmatch(line); m != nil {
		return Signature{List: interfaces.ListUnordered, Marker: m[1], Family: m[1], Text: m[2]}, true
	}
	if m := orderedItemRx.FindStringSubmatch(line); m != nil {
		family, style, ordinal := orderedMarker(m[1])
		return Signature{List: interfaces.ListOrdered, Marker: m[1], Family: family, Style: style, Ordinal: ordinal, Text: m[2]}, true
	}
	if m := descriptionRx.FindStringSubmatch(line); m != nil {
		term := strings.TrimSpace(m[1])
		if term == "" || strings.HasPrefix(term, "//") {
			return Signature{}, false
		}
		return Signature{List: interfaces.ListDescription, Marker: m[2], Family: m[2], Target: term, Text: m[3]}, true
	}
	return Signature{}, false
}

// orderedMarker maps an ordered list marker to its family, numbering style
// and explicit ordinal.
func orderedMarker(marker string) (family, style string, ordinal int) {
	if marker[0] == '.' {
		return marker, "", 0
	}
	body := marker[:len(marker)-1]
	switch {
	case marker[len(marker)-1] == ')' && body == strings.ToLower(body):
		return "i)", "lowerroman", romanValue(body)
	case marker[len(marker)-1] == ')':
		return "I)", "upperroman", romanValue(body)
	case body[0] >= '0' && body[0] <= '9':
		n, _ := strconv.Atoi(body)
		return "1.", "arabic", n
	case body[0] >= 'a' && body[0] <= 'z':
		return "a.", "loweralpha", int(body[0]-'a') + 1
	default:
		return "A.", "upperalpha", int(body[0]-'A') + 1
	}
}

func romanValue(s string) int {
	values := map[byte]int{'i': 1, 'v': 5, 'x': 10}
	s = strings.ToLower(s)
	total := 0
	for i := 0; i < len(s); i++ {
		v := values[s[i]]
		if i+1 < len(s) && values[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total
}

func matchAdmonition(line string) (Signature, bool) {
	m := admonitionRx.FindStringSubmatch(line)
	if m == nil {
		return Signature{}, false
	}
	return Signature{Name: m[1], Text: m[2]}, true
}

func matchBlockTitle(line string) (Signature, bool) {
	m := blockTitleRx.FindStringSubmatch(line)
	if m == nil {
		return Signature{}, false
	}
	return Signature{Text: m[1]}, true
}

func matchLiteral(line string) (Signature, bool) {
	if line == "" || (line[0] != ' ' && line[0] != '\t') {
		return Signature{}, false
	}
	return Signature{Text: line}, true
}

func isRun(s string, c byte) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}

// SetextLevel reports the section level announced by an underline line.
func SetextLevel(line string) (int, bool) {
	line = strings.TrimRight(line, " \t\r")
	if len(line) < 2 {
		return 0, false
	}
	level := strings.IndexByte("=-~^+", line[0])
	if level < 0 || !isRun(line, line[0]) {
		return 0, false
	}
	return level, true
}

// SetextTitle reports whether title followed by underline forms a two-line
// section title. The underline length must be within one character of the
// title length.
func SetextTitle(title, underline string) (int, bool) {
	title = strings.TrimRight(title, " \t\r")
	level, ok := SetextLevel(underline)
	if !ok || title == "" {
		return 0, false
	}
	switch title[0] {
	case ' ', '\t', '.', '[', '/', ':':
		return 0, false
	}
	if sig := Classify(title, Context{}); sig.Kind != KindText {
		return 0, false
	}
	diff := utf8.RuneCountInString(title) - len(strings.TrimRight(underline, " \t\r"))
	if diff < -1 || diff > 1 {
		return 0, false
	}
	return level, true
}
