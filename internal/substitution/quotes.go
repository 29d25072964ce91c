package substitution

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

type quoteForm uint8

const (
	constrained quoteForm = iota
	unconstrained
	// spanning marks superscript and subscript: no boundary rules, no spaces.
	spanning
)

type quoteRule struct {
	typ         string
	open, close string
	form        quoteForm
	prefixGuard string
	suffixGuard string
}

// quoteRules run in this order; unconstrained forms precede their
// constrained counterpart.
var quoteRules = []quoteRule{
	{typ: "strong", open: "**", close: "**", form: unconstrained},
	{typ: "strong", open: "*", close: "*", prefixGuard: ";:}"},
	{typ: "double", open: "\"`", close: "`\"", prefixGuard: ";:}"},
	{typ: "single", open: "'`", close: "`'", prefixGuard: ";:`}"},
	{typ: "monospaced", open: "``", close: "``", form: unconstrained},
	{typ: "monospaced", open: "`", close: "`", prefixGuard: ";:\"'`}", suffixGuard: "\"'`"},
	{typ: "emphasis", open: "__", close: "__", form: unconstrained},
	{typ: "emphasis", open: "_", close: "_", prefixGuard: ";:}"},
	{typ: "mark", open: "##", close: "##", form: unconstrained},
	{typ: "mark", open: "#", close: "#", prefixGuard: "&;:}"},
	{typ: "superscript", open: "^", close: "^", form: spanning},
	{typ: "subscript", open: "~", close: "~", form: spanning},
}

func (st *state) quotes(text string) string {
	for _, rule := range quoteRules {
		if strings.Contains(text, rule.open) {
			text = st.applyQuote(text, rule)
		}
	}
	return text
}

func (st *state) applyQuote(text string, rule quoteRule) string {
	var b strings.Builder
	last := 0
	for i := 0; i < len(text); i++ {
		start, open := i, i
		attrs := ""
		if text[i] == '[' {
			end := strings.IndexByte(text[i:], ']')
			if end < 2 || strings.ContainsAny(text[i+1:i+end], "[\n") || !strings.HasPrefix(text[i+end+1:], rule.open) {
				continue
			}
			attrs = text[i+1 : i+end]
			open = i + end + 1
		} else if !strings.HasPrefix(text[i:], rule.open) {
			continue
		}
		escaped := start > 0 && text[start-1] == '\\'
		if rule.form == constrained && !escaped && !quotePrefixOK(text, start, rule) {
			continue
		}
		contentStart := open + len(rule.open)
		closeAt := findQuoteClose(text, contentStart, rule)
		if closeAt < 0 {
			continue
		}
		end := closeAt + len(rule.close)
		content := text[contentStart:closeAt]

		if escaped {
			b.WriteString(text[last : start-1])
			if attrs != "" && rule.form == constrained {
				b.WriteString("[" + attrs + "]")
				b.WriteString(st.quoted(rule.typ, content, ""))
			} else {
				b.WriteString(text[start:end])
			}
		} else {
			b.WriteString(text[last:start])
			b.WriteString(st.quoted(rule.typ, content, attrs))
		}
		last = end
		i = end - 1
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func (st *state) quoted(typ, content, attrs string) string {
	var parsed map[string]string
	if attrs != "" {
		parsed = quotedAttrs(attrs)
		if typ == "mark" {
			typ = "unquoted"
		}
	}
	return st.convert(interfaces.InlineQuoted, typ, content, "", parsed)
}

func quotePrefixOK(text string, start int, rule quoteRule) bool {
	if start == 0 {
		return true
	}
	r := lastRune(text[:start])
	return !isWordRune(r) && !strings.ContainsRune(rule.prefixGuard, r)
}

// findQuoteClose returns the index of the first closing delimiter that ends a
// valid span starting at from, or -1.
func findQuoteClose(text string, from int, rule quoteRule) int {
	if from >= len(text) {
		return -1
	}
	if rule.form == constrained && isSpaceByte(text[from]) {
		return -1
	}
	for p := from + 1; p <= len(text)-len(rule.close); p++ {
		if rule.form == spanning && isSpaceByte(text[p-1]) {
			return -1
		}
		if !strings.HasPrefix(text[p:], rule.close) {
			continue
		}
		if rule.form != constrained {
			return p
		}
		if isSpaceByte(text[p-1]) {
			continue
		}
		after := p + len(rule.close)
		if after < len(text) {
			r := firstRune(text[after:])
			if isWordRune(r) || strings.ContainsRune(rule.suffixGuard, r) {
				continue
			}
		}
		return p
	}
	return -1
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
