package substitution

import (
	"regexp"
	"strings"
)

type replacement struct {
	rx   *regexp.Regexp
	with string
	// leading keeps group 1 in front of the replacement.
	leading bool
	// lookahead means the last group is only a boundary check and is not
	// consumed by the match.
	lookahead bool
}

const (
	wordClass  = `[\p{L}\p{N}_]`
	alnumClass = `[\p{L}\p{N}]`
)

var replacementRules = []replacement{
	{rx: regexp.MustCompile(`\\?\(C\)`), with: "&#169;"},
	{rx: regexp.MustCompile(`\\?\(R\)`), with: "&#174;"},
	{rx: regexp.MustCompile(`\\?\(TM\)`), with: "&#8482;"},
	{rx: regexp.MustCompile(`(` + wordClass + `)\\?--(` + wordClass + `)`), with: "&#8212;&#8203;", leading: true, lookahead: true},
	{rx: regexp.MustCompile(`\\?\.\.\.`), with: "&#8230;&#8203;"},
	{rx: regexp.MustCompile("\\\\?`'"), with: "&#8217;"},
	{rx: regexp.MustCompile(`(` + alnumClass + `)\\?'(\p{L})`), with: "&#8217;", leading: true, lookahead: true},
	{rx: regexp.MustCompile(`\\?-&gt;`), with: "&#8594;"},
	{rx: regexp.MustCompile(`\\?=&gt;`), with: "&#8658;"},
	{rx: regexp.MustCompile(`\\?&lt;-`), with: "&#8592;"},
	{rx: regexp.MustCompile(`\\?&lt;=`), with: "&#8656;"},
}

var (
	spacedDashRx = regexp.MustCompile(`(^|\n| |\\)--( |\n|$)`)
	entityRx     = regexp.MustCompile(`\\?&amp;((?:[a-zA-Z][a-zA-Z]+\d{0,2}|#\d\d\d{0,4}|#x[\da-fA-F][\da-fA-F][\da-fA-F]{0,3});)`)
)

// replacements swaps typographic sequences for character references. A
// leading backslash keeps the sequence as typed.
func replacements(text string) string {
	if strings.Contains(text, "--") {
		text = replaceAllSubmatch(spacedDashRx, text, func(m []string) string {
			if m[1] == `\` {
				return "--" + m[2]
			}
			lead, trail := "", ""
			if m[1] == "\n" {
				lead = "\n"
			}
			if m[2] == "\n" {
				trail = "\n"
			}
			return lead + "&#8201;&#8212;&#8201;" + trail
		})
	}
	for _, rule := range replacementRules {
		text = rule.apply(text)
	}
	if strings.Contains(text, "&amp;") {
		text = replaceAllSubmatch(entityRx, text, func(m []string) string {
			if strings.HasPrefix(m[0], `\`) {
				return m[0][1:]
			}
			return "&" + m[1]
		})
	}
	return text
}

func (r replacement) apply(text string) string {
	if !r.lookahead {
		return replaceAllSubmatch(r.rx, text, r.render)
	}
	var b strings.Builder
	pos, last := 0, 0
	for pos < len(text) {
		loc := r.rx.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		// the final group is a boundary: the match ends where it begins
		boundary := pos + loc[len(loc)-2]
		m := []string{text[pos+loc[0] : boundary], text[pos+loc[2] : pos+loc[3]]}
		b.WriteString(text[last : pos+loc[0]])
		b.WriteString(r.render(m))
		last = boundary
		pos = boundary
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func (r replacement) render(m []string) string {
	lead := ""
	captured := m[0]
	if r.leading {
		lead = m[1]
		captured = captured[len(lead):]
	}
	if strings.HasPrefix(captured, `\`) {
		return lead + captured[1:]
	}
	return lead + r.with
}
