package substitution

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-asciidoc/internal/attrlist"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

const (
	passStart = "\u0096"
	passEnd   = "\u0097"
)

type passthrough struct {
	text  string
	subs  []interfaces.Substitution
	attrs map[string]string
}

var (
	passTripleRx  = regexp.MustCompile(`(?s)(\[[^\]\n]+\])?(\\{0,2})\+\+\+(.*?)\+\+\+`)
	passDoubleRx  = regexp.MustCompile(`(?s)(\[[^\]\n]+\])?(\\{0,2})\+\+(.*?)\+\+`)
	passDollarRx  = regexp.MustCompile(`(?s)(\[[^\]\n]+\])?(\\{0,2})\$\$(.*?)\$\$`)
	passMacroRx   = regexp.MustCompile(`(?s)(\\?)pass:([a-z]+(?:,[a-z-]+)*)?\[(|.*?[^\\])\]`)
	passRestoreRx = regexp.MustCompile("\u0096(\\d+)\u0097")
)

// extractPassthroughs swaps every passthrough for a placeholder so the
// remaining passes leave its content alone.
func (st *state) extractPassthroughs(text string) string {
	if strings.Contains(text, "++") {
		text = st.extractDelimited(text, passTripleRx, "+++", nil)
		text = st.extractDelimited(text, passDoubleRx, "++", []interfaces.Substitution{interfaces.SubSpecialCharacters})
	}
	if strings.Contains(text, "$$") {
		text = st.extractDelimited(text, passDollarRx, "$$", []interfaces.Substitution{interfaces.SubSpecialCharacters})
	}
	if strings.Contains(text, "pass:") {
		text = st.extractPassMacros(text)
	}
	if strings.Contains(text, "+") {
		text = st.extractConstrainedPass(text)
	}
	return text
}

func (st *state) extractDelimited(text string, rx *regexp.Regexp, boundary string, subs []interfaces.Substitution) string {
	return replaceAllSubmatch(rx, text, func(m []string) string {
		attrs, escapes, content := m[1], m[2], m[3]
		if escapes != "" {
			return attrs + escapes[1:] + boundary + content + boundary
		}
		p := passthrough{text: content, subs: subs}
		if attrs != "" {
			if boundary == "+++" {
				return attrs + st.park(p)
			}
			p.attrs = quotedAttrs(attrs[1 : len(attrs)-1])
		}
		return st.park(p)
	})
}

func (st *state) extractPassMacros(text string) string {
	return replaceAllSubmatch(passMacroRx, text, func(m []string) string {
		if m[1] != "" {
			return m[0][1:]
		}
		content := strings.ReplaceAll(m[3], `\]`, "]")
		var subs []interfaces.Substitution
		if m[2] != "" {
			subs, _ = ResolveSubs(m[2], nil)
		}
		return st.park(passthrough{text: content, subs: subs})
	})
}

// extractConstrainedPass handles +text+ bounded by non-word characters.
func (st *state) extractConstrainedPass(text string) string {
	var b strings.Builder
	last := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '+' {
			continue
		}
		start := i
		escaped := false
		attrs := ""
		if i > 0 && text[i-1] == '\\' {
			escaped = true
			start = i - 1
		} else if open := bracketBefore(text, i); open >= 0 {
			attrs = text[open+1 : i-1]
			start = open
		}
		end := constrainedPassClose(text, i)
		if end < 0 {
			continue
		}
		if !passPrefixOK(text, start) && !(start == i && inBackticks(text, start, end)) {
			continue
		}
		b.WriteString(text[last:start])
		content := text[i+1 : end]
		switch {
		case escaped:
			b.WriteString(text[i : end+1])
		default:
			p := passthrough{text: content, subs: []interfaces.Substitution{interfaces.SubSpecialCharacters}}
			if attrs != "" {
				p.attrs = quotedAttrs(attrs)
			}
			b.WriteString(st.park(p))
		}
		last = end + 1
		i = end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// bracketBefore returns the index of the '[' opening an attribute list that
// ends right before pos, or -1.
func bracketBefore(text string, pos int) int {
	if pos < 2 || text[pos-1] != ']' {
		return -1
	}
	for j := pos - 2; j >= 0; j-- {
		switch text[j] {
		case '[':
			if j == pos-2 {
				return -1
			}
			return j
		case ']', '\n':
			return -1
		}
	}
	return -1
}

func passPrefixOK(text string, start int) bool {
	if start == 0 {
		return true
	}
	r := lastRune(text[:start])
	return !isWordRune(r) && !strings.ContainsRune("&;:\"'`}]", r)
}

// inBackticks reports whether the span start..end is wrapped as `+text+`.
func inBackticks(text string, start, end int) bool {
	return start > 0 && text[start-1] == '`' && end+1 < len(text) && text[end+1] == '`'
}

func constrainedPassClose(text string, open int) int {
	first := open + 1
	if first >= len(text) || isSpaceByte(text[first]) {
		return -1
	}
	for p := first + 1; p < len(text); p++ {
		if text[p] != '+' || isSpaceByte(text[p-1]) {
			continue
		}
		if p+1 < len(text) && isWordRune(firstRune(text[p+1:])) {
			continue
		}
		return p
	}
	return -1
}

func (st *state) park(p passthrough) string {
	st.passthroughs = append(st.passthroughs, p)
	return passStart + strconv.Itoa(len(st.passthroughs)-1) + passEnd
}

func (st *state) restorePassthroughs(text string) string {
	return passRestoreRx.ReplaceAllStringFunc(text, func(m string) string {
		idx, err := strconv.Atoi(m[len(passStart) : len(m)-len(passEnd)])
		if err != nil || idx >= len(st.passthroughs) {
			return m
		}
		p := st.passthroughs[idx]
		out := p.text
		if len(p.subs) > 0 {
			out = st.s.ApplyIn(st.scope, out, p.subs)
		}
		if p.attrs != nil {
			out = st.convert(interfaces.InlineQuoted, "unquoted", out, "", p.attrs)
		}
		return out
	})
}

// quotedAttrs reads the [attrs] prefix of a quoted span: .role and #id
// shorthand, or a bare role name.
func quotedAttrs(source string) map[string]string {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil
	}
	if idx := strings.IndexByte(source, ','); idx >= 0 {
		source = strings.TrimSpace(source[:idx])
	}
	attrs := map[string]string{}
	if strings.HasPrefix(source, ".") || strings.HasPrefix(source, "#") {
		sh := attrlist.ParseShorthand(source)
		if sh.ID != "" {
			attrs["id"] = sh.ID
		}
		if len(sh.Roles) > 0 {
			attrs["role"] = strings.Join(sh.Roles, " ")
		}
		return attrs
	}
	attrs["role"] = source
	return attrs
}

// replaceAllSubmatch is ReplaceAllStringFunc with access to the groups.
// Unmatched groups are empty strings.
func replaceAllSubmatch(rx *regexp.Regexp, text string, fn func(m []string) string) string {
	locs := rx.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(text[last:loc[0]])
		m := make([]string, len(loc)/2)
		for g := range m {
			if loc[2*g] >= 0 {
				m[g] = text[loc[2*g]:loc[2*g+1]]
			}
		}
		b.WriteString(fn(m))
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
