package substitution

import (
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

const hardBreak = " +"

// postReplacements turns a trailing " +" into a line break. With hardbreaks
// every line but the last breaks.
func (st *state) postReplacements(text string) string {
	if st.scope.Hardbreaks || st.s.table.IsSet("hardbreaks") || st.s.table.IsSet("hardbreaks-option") {
		lines := strings.Split(text, "\n")
		if len(lines) < 2 {
			return text
		}
		for i := 0; i < len(lines)-1; i++ {
			lines[i] = st.lineBreak(strings.TrimSuffix(lines[i], hardBreak))
		}
		return strings.Join(lines, "\n")
	}
	if !strings.Contains(text, hardBreak) {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasSuffix(line, hardBreak) {
			lines[i] = st.lineBreak(strings.TrimSuffix(line, hardBreak))
		}
	}
	return strings.Join(lines, "\n")
}

func (st *state) lineBreak(line string) string {
	return st.convert(interfaces.InlineBreak, "line", line, "", nil)
}
