package substitution

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-asciidoc/internal/attributes"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
)

var attributeRefRx = regexp.MustCompile(`(\\)?\{(\w[\w-]*|(set|counter2?):[^}]+?)(\\)?\}`)

// attributes resolves {name} references line by line. A reference may drop
// its whole line depending on the missing and undefined policies.
func (st *state) attributes(text string) string {
	if !strings.Contains(text, "{") {
		return text
	}
	missing, undefined := st.s.table.Policies()
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !strings.Contains(line, "{") {
			out = append(out, line)
			continue
		}
		drop := false
		resolved := replaceAllSubmatch(attributeRefRx, line, func(m []string) string {
			if drop {
				return m[0]
			}
			if m[1] != "" || m[4] != "" {
				return "{" + m[2] + "}"
			}
			if m[3] != "" {
				value, dropLine := st.directive(m[3], m[2][len(m[3])+1:], undefined)
				drop = dropLine
				return value
			}
			name := strings.ToLower(m[2])
			if value, ok := attributes.Intrinsic(name); ok {
				return value
			}
			if value, ok := st.s.table.GetString(name); ok {
				return value
			}
			switch missing {
			case attributes.MissingDrop:
				return ""
			case attributes.MissingDropLine:
				st.s.logger.Debug("dropping line containing reference to missing attribute", "attribute", name)
				drop = true
				return ""
			case attributes.MissingWarn:
				st.warn(diagnostics.CodeMissingAttribute, "skipping reference to missing attribute: %s", name)
			}
			return m[0]
		})
		if !drop {
			out = append(out, resolved)
		}
	}
	return strings.Join(out, "\n")
}

// directive evaluates {set:...}, {counter:...} and {counter2:...}.
func (st *state) directive(kind, args string, undefined attributes.UndefinedPolicy) (string, bool) {
	parts := strings.SplitN(args, ":", 2)
	name := parts[0]
	value := ""
	if len(parts) > 1 {
		value = parts[1]
	}
	switch kind {
	case "set":
		if strings.HasSuffix(name, "!") {
			_ = st.s.table.Unset(strings.TrimSuffix(name, "!"))
			return "", undefined == attributes.UndefinedDropLine
		}
		_ = st.s.table.SetString(name, value)
		return "", false
	case "counter", "counter2":
		next, err := st.s.table.Counter(name, value)
		if err != nil || kind == "counter2" {
			return "", false
		}
		return next.String(), false
	}
	return "", false
}
