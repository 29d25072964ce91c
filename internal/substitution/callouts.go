package substitution

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

var trailingCalloutRx = regexp.MustCompile(`((?://|#|--|;;) ?)?(\\)?&lt;!?(--|)(\d+|\.)(--|)&gt; *$`)

type calloutMark struct {
	raw     string
	guard   string
	escaped bool
	number  string
	trail   string
}

// callouts converts the callout markers ending verbatim lines. Only markers
// at the end of a line count; "<.>" numbers itself.
func (st *state) callouts(text string) string {
	if !strings.Contains(text, "&gt;") {
		return text
	}
	auto := 0
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		marks, rest := peelCallouts(line)
		if len(marks) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(rest)
		for _, mark := range marks {
			if mark.escaped {
				b.WriteString(strings.Replace(mark.raw, `\`, "", 1))
				continue
			}
			number := mark.number
			if number == "." {
				auto++
				number = strconv.Itoa(auto)
			}
			ordinal, _ := strconv.Atoi(number)
			id := st.s.callouts.Register(ordinal)
			attrs := map[string]string{"id": id}
			if mark.guard != "" {
				attrs["guard"] = mark.guard
			}
			b.WriteString(st.convert(interfaces.InlineCallout, "", number, "", attrs))
			b.WriteString(mark.trail)
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// peelCallouts strips the trailing run of callout markers from line and
// returns them in source order.
func peelCallouts(line string) ([]calloutMark, string) {
	var marks []calloutMark
	rest := line
	for {
		m := trailingCalloutRx.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		group := func(n int) string {
			if m[2*n] < 0 {
				return ""
			}
			return rest[m[2*n]:m[2*n+1]]
		}
		if group(3) != group(5) {
			break
		}
		raw := rest[m[0]:m[1]]
		body := strings.TrimRight(raw, " ")
		mark := calloutMark{
			raw:     body,
			guard:   strings.TrimSpace(group(1)),
			escaped: group(2) != "",
			number:  group(4),
			trail:   raw[len(body):],
		}
		if mark.escaped {
			mark.raw = raw
		}
		marks = append([]calloutMark{mark}, marks...)
		rest = rest[:m[0]]
	}
	return marks, rest
}
