package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-asciidoc/internal/attrlist"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/internal/lexer"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// DefaultMaxIncludeDepth bounds nested includes when neither the options nor
// the max-include-depth attribute set a limit.
const DefaultMaxIncludeDepth = 64

var (
	ifevalRx  = regexp.MustCompile(`^(.+?)[ \t]*(==|!=|<=|>=|<|>)[ \t]*(.+)$`)
	tagLineRx = regexp.MustCompile(`\b(tag|end)::(\S+?)\[\]`)
)

var attributeSubs = []interfaces.Substitution{interfaces.SubAttributes}

type conditional struct {
	name string
	skip bool
	line int
}

// preprocessor evaluates conditionals and splices includes into the
// top-level reader.
type preprocessor struct {
	st    *state
	conds []conditional
	done  bool
}

func (pp *preprocessor) skipping() bool {
	return len(pp.conds) > 0 && pp.conds[len(pp.conds)-1].skip
}

// process handles the line under the cursor. It returns true when the line
// was removed or replaced, false when it is content.
func (pp *preprocessor) process(r *reader) bool {
	ln := r.lines[r.pos]
	skipping := pp.skipping()
	if !strings.Contains(ln.text, "::") {
		if skipping {
			r.remove()
			return true
		}
		return false
	}

	sig := lexer.Classify(ln.text, lexer.Context{})
	if sig.Kind != lexer.KindDirective {
		if skipping {
			r.remove()
			return true
		}
		return false
	}
	if sig.Escaped {
		if skipping {
			r.remove()
			return true
		}
		r.lines[r.pos].text = strings.TrimPrefix(sig.Line, `\`)
		return false
	}

	switch sig.Name {
	case "ifdef", "ifndef", "ifeval":
		pp.conditional(r, ln, sig, skipping)
	case "endif":
		pp.endif(r, ln, sig, skipping)
	case "include":
		if skipping {
			r.remove()
			return true
		}
		pp.include(r, ln, sig)
	}
	return true
}

func (pp *preprocessor) conditional(r *reader, ln line, sig lexer.Signature, skipping bool) {
	target := strings.TrimSpace(sig.Target)
	if skipping {
		pp.conds = append(pp.conds, conditional{name: target, skip: true, line: ln.no})
		r.remove()
		return
	}

	var ok bool
	switch sig.Name {
	case "ifeval":
		if target != "" {
			pp.st.warn(ln.no, diagnostics.CodeUnsupportedIfeval, "malformed preprocessor directive - target not permitted: ifeval::%s[%s]", target, sig.Attrs)
			r.remove()
			return
		}
		ok = pp.evaluate(ln.no, sig.Attrs)
	default:
		if target == "" {
			pp.st.warn(ln.no, diagnostics.CodeInvalidAttribute, "malformed preprocessor directive - missing target: %s::[%s]", sig.Name, sig.Attrs)
			r.remove()
			return
		}
		ok = pp.defined(target)
		if sig.Name == "ifndef" {
			ok = !ok
		}
		// single line form: the bracket text is the conditional content
		if sig.Attrs != "" {
			if ok {
				r.lines[r.pos].text = sig.Attrs
			} else {
				r.remove()
			}
			return
		}
	}
	pp.conds = append(pp.conds, conditional{name: target, skip: !ok, line: ln.no})
	r.remove()
}

func (pp *preprocessor) endif(r *reader, ln line, sig lexer.Signature, skipping bool) {
	r.remove()
	if len(pp.conds) == 0 {
		pp.st.warn(ln.no, diagnostics.CodeUnmatchedEndif, "unmatched preprocessor directive: endif::%s[]", sig.Target)
		return
	}
	top := pp.conds[len(pp.conds)-1]
	target := strings.TrimSpace(sig.Target)
	if target != "" && target != top.name && !skipping {
		pp.st.warn(ln.no, diagnostics.CodeUnmatchedEndif, "mismatched preprocessor directive: endif::%s[], expected endif::%s[]", target, top.name)
		return
	}
	pp.conds = pp.conds[:len(pp.conds)-1]
}

// defined evaluates an ifdef target: "a,b" is true when any is set, "a+b"
// when all are.
func (pp *preprocessor) defined(target string) bool {
	table := pp.st.table
	switch {
	case strings.Contains(target, ","):
		for _, name := range strings.Split(target, ",") {
			if name = strings.TrimSpace(name); name != "" && table.IsSet(name) {
				return true
			}
		}
		return false
	case strings.Contains(target, "+"):
		for _, name := range strings.Split(target, "+") {
			if name = strings.TrimSpace(name); name != "" && !table.IsSet(name) {
				return false
			}
		}
		return true
	default:
		return table.IsSet(target)
	}
}

// evaluate runs an ifeval comparison. Operands are quoted strings, numbers,
// booleans or bare words after attribute references are resolved.
func (pp *preprocessor) evaluate(lineno int, expr string) bool {
	expr = pp.st.subs.Apply(strings.TrimSpace(expr), attributeSubs)
	m := ifevalRx.FindStringSubmatch(expr)
	if m == nil {
		pp.st.warn(lineno, diagnostics.CodeUnsupportedIfeval, "malformed preprocessor directive - invalid expression: ifeval::[%s]", expr)
		return false
	}
	lhs, rhs := evalOperand(m[1]), evalOperand(m[3])
	op := m[2]

	ln, lok := lhs.(float64)
	rn, rok := rhs.(float64)
	if lok && rok {
		switch op {
		case "==":
			return ln == rn
		case "!=":
			return ln != rn
		case "<":
			return ln < rn
		case "<=":
			return ln <= rn
		case ">":
			return ln > rn
		default:
			return ln >= rn
		}
	}

	ls, lstr := lhs.(string)
	rs, rstr := rhs.(string)
	switch op {
	case "==":
		return lhs == rhs
	case "!=":
		return lhs != rhs
	}
	if !lstr || !rstr {
		pp.st.warn(lineno, diagnostics.CodeUnsupportedIfeval, "ifeval comparison %q is not supported between these operands", op)
		return false
	}
	switch op {
	case "<":
		return ls < rs
	case "<=":
		return ls <= rs
	case ">":
		return ls > rs
	default:
		return ls >= rs
	}
}

func evalOperand(raw string) any {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
		return raw[1 : len(raw)-1]
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	case "", "nil":
		return nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

func (pp *preprocessor) include(r *reader, ln line, sig lexer.Signature) {
	st := pp.st
	target := strings.TrimSpace(st.subs.Apply(sig.Target, attributeSubs))
	if target == "" {
		st.warn(ln.no, diagnostics.CodeIncludeUnresolved, "include dropped because resolved target is blank: include::%s[%s]", sig.Target, sig.Attrs)
		r.remove()
		return
	}
	if ln.depth >= st.maxIncludeDepth() {
		st.warn(ln.no, diagnostics.CodeIncludeDepth, "maximum include depth of %d exceeded: %s", st.maxIncludeDepth(), target)
		r.remove()
		return
	}
	attrs := attrlist.Parse(sig.Attrs).Map()

	resolver := st.p.resolver
	if resolver == nil {
		st.warn(ln.no, diagnostics.CodeIncludeUnresolved, "include directive left unresolved, no include resolver configured: %s", target)
		r.lines[r.pos].text = "link:" + target + "[role=include]"
		return
	}
	content, err := resolver.ResolveInclude(st.ctx, target, attrs)
	if err != nil {
		st.warn(ln.no, diagnostics.CodeIncludeUnresolved, "include file not found: %s (%v)", target, err)
		r.lines[r.pos].text = "Unresolved directive in " + st.sourceName() + " - include::" + sig.Target + "[" + sig.Attrs + "]"
		return
	}
	content = filterInclude(content, attrs)

	spliced := make([]line, len(content))
	for i, text := range content {
		spliced[i] = line{text: strings.TrimRight(text, "\r"), no: ln.no, depth: ln.depth + 1}
	}
	r.replace(spliced)
}

// finish reports conditionals left open at the end of the document.
func (pp *preprocessor) finish() {
	if pp.done {
		return
	}
	pp.done = true
	for _, c := range pp.conds {
		pp.st.warn(c.line, diagnostics.CodeUnterminatedIf, "unterminated preprocessor conditional directive: %s", c.name)
	}
	pp.conds = nil
}

// filterInclude applies the lines and tag(s) include attributes.
func filterInclude(content []string, attrs map[string]string) []string {
	if spec, ok := attrs["lines"]; ok && strings.TrimSpace(spec) != "" {
		return selectLines(content, spec)
	}
	tags := attrs["tags"]
	if tag, ok := attrs["tag"]; ok {
		tags = tag
	}
	if strings.TrimSpace(tags) == "" {
		return content
	}
	return selectTags(content, tags)
}

// selectLines keeps the ranges of a "1..3;5;7..-1" spec. Commas work as
// separators too.
func selectLines(content []string, spec string) []string {
	keep := make([]bool, len(content))
	for _, part := range strings.FieldsFunc(spec, func(r rune) bool { return r == ';' || r == ',' }) {
		part = strings.TrimSpace(part)
		from, to := part, part
		if i := strings.Index(part, ".."); i >= 0 {
			from, to = part[:i], part[i+2:]
		}
		start, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil || start < 1 {
			continue
		}
		end, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			continue
		}
		if end < 0 || end > len(content) {
			end = len(content)
		}
		for i := start; i <= end; i++ {
			keep[i-1] = true
		}
	}
	var out []string
	for i, text := range content {
		if keep[i] {
			out = append(out, text)
		}
	}
	return out
}

// selectTags keeps the lines inside the named tag regions. "**" keeps every
// line; tag marker lines are always dropped.
func selectTags(content []string, tags string) []string {
	wanted := make(map[string]struct{})
	all := false
	for _, tag := range strings.FieldsFunc(tags, func(r rune) bool { return r == ';' || r == ',' }) {
		tag = strings.TrimSpace(tag)
		if tag == "**" || tag == "*" {
			all = true
			continue
		}
		wanted[tag] = struct{}{}
	}
	var out []string
	open := map[string]int{}
	active := 0
	for _, text := range content {
		if m := tagLineRx.FindStringSubmatch(text); m != nil {
			if _, ok := wanted[m[2]]; ok {
				if m[1] == "tag" {
					open[m[2]]++
					active++
				} else if open[m[2]] > 0 {
					open[m[2]]--
					active--
				}
			}
			continue
		}
		if all || active > 0 {
			out = append(out, text)
		}
	}
	return out
}
