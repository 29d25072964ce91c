package attrlist

import "strings"

// Shorthand is the decoded form of a first positional attribute such as
// "source#listing-1.lead.code%linenums".
type Shorthand struct {
	Style   string
	ID      string
	Roles   []string
	Options []string
}

// ParseShorthand splits a first positional value on the id (#), role (.)
// and option (%) markers. Values without markers are a plain style.
func ParseShorthand(value string) Shorthand {
	var sh Shorthand
	value = strings.TrimSpace(value)
	if !strings.ContainsAny(value, "#.%") {
		sh.Style = value
		return sh
	}

	marker := byte(0)
	start := 0
	flush := func(end int) {
		part := strings.TrimSpace(value[start:end])
		switch marker {
		case 0:
			sh.Style = part
		case '#':
			if part != "" {
				sh.ID = part
			}
		case '.':
			if part != "" {
				sh.Roles = append(sh.Roles, part)
			}
		case '%':
			if part != "" {
				sh.Options = append(sh.Options, part)
			}
		}
	}
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '#', '.', '%':
			flush(i)
			marker = value[i]
			start = i + 1
		}
	}
	flush(len(value))
	return sh
}

// Block resolves a block attribute list into the attribute map attached to
// the next node. The first positional value is decoded as shorthand; roles
// and options from every source are merged into "role" and "options", and
// each option also sets "<name>-option".
func Block(source string, posattrs ...string) map[string]string {
	list := Parse(source)
	out := list.Map(posattrs...)

	var roles, options []string
	if first, ok := list.Positional(1); ok {
		sh := ParseShorthand(first)
		if sh.Style != "" {
			out["style"] = sh.Style
			out["1"] = sh.Style
		} else {
			delete(out, "style")
			delete(out, "1")
		}
		if sh.ID != "" {
			out["id"] = sh.ID
		}
		roles = append(roles, sh.Roles...)
		options = append(options, sh.Options...)
	}
	if named, ok := list.Named("id"); ok && named != "" {
		out["id"] = named
	}
	if named, ok := list.Named("role"); ok {
		roles = append(roles, strings.Fields(named)...)
	}
	for _, key := range []string{"options", "opts"} {
		if named, ok := list.Named(key); ok {
			options = append(options, SplitOptions(named)...)
		}
	}
	delete(out, "opts")

	if len(roles) > 0 {
		out["role"] = strings.Join(roles, " ")
	}
	if len(options) > 0 {
		out["options"] = strings.Join(options, ",")
		for _, opt := range options {
			out[opt+"-option"] = ""
		}
	}
	return out
}

// SplitOptions splits a comma separated options value.
func SplitOptions(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Merge folds next into base the way consecutive block attribute lines
// combine: keys overwrite, roles and options accumulate.
func Merge(base, next map[string]string) map[string]string {
	if base == nil {
		base = make(map[string]string, len(next))
	}
	for key, value := range next {
		switch key {
		case "role":
			if prev, ok := base[key]; ok && prev != "" {
				value = joinUnique(strings.Fields(prev), strings.Fields(value), " ")
			}
		case "options":
			if prev, ok := base[key]; ok && prev != "" {
				value = joinUnique(SplitOptions(prev), SplitOptions(value), ",")
			}
		}
		base[key] = value
	}
	return base
}

func joinUnique(a, b []string, sep string) string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, v := range append(a, b...) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return strings.Join(out, sep)
}
