package substitution

import (
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// Preset substitution groups.
var (
	NormalSubs = []interfaces.Substitution{
		interfaces.SubSpecialCharacters,
		interfaces.SubQuotes,
		interfaces.SubAttributes,
		interfaces.SubReplacements,
		interfaces.SubMacros,
		interfaces.SubPostReplacements,
	}
	VerbatimSubs = []interfaces.Substitution{
		interfaces.SubSpecialCharacters,
		interfaces.SubCallouts,
	}
	// TitleSubs apply to section and block titles.
	TitleSubs = NormalSubs
	// HeaderSubs apply to the document header and attribute entry values.
	HeaderSubs = []interfaces.Substitution{
		interfaces.SubSpecialCharacters,
		interfaces.SubAttributes,
	}
	PassSubs = []interfaces.Substitution{}
	NoSubs   = []interfaces.Substitution{}
)

var subAliases = map[string]interfaces.Substitution{
	"a":                 interfaces.SubAttributes,
	"attributes":        interfaces.SubAttributes,
	"m":                 interfaces.SubMacros,
	"macros":            interfaces.SubMacros,
	"p":                 interfaces.SubPostReplacements,
	"post_replacements": interfaces.SubPostReplacements,
	"q":                 interfaces.SubQuotes,
	"quotes":            interfaces.SubQuotes,
	"r":                 interfaces.SubReplacements,
	"replacements":      interfaces.SubReplacements,
	"c":                 interfaces.SubSpecialCharacters,
	"specialchars":      interfaces.SubSpecialCharacters,
	"specialcharacters": interfaces.SubSpecialCharacters,
	"callouts":          interfaces.SubCallouts,
}

// Group expands a substitution name, alias or group (normal, verbatim, none,
// pass) into the passes it stands for.
func Group(name string) ([]interfaces.Substitution, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "n", "normal":
		return clone(NormalSubs), true
	case "v", "verbatim":
		return clone(VerbatimSubs), true
	case "none", "pass":
		return []interfaces.Substitution{}, true
	}
	if sub, ok := subAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return []interfaces.Substitution{sub}, true
	}
	return nil, false
}

// ResolveSubs parses a subs attribute value against defaults. A list made of
// plain names replaces the defaults; when the first entry is an increment
// (+name appends, name+ prepends, -name removes) the defaults are the start.
// Unknown names are returned separately so the caller can report them.
func ResolveSubs(spec string, defaults []interfaces.Substitution) ([]interfaces.Substitution, []string) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return clone(defaults), nil
	}
	var (
		result  []interfaces.Substitution
		unknown []string
	)
	for i, raw := range strings.Split(spec, ",") {
		key := strings.TrimSpace(raw)
		if key == "" {
			continue
		}
		op := byte(0)
		switch {
		case strings.HasPrefix(key, "+"):
			op, key = '+', key[1:]
		case strings.HasPrefix(key, "-"):
			op, key = '-', key[1:]
		case strings.HasSuffix(key, "+"):
			op, key = '<', key[:len(key)-1]
		}
		if i == 0 && op != 0 {
			result = clone(defaults)
		}
		group, ok := Group(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		switch op {
		case '+':
			result = append(result, group...)
		case '<':
			result = append(group, result...)
		case '-':
			result = without(result, group)
		default:
			result = append(result, group...)
		}
	}
	if result == nil {
		result = []interfaces.Substitution{}
	}
	return dedupe(result), unknown
}

func clone(subs []interfaces.Substitution) []interfaces.Substitution {
	return append([]interfaces.Substitution{}, subs...)
}

func without(subs, remove []interfaces.Substitution) []interfaces.Substitution {
	out := subs[:0:0]
	for _, s := range subs {
		if !hasSub(remove, s) {
			out = append(out, s)
		}
	}
	return out
}

func dedupe(subs []interfaces.Substitution) []interfaces.Substitution {
	out := make([]interfaces.Substitution, 0, len(subs))
	for _, s := range subs {
		if !hasSub(out, s) {
			out = append(out, s)
		}
	}
	return out
}
