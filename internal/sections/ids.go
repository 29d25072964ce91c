package sections

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/attributes"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/internal/registry"
)

const (
	defaultIDPrefix    = "_"
	defaultIDSeparator = "_"
)

// assignIDs gives every section an id and registers it. Explicit ids are
// kept; the others are generated from the title when sectids is set.
func (e *Engine) assignIDs(doc *ast.Document, reporter Reporter) int {
	table := doc.Table()
	ids := doc.IDs()
	generate := table.IsSet("sectids")
	count := 0

	each(doc, func(s *ast.Section) {
		reftext, _ := s.Attr("reftext")
		if s.ExplicitID || s.ID() != "" {
			s.ExplicitID = true
			if ids.Register(s.ID(), reftext, s) {
				reporter.Warn(s.Lineno(), diagnostics.CodeDuplicateID, "id assigned to section already in use: %s", s.ID())
			}
			count++
			return
		}
		if !generate {
			return
		}
		id := e.GenerateID(e.titleText(s), table, ids)
		if id == "" {
			return
		}
		s.SetID(id)
		ids.Register(id, reftext, s)
		count++
	})
	return count
}

// GenerateID builds a section id from title: the idprefix, then the slug of
// the title joined with idseparator. A taken id gets a numeric suffix
// ("_intro_2").
func (e *Engine) GenerateID(title string, table *attributes.Table, ids *registry.IDs) string {
	prefix := table.Value("idprefix", defaultIDPrefix)
	sep := table.Value("idseparator", defaultIDSeparator)

	body := e.slugify(stripMarkup(title), sep)
	if body == "" {
		return ""
	}
	base := prefix + body
	if !unicode.IsLetter(firstRune(base)) && base[0] != '_' && base[0] != ':' {
		// ids must start with a letter or underscore
		base = "_" + base
	}
	id := base
	if ids == nil {
		return id
	}
	for n := 2; ids.Has(id); n++ {
		id = base + sep + strconv.Itoa(n)
		if sep == "" {
			id = base + "_" + strconv.Itoa(n)
		}
	}
	return id
}

func (e *Engine) slugify(title, sep string) string {
	normalized, err := e.normalizer.Normalize(title)
	if err != nil || normalized == "" {
		normalized = strings.ToLower(title)
	}
	var b strings.Builder
	pending := false
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteString(sep)
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pending = true
	}
	return b.String()
}

// stripMarkup removes character references and inline tags so they do not
// leak into the generated id.
func stripMarkup(title string) string {
	var b strings.Builder
	for i := 0; i < len(title); i++ {
		switch c := title[i]; c {
		case '<':
			if end := strings.IndexByte(title[i:], '>'); end > 0 {
				i += end
				b.WriteByte(' ')
				continue
			}
		case '&':
			if end := strings.IndexByte(title[i:], ';'); end > 1 && end < 10 {
				i += end
				b.WriteByte(' ')
				continue
			}
		}
		b.WriteByte(title[i])
	}
	return b.String()
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
