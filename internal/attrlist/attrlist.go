// Package attrlist parses the positional and named attribute-list grammar
// shared by block attribute lines and macro brackets.
package attrlist

import (
	"strconv"
	"strings"
)

// Attr is one entry of an attribute list. Position is 1-based for positional
// entries and 0 for named ones.
type Attr struct {
	Name     string
	Value    string
	Position int
	Quoted   byte
}

// List is a parsed attribute list in source order.
type List struct {
	entries    []Attr
	positional int
}

// Parse reads a comma separated attribute list. Values may be wrapped in
// double or single quotes; a backslash escapes the enclosing quote.
func Parse(source string) List {
	var list List
	s := &scanner{src: source}
	for {
		s.skipSpace()
		if s.eof() {
			// a trailing comma leaves an empty positional slot
			if s.sawComma {
				list.positional++
			}
			return list
		}
		list.parseEntry(s)
		s.skipSpace()
		if s.eof() {
			return list
		}
		if s.peek() == ',' {
			s.pos++
			s.sawComma = true
			continue
		}
		// stray characters after a quoted value run to the next comma
		s.until(',')
	}
}

func (l *List) parseEntry(s *scanner) {
	if q := s.peek(); q == '"' || q == '\'' {
		value, ok := s.quoted(q)
		if ok {
			l.positional++
			l.entries = append(l.entries, Attr{Value: value, Position: l.positional, Quoted: q})
			return
		}
	}

	start := s.pos
	raw := s.untilAny(",=")
	if !s.eof() && s.peek() == '=' {
		s.pos++
		name := strings.TrimSpace(raw)
		if !isName(name) {
			s.pos = start
			l.appendPositional(strings.TrimSpace(s.until(',')))
			return
		}
		s.skipSpace()
		var quote byte
		var value string
		if q := s.peek(); !s.eof() && (q == '"' || q == '\'') {
			v, ok := s.quoted(q)
			if ok {
				value, quote = v, q
			} else {
				value = strings.TrimSpace(s.until(','))
			}
		} else {
			value = strings.TrimSpace(s.until(','))
		}
		l.entries = append(l.entries, Attr{Name: strings.ToLower(name), Value: value, Quoted: quote})
		return
	}
	l.appendPositional(strings.TrimSpace(raw))
}

func (l *List) appendPositional(value string) {
	l.positional++
	if value == "" {
		return
	}
	l.entries = append(l.entries, Attr{Value: value, Position: l.positional})
}

// Entries returns the parsed entries in source order.
func (l List) Entries() []Attr {
	return append([]Attr(nil), l.entries...)
}

// Len returns the number of non-empty entries.
func (l List) Len() int { return len(l.entries) }

// Positional returns the positional value at index (1-based).
func (l List) Positional(index int) (string, bool) {
	for _, e := range l.entries {
		if e.Position == index {
			return e.Value, true
		}
	}
	return "", false
}

// PositionalCount returns the number of positional slots, empty ones included.
func (l List) PositionalCount() int { return l.positional }

// Named returns the value of a named entry; later entries win.
func (l List) Named(name string) (string, bool) {
	name = strings.ToLower(name)
	value, found := "", false
	for _, e := range l.entries {
		if e.Position == 0 && e.Name == name {
			value, found = e.Value, true
		}
	}
	return value, found
}

// Map flattens the list. Positional entries are stored under their index
// ("1", "2", ...) and, when posattrs names the slot, under that name too.
// Named entries override positional aliases.
func (l List) Map(posattrs ...string) map[string]string {
	out := make(map[string]string, len(l.entries)*2)
	for _, e := range l.entries {
		if e.Position == 0 {
			continue
		}
		out[strconv.Itoa(e.Position)] = e.Value
		if e.Position <= len(posattrs) && posattrs[e.Position-1] != "" {
			out[posattrs[e.Position-1]] = e.Value
		}
	}
	for _, e := range l.entries {
		if e.Position == 0 {
			out[e.Name] = e.Value
		}
	}
	return out
}

func isName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

type scanner struct {
	src      string
	pos      int
	sawComma bool
}

func (s *scanner) eof() bool  { return s.pos >= len(s.src) }
func (s *scanner) peek() byte { return s.src[s.pos] }

func (s *scanner) skipSpace() {
	for !s.eof() && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

func (s *scanner) until(stop byte) string {
	start := s.pos
	for !s.eof() && s.src[s.pos] != stop {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) untilAny(stops string) string {
	start := s.pos
	for !s.eof() && strings.IndexByte(stops, s.src[s.pos]) < 0 {
		s.pos++
	}
	return s.src[start:s.pos]
}

// quoted reads a value enclosed in q. When the closing quote is missing the
// scanner is left untouched and ok is false.
func (s *scanner) quoted(q byte) (string, bool) {
	start := s.pos
	var b strings.Builder
	for i := s.pos + 1; i < len(s.src); i++ {
		c := s.src[i]
		if c == '\\' && i+1 < len(s.src) && s.src[i+1] == q {
			b.WriteByte(q)
			i++
			continue
		}
		if c == q {
			s.pos = i + 1
			return b.String(), true
		}
		b.WriteByte(c)
	}
	s.pos = start
	return "", false
}
