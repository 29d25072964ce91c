package parser

import (
	"strings"
)

// line is one source line with its 1-based number. Lines spliced in by an
// include keep the number of the include directive.
type line struct {
	text  string
	no    int
	depth int
}

// reader is the line cursor. The top-level reader runs the preprocessor
// lazily as lines are peeked, so conditionals see attributes defined
// earlier in the document. Readers over delimited block content reuse lines
// that were already preprocessed.
type reader struct {
	lines   []line
	pos     int
	checked int
	pp      *preprocessor
}

func splitSource(source string) []line {
	source = strings.TrimPrefix(source, "\ufeff")
	if source == "" {
		return nil
	}
	raw := strings.Split(source, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	out := make([]line, len(raw))
	for i, text := range raw {
		out[i] = line{text: strings.TrimRight(text, "\r"), no: i + 1}
	}
	return out
}

func newReader(lines []line) *reader {
	return &reader{lines: lines}
}

func (r *reader) peek() (line, bool) {
	for r.pos < len(r.lines) {
		if r.pp == nil || r.pos < r.checked {
			return r.lines[r.pos], true
		}
		if r.pp.process(r) {
			continue
		}
		r.checked = r.pos + 1
		return r.lines[r.pos], true
	}
	if r.pp != nil {
		r.pp.finish()
	}
	return line{}, false
}

func (r *reader) next() (line, bool) {
	ln, ok := r.peek()
	if ok {
		r.pos++
	}
	return ln, ok
}

// back steps over the line returned by the last next call.
func (r *reader) back() {
	if r.pos > 0 {
		r.pos--
	}
}

func (r *reader) eof() bool {
	_, ok := r.peek()
	return !ok
}

// peekAhead returns the line after the next one without consuming either.
func (r *reader) peekAhead() (line, bool) {
	if _, ok := r.next(); !ok {
		return line{}, false
	}
	ln, ok := r.peek()
	r.back()
	return ln, ok
}

// skipBlank consumes blank lines and reports how many were skipped.
func (r *reader) skipBlank() int {
	n := 0
	for {
		ln, ok := r.peek()
		if !ok || strings.TrimSpace(ln.text) != "" {
			return n
		}
		r.pos++
		n++
	}
}

// lineNo returns the number of the next line, or of the last line at EOF.
func (r *reader) lineNo() int {
	if ln, ok := r.peek(); ok {
		return ln.no
	}
	if len(r.lines) > 0 {
		return r.lines[len(r.lines)-1].no
	}
	return 0
}

// remove drops the line under the cursor; used by the preprocessor.
func (r *reader) remove() {
	r.lines = append(r.lines[:r.pos], r.lines[r.pos+1:]...)
}

// replace swaps the line under the cursor for lines.
func (r *reader) replace(lines []line) {
	tail := append([]line(nil), r.lines[r.pos+1:]...)
	r.lines = append(append(r.lines[:r.pos], lines...), tail...)
}

func texts(lines []line) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = ln.text
	}
	return out
}
