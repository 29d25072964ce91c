package registry

import "strings"

// Footnote is one numbered footnote.
type Footnote struct {
	Index int
	ID    string
	Text  string
}

// Footnotes is the ordered footnote list of a document.
type Footnotes struct {
	entries []Footnote
	byID    map[string]int
}

// NewFootnotes returns an empty list.
func NewFootnotes() *Footnotes {
	return &Footnotes{byID: make(map[string]int)}
}

// Add appends a footnote and returns its index. A footnote whose id was
// already registered is not duplicated; the existing index is returned.
func (f *Footnotes) Add(id, text string) int {
	id = strings.TrimSpace(id)
	if id != "" {
		if idx, ok := f.byID[id]; ok {
			return idx
		}
	}
	idx := len(f.entries) + 1
	f.entries = append(f.entries, Footnote{Index: idx, ID: id, Text: text})
	if id != "" {
		f.byID[id] = idx
	}
	return idx
}

// Ref returns the index of the footnote registered under id.
func (f *Footnotes) Ref(id string) (int, bool) {
	idx, ok := f.byID[strings.TrimSpace(id)]
	return idx, ok
}

// Entries returns the footnotes in index order.
func (f *Footnotes) Entries() []Footnote {
	return append([]Footnote(nil), f.entries...)
}

// Len returns the number of footnotes.
func (f *Footnotes) Len() int { return len(f.entries) }
