// Package registry holds the document-scoped id catalog and footnote list.
package registry

import (
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// Entry is a registered id.
type Entry struct {
	ID      string
	Reftext string
	Node    interfaces.Node
}

// IDs maps ids to the node they name. Duplicate registrations replace the
// previous entry; the caller reports the collision.
type IDs struct {
	entries map[string]Entry
	order   []string
}

// NewIDs returns an empty catalog.
func NewIDs() *IDs {
	return &IDs{entries: make(map[string]Entry)}
}

// Register records id and reports whether an earlier entry was replaced.
func (r *IDs) Register(id, reftext string, node interfaces.Node) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	_, replaced := r.entries[id]
	if !replaced {
		r.order = append(r.order, id)
	}
	r.entries[id] = Entry{ID: id, Reftext: strings.TrimSpace(reftext), Node: node}
	return replaced
}

// Resolve returns the text used when cross referencing id: the explicit
// reftext, else the title of the registered node. The second result is false
// when id is unknown.
func (r *IDs) Resolve(id string) (string, bool) {
	entry, ok := r.entries[strings.TrimSpace(id)]
	if !ok {
		return "", false
	}
	if entry.Reftext != "" {
		return entry.Reftext, true
	}
	if entry.Node != nil {
		return entry.Node.Title(), true
	}
	return "", true
}

// Lookup returns the full entry for id.
func (r *IDs) Lookup(id string) (Entry, bool) {
	entry, ok := r.entries[strings.TrimSpace(id)]
	return entry, ok
}

// Has reports whether id is registered.
func (r *IDs) Has(id string) bool {
	_, ok := r.entries[strings.TrimSpace(id)]
	return ok
}

// IDs returns registered ids in first-registration order.
func (r *IDs) IDs() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered ids.
func (r *IDs) Len() int { return len(r.order) }
