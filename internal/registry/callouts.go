package registry

import "fmt"

// Callout links a callout marker in a verbatim block to its list item.
type Callout struct {
	Ordinal int
	ID      string
}

// Callouts groups callout markers by the callout list that explains them.
// Markers register into the current list until NextList is called.
type Callouts struct {
	lists [][]Callout
}

// NewCallouts returns a registry positioned on the first list.
func NewCallouts() *Callouts {
	return &Callouts{lists: [][]Callout{nil}}
}

// Register records a marker with the given ordinal and returns its id
// ("CO<list>-<n>").
func (c *Callouts) Register(ordinal int) string {
	cur := len(c.lists) - 1
	id := fmt.Sprintf("CO%d-%d", cur+1, len(c.lists[cur])+1)
	c.lists[cur] = append(c.lists[cur], Callout{Ordinal: ordinal, ID: id})
	return id
}

// IDs returns the ids of the markers in the current list with ordinal.
func (c *Callouts) IDs(ordinal int) []string {
	var out []string
	for _, co := range c.lists[len(c.lists)-1] {
		if co.Ordinal == ordinal {
			out = append(out, co.ID)
		}
	}
	return out
}

// Current returns the markers registered for the current list.
func (c *Callouts) Current() []Callout {
	return append([]Callout(nil), c.lists[len(c.lists)-1]...)
}

// NextList closes the current list; later markers belong to the next one.
func (c *Callouts) NextList() {
	c.lists = append(c.lists, nil)
}
