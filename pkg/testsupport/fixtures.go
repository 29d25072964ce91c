package testsupport

import (
	"encoding/json"
	"os"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// OutlineEntry is one structural node in a golden outline.
type OutlineEntry struct {
	Depth   int    `json:"depth"`
	Context string `json:"context"`
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
}

// Outline flattens root into document order. Only documents and sections
// are descended into; their direct children are listed but not expanded.
func Outline(root interfaces.Node) []OutlineEntry {
	var out []OutlineEntry
	var visit func(n interfaces.Node, depth int)
	visit = func(n interfaces.Node, depth int) {
		out = append(out, OutlineEntry{
			Depth:   depth,
			Context: n.Context(),
			ID:      n.ID(),
			Title:   n.Title(),
		})
		switch n.Kind() {
		case interfaces.KindDocument, interfaces.KindSection:
			for _, child := range n.Children() {
				visit(child, depth+1)
			}
		}
	}
	if root != nil {
		visit(root, 0)
	}
	return out
}
