// Package frontmatter strips a YAML (---) or TOML (+++) block from the top of
// a source text and exposes it as document attributes.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// AttributeName holds the raw front matter text on the document.
const AttributeName = "front-matter"

var ErrDecode = errors.New("frontmatter: decode failed")

// FrontMatter is the decoded block. Raw keeps every key as decoded; the typed
// fields are lifted from well known keys.
type FrontMatter struct {
	Title       string
	Author      string
	Description string
	Keywords    []string
	Tags        []string
	Date        time.Time
	Draft       bool
	// Attributes come from an "attributes" mapping and are applied verbatim.
	Attributes map[string]string
	Raw        map[string]any
	// Text is the block content without delimiters.
	Text string
	// Lines counts the source lines the block occupied, delimiters included.
	Lines int
}

// Found reports whether a block was present.
func (fm FrontMatter) Found() bool {
	return fm.Lines > 0
}

type capture struct {
	raw  map[string]any
	text []byte
	seen bool
}

func (c *capture) decoder(unmarshal frontmatter.UnmarshalFunc) frontmatter.UnmarshalFunc {
	return func(data []byte, _ any) error {
		c.seen = true
		c.text = append([]byte(nil), data...)
		raw := map[string]any{}
		if err := unmarshal(data, &raw); err != nil {
			return err
		}
		c.raw = raw
		return nil
	}
}

// Parse splits source into its front matter and body. The body keeps one
// blank line for every stripped line so line numbers still match the input.
// A missing or unterminated block returns the source untouched.
func Parse(source []byte) (FrontMatter, []byte, error) {
	c := &capture{}
	formats := []*frontmatter.Format{
		frontmatter.NewFormat("---", "---", c.decoder(yaml.Unmarshal)),
		frontmatter.NewFormat("+++", "+++", c.decoder(toml.Unmarshal)),
	}

	body, err := frontmatter.Parse(bytes.NewReader(source), nil, formats...)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if !c.seen || !bytes.HasSuffix(source, body) {
		return FrontMatter{}, source, nil
	}

	consumed := source[:len(source)-len(body)]
	lines := bytes.Count(consumed, []byte("\n"))
	if len(consumed) > 0 && consumed[len(consumed)-1] != '\n' {
		lines++
	}

	fm := fromRaw(c.raw)
	fm.Text = strings.TrimRight(string(c.text), "\n")
	fm.Lines = lines

	padded := make([]byte, 0, lines+len(body))
	padded = append(padded, bytes.Repeat([]byte("\n"), lines)...)
	padded = append(padded, body...)
	return fm, padded, nil
}

func fromRaw(raw map[string]any) FrontMatter {
	if raw == nil {
		raw = map[string]any{}
	}
	fm := FrontMatter{
		Title:       stringValue(raw["title"]),
		Author:      stringValue(raw["author"]),
		Description: stringValue(raw["description"]),
		Keywords:    stringList(raw["keywords"]),
		Tags:        stringList(raw["tags"]),
		Date:        timeValue(raw["date"]),
		Raw:         raw,
	}
	if draft, ok := raw["draft"].(bool); ok {
		fm.Draft = draft
	}
	if attrs, ok := raw["attributes"].(map[string]any); ok {
		fm.Attributes = make(map[string]string, len(attrs))
		for k, v := range attrs {
			if set, ok := v.(bool); ok && !set {
				continue
			}
			fm.Attributes[k] = scalar(v)
		}
	}
	return fm
}

// DocumentAttributes maps the block onto document attributes: the raw text
// under front-matter, description, keywords, author and revdate from the
// matching keys, and the attributes mapping verbatim. Title is left to the
// document header.
func (fm FrontMatter) DocumentAttributes() map[string]string {
	if !fm.Found() {
		return nil
	}
	out := map[string]string{AttributeName: fm.Text}
	if fm.Description != "" {
		out["description"] = fm.Description
	}
	if len(fm.Keywords) > 0 {
		out["keywords"] = strings.Join(fm.Keywords, ", ")
	}
	if fm.Author != "" {
		out["author"] = fm.Author
	}
	if !fm.Date.IsZero() {
		out["revdate"] = fm.Date.Format("2006-01-02")
	}
	for k, v := range fm.Attributes {
		out[k] = v
	}
	return out
}

// Keys returns the top level keys in sorted order.
func (fm FrontMatter) Keys() []string {
	keys := make([]string, 0, len(fm.Raw))
	for k := range fm.Raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return scalar(val)
	}
}

func stringList(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case string:
		var out []string
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func timeValue(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, strings.TrimSpace(val)); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return ""
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
