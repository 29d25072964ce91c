package frontmatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrSchemaInvalid = errors.New("frontmatter: schema invalid")

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

func (i Issue) String() string {
	location := strings.TrimSpace(i.Location)
	if location == "" {
		location = "#"
	} else if !strings.HasPrefix(location, "#") {
		location = "#" + location
	}
	if i.Message == "" {
		return location
	}
	return fmt.Sprintf("%s: %s", location, i.Message)
}

// Schema validates decoded front matter against a JSON schema (draft 2020-12).
type Schema struct {
	compiled *jsonschema.Schema
}

// CompileSchema compiles a JSON schema document.
func CompileSchema(document []byte) (*Schema, error) {
	if len(bytes.TrimSpace(document)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrSchemaInvalid)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("front-matter.json", bytes.NewReader(document)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile("front-matter.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Schema{compiled: compiled}, nil
}

// CompileSchemaMap compiles a schema held as a decoded map, as it appears in
// configuration files.
func CompileSchemaMap(schema map[string]any) (*Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return CompileSchema(encoded)
}

// Validate returns the violations found in fm. A nil schema accepts
// everything.
func (s *Schema) Validate(fm FrontMatter) []Issue {
	if s == nil || s.compiled == nil {
		return nil
	}
	// YAML and TOML decode dates and integers into Go types the validator
	// does not know, so the payload goes through JSON first.
	payload, err := normalize(fm.Raw)
	if err != nil {
		return []Issue{{Message: err.Error()}}
	}
	if err := s.compiled.Validate(payload); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return collectIssues(verr)
		}
		return []Issue{{Message: err.Error()}}
	}
	return nil
}

func normalize(raw map[string]any) (any, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
