package parsecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	parseDocumentMessageType = "asciidoc.parse_document"
	parseFileMessageType     = "asciidoc.parse_file"
)

var doctypes = []any{"article", "book", "inline", "manpage"}

// ParseDocumentCommand parses in-memory source text.
type ParseDocumentCommand struct {
	// Name labels the source in diagnostics and the document cache key.
	Name string `json:"name,omitempty"`
	// Content is the AsciiDoc source.
	Content string `json:"content"`
	// Doctype locks the doctype attribute when set.
	Doctype string `json:"doctype,omitempty"`
	// Attributes are API attributes applied on top of the configured ones.
	Attributes map[string]string `json:"attributes,omitempty"`
	// HeaderOnly stops after the document header.
	HeaderOnly bool `json:"header_only,omitempty"`
}

// Type implements command.Message.
func (ParseDocumentCommand) Type() string { return parseDocumentMessageType }

// Validate ensures there is something to parse and the options are usable.
func (cmd ParseDocumentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Content, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" && strings.TrimSpace(cmd.Name) == "" {
				return validation.NewError("asciidoc.parse_document.content_required", "content or name is required")
			}
			return nil
		})),
		validation.Field(&cmd.Doctype, validation.In(doctypes...)),
		validation.Field(&cmd.Attributes, validation.By(validAttributeNames)),
	)
}

// ParseFileCommand parses a file read through the configured filesystem.
type ParseFileCommand struct {
	// Path is slash separated and relative to the filesystem root.
	Path       string            `json:"path"`
	Doctype    string            `json:"doctype,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	HeaderOnly bool              `json:"header_only,omitempty"`
}

// Type implements command.Message.
func (ParseFileCommand) Type() string { return parseFileMessageType }

// Validate ensures the path is present and stays inside the filesystem root.
func (cmd ParseFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(func(value any) error {
			path := strings.TrimSpace(value.(string))
			if path == "" {
				return validation.NewError("asciidoc.parse_file.path_required", "path is required")
			}
			if strings.HasPrefix(path, "/") || path == ".." || strings.HasPrefix(path, "../") || strings.Contains(path, "/../") {
				return validation.NewError("asciidoc.parse_file.path_escapes", "path must stay inside the filesystem root")
			}
			return nil
		})),
		validation.Field(&cmd.Doctype, validation.In(doctypes...)),
		validation.Field(&cmd.Attributes, validation.By(validAttributeNames)),
	)
}

func validAttributeNames(value any) error {
	attrs, _ := value.(map[string]string)
	for name := range attrs {
		if strings.Trim(strings.TrimSpace(name), "!") == "" {
			return validation.NewError("asciidoc.parse.attribute_name", "attribute names cannot be blank")
		}
	}
	return nil
}
