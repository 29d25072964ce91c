package parsecmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/commands"
	"github.com/goliatone/go-asciidoc/internal/commands/fixtures"
	"github.com/goliatone/go-asciidoc/internal/parser"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

type stubService struct {
	files map[string]string
	calls []Request
	err   error
}

func (s *stubService) ParseSource(ctx context.Context, req Request) (*ast.Document, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return parser.New().Parse(ctx, req.Content, parser.Options{
		Source:     req.Name,
		Doctype:    req.Doctype,
		Attributes: req.Attributes,
		HeaderOnly: req.HeaderOnly,
	})
}

func (s *stubService) ParseFile(ctx context.Context, req Request) (*ast.Document, error) {
	content, ok := s.files[req.Path]
	if !ok {
		s.calls = append(s.calls, req)
		return nil, errors.New("file not found")
	}
	req.Content = content
	return s.ParseSource(ctx, req)
}

type captureLogger struct {
	fields       []map[string]any
	infoMessages []string
}

var _ interfaces.Logger = (*captureLogger)(nil)

func (c *captureLogger) Trace(string, ...any) {}
func (c *captureLogger) Debug(string, ...any) {}
func (c *captureLogger) Info(msg string, _ ...any) {
	c.infoMessages = append(c.infoMessages, msg)
}
func (c *captureLogger) Warn(string, ...any)  {}
func (c *captureLogger) Error(string, ...any) {}
func (c *captureLogger) Fatal(string, ...any) {}

func (c *captureLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	c.fields = append(c.fields, copied)
	return c
}

func (c *captureLogger) WithContext(context.Context) interfaces.Logger {
	return c
}

func TestParseDocumentHandlerInvokesService(t *testing.T) {
	service := &stubService{}
	logger := &captureLogger{}
	var got *ast.Document
	handler := NewParseDocumentHandler(service, logger, func(_ context.Context, doc *ast.Document) {
		got = doc
	})

	cmd := ParseDocumentCommand{
		Name:       "guide.adoc",
		Content:    "= Guide\n\n== One\n\ntext\n",
		Attributes: map[string]string{"icons": "font"},
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute parse document: %v", err)
	}
	if len(service.calls) != 1 || service.calls[0].Name != "guide.adoc" {
		t.Fatalf("unexpected calls %+v", service.calls)
	}
	if got == nil || got.Title() != "Guide" {
		t.Fatalf("result not delivered: %v", got)
	}
	if v, _ := got.Attr("icons"); v != "font" {
		t.Fatalf("attributes not forwarded, icons = %q", v)
	}

	found := false
	for _, fields := range logger.fields {
		if count, ok := fields["section_count"]; ok {
			found = true
			if count != 1 {
				t.Fatalf("expected section_count 1, got %v", count)
			}
		}
	}
	if !found {
		t.Fatalf("expected summary fields recorded, got %#v", logger.fields)
	}
}

func TestParseDocumentHandlerValidationFailure(t *testing.T) {
	service := &stubService{}
	handler := NewParseDocumentHandler(service, nil, nil)

	err := handler.Execute(context.Background(), ParseDocumentCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.calls) != 0 {
		t.Fatalf("service should not be called")
	}
}

func TestParseDocumentHandlerKeepsParseErrorCategory(t *testing.T) {
	handler := NewParseDocumentHandler(&stubService{}, nil, nil)

	err := handler.Execute(context.Background(), ParseDocumentCommand{
		Content: "|===\n|a |b\n|c\n|d |e |f\n|===\n",
	})
	if !errors.Is(err, parser.ErrParseFailed) {
		t.Fatalf("expected ErrParseFailed, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		t.Fatalf("expected bad input category to survive, got %v", err)
	}
}

func TestParseDocumentHandlerContextCancellation(t *testing.T) {
	service := &stubService{}
	handler := NewParseDocumentHandler(service, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := handler.Execute(ctx, ParseDocumentCommand{Content: "text"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if len(service.calls) != 0 {
		t.Fatalf("service should not be called")
	}
}

func TestParseFileHandler(t *testing.T) {
	service := &stubService{files: map[string]string{"docs/a.adoc": "= A\n"}}
	var titles []string
	handler := NewParseFileHandler(service, nil, func(_ context.Context, doc *ast.Document) {
		titles = append(titles, doc.Title())
	})

	if err := handler.Execute(context.Background(), ParseFileCommand{Path: "docs/a.adoc"}); err != nil {
		t.Fatalf("execute parse file: %v", err)
	}
	if len(titles) != 1 || titles[0] != "A" {
		t.Fatalf("titles = %q", titles)
	}

	err := handler.Execute(context.Background(), ParseFileCommand{Path: "docs/missing.adoc"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for missing file, got %v", err)
	}
}

func TestRegisterParseCommands(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	applied := false

	set, err := RegisterParseCommands(reg, &stubService{}, nil,
		WithDocumentHandlerOptions(func(h *commands.Handler[ParseDocumentCommand]) {
			applied = true
		}),
	)
	if err != nil {
		t.Fatalf("register parse commands: %v", err)
	}
	if !applied {
		t.Fatal("expected document handler options applied")
	}
	if len(reg.Handlers) != 2 || reg.Handlers[0] != set.Document || reg.Handlers[1] != set.File {
		t.Fatalf("unexpected registrations %#v", reg.Handlers)
	}

	if _, err := RegisterParseCommands(reg, nil, nil); err == nil {
		t.Fatal("expected error for nil service")
	}

	reg.Err = errors.New("registry closed")
	if _, err := RegisterParseCommands(reg, &stubService{}, nil); err == nil {
		t.Fatal("expected registry error to propagate")
	}
}
