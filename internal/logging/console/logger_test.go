package console_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/internal/logging/console"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("asciidoc.parser")
	logger = logging.WithFields(logger, map[string]any{"module": "asciidoc.parser"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"correlation_id": "req-1234",
	})
	logger = logger.WithContext(ctx)

	sourceID := uuid.MustParse("8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999")
	logger.Info("parse finished",
		"source_id", sourceID,
		"diagnostics", 2,
		"source", "docs/user guide.adoc",
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z INFO parse finished correlation_id=req-1234 diagnostics=2 logger=asciidoc.parser module=asciidoc.parser source="docs/user guide.adoc" source_id=8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("asciidoc.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
	if strings.Contains(lines[0], "ignored.debug") {
		t.Fatalf("unexpected debug log present: %s", lines[0])
	}
}

func TestConsoleLogger_SourceLocation(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	provider := console.NewProvider(console.Options{Writer: &buf, TimeFunc: func() time.Time { return now }})

	logger := logging.WithLine(logging.WithDocumentContext(provider.GetLogger("asciidoc.parser"), "guide.adoc", ""), 12)
	logger.Warn("unterminated listing block", "code", "unterminated-block", "dangling")

	want := `2024-03-14T00:00:00Z WARN guide.adoc:12: unterminated listing block !BADKEY=dangling code=unterminated-block logger=asciidoc.parser`
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf, Format: console.FormatJSON})

	ctx := logging.ContextWithSource(context.Background(), "guide.adoc")
	provider.GetLogger("asciidoc").WithContext(ctx).Error("parse failed", "problems", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v (%s)", err, buf.String())
	}
	if entry["level"] != "ERROR" || entry["msg"] != "parse failed" {
		t.Fatalf("entry = %v", entry)
	}
	if entry["source"] != "guide.adoc" || entry["problems"] != float64(3) || entry["logger"] != "asciidoc" {
		t.Fatalf("fields = %v", entry)
	}
}

func TestParseFormat(t *testing.T) {
	if f, ok := console.ParseFormat(""); !ok || f != console.FormatText {
		t.Fatalf("empty format = %q, %v", f, ok)
	}
	if f, ok := console.ParseFormat(" JSON "); !ok || f != console.FormatJSON {
		t.Fatalf("json format = %q, %v", f, ok)
	}
	if _, ok := console.ParseFormat("pretty"); ok {
		t.Fatal("pretty is not a console format")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want console.Level
		ok   bool
	}{
		{"trace", console.LevelTrace, true},
		{" WARNING ", console.LevelWarn, true},
		{"error", console.LevelError, true},
		{"loud", console.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := console.ParseLevel(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseLevel(%q) = %v, %v", tt.name, got, ok)
		}
	}
}

func TestDiagnosticWriter(t *testing.T) {
	var buf bytes.Buffer
	sink := console.NewDiagnosticWriter(&buf, interfaces.SeverityWarning)

	sink.Report(interfaces.Diagnostic{Severity: interfaces.SeverityInfo, Message: "skipped"})
	sink.Report(interfaces.Diagnostic{Severity: interfaces.SeverityWarning, Source: "guide.adoc", Line: 7, Message: "unterminated listing block"})
	sink.Report(interfaces.Diagnostic{Severity: interfaces.SeverityError, Message: "no line"})

	want := "guide.adoc:7: WARN unterminated listing block\n<stdin>: ERROR no line\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
	if sink.Reported() != 2 {
		t.Fatalf("reported = %d", sink.Reported())
	}
}
