package parser

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goliatone/go-asciidoc/pkg/testsupport"
)

func TestParse_GoldenOutline(t *testing.T) {
	raw, err := testsupport.LoadFixture(filepath.Join("testdata", "outline.adoc"))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	var want []testsupport.OutlineEntry
	if err := testsupport.LoadGolden(filepath.Join("testdata", "outline.golden.json"), &want); err != nil {
		t.Fatalf("load golden: %v", err)
	}

	doc, err := New().Parse(context.Background(), string(raw), Options{Source: "outline.adoc"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := testsupport.Outline(doc); !reflect.DeepEqual(got, want) {
		t.Fatalf("outline mismatch\n got: %+v\nwant: %+v", got, want)
	}
	if len(doc.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", doc.Diagnostics())
	}
}
