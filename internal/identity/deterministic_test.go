package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUID_Deterministic(t *testing.T) {
	a := UUID("go-asciidoc:test:key")
	b := UUID("go-asciidoc:test:key")
	if a == uuid.Nil || a != b {
		t.Fatalf("UUID() not deterministic: %s vs %s", a, b)
	}
	if UUID("   ") != uuid.Nil {
		t.Fatalf("blank key should map to uuid.Nil")
	}
}

func TestSourceUUID_SensitiveToWhitespace(t *testing.T) {
	if SourceUUID("a\n") == SourceUUID("a") {
		t.Fatalf("SourceUUID should differ for different text")
	}
	if SourceUUID("") != uuid.Nil {
		t.Fatalf("empty source should map to uuid.Nil")
	}
}

func TestDocumentUUID_OptionOrderIndependent(t *testing.T) {
	src := SourceUUID("= Title")
	first := DocumentUUID(src, map[string]string{"doctype": "book", "sectnums": ""})
	second := DocumentUUID(src, map[string]string{"sectnums": "", "doctype": "book"})
	if first != second {
		t.Fatalf("DocumentUUID should not depend on map order")
	}
	if first == DocumentUUID(src, map[string]string{"doctype": "article"}) {
		t.Fatalf("DocumentUUID should depend on options")
	}
	if DocumentUUID(uuid.Nil, nil) != uuid.Nil {
		t.Fatalf("nil source should map to uuid.Nil")
	}
}
