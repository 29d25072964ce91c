package parsecmd

import "testing"

func TestParseDocumentCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     ParseDocumentCommand
		wantErr bool
	}{
		{name: "empty", cmd: ParseDocumentCommand{}, wantErr: true},
		{name: "content", cmd: ParseDocumentCommand{Content: "= Title"}},
		{name: "named empty source", cmd: ParseDocumentCommand{Name: "empty.adoc"}},
		{name: "bad doctype", cmd: ParseDocumentCommand{Content: "x", Doctype: "letter"}, wantErr: true},
		{name: "book", cmd: ParseDocumentCommand{Content: "x", Doctype: "book"}},
		{name: "blank attribute", cmd: ParseDocumentCommand{Content: "x", Attributes: map[string]string{"!": ""}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseFileCommandValidate(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{path: "", wantErr: true},
		{path: "  ", wantErr: true},
		{path: "docs/guide.adoc"},
		{path: "/etc/passwd", wantErr: true},
		{path: "../secret.adoc", wantErr: true},
		{path: "docs/../../secret.adoc", wantErr: true},
	}
	for _, tt := range tests {
		err := ParseFileCommand{Path: tt.path}.Validate()
		if tt.wantErr && err == nil {
			t.Fatalf("path %q: expected validation error", tt.path)
		}
		if !tt.wantErr && err != nil {
			t.Fatalf("path %q: unexpected error: %v", tt.path, err)
		}
	}
}

func TestMessageTypes(t *testing.T) {
	if (ParseDocumentCommand{}).Type() != "asciidoc.parse_document" {
		t.Fatalf("unexpected type %q", ParseDocumentCommand{}.Type())
	}
	if (ParseFileCommand{}).Type() != "asciidoc.parse_file" {
		t.Fatalf("unexpected type %q", ParseFileCommand{}.Type())
	}
}
