package sections

import (
	"github.com/goliatone/go-asciidoc/internal/ast"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// validate enforces where abstract and partintro content may appear and
// that book parts hold sections. Misplaced content is reported and emptied.
func (e *Engine) validate(doc *ast.Document, reporter Reporter) {
	book := doc.Doctype() == "book"
	ast.Walk(doc, func(n interfaces.Node) bool {
		switch node := n.(type) {
		case *ast.Section:
			e.validateSection(node, book, reporter)
		case *ast.Block:
			e.validateBlock(node, book, reporter)
		}
		return true
	})
}

func (e *Engine) validateSection(s *ast.Section, book bool, reporter Reporter) {
	switch s.Sectname {
	case "abstract":
		if book {
			reporter.Warn(s.Lineno(), diagnostics.CodeInvalidAbstract, "abstract section is only valid in article doctype, dropping content: %s", s.RawTitle())
			s.SetBlocks(nil)
		}
	case "partintro":
		if !isFirstChildOfPart(s) {
			reporter.Warn(s.Lineno(), diagnostics.CodeInvalidPartintro, "partintro section can only be used as the first child of a book part, dropping content: %s", s.RawTitle())
			s.SetBlocks(nil)
		}
	}
	if s.Level == 0 && book {
		if len(s.Sections()) == 0 {
			reporter.Warn(s.Lineno(), diagnostics.CodeInvalidPart, "invalid part, must have at least one section (e.g., chapter, appendix, etc.): %s", s.RawTitle())
		}
		wrapPartintro(s)
	}
}

func (e *Engine) validateBlock(b *ast.Block, book bool, reporter Reporter) {
	switch b.Style {
	case "abstract":
		if book || !isTopLevel(b) {
			reporter.Warn(b.Lineno(), diagnostics.CodeInvalidAbstract, "abstract block can only be used as a top-level block in an article, dropping content")
			dropContent(b)
		}
	case "partintro":
		if !book || !isFirstChildOfPart(b) {
			reporter.Warn(b.Lineno(), diagnostics.CodeInvalidPartintro, "partintro block can only be used as the first child of a book part, dropping content")
			dropContent(b)
		}
	}
}

// isTopLevel reports whether node sits directly in the document body or in
// its preamble.
func isTopLevel(node interfaces.Node) bool {
	parent := node.Parent()
	if pre, ok := parent.(*ast.Block); ok && pre.BlockKind == interfaces.BlockPreamble {
		parent = pre.Parent()
	}
	doc, ok := parent.(*ast.Document)
	return ok && !doc.Nested()
}

func isFirstChildOfPart(node interfaces.Node) bool {
	part, ok := node.Parent().(*ast.Section)
	if !ok || part.Level != 0 {
		return false
	}
	children := part.Children()
	return len(children) > 0 && children[0] == node
}

// wrapPartintro moves the blocks a part holds before its first chapter into
// a partintro open block, unless they already are one.
func wrapPartintro(part *ast.Section) {
	children := part.Children()
	lead := 0
	for lead < len(children) {
		if _, ok := children[lead].(*ast.Section); ok {
			break
		}
		lead++
	}
	if lead == 0 {
		return
	}
	if lead == 1 {
		if b, ok := children[0].(*ast.Block); ok && b.Style == "partintro" {
			return
		}
	}
	intro := ast.NewBlock(interfaces.BlockOpen, children[0].Lineno())
	intro.Style = "partintro"
	intro.SetAttr("style", "partintro")
	intro.SetBlocks(append([]interfaces.Node(nil), children[:lead]...))
	rest := append([]interfaces.Node{intro}, children[lead:]...)
	part.SetBlocks(rest)
}

func dropContent(b *ast.Block) {
	b.SetLines(nil)
	b.SetBlocks(nil)
}
