package parser

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const parseFailedCode = "ASCIIDOC_PARSE_FAILED"

// Problem codes carried by fatal parse problems.
const (
	ProblemTableCells  = "table-cell-count"
	ProblemTableCSV    = "table-csv"
	ProblemInvalidLang = "invalid-lang"
)

// ErrParseFailed is the sentinel matched by errors.Is for every fatal parse.
var ErrParseFailed = errors.New("parser: document could not be parsed")

// Problem is one fatal finding with its source position. Column is 1-based
// and zero when the whole line is at fault.
type Problem struct {
	Line    int
	Column  int
	Code    string
	Message string
}

func (p Problem) String() string {
	switch {
	case p.Line > 0 && p.Column > 0:
		return fmt.Sprintf("line %d, column %d: %s", p.Line, p.Column, p.Message)
	case p.Line > 0:
		return fmt.Sprintf("line %d: %s", p.Line, p.Message)
	default:
		return p.Message
	}
}

// ParseError collects every fatal problem found in a document. The parser
// keeps going after the first one so all offending rows are reported.
type ParseError struct {
	Source   string
	Problems []Problem
}

func (e *ParseError) Error() string {
	if len(e.Problems) == 0 {
		return ErrParseFailed.Error()
	}
	source := e.Source
	if source == "" {
		source = "<stdin>"
	}
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s: %s", source, strings.Join(parts, "; "))
}

func (e *ParseError) Is(target error) bool { return target == ErrParseFailed }

// Lines returns the source line of every problem, in report order.
func (e *ParseError) Lines() []int {
	out := make([]int, len(e.Problems))
	for i, p := range e.Problems {
		out[i] = p.Line
	}
	return out
}

func wrapParseError(err *ParseError) error {
	if err == nil || len(err.Problems) == 0 {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "asciidoc parse failed").
		WithTextCode(parseFailedCode).
		WithMetadata(map[string]any{
			"source":   err.Source,
			"problems": len(err.Problems),
		})
}
