// Package cache provides the process-wide caches shared across parses. Both
// caches are safe for concurrent use and are injected by the caller.
package cache

import (
	"errors"
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultPatternSize bounds the pattern cache when no size is configured.
const DefaultPatternSize = 256

// ErrInvalidSize indicates a non-positive cache size.
var ErrInvalidSize = errors.New("cache: size must be positive")

// Patterns caches dynamically built regular expressions such as table cell
// separators. Compile failures are cached too.
type Patterns struct {
	lru *lru.Cache[string, any]
}

// NewPatterns returns a pattern cache holding up to size expressions.
func NewPatterns(size int) (*Patterns, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	c, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &Patterns{lru: c}, nil
}

// Compile works like regexp.Compile, storing the result or error.
func (p *Patterns) Compile(expr string) (*regexp.Regexp, error) {
	if p == nil {
		return regexp.Compile(expr)
	}
	if v, ok := p.lru.Get(expr); ok {
		switch cached := v.(type) {
		case *regexp.Regexp:
			return cached, nil
		case error:
			return nil, cached
		}
	}
	rx, err := regexp.Compile(expr)
	if err != nil {
		p.lru.Add(expr, err)
		return nil, err
	}
	p.lru.Add(expr, rx)
	return rx, nil
}

// MustCompile is Compile for expressions built from quoted input.
func (p *Patterns) MustCompile(expr string) *regexp.Regexp {
	rx, err := p.Compile(expr)
	if err != nil {
		panic(err)
	}
	return rx
}

// Len returns the number of cached expressions.
func (p *Patterns) Len() int {
	if p == nil {
		return 0
	}
	return p.lru.Len()
}
