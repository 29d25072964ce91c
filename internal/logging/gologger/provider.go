// Package gologger backs the asciidoc logging contracts with
// github.com/goliatone/go-logger.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// Config mirrors the logging section of the engine configuration.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus limits output to the named modules (asciidoc.parser, ...).
	Focus []string
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// Provider hands out one go-logger child per module name.
type Provider struct {
	root *glog.BaseLogger
}

// NewProvider builds the root go-logger. JSON is the default format.
func NewProvider(cfg Config) (*Provider, error) {
	var options []glog.Option
	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	var focus []string
	for _, name := range cfg.Focus {
		if name = strings.TrimSpace(name); name != "" {
			focus = append(focus, name)
		}
	}
	if len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

// GetLogger returns the child logger for module name, or the root logger
// when name is blank.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

// adapter forwards to go-logger. When the inner logger cannot hold fields,
// they are carried in args and prepended to every call.
type adapter struct {
	inner glog.Logger
	args  []any
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, l.with(args)...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, l.with(args)...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, l.with(args)...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, l.with(args)...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, l.with(args)...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, l.with(args)...) }

func (l *adapter) with(args []any) []any {
	if len(l.args) == 0 {
		return args
	}
	return append(slices.Clone(l.args), args...)
}

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	if fl, ok := l.inner.(glog.FieldsLogger); ok {
		return &adapter{inner: fl.WithFields(maps.Clone(fields)), args: l.args}
	}
	args := slices.Clone(l.args)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, k, fields[k])
	}
	return &adapter{inner: l.inner, args: args}
}

// WithContext binds ctx and applies the logging fields it carries, such as
// the document source.
func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	bound := &adapter{inner: l.inner.WithContext(ctx), args: l.args}
	if fields := logging.ContextFields(ctx); len(fields) > 0 {
		return bound.WithFields(fields)
	}
	return bound
}
