// Package console writes log entries as single lines, either logfmt-like text
// or JSON objects. When an entry carries both a source and a line field the
// text form prints them as a compiler-style location before the message.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// Level is the severity of an entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// Format selects the line encoding.
type Format string

const (
	FormatText Format = "console"
	FormatJSON Format = "json"
)

// ParseFormat maps a configuration value onto a Format. Empty means text.
func ParseFormat(name string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return FormatText, true
	case FormatJSON:
		return FormatJSON, true
	default:
		return FormatText, false
	}
}

// Options configures the console logger provider.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
	Format   Format
}

// badKey holds a trailing argument that has no value pair.
const badKey = "!BADKEY"

type sink struct {
	mu       sync.Mutex
	w        io.Writer
	now      func() time.Time
	minLevel Level
	format   Format
}

// NewProvider returns a provider whose loggers share one writer. Defaults:
// stdout, DEBUG and text format.
func NewProvider(opts Options) interfaces.LoggerProvider {
	s := &sink{
		w:        opts.Writer,
		now:      opts.TimeFunc,
		minLevel: LevelDebug,
		format:   opts.Format,
	}
	if s.w == nil {
		s.w = os.Stdout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.MinLevel != nil {
		s.minLevel = *opts.MinLevel
	}
	if s.format == "" {
		s.format = FormatText
	}
	return s
}

func (s *sink) GetLogger(name string) interfaces.Logger {
	return &logger{sink: s, fields: map[string]any{"logger": name}}
}

type logger struct {
	sink   *sink
	fields map[string]any
	ctx    context.Context
}

var (
	_ interfaces.Logger       = (*logger)(nil)
	_ interfaces.FieldsLogger = (*logger)(nil)
)

func (l *logger) Trace(msg string, args ...any) { l.write(LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.write(LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.write(LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.write(LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.write(LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.write(LevelFatal, msg, args) }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)
	return &logger{sink: l.sink, fields: merged, ctx: l.ctx}
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	return &logger{sink: l.sink, fields: l.fields, ctx: ctx}
}

func (l *logger) write(level Level, msg string, args []any) {
	if l.sink == nil || level < l.sink.minLevel {
		return
	}

	fields := maps.Clone(l.fields)
	if fields == nil {
		fields = map[string]any{}
	}
	maps.Copy(fields, logging.ContextFields(l.ctx))
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields[badKey] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
	}

	ts := l.sink.now().UTC()
	var line string
	if l.sink.format == FormatJSON {
		line = encodeJSON(ts, level, msg, fields)
	} else {
		line = encodeText(ts, level, msg, fields)
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	// best effort: a failing writer must not fail the parse
	_, _ = io.WriteString(l.sink.w, line+"\n")
}

// location pulls source and line out of fields when both are present.
func location(fields map[string]any) string {
	source, ok := fields["source"].(string)
	if !ok || source == "" {
		return ""
	}
	line, ok := fields["line"].(int)
	if !ok || line <= 0 {
		return ""
	}
	delete(fields, "source")
	delete(fields, "line")
	return source + ":" + strconv.Itoa(line)
}

func encodeText(ts time.Time, level Level, msg string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString(ts.Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(level.String())
	if loc := location(fields); loc != "" {
		b.WriteByte(' ')
		b.WriteString(quote(loc))
		b.WriteByte(':')
	}
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(textValue(fields[key]))
	}
	return b.String()
}

func encodeJSON(ts time.Time, level Level, msg string, fields map[string]any) string {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = jsonValue(v)
	}
	entry["time"] = ts.Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	data, err := json.Marshal(entry)
	if err != nil {
		return encodeText(ts, level, msg, fields)
	}
	return string(data)
}

func jsonValue(v any) any {
	switch val := v.(type) {
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	default:
		return v
	}
}

func textValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return quote(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case error:
		return quote(val.Error())
	case fmt.Stringer:
		return quote(val.String())
	case bool:
		return strconv.FormatBool(val)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return quote(fmt.Sprint(val))
	}
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
