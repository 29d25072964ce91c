package commands

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
)

// TelemetryStatus classifies a command outcome.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to the telemetry callback once per execution.
// Logger already carries Fields.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry observes command outcomes.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs each outcome. With a nil logger it uses the logger
// carried by the outcome, so handler fields are kept.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logger
		if entry == nil {
			entry = EnsureLogger(info.Logger)
		} else {
			entry = logging.WithFields(entry, info.Fields)
		}

		args := []any{"status", string(info.Status), "duration_ms", info.Duration.Milliseconds()}
		if info.Status == TelemetryStatusSuccess {
			entry.Info("command.execute.success", args...)
			return
		}
		if code := errorCode(info.Error); code != "" {
			args = append(args, "code", code)
		}
		args = append(args, "error", info.Error)
		if info.Status == TelemetryStatusContextError {
			entry.Warn("command.execute.context_error", args...)
			return
		}
		entry.Error("command.execute.failed", args...)
	}
}

// errorCode returns the go-errors text code of the outermost categorised error.
func errorCode(err error) string {
	var wrapped *goerrors.Error
	if errors.As(err, &wrapped) {
		return wrapped.TextCode
	}
	return ""
}
