package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-asciidoc/internal/logging"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// DefaultCommandTimeout bounds a command when no timeout option is given.
const DefaultCommandTimeout = 30 * time.Second

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler runs a command function behind message validation and a timeout,
// and reports every outcome through its telemetry callback. Errors come back
// categorised with go-errors.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
	telemetry Telemetry[T]
}

// NewHandler creates a handler that satisfies go-command's Commander interface.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.telemetry == nil {
		h.telemetry = DefaultTelemetry[T](nil)
	}
	return h
}

// Execute conforms to command.Commander[T].Execute.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	msgType := command.GetMessageType(msg)
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err, msgType)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return wrapContextError(err, msgType)
	}

	info := TelemetryInfo{
		Command:   msgType,
		Operation: h.operation,
		Fields:    h.entryFields(msgType, msg),
	}
	info.Logger = logging.WithFields(h.logger, info.Fields)
	info.Logger.Debug("command.execute.start")

	started := time.Now()
	err := h.exec(ctx, msg)
	info.Duration = time.Since(started)

	switch {
	case err != nil && isContextError(err):
		info.Status, err = TelemetryStatusContextError, wrapContextError(err, msgType)
	case err != nil:
		info.Status, err = TelemetryStatusFailed, wrapExecuteError(err, msgType)
	case ctx.Err() != nil:
		info.Status, err = TelemetryStatusContextError, wrapContextError(ctx.Err(), msgType)
	default:
		info.Status = TelemetryStatusSuccess
	}
	info.Error = err

	h.telemetry(ctx, msg, info)
	return err
}

func (h *Handler[T]) entryFields(msgType string, msg T) map[string]any {
	fields := map[string]any{"command": msgType}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		for k, v := range h.fields(msg) {
			fields[k] = v
		}
	}
	return fields
}

// WithTimeout overrides the default execution timeout. Zero disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger injects the logger used during execution.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = EnsureLogger(logger)
	}
}

// WithOperation sets the operation name emitted with every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields adds per-message structured fields to every log entry.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithTelemetry replaces the outcome logging with fn.
func WithTelemetry[T command.Message](fn Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = fn
	}
}
