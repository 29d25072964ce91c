package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type testMessage struct{}

func (testMessage) Type() string { return "asciidoc.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "asciidoc.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
	var wrapped *goerrors.Error
	if !goerrors.As(err, &wrapped) || wrapped.TextCode != commandContextTimeout {
		t.Fatalf("expected timeout text code, got %v", err)
	}
	if wrapped.Metadata["command"] != "asciidoc.test.message" {
		t.Fatalf("metadata = %v", wrapped.Metadata)
	}
}

func TestHandlerReportsContextErrorsFromExec(t *testing.T) {
	var status TelemetryStatus
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return fmt.Errorf("parse aborted: %w", context.Canceled)
	}, WithTelemetry[testMessage](func(_ context.Context, _ testMessage, info TelemetryInfo) {
		status = info.Status
	}))

	err := h.Execute(context.Background(), testMessage{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
	if status != TelemetryStatusContextError {
		t.Fatalf("status = %q", status)
	}
}

func TestHandlerTelemetryReceivesOutcome(t *testing.T) {
	var got []TelemetryInfo
	telemetry := func(_ context.Context, _ testMessage, info TelemetryInfo) {
		got = append(got, info)
	}
	fail := true
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	},
		WithOperation[testMessage]("parse"),
		WithMessageFields[testMessage](func(testMessage) map[string]any {
			return map[string]any{"source": "guide.adoc"}
		}),
		WithTelemetry[testMessage](telemetry),
	)

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected execution error")
	}
	fail = false
	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 telemetry callbacks, got %d", len(got))
	}
	if got[0].Status != TelemetryStatusFailed || got[0].Error == nil {
		t.Fatalf("first outcome = %+v", got[0])
	}
	if got[1].Status != TelemetryStatusSuccess || got[1].Command != "asciidoc.test.message" {
		t.Fatalf("second outcome = %+v", got[1])
	}
	if got[1].Operation != "parse" || got[1].Fields["source"] != "guide.adoc" {
		t.Fatalf("fields not forwarded: %+v", got[1].Fields)
	}
}

func TestDefaultTelemetryAcceptsNilLogger(t *testing.T) {
	telemetry := DefaultTelemetry[testMessage](nil)
	telemetry(context.Background(), testMessage{}, TelemetryInfo{Status: TelemetryStatusSuccess})
	telemetry(context.Background(), testMessage{}, TelemetryInfo{Status: TelemetryStatusFailed, Error: errors.New("x")})
}
