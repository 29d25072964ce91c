package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

type includeFetchCommand struct {
	Target string
}

func (includeFetchCommand) Type() string { return "asciidoc.test.include_fetch" }

func (c includeFetchCommand) Validate() error {
	if c.Target == "" {
		return errors.New("target required")
	}
	return nil
}

type slowParseCommand struct{}

func (slowParseCommand) Type() string { return "asciidoc.test.slow_parse" }

func (slowParseCommand) Validate() error { return nil }

type statusRecorder struct {
	mu       sync.Mutex
	statuses []TelemetryStatus
}

func (r *statusRecorder) record(info TelemetryInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, info.Status)
}

func (r *statusRecorder) snapshot() []TelemetryStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TelemetryStatus(nil), r.statuses...)
}

func TestDispatcherRetriesTransientIncludeFailure(t *testing.T) {
	t.Parallel()

	var targets []string
	rec := &statusRecorder{}
	handler := NewHandler(func(ctx context.Context, msg includeFetchCommand) error {
		targets = append(targets, msg.Target)
		if len(targets) == 1 {
			return errors.New("include source temporarily unavailable")
		}
		return nil
	},
		WithTimeout[includeFetchCommand](time.Second),
		WithTelemetry[includeFetchCommand](func(_ context.Context, _ includeFetchCommand, info TelemetryInfo) {
			rec.record(info)
		}),
	)

	sub := dispatcher.SubscribeCommand[includeFetchCommand](handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), includeFetchCommand{Target: "chapter.adoc"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if len(targets) != 2 || targets[1] != "chapter.adoc" {
		t.Fatalf("targets = %q", targets)
	}
	got := rec.snapshot()
	if len(got) != 2 || got[0] != TelemetryStatusFailed || got[1] != TelemetryStatusSuccess {
		t.Fatalf("statuses = %v", got)
	}
}

func TestDispatcherSurfacesHandlerTimeout(t *testing.T) {
	t.Parallel()

	rec := &statusRecorder{}
	handler := NewHandler(func(ctx context.Context, _ slowParseCommand) error {
		<-ctx.Done()
		return ctx.Err()
	},
		WithTimeout[slowParseCommand](5*time.Millisecond),
		WithTelemetry[slowParseCommand](func(_ context.Context, _ slowParseCommand, info TelemetryInfo) {
			rec.record(info)
		}),
	)

	sub := dispatcher.SubscribeCommand[slowParseCommand](handler)
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), slowParseCommand{}); err == nil {
		t.Fatal("expected dispatch to fail once the handler deadline passes")
	}
	got := rec.snapshot()
	if len(got) == 0 || got[0] != TelemetryStatusContextError {
		t.Fatalf("statuses = %v", got)
	}
}
