package util

import (
	stdErrors "errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kapu/imas-line-bot-go/pkg/errors"
)

func newTestBreaker(threshold int, timeout time.Duration, now *time.Time) *CircuitBreaker {
	cb := NewCircuitBreaker("test", threshold, timeout, slog.New(slog.NewTextHandler(io.Discard, nil)))
	cb.now = func() time.Time { return *now }
	return cb
}

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(2, 30*time.Second, &now)

	cb.RecordFailure()
	if err := cb.Allow(); err != nil {
		t.Fatalf("expected closed breaker after one failure, got %v", err)
	}

	cb.RecordFailure()
	err := cb.Allow()
	var openErr *errors.CircuitOpenError
	if !stdErrors.As(err, &openErr) {
		t.Fatalf("expected CircuitOpenError, got %v", err)
	}
	if openErr.RetryAfterMs != 30000 {
		t.Fatalf("unexpected retry after: %d", openErr.RetryAfterMs)
	}
	if status := cb.GetStatus(); status.State != CircuitStateOpen || status.NextRetryTime == nil {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(1, 10*time.Second, &now)

	cb.RecordFailure()
	if err := cb.Allow(); err == nil {
		t.Fatalf("expected open breaker")
	}

	now = now.Add(11 * time.Second)
	if err := cb.Allow(); err != nil {
		t.Fatalf("expected half-open breaker to allow, got %v", err)
	}
	if cb.GetStatus().State != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state")
	}

	cb.RecordSuccess()
	if status := cb.GetStatus(); status.State != CircuitStateClosed || status.FailureCount != 0 {
		t.Fatalf("unexpected status after recovery: %+v", status)
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(3, 10*time.Second, &now)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordFailure()
	now = now.Add(time.Minute)
	if err := cb.Allow(); err != nil {
		t.Fatalf("expected half-open allow, got %v", err)
	}

	cb.RecordFailure()
	if err := cb.Allow(); err == nil {
		t.Fatalf("expected breaker to reopen after half-open failure")
	}

	cb.Reset()
	if err := cb.Allow(); err != nil {
		t.Fatalf("expected reset breaker to allow, got %v", err)
	}
}
