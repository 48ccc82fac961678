package util

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kapu/imas-line-bot-go/pkg/errors"
)

// CircuitState: 서킷 브레이커의 상태 (닫힘, 열림, 반열림)
type CircuitState string

// CircuitState 상수 목록.
const (
	// CircuitStateClosed: 정상 작동 상태 (요청 허용)
	CircuitStateClosed CircuitState = "CLOSED"
	// CircuitStateOpen: 연속 실패 임계치 초과로 인한 차단 상태 (요청 거부)
	CircuitStateOpen CircuitState = "OPEN"
	// CircuitStateHalfOpen: 복구 시도 중인 상태 (시험 요청 1건 허용)
	CircuitStateHalfOpen CircuitState = "HALF_OPEN"
)

func (s CircuitState) String() string {
	return string(s)
}

// CircuitBreaker: 외부 엔드포인트 장애가 봇 전체로 번지지 않도록 요청을 일시 차단한다.
// 연속 실패가 임계치에 도달하면 resetTimeout 동안 Open, 이후 Half-Open에서 한 번 시도한다.
type CircuitBreaker struct {
	name             string
	state            CircuitState
	failureCount     int
	failureThreshold int
	resetTimeout     time.Duration
	openUntil        time.Time
	now              func() time.Time
	logger           *slog.Logger
	mu               sync.Mutex
}

// NewCircuitBreaker: 새로운 서킷 브레이커 인스턴스를 생성한다.
func NewCircuitBreaker(name string, failureThreshold int, resetTimeout time.Duration, logger *slog.Logger) *CircuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	if failureThreshold <= 0 {
		failureThreshold = 1
	}
	return &CircuitBreaker{
		name:             name,
		state:            CircuitStateClosed,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		now:              time.Now,
		logger:           logger,
	}
}

// Allow: 요청 실행 가능 여부를 확인한다.
// Open 상태면 *errors.CircuitOpenError를 반환하고, 대기 시간이 지났으면 Half-Open으로 전환하여 허용한다.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != CircuitStateOpen {
		return nil
	}

	now := cb.now()
	if now.Before(cb.openUntil) {
		return &errors.CircuitOpenError{RetryAfterMs: cb.openUntil.Sub(now).Milliseconds()}
	}

	cb.transitionTo(CircuitStateHalfOpen)
	return nil
}

// RecordSuccess: 요청 성공을 기록한다. Half-Open이었다면 Closed로 복구한다.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitStateHalfOpen {
		cb.logger.Info("Circuit breaker recovered", slog.String("name", cb.name))
		cb.transitionTo(CircuitStateClosed)
	}
	cb.failureCount = 0
}

// RecordFailure: 요청 실패를 기록한다.
// Half-Open에서 실패하거나 실패 횟수가 임계치에 도달하면 Open으로 전환한다.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++

	cb.logger.Warn("Circuit breaker failure recorded",
		slog.String("name", cb.name),
		slog.Int("count", cb.failureCount),
		slog.Int("threshold", cb.failureThreshold),
	)

	if cb.state == CircuitStateHalfOpen || cb.failureCount >= cb.failureThreshold {
		cb.openUntil = cb.now().Add(cb.resetTimeout)
		cb.transitionTo(CircuitStateOpen)
	}
}

func (cb *CircuitBreaker) transitionTo(newState CircuitState) {
	oldState := cb.state
	cb.state = newState

	nextRetry := "n/a"
	if newState == CircuitStateOpen {
		nextRetry = cb.openUntil.Format(time.RFC3339)
	}

	cb.logger.Info("Circuit breaker state transition",
		slog.String("name", cb.name),
		slog.String("from", oldState.String()),
		slog.String("to", newState.String()),
		slog.Int("failure_count", cb.failureCount),
		slog.String("next_retry", nextRetry),
	)
}

// Reset: 서킷 브레이커 상태를 강제로 초기화(Closed, 실패 횟수 0)한다.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = CircuitStateClosed
	cb.failureCount = 0
	cb.openUntil = time.Time{}
}

// GetStatus: 모니터링을 위해 현재 상태 스냅샷을 반환한다.
func (cb *CircuitBreaker) GetStatus() CircuitBreakerStatus {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	status := CircuitBreakerStatus{
		Name:         cb.name,
		State:        cb.state,
		FailureCount: cb.failureCount,
	}
	if cb.state == CircuitStateOpen {
		next := cb.openUntil
		status.NextRetryTime = &next
	}
	return status
}

// CircuitBreakerStatus: 서킷 브레이커의 상세 상태 정보 (스냅샷)
type CircuitBreakerStatus struct {
	Name          string       `json:"name"`
	State         CircuitState `json:"state"`
	FailureCount  int          `json:"failure_count"`
	NextRetryTime *time.Time   `json:"next_retry_time,omitempty"`
}
