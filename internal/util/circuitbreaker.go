package util

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// CircuitState is the breaker's position.
type CircuitState string

const (
	CircuitStateClosed   CircuitState = "CLOSED"    // 정상 작동
	CircuitStateOpen     CircuitState = "OPEN"      // 호출 차단
	CircuitStateHalfOpen CircuitState = "HALF_OPEN" // 복구 시도 중
)

func (s CircuitState) String() string {
	return string(s)
}

// HealthCheckFunction probes whether the protected upstream has recovered.
type HealthCheckFunction func() bool

// CircuitBreakerStatus is a point-in-time snapshot for callers that surface
// breaker state in error messages.
type CircuitBreakerStatus struct {
	State         CircuitState
	FailureCount  int
	NextRetryTime *time.Time
}

// CircuitBreaker guards the generation providers. Consecutive failures open
// the circuit; recovery is probe-driven when a health check is configured,
// otherwise time-based. Rate-limit failures pass a longer custom timeout so
// the breaker does not hammer a throttling provider.
type CircuitBreaker struct {
	state               CircuitState
	failureCount        int
	failureThreshold    int
	resetTimeout        time.Duration
	nextRetryTime       time.Time
	nextHealthCheckTime time.Time
	healthCheckInterval time.Duration
	isHealthChecking    bool
	healthCheckFn       HealthCheckFunction
	logger              *zap.Logger
	mu                  sync.RWMutex
}

func NewCircuitBreaker(
	failureThreshold int,
	resetTimeout time.Duration,
	healthCheckInterval time.Duration,
	healthCheckFn HealthCheckFunction,
	logger *zap.Logger,
) *CircuitBreaker {
	return &CircuitBreaker{
		state:               CircuitStateClosed,
		failureThreshold:    failureThreshold,
		resetTimeout:        resetTimeout,
		healthCheckInterval: healthCheckInterval,
		healthCheckFn:       healthCheckFn,
		logger:              logger,
	}
}

// GetState returns the current state, kicking off a recovery probe when the
// circuit is open and the probe window has arrived.
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitStateOpen {
		now := time.Now()
		if cb.healthCheckFn != nil && now.After(cb.nextHealthCheckTime) && !cb.isHealthChecking {
			go cb.probeHealth()
		} else if cb.healthCheckFn == nil && now.After(cb.nextRetryTime) {
			cb.transitionTo(CircuitStateHalfOpen)
		}
	}

	return cb.state
}

// CanExecute reports whether a call may proceed.
func (cb *CircuitBreaker) CanExecute() bool {
	return cb.GetState() != CircuitStateOpen
}

// RecordSuccess resets the failure count and closes a half-open circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch {
	case cb.state == CircuitStateHalfOpen:
		cb.logger.Info("서킷 브레이커: 업스트림 복구 확인, CLOSED 전환")
		cb.transitionTo(CircuitStateClosed)
		cb.failureCount = 0
	case cb.failureCount > 0:
		cb.failureCount = 0
	}
}

// RecordFailure counts a failed call. customTimeout overrides the default
// reset window when the failure cause warrants a longer cooldown.
func (cb *CircuitBreaker) RecordFailure(customTimeout time.Duration) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++

	timeout := cb.resetTimeout
	if customTimeout > 0 {
		timeout = customTimeout
	}

	cb.logger.Warn("서킷 브레이커: 실패 기록",
		zap.Int("count", cb.failureCount),
		zap.Int("threshold", cb.failureThreshold),
		zap.Duration("timeout", timeout),
	)

	// HALF_OPEN에서의 실패는 즉시 재개방
	if cb.state == CircuitStateHalfOpen || cb.failureCount >= cb.failureThreshold {
		cb.transitionTo(CircuitStateOpen)
		cb.nextRetryTime = time.Now().Add(timeout)
		if cb.healthCheckFn != nil {
			cb.nextHealthCheckTime = time.Now().Add(cb.healthCheckInterval)
		}
	}
}

func (cb *CircuitBreaker) probeHealth() {
	cb.mu.Lock()
	if cb.healthCheckFn == nil || cb.isHealthChecking {
		cb.mu.Unlock()
		return
	}
	cb.isHealthChecking = true
	cb.mu.Unlock()

	healthy := cb.healthCheckFn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.isHealthChecking = false

	if healthy {
		cb.logger.Info("서킷 브레이커: 헬스체크 통과, HALF_OPEN 전환")
		cb.transitionTo(CircuitStateHalfOpen)
	} else {
		cb.logger.Warn("서킷 브레이커: 헬스체크 실패, 다음 검사 연기")
		cb.nextHealthCheckTime = time.Now().Add(cb.healthCheckInterval)
	}
}

// transitionTo must be called with the lock held.
func (cb *CircuitBreaker) transitionTo(newState CircuitState) {
	oldState := cb.state
	cb.state = newState

	cb.logger.Info("서킷 브레이커: 상태 전환",
		zap.String("from", oldState.String()),
		zap.String("to", newState.String()),
		zap.Int("failure_count", cb.failureCount),
	)
}

// Reset forces the circuit closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = CircuitStateClosed
	cb.failureCount = 0
	cb.nextRetryTime = time.Time{}
}

// GetStatus snapshots the breaker.
func (cb *CircuitBreaker) GetStatus() CircuitBreakerStatus {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	status := CircuitBreakerStatus{
		State:        cb.state,
		FailureCount: cb.failureCount,
	}
	if cb.state == CircuitStateOpen {
		retry := cb.nextRetryTime
		status.NextRetryTime = &retry
	}
	return status
}
