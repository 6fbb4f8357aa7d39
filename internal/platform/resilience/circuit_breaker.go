package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker shields a remote collaborator from repeated calls while it
// is failing. A nil *CircuitBreaker is valid and never trips; callers that
// run with the breaker disabled keep the same call sites.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig

	state     CircuitState
	failures  int
	openedAt  time.Time
	probes    int
	probeWins int
	now       func() time.Time
}

// NewCircuitBreaker builds a closed breaker from a normalized config. It
// returns nil when the config disables the breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg = NormalizeCircuitBreakerConfig(cfg)
	if !cfg.Enabled {
		return nil
	}

	return &CircuitBreaker{
		cfg:   cfg,
		state: CircuitStateClosed,
		now:   time.Now,
	}
}

// Allow reports whether a call may proceed. While open it rejects with
// ErrCircuitOpen until the open timeout elapses, then admits up to
// HalfOpenMaxReq probe calls.
func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.state = CircuitStateHalfOpen
		b.probes = 0
		b.probeWins = 0
	}

	if b.state == CircuitStateHalfOpen {
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.probeWins++
		if b.probeWins >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
			b.reset()
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case CircuitStateHalfOpen:
		// One failed probe reopens immediately.
		if b.probes > 0 {
			b.probes--
		}
		b.trip()
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}

// State reports the effective state, accounting for an elapsed open timeout
// that Allow has not observed yet. A nil breaker reads as closed.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}

	return b.state
}

func (b *CircuitBreaker) reset() {
	b.state = CircuitStateClosed
	b.failures = 0
	b.probes = 0
	b.probeWins = 0
	b.openedAt = time.Time{}
}

func (b *CircuitBreaker) trip() {
	b.state = CircuitStateOpen
	b.openedAt = b.now()
	b.probes = 0
	b.probeWins = 0
}
