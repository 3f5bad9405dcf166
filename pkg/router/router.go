// Package router balances translation calls across multiple backends,
// tracking per-backend health with a circuit breaker.
package router

import (
	"sync"
	"sync/atomic"
	"time"
)

// State of one backend's circuit breaker.
type State int

const (
	// StateClosed admits all calls.
	StateClosed State = iota

	// StateOpen rejects calls until the recovery timeout has passed.
	StateOpen

	// StateHalfOpen admits a single trial call.
	StateHalfOpen
)

const (
	DefaultFailureThreshold = 5
	DefaultRecoveryTimeout  = 30 * time.Second
)

// Health tracks breaker state and a latency profile for one backend. All
// methods are safe for concurrent use.
type Health struct {
	mu sync.RWMutex

	state               State
	consecutiveFailures int
	lastFailure         time.Time

	avgLatency time.Duration
	requests   int64
	failures   int64

	inflight atomic.Int64
}

func NewHealth() *Health {
	return &Health{
		// Conservative estimate until real calls arrive.
		avgLatency: time.Second,
	}
}

// Snapshot is a point-in-time copy of the health counters.
type Snapshot struct {
	State      State
	AvgLatency time.Duration
	Requests   int64
	Failures   int64
	Inflight   int64
}

func (h *Health) Snapshot() Snapshot {
	h.mu.RLock()

	snapshot := Snapshot{
		State:      h.state,
		AvgLatency: h.avgLatency,
		Requests:   h.requests,
		Failures:   h.failures,
	}

	h.mu.RUnlock()

	snapshot.Inflight = h.inflight.Load()

	return snapshot
}

// Available reports whether the backend may receive a call. An open
// breaker flips to half-open once recoveryTimeout has passed since the
// last failure. A half-open breaker admits one trial call at a time.
func (h *Health) Available(recoveryTimeout time.Duration) bool {
	h.mu.RLock()
	state := h.state
	lastFailure := h.lastFailure
	h.mu.RUnlock()

	switch state {
	case StateOpen:
		if time.Since(lastFailure) < recoveryTimeout {
			return false
		}

		h.mu.Lock()

		if h.state == StateOpen {
			h.state = StateHalfOpen
		}

		h.mu.Unlock()

		return true

	case StateHalfOpen:
		return h.inflight.Load() == 0

	default:
		return true
	}
}

// Succeed records a completed call and folds its latency into the moving
// average. A successful trial call closes the breaker.
func (h *Health) Succeed(latency time.Duration, alpha float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.requests++
	h.consecutiveFailures = 0

	if h.requests == 1 {
		h.avgLatency = latency
	} else {
		h.avgLatency = time.Duration(float64(latency)*alpha + float64(h.avgLatency)*(1-alpha))
	}

	if h.state == StateHalfOpen {
		h.state = StateClosed
	}
}

// Fail records a failed call. The breaker opens after threshold
// consecutive failures, or immediately when a trial call fails.
func (h *Health) Fail(threshold int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.requests++
	h.failures++
	h.consecutiveFailures++
	h.lastFailure = time.Now()

	if h.state == StateHalfOpen || h.consecutiveFailures >= threshold {
		h.state = StateOpen
	}
}

// Probe forces the breaker half-open so the next call is a trial.
func (h *Health) Probe() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = StateHalfOpen
}

func (h *Health) LastFailure() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.lastFailure
}

// Begin marks a call in flight.
func (h *Health) Begin() {
	h.inflight.Add(1)
}

// Done marks a call finished.
func (h *Health) Done() {
	h.inflight.Add(-1)
}

func (h *Health) Inflight() int64 {
	return h.inflight.Load()
}
