// Package status tracks the single process-wide indicator surfaced to the
// UI, the badge equivalent. It never blocks and keeps only the latest state.
package status

import (
	"sync"
)

type Code string

const (
	CodeClear Code = "clear"

	// Informational outcomes of a successful handshake round-trip.
	CodeProcessing Code = "processing"
	CodeNoImages   Code = "no-images"

	// Error states.
	CodeError           Code = "error"
	CodePeerUnreachable Code = "peer-unreachable"
	CodeDiscoveryFailed Code = "discovery-failed"
	CodeCredential      Code = "credential"
	CodeQuota           Code = "quota"
)

type State struct {
	Code   Code   `json:"code"`
	Detail string `json:"detail,omitempty"`
	Count  int    `json:"count,omitempty"`
}

func (s State) Errored() bool {
	switch s.Code {
	case CodeError, CodePeerUnreachable, CodeDiscoveryFailed, CodeCredential, CodeQuota:
		return true
	}

	return false
}

type Indicator struct {
	mu sync.RWMutex

	state State
}

func New() *Indicator {
	return &Indicator{
		state: State{Code: CodeClear},
	}
}

func (i *Indicator) State() State {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.state
}

func (i *Indicator) Clear() {
	i.Set(State{Code: CodeClear})
}

func (i *Indicator) Set(state State) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.state = state
}

// Processing records a successful handshake that dispatched count images.
func (i *Indicator) Processing(count int) {
	i.Set(State{Code: CodeProcessing, Count: count})
}

// NoImages records a successful handshake that found nothing to do.
func (i *Indicator) NoImages() {
	i.Set(State{Code: CodeNoImages})
}

func (i *Indicator) Error(code Code, detail string) {
	i.Set(State{Code: code, Detail: detail})
}
