// Package session tracks the open document views. Each session owns one
// surface and its pipe; the registry resolves which surface a trigger
// should reach, following focus order.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/panelglot/panelglot/pkg/handshake"
	"github.com/panelglot/panelglot/pkg/surface"
	"github.com/panelglot/panelglot/pkg/view"

	"github.com/google/uuid"
)

type State string

const (
	StateActive    State = "active"
	StateMinimized State = "minimized"
	StateClosed    State = "closed"
)

type Session struct {
	ID  string
	URL string

	Created time.Time

	Surface *surface.Surface

	mu      sync.Mutex
	state   State
	focused time.Time
}

func New(url string, surf *surface.Surface) *Session {
	now := time.Now()

	return &Session{
		ID:  uuid.NewString(),
		URL: url,

		Created: now,

		Surface: surf,

		state:   StateActive,
		focused: now,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) SetState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
}

// Focus marks the session as the most recently used one and reactivates
// it.
func (s *Session) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateActive
	s.focused = time.Now()
}

func (s *Session) FocusedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.focused
}

// Restricted reports whether the session's document may not be analyzed.
func (s *Session) Restricted() bool {
	return view.Restricted(s.URL)
}

type Registry struct {
	mu sync.RWMutex

	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) Add(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]

	return session, ok
}

func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*Session, 0, len(r.sessions))

	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}

	return sessions
}

// Remove closes a session and detaches its surface.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]

	if !ok {
		return
	}

	session.SetState(StateClosed)
	session.Surface.Detach()

	delete(r.sessions, id)
}

// Locate resolves the most recently focused open session, the way a
// trigger finds its target. The focused session must be active and on an
// unrestricted document; otherwise the attempt is rejected.
func (r *Registry) Locate(ctx context.Context) (handshake.Peer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var recent *Session

	for _, session := range r.sessions {
		if session.State() == StateClosed {
			continue
		}

		if recent == nil || session.FocusedAt().After(recent.FocusedAt()) {
			recent = session
		}
	}

	if recent == nil {
		return nil, errors.New("no open surface")
	}

	if recent.State() != StateActive {
		return nil, errors.New("focused surface is minimized")
	}

	if recent.Restricted() {
		return nil, errors.New("focused surface is on a restricted page")
	}

	return recent.Surface.Pipe(), nil
}
