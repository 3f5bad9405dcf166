package api

import (
	"github.com/panelglot/panelglot/pkg/dispatch"
	"github.com/panelglot/panelglot/pkg/fetcher"
	"github.com/panelglot/panelglot/pkg/session"
)

type Option func(*Handler)

func WithInstance(instance string) Option {
	return func(h *Handler) {
		h.instance = instance
	}
}

func WithDispatcher(dispatcher *dispatch.Dispatcher) Option {
	return func(h *Handler) {
		h.dispatcher = dispatcher
	}
}

func WithSessions(sessions *session.Registry) Option {
	return func(h *Handler) {
		h.sessions = sessions
	}
}

// WithProbe enables natural-size probing during discovery for elements
// declared without dimensions.
func WithProbe(probe *fetcher.Client) Option {
	return func(h *Handler) {
		h.probe = probe
	}
}
