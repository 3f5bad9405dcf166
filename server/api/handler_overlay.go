package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/panelglot/panelglot/pkg/overlay"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

func (h *Handler) handleOverlays(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(chi.URLParam(r, "id"))

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	writeJson(w, s.Surface.Overlays().All())
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleEvents streams overlay changes over a websocket. The current
// overlays are replayed first, so a listener that connects mid-run still
// renders the full state.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(chi.URLParam(r, "id"))

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)

	if err != nil {
		return
	}

	defer conn.Close()

	store := s.Surface.Overlays()

	events, cancel := store.Subscribe()
	defer cancel()

	for _, o := range store.All() {
		event := overlay.Event{Type: overlay.EventPlaced, ImageID: o.ImageID, Overlay: &o}

		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}

	ctx, done := context.WithCancel(r.Context())
	defer done()

	go func() {
		defer done()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}

			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}
