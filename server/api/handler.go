package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/panelglot/panelglot/config"
	"github.com/panelglot/panelglot/pkg/dispatch"
	"github.com/panelglot/panelglot/pkg/fetcher"
	"github.com/panelglot/panelglot/pkg/session"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	*config.Config

	instance string

	dispatcher *dispatch.Dispatcher
	sessions   *session.Registry

	probe *fetcher.Client
}

func New(cfg *config.Config, options ...Option) (*Handler, error) {
	h := &Handler{
		Config: cfg,
	}

	for _, option := range options {
		option(h)
	}

	if h.dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}

	if h.sessions == nil {
		return nil, errors.New("session registry is required")
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Post("/analyze", h.handleAnalyze)

	r.Get("/status", h.handleStatus)

	r.Get("/settings", h.handleSettings)
	r.Put("/settings", h.handleSettingsUpdate)

	r.Post("/sessions", h.handleSessionCreate)
	r.Get("/sessions", h.handleSessionList)
	r.Get("/sessions/{id}", h.handleSession)
	r.Delete("/sessions/{id}", h.handleSessionDelete)

	r.Post("/sessions/{id}/focus", h.handleSessionFocus)
	r.Post("/sessions/{id}/minimize", h.handleSessionMinimize)

	r.Get("/sessions/{id}/overlays", h.handleOverlays)
	r.Get("/sessions/{id}/events", h.handleEvents)
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeJsonStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	writeJson(w, v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)

	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	w.Write([]byte(text))
}
