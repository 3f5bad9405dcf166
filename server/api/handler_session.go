package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/panelglot/panelglot/pkg/bus"
	"github.com/panelglot/panelglot/pkg/session"
	"github.com/panelglot/panelglot/pkg/surface"
	"github.com/panelglot/panelglot/pkg/view"

	"github.com/go-chi/chi/v5"
)

// handleSessionCreate opens a session for one document. The document can
// arrive as raw HTML, as Markdown, or as a prepared element list; the
// session's surface is listening by the time the response is written.
func (h *Handler) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var request CreateSession

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if request.URL == "" {
		writeError(w, http.StatusBadRequest, errors.New("document url is required"))
		return
	}

	v, err := buildView(request)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	pipe := bus.NewPipe()

	options := []surface.Option{
		surface.WithView(v),
		surface.WithPipe(pipe),
		surface.WithDispatcher(h.dispatcher.Channel(pipe)),
		surface.WithSettings(h.Settings),
		surface.WithInstance(h.instance),
	}

	if h.probe != nil {
		options = append(options, surface.WithProbe(h.probe))
	}

	if h.Surface.MinWidth > 0 || h.Surface.MinHeight > 0 {
		options = append(options, surface.WithMinSize(h.Surface.MinWidth, h.Surface.MinHeight))
	}

	if h.Surface.SummaryTimeout > 0 {
		options = append(options, surface.WithSummaryTimeout(h.Surface.SummaryTimeout))
	}

	surf, err := surface.New(options...)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	surf.Attach()

	s := session.New(request.URL, surf)
	h.sessions.Add(s)

	writeJsonStatus(w, http.StatusCreated, toSession(s))
}

func (h *Handler) handleSessionList(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessions.List()

	slices.SortFunc(sessions, func(a, b *session.Session) int {
		return b.FocusedAt().Compare(a.FocusedAt())
	})

	result := make([]Session, 0, len(sessions))

	for _, s := range sessions {
		result = append(result, toSession(s))
	}

	writeJson(w, result)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(chi.URLParam(r, "id"))

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	writeJson(w, toSession(s))
}

func (h *Handler) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, ok := h.sessions.Get(id); !ok {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	h.sessions.Remove(id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSessionFocus(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(chi.URLParam(r, "id"))

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	s.Focus()

	writeJson(w, toSession(s))
}

func (h *Handler) handleSessionMinimize(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Get(chi.URLParam(r, "id"))

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	s.SetState(session.StateMinimized)

	writeJson(w, toSession(s))
}

func buildView(request CreateSession) (*view.View, error) {
	switch {
	case request.HTML != "":
		return view.ParseHTML(strings.NewReader(request.HTML), request.URL)

	case request.Markdown != "":
		return view.ParseMarkdown([]byte(request.Markdown), request.URL)

	default:
		v := &view.View{URL: request.URL}

		for _, element := range request.Elements {
			v.Elements = append(v.Elements, &view.Element{
				ID: element.ID,

				Locator: element.URL,

				DisplayWidth:  element.Width,
				DisplayHeight: element.Height,

				NaturalWidth:  element.NaturalWidth,
				NaturalHeight: element.NaturalHeight,
			})
		}

		return v, nil
	}
}

func toSession(s *session.Session) Session {
	return Session{
		ID:  s.ID,
		URL: s.URL,

		State: string(s.State()),

		Restricted: s.Restricted(),

		Created: s.Created,
		Focused: s.FocusedAt(),
	}
}
