package api

import (
	"errors"
	"net/http"

	"github.com/panelglot/panelglot/pkg/bus"
)

// handleAnalyze kicks off one analysis cycle. The call returns as soon as
// the dispatcher accepts the request; discovery and processing continue in
// the background and can be watched through the status and events
// endpoints.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	envelope, err := bus.NewEnvelope(bus.ActionBeginAnalysis, h.instance, nil)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	reply, err := h.dispatcher.Pipe().Call(r.Context(), envelope)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if reply == nil {
		writeError(w, http.StatusInternalServerError, errors.New("no response from dispatcher"))
		return
	}

	var ack bus.Ack

	if err := reply.Decode(&ack); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if ack.Status == bus.StatusBusy {
		writeJsonStatus(w, http.StatusConflict, Analysis{Status: ack.Status})
		return
	}

	writeJsonStatus(w, http.StatusAccepted, Analysis{Status: ack.Status})
}
