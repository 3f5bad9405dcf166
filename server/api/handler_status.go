package api

import (
	"net/http"
)

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := h.dispatcher.Status().State()

	writeJson(w, Status{
		Code:   string(state.Code),
		Detail: state.Detail,
		Count:  state.Count,
	})
}
