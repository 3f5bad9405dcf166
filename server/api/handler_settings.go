package api

import (
	"encoding/json"
	"net/http"

	"github.com/panelglot/panelglot/pkg/settings"
)

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJson(w, h.Settings.Values())
}

// handleSettingsUpdate replaces the stored settings. The new values apply
// from the next processed image on; work already in flight keeps the
// snapshot it started with.
func (h *Handler) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var values settings.Values

	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJson(w, h.Settings.Update(values))
}
