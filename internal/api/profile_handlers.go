package api

import (
	"net/http"

	"github.com/mmynk/subshare/internal/middleware"
)

// GetProfile handles GET /profile/.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Profiles.GetProfile(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserJSON(user))
}

// UpdateProfile handles PUT /profile/ with a partial JSON object.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	user, changed, err := h.svc.Profiles.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	if !changed {
		writeMsg(w, http.StatusOK, "No changes made")
		return
	}
	writeJSON(w, http.StatusOK, toUserJSON(user))
}
