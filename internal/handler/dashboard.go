package handler

import (
	"net/http"

	"salesdesk-be/internal/dashboard"
	"salesdesk-be/internal/utils"
)

type dashboardHandler struct {
	svc dashboard.Service
}

func (h *dashboardHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}
