package handler

import (
	"net/http"

	"salesdesk-be/internal/auth"
	"salesdesk-be/internal/logger"
	"salesdesk-be/internal/utils"

	"go.uber.org/zap"
)

type authHandler struct {
	sessions *auth.Manager
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *authHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		badBody(w)
		return
	}
	if req.Password == "" {
		utils.WriteJSONError(w, "Password is required", http.StatusBadRequest)
		return
	}

	log := logger.FromCtx(r.Context())

	if err := h.sessions.CheckPassword(req.Password); err != nil {
		log.Warn("admin login rejected", zap.String("ip", utils.ClientIP(r)))
		utils.WriteJSONError(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	token, exp, err := h.sessions.Issue()
	if err != nil {
		log.Error("failed to issue session", zap.Error(err))
		utils.WriteJSONError(w, "Login failed", http.StatusInternalServerError)
		return
	}

	h.sessions.SetCookie(w, token, exp)
	log.Info("admin logged in")
	utils.WriteJSON(w, http.StatusOK, success)
}

func (h *authHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	utils.WriteJSON(w, http.StatusOK, success)
}

func (h *authHandler) check(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]bool{
		"authenticated": h.sessions.Authenticated(r),
	})
}
