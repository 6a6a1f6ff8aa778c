package handler

import (
	"net/http"

	"salesdesk-be/internal/lead"
	"salesdesk-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type leadHandler struct {
	svc lead.Service
}

func (h *leadHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := lead.ListFilter{
		Limit: utils.QueryInt(r, "limit", 0),
		Skip:  utils.QueryInt(r, "skip", 0),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		st := lead.Status(s)
		filter.Status = &st
	}

	res, err := h.svc.ListLeads(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *leadHandler) create(w http.ResponseWriter, r *http.Request) {
	var input lead.CreateInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		badBody(w)
		return
	}

	l, err := h.svc.CreateLead(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, l)
}

func (h *leadHandler) get(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.GetLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, l)
}

func (h *leadHandler) update(w http.ResponseWriter, r *http.Request) {
	var input lead.UpdateInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		badBody(w)
		return
	}

	l, err := h.svc.UpdateLead(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, l)
}

func (h *leadHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, success)
}

func (h *leadHandler) messages(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, lead.AllMessages())
}

func (h *leadHandler) message(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.MessageForLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, m)
}
