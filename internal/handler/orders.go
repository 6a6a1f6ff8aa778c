package handler

import (
	"net/http"

	"salesdesk-be/internal/order"
	"salesdesk-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type orderHandler struct {
	svc order.Service
}

func (h *orderHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := order.ListFilter{
		Limit: utils.QueryInt(r, "limit", 0),
		Skip:  utils.QueryInt(r, "skip", 0),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		st := order.Status(s)
		filter.Status = &st
	}

	res, err := h.svc.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *orderHandler) create(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	var input order.CreateInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		badBody(w)
		return
	}

	o, err := h.svc.CreateOrder(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, o)
}

func (h *orderHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *orderHandler) update(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	var input order.UpdateInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		badBody(w)
		return
	}

	o, err := h.svc.UpdateOrder(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *orderHandler) delete(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	if err := h.svc.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, success)
}

type statusRequest struct {
	Status order.Status `json:"status"`
}

func (h *orderHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	noStore(w)

	var req statusRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		badBody(w)
		return
	}

	o, err := h.svc.SetOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, o)
}
