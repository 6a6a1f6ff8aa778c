package handler

import (
	"net/http"
	"strconv"

	"salesdesk-be/internal/product"
	"salesdesk-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type productHandler struct {
	svc product.Service
}

// list accepts ?active=true|false; anything else lists every product.
func (h *productHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := product.ListFilter{
		Limit: utils.QueryInt(r, "limit", 0),
		Skip:  utils.QueryInt(r, "skip", 0),
	}
	if v, err := strconv.ParseBool(r.URL.Query().Get("active")); err == nil {
		filter.Active = &v
	}

	res, err := h.svc.ListProducts(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *productHandler) create(w http.ResponseWriter, r *http.Request) {
	var input product.CreateInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		badBody(w)
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, p)
}

func (h *productHandler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *productHandler) update(w http.ResponseWriter, r *http.Request) {
	var input product.UpdateInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		badBody(w)
		return
	}

	p, err := h.svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *productHandler) toggle(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.ToggleProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *productHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, success)
}
