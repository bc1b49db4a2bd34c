package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/model"
	"github.com/mrcars/backend/internal/repository"
)

// OrderHandler handles order management requests.
type OrderHandler struct {
	repo repository.OrderRepository
}

func NewOrderHandler(repo repository.OrderRepository) *OrderHandler {
	return &OrderHandler{repo: repo}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	p := paginationFromRequest(r)
	orders, total, err := h.repo.List(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []*model.Order{}
	}
	WriteJSON(w, http.StatusOK, listResponse{Data: orders, Total: total, Page: p.Page, PageSize: p.PageSize})
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil || order == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	WriteJSON(w, http.StatusOK, order)
}

// UpdateStatus moves an order through its payment lifecycle.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := model.OrderStatus(req.Status)
	switch status {
	case model.OrderPending, model.OrderPaid, model.OrderCancelled, model.OrderRefunded:
	default:
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, status); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update order")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}
