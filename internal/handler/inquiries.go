package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/model"
	"github.com/mrcars/backend/internal/repository"
)

// InquiryHandler handles listing inquiry requests.
type InquiryHandler struct {
	repo repository.InquiryRepository
}

func NewInquiryHandler(repo repository.InquiryRepository) *InquiryHandler {
	return &InquiryHandler{repo: repo}
}

func (h *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	p := paginationFromRequest(r)
	inquiries, total, err := h.repo.List(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list inquiries")
		return
	}
	if inquiries == nil {
		inquiries = []*model.Inquiry{}
	}
	WriteJSON(w, http.StatusOK, listResponse{Data: inquiries, Total: total, Page: p.Page, PageSize: p.PageSize})
}

func (h *InquiryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid inquiry ID")
		return
	}

	inquiry, err := h.repo.GetByID(r.Context(), id)
	if err != nil || inquiry == nil {
		writeError(w, http.StatusNotFound, "inquiry not found")
		return
	}
	WriteJSON(w, http.StatusOK, inquiry)
}

// UpdateStatus marks an inquiry answered or closed.
func (h *InquiryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid inquiry ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := model.InquiryStatus(req.Status)
	switch status {
	case model.InquiryNew, model.InquiryAnswered, model.InquiryClosed:
	default:
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, status); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update inquiry")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *InquiryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid inquiry ID")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete inquiry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
