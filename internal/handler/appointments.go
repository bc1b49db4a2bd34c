package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/model"
	"github.com/mrcars/backend/internal/repository"
)

// AppointmentHandler handles viewing appointment requests.
type AppointmentHandler struct {
	repo repository.AppointmentRepository
}

func NewAppointmentHandler(repo repository.AppointmentRepository) *AppointmentHandler {
	return &AppointmentHandler{repo: repo}
}

type appointmentCreateRequest struct {
	ListingID   uuid.UUID `json:"listing_id"`
	UserID      uuid.UUID `json:"user_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Note        string    `json:"note"`
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	p := paginationFromRequest(r)
	appts, total, err := h.repo.List(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	if appts == nil {
		appts = []*model.Appointment{}
	}
	WriteJSON(w, http.StatusOK, listResponse{Data: appts, Total: total, Page: p.Page, PageSize: p.PageSize})
}

func (h *AppointmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid appointment ID")
		return
	}

	appt, err := h.repo.GetByID(r.Context(), id)
	if err != nil || appt == nil {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}
	WriteJSON(w, http.StatusOK, appt)
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req appointmentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ListingID == uuid.Nil || req.UserID == uuid.Nil || req.ScheduledAt.IsZero() {
		writeError(w, http.StatusBadRequest, "listing_id, user_id and scheduled_at are required")
		return
	}
	if req.ScheduledAt.Before(time.Now()) {
		writeError(w, http.StatusBadRequest, "scheduled_at must be in the future")
		return
	}

	appt := &model.Appointment{
		BaseEntity:  model.NewBaseEntity(),
		ListingID:   req.ListingID,
		UserID:      req.UserID,
		ScheduledAt: req.ScheduledAt.UTC(),
		Status:      model.AppointmentPending,
		Note:        req.Note,
	}
	if err := h.repo.Create(r.Context(), appt); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}
	WriteJSON(w, http.StatusCreated, appt)
}

// UpdateStatus confirms, completes or cancels an appointment.
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid appointment ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := model.AppointmentStatus(req.Status)
	switch status {
	case model.AppointmentPending, model.AppointmentConfirmed, model.AppointmentCompleted, model.AppointmentCancelled:
	default:
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, status); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}
