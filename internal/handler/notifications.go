package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/auth"
	"github.com/mrcars/backend/internal/notification"
)

// NotificationHandler serves the signed-in admin's notification center.
type NotificationHandler struct {
	registry *notification.Registry
}

func NewNotificationHandler(registry *notification.Registry) *NotificationHandler {
	return &NotificationHandler{registry: registry}
}

type notificationListResponse struct {
	Data        interface{} `json:"data"`
	UnreadCount int         `json:"unread_count"`
}

type mutationResponse struct {
	Outcome     notification.Outcome `json:"outcome"`
	UnreadCount int                  `json:"unread_count"`
}

func (h *NotificationHandler) center(w http.ResponseWriter, r *http.Request) *notification.Center {
	userID, _, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil
	}

	center, err := h.registry.For(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load notifications")
		return nil
	}
	return center
}

// List returns the user's cached notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	center := h.center(w, r)
	if center == nil {
		return
	}
	WriteJSON(w, http.StatusOK, notificationListResponse{
		Data:        center.Items(),
		UnreadCount: center.UnreadCount(),
	})
}

// MarkRead marks one notification as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	center := h.center(w, r)
	if center == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	outcome := center.MarkRead(r.Context(), id)
	WriteJSON(w, statusForOutcome(outcome), mutationResponse{Outcome: outcome, UnreadCount: center.UnreadCount()})
}

// MarkAllRead marks every unread notification as read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	center := h.center(w, r)
	if center == nil {
		return
	}

	outcome := center.MarkAllRead(r.Context())
	WriteJSON(w, statusForOutcome(outcome), mutationResponse{Outcome: outcome, UnreadCount: center.UnreadCount()})
}

// Delete removes one notification.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	center := h.center(w, r)
	if center == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	outcome := center.Delete(r.Context(), id)
	WriteJSON(w, statusForOutcome(outcome), mutationResponse{Outcome: outcome, UnreadCount: center.UnreadCount()})
}

func statusForOutcome(o notification.Outcome) int {
	if o.Level == notification.LevelError {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}
