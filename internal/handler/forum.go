package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/model"
	"github.com/mrcars/backend/internal/repository"
)

// ForumHandler handles forum moderation requests. Flagged posts sort first
// so moderators see the queue.
type ForumHandler struct {
	repo repository.ForumRepository
}

func NewForumHandler(repo repository.ForumRepository) *ForumHandler {
	return &ForumHandler{repo: repo}
}

func (h *ForumHandler) List(w http.ResponseWriter, r *http.Request) {
	p := paginationFromRequest(r)
	status := model.ForumPostStatus(r.URL.Query().Get("status"))

	posts, total, err := h.repo.List(r.Context(), status, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list forum posts")
		return
	}
	if posts == nil {
		posts = []*model.ForumPost{}
	}
	WriteJSON(w, http.StatusOK, listResponse{Data: posts, Total: total, Page: p.Page, PageSize: p.PageSize})
}

func (h *ForumHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	post, err := h.repo.GetByID(r.Context(), id)
	if err != nil || post == nil {
		writeError(w, http.StatusNotFound, "forum post not found")
		return
	}
	WriteJSON(w, http.StatusOK, post)
}

// Moderate sets a post's moderation state.
func (h *ForumHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := model.ForumPostStatus(req.Status)
	switch status {
	case model.ForumVisible, model.ForumFlagged, model.ForumRemoved:
	default:
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, status); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update forum post")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *ForumHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post ID")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete forum post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
