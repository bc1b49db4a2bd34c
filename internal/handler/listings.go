package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/media"
	"github.com/mrcars/backend/internal/model"
	"github.com/mrcars/backend/internal/repository"
)

// ListingHandler handles car and rental listing requests.
type ListingHandler struct {
	repo    repository.ListingRepository
	storage *media.Storage
}

func NewListingHandler(repo repository.ListingRepository, storage *media.Storage) *ListingHandler {
	return &ListingHandler{repo: repo, storage: storage}
}

type listingCreateRequest struct {
	OwnerID  uuid.UUID `json:"owner_id"`
	Make     string    `json:"make"`
	Model    string    `json:"model"`
	Year     int       `json:"year"`
	Price    float64   `json:"price"`
	Currency string    `json:"currency"`
	Kind     string    `json:"kind"`
	Mileage  int       `json:"mileage"`
	Location string    `json:"location"`
}

func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	p := paginationFromRequest(r)
	status := model.ListingStatus(r.URL.Query().Get("status"))

	listings, total, err := h.repo.List(r.Context(), status, p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list listings")
		return
	}
	if listings == nil {
		listings = []*model.Listing{}
	}
	WriteJSON(w, http.StatusOK, listResponse{Data: listings, Total: total, Page: p.Page, PageSize: p.PageSize})
}

func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing ID")
		return
	}

	listing, err := h.repo.GetByID(r.Context(), id)
	if err != nil || listing == nil {
		writeError(w, http.StatusNotFound, "listing not found")
		return
	}
	WriteJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Make == "" || req.Model == "" || req.Price <= 0 || req.OwnerID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "owner_id, make, model and a positive price are required")
		return
	}
	kind := model.ListingKind(req.Kind)
	if kind != model.ListingSale && kind != model.ListingRental {
		writeError(w, http.StatusBadRequest, "kind must be sale or rental")
		return
	}

	listing := &model.Listing{
		BaseEntity: model.NewBaseEntity(),
		OwnerID:    req.OwnerID,
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		Price:      req.Price,
		Currency:   model.Currency(req.Currency),
		Kind:       kind,
		Status:     model.ListingPending,
		Mileage:    req.Mileage,
		Location:   req.Location,
	}
	if listing.Currency == "" {
		listing.Currency = model.CurrencyUSD
	}

	if err := h.repo.Create(r.Context(), listing); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create listing")
		return
	}
	WriteJSON(w, http.StatusCreated, listing)
}

// UpdateStatus moves a listing through its lifecycle.
func (h *ListingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing ID")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status := model.ListingStatus(req.Status)
	switch status {
	case model.ListingActive, model.ListingPending, model.ListingSold, model.ListingExpired:
	default:
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, status); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update listing")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// PresignPhoto returns a presigned upload URL for a new listing photo and
// records the photo key on the listing.
func (h *ListingHandler) PresignPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing ID")
		return
	}

	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "photo storage is not configured")
		return
	}

	var req struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	listing, err := h.repo.GetByID(r.Context(), id)
	if err != nil || listing == nil {
		writeError(w, http.StatusNotFound, "listing not found")
		return
	}

	url, key, err := h.storage.PresignUpload(r.Context(), id, req.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.AddPhotoKey(r.Context(), id, key); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record photo")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"upload_url": url, "key": key})
}

// Photos returns presigned download URLs for a listing's stored photos.
func (h *ListingHandler) Photos(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing ID")
		return
	}

	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "photo storage is not configured")
		return
	}

	listing, err := h.repo.GetByID(r.Context(), id)
	if err != nil || listing == nil {
		writeError(w, http.StatusNotFound, "listing not found")
		return
	}

	urls := make([]string, 0, len(listing.PhotoKeys))
	for _, key := range listing.PhotoKeys {
		url, err := h.storage.PresignDownload(r.Context(), key)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to sign photo URL")
			return
		}
		urls = append(urls, url)
	}
	WriteJSON(w, http.StatusOK, map[string][]string{"photos": urls})
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing ID")
		return
	}

	listing, err := h.repo.GetByID(r.Context(), id)
	if err != nil || listing == nil {
		writeError(w, http.StatusNotFound, "listing not found")
		return
	}

	// Photo objects are removed best effort.
	if h.storage != nil {
		for _, key := range listing.PhotoKeys {
			_ = h.storage.Delete(r.Context(), key)
		}
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete listing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
