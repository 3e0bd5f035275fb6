package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SanderWeide/sneaker-engine/internal/imaging"
	"github.com/SanderWeide/sneaker-engine/internal/model"
	"github.com/SanderWeide/sneaker-engine/internal/store"
)

// SneakersHandler handles sneaker CRUD endpoints.
type SneakersHandler struct {
	DB *sql.DB
}

// List handles GET /api/sneakers.
func (h *SneakersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.SneakerFilter{
		SKU:   q.Get("sku"),
		Brand: q.Get("brand"),
		Model: q.Get("model"),
	}
	if v := q.Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		filter.UserID = id
	}
	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid skip")
			return
		}
		filter.Skip = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	sneakers, err := store.ListSneakers(r.Context(), h.DB, filter)
	if err != nil {
		slog.Error("listing sneakers", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list sneakers")
		return
	}
	if sneakers == nil {
		sneakers = []model.Sneaker{}
	}
	jsonResponse(w, http.StatusOK, sneakers)
}

// Create handles POST /api/sneakers. Ownership comes from the bearer token;
// any user_id in the payload is ignored.
func (h *SneakersHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var draft model.SneakerDraft
	if err := decodeJSON(r, &draft); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := draft.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	sneaker, err := store.CreateSneaker(r.Context(), h.DB, claims.UserID, draft)
	if err != nil {
		slog.Error("creating sneaker", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create sneaker")
		return
	}

	jsonResponse(w, http.StatusCreated, sneaker)
}

// Get handles GET /api/sneakers/{id}.
func (h *SneakersHandler) Get(w http.ResponseWriter, r *http.Request) {
	sneaker, ok := h.fetch(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, sneaker)
}

// Update handles PUT /api/sneakers/{id}. Only the owner may update.
func (h *SneakersHandler) Update(w http.ResponseWriter, r *http.Request) {
	sneaker, ok := h.fetchOwned(w, r)
	if !ok {
		return
	}

	var patch model.SneakerPatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := patch.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := store.UpdateSneaker(r.Context(), h.DB, sneaker.ID, patch)
	if err != nil {
		slog.Error("updating sneaker", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update sneaker")
		return
	}

	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/sneakers/{id}. Only the owner may delete.
func (h *SneakersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sneaker, ok := h.fetchOwned(w, r)
	if !ok {
		return
	}

	if _, err := store.DeleteSneaker(r.Context(), h.DB, sneaker.ID); err != nil {
		slog.Error("deleting sneaker", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete sneaker")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "sneaker deleted"})
}

// UploadPhoto handles PUT /api/sneakers/{id}/photo. Only the owner may upload.
func (h *SneakersHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	sneaker, ok := h.fetchOwned(w, r)
	if !ok {
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Normalize(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetSneakerPhoto(r.Context(), h.DB, sneaker.ID, photo.Data, photo.MIME); err != nil {
		slog.Error("saving sneaker photo", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/sneakers/{id}/photo.
func (h *SneakersHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	sneaker, ok := h.fetch(w, r)
	if !ok {
		return
	}

	data, mime, err := store.GetSneakerPhoto(r.Context(), h.DB, sneaker.ID)
	if err != nil {
		slog.Error("getting sneaker photo", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// fetch loads the sneaker named by the path ID, writing the error response
// itself when the ID is bad or the sneaker is missing.
func (h *SneakersHandler) fetch(w http.ResponseWriter, r *http.Request) (*model.Sneaker, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sneaker id")
		return nil, false
	}

	sneaker, err := store.GetSneaker(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting sneaker", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get sneaker")
		return nil, false
	}
	if sneaker == nil {
		jsonError(w, http.StatusNotFound, "sneaker not found")
		return nil, false
	}
	return sneaker, true
}

// fetchOwned is fetch plus an ownership check against the token's user.
func (h *SneakersHandler) fetchOwned(w http.ResponseWriter, r *http.Request) (*model.Sneaker, bool) {
	sneaker, ok := h.fetch(w, r)
	if !ok {
		return nil, false
	}

	claims := GetClaims(r.Context())
	if claims == nil || claims.UserID != sneaker.UserID {
		jsonError(w, http.StatusForbidden, "not the owner of this sneaker")
		return nil, false
	}
	return sneaker, true
}
