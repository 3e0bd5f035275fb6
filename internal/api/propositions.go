package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SanderWeide/sneaker-engine/internal/model"
	"github.com/SanderWeide/sneaker-engine/internal/store"
)

// PropositionsHandler handles sale proposition endpoints.
type PropositionsHandler struct {
	DB *sql.DB
}

// Create handles POST /api/propositions. The creator must be a party to the
// deal: for open propositions (no buyer) only the seller may create, otherwise
// the creator must be the named seller or buyer.
func (h *PropositionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var draft model.PropositionDraft
	if err := decodeJSON(r, &draft); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := draft.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if draft.BuyerID == nil {
		if claims.UserID != draft.SellerID {
			jsonError(w, http.StatusForbidden, "only the seller can create an open proposition")
			return
		}
	} else if claims.UserID != draft.SellerID && claims.UserID != *draft.BuyerID {
		jsonError(w, http.StatusForbidden, "must be the seller or buyer to create this proposition")
		return
	}

	sneaker, err := store.GetSneaker(r.Context(), h.DB, draft.SneakerID)
	if err != nil {
		slog.Error("checking sneaker for proposition", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if sneaker == nil {
		jsonError(w, http.StatusNotFound, "sneaker not found")
		return
	}

	prop, err := store.CreateProposition(r.Context(), h.DB, draft)
	if err != nil {
		slog.Error("creating proposition", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create proposition")
		return
	}

	jsonResponse(w, http.StatusCreated, prop)
}

// List handles GET /api/propositions.
func (h *PropositionsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter store.PropositionFilter

	for _, f := range []struct {
		name string
		dst  *int64
	}{
		{"seller_id", &filter.SellerID},
		{"buyer_id", &filter.BuyerID},
		{"sneaker_id", &filter.SneakerID},
	} {
		if v := q.Get(f.name); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				jsonError(w, http.StatusBadRequest, "invalid "+f.name)
				return
			}
			*f.dst = id
		}
	}

	props, err := store.ListPropositions(r.Context(), h.DB, filter)
	if err != nil {
		slog.Error("listing propositions", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list propositions")
		return
	}
	if props == nil {
		props = []model.Proposition{}
	}
	jsonResponse(w, http.StatusOK, props)
}

// Mine handles GET /api/propositions/mine.
func (h *PropositionsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	props, err := store.ListUserPropositions(r.Context(), h.DB, claims.UserID)
	if err != nil {
		slog.Error("listing user propositions", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list propositions")
		return
	}
	if props == nil {
		props = []model.Proposition{}
	}
	jsonResponse(w, http.StatusOK, props)
}

// Get handles GET /api/propositions/{id}. Open propositions are readable by
// everyone; otherwise only the seller or buyer.
func (h *PropositionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	prop, ok := h.fetch(w, r)
	if !ok {
		return
	}

	claims := GetClaims(r.Context())
	if !prop.Open() && !prop.PartyAccess(claims.UserID) {
		jsonError(w, http.StatusForbidden, "no access to this proposition")
		return
	}

	jsonResponse(w, http.StatusOK, prop)
}

// Update handles PUT /api/propositions/{id}. Agreed propositions are final.
func (h *PropositionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	prop, ok := h.fetch(w, r)
	if !ok {
		return
	}

	if prop.Agreed() {
		jsonError(w, http.StatusBadRequest, "cannot update an agreed proposition")
		return
	}

	claims := GetClaims(r.Context())
	if !prop.PartyAccess(claims.UserID) {
		jsonError(w, http.StatusForbidden, "no permission to update this proposition")
		return
	}

	var patch model.PropositionPatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := patch.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := store.UpdateProposition(r.Context(), h.DB, prop.ID, patch)
	if err != nil {
		slog.Error("updating proposition", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update proposition")
		return
	}

	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/propositions/{id}.
func (h *PropositionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	prop, ok := h.fetch(w, r)
	if !ok {
		return
	}

	claims := GetClaims(r.Context())
	if !prop.PartyAccess(claims.UserID) {
		jsonError(w, http.StatusForbidden, "no permission to delete this proposition")
		return
	}

	if _, err := store.DeleteProposition(r.Context(), h.DB, prop.ID); err != nil {
		slog.Error("deleting proposition", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete proposition")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PropositionsHandler) fetch(w http.ResponseWriter, r *http.Request) (*model.Proposition, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid proposition id")
		return nil, false
	}

	prop, err := store.GetProposition(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting proposition", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get proposition")
		return nil, false
	}
	if prop == nil {
		jsonError(w, http.StatusNotFound, "proposition not found")
		return nil, false
	}
	return prop, true
}
