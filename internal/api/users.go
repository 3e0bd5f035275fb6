package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SanderWeide/sneaker-engine/internal/model"
	"github.com/SanderWeide/sneaker-engine/internal/store"
)

// UsersHandler handles user profile endpoints. Profiles are readable by any
// authenticated user so counterparties in a deal can be resolved to a name;
// updates and deletion are self-only.
type UsersHandler struct {
	DB *sql.DB
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	users, err := store.ListUsers(r.Context(), h.DB, skip, limit)
	if err != nil {
		slog.Error("listing users", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	jsonResponse(w, http.StatusOK, users)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.fetch(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id}. Users can only update their own profile.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.fetchSelf(w, r)
	if !ok {
		return
	}

	var patch model.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := patch.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if patch.Email != nil && *patch.Email != user.Email {
		existing, err := store.GetUserByEmail(r.Context(), h.DB, *patch.Email)
		if err != nil {
			slog.Error("checking email", "error", err)
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if existing != nil {
			jsonError(w, http.StatusBadRequest, "email already registered")
			return
		}
	}
	if patch.Username != nil && *patch.Username != user.Username {
		existing, err := store.GetUserByUsername(r.Context(), h.DB, *patch.Username)
		if err != nil {
			slog.Error("checking username", "error", err)
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if existing != nil {
			jsonError(w, http.StatusBadRequest, "username already taken")
			return
		}
	}

	updated, err := store.UpdateUser(r.Context(), h.DB, user.ID, patch)
	if err != nil {
		if isUniqueViolation(err) {
			jsonError(w, http.StatusBadRequest, "email or username already taken")
			return
		}
		slog.Error("updating user", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/users/{id}. Users can only delete their own
// account, and only once their sneakers and propositions are gone.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.fetchSelf(w, r)
	if !ok {
		return
	}

	deleted, err := store.DeleteUser(r.Context(), h.DB, user.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			jsonError(w, http.StatusBadRequest, "account still owns sneakers or propositions")
			return
		}
		slog.Error("deleting user", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	if !deleted {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) fetch(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return nil, false
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting user", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return nil, false
	}
	return user, true
}

// fetchSelf is fetch plus a check that the target is the caller's own account.
func (h *UsersHandler) fetchSelf(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, ok := h.fetch(w, r)
	if !ok {
		return nil, false
	}

	claims := GetClaims(r.Context())
	if claims.UserID != user.ID {
		jsonError(w, http.StatusForbidden, "not your account")
		return nil, false
	}
	return user, true
}
