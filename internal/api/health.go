package api

import (
	"database/sql"
	"net/http"
)

// HealthHandler reports service and database health.
type HealthHandler struct {
	DB *sql.DB
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}
