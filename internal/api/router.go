package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions configures the API router.
type RouterOptions struct {
	JWTSecret   string
	TokenExpiry time.Duration
	CORSOrigin  string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: opts.JWTSecret, TokenExpiry: opts.TokenExpiry}
	usersHandler := &UsersHandler{DB: db}
	sneakersHandler := &SneakersHandler{DB: db}
	propositionsHandler := &PropositionsHandler{DB: db}
	healthHandler := &HealthHandler{DB: db}

	authMW := AuthMiddleware(opts.JWTSecret, db)

	// Public.
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("GET /api/health", healthHandler.Check)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Authenticated.
	mux.Handle("POST /auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/users/me", authMW(http.HandlerFunc(authHandler.Me)))

	// Users.
	mux.Handle("GET /api/users", authMW(http.HandlerFunc(usersHandler.List)))
	mux.Handle("GET /api/users/{id}", authMW(http.HandlerFunc(usersHandler.Get)))
	mux.Handle("PUT /api/users/{id}", authMW(http.HandlerFunc(usersHandler.Update)))
	mux.Handle("DELETE /api/users/{id}", authMW(http.HandlerFunc(usersHandler.Delete)))

	// Sneakers.
	mux.Handle("GET /api/sneakers", authMW(http.HandlerFunc(sneakersHandler.List)))
	mux.Handle("POST /api/sneakers", authMW(http.HandlerFunc(sneakersHandler.Create)))
	mux.Handle("GET /api/sneakers/{id}", authMW(http.HandlerFunc(sneakersHandler.Get)))
	mux.Handle("PUT /api/sneakers/{id}", authMW(http.HandlerFunc(sneakersHandler.Update)))
	mux.Handle("DELETE /api/sneakers/{id}", authMW(http.HandlerFunc(sneakersHandler.Delete)))
	mux.Handle("PUT /api/sneakers/{id}/photo", authMW(http.HandlerFunc(sneakersHandler.UploadPhoto)))
	mux.Handle("GET /api/sneakers/{id}/photo", authMW(http.HandlerFunc(sneakersHandler.GetPhoto)))

	// Propositions.
	mux.Handle("POST /api/propositions", authMW(http.HandlerFunc(propositionsHandler.Create)))
	mux.Handle("GET /api/propositions", authMW(http.HandlerFunc(propositionsHandler.List)))
	mux.Handle("GET /api/propositions/mine", authMW(http.HandlerFunc(propositionsHandler.Mine)))
	mux.Handle("GET /api/propositions/{id}", authMW(http.HandlerFunc(propositionsHandler.Get)))
	mux.Handle("PUT /api/propositions/{id}", authMW(http.HandlerFunc(propositionsHandler.Update)))
	mux.Handle("DELETE /api/propositions/{id}", authMW(http.HandlerFunc(propositionsHandler.Delete)))

	var handler http.Handler = mux
	handler = CORSMiddleware(opts.CORSOrigin)(handler)
	handler = MetricsMiddleware(handler)
	handler = LoggingMiddleware(handler)
	return handler
}
