// internal/routes/routes.go
package routes

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"lms/internal/config"
)

func SetupRoutes(db *sql.DB, cfg *config.Config, s3Config *config.S3Config) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"message": cfg.AppName + " API"})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"status": "ok"}
		dbStatus := map[string]any{"status": "ok"}
		status := http.StatusOK

		if err := db.PingContext(r.Context()); err != nil {
			dbStatus["status"] = "down"
			dbStatus["error"] = err.Error()
			resp["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		resp["db"] = dbStatus
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	})

	RegisterSwaggerRoutes(r)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		RegisterAuthRoutes(r, db, cfg)
		RegisterUserRoutes(r, db, cfg)
		RegisterCourseRoutes(r, db, s3Config)
		RegisterEnrollmentRoutes(r, db)
	})

	return r
}
