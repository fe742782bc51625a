package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"lms/internal/handlers"
	"lms/internal/repository"
)

func RegisterEnrollmentRoutes(router chi.Router, db *sql.DB) {
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentRepo)

	router.Route("/enrollments", func(r chi.Router) {
		r.Get("/", enrollmentHandler.ListEnrollments)
		r.Post("/", enrollmentHandler.Enroll)
		r.Put("/progress", enrollmentHandler.UpdateProgress)
	})

	router.Get("/stats", enrollmentHandler.GetStats)
}
