package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"lms/internal/config"
	"lms/internal/handlers"
	"lms/internal/repository"
)

func RegisterCourseRoutes(router chi.Router, db *sql.DB, s3Config *config.S3Config) {
	courseRepo := repository.NewCourseRepository(db)
	courseHandler := handlers.NewCourseHandler(courseRepo, s3Config)

	router.Route("/courses", func(r chi.Router) {
		r.Get("/", courseHandler.ListCourses)
		r.Post("/", courseHandler.CreateCourse)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", courseHandler.GetCourse)
			r.Put("/", courseHandler.UpdateCourse)
			r.Delete("/", courseHandler.DeleteCourse)
			r.Post("/thumbnail", courseHandler.UploadThumbnail)
		})
	})
}
