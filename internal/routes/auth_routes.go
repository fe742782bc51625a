package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"lms/internal/config"
	"lms/internal/handlers"
	"lms/internal/services"
)

func RegisterAuthRoutes(router chi.Router, db *sql.DB, cfg *config.Config) {
	mailer := &services.SMTPSender{
		Host:   cfg.SMTPHost,
		Port:   cfg.SMTPPort,
		User:   cfg.SMTPUser,
		Pass:   cfg.SMTPPassword,
		From:   cfg.SMTPFrom,
		UseTLS: cfg.SMTPUseTLS,
	}
	authHandler := handlers.NewAuthHandler(db, cfg, mailer)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/verify-reset-code", authHandler.VerifyResetCode)
		r.Post("/reset-password", authHandler.ResetPassword)
	})
}
