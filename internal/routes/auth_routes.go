package routes

import (
	"github.com/go-chi/chi/v5"

	"authapi/internal/auth"
	"authapi/internal/config"
	"authapi/internal/handlers"
	"authapi/internal/repository"
	"authapi/internal/services"
)

func RegisterAuthRoutes(router chi.Router, store *repository.Store, signer *auth.Signer, cfg *config.Config, notifier services.ResetNotifier) {
	authHandler := handlers.NewAuthHandler(store, signer, cfg, notifier)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
	})
}
