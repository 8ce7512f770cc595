package routes

import (
	"github.com/go-chi/chi/v5"

	"authapi/internal/auth"
	"authapi/internal/handlers"
	"authapi/internal/middleware"
	"authapi/internal/repository"
)

func RegisterUserRoutes(router chi.Router, store *repository.Store, signer *auth.Signer) {
	userHandler := handlers.NewUserHandler(store.Users)

	router.Route("/user", func(r chi.Router) {
		r.Use(middleware.JWTAuth(signer))
		r.Get("/profile", userHandler.Profile)
	})
}
