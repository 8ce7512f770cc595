package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"authapi/internal/auth"
	"authapi/internal/config"
	"authapi/internal/middleware"
	"authapi/internal/repository"
	"authapi/internal/services"
)

// SetupRoutes builds the HTTP router. A nil notifier selects one from cfg.
func SetupRoutes(db *sql.DB, cfg *config.Config, logger zerolog.Logger, notifier services.ResetNotifier) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	store := repository.NewStore(db, repository.WithResetTokenTTL(cfg.ResetTokenTTL))
	signer := auth.NewSigner(cfg.JWTSecret, cfg.JWTExpiresIn)
	if notifier == nil {
		notifier = newResetNotifier(cfg, logger)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "authapi is running"})
	})
	r.Get("/health", healthHandler(store))

	r.Route("/api", func(r chi.Router) {
		RegisterAuthRoutes(r, store, signer, cfg, notifier)
		RegisterUserRoutes(r, store, signer)
	})

	return r
}

func newResetNotifier(cfg *config.Config, logger zerolog.Logger) services.ResetNotifier {
	if cfg.SMTPHost == "" {
		return &services.LogNotifier{Logger: logger}
	}
	return services.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler reports 503 while the database does not answer a ping.
func healthHandler(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := map[string]any{"status": "ok"}
		status, code := "ok", http.StatusOK
		if err := db.Ping(ctx); err != nil {
			dbStatus = map[string]any{"status": "down", "error": err.Error()}
			status, code = "degraded", http.StatusServiceUnavailable
		}

		writeJSON(w, code, map[string]any{"status": status, "db": dbStatus})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
