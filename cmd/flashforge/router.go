package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/flashforge/flashforge-api/internal/api"
	apiMiddleware "github.com/flashforge/flashforge-api/internal/api/middleware"
)

// setupRouter creates the router with every route and middleware registered.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", apiMiddleware.TraceIDHeader},
		ExposedHeaders: []string{
			apiMiddleware.TraceIDHeader,
			"Retry-After",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
		},
		MaxAge: 300,
	}))

	authHandler := api.NewAuthHandler(app.accounts)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokens)
	accessMiddleware := apiMiddleware.NewAccessMiddleware(app.gate)
	flashcardHandler := api.NewFlashcardHandler(app.flashcards, app.config.Server.MaxUploadBytes)

	// Rate limiting runs after the gate so denied requests are not counted.
	gated := []func(http.Handler) http.Handler{accessMiddleware.RequireAccess}
	if app.limiter != nil {
		gated = append(gated, apiMiddleware.RateLimit(app.limiter))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/account", authHandler.GetAccount)
		})

		r.With(gated...).Post("/flashcards/generate", flashcardHandler.Generate)
	})

	// Older front-ends post here.
	r.With(gated...).Post("/generate-flashcards", flashcardHandler.Generate)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.Any("error", err))
		}
	})

	return r
}
