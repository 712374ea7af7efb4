package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/middleware"
)

// Options carries the optional pieces of the router. A nil DebugHandler
// leaves the debug route unmounted; a nil ChatLimiter disables throttling.
type Options struct {
	FrontendURL  string
	ChatLimiter  *middleware.RateLimiter
	DebugHandler *handlers.DebugHandler
}

func New(chatHandler *handlers.ChatHandler, opts Options) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(opts.FrontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Chat Routes (public) ────
		r.Route("/chat/sessions", func(r chi.Router) {
			r.Post("/", chatHandler.CreateSession)
			r.Get("/{sessionID}/history", chatHandler.History)

			r.Group(func(r chi.Router) {
				if opts.ChatLimiter != nil {
					r.Use(opts.ChatLimiter.Middleware)
				}
				r.Post("/{sessionID}/messages", chatHandler.SendMessage)
			})
		})

		// ──── Debug (non-production only) ────
		if opts.DebugHandler != nil {
			r.Get("/debug/providers", opts.DebugHandler.Providers)
		}
	})

	return r
}
