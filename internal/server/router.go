// Package server assembles the HTTP routes and middleware chain.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/ayush/flight-tracker/internal/apperr"
	"github.com/ayush/flight-tracker/internal/auth"
	"github.com/ayush/flight-tracker/internal/flights"
	"github.com/ayush/flight-tracker/internal/httpx"
	"github.com/ayush/flight-tracker/internal/metrics"
	"github.com/ayush/flight-tracker/internal/middleware"
	"github.com/ayush/flight-tracker/internal/watchlist"
)

// Deps are the constructed components the router dispatches to.
type Deps struct {
	Auth      *auth.Service
	Watchlist *watchlist.Service
	Flights   flights.Lookuper
	// Static serves the frontend bundle; nil disables it.
	Static http.Handler
	// Ping reports storage health for /health; nil means always healthy.
	Ping func(ctx context.Context) error

	CORSOrigins   []string
	AuthRateLimit int
}

// NewRouter returns the full handler tree.
func NewRouter(d Deps) http.Handler {
	authHandler := auth.NewHandler(d.Auth)
	watchlistHandler := watchlist.NewHandler(d.Watchlist)
	flightsHandler := flights.NewHandler(d.Flights)
	requireAuth := middleware.RequireAuth(d.Auth)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler(d.Ping))
	r.Handle("/metrics", metrics.Handler())

	// Auth routes (public, rate limited per client IP)
	r.Group(func(r chi.Router) {
		if d.AuthRateLimit > 0 {
			r.Use(httprate.Limit(d.AuthRateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					httpx.WriteJSON(w, http.StatusTooManyRequests, map[string]string{
						"error": "Too many requests, try again later",
						"code":  "RATE_LIMITED",
					})
				}),
			))
		}
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/public-flights", flightsHandler.Public)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/dashboard", authHandler.Dashboard)
			r.Get("/protected-flights", flightsHandler.Protected)

			r.Get("/my-flights", watchlistHandler.List)
			r.Post("/my-flights", watchlistHandler.Add)
			r.Put("/my-flights", watchlistHandler.Update)
			r.Delete("/my-flights", watchlistHandler.Remove)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteError(w, r, apperr.NotFound("route not found"))
		})
	})

	if d.Static != nil {
		r.Handle("/*", d.Static)
	}

	return r
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// SplitOrigins parses a comma-separated CORS_ORIGIN value.
func SplitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
