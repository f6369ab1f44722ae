package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"eventip/internal/handlers"
	"eventip/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Catalog        *handlers.CatalogHandler
	Tickets        *handlers.TicketsHandler
	News           *handlers.NewsHandler
	AdminNews      *handlers.AdminNewsHandler
	PrivateTickets *handlers.PrivateTicketHandler
	Contact        *handlers.ContactHandler
	Auth           *handlers.AuthHandler
}

// Options configures the router's middleware and static routes
type Options struct {
	Identity       middleware.IdentitySource
	LoginLimiter   *middleware.LoginRateLimiter
	ContactLimiter *middleware.LoginRateLimiter
	AllowedOrigins []string

	// UploadDir is served at /uploads when set
	UploadDir string

	// Health reports whether the backing stores are reachable
	Health func(ctx context.Context) error
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NewRouter mounts every route of the service
func NewRouter(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.ErrorHandlingMiddleware)
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(opts.AllowedOrigins...)))
	if opts.Identity != nil {
		r.Use(middleware.IdentityMiddleware(opts.Identity))
	}
	r.Use(middleware.LoggingMiddleware)

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	r.Get("/health", healthHandler(opts.Health))

	if opts.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))))
	}

	// Public routes
	r.Get("/", h.Catalog.Home)
	r.Get("/events", h.Catalog.Home)
	r.Get("/events/{id}", h.Catalog.Preview)
	r.Get("/events/{id}/purchase", h.Catalog.PurchaseOptions)
	r.Get("/events/{id}/discount", h.Catalog.Discount)

	r.Get("/my-tickets", h.Tickets.MyTickets)
	r.Post("/my-tickets", h.Tickets.MyTickets)

	r.Post("/session", h.Auth.StartSession)
	r.Delete("/session", h.Auth.EndSession)

	r.Get("/news", h.News.List)
	r.Get("/news/{slug}", h.News.Detail)

	r.Get("/private-tickets", h.PrivateTickets.View)
	r.Get("/private-tickets/{id}", h.PrivateTickets.View)
	r.Get("/private-tickets/{id}/qr", h.PrivateTickets.DownloadQR)

	r.Group(func(r chi.Router) {
		if opts.ContactLimiter != nil {
			r.Use(middleware.RateLimit(opts.ContactLimiter, "messages"))
		}
		r.Post("/contact", h.Contact.Submit)
	})

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.LoginLimiter != nil {
				r.Use(middleware.LoginRateLimit(opts.LoginLimiter))
			}
			r.Post("/login", h.Auth.AdminLogin)
		})
		r.Post("/logout", h.Auth.AdminLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/news", h.AdminNews.List)
			r.Post("/news", h.AdminNews.Create)
			r.Put("/news/{id}", h.AdminNews.Update)
			r.Delete("/news/{id}", h.AdminNews.Delete)
			r.Post("/news/{id}/status", h.AdminNews.UpdateStatus)
			r.Post("/news/{id}/featured", h.AdminNews.ToggleFeatured)
		})
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := check(ctx); err != nil {
				writeHealth(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: err.Error()})
				return
			}
		}
		writeHealth(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

func writeHealth(w http.ResponseWriter, status int, body HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
