package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/karthikkarki2001-ops/bolt64/internal/account"
	"github.com/karthikkarki2001-ops/bolt64/internal/api"
	"github.com/karthikkarki2001-ops/bolt64/internal/audit"
	"github.com/karthikkarki2001-ops/bolt64/internal/booking"
	"github.com/karthikkarki2001-ops/bolt64/internal/listing"
	"github.com/karthikkarki2001-ops/bolt64/pkg/config"
)

type Dependencies struct {
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Log   *zap.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(api.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           600,
	}))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	accountRepo := account.NewRepository(deps.DB)
	listingRepo := listing.NewRepository(deps.DB)
	bookingRepo := booking.NewRepository(deps.DB)
	recorder := audit.NewRecorder(deps.DB, log)
	cache := listing.NewCache(deps.Redis, deps.Cfg.ListingCacheTTL, log)

	accountLifecycle := account.NewLifecycle(accountRepo, listingRepo, log)
	bookingLifecycle := booking.NewLifecycle(bookingRepo, listingRepo, log)

	accountHandlers := account.Handlers{
		Lifecycle:   accountLifecycle,
		Audit:       recorder,
		Cache:       cache,
		TokenSecret: deps.Cfg.JWTSecret,
		TokenTTL:    deps.Cfg.TokenTTL,
	}
	listingHandlers := listing.Handlers{Listings: listingRepo, Cache: cache}
	bookingHandlers := booking.Handlers{Lifecycle: bookingLifecycle, Audit: recorder}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", accountHandlers.Register)
		r.Post("/auth/login", accountHandlers.Login)

		// Public therapist directory.
		r.Get("/therapist-services", listingHandlers.List)

		// User administration.
		r.Group(func(r chi.Router) {
			r.Use(api.SessionAuth(deps.Cfg.JWTSecret))
			r.Use(api.RequireAdmin)

			r.Get("/users", accountHandlers.List)
			r.Get("/users/{id}", accountHandlers.Get)
			r.Put("/users/{id}", accountHandlers.Update)
			r.Delete("/users/{id}", accountHandlers.Delete)
			r.Get("/users/{id}/audit", accountHandlers.AuditTrail)
		})

		// Bookings, scoped to the authenticated caller.
		r.Group(func(r chi.Router) {
			r.Use(api.SessionAuth(deps.Cfg.JWTSecret))

			r.Get("/bookings", bookingHandlers.List)
			r.Post("/bookings", bookingHandlers.Create)
			r.Patch("/bookings/{id}/status", bookingHandlers.PatchStatus)
			r.Put("/bookings/{id}", bookingHandlers.Update)
			r.Get("/bookings/metrics", bookingHandlers.Metrics)

			r.Group(func(r chi.Router) {
				r.Use(api.RequireAdmin)
				r.Delete("/bookings/{id}", bookingHandlers.Delete)
			})
		})
	})

	return r
}
