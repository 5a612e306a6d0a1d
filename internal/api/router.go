package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMid "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Cheertaboi/promo-code-service/internal/api/handlers"
	"github.com/Cheertaboi/promo-code-service/internal/api/middleware"
	"github.com/Cheertaboi/promo-code-service/internal/limiter"
	"github.com/Cheertaboi/promo-code-service/internal/metrics"
)

// timeoutGrace keeps the router's deadline past the service's own, so a store
// timeout is answered by the handler and not by chi.
const timeoutGrace = 2 * time.Second

type Deps struct {
	Service        handlers.PromoService
	Limiter        limiter.Limiter
	Health         func(ctx context.Context) error
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP router for the promo-service
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		nop := zerolog.Nop()
		d.Logger = &nop
	}

	r := chi.NewRouter()
	r.Use(chiMid.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chiMid.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(chiMid.Timeout(d.RequestTimeout + timeoutGrace))
	}
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	promoHandler := handlers.NewPromoHandler(d.Service, d.Limiter, d.Logger)

	r.Route("/promo-codes", func(r chi.Router) {
		r.Use(middleware.CORS)
		r.MethodNotAllowed(handlers.MethodNotAllowed)
		r.Post("/validate", promoHandler.ValidatePromoCode)
		r.Options("/validate", func(w http.ResponseWriter, r *http.Request) {})
		r.Post("/redeem", promoHandler.RedeemPromoCode)
		r.Options("/redeem", func(w http.ResponseWriter, r *http.Request) {})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if d.Health != nil {
			if err := d.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	return r
}
