package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Belgregori/AutoRent/internal/service"
	"github.com/Belgregori/AutoRent/pkg/health"
	"github.com/Belgregori/AutoRent/pkg/middleware"
)

// NewRouter creates a chi router with all reservation service routes registered.
func NewRouter(
	reservationService *service.ReservationService,
	availabilityService *service.AvailabilityService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("reservation"))
	r.Use(middleware.Tracing("reservation"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	reservationHandler := NewReservationHandler(reservationService, logger)
	availabilityHandler := NewAvailabilityHandler(availabilityService, reservationService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", reservationHandler.CreateReservation)
			r.Get("/", reservationHandler.ListReservations)
			r.Get("/stats", reservationHandler.GetStats)
			r.Get("/{id}", reservationHandler.GetReservation)
			r.Post("/{id}/confirm", reservationHandler.ConfirmReservation)
			r.Post("/{id}/cancel", reservationHandler.CancelReservation)
			r.Post("/{id}/complete", reservationHandler.CompleteReservation)
			r.Delete("/{id}", reservationHandler.DeleteReservation)
		})

		r.Get("/users/{id}/reservations", reservationHandler.ListUserReservations)

		r.Route("/products/{id}", func(r chi.Router) {
			r.Get("/availability", availabilityHandler.GetAvailability)
			r.Get("/availability/check", availabilityHandler.CheckAvailability)
			r.Get("/occupied-dates", availabilityHandler.GetOccupiedDates)
		})
	})

	return r
}
