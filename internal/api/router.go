package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parkshare/internal/auth"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	Availability *AvailabilityHandler
	Bookings     *BookingHandler
	Stripe       *StripeWebhookHandler
	DB           Pinger
	JWTSecret    string
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestMiddleware)
	requireUser := auth.RequireUser(h.JWTSecret)

	r.HandleFunc("/healthz", healthHandler(h.DB)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Public endpoints
	api.HandleFunc("/spaces/{id}/availability", h.Availability.GetAvailability).Methods(http.MethodGet)
	api.HandleFunc("/spaces/{id}/availability/range", h.Availability.GetAvailabilityRange).Methods(http.MethodGet)
	api.HandleFunc("/spaces/{id}/quote", h.Bookings.Quote).Methods(http.MethodPost)
	api.HandleFunc("/stripe/webhook", h.Stripe.HandleWebhook).Methods(http.MethodPost)

	// Authenticated endpoints
	api.Handle("/spaces/{id}/availability", requireUser(http.HandlerFunc(h.Availability.ReplaceAvailability))).Methods(http.MethodPut)
	api.Handle("/bookings", requireUser(http.HandlerFunc(h.Bookings.CreateBooking))).Methods(http.MethodPost)
	api.Handle("/bookings/{id}", requireUser(http.HandlerFunc(h.Bookings.GetBooking))).Methods(http.MethodGet)
	api.Handle("/bookings/{id}", requireUser(http.HandlerFunc(h.Bookings.CancelBooking))).Methods(http.MethodDelete)

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
