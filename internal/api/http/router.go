package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires all API routes onto a gorilla/mux router.
func NewRouter(h *BookingHandler) http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogging)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/equipment/{id:[0-9]+}/availability", h.CheckAvailability).Methods(http.MethodGet)

	api.HandleFunc("/rentals", h.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/rentals", h.ListRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals/reference/{reference}", h.GetRentalByReference).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}", h.GetRental).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/status", h.TransitionStatus).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id:[0-9]+}/history", h.ListStatusUpdates).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/sale", h.GetSale).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id:[0-9]+}/payout", h.UpdatePayout).Methods(http.MethodPost)

	api.HandleFunc("/notifications", h.ListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", h.MarkNotificationRead).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
