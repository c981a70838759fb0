package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/service"

	"github.com/gorilla/mux"
)

// BookingHandler exposes the booking core over REST.
type BookingHandler struct {
	booking       service.BookingService
	notifications service.NotificationService
}

func NewBookingHandler(booking service.BookingService, notifications service.NotificationService) *BookingHandler {
	return &BookingHandler{booking: booking, notifications: notifications}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	equipmentID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid equipment id", nil)
		return
	}

	q := r.URL.Query()
	start, err := parseDate(q.Get("start"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid start date", nil)
		return
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid end date", nil)
		return
	}
	quantity := int32(1)
	if raw := q.Get("quantity"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid quantity", nil)
			return
		}
		quantity = int32(v)
	}

	result, err := h.booking.CheckAvailability(r.Context(), equipmentID, start, end, quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type createBookingRequest struct {
	EquipmentID int64           `json:"equipment_id"`
	CustomerID  int64           `json:"customer_id"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Quantity    int32           `json:"quantity"`
	Notes       string          `json:"notes"`
	Pricing     *pricingRequest `json:"pricing"`
}

type pricingRequest struct {
	DailyRateCents       int64 `json:"daily_rate_cents"`
	DeliveryFeeCents     int64 `json:"delivery_fee_cents"`
	InsuranceFeeCents    int64 `json:"insurance_fee_cents"`
	SecurityDepositCents int64 `json:"security_deposit_cents"`
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid start date", nil)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid end date", nil)
		return
	}

	in := service.CreateBookingInput{
		EquipmentID: req.EquipmentID,
		CustomerID:  req.CustomerID,
		StartDate:   start,
		EndDate:     end,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
	}
	if req.Pricing != nil {
		in.Pricing = &service.PricingSnapshot{
			DailyRateCents:       req.Pricing.DailyRateCents,
			DeliveryFeeCents:     req.Pricing.DeliveryFeeCents,
			InsuranceFeeCents:    req.Pricing.InsuranceFeeCents,
			SecurityDepositCents: req.Pricing.SecurityDepositCents,
		}
	}

	rental, err := h.booking.CreateBooking(r.Context(), in)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rental)
}

func (h *BookingHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid rental id", nil)
		return
	}
	rental, err := h.booking.GetRental(r.Context(), rentalID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *BookingHandler) GetRentalByReference(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	rental, err := h.booking.GetRentalByReference(r.Context(), reference)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

type rentalListResponse struct {
	Rentals []domain.Rental `json:"rentals"`
	Total   int32           `json:"total"`
	Page    int32           `json:"page"`
}

// ListRentals serves both participant views: exactly one of customer_id
// or seller_id selects the perspective.
func (h *BookingHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	customerID, _ := strconv.ParseInt(q.Get("customer_id"), 10, 64)
	sellerID, _ := strconv.ParseInt(q.Get("seller_id"), 10, 64)
	if (customerID == 0) == (sellerID == 0) {
		respondError(w, http.StatusBadRequest, "exactly one of customer_id or seller_id is required", nil)
		return
	}

	status := domain.RentalStatus(q.Get("status"))
	if status != "" && !status.IsValid() {
		respondError(w, http.StatusBadRequest, "unknown status filter", nil)
		return
	}
	page, pageSize := pagination(q.Get("page"), q.Get("page_size"))

	var (
		rentals []domain.Rental
		total   int32
		err     error
	)
	if customerID != 0 {
		rentals, total, err = h.booking.ListRentalsByCustomer(r.Context(), customerID, status, page, pageSize)
	} else {
		rentals, total, err = h.booking.ListRentalsBySeller(r.Context(), sellerID, status, page, pageSize)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if rentals == nil {
		rentals = []domain.Rental{}
	}
	respondJSON(w, http.StatusOK, rentalListResponse{Rentals: rentals, Total: total, Page: page})
}

type transitionRequest struct {
	Status  string `json:"status"`
	ActorID int64  `json:"actor_id"`
	Notes   string `json:"notes"`
}

func (h *BookingHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid rental id", nil)
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	rental, err := h.booking.TransitionStatus(r.Context(), rentalID, domain.RentalStatus(req.Status), req.ActorID, req.Notes)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *BookingHandler) ListStatusUpdates(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid rental id", nil)
		return
	}
	updates, err := h.booking.ListStatusUpdates(r.Context(), rentalID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if updates == nil {
		updates = []domain.RentalStatusUpdate{}
	}
	respondJSON(w, http.StatusOK, updates)
}

func (h *BookingHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid rental id", nil)
		return
	}
	sale, err := h.booking.GetSale(r.Context(), rentalID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

type payoutRequest struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

func (h *BookingHandler) UpdatePayout(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid rental id", nil)
		return
	}
	var req payoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	sale, err := h.booking.UpdatePayout(r.Context(), rentalID, domain.PayoutStatus(req.Status), req.Reference)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

func (h *BookingHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := strconv.ParseInt(q.Get("user_id"), 10, 64)
	if err != nil || userID == 0 {
		respondError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}
	page, pageSize := pagination(q.Get("page"), q.Get("page_size"))

	notifications, total, err := h.notifications.ListNotifications(r.Context(), userID, page, pageSize)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"total":         total,
		"page":          page,
	})
}

type markReadRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *BookingHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid notification id", nil)
		return
	}
	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.notifications.MarkAsRead(r.Context(), req.UserID, notificationID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}

func pagination(rawPage, rawSize string) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if v, err := strconv.ParseInt(rawPage, 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(rawSize, 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
// Timestamps are truncated to their UTC calendar day: rental intervals
// are inclusive dates, and overlap arithmetic assumes date-aligned
// bounds.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
