package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending         RentalStatus = "pending"
	RentalStatusApproved        RentalStatus = "approved"
	RentalStatusPaymentPending  RentalStatus = "payment_pending"
	RentalStatusConfirmed       RentalStatus = "confirmed"
	RentalStatusPreparing       RentalStatus = "preparing"
	RentalStatusReadyForPickup  RentalStatus = "ready_for_pickup"
	RentalStatusOutForDelivery  RentalStatus = "out_for_delivery"
	RentalStatusDelivered       RentalStatus = "delivered"
	RentalStatusInProgress      RentalStatus = "in_progress"
	RentalStatusReturnRequested RentalStatus = "return_requested"
	RentalStatusReturning       RentalStatus = "returning"
	RentalStatusCompleted       RentalStatus = "completed"
	RentalStatusCancelled       RentalStatus = "cancelled"
	RentalStatusOverdue         RentalStatus = "overdue"
	RentalStatusDispute         RentalStatus = "dispute"
)

// AutoApproveMaxQuantity is the exclusive upper bound for creation-time
// auto-approval: bookings below this quantity skip seller review.
const AutoApproveMaxQuantity = 5

// SystemActorID is recorded on status updates performed by scheduled jobs
// rather than a customer or seller.
const SystemActorID int64 = 0

// rentalTransitions is the single source of truth for legal status moves.
// Terminal statuses have no entry.
var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusPending:         {RentalStatusApproved, RentalStatusCancelled},
	RentalStatusApproved:        {RentalStatusPaymentPending, RentalStatusConfirmed, RentalStatusCancelled},
	RentalStatusPaymentPending:  {RentalStatusConfirmed, RentalStatusCancelled},
	RentalStatusConfirmed:       {RentalStatusPreparing, RentalStatusCancelled},
	RentalStatusPreparing:       {RentalStatusReadyForPickup, RentalStatusOutForDelivery, RentalStatusCancelled},
	RentalStatusReadyForPickup:  {RentalStatusDelivered, RentalStatusCancelled},
	RentalStatusOutForDelivery:  {RentalStatusDelivered, RentalStatusCancelled},
	RentalStatusDelivered:       {RentalStatusInProgress},
	RentalStatusInProgress:      {RentalStatusReturnRequested, RentalStatusOverdue, RentalStatusCompleted},
	RentalStatusReturnRequested: {RentalStatusReturning},
	RentalStatusReturning:       {RentalStatusCompleted},
	RentalStatusOverdue:         {RentalStatusReturning, RentalStatusDispute},
	RentalStatusDispute:         {RentalStatusCompleted, RentalStatusCancelled},
}

// IsValid reports whether s is a member of the closed status enumeration.
func (s RentalStatus) IsValid() bool {
	if s.IsTerminal() {
		return true
	}
	_, ok := rentalTransitions[s]
	return ok
}

// IsTerminal reports whether a rental in this status can never move again.
func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

// CanTransitionTo reports whether the move s -> next is legal.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, allowed := range rentalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the legal destination statuses from s.
// Terminal statuses return an empty slice.
func (s RentalStatus) AllowedTransitions() []RentalStatus {
	allowed := rentalTransitions[s]
	out := make([]RentalStatus, len(allowed))
	copy(out, allowed)
	return out
}

// HoldsInventory reports whether a rental in this status counts against
// the equipment's available units. Every non-terminal status holds,
// including pending: a request reduces availability before seller
// approval so the platform cannot oversell while a decision is open.
func (s RentalStatus) HoldsInventory() bool {
	return s.IsValid() && !s.IsTerminal()
}

// HoldingStatuses returns all statuses that count against availability.
func HoldingStatuses() []RentalStatus {
	return []RentalStatus{
		RentalStatusPending, RentalStatusApproved, RentalStatusPaymentPending,
		RentalStatusConfirmed, RentalStatusPreparing, RentalStatusReadyForPickup,
		RentalStatusOutForDelivery, RentalStatusDelivered, RentalStatusInProgress,
		RentalStatusReturnRequested, RentalStatusReturning, RentalStatusOverdue,
		RentalStatusDispute,
	}
}

// Rental is the central booking entity. Dates are inclusive calendar
// dates. All money fields are snapshots captured at creation time; cost
// calculations never read live equipment rates.
type Rental struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`

	EquipmentID int64 `json:"equipment_id"`
	CustomerID  int64 `json:"customer_id"`
	// SellerID is denormalized from the equipment's owner at creation
	// time for query efficiency.
	SellerID int64 `json:"seller_id"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Quantity  int32     `json:"quantity"`

	DailyRateCents       int64 `json:"daily_rate_cents"`
	TotalDays            int32 `json:"total_days"`
	SubtotalCents        int64 `json:"subtotal_cents"`
	DeliveryFeeCents     int64 `json:"delivery_fee_cents"`
	InsuranceFeeCents    int64 `json:"insurance_fee_cents"`
	SecurityDepositCents int64 `json:"security_deposit_cents"`
	LateFeeCents         int64 `json:"late_fee_cents"`
	DamageFeeCents       int64 `json:"damage_fee_cents"`
	TotalAmountCents     int64 `json:"total_amount_cents"`

	Status             RentalStatus `json:"status"`
	CustomerNotes      string       `json:"customer_notes,omitempty"`
	CancellationReason string       `json:"cancellation_reason,omitempty"`

	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	ActualStartDate *time.Time `json:"actual_start_date,omitempty"`
	ActualEndDate   *time.Time `json:"actual_end_date,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// RecalculateTotals derives total_days, subtotal and total_amount from
// the stored snapshot fields. The security deposit is excluded from the
// total: it is held, not charged. Billing counts whole calendar days
// inclusive of both endpoints, so any time-of-day component is ignored.
func (r *Rental) RecalculateTotals() {
	start, end := midnightUTC(r.StartDate), midnightUTC(r.EndDate)
	r.TotalDays = int32(end.Sub(start).Hours()/24) + 1
	r.SubtotalCents = r.DailyRateCents * int64(r.Quantity) * int64(r.TotalDays)
	r.TotalAmountCents = r.SubtotalCents + r.DeliveryFeeCents + r.InsuranceFeeCents +
		r.LateFeeCents + r.DamageFeeCents
}

// Overlaps reports whether the rental's interval shares at least one
// calendar day with [start, end]. Bounds are compared as UTC days, so
// two intervals touching the same day overlap even when their
// time-of-day components would not.
func (r *Rental) Overlaps(start, end time.Time) bool {
	return !midnightUTC(r.StartDate).After(midnightUTC(end)) &&
		!midnightUTC(r.EndDate).Before(midnightUTC(start))
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
