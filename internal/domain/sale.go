package domain

import "time"

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
	PayoutStatusOnHold     PayoutStatus = "on_hold"
)

// IsValid reports whether s is a member of the payout status enumeration.
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusProcessing, PayoutStatusCompleted,
		PayoutStatusFailed, PayoutStatusOnHold:
		return true
	}
	return false
}

// DefaultCommissionBasisPoints is the platform commission applied when no
// seller-specific rate is configured: 1000 basis points = 10.00%.
const DefaultCommissionBasisPoints int32 = 1000

// Sale is the settlement record written when a rental completes. At most
// one exists per rental; the unique constraint on rental_id is the source
// of truth for that, not application-level checks. Financial fields are
// immutable after creation; only the payout tracking fields are mutated,
// by the external payout collaborator.
type Sale struct {
	ID       int64 `json:"id"`
	RentalID int64 `json:"rental_id"`

	TotalRevenueCents int64 `json:"total_revenue_cents"`
	SubtotalCents     int64 `json:"subtotal_cents"`
	DeliveryFeeCents  int64 `json:"delivery_fee_cents"`
	InsuranceFeeCents int64 `json:"insurance_fee_cents"`
	LateFeeCents      int64 `json:"late_fee_cents"`
	DamageFeeCents    int64 `json:"damage_fee_cents"`

	CommissionBasisPoints int32 `json:"commission_basis_points"`
	CommissionCents       int64 `json:"commission_cents"`
	SellerPayoutCents     int64 `json:"seller_payout_cents"`

	SellerID    int64 `json:"seller_id"`
	CustomerID  int64 `json:"customer_id"`
	EquipmentID int64 `json:"equipment_id"`

	RentalDays      int32     `json:"rental_days"`
	RentalStartDate time.Time `json:"rental_start_date"`
	RentalEndDate   time.Time `json:"rental_end_date"`
	Quantity        int32     `json:"quantity"`

	PayoutStatus    PayoutStatus `json:"payout_status"`
	PayoutDate      *time.Time   `json:"payout_date,omitempty"`
	PayoutReference string       `json:"payout_reference,omitempty"`

	SaleDate  time.Time `json:"sale_date"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
