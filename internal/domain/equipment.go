package domain

import "time"

type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
	EquipmentStatusRented      EquipmentStatus = "rented"
	EquipmentStatusReserved    EquipmentStatus = "reserved"
	EquipmentStatusInactive    EquipmentStatus = "inactive"
)

// Bookable reports whether new rental requests may be attempted at all.
// The equipment-level gate takes precedence over unit arithmetic.
func (s EquipmentStatus) Bookable() bool {
	return s == EquipmentStatusAvailable
}

// Equipment is a read-only view of the catalog collaborator's record.
// The booking core never mutates equipment rows.
type Equipment struct {
	ID               int64           `json:"id"`
	SellerID         int64           `json:"seller_id"`
	Name             string          `json:"name"`
	Status           EquipmentStatus `json:"status"`
	TotalUnits       int32           `json:"total_units"`
	DailyRateCents   int64           `json:"daily_rate_cents"`
	WeeklyRateCents  int64           `json:"weekly_rate_cents"`
	MonthlyRateCents int64           `json:"monthly_rate_cents"`
	CreatedOn        time.Time       `json:"created_on"`
	UpdatedOn        time.Time       `json:"updated_on"`
}

// AvailabilityResult is the structured answer to a capacity question.
type AvailabilityResult struct {
	EquipmentID    int64  `json:"equipment_id"`
	TotalUnits     int32  `json:"total_units"`
	HeldUnits      int32  `json:"held_units"`
	AvailableUnits int32  `json:"available_units"`
	IsAvailable    bool   `json:"is_available"`
	Reason         string `json:"reason,omitempty"`
}
