package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEquipmentNotFound    = errors.New("equipment not found")
	ErrRentalNotFound       = errors.New("rental not found")
	ErrSaleNotFound         = errors.New("sale not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrSaleExists is returned by the sale repository when the unique
	// rental_id constraint rejects a duplicate settlement attempt.
	ErrSaleExists = errors.New("sale already exists for rental")

	// ErrInvalidRange covers malformed booking input: end before start,
	// zero dates, non-positive quantity. Rejected before any side effect.
	ErrInvalidRange = errors.New("invalid rental range")

	// ErrEquipmentUnavailable is the equipment-level gate: the item is
	// under maintenance or inactive and not bookable at all.
	ErrEquipmentUnavailable = errors.New("equipment currently unavailable")

	ErrUnknownStatus = errors.New("unknown status")
)

// CapacityError reports that the overlapping holding rentals leave fewer
// free units than requested. Callers may retry with a fresh availability
// check or different parameters.
type CapacityError struct {
	EquipmentID int64
	Requested   int32
	Available   int32
	TotalUnits  int32
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("equipment %d: requested %d units but only %d of %d available for the selected dates",
		e.EquipmentID, e.Requested, e.Available, e.TotalUnits)
}

// InvalidTransitionError reports an illegal state-machine move. It names
// both statuses and the allowed set so callers can render specific
// guidance.
type InvalidTransitionError struct {
	From    RentalStatus
	To      RentalStatus
	Allowed []RentalStatus
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot transition rental from terminal status %q to %q", e.From, e.To)
	}
	names := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		names[i] = string(s)
	}
	return fmt.Sprintf("cannot transition rental from %q to %q (allowed: %s)",
		e.From, e.To, strings.Join(names, ", "))
}
