package service

import (
	"context"
	"fmt"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

type inventoryLedger struct {
	repos repository.Repositories
}

func NewInventoryLedger(repos repository.Repositories) InventoryLedger {
	return &inventoryLedger{repos: repos}
}

func (l *inventoryLedger) CheckAvailability(ctx context.Context, equipmentID int64, start, end time.Time, quantity int32) (*domain.AvailabilityResult, error) {
	return checkAvailability(ctx, l.repos, equipmentID, start, end, quantity)
}

// checkAvailability is shared between the public read path and the
// reservation transaction, which re-runs it against transaction-bound
// repositories after locking the equipment row.
func checkAvailability(ctx context.Context, repos repository.Repositories, equipmentID int64, start, end time.Time, quantity int32) (*domain.AvailabilityResult, error) {
	start, end = dayOf(start), dayOf(end)
	if err := validateRange(start, end, quantity); err != nil {
		return nil, err
	}

	eq, err := repos.Equipment().GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	return availabilityFor(ctx, repos, eq, start, end, quantity)
}

// availabilityFor computes the result for an already-loaded equipment
// record. The equipment-level gate short-circuits before any unit
// arithmetic.
func availabilityFor(ctx context.Context, repos repository.Repositories, eq *domain.Equipment, start, end time.Time, quantity int32) (*domain.AvailabilityResult, error) {
	result := &domain.AvailabilityResult{
		EquipmentID: eq.ID,
		TotalUnits:  eq.TotalUnits,
	}

	if !eq.Status.Bookable() {
		result.Reason = "equipment currently unavailable"
		return result, nil
	}

	held, err := repos.Rentals().SumHeldUnits(ctx, eq.ID, start, end, domain.HoldingStatuses())
	if err != nil {
		return nil, err
	}

	result.HeldUnits = held
	result.AvailableUnits = eq.TotalUnits - held
	if result.AvailableUnits < 0 {
		result.AvailableUnits = 0
	}
	result.IsAvailable = result.AvailableUnits >= quantity
	if !result.IsAvailable {
		result.Reason = fmt.Sprintf("only %d of %d units available for the selected dates",
			result.AvailableUnits, eq.TotalUnits)
	}
	return result, nil
}

// dayOf truncates a timestamp to its UTC calendar day. Interval bounds
// are inclusive dates; an unaligned timestamp would make two rentals
// sharing a calendar day fail the overlap test and undercount held
// units.
func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateRange(start, end time.Time, quantity int32) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrInvalidRange)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date %s is before start date %s",
			domain.ErrInvalidRange, end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", domain.ErrInvalidRange, quantity)
	}
	return nil
}
