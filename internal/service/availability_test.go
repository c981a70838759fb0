package service

import (
	"context"
	"testing"
	"time"

	"equiprent-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestInventoryLedger_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	t.Run("PartialHoldLeavesTooFewUnits", func(t *testing.T) {
		store := newFakeStore()
		store.equipment.On("GetByID", ctx, int64(1)).Return(&domain.Equipment{
			ID:         1,
			Status:     domain.EquipmentStatusAvailable,
			TotalUnits: 10,
		}, nil)
		store.rentals.On("SumHeldUnits", ctx, int64(1), start, end, mock.Anything).Return(int32(6), nil)

		ledger := NewInventoryLedger(store)
		result, err := ledger.CheckAvailability(ctx, 1, start, end, 5)

		assert.NoError(t, err)
		assert.False(t, result.IsAvailable)
		assert.Equal(t, int32(6), result.HeldUnits)
		assert.Equal(t, int32(4), result.AvailableUnits)
		assert.Contains(t, result.Reason, "only 4 of 10 units available")
	})

	t.Run("EnoughUnits", func(t *testing.T) {
		store := newFakeStore()
		store.equipment.On("GetByID", ctx, int64(1)).Return(&domain.Equipment{
			ID:         1,
			Status:     domain.EquipmentStatusAvailable,
			TotalUnits: 10,
		}, nil)
		store.rentals.On("SumHeldUnits", ctx, int64(1), start, end, mock.Anything).Return(int32(6), nil)

		ledger := NewInventoryLedger(store)
		result, err := ledger.CheckAvailability(ctx, 1, start, end, 4)

		assert.NoError(t, err)
		assert.True(t, result.IsAvailable)
		assert.Empty(t, result.Reason)
	})

	t.Run("MaintenanceGateShortCircuits", func(t *testing.T) {
		store := newFakeStore()
		store.equipment.On("GetByID", ctx, int64(2)).Return(&domain.Equipment{
			ID:         2,
			Status:     domain.EquipmentStatusMaintenance,
			TotalUnits: 10,
		}, nil)

		ledger := NewInventoryLedger(store)
		result, err := ledger.CheckAvailability(ctx, 2, start, end, 1)

		assert.NoError(t, err)
		assert.False(t, result.IsAvailable)
		assert.Equal(t, "equipment currently unavailable", result.Reason)
		// No unit arithmetic when the gate is closed.
		store.rentals.AssertNotCalled(t, "SumHeldUnits", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("OverlappingHoldsClampToZero", func(t *testing.T) {
		store := newFakeStore()
		store.equipment.On("GetByID", ctx, int64(3)).Return(&domain.Equipment{
			ID:         3,
			Status:     domain.EquipmentStatusAvailable,
			TotalUnits: 5,
		}, nil)
		store.rentals.On("SumHeldUnits", ctx, int64(3), start, end, mock.Anything).Return(int32(7), nil)

		ledger := NewInventoryLedger(store)
		result, err := ledger.CheckAvailability(ctx, 3, start, end, 1)

		assert.NoError(t, err)
		assert.False(t, result.IsAvailable)
		assert.Equal(t, int32(0), result.AvailableUnits)
	})

	t.Run("TimestampBoundsTruncateToDates", func(t *testing.T) {
		store := newFakeStore()
		store.equipment.On("GetByID", ctx, int64(4)).Return(&domain.Equipment{
			ID:         4,
			Status:     domain.EquipmentStatusAvailable,
			TotalUnits: 10,
		}, nil)
		// The repository sees the UTC calendar days, not the raw
		// timestamps, so a rental ending Sep 5 at 00:00 still counts
		// against a request starting Sep 5 at 10:00.
		store.rentals.On("SumHeldUnits", ctx, int64(4), start, end, mock.Anything).Return(int32(10), nil)

		ledger := NewInventoryLedger(store)
		result, err := ledger.CheckAvailability(ctx, 4,
			time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 5, 9, 30, 0, 0, time.UTC), 1)

		assert.NoError(t, err)
		assert.False(t, result.IsAvailable)
		store.rentals.AssertExpectations(t)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		ledger := NewInventoryLedger(newFakeStore())
		_, err := ledger.CheckAvailability(ctx, 1, end, start, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidRange)
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		ledger := NewInventoryLedger(newFakeStore())
		_, err := ledger.CheckAvailability(ctx, 1, start, end, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidRange)
	})

	t.Run("UnknownEquipment", func(t *testing.T) {
		store := newFakeStore()
		store.equipment.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrEquipmentNotFound)

		ledger := NewInventoryLedger(store)
		_, err := ledger.CheckAvailability(ctx, 99, start, end, 1)
		assert.ErrorIs(t, err, domain.ErrEquipmentNotFound)
	})
}

func TestInventoryLedger_HoldingStatuses(t *testing.T) {
	holding := domain.HoldingStatuses()

	// Pending requests hold inventory until resolved.
	assert.Contains(t, holding, domain.RentalStatusPending)
	assert.Contains(t, holding, domain.RentalStatusInProgress)
	assert.Contains(t, holding, domain.RentalStatusOverdue)

	assert.NotContains(t, holding, domain.RentalStatusCompleted)
	assert.NotContains(t, holding, domain.RentalStatusCancelled)
}
