package postgres_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var rentalCols = []string{
	"id", "reference", "equipment_id", "customer_id", "seller_id", "start_date", "end_date", "quantity",
	"daily_rate_cents", "total_days", "subtotal_cents", "delivery_fee_cents", "insurance_fee_cents",
	"security_deposit_cents", "late_fee_cents", "damage_fee_cents", "total_amount_cents",
	"status", "customer_notes", "cancellation_reason",
	"approved_at", "cancelled_at", "actual_start_date", "actual_end_date", "created_on", "updated_on",
}

func rentalRow(id int64) []driverValue {
	now := time.Now().UTC()
	return []driverValue{
		id, "RNTABCD1234", int64(7), int64(3), int64(42), now, now.Add(96 * time.Hour), int32(2),
		int64(25000), int32(5), int64(250000), int64(5000), int64(2500),
		int64(50000), int64(0), int64(0), int64(257500),
		"approved", "", "",
		nil, nil, nil, nil, now, now,
	}
}

type driverValue = driver.Value

func TestRentalRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now().UTC()
		rental := &domain.Rental{
			Reference:      "RNTABCD1234",
			EquipmentID:    7,
			CustomerID:     3,
			SellerID:       42,
			StartDate:      now,
			EndDate:        now.Add(96 * time.Hour),
			Quantity:       2,
			DailyRateCents: 25000,
			Status:         domain.RentalStatusPending,
		}

		mock.ExpectQuery("INSERT INTO rentals").
			WithArgs(rental.Reference, rental.EquipmentID, rental.CustomerID, rental.SellerID,
				rental.StartDate, rental.EndDate, rental.Quantity,
				rental.DailyRateCents, rental.TotalDays, rental.SubtotalCents, rental.DeliveryFeeCents,
				rental.InsuranceFeeCents, rental.SecurityDepositCents, rental.LateFeeCents,
				rental.DamageFeeCents, rental.TotalAmountCents, rental.Status, rental.CustomerNotes,
				rental.ApprovedAt, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_on", "updated_on"}).AddRow(100, now, now))

		err := repo.Create(ctx, rental)
		assert.NoError(t, err)
		assert.Equal(t, int64(100), rental.ID)
	})
}

func TestRentalRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id = \$1`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(rentalCols).AddRow(rentalRow(100)...))

		rental, err := repo.GetByID(ctx, 100)
		assert.NoError(t, err)
		assert.Equal(t, int64(100), rental.ID)
		assert.Equal(t, domain.RentalStatusApproved, rental.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE id = \$1`).
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows(rentalCols))

		_, err := repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrRentalNotFound)
	})
}

func TestRentalRepository_GetByReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE reference = \$1`).
		WithArgs("RNTABCD1234").
		WillReturnRows(sqlmock.NewRows(rentalCols).AddRow(rentalRow(100)...))

	rental, err := repo.GetByReference(ctx, "RNTABCD1234")
	assert.NoError(t, err)
	assert.Equal(t, "RNTABCD1234", rental.Reference)
}

func TestRentalRepository_SumHeldUnits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	t.Run("AggregatesOverlappingHolds", func(t *testing.T) {
		// Overlap test binds requested end before requested start.
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM rentals`).
			WithArgs(int64(7), sqlmock.AnyArg(), end, start).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(6))

		held, err := repo.SumHeldUnits(ctx, 7, start, end, domain.HoldingStatuses())
		assert.NoError(t, err)
		assert.Equal(t, int32(6), held)
	})

	t.Run("NoHolds", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM rentals`).
			WithArgs(int64(7), sqlmock.AnyArg(), end, start).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		held, err := repo.SumHeldUnits(ctx, 7, start, end, domain.HoldingStatuses())
		assert.NoError(t, err)
		assert.Equal(t, int32(0), held)
	})
}

func TestRentalRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rental := &domain.Rental{ID: 100, Status: domain.RentalStatusConfirmed}

		mock.ExpectExec("UPDATE rentals").
			WithArgs(rental.Status, rental.CancellationReason, rental.ApprovedAt, rental.CancelledAt,
				rental.ActualStartDate, rental.ActualEndDate, rental.LateFeeCents,
				rental.DamageFeeCents, rental.TotalAmountCents, sqlmock.AnyArg(), rental.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, rental)
		assert.NoError(t, err)
	})

	t.Run("MissingRental", func(t *testing.T) {
		rental := &domain.Rental{ID: 999, Status: domain.RentalStatusConfirmed}

		mock.ExpectExec("UPDATE rentals").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, rental)
		assert.ErrorIs(t, err, domain.ErrRentalNotFound)
	})
}

func TestRentalRepository_ListByCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	t.Run("WithStatusFilter", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM rentals WHERE customer_id = \$1 AND status = \$2`).
			WithArgs(int64(3), domain.RentalStatusApproved).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE customer_id = \$1 AND status = \$2 ORDER BY created_on DESC`).
			WithArgs(int64(3), domain.RentalStatusApproved, int32(20), int32(0)).
			WillReturnRows(sqlmock.NewRows(rentalCols).AddRow(rentalRow(100)...))

		rentals, total, err := repo.ListByCustomer(ctx, 3, domain.RentalStatusApproved, 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), total)
		assert.Len(t, rentals, 1)
	})

	t.Run("PaginationOffset", func(t *testing.T) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM rentals WHERE customer_id = \$1`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
		mock.ExpectQuery(`SELECT (.+) FROM rentals WHERE customer_id = \$1 ORDER BY created_on DESC`).
			WithArgs(int64(3), int32(10), int32(10)).
			WillReturnRows(sqlmock.NewRows(rentalCols).AddRow(rentalRow(100)...))

		_, total, err := repo.ListByCustomer(ctx, 3, "", 2, 10)
		assert.NoError(t, err)
		assert.Equal(t, int32(25), total)
	})
}
