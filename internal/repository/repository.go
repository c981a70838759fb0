package repository

import (
	"context"
	"time"

	"equiprent-backend/internal/domain"
)

// EquipmentRepository is the booking core's read-only view of the
// catalog collaborator's equipment records.
type EquipmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Equipment, error)
	// GetByIDForUpdate locks the equipment row for the duration of the
	// surrounding transaction. Reservations take this lock to close the
	// race window between the availability check and the rental insert.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Equipment, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rt *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	GetByReference(ctx context.Context, reference string) (*domain.Rental, error)
	// GetByIDForUpdate locks the rental row so concurrent transitions
	// against the same rental serialize.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Rental, error)
	// UpdateStatus persists the status and the transition-owned
	// timestamp fields. Snapshot pricing fields are never rewritten.
	UpdateStatus(ctx context.Context, rt *domain.Rental) error
	// SumHeldUnits aggregates quantity over rentals of the equipment in
	// any of the given statuses whose interval overlaps [start, end].
	SumHeldUnits(ctx context.Context, equipmentID int64, start, end time.Time, statuses []domain.RentalStatus) (int32, error)
	ListByCustomer(ctx context.Context, customerID int64, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error)
	ListBySeller(ctx context.Context, sellerID int64, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error)
	// ListOverdueCandidates returns in-progress and overdue rentals
	// whose end date is before the cutoff.
	ListOverdueCandidates(ctx context.Context, cutoff time.Time) ([]domain.Rental, error)
}

type StatusUpdateRepository interface {
	Create(ctx context.Context, u *domain.RentalStatusUpdate) error
	ListByRental(ctx context.Context, rentalID int64) ([]domain.RentalStatusUpdate, error)
}

type SaleRepository interface {
	// Create returns domain.ErrSaleExists when the unique rental_id
	// constraint rejects the insert.
	Create(ctx context.Context, sale *domain.Sale) error
	GetByRentalID(ctx context.Context, rentalID int64) (*domain.Sale, error)
	// GetByRentalIDForUpdate locks the sale row so concurrent payout
	// updates against the same sale serialize.
	GetByRentalIDForUpdate(ctx context.Context, rentalID int64) (*domain.Sale, error)
	// UpdatePayout mutates only payout_status, payout_date and
	// payout_reference.
	UpdatePayout(ctx context.Context, sale *domain.Sale) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}

// Repositories groups the data access interfaces so services can be
// handed either the shared pool-backed set or a transaction-bound set.
type Repositories interface {
	Equipment() EquipmentRepository
	Rentals() RentalRepository
	StatusUpdates() StatusUpdateRepository
	Sales() SaleRepository
	Notifications() NotificationRepository
}

// Transactor runs a function against repositories bound to a single
// database transaction. The function's error rolls everything back.
type Transactor interface {
	Repositories
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}
