package service

import (
	"context"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

// PricingSnapshot carries the creation-time pricing supplied by the
// caller. Zero-valued fields fall back to equipment rates and platform
// defaults; rate selection itself (daily vs weekly vs monthly) is the
// pricing collaborator's job, not this core's.
type PricingSnapshot struct {
	DailyRateCents       int64
	DeliveryFeeCents     int64
	InsuranceFeeCents    int64
	SecurityDepositCents int64
}

// CreateBookingInput is the façade's booking-creation request.
type CreateBookingInput struct {
	EquipmentID int64
	CustomerID  int64
	StartDate   time.Time
	EndDate     time.Time
	Quantity    int32
	Notes       string
	Pricing     *PricingSnapshot
}

// BookingService is the orchestration façade: the only entry point
// external collaborators call. It composes the inventory ledger, the
// booking state machine and the settlement engine.
type BookingService interface {
	CheckAvailability(ctx context.Context, equipmentID int64, start, end time.Time, quantity int32) (*domain.AvailabilityResult, error)
	CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Rental, error)
	TransitionStatus(ctx context.Context, rentalID int64, newStatus domain.RentalStatus, actorID int64, notes string) (*domain.Rental, error)
	GetRental(ctx context.Context, rentalID int64) (*domain.Rental, error)
	GetRentalByReference(ctx context.Context, reference string) (*domain.Rental, error)
	ListRentalsByCustomer(ctx context.Context, customerID int64, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error)
	ListRentalsBySeller(ctx context.Context, sellerID int64, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error)
	ListStatusUpdates(ctx context.Context, rentalID int64) ([]domain.RentalStatusUpdate, error)
	GetSale(ctx context.Context, rentalID int64) (*domain.Sale, error)
	UpdatePayout(ctx context.Context, rentalID int64, status domain.PayoutStatus, reference string) (*domain.Sale, error)
}

// InventoryLedger answers capacity questions. Pure reads; availability
// is always recomputed by aggregating overlapping holding rentals,
// never tracked as a standalone counter.
type InventoryLedger interface {
	CheckAvailability(ctx context.Context, equipmentID int64, start, end time.Time, quantity int32) (*domain.AvailabilityResult, error)
}

// SettlementEngine produces exactly one Sale per rental. Settle is
// invoked from inside the completed transition's transaction, so it
// receives the transaction-bound repositories.
type SettlementEngine interface {
	Settle(ctx context.Context, repos repository.Repositories, rt *domain.Rental) (*domain.Sale, error)
}

// NotificationService exposes in-app notification reads and the
// fire-and-forget event hooks the booking core calls after commits.
// Hook failures are logged, never propagated.
type NotificationService interface {
	ListNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error

	BookingCreated(ctx context.Context, rt *domain.Rental)
	StatusChanged(ctx context.Context, rt *domain.Rental, oldStatus domain.RentalStatus)
	RentalSettled(ctx context.Context, rt *domain.Rental, sale *domain.Sale)
}

// EmailService delivers operational email to the platform inbox.
// Participant-facing delivery belongs to the external notification
// collaborator; identity here is opaque IDs with no address lookup.
type EmailService interface {
	SendBookingReceivedNotice(ctx context.Context, reference, equipmentName string, quantity int32) error
	SendStatusUpdateNotice(ctx context.Context, reference string, oldStatus, newStatus domain.RentalStatus) error
	SendSettlementNotice(ctx context.Context, reference string, payoutCents int64) error
	SendOverdueDigest(ctx context.Context, references []string) error
}
