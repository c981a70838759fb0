package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"

	"github.com/google/uuid"
)

// BookingOptions carries platform defaults applied when the caller's
// pricing snapshot leaves fields unset.
type BookingOptions struct {
	DefaultDeliveryFeeCents int64
}

type bookingService struct {
	store      repository.Transactor
	ledger     InventoryLedger
	settlement SettlementEngine
	notifier   NotificationService
	opts       BookingOptions
}

func NewBookingService(store repository.Transactor, settlement SettlementEngine, notifier NotificationService, opts BookingOptions) BookingService {
	return &bookingService{
		store:      store,
		ledger:     NewInventoryLedger(store),
		settlement: settlement,
		notifier:   notifier,
		opts:       opts,
	}
}

func (s *bookingService) CheckAvailability(ctx context.Context, equipmentID int64, start, end time.Time, quantity int32) (*domain.AvailabilityResult, error) {
	return s.ledger.CheckAvailability(ctx, equipmentID, start, end, quantity)
}

// CreateBooking validates the request, reserves units and creates the
// rental in one transaction. The equipment row lock closes the race
// between the availability check and the insert: concurrent requests
// that would jointly exceed capacity serialize on it, and the loser
// gets a CapacityError rather than an oversold rental.
func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Rental, error) {
	in.StartDate, in.EndDate = dayOf(in.StartDate), dayOf(in.EndDate)
	if err := validateRange(in.StartDate, in.EndDate, in.Quantity); err != nil {
		return nil, err
	}

	var rental *domain.Rental
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		eq, err := repos.Equipment().GetByIDForUpdate(ctx, in.EquipmentID)
		if err != nil {
			return err
		}
		if !eq.Status.Bookable() {
			return domain.ErrEquipmentUnavailable
		}

		result, err := availabilityFor(ctx, repos, eq, in.StartDate, in.EndDate, in.Quantity)
		if err != nil {
			return err
		}
		if !result.IsAvailable {
			return &domain.CapacityError{
				EquipmentID: eq.ID,
				Requested:   in.Quantity,
				Available:   result.AvailableUnits,
				TotalUnits:  eq.TotalUnits,
			}
		}

		rental = buildRental(eq, in, s.opts)
		if err := repos.Rentals().Create(ctx, rental); err != nil {
			return err
		}

		notes := "rental request created by customer"
		if rental.Status == domain.RentalStatusApproved {
			notes = fmt.Sprintf("rental request created and auto-approved (quantity %d below review threshold)", rental.Quantity)
		}
		return repos.StatusUpdates().Create(ctx, &domain.RentalStatusUpdate{
			RentalID:            rental.ID,
			NewStatus:           rental.Status,
			ActorID:             in.CustomerID,
			Notes:               notes,
			IsVisibleToCustomer: true,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BookingCreated(ctx, rental)
	return rental, nil
}

// buildRental captures the financial snapshot. The rental's cost fields
// never change with later equipment repricing.
func buildRental(eq *domain.Equipment, in CreateBookingInput, opts BookingOptions) *domain.Rental {
	rt := &domain.Rental{
		Reference:     newRentalReference(),
		EquipmentID:   eq.ID,
		CustomerID:    in.CustomerID,
		SellerID:      eq.SellerID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Quantity:      in.Quantity,
		Status:        domain.RentalStatusPending,
		CustomerNotes: in.Notes,
	}

	pricing := in.Pricing
	if pricing == nil {
		pricing = &PricingSnapshot{}
	}
	rt.DailyRateCents = pricing.DailyRateCents
	if rt.DailyRateCents == 0 {
		rt.DailyRateCents = eq.DailyRateCents
	}
	rt.DeliveryFeeCents = pricing.DeliveryFeeCents
	if rt.DeliveryFeeCents == 0 {
		rt.DeliveryFeeCents = opts.DefaultDeliveryFeeCents
	}
	rt.InsuranceFeeCents = pricing.InsuranceFeeCents
	if rt.InsuranceFeeCents == 0 {
		rt.InsuranceFeeCents = rt.DailyRateCents / 10
	}
	rt.SecurityDepositCents = pricing.SecurityDepositCents
	if rt.SecurityDepositCents == 0 {
		rt.SecurityDepositCents = rt.DailyRateCents * 2
	}
	rt.RecalculateTotals()

	// Small orders skip seller review entirely.
	if in.Quantity < domain.AutoApproveMaxQuantity {
		now := time.Now().UTC()
		rt.Status = domain.RentalStatusApproved
		rt.ApprovedAt = &now
	}
	return rt
}

func newRentalReference() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "RNT" + strings.ToUpper(id[:8])
}

// TransitionStatus moves a rental through the state machine. The rental
// row lock serializes concurrent transitions: exactly one wins and the
// loser observes either an InvalidTransitionError or idempotent
// success. The status mutation, the audit row and (on completion) the
// settlement commit as one transaction.
func (s *bookingService) TransitionStatus(ctx context.Context, rentalID int64, newStatus domain.RentalStatus, actorID int64, notes string) (*domain.Rental, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStatus, newStatus)
	}

	var rental *domain.Rental
	var oldStatus domain.RentalStatus
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		rt, err := repos.Rentals().GetByIDForUpdate(ctx, rentalID)
		if err != nil {
			return err
		}

		// Re-requesting the current status is a no-op success so client
		// retries stay harmless. No audit row is written.
		if rt.Status == newStatus {
			rental = rt
			return nil
		}

		if !rt.Status.CanTransitionTo(newStatus) {
			return &domain.InvalidTransitionError{
				From:    rt.Status,
				To:      newStatus,
				Allowed: rt.Status.AllowedTransitions(),
			}
		}

		oldStatus = rt.Status
		now := time.Now().UTC()
		switch newStatus {
		case domain.RentalStatusApproved:
			if rt.ApprovedAt == nil {
				rt.ApprovedAt = &now
			}
		case domain.RentalStatusDelivered:
			if rt.ActualStartDate == nil {
				rt.ActualStartDate = &now
			}
		case domain.RentalStatusCompleted:
			if rt.ActualEndDate == nil {
				rt.ActualEndDate = &now
			}
		case domain.RentalStatusCancelled:
			rt.CancelledAt = &now
			if notes != "" {
				rt.CancellationReason = notes
			}
		}
		rt.Status = newStatus

		if err := repos.Rentals().UpdateStatus(ctx, rt); err != nil {
			return err
		}
		if err := repos.StatusUpdates().Create(ctx, &domain.RentalStatusUpdate{
			RentalID:            rt.ID,
			OldStatus:           oldStatus,
			NewStatus:           newStatus,
			ActorID:             actorID,
			Notes:               notes,
			IsVisibleToCustomer: true,
		}); err != nil {
			return err
		}

		// Completion and settlement must be atomic: a completed rental
		// with no sale record is a consistency bug.
		if newStatus == domain.RentalStatusCompleted {
			if _, err := s.settlement.Settle(ctx, repos, rt); err != nil {
				return fmt.Errorf("settle rental %s: %w", rt.Reference, err)
			}
		}

		rental = rt
		return nil
	})
	if err != nil {
		return nil, err
	}

	if oldStatus != "" {
		s.notifier.StatusChanged(ctx, rental, oldStatus)
		if rental.Status == domain.RentalStatusCompleted {
			if sale, err := s.store.Sales().GetByRentalID(ctx, rental.ID); err == nil {
				s.notifier.RentalSettled(ctx, rental, sale)
			}
		}
	}
	return rental, nil
}

func (s *bookingService) GetRental(ctx context.Context, rentalID int64) (*domain.Rental, error) {
	return s.store.Rentals().GetByID(ctx, rentalID)
}

func (s *bookingService) GetRentalByReference(ctx context.Context, reference string) (*domain.Rental, error) {
	return s.store.Rentals().GetByReference(ctx, reference)
}

func (s *bookingService) ListRentalsByCustomer(ctx context.Context, customerID int64, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.store.Rentals().ListByCustomer(ctx, customerID, status, page, pageSize)
}

func (s *bookingService) ListRentalsBySeller(ctx context.Context, sellerID int64, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.store.Rentals().ListBySeller(ctx, sellerID, status, page, pageSize)
}

func (s *bookingService) ListStatusUpdates(ctx context.Context, rentalID int64) ([]domain.RentalStatusUpdate, error) {
	if _, err := s.store.Rentals().GetByID(ctx, rentalID); err != nil {
		return nil, err
	}
	return s.store.StatusUpdates().ListByRental(ctx, rentalID)
}

func (s *bookingService) GetSale(ctx context.Context, rentalID int64) (*domain.Sale, error) {
	return s.store.Sales().GetByRentalID(ctx, rentalID)
}

// UpdatePayout is the external payout collaborator's entry point. Only
// payout tracking fields change; the financial snapshot stays immutable.
// The sale row lock serializes concurrent payout updates so the
// completion date is stamped exactly once.
func (s *bookingService) UpdatePayout(ctx context.Context, rentalID int64, status domain.PayoutStatus, reference string) (*domain.Sale, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: payout status %q", domain.ErrUnknownStatus, status)
	}

	var sale *domain.Sale
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		sale, err = repos.Sales().GetByRentalIDForUpdate(ctx, rentalID)
		if err != nil {
			return err
		}
		sale.PayoutStatus = status
		sale.PayoutReference = reference
		if status == domain.PayoutStatusCompleted && sale.PayoutDate == nil {
			now := time.Now().UTC()
			sale.PayoutDate = &now
		}
		return repos.Sales().UpdatePayout(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
