package service

import (
	"context"
	"fmt"
	"strconv"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
)

type notificationService struct {
	repos repository.Repositories
	email EmailService
}

func NewNotificationService(repos repository.Repositories, email EmailService) NotificationService {
	return &notificationService{repos: repos, email: email}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error) {
	return s.repos.Notifications().ListByUser(ctx, userID, page, pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	return s.repos.Notifications().MarkAsRead(ctx, userID, notificationID)
}

// BookingCreated runs after the booking transaction commits. Failures
// are logged and swallowed so notification problems never fail a
// booking that already exists.
func (s *notificationService) BookingCreated(ctx context.Context, rt *domain.Rental) {
	log := logger.WithService("notifications")

	s.record(ctx, rt.SellerID, "New rental request",
		fmt.Sprintf("Rental request %s received for %d unit(s).", rt.Reference, rt.Quantity), rt)
	s.record(ctx, rt.CustomerID, "Rental request submitted",
		fmt.Sprintf("Your rental request %s has been submitted.", rt.Reference), rt)

	equipmentName := ""
	if eq, err := s.repos.Equipment().GetByID(ctx, rt.EquipmentID); err == nil {
		equipmentName = eq.Name
	}
	if err := s.email.SendBookingReceivedNotice(ctx, rt.Reference, equipmentName, rt.Quantity); err != nil {
		log.Warn("booking received email failed", "rental", rt.Reference, "error", err)
	}
}

func (s *notificationService) StatusChanged(ctx context.Context, rt *domain.Rental, oldStatus domain.RentalStatus) {
	log := logger.WithService("notifications")

	msg := fmt.Sprintf("Rental %s is now %s.", rt.Reference, rt.Status)
	s.record(ctx, rt.CustomerID, "Rental status updated", msg, rt)
	s.record(ctx, rt.SellerID, "Rental status updated", msg, rt)

	if err := s.email.SendStatusUpdateNotice(ctx, rt.Reference, oldStatus, rt.Status); err != nil {
		log.Warn("status update email failed", "rental", rt.Reference, "error", err)
	}
}

func (s *notificationService) RentalSettled(ctx context.Context, rt *domain.Rental, sale *domain.Sale) {
	log := logger.WithService("notifications")

	s.record(ctx, rt.SellerID, "Rental settled",
		fmt.Sprintf("Rental %s has settled. Payout due: $%d.%02d.",
			rt.Reference, sale.SellerPayoutCents/100, sale.SellerPayoutCents%100), rt)

	if err := s.email.SendSettlementNotice(ctx, rt.Reference, sale.SellerPayoutCents); err != nil {
		log.Warn("settlement email failed", "rental", rt.Reference, "error", err)
	}
}

func (s *notificationService) record(ctx context.Context, userID int64, title, message string, rt *domain.Rental) {
	if userID == domain.SystemActorID {
		return
	}
	n := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"rental_id":        strconv.FormatInt(rt.ID, 10),
			"rental_reference": rt.Reference,
			"status":           string(rt.Status),
		},
	}
	if err := s.repos.Notifications().Create(ctx, n); err != nil {
		logger.WithService("notifications").Warn("notification insert failed",
			"user_id", userID, "rental", rt.Reference, "error", err)
	}
}
