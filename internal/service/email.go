package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"equiprent-backend/internal/domain"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	opsInbox string
}

func NewEmailService(host, port, username, password, from, opsInbox string) EmailService {
	p, _ := strconv.Atoi(port)
	return &emailService{
		host:     host,
		port:     p,
		username: username,
		password: password,
		from:     from,
		opsInbox: opsInbox,
	}
}

func (s *emailService) SendBookingReceivedNotice(ctx context.Context, reference, equipmentName string, quantity int32) error {
	subject := fmt.Sprintf("New rental request %s", reference)
	body := fmt.Sprintf("A new rental request has been received.\n\nReference: %s\nEquipment: %s\nQuantity: %d\n\nBest regards,\nThe EquipRent Platform", reference, equipmentName, quantity)
	return s.send(subject, body)
}

func (s *emailService) SendStatusUpdateNotice(ctx context.Context, reference string, oldStatus, newStatus domain.RentalStatus) error {
	subject := fmt.Sprintf("Rental %s: %s", reference, newStatus)
	body := fmt.Sprintf("Rental %s has moved from '%s' to '%s'.\n\nBest regards,\nThe EquipRent Platform", reference, oldStatus, newStatus)
	return s.send(subject, body)
}

func (s *emailService) SendSettlementNotice(ctx context.Context, reference string, payoutCents int64) error {
	subject := fmt.Sprintf("Rental %s settled", reference)
	body := fmt.Sprintf("Rental %s has completed and settled.\n\nSeller payout due: $%d.%02d\n\nBest regards,\nThe EquipRent Platform", reference, payoutCents/100, payoutCents%100)
	return s.send(subject, body)
}

func (s *emailService) SendOverdueDigest(ctx context.Context, references []string) error {
	subject := fmt.Sprintf("%d overdue rental(s) need attention", len(references))
	body := fmt.Sprintf("The following rentals are past their scheduled return date:\n\n%s\n\nBest regards,\nThe EquipRent Platform", strings.Join(references, "\n"))
	return s.send(subject, body)
}

func (s *emailService) send(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.opsInbox)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}

	return nil
}
