package jobs

import (
	"context"
	"errors"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
)

// MarkOverdueRentals moves in-progress rentals past their scheduled
// return date to overdue. Each transition goes through the booking
// service so the audit trail and notifications fire like any other
// status change.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()

		candidates, err := jr.store.Rentals().ListOverdueCandidates(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list overdue candidates", "error", err)
			return
		}

		count := 0
		for _, rt := range candidates {
			if rt.Status != domain.RentalStatusInProgress {
				continue
			}
			_, err := jr.services.Booking.TransitionStatus(ctx, rt.ID, domain.RentalStatusOverdue,
				domain.SystemActorID, "rental past scheduled return date")
			if err != nil {
				// Another actor may have moved the rental since the
				// listing; skip and let the next run reconcile.
				var transitionErr *domain.InvalidTransitionError
				if errors.As(err, &transitionErr) {
					logger.Debug("Skipping rental no longer eligible for overdue",
						"rental_id", rt.ID, "status", transitionErr.From)
					continue
				}
				logger.Error("Failed to mark rental overdue", "rental_id", rt.ID, "error", err)
				continue
			}
			count++
			logger.Debug("Marked rental as overdue",
				"rental_id", rt.ID,
				"reference", rt.Reference,
				"end_date", rt.EndDate.Format("2006-01-02"))
		}

		logger.Info("Marked rentals as overdue", "count", count)
	})
}

// SendOverdueReminders emails the operations inbox a digest of every
// rental currently past its return date.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		candidates, err := jr.store.Rentals().ListOverdueCandidates(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list overdue rentals for digest", "error", err)
			return
		}
		if len(candidates) == 0 {
			logger.Info("No overdue rentals, skipping digest")
			return
		}

		references := make([]string, 0, len(candidates))
		for _, rt := range candidates {
			references = append(references, rt.Reference)
		}

		if err := jr.services.Email.SendOverdueDigest(ctx, references); err != nil {
			logger.Error("Failed to send overdue digest", "error", err)
			return
		}
		logger.Info("Sent overdue digest", "count", len(references))
	})
}
