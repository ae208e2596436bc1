package jobs

import (
	"context"
	"time"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/logger"
)

// MarkOverdueRentals flags active rentals that are past their end date.
// Overdue is a reminder flag, not a lifecycle state: the rental stays
// active until the return handoff is confirmed.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format("2006-01-02")

		rentals, err := jr.store.ListActivePastReturn(ctx, today)
		if err != nil {
			logger.Error("Failed to list overdue candidates", "error", err)
			return
		}

		overdue := true
		count := 0
		for i := range rentals {
			rental := &rentals[i]
			_, err := jr.store.ConditionalUpdateStatus(ctx, rental.ID,
				domain.RentalStatusActive, domain.RentalStatusActive,
				domain.RentalPatch{Overdue: &overdue})
			if err != nil {
				// The rental was returned or cancelled between the list
				// and the update; nothing to flag.
				logger.Debug("Skipping overdue flag", "rental_id", rental.ID, "error", err)
				continue
			}
			count++

			jr.notifier.Notify(ctx, rental.RenterID, domain.NotificationReturnReminder,
				"Return overdue",
				"Your rental ended on "+rental.EndDate+". Please arrange the return handoff.",
				rental.ID)
			jr.notifier.Notify(ctx, rental.OwnerID, domain.NotificationReturnReminder,
				"Rental overdue",
				"The rental that ended on "+rental.EndDate+" has not been returned yet.",
				rental.ID)
		}

		logger.Info("Marked rentals as overdue", "count", count)
	})
}

// SendPickupReminders nudges both parties of approved rentals that start
// today.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format("2006-01-02")

		query := `
			SELECT id, owner_id, renter_id, pickup_time
			FROM rentals
			WHERE status = 'approved'
			  AND start_date = $1
		`
		rows, err := jr.db.QueryContext(ctx, query, today)
		if err != nil {
			logger.Error("Failed to query rentals starting today", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, ownerID, renterID, pickupTime string
			if err := rows.Scan(&id, &ownerID, &renterID, &pickupTime); err != nil {
				logger.Error("Failed to scan starting rental", "error", err)
				continue
			}
			jr.notifier.Notify(ctx, renterID, domain.NotificationPickupReminder,
				"Pickup today",
				"Your rental starts today. The pickup handoff is expected at "+pickupTime+".",
				id)
			jr.notifier.Notify(ctx, ownerID, domain.NotificationPickupReminder,
				"Handoff today",
				"A rental of your listing starts today at "+pickupTime+".",
				id)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating starting rentals", "error", err)
			return
		}

		logger.Info("Sent pickup reminders", "count", count)
	})
}

// SendReturnReminders nudges renters whose rental ends today.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		today := time.Now().UTC().Format("2006-01-02")

		query := `
			SELECT id, renter_id, end_date, return_time
			FROM rentals
			WHERE status = 'active'
			  AND end_date = $1
		`
		rows, err := jr.db.QueryContext(ctx, query, today)
		if err != nil {
			logger.Error("Failed to query rentals ending today", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var id, renterID, returnTime string
			var endDate time.Time
			if err := rows.Scan(&id, &renterID, &endDate, &returnTime); err != nil {
				logger.Error("Failed to scan ending rental", "error", err)
				continue
			}
			jr.notifier.Notify(ctx, renterID, domain.NotificationReturnReminder,
				"Return due today",
				"Your rental ends today. The return handoff is expected at "+returnTime+".",
				id)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating ending rentals", "error", err)
			return
		}

		logger.Info("Sent return reminders", "count", count)
	})
}

// SendReviewRequests reminds participants of recently completed rentals
// who have not yet left a review.
func (jr *JobRunner) SendReviewRequests() {
	jr.runWithRecovery("SendReviewRequests", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().AddDate(0, 0, -7)

		// Both parties of each completed rental, minus those who already
		// reviewed it. Completions older than a week are left alone.
		query := `
			SELECT r.id, p.user_id
			FROM rentals r
			CROSS JOIN LATERAL (VALUES (r.owner_id), (r.renter_id)) AS p(user_id)
			WHERE r.status = 'completed'
			  AND r.return_confirmed_at >= $1
			  AND NOT EXISTS (
			      SELECT 1 FROM reviews v
			      WHERE v.rental_id = r.id AND v.reviewer_id = p.user_id
			  )
		`
		rows, err := jr.db.QueryContext(ctx, query, cutoff)
		if err != nil {
			logger.Error("Failed to query unreviewed rentals", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var rentalID, userID string
			if err := rows.Scan(&rentalID, &userID); err != nil {
				logger.Error("Failed to scan unreviewed rental", "error", err)
				continue
			}
			jr.notifier.Notify(ctx, userID, domain.NotificationReviewRequest,
				"How did it go?",
				"Leave a review for your rental partner.",
				rentalID)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating unreviewed rentals", "error", err)
			return
		}

		logger.Info("Sent review requests", "count", count)
	})
}
