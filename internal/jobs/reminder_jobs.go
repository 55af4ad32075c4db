package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
)

// SendContributionReminders writes a reminder notification for every
// unpaid contribution whose due date is exactly one of the organization's
// configured reminder offsets away, and emails the member when the
// organization has email delivery enabled. Runs once a day, so each
// offset fires at most once per contribution.
func (jr *JobRunner) SendContributionReminders() {
	jr.runWithRecovery("SendContributionReminders", func() {
		ctx := context.Background()

		query := `
			SELECT c.id, c.org_id, c.membership_id, c.amount - c.amount_paid, c.due_date,
			       u.email, u.first_name, u.last_name, s.email_notifications
			FROM contributions c
			JOIN organization_settings s ON s.org_id = c.org_id
			JOIN organizations o ON o.id = c.org_id
			JOIN memberships m ON m.id = c.membership_id
			JOIN users u ON u.id = m.user_id
			WHERE o.is_active = true
			  AND s.auto_reminders = true
			  AND c.status IN ('PENDING', 'PARTIAL')
			  AND c.due_date::date - current_date = ANY(s.reminder_days)
		`
		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to find contributions due for reminders", "error", err)
			return
		}
		defer rows.Close()

		type reminder struct {
			contributionID string
			orgID          string
			membershipID   string
			remaining      float64
			dueDate        time.Time
			email          string
			firstName      string
			lastName       string
			emailEnabled   bool
		}
		var due []reminder
		for rows.Next() {
			var r reminder
			if err := rows.Scan(&r.contributionID, &r.orgID, &r.membershipID, &r.remaining, &r.dueDate,
				&r.email, &r.firstName, &r.lastName, &r.emailEnabled); err != nil {
				logger.Error("Failed to scan reminder row", "error", err)
				continue
			}
			due = append(due, r)
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating reminder rows", "error", err)
			return
		}

		sent := 0
		emailed := 0
		for _, r := range due {
			title := "Contribution due soon"
			message := fmt.Sprintf("You have %g due on %s", r.remaining, r.dueDate.Format("2006-01-02"))
			note := &domain.Notification{
				OrgID:        r.orgID,
				MembershipID: r.membershipID,
				Type:         domain.NotificationContributionReminder,
				Title:        title,
				Message:      message,
				Priority:     "NORMAL",
			}
			if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
				logger.Error("Failed to create reminder notification", "error", err, "contribution_id", r.contributionID)
				continue
			}
			sent++

			if !r.emailEnabled || r.email == "" {
				continue
			}
			name := strings.TrimSpace(r.firstName + " " + r.lastName)
			if err := jr.email.SendEmail(r.email, name, title, message, ""); err != nil {
				logger.SinkFailure("email", err, "to", r.email, "contribution_id", r.contributionID)
				continue
			}
			emailed++
		}
		logger.Info("Sent contribution reminders", "count", sent, "emailed", emailed)
	})
}
