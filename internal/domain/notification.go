package domain

type NotificationType string

const (
	NotificationPaymentConfirmation  NotificationType = "PAYMENT_CONFIRMATION"
	NotificationContributionReminder NotificationType = "CONTRIBUTION_REMINDER"
	NotificationDebtReminder         NotificationType = "DEBT_REMINDER"
	NotificationMembershipChange     NotificationType = "MEMBERSHIP_CHANGE"
)

// Notification is a best-effort in-app message for one membership.
// Failures to write one never surface to the caller.
type Notification struct {
	ID           string           `json:"id"`
	OrgID        string           `json:"org_id"`
	MembershipID string           `json:"membership_id"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Priority     string           `json:"priority"`
	IsRead       bool             `json:"is_read"`
	CreatedAt    string           `json:"created_at"`
}
