package domain

type OrganizationType string

const (
	OrgTypeAssociation   OrganizationType = "ASSOCIATION"
	OrgTypeSavingsCircle OrganizationType = "SAVINGS_CIRCLE"
	OrgTypeCooperative   OrganizationType = "COOPERATIVE"
	OrgTypeOther         OrganizationType = "OTHER"
)

type Organization struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Type          OrganizationType      `json:"type"`
	Currency      string                `json:"currency"`
	LogoURL       string                `json:"logo_url"`
	OwnerID       string                `json:"owner_id"`
	IsActive      bool                  `json:"is_active"`
	MemberCounter int32                 `json:"member_counter"`
	Settings      *OrganizationSettings `json:"settings,omitempty"`
	CreatedAt     string                `json:"created_at"`
	UpdatedAt     string                `json:"updated_at"`
}

// OrganizationSettings gates payment behavior and reminder delivery for
// one organization.
type OrganizationSettings struct {
	ID                   string `json:"id"`
	AllowPartialPayments bool   `json:"allow_partial_payments"`
	AutoReminders        bool   `json:"auto_reminders"`
	ReminderDays         []int  `json:"reminder_days"` // days before due date
	EmailNotifications   bool   `json:"email_notifications"`
}
