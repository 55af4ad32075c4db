package domain

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusInactive  SubscriptionStatus = "INACTIVE"
	SubscriptionStatusSuspended SubscriptionStatus = "SUSPENDED"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
)

// ValidSubscriptionStatus reports whether s is a known subscription state.
func ValidSubscriptionStatus(s SubscriptionStatus) bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusInactive, SubscriptionStatusSuspended,
		SubscriptionStatusCancelled, SubscriptionStatusExpired:
		return true
	}
	return false
}

// Subscription is the organization's plan tier; MaxMembers caps ACTIVE
// memberships, CurrentUsage tracks them.
type Subscription struct {
	ID           string             `json:"id"`
	OrgID        string             `json:"org_id"`
	Plan         string             `json:"plan"`
	Status       SubscriptionStatus `json:"status"`
	MaxMembers   int32              `json:"max_members"`
	CurrentUsage int32              `json:"current_usage"`
	Price        float64            `json:"price"`
	Currency     string             `json:"currency"`
	StartDate    string             `json:"start_date"`
	EndDate      *string            `json:"end_date,omitempty"`
}

// PlanOption describes one purchasable subscription tier.
type PlanOption struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Price       float64 `json:"price"`
	MaxMembers  int32   `json:"max_members"` // 0 means unlimited
}

// SubscriptionUsage reports member-count consumption against the ceiling.
type SubscriptionUsage struct {
	Subscription    *Subscription `json:"subscription"`
	ActiveMembers   int32         `json:"active_members"`
	MaxMembers      int32         `json:"max_members"`
	UsagePercentage int32         `json:"usage_percentage"`
	UsageLevel      string        `json:"usage_level"` // LOW, MEDIUM, HIGH
	ActivePlans     int32         `json:"active_plans"`
	Recommendation  string        `json:"recommendation,omitempty"`
}
