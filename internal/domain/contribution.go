package domain

import "time"

type ContributionStatus string

const (
	ContributionStatusPending   ContributionStatus = "PENDING"
	ContributionStatusPartial   ContributionStatus = "PARTIAL"
	ContributionStatusPaid      ContributionStatus = "PAID"
	ContributionStatusOverdue   ContributionStatus = "OVERDUE"
	ContributionStatusCancelled ContributionStatus = "CANCELLED"
)

// Contribution is one obligation instance for one membership under one
// plan, for one due period. AmountPaid never decreases and never exceeds
// Amount; status is PAID exactly when AmountPaid equals Amount.
type Contribution struct {
	ID            string             `json:"id"`
	MembershipID  string             `json:"membership_id"`
	PlanID        string             `json:"contribution_plan_id"`
	OrgID         string             `json:"org_id"`
	Amount        float64            `json:"amount"`
	AmountPaid    float64            `json:"amount_paid"`
	Status        ContributionStatus `json:"status"`
	DueDate       time.Time          `json:"due_date"`
	PaymentDate   *time.Time         `json:"payment_date,omitempty"`
	PaymentMethod PaymentMethod      `json:"payment_method,omitempty"`
	TransactionID *string            `json:"transaction_id,omitempty"`
	CreatedAt     string             `json:"created_at"`

	Plan            *ContributionPlan `json:"contribution_plan,omitempty"`
	PartialPayments []PartialPayment  `json:"partial_payments,omitempty"`
}

// Remaining returns the amount still owed on the contribution.
func (c *Contribution) Remaining() float64 {
	return c.Amount - c.AmountPaid
}

// PartialPayment is an append-only record of money applied against a
// contribution without settling it in one move.
type PartialPayment struct {
	ID             string        `json:"id"`
	ContributionID string        `json:"contribution_id"`
	Amount         float64       `json:"amount"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	PaymentDate    time.Time     `json:"payment_date"`
	TransactionID  *string       `json:"transaction_id,omitempty"`
}

type ContributionFilter struct {
	Status       ContributionStatus
	MembershipID string
	PlanID       string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int32
	PageSize     int32
}

// ContributionTotals aggregates a member's obligations.
type ContributionTotals struct {
	TotalAmount    float64 `json:"total_amount"`
	TotalPaid      float64 `json:"total_paid"`
	TotalRemaining float64 `json:"total_remaining"`
}
