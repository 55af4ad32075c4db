package domain

import "time"

type DebtStatus string

const (
	DebtStatusActive        DebtStatus = "ACTIVE"
	DebtStatusPartiallyPaid DebtStatus = "PARTIALLY_PAID"
	DebtStatusPaid          DebtStatus = "PAID"
	DebtStatusOverdue       DebtStatus = "OVERDUE"
	DebtStatusCancelled     DebtStatus = "CANCELLED"
)

// ValidDebtStatus reports whether s is one of the known debt states.
func ValidDebtStatus(s DebtStatus) bool {
	switch s {
	case DebtStatusActive, DebtStatusPartiallyPaid, DebtStatusPaid, DebtStatusOverdue, DebtStatusCancelled:
		return true
	}
	return false
}

// Debt is a one-off obligation owed by one member. InitialAmount is fixed
// at creation; RemainingAmount only decreases, reaching 0 exactly when the
// status is PAID.
type Debt struct {
	ID              string     `json:"id"`
	OrgID           string     `json:"org_id"`
	MembershipID    string     `json:"membership_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	InitialAmount   float64    `json:"initial_amount"`
	RemainingAmount float64    `json:"remaining_amount"`
	Status          DebtStatus `json:"status"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CreatedAt       string     `json:"created_at"`

	Repayments []Repayment `json:"repayments,omitempty"`
}

// Repayment is an append-only record of money applied against a debt.
type Repayment struct {
	ID            string        `json:"id"`
	DebtID        string        `json:"debt_id"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentDate   time.Time     `json:"payment_date"`
	TransactionID *string       `json:"transaction_id,omitempty"`
}

// RepaymentHistory pairs a debt's repayment records with its progress.
type RepaymentHistory struct {
	Repayments    []Repayment `json:"repayments"`
	TotalRepaid   float64     `json:"total_repaid"`
	RepaymentRate int32       `json:"repayment_rate"` // percent
}

type DebtFilter struct {
	Status       DebtStatus
	MembershipID string
	Search       string
	Page         int32
	PageSize     int32
}

type DebtTotals struct {
	TotalDebts     float64 `json:"total_debts"`
	TotalRemaining float64 `json:"total_remaining"`
	TotalRepaid    float64 `json:"total_repaid"`
}

// DebtSummary is the organization-wide debt dashboard.
type DebtSummary struct {
	TotalDebts         int32   `json:"total_debts"`
	TotalAmount        float64 `json:"total_amount"`
	ActiveDebts        int32   `json:"active_debts"`
	ActiveAmount       float64 `json:"active_amount"`
	OverdueDebts       int32   `json:"overdue_debts"`
	PaidDebts          int32   `json:"paid_debts"`
	PaidAmount         float64 `json:"paid_amount"`
	TotalRepaid        float64 `json:"total_repaid"`
	RepaymentRate      int32   `json:"repayment_rate"` // percent
	OverdueRate        int32   `json:"overdue_rate"`   // percent
	RecentRepayments   int32   `json:"recent_repayments"`
	RecentRepaidAmount float64 `json:"recent_repaid_amount"`
}
