package domain

import "time"

type TransactionType string

const (
	TransactionTypeContribution  TransactionType = "CONTRIBUTION"
	TransactionTypeDebtRepayment TransactionType = "DEBT_REPAYMENT"
	TransactionTypeFine          TransactionType = "FINE"
	TransactionTypeDonation      TransactionType = "DONATION"
	TransactionTypeExpense       TransactionType = "EXPENSE"
	TransactionTypeOther         TransactionType = "OTHER"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// ValidPaymentMethod reports whether m is an accepted settlement channel.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodBankTransfer:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Transaction is the immutable ledger entry recorded for every completed
// money movement. Reference is derived from time and source id; uniqueness
// is best effort, not an invariant.
type Transaction struct {
	ID            string          `json:"id"`
	OrgID         string          `json:"org_id"`
	MembershipID  string          `json:"membership_id"`
	Type          TransactionType `json:"type"`
	Amount        float64         `json:"amount"`
	Currency      string          `json:"currency"`
	Description   string          `json:"description"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Reference     string          `json:"reference"`
	CreatedAt     time.Time       `json:"created_at"`
}

type TransactionFilter struct {
	Type          TransactionType
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	MembershipID  string
	StartDate     *time.Time
	EndDate       *time.Time
	Search        string
	Page          int32
	PageSize      int32
}

type TransactionTotals struct {
	TotalAmount float64 `json:"total_amount"`
	TotalCount  int32   `json:"total_count"`
}
