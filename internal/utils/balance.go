package utils

import (
	"tontine-backend/internal/domain"
)

// Balance computations shared by the payment coordinator. All functions
// are pure: they validate and derive next state without touching storage.

// ValidateFullPayment checks the exact-match rule for settling a
// contribution in one move: the submitted amount must equal the remaining
// balance, no more and no less.
func ValidateFullPayment(c *domain.Contribution, amountPaid float64) error {
	if c.Status == domain.ContributionStatusPaid {
		return domain.Errf(domain.KindAlreadyPaid, "contribution is already paid")
	}
	remaining := c.Remaining()
	if amountPaid != remaining {
		return domain.Errf(domain.KindInvalidAmount, "exact amount required is %g", remaining)
	}
	return nil
}

// ApplyPartialPayment validates a partial amount against a contribution
// and returns the resulting paid total and status.
func ApplyPartialPayment(c *domain.Contribution, amount float64) (newAmountPaid float64, newStatus domain.ContributionStatus, err error) {
	if c.Status == domain.ContributionStatusPaid {
		return 0, "", domain.Errf(domain.KindAlreadyPaid, "contribution is already paid")
	}
	if amount <= 0 || amount > c.Remaining() {
		return 0, "", domain.Errf(domain.KindInvalidAmount, "amount must be positive and at most %g", c.Remaining())
	}
	newAmountPaid = c.AmountPaid + amount
	if newAmountPaid >= c.Amount {
		newStatus = domain.ContributionStatusPaid
	} else {
		newStatus = domain.ContributionStatusPartial
	}
	return newAmountPaid, newStatus, nil
}

// ApplyRepayment validates a repayment against a debt and returns the
// resulting remaining balance and status.
func ApplyRepayment(d *domain.Debt, amount float64) (newRemaining float64, newStatus domain.DebtStatus, err error) {
	if amount <= 0 {
		return 0, "", domain.Errf(domain.KindInvalidAmount, "repayment amount must be positive")
	}
	if d.Status == domain.DebtStatusPaid {
		return 0, "", domain.Errf(domain.KindDebtAlreadyPaid, "debt is already paid")
	}
	if amount > d.RemainingAmount {
		return 0, "", domain.Errf(domain.KindAmountExceedsBalance, "amount too high, remaining balance is %g", d.RemainingAmount)
	}
	newRemaining = d.RemainingAmount - amount
	if newRemaining == 0 {
		newStatus = domain.DebtStatusPaid
	} else {
		newStatus = domain.DebtStatusPartiallyPaid
	}
	return newRemaining, newStatus, nil
}
