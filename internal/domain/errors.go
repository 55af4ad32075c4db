package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so the transport layer can choose a
// status code without string matching.
type ErrorKind string

const (
	KindUnauthorized            ErrorKind = "UNAUTHORIZED"
	KindForbidden               ErrorKind = "FORBIDDEN"
	KindNotFound                ErrorKind = "NOT_FOUND"
	KindInvalidAmount           ErrorKind = "INVALID_AMOUNT"
	KindPartialPaymentsDisabled ErrorKind = "PARTIAL_PAYMENTS_DISABLED"
	KindAlreadyPaid             ErrorKind = "ALREADY_PAID"
	KindDebtAlreadyPaid         ErrorKind = "DEBT_ALREADY_PAID"
	KindAmountExceedsBalance    ErrorKind = "AMOUNT_EXCEEDS_BALANCE"
	KindQuotaExceeded           ErrorKind = "QUOTA_EXCEEDED"
	KindSubscriptionMissing     ErrorKind = "SUBSCRIPTION_MISSING"
	KindPlanIncompatible        ErrorKind = "PLAN_INCOMPATIBLE"
	KindPlanInactive            ErrorKind = "PLAN_INACTIVE"
	KindDuplicateAssignment     ErrorKind = "DUPLICATE_ASSIGNMENT"
	KindAlreadyGenerated        ErrorKind = "ALREADY_GENERATED"
	KindDuplicateMember         ErrorKind = "DUPLICATE_MEMBER"
	KindValidation              ErrorKind = "VALIDATION"
)

// DomainError carries a kind alongside a human-readable message.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Errf builds a DomainError with a formatted message.
func Errf(kind ErrorKind, format string, args ...any) error {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or "" when err is not a DomainError.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a DomainError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

var (
	ErrUnauthorized        = &DomainError{Kind: KindUnauthorized, Message: "authentication required"}
	ErrForbidden           = &DomainError{Kind: KindForbidden, Message: "insufficient permissions"}
	ErrSubscriptionMissing = &DomainError{Kind: KindSubscriptionMissing, Message: "organization has no subscription"}
)
