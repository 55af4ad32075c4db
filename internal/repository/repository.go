package repository

import (
	"context"
	"time"

	"tontine-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type OrganizationRepository interface {
	// CreateWithDefaults creates the organization, its settings, a FREE
	// subscription and the owner's ADMIN membership in one atomic unit.
	CreateWithDefaults(ctx context.Context, org *domain.Organization, owner *domain.Membership, sub *domain.Subscription) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	Update(ctx context.Context, org *domain.Organization) error
	Deactivate(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Organization, error)
	// NextMemberNumber atomically bumps the organization's member counter
	// and returns the new value.
	NextMemberNumber(ctx context.Context, orgID string) (int32, error)
}

type MembershipRepository interface {
	Create(ctx context.Context, m *domain.Membership) error
	GetByID(ctx context.Context, id string) (*domain.Membership, error)
	// GetActive returns the unique ACTIVE membership for (userID, orgID),
	// or sql.ErrNoRows when none exists.
	GetActive(ctx context.Context, userID, orgID string) (*domain.Membership, error)
	GetByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
	List(ctx context.Context, orgID string, filter domain.MembershipFilter) ([]domain.Membership, int32, error)
	Update(ctx context.Context, m *domain.Membership) error
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context, orgID string) (int32, error)
	ListActive(ctx context.Context, orgID string) ([]domain.Membership, error)
}

type ContributionPlanRepository interface {
	Create(ctx context.Context, p *domain.ContributionPlan) error
	GetByID(ctx context.Context, orgID, planID string) (*domain.ContributionPlan, error)
	List(ctx context.Context, orgID string, filter domain.PlanFilter) ([]domain.ContributionPlan, int32, error)
	Update(ctx context.Context, p *domain.ContributionPlan) error
	Delete(ctx context.Context, orgID, planID string) error
	CountActive(ctx context.Context, orgID string) (int32, error)
}

type ContributionRepository interface {
	GetByID(ctx context.Context, orgID, id string) (*domain.Contribution, error)
	List(ctx context.Context, orgID string, filter domain.ContributionFilter) ([]domain.Contribution, int32, error)
	ListByMember(ctx context.Context, orgID, membershipID string, filter domain.ContributionFilter) ([]domain.Contribution, int32, error)
	MemberTotals(ctx context.Context, orgID, membershipID string, status domain.ContributionStatus) (*domain.ContributionTotals, error)
	// CountForPeriod counts contributions of a plan due inside
	// [periodStart, periodEnd).
	CountForPeriod(ctx context.Context, planID string, periodStart, periodEnd time.Time) (int32, error)
	CountByPlan(ctx context.Context, planID string) (int32, error)
	ExistsForMemberPeriod(ctx context.Context, membershipID, planID string, periodStart, periodEnd time.Time) (bool, error)
	Create(ctx context.Context, c *domain.Contribution) error
	// CreateBatch inserts the whole expansion of one generation run as a
	// single atomic unit; either every row commits or none does.
	CreateBatch(ctx context.Context, cs []*domain.Contribution) error
	ListPartialPayments(ctx context.Context, contributionID string) ([]domain.PartialPayment, error)
	MarkOverdue(ctx context.Context, before time.Time) (int64, error)
	ListDueBetween(ctx context.Context, orgID string, from, to time.Time) ([]domain.Contribution, error)
}

type DebtRepository interface {
	Create(ctx context.Context, d *domain.Debt) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Debt, error)
	List(ctx context.Context, orgID string, filter domain.DebtFilter) ([]domain.Debt, int32, error)
	ListByMember(ctx context.Context, orgID, membershipID string, filter domain.DebtFilter) ([]domain.Debt, int32, error)
	MemberTotals(ctx context.Context, orgID, membershipID string, status domain.DebtStatus) (*domain.DebtTotals, error)
	UpdateStatus(ctx context.Context, id string, status domain.DebtStatus) error
	Summary(ctx context.Context, orgID string, recentSince time.Time) (*domain.DebtSummary, error)
	ListRepayments(ctx context.Context, debtID string) ([]domain.Repayment, error)
	MarkOverdue(ctx context.Context, before time.Time) (int64, error)
}

// PaymentRepository is the transactional coordinator: each method runs its
// reads, validations and writes as one atomic unit against the store, so
// two concurrent payments cannot both settle the same balance.
type PaymentRepository interface {
	ApplyFullPayment(ctx context.Context, orgID, contributionID string, amountPaid float64, method domain.PaymentMethod) (*domain.Contribution, *domain.Transaction, error)
	ApplyPartialPayment(ctx context.Context, orgID, contributionID string, amount float64, method domain.PaymentMethod) (*domain.Contribution, *domain.PartialPayment, *domain.Transaction, error)
	ApplyRepayment(ctx context.Context, orgID, debtID string, amount float64, method domain.PaymentMethod) (*domain.Debt, *domain.Repayment, *domain.Transaction, error)
}

type TransactionRepository interface {
	GetByID(ctx context.Context, orgID, id string) (*domain.Transaction, error)
	List(ctx context.Context, orgID string, filter domain.TransactionFilter) ([]domain.Transaction, int32, *domain.TransactionTotals, error)
	Search(ctx context.Context, orgID, term string, limit int32) ([]domain.Transaction, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, s *domain.Subscription) error
	GetByOrg(ctx context.Context, orgID string) (*domain.Subscription, error)
	Update(ctx context.Context, s *domain.Subscription) error
	// AdjustUsage adds delta (may be negative) to current_usage.
	AdjustUsage(ctx context.Context, orgID string, delta int32) error
	ExpireEnded(ctx context.Context, asOf time.Time) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByMembership(ctx context.Context, orgID, membershipID string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, membershipID string) error
}

type AuditLogRepository interface {
	Record(ctx context.Context, entry *domain.AuditLog) error
}
