package service

import (
	"context"

	"tontine-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, firstName, lastName, email, phone, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, []domain.Organization, error)
	UpdateProfile(ctx context.Context, userID string, firstName, lastName, phone, avatarURL string) (*domain.User, error)
}

type OrganizationService interface {
	CreateOrganization(ctx context.Context, userID string, org *domain.Organization) (*domain.Organization, error)
	GetOrganization(ctx context.Context, userID, orgID string) (*domain.Organization, error)
	UpdateOrganization(ctx context.Context, userID string, org *domain.Organization) (*domain.Organization, error)
	DeactivateOrganization(ctx context.Context, userID, orgID string) error
	ListMyOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)
}

type MembershipService interface {
	AddMember(ctx context.Context, userID, orgID string, email, firstName, lastName, phone string, role domain.MembershipRole) (*domain.Membership, error)
	GetMember(ctx context.Context, userID, orgID, membershipID string) (*domain.Membership, error)
	ListMembers(ctx context.Context, userID, orgID string, filter domain.MembershipFilter) ([]domain.Membership, domain.Pagination, error)
	UpdateMember(ctx context.Context, userID, orgID, membershipID string, role domain.MembershipRole, status domain.MembershipStatus) (*domain.Membership, error)
	RemoveMember(ctx context.Context, userID, orgID, membershipID string) error
	MemberFinancialSummary(ctx context.Context, userID, orgID, membershipID string) (*domain.ContributionTotals, *domain.DebtTotals, error)
}

type ContributionPlanService interface {
	CreatePlan(ctx context.Context, userID, orgID string, plan *domain.ContributionPlan) (*domain.ContributionPlan, error)
	GetPlan(ctx context.Context, userID, orgID, planID string) (*domain.ContributionPlan, error)
	ListPlans(ctx context.Context, userID, orgID string, filter domain.PlanFilter) ([]domain.ContributionPlan, domain.Pagination, error)
	UpdatePlan(ctx context.Context, userID, orgID string, plan *domain.ContributionPlan) (*domain.ContributionPlan, error)
	// TogglePlanStatus flips the plan between active and inactive; it is
	// the only path that changes the active state.
	TogglePlanStatus(ctx context.Context, userID, orgID, planID string) (*domain.ContributionPlan, error)
	DeletePlan(ctx context.Context, userID, orgID, planID string) error
	// GenerateContributions expands the plan into one contribution per
	// ACTIVE member for the current period. Idempotent per period
	// unless opts.Force is set.
	GenerateContributions(ctx context.Context, userID, orgID, planID string, opts domain.GenerateOptions) ([]domain.Contribution, error)
	// AssignPlanToMember creates a single pending contribution for one
	// member in the plan's current period.
	AssignPlanToMember(ctx context.Context, userID, orgID, planID, membershipID string) (*domain.Contribution, error)
}

type ContributionService interface {
	GetContribution(ctx context.Context, userID, orgID, contributionID string) (*domain.Contribution, error)
	ListContributions(ctx context.Context, userID, orgID string, filter domain.ContributionFilter) ([]domain.Contribution, domain.Pagination, error)
	ListMyContributions(ctx context.Context, userID, orgID string, filter domain.ContributionFilter) ([]domain.Contribution, domain.Pagination, error)
	MarkAsPaid(ctx context.Context, userID, orgID, contributionID string, amountPaid float64, method domain.PaymentMethod) (*domain.Contribution, error)
	RecordPartialPayment(ctx context.Context, userID, orgID, contributionID string, amount float64, method domain.PaymentMethod) (*domain.Contribution, error)
}

type DebtService interface {
	CreateDebt(ctx context.Context, userID, orgID string, debt *domain.Debt) (*domain.Debt, error)
	GetDebt(ctx context.Context, userID, orgID, debtID string) (*domain.Debt, error)
	ListDebts(ctx context.Context, userID, orgID string, filter domain.DebtFilter) ([]domain.Debt, domain.Pagination, error)
	ListMyDebts(ctx context.Context, userID, orgID string, filter domain.DebtFilter) ([]domain.Debt, domain.Pagination, error)
	RecordRepayment(ctx context.Context, userID, orgID, debtID string, amount float64, method domain.PaymentMethod) (*domain.Debt, error)
	ListRepayments(ctx context.Context, userID, orgID, debtID string) (*domain.RepaymentHistory, error)
	UpdateDebtStatus(ctx context.Context, userID, orgID, debtID string, status domain.DebtStatus) (*domain.Debt, error)
	DebtSummary(ctx context.Context, userID, orgID string) (*domain.DebtSummary, error)
}

type TransactionService interface {
	GetTransaction(ctx context.Context, userID, orgID, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID, orgID string, filter domain.TransactionFilter) ([]domain.Transaction, domain.Pagination, *domain.TransactionTotals, error)
	SearchTransactions(ctx context.Context, userID, orgID, term string, limit int32) ([]domain.Transaction, error)
}

type SubscriptionService interface {
	GetSubscription(ctx context.Context, userID, orgID string) (*domain.Subscription, error)
	GetUsage(ctx context.Context, userID, orgID string) (*domain.SubscriptionUsage, error)
	ListPlanOptions(ctx context.Context) []domain.PlanOption
	ChangePlan(ctx context.Context, userID, orgID, planName string) (*domain.Subscription, error)
	// UpdateSubscription patches billing fields (price, member ceiling,
	// dates) without changing the plan tier.
	UpdateSubscription(ctx context.Context, userID, orgID string, patch *domain.Subscription) (*domain.Subscription, error)
	UpdateStatus(ctx context.Context, userID, orgID string, status domain.SubscriptionStatus) (*domain.Subscription, error)
	// CheckQuota fails with KindQuotaExceeded when adding one more ACTIVE
	// member would pass the subscription ceiling.
	CheckQuota(ctx context.Context, orgID string) error
}

type NotificationService interface {
	ListMyNotifications(ctx context.Context, userID, orgID string, page, pageSize int32) ([]domain.Notification, domain.Pagination, error)
	MarkAsRead(ctx context.Context, userID, orgID, notificationID string) error
}
