package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tontine-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockOrganizationRepo
type MockOrganizationRepo struct {
	mock.Mock
}

func (m *MockOrganizationRepo) CreateWithDefaults(ctx context.Context, org *domain.Organization, owner *domain.Membership, sub *domain.Subscription) error {
	args := m.Called(ctx, org, owner, sub)
	return args.Error(0)
}
func (m *MockOrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}
func (m *MockOrganizationRepo) Update(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}
func (m *MockOrganizationRepo) Deactivate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOrganizationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Organization, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Organization), args.Error(1)
}
func (m *MockOrganizationRepo) NextMemberNumber(ctx context.Context, orgID string) (int32, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int32), args.Error(1)
}

// MockMembershipRepo
type MockMembershipRepo struct {
	mock.Mock
}

func (m *MockMembershipRepo) Create(ctx context.Context, mem *domain.Membership) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}
func (m *MockMembershipRepo) GetByID(ctx context.Context, id string) (*domain.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) GetActive(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	args := m.Called(ctx, userID, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) GetByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	args := m.Called(ctx, userID, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) List(ctx context.Context, orgID string, filter domain.MembershipFilter) ([]domain.Membership, int32, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]domain.Membership), args.Get(1).(int32), args.Error(2)
}
func (m *MockMembershipRepo) Update(ctx context.Context, mem *domain.Membership) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}
func (m *MockMembershipRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMembershipRepo) CountActive(ctx context.Context, orgID string) (int32, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockMembershipRepo) ListActive(ctx context.Context, orgID string) ([]domain.Membership, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]domain.Membership), args.Error(1)
}

// MockPlanRepo
type MockPlanRepo struct {
	mock.Mock
}

func (m *MockPlanRepo) Create(ctx context.Context, p *domain.ContributionPlan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPlanRepo) GetByID(ctx context.Context, orgID, planID string) (*domain.ContributionPlan, error) {
	args := m.Called(ctx, orgID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContributionPlan), args.Error(1)
}
func (m *MockPlanRepo) List(ctx context.Context, orgID string, filter domain.PlanFilter) ([]domain.ContributionPlan, int32, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]domain.ContributionPlan), args.Get(1).(int32), args.Error(2)
}
func (m *MockPlanRepo) Update(ctx context.Context, p *domain.ContributionPlan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPlanRepo) Delete(ctx context.Context, orgID, planID string) error {
	args := m.Called(ctx, orgID, planID)
	return args.Error(0)
}
func (m *MockPlanRepo) CountActive(ctx context.Context, orgID string) (int32, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int32), args.Error(1)
}

// MockContributionRepo
type MockContributionRepo struct {
	mock.Mock
}

func (m *MockContributionRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Contribution, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contribution), args.Error(1)
}
func (m *MockContributionRepo) List(ctx context.Context, orgID string, filter domain.ContributionFilter) ([]domain.Contribution, int32, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]domain.Contribution), args.Get(1).(int32), args.Error(2)
}
func (m *MockContributionRepo) ListByMember(ctx context.Context, orgID, membershipID string, filter domain.ContributionFilter) ([]domain.Contribution, int32, error) {
	args := m.Called(ctx, orgID, membershipID, filter)
	return args.Get(0).([]domain.Contribution), args.Get(1).(int32), args.Error(2)
}
func (m *MockContributionRepo) MemberTotals(ctx context.Context, orgID, membershipID string, status domain.ContributionStatus) (*domain.ContributionTotals, error) {
	args := m.Called(ctx, orgID, membershipID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContributionTotals), args.Error(1)
}
func (m *MockContributionRepo) CountForPeriod(ctx context.Context, planID string, periodStart, periodEnd time.Time) (int32, error) {
	args := m.Called(ctx, planID, periodStart, periodEnd)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockContributionRepo) CountByPlan(ctx context.Context, planID string) (int32, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockContributionRepo) ExistsForMemberPeriod(ctx context.Context, membershipID, planID string, periodStart, periodEnd time.Time) (bool, error) {
	args := m.Called(ctx, membershipID, planID, periodStart, periodEnd)
	return args.Bool(0), args.Error(1)
}
func (m *MockContributionRepo) Create(ctx context.Context, c *domain.Contribution) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockContributionRepo) CreateBatch(ctx context.Context, cs []*domain.Contribution) error {
	args := m.Called(ctx, cs)
	return args.Error(0)
}
func (m *MockContributionRepo) ListPartialPayments(ctx context.Context, contributionID string) ([]domain.PartialPayment, error) {
	args := m.Called(ctx, contributionID)
	return args.Get(0).([]domain.PartialPayment), args.Error(1)
}
func (m *MockContributionRepo) MarkOverdue(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockContributionRepo) ListDueBetween(ctx context.Context, orgID string, from, to time.Time) ([]domain.Contribution, error) {
	args := m.Called(ctx, orgID, from, to)
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

// MockDebtRepo
type MockDebtRepo struct {
	mock.Mock
}

func (m *MockDebtRepo) Create(ctx context.Context, d *domain.Debt) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDebtRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Debt, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockDebtRepo) List(ctx context.Context, orgID string, filter domain.DebtFilter) ([]domain.Debt, int32, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]domain.Debt), args.Get(1).(int32), args.Error(2)
}
func (m *MockDebtRepo) ListByMember(ctx context.Context, orgID, membershipID string, filter domain.DebtFilter) ([]domain.Debt, int32, error) {
	args := m.Called(ctx, orgID, membershipID, filter)
	return args.Get(0).([]domain.Debt), args.Get(1).(int32), args.Error(2)
}
func (m *MockDebtRepo) MemberTotals(ctx context.Context, orgID, membershipID string, status domain.DebtStatus) (*domain.DebtTotals, error) {
	args := m.Called(ctx, orgID, membershipID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtTotals), args.Error(1)
}
func (m *MockDebtRepo) UpdateStatus(ctx context.Context, id string, status domain.DebtStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockDebtRepo) Summary(ctx context.Context, orgID string, recentSince time.Time) (*domain.DebtSummary, error) {
	args := m.Called(ctx, orgID, recentSince)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DebtSummary), args.Error(1)
}
func (m *MockDebtRepo) ListRepayments(ctx context.Context, debtID string) ([]domain.Repayment, error) {
	args := m.Called(ctx, debtID)
	return args.Get(0).([]domain.Repayment), args.Error(1)
}
func (m *MockDebtRepo) MarkOverdue(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) ApplyFullPayment(ctx context.Context, orgID, contributionID string, amountPaid float64, method domain.PaymentMethod) (*domain.Contribution, *domain.Transaction, error) {
	args := m.Called(ctx, orgID, contributionID, amountPaid, method)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Contribution), args.Get(1).(*domain.Transaction), args.Error(2)
}
func (m *MockPaymentRepo) ApplyPartialPayment(ctx context.Context, orgID, contributionID string, amount float64, method domain.PaymentMethod) (*domain.Contribution, *domain.PartialPayment, *domain.Transaction, error) {
	args := m.Called(ctx, orgID, contributionID, amount, method)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*domain.Contribution), args.Get(1).(*domain.PartialPayment), args.Get(2).(*domain.Transaction), args.Error(3)
}
func (m *MockPaymentRepo) ApplyRepayment(ctx context.Context, orgID, debtID string, amount float64, method domain.PaymentMethod) (*domain.Debt, *domain.Repayment, *domain.Transaction, error) {
	args := m.Called(ctx, orgID, debtID, amount, method)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*domain.Debt), args.Get(1).(*domain.Repayment), args.Get(2).(*domain.Transaction), args.Error(3)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) List(ctx context.Context, orgID string, filter domain.TransactionFilter) ([]domain.Transaction, int32, *domain.TransactionTotals, error) {
	args := m.Called(ctx, orgID, filter)
	if args.Get(2) == nil {
		return args.Get(0).([]domain.Transaction), args.Get(1).(int32), nil, args.Error(3)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Get(2).(*domain.TransactionTotals), args.Error(3)
}
func (m *MockTransactionRepo) Search(ctx context.Context, orgID, term string, limit int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, orgID, term, limit)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockSubscriptionRepo
type MockSubscriptionRepo struct {
	mock.Mock
}

func (m *MockSubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSubscriptionRepo) GetByOrg(ctx context.Context, orgID string) (*domain.Subscription, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}
func (m *MockSubscriptionRepo) Update(ctx context.Context, s *domain.Subscription) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSubscriptionRepo) AdjustUsage(ctx context.Context, orgID string, delta int32) error {
	args := m.Called(ctx, orgID, delta)
	return args.Error(0)
}
func (m *MockSubscriptionRepo) ExpireEnded(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) ListByMembership(ctx context.Context, orgID, membershipID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, orgID, membershipID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, membershipID string) error {
	args := m.Called(ctx, id, membershipID)
	return args.Error(0)
}

// MockAuditLogRepo
type MockAuditLogRepo struct {
	mock.Mock
}

func (m *MockAuditLogRepo) Record(ctx context.Context, entry *domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockEmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(to, toName, subject, plainText, htmlContent string) error {
	args := m.Called(to, toName, subject, plainText, htmlContent)
	return args.Error(0)
}
