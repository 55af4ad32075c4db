package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/service"
)

type subscriptionFixture struct {
	membershipRepo *MockMembershipRepo
	subRepo        *MockSubscriptionRepo
	planRepo       *MockPlanRepo
	orgRepo        *MockOrganizationRepo
	auditRepo      *MockAuditLogRepo
	svc            service.SubscriptionService
}

func newSubscriptionFixture() *subscriptionFixture {
	f := &subscriptionFixture{
		membershipRepo: new(MockMembershipRepo),
		subRepo:        new(MockSubscriptionRepo),
		planRepo:       new(MockPlanRepo),
		orgRepo:        new(MockOrganizationRepo),
		auditRepo:      new(MockAuditLogRepo),
	}
	guard := service.NewGuard(f.membershipRepo, f.auditRepo)
	f.svc = service.NewSubscriptionService(guard, f.subRepo, f.membershipRepo, f.planRepo, f.orgRepo)
	return f
}

func TestSubscriptionService_ChangePlan(t *testing.T) {
	ctx := context.Background()
	orgID := "org-1"

	t.Run("Upgrade", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			ID: "sub-1", OrgID: orgID, Plan: "FREE", Status: domain.SubscriptionStatusActive,
			MaxMembers: 50, CurrentUsage: 40,
		}, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(40), nil)
		f.subRepo.On("Update", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil)
		f.auditRepo.On("Record", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil)

		sub, err := f.svc.ChangePlan(ctx, "user-admin", orgID, "basic")
		assert.NoError(t, err)
		assert.Equal(t, "BASIC", sub.Plan)
		assert.Equal(t, int32(200), sub.MaxMembers)
		assert.Equal(t, float64(5000), sub.Price)
		assert.Equal(t, int32(40), sub.CurrentUsage)
	})

	t.Run("Downgrade Below Active Members", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			ID: "sub-1", OrgID: orgID, Plan: "BASIC", Status: domain.SubscriptionStatusActive,
			MaxMembers: 200, CurrentUsage: 120,
		}, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(120), nil)

		sub, err := f.svc.ChangePlan(ctx, "user-admin", orgID, "FREE")
		assert.Nil(t, sub)
		assert.True(t, domain.IsKind(err, domain.KindPlanIncompatible))
		f.subRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Enterprise Is Unlimited", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			ID: "sub-1", OrgID: orgID, Plan: "PREMIUM", Status: domain.SubscriptionStatusActive,
			MaxMembers: 500, CurrentUsage: 480,
		}, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(480), nil)
		f.subRepo.On("Update", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil)
		f.auditRepo.On("Record", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil)

		sub, err := f.svc.ChangePlan(ctx, "user-admin", orgID, "ENTERPRISE")
		assert.NoError(t, err)
		assert.Equal(t, int32(0), sub.MaxMembers)
	})

	t.Run("Unknown Plan", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)

		_, err := f.svc.ChangePlan(ctx, "user-admin", orgID, "PLATINUM")
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("Same Plan Rejected", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			ID: "sub-1", OrgID: orgID, Plan: "BASIC", Status: domain.SubscriptionStatusActive,
			MaxMembers: 200, CurrentUsage: 40,
		}, nil)

		_, err := f.svc.ChangePlan(ctx, "user-admin", orgID, "basic")
		assert.True(t, domain.IsKind(err, domain.KindValidation))
		f.subRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Non Admin Forbidden", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-fm", orgID).Return(&domain.Membership{
			ID: "mem-fm", UserID: "user-fm", OrgID: orgID,
			Role: domain.RoleFinancialManager, Status: domain.MembershipStatusActive,
		}, nil)

		_, err := f.svc.ChangePlan(ctx, "user-fm", orgID, "BASIC")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestSubscriptionService_CheckQuota(t *testing.T) {
	ctx := context.Background()
	orgID := "org-1"

	t.Run("Under Limit", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			Plan: "FREE", Status: domain.SubscriptionStatusActive, MaxMembers: 50,
		}, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(10), nil)

		assert.NoError(t, f.svc.CheckQuota(ctx, orgID))
	})

	t.Run("At Limit", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			Plan: "FREE", Status: domain.SubscriptionStatusActive, MaxMembers: 50,
		}, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(50), nil)

		err := f.svc.CheckQuota(ctx, orgID)
		assert.True(t, domain.IsKind(err, domain.KindQuotaExceeded))
	})

	t.Run("Unlimited Plan Skips Count", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			Plan: "ENTERPRISE", Status: domain.SubscriptionStatusActive, MaxMembers: 0,
		}, nil)

		assert.NoError(t, f.svc.CheckQuota(ctx, orgID))
		f.membershipRepo.AssertNotCalled(t, "CountActive", mock.Anything, mock.Anything)
	})

	t.Run("Expired Subscription", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			Plan: "BASIC", Status: domain.SubscriptionStatusExpired, MaxMembers: 200,
		}, nil)

		err := f.svc.CheckQuota(ctx, orgID)
		assert.True(t, domain.IsKind(err, domain.KindSubscriptionMissing))
	})

	t.Run("No Subscription", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.subRepo.On("GetByOrg", ctx, orgID).Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, f.svc.CheckQuota(ctx, orgID), domain.ErrSubscriptionMissing)
	})
}

func TestSubscriptionService_GetUsage(t *testing.T) {
	ctx := context.Background()
	orgID := "org-1"

	member := &domain.Membership{
		ID: "mem-1", UserID: "user-1", OrgID: orgID,
		Role: domain.RoleMember, Status: domain.MembershipStatusActive,
	}

	t.Run("High Usage Gets Recommendation", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-1", orgID).Return(member, nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			Plan: "FREE", Status: domain.SubscriptionStatusActive, MaxMembers: 50,
		}, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(45), nil)
		f.planRepo.On("CountActive", ctx, orgID).Return(int32(2), nil)

		usage, err := f.svc.GetUsage(ctx, "user-1", orgID)
		assert.NoError(t, err)
		assert.Equal(t, int32(90), usage.UsagePercentage)
		assert.Equal(t, "HIGH", usage.UsageLevel)
		assert.NotEmpty(t, usage.Recommendation)
	})

	t.Run("Low Usage", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-1", orgID).Return(member, nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			Plan: "FREE", Status: domain.SubscriptionStatusActive, MaxMembers: 50,
		}, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(5), nil)
		f.planRepo.On("CountActive", ctx, orgID).Return(int32(1), nil)

		usage, err := f.svc.GetUsage(ctx, "user-1", orgID)
		assert.NoError(t, err)
		assert.Equal(t, "LOW", usage.UsageLevel)
		assert.Empty(t, usage.Recommendation)
	})
}

func TestSubscriptionService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	orgID := "org-1"

	t.Run("Cancel Sets End Date", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			ID: "sub-1", OrgID: orgID, Plan: "BASIC", Status: domain.SubscriptionStatusActive,
		}, nil)
		f.subRepo.On("Update", ctx, mock.MatchedBy(func(s *domain.Subscription) bool {
			return s.Status == domain.SubscriptionStatusCancelled && s.EndDate != nil
		})).Return(nil)
		f.auditRepo.On("Record", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil)

		sub, err := f.svc.UpdateStatus(ctx, "user-admin", orgID, domain.SubscriptionStatusCancelled)
		assert.NoError(t, err)
		assert.Equal(t, domain.SubscriptionStatusCancelled, sub.Status)
		assert.NotNil(t, sub.EndDate)
	})

	t.Run("Rejects Unknown Status", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)

		_, err := f.svc.UpdateStatus(ctx, "user-admin", orgID, "PAUSED")
		assert.True(t, domain.IsKind(err, domain.KindValidation))
		f.subRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Admin Only", func(t *testing.T) {
		f := newSubscriptionFixture()
		manager := &domain.Membership{ID: "mem-fm", UserID: "user-fm", OrgID: orgID,
			Role: domain.RoleFinancialManager, Status: domain.MembershipStatusActive}
		f.membershipRepo.On("GetActive", ctx, "user-fm", orgID).Return(manager, nil)

		_, err := f.svc.UpdateStatus(ctx, "user-fm", orgID, domain.SubscriptionStatusSuspended)
		assert.True(t, domain.IsKind(err, domain.KindForbidden))
	})
}

func TestSubscriptionService_GetSubscription(t *testing.T) {
	ctx := context.Background()
	orgID := "org-1"

	t.Run("Existing Subscription", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			ID: "sub-1", OrgID: orgID, Plan: "BASIC", Status: domain.SubscriptionStatusActive,
		}, nil)

		sub, err := f.svc.GetSubscription(ctx, "user-admin", orgID)
		assert.NoError(t, err)
		assert.Equal(t, "BASIC", sub.Plan)
		f.subRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Creates Default FREE When Missing", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(nil, sql.ErrNoRows)
		f.orgRepo.On("GetByID", ctx, orgID).Return(&domain.Organization{ID: orgID, Currency: "XOF"}, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(7), nil)
		f.subRepo.On("Create", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil)

		sub, err := f.svc.GetSubscription(ctx, "user-admin", orgID)
		assert.NoError(t, err)
		assert.Equal(t, "FREE", sub.Plan)
		assert.Equal(t, domain.SubscriptionStatusActive, sub.Status)
		assert.Equal(t, int32(50), sub.MaxMembers)
		assert.Equal(t, int32(7), sub.CurrentUsage)
		assert.Equal(t, "XOF", sub.Currency)
		f.subRepo.AssertExpectations(t)
	})
}

func TestSubscriptionService_UpdateSubscription(t *testing.T) {
	ctx := context.Background()
	orgID := "org-1"

	t.Run("Admin Patches Billing Fields", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			ID: "sub-1", OrgID: orgID, Plan: "BASIC", Status: domain.SubscriptionStatusActive,
			Price: 5000, MaxMembers: 200, Currency: "XOF",
		}, nil)
		f.subRepo.On("Update", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil)
		f.auditRepo.On("Record", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil)

		sub, err := f.svc.UpdateSubscription(ctx, "user-admin", orgID, &domain.Subscription{Price: 4000, MaxMembers: 300})
		assert.NoError(t, err)
		assert.Equal(t, float64(4000), sub.Price)
		assert.Equal(t, int32(300), sub.MaxMembers)
		assert.Equal(t, "BASIC", sub.Plan)
		assert.Equal(t, "XOF", sub.Currency)
	})

	t.Run("Zero Fields Left Untouched", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			ID: "sub-1", OrgID: orgID, Plan: "BASIC", Status: domain.SubscriptionStatusActive,
			Price: 5000, MaxMembers: 200, Currency: "XOF", StartDate: "2026-01-01",
		}, nil)
		f.subRepo.On("Update", ctx, mock.AnythingOfType("*domain.Subscription")).Return(nil)
		f.auditRepo.On("Record", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil)

		sub, err := f.svc.UpdateSubscription(ctx, "user-admin", orgID, &domain.Subscription{MaxMembers: 250})
		assert.NoError(t, err)
		assert.Equal(t, float64(5000), sub.Price)
		assert.Equal(t, int32(250), sub.MaxMembers)
		assert.Equal(t, "2026-01-01", sub.StartDate)
	})

	t.Run("Non Admin Forbidden", func(t *testing.T) {
		f := newSubscriptionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-member", orgID).Return(&domain.Membership{
			ID: "mem-2", UserID: "user-member", OrgID: orgID,
			Role: domain.RoleMember, Status: domain.MembershipStatusActive,
		}, nil)

		_, err := f.svc.UpdateSubscription(ctx, "user-member", orgID, &domain.Subscription{Price: 1})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		f.subRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
