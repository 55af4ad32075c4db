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

type membershipFixture struct {
	membershipRepo *MockMembershipRepo
	userRepo       *MockUserRepo
	orgRepo        *MockOrganizationRepo
	subRepo        *MockSubscriptionRepo
	auditRepo      *MockAuditLogRepo
	noteRepo       *MockNotificationRepo
	svc            service.MembershipService
}

func newMembershipFixture() *membershipFixture {
	f := &membershipFixture{
		membershipRepo: new(MockMembershipRepo),
		userRepo:       new(MockUserRepo),
		orgRepo:        new(MockOrganizationRepo),
		subRepo:        new(MockSubscriptionRepo),
		auditRepo:      new(MockAuditLogRepo),
		noteRepo:       new(MockNotificationRepo),
	}
	guard := service.NewGuard(f.membershipRepo, f.auditRepo)
	notifier := service.NewNotifier(f.noteRepo, f.orgRepo, service.NewNoopSender())
	planRepo := new(MockPlanRepo)
	subs := service.NewSubscriptionService(guard, f.subRepo, f.membershipRepo, planRepo, f.orgRepo)
	contributionRepo := new(MockContributionRepo)
	debtRepo := new(MockDebtRepo)
	f.svc = service.NewMembershipService(guard, f.membershipRepo, f.userRepo, f.orgRepo,
		f.subRepo, contributionRepo, debtRepo, subs, notifier)
	return f
}

func adminMembership(orgID string) *domain.Membership {
	return &domain.Membership{
		ID:     "mem-admin",
		UserID: "user-admin",
		OrgID:  orgID,
		Role:   domain.RoleAdmin,
		Status: domain.MembershipStatusActive,
	}
}

func TestMembershipService_AddMember(t *testing.T) {
	ctx := context.Background()
	orgID := "org-1"
	freeSub := &domain.Subscription{Plan: "FREE", Status: domain.SubscriptionStatusActive, MaxMembers: 50, CurrentUsage: 3}

	t.Run("Success With New User", func(t *testing.T) {
		f := newMembershipFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(freeSub, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(3), nil)
		f.userRepo.On("GetByEmail", ctx, "new@test.com").Return(nil, sql.ErrNoRows)
		f.userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = "user-new"
		})
		f.membershipRepo.On("GetByUserAndOrg", ctx, "user-new", orgID).Return(nil, sql.ErrNoRows)
		f.orgRepo.On("NextMemberNumber", ctx, orgID).Return(int32(4), nil)
		f.membershipRepo.On("Create", ctx, mock.AnythingOfType("*domain.Membership")).Return(nil)
		f.subRepo.On("AdjustUsage", ctx, orgID, int32(1)).Return(nil)
		f.auditRepo.On("Record", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil)
		f.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		f.orgRepo.On("GetByID", ctx, orgID).Return(&domain.Organization{
			ID:       orgID,
			Settings: &domain.OrganizationSettings{EmailNotifications: false},
		}, nil)

		m, err := f.svc.AddMember(ctx, "user-admin", orgID, "New@Test.com ", "New", "Member", "", domain.RoleMember)
		assert.NoError(t, err)
		assert.NotNil(t, m)
		assert.Equal(t, domain.RoleMember, m.Role)
		assert.Equal(t, domain.MembershipStatusActive, m.Status)
		assert.NotEmpty(t, m.MemberNumber)
		f.membershipRepo.AssertCalled(t, "Create", ctx, mock.AnythingOfType("*domain.Membership"))
	})

	t.Run("Matches Existing User By Phone", func(t *testing.T) {
		f := newMembershipFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(freeSub, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(3), nil)
		f.userRepo.On("GetByEmail", ctx, "new@test.com").Return(nil, sql.ErrNoRows)
		f.userRepo.On("GetByPhone", ctx, "+221770000001").Return(&domain.User{
			ID: "user-phone", Email: "old@test.com", Phone: "+221770000001",
		}, nil)
		f.membershipRepo.On("GetByUserAndOrg", ctx, "user-phone", orgID).Return(nil, sql.ErrNoRows)
		f.orgRepo.On("NextMemberNumber", ctx, orgID).Return(int32(4), nil)
		f.membershipRepo.On("Create", ctx, mock.AnythingOfType("*domain.Membership")).Return(nil)
		f.subRepo.On("AdjustUsage", ctx, orgID, int32(1)).Return(nil)
		f.auditRepo.On("Record", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil)
		f.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)
		f.orgRepo.On("GetByID", ctx, orgID).Return(&domain.Organization{
			ID:       orgID,
			Settings: &domain.OrganizationSettings{EmailNotifications: false},
		}, nil)

		m, err := f.svc.AddMember(ctx, "user-admin", orgID, "new@test.com", "New", "Member", "+221770000001", domain.RoleMember)
		assert.NoError(t, err)
		assert.Equal(t, "user-phone", m.UserID)
		f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Quota Exceeded", func(t *testing.T) {
		f := newMembershipFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(&domain.Subscription{
			Plan: "FREE", Status: domain.SubscriptionStatusActive, MaxMembers: 3,
		}, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(3), nil)

		m, err := f.svc.AddMember(ctx, "user-admin", orgID, "new@test.com", "New", "Member", "", domain.RoleMember)
		assert.Nil(t, m)
		assert.True(t, domain.IsKind(err, domain.KindQuotaExceeded))
		f.membershipRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate Active Member", func(t *testing.T) {
		f := newMembershipFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(freeSub, nil)
		f.membershipRepo.On("CountActive", ctx, orgID).Return(int32(3), nil)
		f.userRepo.On("GetByEmail", ctx, "dup@test.com").Return(&domain.User{ID: "user-dup"}, nil)
		f.membershipRepo.On("GetByUserAndOrg", ctx, "user-dup", orgID).Return(&domain.Membership{
			ID: "mem-dup", UserID: "user-dup", OrgID: orgID, Status: domain.MembershipStatusActive,
		}, nil)

		m, err := f.svc.AddMember(ctx, "user-admin", orgID, "dup@test.com", "", "", "", domain.RoleMember)
		assert.Nil(t, m)
		assert.True(t, domain.IsKind(err, domain.KindDuplicateMember))
	})

	t.Run("Plain Member Forbidden", func(t *testing.T) {
		f := newMembershipFixture()
		f.membershipRepo.On("GetActive", ctx, "user-plain", orgID).Return(&domain.Membership{
			ID: "mem-plain", UserID: "user-plain", OrgID: orgID,
			Role: domain.RoleMember, Status: domain.MembershipStatusActive,
		}, nil)

		m, err := f.svc.AddMember(ctx, "user-plain", orgID, "new@test.com", "", "", "", domain.RoleMember)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Missing Subscription", func(t *testing.T) {
		f := newMembershipFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.subRepo.On("GetByOrg", ctx, orgID).Return(nil, sql.ErrNoRows)

		m, err := f.svc.AddMember(ctx, "user-admin", orgID, "new@test.com", "", "", "", domain.RoleMember)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, domain.ErrSubscriptionMissing)
	})
}

func TestMembershipService_UpdateMember(t *testing.T) {
	ctx := context.Background()
	orgID := "org-1"

	t.Run("Cannot Change Own Role", func(t *testing.T) {
		f := newMembershipFixture()
		actor := adminMembership(orgID)
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(actor, nil)
		f.membershipRepo.On("GetByID", ctx, actor.ID).Return(actor, nil)

		m, err := f.svc.UpdateMember(ctx, "user-admin", orgID, actor.ID, domain.RoleMember, "")
		assert.Nil(t, m)
		assert.True(t, domain.IsKind(err, domain.KindForbidden))
	})

	t.Run("Deactivation Decrements Usage", func(t *testing.T) {
		f := newMembershipFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		target := &domain.Membership{
			ID: "mem-2", UserID: "user-2", OrgID: orgID,
			Role: domain.RoleMember, Status: domain.MembershipStatusActive,
		}
		f.membershipRepo.On("GetByID", ctx, "mem-2").Return(target, nil)
		f.membershipRepo.On("Update", ctx, target).Return(nil)
		f.subRepo.On("AdjustUsage", ctx, orgID, int32(-1)).Return(nil)
		f.auditRepo.On("Record", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil)
		f.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		m, err := f.svc.UpdateMember(ctx, "user-admin", orgID, "mem-2", "", domain.MembershipStatusInactive)
		assert.NoError(t, err)
		assert.Equal(t, domain.MembershipStatusInactive, m.Status)
		f.subRepo.AssertCalled(t, "AdjustUsage", ctx, orgID, int32(-1))
	})
}

func TestMembershipService_RemoveMember(t *testing.T) {
	ctx := context.Background()
	orgID := "org-1"

	t.Run("Cannot Remove Self", func(t *testing.T) {
		f := newMembershipFixture()
		actor := adminMembership(orgID)
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(actor, nil)

		err := f.svc.RemoveMember(ctx, "user-admin", orgID, actor.ID)
		assert.True(t, domain.IsKind(err, domain.KindForbidden))
		f.membershipRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Removes Active Member And Frees Quota", func(t *testing.T) {
		f := newMembershipFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.membershipRepo.On("GetByID", ctx, "mem-2").Return(&domain.Membership{
			ID: "mem-2", UserID: "user-2", OrgID: orgID,
			Role: domain.RoleMember, Status: domain.MembershipStatusActive, MemberNumber: "MBR000002",
		}, nil)
		f.membershipRepo.On("Delete", ctx, "mem-2").Return(nil)
		f.subRepo.On("AdjustUsage", ctx, orgID, int32(-1)).Return(nil)
		f.auditRepo.On("Record", ctx, mock.AnythingOfType("*domain.AuditLog")).Return(nil)

		err := f.svc.RemoveMember(ctx, "user-admin", orgID, "mem-2")
		assert.NoError(t, err)
		f.subRepo.AssertCalled(t, "AdjustUsage", ctx, orgID, int32(-1))
	})
}
