package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/service"
)

type transactionFixture struct {
	membershipRepo *MockMembershipRepo
	txRepo         *MockTransactionRepo
	auditRepo      *MockAuditLogRepo
	svc            service.TransactionService
}

func newTransactionFixture() *transactionFixture {
	f := &transactionFixture{
		membershipRepo: new(MockMembershipRepo),
		txRepo:         new(MockTransactionRepo),
		auditRepo:      new(MockAuditLogRepo),
	}
	guard := service.NewGuard(f.membershipRepo, f.auditRepo)
	f.svc = service.NewTransactionService(guard, f.txRepo)
	return f
}

func TestTransactionService_SearchTransactions(t *testing.T) {
	ctx := context.Background()
	orgID := "org-1"

	t.Run("Delegates To Repository", func(t *testing.T) {
		f := newTransactionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)
		f.txRepo.On("Search", ctx, orgID, "CONT-17", int32(20)).Return([]domain.Transaction{
			{ID: "tx-1", Reference: "CONT-1700000000000-abc123"},
		}, nil)

		txs, err := f.svc.SearchTransactions(ctx, "user-admin", orgID, "CONT-17", 20)
		assert.NoError(t, err)
		assert.Len(t, txs, 1)
	})

	t.Run("Term Shorter Than Two Characters", func(t *testing.T) {
		f := newTransactionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-admin", orgID).Return(adminMembership(orgID), nil)

		for _, term := range []string{"", "a", " a "} {
			_, err := f.svc.SearchTransactions(ctx, "user-admin", orgID, term, 20)
			assert.True(t, domain.IsKind(err, domain.KindValidation), "term %q", term)
		}
		f.txRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Member Forbidden", func(t *testing.T) {
		f := newTransactionFixture()
		f.membershipRepo.On("GetActive", ctx, "user-member", orgID).Return(&domain.Membership{
			ID: "mem-2", UserID: "user-member", OrgID: orgID,
			Role: domain.RoleMember, Status: domain.MembershipStatusActive,
		}, nil)

		_, err := f.svc.SearchTransactions(ctx, "user-member", orgID, "CONT-17", 20)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
