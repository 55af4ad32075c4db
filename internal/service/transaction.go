package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"
)

type transactionService struct {
	guard  *Guard
	txRepo repository.TransactionRepository
}

func NewTransactionService(g *Guard, txRepo repository.TransactionRepository) TransactionService {
	return &transactionService{guard: g, txRepo: txRepo}
}

func (s *transactionService) GetTransaction(ctx context.Context, userID, orgID, transactionID string) (*domain.Transaction, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	t, err := s.txRepo.GetByID(ctx, orgID, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "transaction not found")
		}
		return nil, err
	}
	if t.MembershipID != actor.ID && !actor.HasRole(managerRoles...) {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, userID, orgID string, filter domain.TransactionFilter) ([]domain.Transaction, domain.Pagination, *domain.TransactionTotals, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID)
	if err != nil {
		return nil, domain.Pagination{}, nil, err
	}
	// Plain members only see their own ledger entries.
	if !actor.HasRole(managerRoles...) {
		filter.MembershipID = actor.ID
	}
	txs, total, totals, err := s.txRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, domain.Pagination{}, nil, err
	}
	return txs, domain.NewPagination(filter.Page, filter.PageSize, total), totals, nil
}

func (s *transactionService) SearchTransactions(ctx context.Context, userID, orgID, term string, limit int32) ([]domain.Transaction, error) {
	if _, err := s.guard.authorize(ctx, userID, orgID, managerRoles...); err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, domain.Errf(domain.KindValidation, "search term must be at least 2 characters")
	}
	return s.txRepo.Search(ctx, orgID, term, limit)
}
