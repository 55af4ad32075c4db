package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
	"tontine-backend/internal/repository"
)

type debtService struct {
	guard          *Guard
	debtRepo       repository.DebtRepository
	paymentRepo    repository.PaymentRepository
	membershipRepo repository.MembershipRepository
	notifier       *Notifier
	now            func() time.Time
}

func NewDebtService(g *Guard, debtRepo repository.DebtRepository, paymentRepo repository.PaymentRepository, membershipRepo repository.MembershipRepository, notifier *Notifier) DebtService {
	return &debtService{
		guard:          g,
		debtRepo:       debtRepo,
		paymentRepo:    paymentRepo,
		membershipRepo: membershipRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

func (s *debtService) CreateDebt(ctx context.Context, userID, orgID string, debt *domain.Debt) (*domain.Debt, error) {
	logger.EnterMethod("DebtService.CreateDebt", "org_id", orgID, "membership_id", debt.MembershipID)

	actor, err := s.guard.authorize(ctx, userID, orgID, managerRoles...)
	if err != nil {
		return nil, err
	}
	if debt.Title == "" {
		return nil, domain.Errf(domain.KindValidation, "debt title is required")
	}
	if debt.InitialAmount <= 0 {
		return nil, domain.Errf(domain.KindInvalidAmount, "debt amount must be positive")
	}

	debtor, err := s.membershipRepo.GetByID(ctx, debt.MembershipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "member not found")
		}
		return nil, err
	}
	if debtor.OrgID != orgID {
		return nil, domain.Errf(domain.KindNotFound, "member not found")
	}

	debt.OrgID = orgID
	debt.RemainingAmount = debt.InitialAmount
	debt.Status = domain.DebtStatusActive
	if err := s.debtRepo.Create(ctx, debt); err != nil {
		logger.ExitMethodWithError("DebtService.CreateDebt", err)
		return nil, err
	}

	s.guard.audit(ctx, actor, "debt.create", "debt", debt.ID,
		map[string]any{"title": debt.Title, "amount": debt.InitialAmount})
	s.notifier.notify(ctx, debtor, domain.NotificationDebtReminder,
		"New debt recorded", fmt.Sprintf("A debt of %g was recorded: %s", debt.InitialAmount, debt.Title), "HIGH")
	logger.ExitMethod("DebtService.CreateDebt", "debt_id", debt.ID)
	return debt, nil
}

func (s *debtService) GetDebt(ctx context.Context, userID, orgID, debtID string) (*domain.Debt, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	d, err := s.debtRepo.GetByID(ctx, orgID, debtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "debt not found")
		}
		return nil, err
	}
	if d.MembershipID != actor.ID && !actor.HasRole(managerRoles...) {
		return nil, domain.ErrForbidden
	}
	return d, nil
}

func (s *debtService) ListRepayments(ctx context.Context, userID, orgID, debtID string) (*domain.RepaymentHistory, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	d, err := s.debtRepo.GetByID(ctx, orgID, debtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "debt not found")
		}
		return nil, err
	}
	if d.MembershipID != actor.ID && !actor.HasRole(managerRoles...) {
		return nil, domain.ErrForbidden
	}

	// GetByID already hydrates the repayment list.
	history := &domain.RepaymentHistory{
		Repayments:  d.Repayments,
		TotalRepaid: d.InitialAmount - d.RemainingAmount,
	}
	if d.InitialAmount > 0 {
		history.RepaymentRate = int32(history.TotalRepaid * 100 / d.InitialAmount)
	}
	return history, nil
}

func (s *debtService) ListDebts(ctx context.Context, userID, orgID string, filter domain.DebtFilter) ([]domain.Debt, domain.Pagination, error) {
	if _, err := s.guard.authorize(ctx, userID, orgID, managerRoles...); err != nil {
		return nil, domain.Pagination{}, err
	}
	debts, total, err := s.debtRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return debts, domain.NewPagination(filter.Page, filter.PageSize, total), nil
}

func (s *debtService) ListMyDebts(ctx context.Context, userID, orgID string, filter domain.DebtFilter) ([]domain.Debt, domain.Pagination, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	debts, total, err := s.debtRepo.ListByMember(ctx, orgID, actor.ID, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return debts, domain.NewPagination(filter.Page, filter.PageSize, total), nil
}

func (s *debtService) RecordRepayment(ctx context.Context, userID, orgID, debtID string, amount float64, method domain.PaymentMethod) (*domain.Debt, error) {
	logger.EnterMethod("DebtService.RecordRepayment", "org_id", orgID, "debt_id", debtID, "amount", amount)

	actor, err := s.guard.authorize(ctx, userID, orgID, managerRoles...)
	if err != nil {
		return nil, err
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, domain.Errf(domain.KindValidation, "unknown payment method %q", method)
	}

	d, _, tx, err := s.paymentRepo.ApplyRepayment(ctx, orgID, debtID, amount, method)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "debt not found")
		}
		logger.ExitMethodWithError("DebtService.RecordRepayment", err)
		return nil, err
	}

	s.guard.audit(ctx, actor, "debt.repayment", "debt", d.ID,
		map[string]any{"amount": amount, "reference": tx.Reference, "remaining": d.RemainingAmount})
	if debtor, err := s.membershipRepo.GetByID(ctx, d.MembershipID); err == nil {
		msg := fmt.Sprintf("A repayment of %g %s was recorded on %q, remaining balance %g", amount, tx.Currency, d.Title, d.RemainingAmount)
		s.notifier.notify(ctx, debtor, domain.NotificationPaymentConfirmation, "Repayment received", msg, "NORMAL")
	} else {
		logger.SinkFailure("notification", err, "membership_id", d.MembershipID)
	}

	logger.ExitMethod("DebtService.RecordRepayment", "remaining", d.RemainingAmount)
	return d, nil
}

func (s *debtService) UpdateDebtStatus(ctx context.Context, userID, orgID, debtID string, status domain.DebtStatus) (*domain.Debt, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID, managerRoles...)
	if err != nil {
		return nil, err
	}
	if !domain.ValidDebtStatus(status) {
		return nil, domain.Errf(domain.KindValidation, "unknown debt status %q", status)
	}

	d, err := s.debtRepo.GetByID(ctx, orgID, debtID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "debt not found")
		}
		return nil, err
	}
	// PAID is only reachable by repaying the balance down to zero.
	if status == domain.DebtStatusPaid && d.RemainingAmount > 0 {
		return nil, domain.Errf(domain.KindInvalidAmount,
			"debt still has %g remaining, record a repayment instead", d.RemainingAmount)
	}
	if err := s.debtRepo.UpdateStatus(ctx, debtID, status); err != nil {
		return nil, err
	}
	d.Status = status

	s.guard.audit(ctx, actor, "debt.status_change", "debt", d.ID, map[string]string{"status": string(status)})
	return d, nil
}

func (s *debtService) DebtSummary(ctx context.Context, userID, orgID string) (*domain.DebtSummary, error) {
	if _, err := s.guard.authorize(ctx, userID, orgID, managerRoles...); err != nil {
		return nil, err
	}
	return s.debtRepo.Summary(ctx, orgID, s.now().AddDate(0, 0, -30))
}
