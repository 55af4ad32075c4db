package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
	"tontine-backend/internal/repository"
)

type contributionService struct {
	guard            *Guard
	contributionRepo repository.ContributionRepository
	paymentRepo      repository.PaymentRepository
	membershipRepo   repository.MembershipRepository
	orgRepo          repository.OrganizationRepository
	notifier         *Notifier
}

func NewContributionService(
	g *Guard,
	contributionRepo repository.ContributionRepository,
	paymentRepo repository.PaymentRepository,
	membershipRepo repository.MembershipRepository,
	orgRepo repository.OrganizationRepository,
	notifier *Notifier,
) ContributionService {
	return &contributionService{
		guard:            g,
		contributionRepo: contributionRepo,
		paymentRepo:      paymentRepo,
		membershipRepo:   membershipRepo,
		orgRepo:          orgRepo,
		notifier:         notifier,
	}
}

func (s *contributionService) GetContribution(ctx context.Context, userID, orgID, contributionID string) (*domain.Contribution, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	c, err := s.contributionRepo.GetByID(ctx, orgID, contributionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "contribution not found")
		}
		return nil, err
	}
	// Plain members can only see their own obligations.
	if c.MembershipID != actor.ID && !actor.HasRole(managerRoles...) {
		return nil, domain.ErrForbidden
	}
	return c, nil
}

func (s *contributionService) ListContributions(ctx context.Context, userID, orgID string, filter domain.ContributionFilter) ([]domain.Contribution, domain.Pagination, error) {
	if _, err := s.guard.authorize(ctx, userID, orgID, managerRoles...); err != nil {
		return nil, domain.Pagination{}, err
	}
	cs, total, err := s.contributionRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return cs, domain.NewPagination(filter.Page, filter.PageSize, total), nil
}

func (s *contributionService) ListMyContributions(ctx context.Context, userID, orgID string, filter domain.ContributionFilter) ([]domain.Contribution, domain.Pagination, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	cs, total, err := s.contributionRepo.ListByMember(ctx, orgID, actor.ID, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return cs, domain.NewPagination(filter.Page, filter.PageSize, total), nil
}

func (s *contributionService) MarkAsPaid(ctx context.Context, userID, orgID, contributionID string, amountPaid float64, method domain.PaymentMethod) (*domain.Contribution, error) {
	logger.EnterMethod("ContributionService.MarkAsPaid", "org_id", orgID, "contribution_id", contributionID, "amount", amountPaid)

	actor, err := s.guard.authorize(ctx, userID, orgID, managerRoles...)
	if err != nil {
		return nil, err
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, domain.Errf(domain.KindValidation, "unknown payment method %q", method)
	}

	c, tx, err := s.paymentRepo.ApplyFullPayment(ctx, orgID, contributionID, amountPaid, method)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "contribution not found")
		}
		logger.ExitMethodWithError("ContributionService.MarkAsPaid", err)
		return nil, err
	}

	s.afterPayment(ctx, actor, c, tx, amountPaid, "contribution.mark_paid")
	logger.ExitMethod("ContributionService.MarkAsPaid", "transaction", tx.Reference)
	return c, nil
}

func (s *contributionService) RecordPartialPayment(ctx context.Context, userID, orgID, contributionID string, amount float64, method domain.PaymentMethod) (*domain.Contribution, error) {
	logger.EnterMethod("ContributionService.RecordPartialPayment", "org_id", orgID, "contribution_id", contributionID, "amount", amount)

	actor, err := s.guard.authorize(ctx, userID, orgID, managerRoles...)
	if err != nil {
		return nil, err
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, domain.Errf(domain.KindValidation, "unknown payment method %q", method)
	}

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "organization not found")
		}
		return nil, err
	}
	if org.Settings == nil || !org.Settings.AllowPartialPayments {
		return nil, domain.Errf(domain.KindPartialPaymentsDisabled, "partial payments are disabled for this organization")
	}

	c, _, tx, err := s.paymentRepo.ApplyPartialPayment(ctx, orgID, contributionID, amount, method)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "contribution not found")
		}
		logger.ExitMethodWithError("ContributionService.RecordPartialPayment", err)
		return nil, err
	}

	s.afterPayment(ctx, actor, c, tx, amount, "contribution.partial_payment")
	logger.ExitMethod("ContributionService.RecordPartialPayment", "status", c.Status)
	return c, nil
}

// afterPayment runs the post-commit side channel: audit trail and payer
// notification, both best effort.
func (s *contributionService) afterPayment(ctx context.Context, actor *domain.Membership, c *domain.Contribution, tx *domain.Transaction, amount float64, action string) {
	s.guard.audit(ctx, actor, action, "contribution", c.ID,
		map[string]any{"amount": amount, "reference": tx.Reference, "status": c.Status})

	payer, err := s.membershipRepo.GetByID(ctx, c.MembershipID)
	if err != nil {
		logger.SinkFailure("notification", err, "membership_id", c.MembershipID)
		return
	}
	title := "Payment received"
	msg := fmt.Sprintf("A payment of %g %s was recorded on your contribution (%s)", amount, tx.Currency, tx.Reference)
	if c.Status == domain.ContributionStatusPaid {
		msg = fmt.Sprintf("Your contribution is fully paid: %g %s (%s)", amount, tx.Currency, tx.Reference)
	}
	s.notifier.notify(ctx, payer, domain.NotificationPaymentConfirmation, title, msg, "NORMAL")
}
