package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
	"tontine-backend/internal/repository"
)

// planCatalog is the fixed set of purchasable tiers. MaxMembers 0 means
// unlimited.
var planCatalog = []domain.PlanOption{
	{ID: "FREE", Name: "FREE", DisplayName: "Free", Price: 0, MaxMembers: 50},
	{ID: "BASIC", Name: "BASIC", DisplayName: "Basic", Price: 5000, MaxMembers: 200},
	{ID: "PREMIUM", Name: "PREMIUM", DisplayName: "Premium", Price: 15000, MaxMembers: 500},
	{ID: "ENTERPRISE", Name: "ENTERPRISE", DisplayName: "Enterprise", Price: 50000, MaxMembers: 0},
}

func planOptionByName(name string) (domain.PlanOption, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, opt := range planCatalog {
		if opt.Name == name {
			return opt, true
		}
	}
	return domain.PlanOption{}, false
}

// DefaultSubscription builds the FREE subscription every new organization
// starts with; usage 1 covers the owner's membership.
func DefaultSubscription(currency string) *domain.Subscription {
	free := planCatalog[0]
	return &domain.Subscription{
		Plan:         free.Name,
		Status:       domain.SubscriptionStatusActive,
		MaxMembers:   free.MaxMembers,
		CurrentUsage: 1,
		Price:        free.Price,
		Currency:     currency,
		StartDate:    time.Now().Format("2006-01-02"),
	}
}

type subscriptionService struct {
	guard          *Guard
	subRepo        repository.SubscriptionRepository
	membershipRepo repository.MembershipRepository
	planRepo       repository.ContributionPlanRepository
	orgRepo        repository.OrganizationRepository
}

func NewSubscriptionService(g *Guard, subRepo repository.SubscriptionRepository, membershipRepo repository.MembershipRepository, planRepo repository.ContributionPlanRepository, orgRepo repository.OrganizationRepository) SubscriptionService {
	return &subscriptionService{guard: g, subRepo: subRepo, membershipRepo: membershipRepo, planRepo: planRepo, orgRepo: orgRepo}
}

// getOrCreate returns the organization's subscription, falling back to a
// fresh FREE subscription for organizations predating the billing tables.
func (s *subscriptionService) getOrCreate(ctx context.Context, orgID string) (*domain.Subscription, error) {
	sub, err := s.subRepo.GetByOrg(ctx, orgID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "organization not found")
		}
		return nil, err
	}
	active, err := s.membershipRepo.CountActive(ctx, orgID)
	if err != nil {
		return nil, err
	}

	sub = DefaultSubscription(org.Currency)
	sub.OrgID = orgID
	sub.CurrentUsage = active
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, userID, orgID string) (*domain.Subscription, error) {
	if _, err := s.guard.authorize(ctx, userID, orgID); err != nil {
		return nil, err
	}
	return s.getOrCreate(ctx, orgID)
}

func (s *subscriptionService) GetUsage(ctx context.Context, userID, orgID string) (*domain.SubscriptionUsage, error) {
	if _, err := s.guard.authorize(ctx, userID, orgID); err != nil {
		return nil, err
	}
	sub, err := s.subRepo.GetByOrg(ctx, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubscriptionMissing
		}
		return nil, err
	}
	active, err := s.membershipRepo.CountActive(ctx, orgID)
	if err != nil {
		return nil, err
	}
	activePlans, err := s.planRepo.CountActive(ctx, orgID)
	if err != nil {
		return nil, err
	}

	usage := &domain.SubscriptionUsage{
		Subscription:  sub,
		ActiveMembers: active,
		MaxMembers:    sub.MaxMembers,
		ActivePlans:   activePlans,
	}
	if sub.MaxMembers > 0 {
		usage.UsagePercentage = active * 100 / sub.MaxMembers
	}
	switch {
	case sub.MaxMembers == 0 || usage.UsagePercentage < 60:
		usage.UsageLevel = "LOW"
	case usage.UsagePercentage < 85:
		usage.UsageLevel = "MEDIUM"
	default:
		usage.UsageLevel = "HIGH"
		usage.Recommendation = "Consider upgrading to a higher plan before the member limit is reached"
	}
	return usage, nil
}

func (s *subscriptionService) ListPlanOptions(ctx context.Context) []domain.PlanOption {
	opts := make([]domain.PlanOption, len(planCatalog))
	copy(opts, planCatalog)
	return opts
}

func (s *subscriptionService) ChangePlan(ctx context.Context, userID, orgID, planName string) (*domain.Subscription, error) {
	logger.EnterMethod("SubscriptionService.ChangePlan", "org_id", orgID, "plan", planName)

	actor, err := s.guard.authorize(ctx, userID, orgID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	opt, ok := planOptionByName(planName)
	if !ok {
		return nil, domain.Errf(domain.KindValidation, "unknown plan %q", planName)
	}

	sub, err := s.subRepo.GetByOrg(ctx, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubscriptionMissing
		}
		return nil, err
	}

	if sub.Plan == opt.Name {
		return nil, domain.Errf(domain.KindValidation, "organization is already on the %s plan", opt.Name)
	}

	// A downgrade must still fit the members the organization already has.
	active, err := s.membershipRepo.CountActive(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if opt.MaxMembers > 0 && active > opt.MaxMembers {
		return nil, domain.Errf(domain.KindPlanIncompatible,
			"organization has %d active members, %s allows %d", active, opt.Name, opt.MaxMembers)
	}

	previous := sub.Plan
	sub.Plan = opt.Name
	sub.MaxMembers = opt.MaxMembers
	sub.Price = opt.Price
	sub.CurrentUsage = active
	sub.Status = domain.SubscriptionStatusActive
	sub.StartDate = time.Now().Format("2006-01-02")
	if err := s.subRepo.Update(ctx, sub); err != nil {
		logger.ExitMethodWithError("SubscriptionService.ChangePlan", err)
		return nil, err
	}

	s.guard.audit(ctx, actor, "subscription.change_plan", "subscription", sub.ID,
		map[string]string{"from": previous, "to": opt.Name})
	logger.ExitMethod("SubscriptionService.ChangePlan", "plan", opt.Name)
	return sub, nil
}

// UpdateSubscription lets an admin adjust billing fields directly, for
// negotiated pricing or custom member ceilings.
func (s *subscriptionService) UpdateSubscription(ctx context.Context, userID, orgID string, patch *domain.Subscription) (*domain.Subscription, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	sub, err := s.getOrCreate(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if patch.Price > 0 {
		sub.Price = patch.Price
	}
	if patch.MaxMembers > 0 {
		sub.MaxMembers = patch.MaxMembers
	}
	if patch.Currency != "" {
		sub.Currency = patch.Currency
	}
	if patch.StartDate != "" {
		sub.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		sub.EndDate = patch.EndDate
	}
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.guard.audit(ctx, actor, "subscription.update", "subscription", sub.ID,
		map[string]any{"price": sub.Price, "max_members": sub.MaxMembers})
	return sub, nil
}

func (s *subscriptionService) UpdateStatus(ctx context.Context, userID, orgID string, status domain.SubscriptionStatus) (*domain.Subscription, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if !domain.ValidSubscriptionStatus(status) {
		return nil, domain.Errf(domain.KindValidation, "unknown subscription status %q", status)
	}

	sub, err := s.subRepo.GetByOrg(ctx, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubscriptionMissing
		}
		return nil, err
	}

	previous := sub.Status
	sub.Status = status
	if status == domain.SubscriptionStatusCancelled && sub.EndDate == nil {
		end := time.Now().Format("2006-01-02")
		sub.EndDate = &end
	}
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.guard.audit(ctx, actor, "subscription.update_status", "subscription", sub.ID,
		map[string]string{"from": string(previous), "to": string(status)})
	return sub, nil
}

func (s *subscriptionService) CheckQuota(ctx context.Context, orgID string) error {
	sub, err := s.subRepo.GetByOrg(ctx, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrSubscriptionMissing
		}
		return err
	}
	if sub.Status != domain.SubscriptionStatusActive {
		return domain.Errf(domain.KindSubscriptionMissing, "subscription is %s", sub.Status)
	}
	if sub.MaxMembers == 0 {
		return nil
	}
	active, err := s.membershipRepo.CountActive(ctx, orgID)
	if err != nil {
		return err
	}
	if active >= sub.MaxMembers {
		return domain.Errf(domain.KindQuotaExceeded,
			"member limit of %d reached for the %s plan", sub.MaxMembers, sub.Plan)
	}
	return nil
}
