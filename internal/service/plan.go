package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
	"tontine-backend/internal/repository"
	"tontine-backend/internal/utils"
)

type contributionPlanService struct {
	guard            *Guard
	planRepo         repository.ContributionPlanRepository
	contributionRepo repository.ContributionRepository
	membershipRepo   repository.MembershipRepository
	now              func() time.Time
}

func NewContributionPlanService(g *Guard, planRepo repository.ContributionPlanRepository, contributionRepo repository.ContributionRepository, membershipRepo repository.MembershipRepository) ContributionPlanService {
	return &contributionPlanService{
		guard:            g,
		planRepo:         planRepo,
		contributionRepo: contributionRepo,
		membershipRepo:   membershipRepo,
		now:              time.Now,
	}
}

func (s *contributionPlanService) CreatePlan(ctx context.Context, userID, orgID string, plan *domain.ContributionPlan) (*domain.ContributionPlan, error) {
	logger.EnterMethod("ContributionPlanService.CreatePlan", "org_id", orgID, "name", plan.Name)

	actor, err := s.guard.authorize(ctx, userID, orgID, managerRoles...)
	if err != nil {
		return nil, err
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	plan.OrgID = orgID
	plan.IsActive = true
	if err := s.planRepo.Create(ctx, plan); err != nil {
		logger.ExitMethodWithError("ContributionPlanService.CreatePlan", err)
		return nil, err
	}

	s.guard.audit(ctx, actor, "plan.create", "contribution_plan", plan.ID,
		map[string]any{"name": plan.Name, "amount": plan.Amount, "frequency": plan.Frequency})
	logger.ExitMethod("ContributionPlanService.CreatePlan", "plan_id", plan.ID)
	return plan, nil
}

func validatePlan(plan *domain.ContributionPlan) error {
	if plan.Name == "" {
		return domain.Errf(domain.KindValidation, "plan name is required")
	}
	if plan.Amount <= 0 {
		return domain.Errf(domain.KindInvalidAmount, "plan amount must be positive")
	}
	switch plan.Frequency {
	case domain.FrequencyWeekly, domain.FrequencyMonthly, domain.FrequencyQuarterly, domain.FrequencyYearly, domain.FrequencyCustom:
	default:
		return domain.Errf(domain.KindValidation, "unknown frequency %q", plan.Frequency)
	}
	start, err := time.Parse("2006-01-02", plan.StartDate)
	if err != nil {
		return domain.Errf(domain.KindValidation, "start date must be yyyy-mm-dd")
	}
	if plan.EndDate != nil {
		end, err := time.Parse("2006-01-02", *plan.EndDate)
		if err != nil {
			return domain.Errf(domain.KindValidation, "end date must be yyyy-mm-dd")
		}
		if end.Before(start) {
			return domain.Errf(domain.KindValidation, "end date is before start date")
		}
	}
	return nil
}

func (s *contributionPlanService) GetPlan(ctx context.Context, userID, orgID, planID string) (*domain.ContributionPlan, error) {
	if _, err := s.guard.authorize(ctx, userID, orgID); err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, orgID, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "plan not found")
		}
		return nil, err
	}
	return plan, nil
}

func (s *contributionPlanService) ListPlans(ctx context.Context, userID, orgID string, filter domain.PlanFilter) ([]domain.ContributionPlan, domain.Pagination, error) {
	if _, err := s.guard.authorize(ctx, userID, orgID); err != nil {
		return nil, domain.Pagination{}, err
	}
	plans, total, err := s.planRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return plans, domain.NewPagination(filter.Page, filter.PageSize, total), nil
}

func (s *contributionPlanService) UpdatePlan(ctx context.Context, userID, orgID string, plan *domain.ContributionPlan) (*domain.ContributionPlan, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID, managerRoles...)
	if err != nil {
		return nil, err
	}
	current, err := s.GetPlan(ctx, userID, orgID, plan.ID)
	if err != nil {
		return nil, err
	}

	if plan.Name != "" {
		current.Name = plan.Name
	}
	if plan.Description != "" {
		current.Description = plan.Description
	}
	if plan.Amount > 0 {
		current.Amount = plan.Amount
	}
	if plan.Frequency != "" {
		current.Frequency = plan.Frequency
	}
	if plan.StartDate != "" {
		current.StartDate = plan.StartDate
	}
	if plan.EndDate != nil {
		current.EndDate = plan.EndDate
	}
	// Active state only moves through TogglePlanStatus, so a partial
	// update cannot deactivate a plan as a side effect.
	if err := validatePlan(current); err != nil {
		return nil, err
	}
	if err := s.planRepo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.guard.audit(ctx, actor, "plan.update", "contribution_plan", current.ID, nil)
	return current, nil
}

func (s *contributionPlanService) TogglePlanStatus(ctx context.Context, userID, orgID, planID string) (*domain.ContributionPlan, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID, managerRoles...)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, orgID, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "plan not found")
		}
		return nil, err
	}

	plan.IsActive = !plan.IsActive
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}

	action := "plan.deactivate"
	if plan.IsActive {
		action = "plan.activate"
	}
	s.guard.audit(ctx, actor, action, "contribution_plan", plan.ID, nil)
	return plan, nil
}

func (s *contributionPlanService) DeletePlan(ctx context.Context, userID, orgID, planID string) error {
	actor, err := s.guard.authorize(ctx, userID, orgID, domain.RoleAdmin)
	if err != nil {
		return err
	}
	// Plans with generated contributions are deactivated, not deleted,
	// so the history keeps its foreign keys.
	count, err := s.contributionRepo.CountByPlan(ctx, planID)
	if err != nil {
		return err
	}
	if count > 0 {
		plan, err := s.planRepo.GetByID(ctx, orgID, planID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Errf(domain.KindNotFound, "plan not found")
			}
			return err
		}
		plan.IsActive = false
		if err := s.planRepo.Update(ctx, plan); err != nil {
			return err
		}
		s.guard.audit(ctx, actor, "plan.deactivate", "contribution_plan", planID, nil)
		return nil
	}

	if err := s.planRepo.Delete(ctx, orgID, planID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Errf(domain.KindNotFound, "plan not found")
		}
		return err
	}
	s.guard.audit(ctx, actor, "plan.delete", "contribution_plan", planID, nil)
	return nil
}

// AssignPlanToMember bills a single member for the plan's current period,
// for members who joined after the period was generated.
func (s *contributionPlanService) AssignPlanToMember(ctx context.Context, userID, orgID, planID, membershipID string) (*domain.Contribution, error) {
	logger.EnterMethod("ContributionPlanService.AssignPlanToMember", "org_id", orgID, "plan_id", planID, "membership_id", membershipID)

	actor, err := s.guard.authorize(ctx, userID, orgID, managerRoles...)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, orgID, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "plan not found")
		}
		return nil, err
	}
	if !plan.IsActive {
		return nil, domain.Errf(domain.KindPlanInactive, "plan %s is not active", plan.Name)
	}
	member, err := s.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "member not found")
		}
		return nil, err
	}
	if member.OrgID != orgID || member.Status != domain.MembershipStatusActive {
		return nil, domain.Errf(domain.KindNotFound, "member not found")
	}

	dueDate := utils.NextDueDate(plan, s.now(), 0)
	periodStart, periodEnd := utils.MonthRange(dueDate)
	exists, err := s.contributionRepo.ExistsForMemberPeriod(ctx, membershipID, planID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Errf(domain.KindDuplicateAssignment,
			"member is already billed for %s in %s", plan.Name, dueDate.Format("2006-01"))
	}

	c := &domain.Contribution{
		MembershipID: membershipID,
		PlanID:       planID,
		OrgID:        orgID,
		Amount:       plan.Amount,
		Status:       domain.ContributionStatusPending,
		DueDate:      dueDate,
	}
	if err := s.contributionRepo.Create(ctx, c); err != nil {
		logger.ExitMethodWithError("ContributionPlanService.AssignPlanToMember", err)
		return nil, err
	}

	s.guard.audit(ctx, actor, "plan.assign", "contribution_plan", planID,
		map[string]any{"membership_id": membershipID, "period": dueDate.Format("2006-01")})
	logger.ExitMethod("ContributionPlanService.AssignPlanToMember", "contribution_id", c.ID)
	return c, nil
}

func (s *contributionPlanService) GenerateContributions(ctx context.Context, userID, orgID, planID string, opts domain.GenerateOptions) ([]domain.Contribution, error) {
	logger.EnterMethod("ContributionPlanService.GenerateContributions", "org_id", orgID, "plan_id", planID, "force", opts.Force)

	actor, err := s.guard.authorize(ctx, userID, orgID, managerRoles...)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByID(ctx, orgID, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "plan not found")
		}
		return nil, err
	}
	if !plan.IsActive {
		return nil, domain.Errf(domain.KindPlanInactive, "plan %s is not active", plan.Name)
	}
	now := s.now()
	if plan.EndDate != nil {
		if end, err := time.Parse("2006-01-02", *plan.EndDate); err == nil && end.Before(now) {
			return nil, domain.Errf(domain.KindPlanInactive, "plan %s ended on %s", plan.Name, *plan.EndDate)
		}
	}

	dueDate := utils.NextDueDate(plan, now, opts.DueDateOffset)
	periodStart, periodEnd := utils.MonthRange(dueDate)

	if !opts.Force {
		existing, err := s.contributionRepo.CountForPeriod(ctx, planID, periodStart, periodEnd)
		if err != nil {
			return nil, err
		}
		if existing > 0 {
			return nil, domain.Errf(domain.KindAlreadyGenerated,
				"contributions already generated for %s", dueDate.Format("2006-01"))
		}
	}

	members, err := s.membershipRepo.ListActive(ctx, orgID)
	if err != nil {
		return nil, err
	}

	var batch []*domain.Contribution
	for i := range members {
		m := &members[i]
		if opts.Force {
			exists, err := s.contributionRepo.ExistsForMemberPeriod(ctx, m.ID, planID, periodStart, periodEnd)
			if err != nil {
				return nil, err
			}
			if exists {
				continue
			}
		}
		batch = append(batch, &domain.Contribution{
			MembershipID: m.ID,
			PlanID:       planID,
			OrgID:        orgID,
			Amount:       plan.Amount,
			Status:       domain.ContributionStatusPending,
			DueDate:      dueDate,
		})
	}
	if err := s.contributionRepo.CreateBatch(ctx, batch); err != nil {
		logger.ExitMethodWithError("ContributionPlanService.GenerateContributions", err)
		return nil, err
	}

	s.guard.audit(ctx, actor, "plan.generate", "contribution_plan", planID,
		map[string]any{"period": dueDate.Format("2006-01"), "count": len(batch)})
	logger.ExitMethod("ContributionPlanService.GenerateContributions", "count", len(batch))

	out := make([]domain.Contribution, len(batch))
	for i, c := range batch {
		out[i] = *c
	}
	return out, nil
}
