package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
	"tontine-backend/internal/repository"
	"tontine-backend/internal/security"
	"tontine-backend/internal/utils"

	"github.com/google/uuid"
)

type membershipService struct {
	guard            *Guard
	membershipRepo   repository.MembershipRepository
	userRepo         repository.UserRepository
	orgRepo          repository.OrganizationRepository
	subRepo          repository.SubscriptionRepository
	contributionRepo repository.ContributionRepository
	debtRepo         repository.DebtRepository
	subscriptions    SubscriptionService
	notifier         *Notifier
}

func NewMembershipService(
	g *Guard,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	subRepo repository.SubscriptionRepository,
	contributionRepo repository.ContributionRepository,
	debtRepo repository.DebtRepository,
	subscriptions SubscriptionService,
	notifier *Notifier,
) MembershipService {
	return &membershipService{
		guard:            g,
		membershipRepo:   membershipRepo,
		userRepo:         userRepo,
		orgRepo:          orgRepo,
		subRepo:          subRepo,
		contributionRepo: contributionRepo,
		debtRepo:         debtRepo,
		subscriptions:    subscriptions,
		notifier:         notifier,
	}
}

func (s *membershipService) AddMember(ctx context.Context, userID, orgID string, email, firstName, lastName, phone string, role domain.MembershipRole) (*domain.Membership, error) {
	logger.EnterMethod("MembershipService.AddMember", "org_id", orgID, "email", email)

	actor, err := s.guard.authorize(ctx, userID, orgID, managerRoles...)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.Errf(domain.KindValidation, "email is required")
	}
	if role == "" {
		role = domain.RoleMember
	}

	// Quota is checked before any write so a full organization fails fast.
	if err := s.subscriptions.CheckQuota(ctx, orgID); err != nil {
		logger.ExitMethodWithError("MembershipService.AddMember", err)
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) && strings.TrimSpace(phone) != "" {
		// People registered through the mobile flow may only have a
		// phone number on file.
		user, err = s.userRepo.GetByPhone(ctx, phone)
	}
	if errors.Is(err, sql.ErrNoRows) {
		// Unknown email gets a placeholder account; the person can claim
		// it later through password reset.
		hash, hashErr := security.HashPassword(uuid.NewString())
		if hashErr != nil {
			return nil, hashErr
		}
		user = &domain.User{FirstName: firstName, LastName: lastName, Email: email, Phone: phone, PasswordHash: hash}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if existing, err := s.membershipRepo.GetByUserAndOrg(ctx, user.ID, orgID); err == nil {
		if existing.Status == domain.MembershipStatusActive {
			return nil, domain.Errf(domain.KindDuplicateMember, "user is already a member of this organization")
		}
		// Reactivation reuses the original membership and member number.
		if err := s.subscriptions.CheckQuota(ctx, orgID); err != nil {
			return nil, err
		}
		existing.Status = domain.MembershipStatusActive
		existing.Role = role
		if err := s.membershipRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		s.afterMemberAdded(ctx, actor, existing)
		return existing, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	counter, err := s.orgRepo.NextMemberNumber(ctx, orgID)
	if err != nil {
		return nil, err
	}
	m := &domain.Membership{
		UserID:       user.ID,
		OrgID:        orgID,
		Role:         role,
		Status:       domain.MembershipStatusActive,
		MemberNumber: utils.MemberNumber(orgID, counter),
		User:         user,
	}
	if err := s.membershipRepo.Create(ctx, m); err != nil {
		logger.ExitMethodWithError("MembershipService.AddMember", err)
		return nil, err
	}

	s.afterMemberAdded(ctx, actor, m)
	logger.ExitMethod("MembershipService.AddMember", "membership_id", m.ID)
	return m, nil
}

func (s *membershipService) afterMemberAdded(ctx context.Context, actor *domain.Membership, m *domain.Membership) {
	if err := s.subRepo.AdjustUsage(ctx, m.OrgID, 1); err != nil {
		logger.SinkFailure("subscription_usage", err, "org_id", m.OrgID)
	}
	s.guard.audit(ctx, actor, "membership.add", "membership", m.ID,
		map[string]string{"member_number": m.MemberNumber, "role": string(m.Role)})
	s.notifier.notify(ctx, m, domain.NotificationMembershipChange,
		"Welcome", fmt.Sprintf("You have been added as %s", m.Role), "NORMAL")
}

func (s *membershipService) GetMember(ctx context.Context, userID, orgID, membershipID string) (*domain.Membership, error) {
	if _, err := s.guard.authorize(ctx, userID, orgID); err != nil {
		return nil, err
	}
	m, err := s.membershipRepo.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "member not found")
		}
		return nil, err
	}
	if m.OrgID != orgID {
		return nil, domain.Errf(domain.KindNotFound, "member not found")
	}
	return m, nil
}

func (s *membershipService) ListMembers(ctx context.Context, userID, orgID string, filter domain.MembershipFilter) ([]domain.Membership, domain.Pagination, error) {
	if _, err := s.guard.authorize(ctx, userID, orgID); err != nil {
		return nil, domain.Pagination{}, err
	}
	members, total, err := s.membershipRepo.List(ctx, orgID, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return members, domain.NewPagination(filter.Page, filter.PageSize, total), nil
}

func (s *membershipService) UpdateMember(ctx context.Context, userID, orgID, membershipID string, role domain.MembershipRole, status domain.MembershipStatus) (*domain.Membership, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	m, err := s.GetMember(ctx, userID, orgID, membershipID)
	if err != nil {
		return nil, err
	}
	if m.ID == actor.ID && role != "" && role != m.Role {
		return nil, domain.Errf(domain.KindForbidden, "cannot change your own role")
	}

	wasActive := m.Status == domain.MembershipStatusActive
	if role != "" {
		m.Role = role
	}
	if status != "" {
		if !wasActive && status == domain.MembershipStatusActive {
			if err := s.subscriptions.CheckQuota(ctx, orgID); err != nil {
				return nil, err
			}
		}
		m.Status = status
	}
	if err := s.membershipRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	isActive := m.Status == domain.MembershipStatusActive
	if wasActive != isActive {
		delta := int32(-1)
		if isActive {
			delta = 1
		}
		if err := s.subRepo.AdjustUsage(ctx, orgID, delta); err != nil {
			logger.SinkFailure("subscription_usage", err, "org_id", orgID)
		}
	}

	s.guard.audit(ctx, actor, "membership.update", "membership", m.ID,
		map[string]string{"role": string(m.Role), "status": string(m.Status)})
	s.notifier.notify(ctx, m, domain.NotificationMembershipChange,
		"Membership updated", fmt.Sprintf("Your role is now %s (%s)", m.Role, m.Status), "NORMAL")
	return m, nil
}

func (s *membershipService) RemoveMember(ctx context.Context, userID, orgID, membershipID string) error {
	actor, err := s.guard.authorize(ctx, userID, orgID, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if actor.ID == membershipID {
		return domain.Errf(domain.KindForbidden, "cannot remove yourself from the organization")
	}
	m, err := s.GetMember(ctx, userID, orgID, membershipID)
	if err != nil {
		return err
	}

	wasActive := m.Status == domain.MembershipStatusActive
	if err := s.membershipRepo.Delete(ctx, membershipID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Errf(domain.KindNotFound, "member not found")
		}
		return err
	}
	if wasActive {
		if err := s.subRepo.AdjustUsage(ctx, orgID, -1); err != nil {
			logger.SinkFailure("subscription_usage", err, "org_id", orgID)
		}
	}

	s.guard.audit(ctx, actor, "membership.remove", "membership", membershipID,
		map[string]string{"member_number": m.MemberNumber})
	return nil
}

func (s *membershipService) MemberFinancialSummary(ctx context.Context, userID, orgID, membershipID string) (*domain.ContributionTotals, *domain.DebtTotals, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID)
	if err != nil {
		return nil, nil, err
	}
	// Plain members can only look at their own summary.
	if actor.ID != membershipID && !actor.HasRole(managerRoles...) {
		return nil, nil, domain.ErrForbidden
	}

	contributions, err := s.contributionRepo.MemberTotals(ctx, orgID, membershipID, "")
	if err != nil {
		return nil, nil, err
	}
	debts, err := s.debtRepo.MemberTotals(ctx, orgID, membershipID, "")
	if err != nil {
		return nil, nil, err
	}
	return contributions, debts, nil
}
