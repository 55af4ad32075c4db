package service

import (
	"context"
	"database/sql"
	"errors"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
	"tontine-backend/internal/repository"
	"tontine-backend/internal/utils"

	"github.com/google/uuid"
)

type organizationService struct {
	guard    *Guard
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

func NewOrganizationService(g *Guard, orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) OrganizationService {
	return &organizationService{guard: g, orgRepo: orgRepo, userRepo: userRepo}
}

func (s *organizationService) CreateOrganization(ctx context.Context, userID string, org *domain.Organization) (*domain.Organization, error) {
	logger.EnterMethod("OrganizationService.CreateOrganization", "user_id", userID, "name", org.Name)

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if org.Name == "" {
		return nil, domain.Errf(domain.KindValidation, "organization name is required")
	}
	if org.Type == "" {
		org.Type = domain.OrgTypeAssociation
	}
	if org.Currency == "" {
		org.Currency = "XOF"
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	// The id is fixed up front so the owner's member number can embed it.
	org.ID = uuid.NewString()
	org.OwnerID = userID
	org.IsActive = true
	owner := &domain.Membership{
		UserID:       userID,
		Role:         domain.RoleAdmin,
		Status:       domain.MembershipStatusActive,
		MemberNumber: utils.MemberNumber(org.ID, 1),
	}
	sub := DefaultSubscription(org.Currency)

	if err := s.orgRepo.CreateWithDefaults(ctx, org, owner, sub); err != nil {
		logger.ExitMethodWithError("OrganizationService.CreateOrganization", err)
		return nil, err
	}

	s.guard.audit(ctx, owner, "organization.create", "organization", org.ID,
		map[string]string{"name": org.Name, "type": string(org.Type)})
	logger.ExitMethod("OrganizationService.CreateOrganization", "org_id", org.ID)
	return org, nil
}

func (s *organizationService) GetOrganization(ctx context.Context, userID, orgID string) (*domain.Organization, error) {
	if _, err := s.guard.authorize(ctx, userID, orgID); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "organization not found")
		}
		return nil, err
	}
	return org, nil
}

func (s *organizationService) UpdateOrganization(ctx context.Context, userID string, org *domain.Organization) (*domain.Organization, error) {
	actor, err := s.guard.authorize(ctx, userID, org.ID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	current, err := s.orgRepo.GetByID(ctx, org.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "organization not found")
		}
		return nil, err
	}

	if org.Name != "" {
		current.Name = org.Name
	}
	if org.Description != "" {
		current.Description = org.Description
	}
	if org.Type != "" {
		current.Type = org.Type
	}
	if org.Currency != "" {
		current.Currency = org.Currency
	}
	if org.LogoURL != "" {
		current.LogoURL = org.LogoURL
	}
	if org.Settings != nil {
		current.Settings = org.Settings
	}
	if err := s.orgRepo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.guard.audit(ctx, actor, "organization.update", "organization", current.ID, nil)
	return current, nil
}

func (s *organizationService) DeactivateOrganization(ctx context.Context, userID, orgID string) error {
	actor, err := s.guard.authorize(ctx, userID, orgID, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.orgRepo.Deactivate(ctx, orgID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Errf(domain.KindNotFound, "organization not found")
		}
		return err
	}
	s.guard.audit(ctx, actor, "organization.deactivate", "organization", orgID, nil)
	return nil
}

func (s *organizationService) ListMyOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.orgRepo.ListByUser(ctx, userID)
}
