package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
	"tontine-backend/internal/repository"
	"tontine-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, orgRepo: orgRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, firstName, lastName, email, phone, password string) (*domain.User, string, string, error) {
	logger.EnterMethod("AuthService.Register", "email", email)

	email = strings.ToLower(strings.TrimSpace(email))
	if firstName == "" || lastName == "" || email == "" {
		return nil, "", "", domain.Errf(domain.KindValidation, "first name, last name and email are required")
	}
	if len(password) < 8 {
		return nil, "", "", domain.Errf(domain.KindValidation, "password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", "", domain.Errf(domain.KindValidation, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", "", err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", "", err
	}
	user := &domain.User{FirstName: firstName, LastName: lastName, Email: email, Phone: phone, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("AuthService.Register", err)
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	logger.ExitMethod("AuthService.Register", "user_id", user.ID)
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	logger.EnterMethod("AuthService.Login", "email", email)

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", domain.Errf(domain.KindUnauthorized, "invalid credentials")
		}
		return nil, "", "", err
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, "", "", domain.Errf(domain.KindUnauthorized, "invalid credentials")
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	logger.ExitMethod("AuthService.Login", "user_id", user.ID)
	return user, access, refresh, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", domain.Errf(domain.KindUnauthorized, "invalid refresh token")
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", domain.Errf(domain.KindUnauthorized, "invalid refresh token")
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", domain.Errf(domain.KindUnauthorized, "invalid refresh token")
		}
		return "", "", err
	}
	return s.issueTokens(user)
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*domain.User, []domain.Organization, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.Errf(domain.KindNotFound, "user not found")
		}
		return nil, nil, err
	}
	orgs, err := s.orgRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, orgs, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, firstName, lastName, phone, avatarURL string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errf(domain.KindNotFound, "user not found")
		}
		return nil, err
	}
	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}
	if phone != "" {
		user.Phone = phone
	}
	if avatarURL != "" {
		user.AvatarURL = avatarURL
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
