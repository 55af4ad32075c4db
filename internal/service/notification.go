package service

import (
	"context"
	"database/sql"
	"errors"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"
)

type notificationService struct {
	guard    *Guard
	noteRepo repository.NotificationRepository
}

func NewNotificationService(g *Guard, noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{guard: g, noteRepo: noteRepo}
}

func (s *notificationService) ListMyNotifications(ctx context.Context, userID, orgID string, page, pageSize int32) ([]domain.Notification, domain.Pagination, error) {
	actor, err := s.guard.authorize(ctx, userID, orgID)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	ns, total, err := s.noteRepo.ListByMembership(ctx, orgID, actor.ID, page, pageSize)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return ns, domain.NewPagination(page, pageSize, total), nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, orgID, notificationID string) error {
	actor, err := s.guard.authorize(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if err := s.noteRepo.MarkAsRead(ctx, notificationID, actor.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Errf(domain.KindNotFound, "notification not found")
		}
		return err
	}
	return nil
}
