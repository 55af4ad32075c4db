package postgres

import (
	"context"
	"database/sql"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"

	"github.com/google/uuid"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	n.ID = uuid.NewString()
	query := `INSERT INTO notifications (id, org_id, membership_id, type, title, message, priority, is_read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, false, now())`
	_, err := r.db.ExecContext(ctx, query, n.ID, n.OrgID, n.MembershipID, n.Type, n.Title, n.Message, n.Priority)
	return err
}

func (r *notificationRepository) ListByMembership(ctx context.Context, orgID, membershipID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE org_id = $1 AND membership_id = $2`
	if err := r.db.QueryRowContext(ctx, countQuery, orgID, membershipID).Scan(&count); err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	query := `SELECT id, org_id, membership_id, type, title, message, COALESCE(priority, ''), is_read, created_at
	          FROM notifications WHERE org_id = $1 AND membership_id = $2
	          ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, orgID, membershipID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ns []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdAt time.Time
		if err := rows.Scan(&n.ID, &n.OrgID, &n.MembershipID, &n.Type, &n.Title, &n.Message, &n.Priority, &n.IsRead, &createdAt); err != nil {
			return nil, 0, err
		}
		n.CreatedAt = createdAt.Format(time.RFC3339)
		ns = append(ns, n)
	}
	return ns, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, membershipID string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = true WHERE id = $1 AND membership_id = $2`, id, membershipID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
