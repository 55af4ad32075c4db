package postgres

import (
	"context"
	"database/sql"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"

	"github.com/google/uuid"
)

type auditLogRepository struct {
	db *sql.DB
}

func NewAuditLogRepository(db *sql.DB) repository.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Record(ctx context.Context, entry *domain.AuditLog) error {
	entry.ID = uuid.NewString()
	query := `INSERT INTO audit_logs (id, action, resource, resource_id, user_id, org_id, membership_id, details, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::jsonb, now())`
	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.Action, entry.Resource, entry.ResourceID,
		entry.UserID, entry.OrgID, entry.MembershipID, entry.Details)
	return err
}
