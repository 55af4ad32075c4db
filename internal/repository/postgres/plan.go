package postgres

import (
	"context"
	"database/sql"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"

	"github.com/google/uuid"
)

type contributionPlanRepository struct {
	db *sql.DB
}

func NewContributionPlanRepository(db *sql.DB) repository.ContributionPlanRepository {
	return &contributionPlanRepository{db: db}
}

const planColumns = `id, org_id, name, COALESCE(description, ''), amount, frequency, start_date, end_date, is_active, created_at, updated_at`

func scanPlan(row interface{ Scan(...any) error }) (*domain.ContributionPlan, error) {
	var p domain.ContributionPlan
	var startDate time.Time
	var endDate sql.NullTime
	var createdAt, updatedAt time.Time
	err := row.Scan(&p.ID, &p.OrgID, &p.Name, &p.Description, &p.Amount, &p.Frequency, &startDate, &endDate, &p.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.StartDate = startDate.Format("2006-01-02")
	if endDate.Valid {
		s := endDate.Time.Format("2006-01-02")
		p.EndDate = &s
	}
	p.CreatedAt = createdAt.Format("2006-01-02")
	p.UpdatedAt = updatedAt.Format("2006-01-02")
	return &p, nil
}

func (r *contributionPlanRepository) Create(ctx context.Context, p *domain.ContributionPlan) error {
	p.ID = uuid.NewString()
	query := `INSERT INTO contribution_plans (id, org_id, name, description, amount, frequency, start_date, end_date, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, now(), now())`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.OrgID, p.Name, p.Description, p.Amount, p.Frequency, p.StartDate, p.EndDate, p.IsActive)
	return err
}

func (r *contributionPlanRepository) GetByID(ctx context.Context, orgID, planID string) (*domain.ContributionPlan, error) {
	query := `SELECT ` + planColumns + ` FROM contribution_plans WHERE id = $1 AND org_id = $2`
	return scanPlan(r.db.QueryRowContext(ctx, query, planID, orgID))
}

func (r *contributionPlanRepository) List(ctx context.Context, orgID string, filter domain.PlanFilter) ([]domain.ContributionPlan, int32, error) {
	where := `org_id = $1`
	args := []any{orgID}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where += ` AND is_active = $2`
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := itoa(len(args))
		where += ` AND (name ILIKE $` + n + ` OR description ILIKE $` + n + `)`
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM contribution_plans WHERE `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT ` + planColumns + ` FROM contribution_plans WHERE ` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plans []domain.ContributionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		plans = append(plans, *p)
	}
	return plans, count, rows.Err()
}

func (r *contributionPlanRepository) Update(ctx context.Context, p *domain.ContributionPlan) error {
	query := `UPDATE contribution_plans SET name = $1, description = NULLIF($2, ''), amount = $3, frequency = $4, start_date = $5, end_date = $6, is_active = $7, updated_at = now()
	          WHERE id = $8 AND org_id = $9`
	result, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Amount, p.Frequency, p.StartDate, p.EndDate, p.IsActive, p.ID, p.OrgID)
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

func (r *contributionPlanRepository) Delete(ctx context.Context, orgID, planID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contribution_plans WHERE id = $1 AND org_id = $2`, planID, orgID)
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

func (r *contributionPlanRepository) CountActive(ctx context.Context, orgID string) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM contribution_plans WHERE org_id = $1 AND is_active = true`
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(&count)
	return count, err
}
