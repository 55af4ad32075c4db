package postgres

import (
	"context"
	"database/sql"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"

	"github.com/google/uuid"
)

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	s.ID = uuid.NewString()
	query := `INSERT INTO subscriptions (id, org_id, plan, status, max_members, current_usage, price, currency, start_date, end_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.OrgID, s.Plan, s.Status, s.MaxMembers, s.CurrentUsage, s.Price, s.Currency, s.StartDate, s.EndDate)
	return err
}

func (r *subscriptionRepository) GetByOrg(ctx context.Context, orgID string) (*domain.Subscription, error) {
	var s domain.Subscription
	var startDate time.Time
	var endDate sql.NullTime
	query := `SELECT id, org_id, plan, status, max_members, current_usage, price, currency, start_date, end_date
	          FROM subscriptions WHERE org_id = $1`
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(&s.ID, &s.OrgID, &s.Plan, &s.Status, &s.MaxMembers,
		&s.CurrentUsage, &s.Price, &s.Currency, &startDate, &endDate)
	if err != nil {
		return nil, err
	}
	s.StartDate = startDate.Format("2006-01-02")
	if endDate.Valid {
		e := endDate.Time.Format("2006-01-02")
		s.EndDate = &e
	}
	return &s, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, s *domain.Subscription) error {
	query := `UPDATE subscriptions SET plan = $1, status = $2, max_members = $3, current_usage = $4, price = $5, currency = $6, start_date = $7, end_date = $8 WHERE id = $9`
	result, err := r.db.ExecContext(ctx, query, s.Plan, s.Status, s.MaxMembers, s.CurrentUsage, s.Price, s.Currency, s.StartDate, s.EndDate, s.ID)
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

func (r *subscriptionRepository) AdjustUsage(ctx context.Context, orgID string, delta int32) error {
	query := `UPDATE subscriptions SET current_usage = GREATEST(current_usage + $1, 0) WHERE org_id = $2`
	result, err := r.db.ExecContext(ctx, query, delta, orgID)
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

func (r *subscriptionRepository) ExpireEnded(ctx context.Context, asOf time.Time) (int64, error) {
	query := `UPDATE subscriptions SET status = 'EXPIRED' WHERE status = 'ACTIVE' AND end_date IS NOT NULL AND end_date < $1`
	result, err := r.db.ExecContext(ctx, query, asOf)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
