package postgres

import (
	"context"
	"database/sql"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"

	"github.com/google/uuid"
)

type contributionRepository struct {
	db *sql.DB
}

func NewContributionRepository(db *sql.DB) repository.ContributionRepository {
	return &contributionRepository{db: db}
}

const contributionColumns = `c.id, c.membership_id, c.contribution_plan_id, c.org_id, c.amount, c.amount_paid, c.status,
	c.due_date, c.payment_date, COALESCE(c.payment_method, ''), c.transaction_id, c.created_at`

func scanContribution(row interface{ Scan(...any) error }) (*domain.Contribution, error) {
	var c domain.Contribution
	var paymentDate sql.NullTime
	var txID sql.NullString
	var createdAt time.Time
	err := row.Scan(&c.ID, &c.MembershipID, &c.PlanID, &c.OrgID, &c.Amount, &c.AmountPaid, &c.Status,
		&c.DueDate, &paymentDate, &c.PaymentMethod, &txID, &createdAt)
	if err != nil {
		return nil, err
	}
	if paymentDate.Valid {
		c.PaymentDate = &paymentDate.Time
	}
	if txID.Valid {
		c.TransactionID = &txID.String
	}
	c.CreatedAt = createdAt.Format("2006-01-02")
	return &c, nil
}

func (r *contributionRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions c WHERE c.id = $1 AND c.org_id = $2`
	c, err := scanContribution(r.db.QueryRowContext(ctx, query, id, orgID))
	if err != nil {
		return nil, err
	}
	c.PartialPayments, err = r.ListPartialPayments(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	plan, err := scanPlan(r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM contribution_plans WHERE id = $1`, c.PlanID))
	if err == nil {
		c.Plan = plan
	} else if err != sql.ErrNoRows {
		return nil, err
	}
	return c, nil
}

func (r *contributionRepository) buildFilter(orgID string, filter domain.ContributionFilter) (string, []any) {
	where := `c.org_id = $1`
	args := []any{orgID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND c.status = $` + itoa(len(args))
	}
	if filter.MembershipID != "" {
		args = append(args, filter.MembershipID)
		where += ` AND c.membership_id = $` + itoa(len(args))
	}
	if filter.PlanID != "" {
		args = append(args, filter.PlanID)
		where += ` AND c.contribution_plan_id = $` + itoa(len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += ` AND c.due_date >= $` + itoa(len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += ` AND c.due_date <= $` + itoa(len(args))
	}
	return where, args
}

func (r *contributionRepository) list(ctx context.Context, where string, args []any, page, pageSize int32) ([]domain.Contribution, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM contributions c WHERE `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT ` + contributionColumns + ` FROM contributions c WHERE ` + where +
		` ORDER BY c.due_date DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cs []domain.Contribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, 0, err
		}
		cs = append(cs, *c)
	}
	return cs, count, rows.Err()
}

func (r *contributionRepository) List(ctx context.Context, orgID string, filter domain.ContributionFilter) ([]domain.Contribution, int32, error) {
	where, args := r.buildFilter(orgID, filter)
	return r.list(ctx, where, args, filter.Page, filter.PageSize)
}

func (r *contributionRepository) ListByMember(ctx context.Context, orgID, membershipID string, filter domain.ContributionFilter) ([]domain.Contribution, int32, error) {
	filter.MembershipID = membershipID
	where, args := r.buildFilter(orgID, filter)
	return r.list(ctx, where, args, filter.Page, filter.PageSize)
}

func (r *contributionRepository) MemberTotals(ctx context.Context, orgID, membershipID string, status domain.ContributionStatus) (*domain.ContributionTotals, error) {
	where := `org_id = $1 AND membership_id = $2`
	args := []any{orgID, membershipID}
	if status != "" {
		args = append(args, status)
		where += ` AND status = $3`
	}
	totals := &domain.ContributionTotals{}
	query := `SELECT COALESCE(sum(amount), 0), COALESCE(sum(amount_paid), 0) FROM contributions WHERE ` + where
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&totals.TotalAmount, &totals.TotalPaid); err != nil {
		return nil, err
	}
	totals.TotalRemaining = totals.TotalAmount - totals.TotalPaid
	return totals, nil
}

func (r *contributionRepository) CountForPeriod(ctx context.Context, planID string, periodStart, periodEnd time.Time) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM contributions WHERE contribution_plan_id = $1 AND due_date >= $2 AND due_date < $3`
	err := r.db.QueryRowContext(ctx, query, planID, periodStart, periodEnd).Scan(&count)
	return count, err
}

func (r *contributionRepository) CountByPlan(ctx context.Context, planID string) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM contributions WHERE contribution_plan_id = $1`, planID).Scan(&count)
	return count, err
}

func (r *contributionRepository) ExistsForMemberPeriod(ctx context.Context, membershipID, planID string, periodStart, periodEnd time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM contributions WHERE membership_id = $1 AND contribution_plan_id = $2 AND due_date >= $3 AND due_date < $4)`
	err := r.db.QueryRowContext(ctx, query, membershipID, planID, periodStart, periodEnd).Scan(&exists)
	return exists, err
}

func (r *contributionRepository) Create(ctx context.Context, c *domain.Contribution) error {
	c.ID = uuid.NewString()
	query := `INSERT INTO contributions (id, membership_id, contribution_plan_id, org_id, amount, amount_paid, status, due_date, created_at)
	          VALUES ($1, $2, $3, $4, $5, 0, $6, $7, now())`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.MembershipID, c.PlanID, c.OrgID, c.Amount, c.Status, c.DueDate)
	if err != nil && isUniqueViolation(err) {
		return domain.Errf(domain.KindAlreadyGenerated, "contribution already exists for this member and period")
	}
	return err
}

func (r *contributionRepository) CreateBatch(ctx context.Context, cs []*domain.Contribution) error {
	if len(cs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO contributions (id, membership_id, contribution_plan_id, org_id, amount, amount_paid, status, due_date, created_at)
	          VALUES ($1, $2, $3, $4, $5, 0, $6, $7, now())`
	for _, c := range cs {
		c.ID = uuid.NewString()
		if _, err := tx.ExecContext(ctx, query, c.ID, c.MembershipID, c.PlanID, c.OrgID, c.Amount, c.Status, c.DueDate); err != nil {
			if isUniqueViolation(err) {
				return domain.Errf(domain.KindAlreadyGenerated, "contributions already generated for this period")
			}
			return err
		}
	}
	return tx.Commit()
}

func (r *contributionRepository) ListPartialPayments(ctx context.Context, contributionID string) ([]domain.PartialPayment, error) {
	query := `SELECT id, contribution_id, amount, payment_method, payment_date, transaction_id
	          FROM partial_payments WHERE contribution_id = $1 ORDER BY payment_date`
	rows, err := r.db.QueryContext(ctx, query, contributionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pps []domain.PartialPayment
	for rows.Next() {
		var pp domain.PartialPayment
		var txID sql.NullString
		if err := rows.Scan(&pp.ID, &pp.ContributionID, &pp.Amount, &pp.PaymentMethod, &pp.PaymentDate, &txID); err != nil {
			return nil, err
		}
		if txID.Valid {
			pp.TransactionID = &txID.String
		}
		pps = append(pps, pp)
	}
	return pps, rows.Err()
}

func (r *contributionRepository) MarkOverdue(ctx context.Context, before time.Time) (int64, error) {
	query := `UPDATE contributions SET status = 'OVERDUE' WHERE status IN ('PENDING', 'PARTIAL') AND due_date < $1`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *contributionRepository) ListDueBetween(ctx context.Context, orgID string, from, to time.Time) ([]domain.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions c
	          WHERE c.org_id = $1 AND c.status IN ('PENDING', 'PARTIAL') AND c.due_date >= $2 AND c.due_date <= $3
	          ORDER BY c.due_date`
	rows, err := r.db.QueryContext(ctx, query, orgID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cs []domain.Contribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, err
		}
		cs = append(cs, *c)
	}
	return cs, rows.Err()
}
