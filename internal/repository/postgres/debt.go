package postgres

import (
	"context"
	"database/sql"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"

	"github.com/google/uuid"
)

type debtRepository struct {
	db *sql.DB
}

func NewDebtRepository(db *sql.DB) repository.DebtRepository {
	return &debtRepository{db: db}
}

const debtColumns = `d.id, d.org_id, d.membership_id, d.title, COALESCE(d.description, ''), d.initial_amount, d.remaining_amount, d.status, d.due_date, d.created_at`

func scanDebt(row interface{ Scan(...any) error }) (*domain.Debt, error) {
	var d domain.Debt
	var dueDate sql.NullTime
	var createdAt time.Time
	err := row.Scan(&d.ID, &d.OrgID, &d.MembershipID, &d.Title, &d.Description, &d.InitialAmount, &d.RemainingAmount, &d.Status, &dueDate, &createdAt)
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		d.DueDate = &dueDate.Time
	}
	d.CreatedAt = createdAt.Format("2006-01-02")
	return &d, nil
}

func (r *debtRepository) Create(ctx context.Context, d *domain.Debt) error {
	d.ID = uuid.NewString()
	query := `INSERT INTO debts (id, org_id, membership_id, title, description, initial_amount, remaining_amount, status, due_date, created_at)
	          VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $6, $7, $8, now())`
	_, err := r.db.ExecContext(ctx, query, d.ID, d.OrgID, d.MembershipID, d.Title, d.Description, d.InitialAmount, d.Status, d.DueDate)
	return err
}

func (r *debtRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts d WHERE d.id = $1 AND d.org_id = $2`
	d, err := scanDebt(r.db.QueryRowContext(ctx, query, id, orgID))
	if err != nil {
		return nil, err
	}
	d.Repayments, err = r.ListRepayments(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *debtRepository) buildFilter(orgID string, filter domain.DebtFilter) (string, []any) {
	where := `d.org_id = $1`
	args := []any{orgID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND d.status = $` + itoa(len(args))
	}
	if filter.MembershipID != "" {
		args = append(args, filter.MembershipID)
		where += ` AND d.membership_id = $` + itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := itoa(len(args))
		where += ` AND (d.title ILIKE $` + n + ` OR d.description ILIKE $` + n + `)`
	}
	return where, args
}

func (r *debtRepository) list(ctx context.Context, where string, args []any, page, pageSize int32) ([]domain.Debt, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM debts d WHERE `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page, pageSize = normalizePage(page, pageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT ` + debtColumns + ` FROM debts d WHERE ` + where +
		` ORDER BY d.created_at DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var debts []domain.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, 0, err
		}
		debts = append(debts, *d)
	}
	return debts, count, rows.Err()
}

func (r *debtRepository) List(ctx context.Context, orgID string, filter domain.DebtFilter) ([]domain.Debt, int32, error) {
	where, args := r.buildFilter(orgID, filter)
	return r.list(ctx, where, args, filter.Page, filter.PageSize)
}

func (r *debtRepository) ListByMember(ctx context.Context, orgID, membershipID string, filter domain.DebtFilter) ([]domain.Debt, int32, error) {
	filter.MembershipID = membershipID
	where, args := r.buildFilter(orgID, filter)
	return r.list(ctx, where, args, filter.Page, filter.PageSize)
}

func (r *debtRepository) MemberTotals(ctx context.Context, orgID, membershipID string, status domain.DebtStatus) (*domain.DebtTotals, error) {
	where := `org_id = $1 AND membership_id = $2`
	args := []any{orgID, membershipID}
	if status != "" {
		args = append(args, status)
		where += ` AND status = $3`
	}
	totals := &domain.DebtTotals{}
	query := `SELECT COALESCE(sum(initial_amount), 0), COALESCE(sum(remaining_amount), 0) FROM debts WHERE ` + where
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&totals.TotalDebts, &totals.TotalRemaining); err != nil {
		return nil, err
	}
	totals.TotalRepaid = totals.TotalDebts - totals.TotalRemaining
	return totals, nil
}

func (r *debtRepository) UpdateStatus(ctx context.Context, id string, status domain.DebtStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE debts SET status = $1 WHERE id = $2`, status, id)
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

func (r *debtRepository) Summary(ctx context.Context, orgID string, recentSince time.Time) (*domain.DebtSummary, error) {
	s := &domain.DebtSummary{}

	query := `SELECT count(*), COALESCE(sum(initial_amount), 0),
	                 count(*) FILTER (WHERE status IN ('ACTIVE', 'PARTIALLY_PAID')),
	                 COALESCE(sum(remaining_amount) FILTER (WHERE status IN ('ACTIVE', 'PARTIALLY_PAID')), 0),
	                 count(*) FILTER (WHERE status = 'OVERDUE'),
	                 count(*) FILTER (WHERE status = 'PAID'),
	                 COALESCE(sum(initial_amount) FILTER (WHERE status = 'PAID'), 0),
	                 COALESCE(sum(initial_amount - remaining_amount), 0)
	          FROM debts WHERE org_id = $1`
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(&s.TotalDebts, &s.TotalAmount, &s.ActiveDebts, &s.ActiveAmount,
		&s.OverdueDebts, &s.PaidDebts, &s.PaidAmount, &s.TotalRepaid)
	if err != nil {
		return nil, err
	}

	if s.TotalAmount > 0 {
		s.RepaymentRate = int32(s.TotalRepaid / s.TotalAmount * 100)
	}
	if s.TotalDebts > 0 {
		s.OverdueRate = s.OverdueDebts * 100 / s.TotalDebts
	}

	query = `SELECT count(*), COALESCE(sum(r.amount), 0)
	         FROM repayments r JOIN debts d ON d.id = r.debt_id
	         WHERE d.org_id = $1 AND r.payment_date >= $2`
	err = r.db.QueryRowContext(ctx, query, orgID, recentSince).Scan(&s.RecentRepayments, &s.RecentRepaidAmount)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *debtRepository) ListRepayments(ctx context.Context, debtID string) ([]domain.Repayment, error) {
	query := `SELECT id, debt_id, amount, payment_method, payment_date, transaction_id
	          FROM repayments WHERE debt_id = $1 ORDER BY payment_date`
	rows, err := r.db.QueryContext(ctx, query, debtID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []domain.Repayment
	for rows.Next() {
		var rep domain.Repayment
		var txID sql.NullString
		if err := rows.Scan(&rep.ID, &rep.DebtID, &rep.Amount, &rep.PaymentMethod, &rep.PaymentDate, &txID); err != nil {
			return nil, err
		}
		if txID.Valid {
			rep.TransactionID = &txID.String
		}
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}

func (r *debtRepository) MarkOverdue(ctx context.Context, before time.Time) (int64, error) {
	query := `UPDATE debts SET status = 'OVERDUE' WHERE status IN ('ACTIVE', 'PARTIALLY_PAID') AND due_date IS NOT NULL AND due_date < $1`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
