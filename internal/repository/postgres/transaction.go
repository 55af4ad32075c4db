package postgres

import (
	"context"
	"database/sql"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, org_id, membership_id, type, amount, currency, COALESCE(description, ''), payment_method, payment_status, reference, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.OrgID, &t.MembershipID, &t.Type, &t.Amount, &t.Currency, &t.Description,
		&t.PaymentMethod, &t.PaymentStatus, &t.Reference, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND org_id = $2`
	return scanTransaction(r.db.QueryRowContext(ctx, query, id, orgID))
}

func (r *transactionRepository) List(ctx context.Context, orgID string, filter domain.TransactionFilter) ([]domain.Transaction, int32, *domain.TransactionTotals, error) {
	where := `org_id = $1`
	args := []any{orgID}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where += ` AND type = $` + itoa(len(args))
	}
	if filter.PaymentMethod != "" {
		args = append(args, filter.PaymentMethod)
		where += ` AND payment_method = $` + itoa(len(args))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		where += ` AND payment_status = $` + itoa(len(args))
	}
	if filter.MembershipID != "" {
		args = append(args, filter.MembershipID)
		where += ` AND membership_id = $` + itoa(len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += ` AND created_at >= $` + itoa(len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += ` AND created_at <= $` + itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := itoa(len(args))
		where += ` AND (reference ILIKE $` + n + ` OR description ILIKE $` + n + `)`
	}

	totals := &domain.TransactionTotals{}
	totalsQuery := `SELECT count(*), COALESCE(sum(amount), 0) FROM transactions WHERE ` + where
	if err := r.db.QueryRowContext(ctx, totalsQuery, args...).Scan(&totals.TotalCount, &totals.TotalAmount); err != nil {
		return nil, 0, nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, nil, err
		}
		txs = append(txs, *t)
	}
	return txs, totals.TotalCount, totals, rows.Err()
}

func (r *transactionRepository) Search(ctx context.Context, orgID, term string, limit int32) ([]domain.Transaction, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions
	          WHERE org_id = $1 AND (reference ILIKE $2 OR description ILIKE $2)
	          ORDER BY created_at DESC LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, orgID, "%"+term+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}
