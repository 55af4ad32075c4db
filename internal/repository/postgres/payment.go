package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"
	"tontine-backend/internal/utils"

	"github.com/google/uuid"
)

// paymentRepository settles contributions and debts. Every method re-reads
// the target row FOR UPDATE inside one transaction, validates against the
// locked state and writes the new balance, the payment record and the
// ledger entry together, so concurrent submissions serialize on the row.
type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

// reference builds the ledger reference, e.g. CONT-1756380000000-a1b2c3.
func reference(prefix, sourceID string) string {
	suffix := strings.ReplaceAll(sourceID, "-", "")
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}

func lockContribution(ctx context.Context, tx *sql.Tx, orgID, id string) (*domain.Contribution, error) {
	var c domain.Contribution
	var paymentDate sql.NullTime
	var txID sql.NullString
	var createdAt time.Time
	query := `SELECT c.id, c.membership_id, c.contribution_plan_id, c.org_id, c.amount, c.amount_paid, c.status,
	                 c.due_date, c.payment_date, COALESCE(c.payment_method, ''), c.transaction_id, c.created_at
	          FROM contributions c WHERE c.id = $1 AND c.org_id = $2 FOR UPDATE`
	err := tx.QueryRowContext(ctx, query, id, orgID).Scan(&c.ID, &c.MembershipID, &c.PlanID, &c.OrgID,
		&c.Amount, &c.AmountPaid, &c.Status, &c.DueDate, &paymentDate, &c.PaymentMethod, &txID, &createdAt)
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

func insertTransaction(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	query := `INSERT INTO transactions (id, org_id, membership_id, type, amount, currency, description, payment_method, payment_status, reference, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := tx.ExecContext(ctx, query, t.ID, t.OrgID, t.MembershipID, t.Type, t.Amount, t.Currency,
		t.Description, t.PaymentMethod, t.PaymentStatus, t.Reference, t.CreatedAt)
	return err
}

func orgCurrency(ctx context.Context, tx *sql.Tx, orgID string) (string, error) {
	var currency string
	err := tx.QueryRowContext(ctx, `SELECT currency FROM organizations WHERE id = $1`, orgID).Scan(&currency)
	return currency, err
}

func (r *paymentRepository) ApplyFullPayment(ctx context.Context, orgID, contributionID string, amountPaid float64, method domain.PaymentMethod) (*domain.Contribution, *domain.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	c, err := lockContribution(ctx, tx, orgID, contributionID)
	if err != nil {
		return nil, nil, err
	}
	if err := utils.ValidateFullPayment(c, amountPaid); err != nil {
		return nil, nil, err
	}

	currency, err := orgCurrency(ctx, tx, orgID)
	if err != nil {
		return nil, nil, err
	}
	ledger := &domain.Transaction{
		OrgID:         orgID,
		MembershipID:  c.MembershipID,
		Type:          domain.TransactionTypeContribution,
		Amount:        amountPaid,
		Currency:      currency,
		Description:   "Contribution payment",
		PaymentMethod: method,
		PaymentStatus: domain.PaymentStatusCompleted,
		Reference:     reference("CONT", c.ID),
	}
	if err := insertTransaction(ctx, tx, ledger); err != nil {
		return nil, nil, err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `UPDATE contributions SET amount_paid = amount, status = 'PAID', payment_date = $1, payment_method = $2, transaction_id = $3 WHERE id = $4`,
		now, method, ledger.ID, c.ID)
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	c.AmountPaid = c.Amount
	c.Status = domain.ContributionStatusPaid
	c.PaymentDate = &now
	c.PaymentMethod = method
	c.TransactionID = &ledger.ID
	return c, ledger, nil
}

func (r *paymentRepository) ApplyPartialPayment(ctx context.Context, orgID, contributionID string, amount float64, method domain.PaymentMethod) (*domain.Contribution, *domain.PartialPayment, *domain.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	defer tx.Rollback()

	c, err := lockContribution(ctx, tx, orgID, contributionID)
	if err != nil {
		return nil, nil, nil, err
	}
	newAmountPaid, newStatus, err := utils.ApplyPartialPayment(c, amount)
	if err != nil {
		return nil, nil, nil, err
	}

	currency, err := orgCurrency(ctx, tx, orgID)
	if err != nil {
		return nil, nil, nil, err
	}
	ledger := &domain.Transaction{
		OrgID:         orgID,
		MembershipID:  c.MembershipID,
		Type:          domain.TransactionTypeContribution,
		Amount:        amount,
		Currency:      currency,
		Description:   "Partial contribution payment",
		PaymentMethod: method,
		PaymentStatus: domain.PaymentStatusCompleted,
		Reference:     reference("CONT", c.ID),
	}
	if err := insertTransaction(ctx, tx, ledger); err != nil {
		return nil, nil, nil, err
	}

	now := time.Now()
	pp := &domain.PartialPayment{
		ID:             uuid.NewString(),
		ContributionID: c.ID,
		Amount:         amount,
		PaymentMethod:  method,
		PaymentDate:    now,
		TransactionID:  &ledger.ID,
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO partial_payments (id, contribution_id, amount, payment_method, payment_date, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		pp.ID, pp.ContributionID, pp.Amount, pp.PaymentMethod, pp.PaymentDate, pp.TransactionID)
	if err != nil {
		return nil, nil, nil, err
	}

	if newStatus == domain.ContributionStatusPaid {
		_, err = tx.ExecContext(ctx, `UPDATE contributions SET amount_paid = $1, status = $2, payment_date = $3, payment_method = $4, transaction_id = $5 WHERE id = $6`,
			newAmountPaid, newStatus, now, method, ledger.ID, c.ID)
		if err == nil {
			c.PaymentDate = &now
			c.PaymentMethod = method
			c.TransactionID = &ledger.ID
		}
	} else {
		_, err = tx.ExecContext(ctx, `UPDATE contributions SET amount_paid = $1, status = $2 WHERE id = $3`,
			newAmountPaid, newStatus, c.ID)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, nil, err
	}

	c.AmountPaid = newAmountPaid
	c.Status = newStatus
	return c, pp, ledger, nil
}

func (r *paymentRepository) ApplyRepayment(ctx context.Context, orgID, debtID string, amount float64, method domain.PaymentMethod) (*domain.Debt, *domain.Repayment, *domain.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, nil, err
	}
	defer tx.Rollback()

	var d domain.Debt
	var dueDate sql.NullTime
	var createdAt time.Time
	query := `SELECT d.id, d.org_id, d.membership_id, d.title, COALESCE(d.description, ''), d.initial_amount, d.remaining_amount, d.status, d.due_date, d.created_at
	          FROM debts d WHERE d.id = $1 AND d.org_id = $2 FOR UPDATE`
	err = tx.QueryRowContext(ctx, query, debtID, orgID).Scan(&d.ID, &d.OrgID, &d.MembershipID, &d.Title,
		&d.Description, &d.InitialAmount, &d.RemainingAmount, &d.Status, &dueDate, &createdAt)
	if err != nil {
		return nil, nil, nil, err
	}
	if dueDate.Valid {
		d.DueDate = &dueDate.Time
	}
	d.CreatedAt = createdAt.Format("2006-01-02")

	newRemaining, newStatus, err := utils.ApplyRepayment(&d, amount)
	if err != nil {
		return nil, nil, nil, err
	}

	currency, err := orgCurrency(ctx, tx, orgID)
	if err != nil {
		return nil, nil, nil, err
	}
	ledger := &domain.Transaction{
		OrgID:         orgID,
		MembershipID:  d.MembershipID,
		Type:          domain.TransactionTypeDebtRepayment,
		Amount:        amount,
		Currency:      currency,
		Description:   "Debt repayment: " + d.Title,
		PaymentMethod: method,
		PaymentStatus: domain.PaymentStatusCompleted,
		Reference:     reference("REPAY", d.ID),
	}
	if err := insertTransaction(ctx, tx, ledger); err != nil {
		return nil, nil, nil, err
	}

	rep := &domain.Repayment{
		ID:            uuid.NewString(),
		DebtID:        d.ID,
		Amount:        amount,
		PaymentMethod: method,
		PaymentDate:   time.Now(),
		TransactionID: &ledger.ID,
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO repayments (id, debt_id, amount, payment_method, payment_date, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rep.ID, rep.DebtID, rep.Amount, rep.PaymentMethod, rep.PaymentDate, rep.TransactionID)
	if err != nil {
		return nil, nil, nil, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE debts SET remaining_amount = $1, status = $2 WHERE id = $3`,
		newRemaining, newStatus, d.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, nil, err
	}

	d.RemainingAmount = newRemaining
	d.Status = newStatus
	return &d, rep, ledger, nil
}
