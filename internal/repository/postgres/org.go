package postgres

import (
	"context"
	"database/sql"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type organizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) CreateWithDefaults(ctx context.Context, org *domain.Organization, owner *domain.Membership, sub *domain.Subscription) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO organizations (id, name, description, type, currency, logo_url, owner_id, is_active, member_counter, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, true, 1, now(), now())`,
		org.ID, org.Name, org.Description, org.Type, org.Currency, org.LogoURL, org.OwnerID)
	if err != nil {
		return err
	}

	settings := org.Settings
	if settings == nil {
		settings = &domain.OrganizationSettings{AllowPartialPayments: true, AutoReminders: true, ReminderDays: []int{7, 3, 1}, EmailNotifications: true}
		org.Settings = settings
	}
	settings.ID = uuid.NewString()
	reminderDays := make([]int64, len(settings.ReminderDays))
	for i, d := range settings.ReminderDays {
		reminderDays[i] = int64(d)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO organization_settings (id, org_id, allow_partial_payments, auto_reminders, reminder_days, email_notifications)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		settings.ID, org.ID, settings.AllowPartialPayments, settings.AutoReminders, pq.Array(reminderDays), settings.EmailNotifications)
	if err != nil {
		return err
	}

	sub.ID = uuid.NewString()
	sub.OrgID = org.ID
	_, err = tx.ExecContext(ctx, `INSERT INTO subscriptions (id, org_id, plan, status, max_members, current_usage, price, currency, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		sub.ID, sub.OrgID, sub.Plan, sub.Status, sub.MaxMembers, sub.CurrentUsage, sub.Price, sub.Currency, sub.StartDate, sub.EndDate)
	if err != nil {
		return err
	}

	owner.ID = uuid.NewString()
	owner.OrgID = org.ID
	_, err = tx.ExecContext(ctx, `INSERT INTO memberships (id, user_id, org_id, role, status, member_number, joined_on)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		owner.ID, owner.UserID, owner.OrgID, owner.Role, owner.Status, owner.MemberNumber)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func scanOrganization(row interface{ Scan(...any) error }) (*domain.Organization, error) {
	var o domain.Organization
	var createdAt, updatedAt time.Time
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.Type, &o.Currency, &o.LogoURL, &o.OwnerID, &o.IsActive, &o.MemberCounter, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	o.CreatedAt = createdAt.Format("2006-01-02")
	o.UpdatedAt = updatedAt.Format("2006-01-02")
	return &o, nil
}

const orgColumns = `id, name, COALESCE(description, ''), type, currency, COALESCE(logo_url, ''), owner_id, is_active, member_counter, created_at, updated_at`

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	org, err := scanOrganization(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	var s domain.OrganizationSettings
	var days []int64
	err = r.db.QueryRowContext(ctx, `SELECT id, allow_partial_payments, auto_reminders, reminder_days, email_notifications
		FROM organization_settings WHERE org_id = $1`, id).
		Scan(&s.ID, &s.AllowPartialPayments, &s.AutoReminders, pq.Array(&days), &s.EmailNotifications)
	if err == nil {
		s.ReminderDays = make([]int, len(days))
		for i, d := range days {
			s.ReminderDays[i] = int(d)
		}
		org.Settings = &s
	} else if err != sql.ErrNoRows {
		return nil, err
	}
	return org, nil
}

func (r *organizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE organizations SET name = $1, description = NULLIF($2, ''), type = $3, currency = $4, logo_url = NULLIF($5, ''), updated_at = now() WHERE id = $6`,
		org.Name, org.Description, org.Type, org.Currency, org.LogoURL, org.ID)
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

	if org.Settings != nil {
		s := org.Settings
		reminderDays := make([]int64, len(s.ReminderDays))
		for i, d := range s.ReminderDays {
			reminderDays[i] = int64(d)
		}
		_, err = tx.ExecContext(ctx, `UPDATE organization_settings SET allow_partial_payments = $1, auto_reminders = $2, reminder_days = $3, email_notifications = $4 WHERE org_id = $5`,
			s.AllowPartialPayments, s.AutoReminders, pq.Array(reminderDays), s.EmailNotifications, org.ID)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *organizationRepository) Deactivate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE organizations SET is_active = false, updated_at = now() WHERE id = $1`, id)
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

func (r *organizationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Organization, error) {
	query := `SELECT o.id, o.name, COALESCE(o.description, ''), o.type, o.currency, COALESCE(o.logo_url, ''), o.owner_id, o.is_active, o.member_counter, o.created_at, o.updated_at
	          FROM organizations o
	          JOIN memberships m ON m.org_id = o.id
	          WHERE m.user_id = $1 AND m.status = 'ACTIVE' AND o.is_active = true
	          ORDER BY o.created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, *org)
	}
	return orgs, rows.Err()
}

func (r *organizationRepository) NextMemberNumber(ctx context.Context, orgID string) (int32, error) {
	var counter int32
	query := `UPDATE organizations SET member_counter = member_counter + 1 WHERE id = $1 RETURNING member_counter`
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(&counter)
	return counter, err
}
