package postgres

import (
	"context"
	"database/sql"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"

	"github.com/google/uuid"
)

type membershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

const membershipColumns = `m.id, m.user_id, m.org_id, m.role, m.status, m.member_number, m.joined_on,
	u.id, u.first_name, u.last_name, u.email, COALESCE(u.phone, ''), COALESCE(u.avatar_url, '')`

func scanMembership(row interface{ Scan(...any) error }) (*domain.Membership, error) {
	var m domain.Membership
	var u domain.User
	var joinedOn time.Time
	err := row.Scan(&m.ID, &m.UserID, &m.OrgID, &m.Role, &m.Status, &m.MemberNumber, &joinedOn,
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.AvatarURL)
	if err != nil {
		return nil, err
	}
	m.JoinedOn = joinedOn.Format("2006-01-02")
	m.User = &u
	return &m, nil
}

func (r *membershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	m.ID = uuid.NewString()
	query := `INSERT INTO memberships (id, user_id, org_id, role, status, member_number, joined_on)
	          VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.UserID, m.OrgID, m.Role, m.Status, m.MemberNumber)
	if err != nil && isUniqueViolation(err) {
		return domain.Errf(domain.KindDuplicateMember, "user is already a member of this organization")
	}
	return err
}

func (r *membershipRepository) GetByID(ctx context.Context, id string) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships m JOIN users u ON u.id = m.user_id WHERE m.id = $1`
	return scanMembership(r.db.QueryRowContext(ctx, query, id))
}

func (r *membershipRepository) GetActive(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships m JOIN users u ON u.id = m.user_id
	          WHERE m.user_id = $1 AND m.org_id = $2 AND m.status = 'ACTIVE'`
	return scanMembership(r.db.QueryRowContext(ctx, query, userID, orgID))
}

func (r *membershipRepository) GetByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships m JOIN users u ON u.id = m.user_id
	          WHERE m.user_id = $1 AND m.org_id = $2`
	return scanMembership(r.db.QueryRowContext(ctx, query, userID, orgID))
}

func (r *membershipRepository) List(ctx context.Context, orgID string, filter domain.MembershipFilter) ([]domain.Membership, int32, error) {
	where := `m.org_id = $1`
	args := []any{orgID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND m.status = $2`
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where += ` AND m.role = $` + itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := itoa(len(args))
		where += ` AND (u.first_name ILIKE $` + n + ` OR u.last_name ILIKE $` + n + ` OR u.email ILIKE $` + n + ` OR m.member_number ILIKE $` + n + `)`
	}

	var count int32
	countQuery := `SELECT count(*) FROM memberships m JOIN users u ON u.id = m.user_id WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT ` + membershipColumns + ` FROM memberships m JOIN users u ON u.id = m.user_id
	          WHERE ` + where + ` ORDER BY m.joined_on DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var members []domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, *m)
	}
	return members, count, rows.Err()
}

func (r *membershipRepository) Update(ctx context.Context, m *domain.Membership) error {
	query := `UPDATE memberships SET role = $1, status = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, m.Role, m.Status, m.ID)
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

func (r *membershipRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE id = $1`, id)
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

func (r *membershipRepository) CountActive(ctx context.Context, orgID string) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM memberships WHERE org_id = $1 AND status = 'ACTIVE'`
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(&count)
	return count, err
}

func (r *membershipRepository) ListActive(ctx context.Context, orgID string) ([]domain.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships m JOIN users u ON u.id = m.user_id
	          WHERE m.org_id = $1 AND m.status = 'ACTIVE' ORDER BY m.member_number`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}
