package postgres

import (
	"context"
	"database/sql"
	"time"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, COALESCE(phone, ''), password_hash, COALESCE(avatar_url, ''), created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	var createdAt, updatedAt time.Time
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.PasswordHash, &u.AvatarURL, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = createdAt.Format("2006-01-02")
	u.UpdatedAt = updatedAt.Format("2006-01-02")
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	query := `INSERT INTO users (id, first_name, last_name, email, phone, password_hash, avatar_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), now(), now())`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.FirstName, user.LastName, user.Email, user.Phone, user.PasswordHash, user.AvatarURL)
	if err != nil && isUniqueViolation(err) {
		return domain.Errf(domain.KindValidation, "email or phone already registered")
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, phone))
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET first_name = $1, last_name = $2, phone = NULLIF($3, ''), avatar_url = NULLIF($4, ''), updated_at = now() WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, user.FirstName, user.LastName, user.Phone, user.AvatarURL, user.ID)
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
