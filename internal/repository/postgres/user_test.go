package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository/postgres"
)

func userRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "phone", "password_hash", "avatar_url", "created_at", "updated_at",
	}).AddRow("user-1", "Awa", "Diallo", "awa@example.com", "+221771234567", "$2a$10$hash", "", time.Now(), time.Now())
}

func TestUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(sqlmock.AnyArg(), "Awa", "Diallo", "awa@example.com", "+221771234567", "$2a$10$hash", "").
			WillReturnResult(sqlmock.NewResult(0, 1))

		user := &domain.User{FirstName: "Awa", LastName: "Diallo", Email: "awa@example.com", Phone: "+221771234567", PasswordHash: "$2a$10$hash"}
		err := repo.Create(ctx, user)
		assert.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, &domain.User{FirstName: "Awa", LastName: "Diallo", Email: "awa@example.com"})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE lower\\(email\\) = lower\\(\\$1\\)").
			WithArgs("awa@example.com").
			WillReturnRows(userRow())

		user, err := repo.GetByEmail(ctx, "awa@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, "Awa", user.FirstName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE lower\\(email\\) = lower\\(\\$1\\)").
			WithArgs("unknown@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmail(ctx, "unknown@example.com")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
