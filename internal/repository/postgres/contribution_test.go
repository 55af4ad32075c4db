package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/repository/postgres"
)

func TestContributionRepository_CountForPeriod(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewContributionRepository(db)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM contributions WHERE contribution_plan_id = \\$1 AND due_date >= \\$2 AND due_date < \\$3").
		WithArgs("plan-1", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountForPeriod(context.Background(), "plan-1", start, end)
	assert.NoError(t, err)
	assert.Equal(t, int32(12), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributionRepository_ExistsForMemberPeriod(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewContributionRepository(db)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("mem-1", "plan-1", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsForMemberPeriod(context.Background(), "mem-1", "plan-1", start, end)
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributionRepository_CreateBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewContributionRepository(db)
	ctx := context.Background()
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	batch := []*domain.Contribution{
		{MembershipID: "mem-1", PlanID: "plan-1", OrgID: "org-1", Amount: 5000, Status: domain.ContributionStatusPending, DueDate: due},
		{MembershipID: "mem-2", PlanID: "plan-1", OrgID: "org-1", Amount: 5000, Status: domain.ContributionStatusPending, DueDate: due},
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		for _, c := range batch {
			mock.ExpectExec("INSERT INTO contributions").
				WithArgs(sqlmock.AnyArg(), c.MembershipID, "plan-1", "org-1", float64(5000), domain.ContributionStatusPending, due).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		err := repo.CreateBatch(ctx, batch)
		assert.NoError(t, err)
		assert.NotEmpty(t, batch[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Period Rolls Back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO contributions").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err := repo.CreateBatch(ctx, batch)
		assert.True(t, domain.IsKind(err, domain.KindAlreadyGenerated))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Batch Is A No-Op", func(t *testing.T) {
		assert.NoError(t, repo.CreateBatch(ctx, nil))
	})
}

func TestContributionRepository_MarkOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewContributionRepository(db)
	now := time.Now()

	mock.ExpectExec(`UPDATE contributions SET status = 'OVERDUE' WHERE status IN \('PENDING', 'PARTIAL'\) AND due_date < \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	updated, err := repo.MarkOverdue(context.Background(), now)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}
