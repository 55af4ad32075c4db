package postgres

import (
	"database/sql"
	"strconv"

	"tontine-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.OrganizationRepository
	repository.MembershipRepository
	repository.ContributionPlanRepository
	repository.ContributionRepository
	repository.DebtRepository
	repository.PaymentRepository
	repository.TransactionRepository
	repository.SubscriptionRepository
	repository.NotificationRepository
	repository.AuditLogRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                         db,
		UserRepository:             NewUserRepository(db),
		OrganizationRepository:     NewOrganizationRepository(db),
		MembershipRepository:       NewMembershipRepository(db),
		ContributionPlanRepository: NewContributionPlanRepository(db),
		ContributionRepository:     NewContributionRepository(db),
		DebtRepository:             NewDebtRepository(db),
		PaymentRepository:          NewPaymentRepository(db),
		TransactionRepository:      NewTransactionRepository(db),
		SubscriptionRepository:     NewSubscriptionRepository(db),
		NotificationRepository:     NewNotificationRepository(db),
		AuditLogRepository:         NewAuditLogRepository(db),
	}
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
