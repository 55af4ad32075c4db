package jobs

import (
	"context"
	"time"

	"tontine-backend/internal/logger"
)

// MarkOverdueContributions flips PENDING contributions past their due date
// to OVERDUE
func (jr *JobRunner) MarkOverdueContributions() {
	jr.runWithRecovery("MarkOverdueContributions", func() {
		ctx := context.Background()
		count, err := jr.store.ContributionRepository.MarkOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to mark overdue contributions", "error", err)
			return
		}
		logger.Info("Marked contributions as overdue", "count", count)
	})
}

// MarkOverdueDebts flips unpaid debts past their due date to OVERDUE
func (jr *JobRunner) MarkOverdueDebts() {
	jr.runWithRecovery("MarkOverdueDebts", func() {
		ctx := context.Background()
		count, err := jr.store.DebtRepository.MarkOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to mark overdue debts", "error", err)
			return
		}
		logger.Info("Marked debts as overdue", "count", count)
	})
}
