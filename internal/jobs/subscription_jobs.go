package jobs

import (
	"context"
	"time"

	"tontine-backend/internal/logger"
)

// ExpireSubscriptions marks ACTIVE subscriptions whose end date has passed
// as EXPIRED
func (jr *JobRunner) ExpireSubscriptions() {
	jr.runWithRecovery("ExpireSubscriptions", func() {
		ctx := context.Background()
		count, err := jr.store.SubscriptionRepository.ExpireEnded(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to expire subscriptions", "error", err)
			return
		}
		logger.Info("Expired subscriptions", "count", count)
	})
}
