package jobs

import (
	"database/sql"

	"tontine-backend/internal/config"
	"tontine-backend/internal/logger"
	"tontine-backend/internal/repository/postgres"
	"tontine-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db     *sql.DB
	store  *postgres.Store
	config *config.Config
	email  service.EmailSender
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, store *postgres.Store, cfg *config.Config, email service.EmailSender) *JobRunner {
	return &JobRunner{
		db:     db,
		store:  store,
		config: cfg,
		email:  email,
	}
}

// Config exposes the configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.MarkOverdueContributions()
	jr.MarkOverdueDebts()
	jr.ExpireSubscriptions()
	jr.SendContributionReminders()
}
