// Package jobs provides the scheduled background tasks of the transaction
// core, built on github.com/robfig/cron/v3 and managed through JobManager:
//
//	jobManager := jobs.NewJobManager(expireOverridesHandler, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// The only job today is the override expiry sweep. Each sweep runs in its own
// transaction and skips rows another decision got to first, so overlapping
// runs are harmless.
package jobs

import (
	"fmt"
	"log/slog"

	"courierpos/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	overrideExpiryJob *OverrideExpiryJob
}

// NewJobManager creates a job manager wired to the expiry command handler.
func NewJobManager(
	expireOverridesHandler commands.ExpireOverridesCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		overrideExpiryJob: NewOverrideExpiryJob(expireOverridesHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.overrideExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start override expiry job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.overrideExpiryJob.Stop()
}
