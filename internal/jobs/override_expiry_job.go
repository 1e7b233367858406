package jobs

import (
	"context"
	"log/slog"

	"courierpos/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OverrideExpiryJob sweeps pending override requests past their deadline.
// Runs every minute; expiry is also enforced lazily at approval time, so the
// sweep only keeps the pending queue honest for the approval screen.
type OverrideExpiryJob struct {
	handler commands.ExpireOverridesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOverrideExpiryJob creates the expiry sweep job.
func NewOverrideExpiryJob(handler commands.ExpireOverridesCommandHandler, logger *slog.Logger) *OverrideExpiryJob {
	return &OverrideExpiryJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "override_expiry_job"),
	}
}

// Start schedules the sweep to run every minute.
func (j *OverrideExpiryJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewExpireOverridesCommand()

		expired, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Override expiry sweep failed", "error", err)
			return
		}
		if expired > 0 {
			j.logger.InfoContext(ctx, "Expired pending overrides", "count", expired)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Override expiry job started (running every minute)")
	return nil
}

// Stop stops the expiry sweep.
func (j *OverrideExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Override expiry job stopped")
}
