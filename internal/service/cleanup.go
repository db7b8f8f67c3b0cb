package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/pkoziol/bookshare/internal/repository"
)

// CleanupJob periodically removes expired email verification tokens
// together with the still-disabled accounts that own them. This is the
// only background work in the system: a failed run is logged and the
// job simply waits for its next tick, there is no retry.
type CleanupJob struct {
	tokens   repository.VerificationTokenRepository
	schedule string
	logger   *zerolog.Logger
	cron     *cron.Cron
}

// NewCleanupJob builds the job with a cron schedule spec such as
// "@daily" or "0 3 * * *".
func NewCleanupJob(tokens repository.VerificationTokenRepository, schedule string, logger *zerolog.Logger) *CleanupJob {
	return &CleanupJob{tokens: tokens, schedule: schedule, logger: logger}
}

// Start registers the sweep with the cron runner and starts it on its
// own goroutine. It returns an error only when the schedule spec does
// not parse.
func (j *CleanupJob) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(j.schedule, j.RunOnce); err != nil {
		return err
	}
	c.Start()
	j.cron = c
	j.logger.Info().Str("schedule", j.schedule).Msg("verification cleanup scheduled")
	return nil
}

// Stop halts the cron runner; a sweep already in flight finishes.
func (j *CleanupJob) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// RunOnce performs a single sweep.
func (j *CleanupJob) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := j.tokens.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		j.logger.Error().Err(err).Msg("verification cleanup sweep failed")
		return
	}
	if removed > 0 {
		j.logger.Info().Int64("removed", removed).Msg("verification cleanup removed stale accounts")
	}
}
