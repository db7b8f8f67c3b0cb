package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweepRecorder struct {
	fakeTokenRepo
	sweeps []time.Time
	err    error
}

func (r *sweepRecorder) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	r.sweeps = append(r.sweeps, now)
	if r.err != nil {
		return 0, r.err
	}
	return 3, nil
}

func TestCleanupRunOnceSweeps(t *testing.T) {
	repo := &sweepRecorder{}
	job := NewCleanupJob(repo, "@daily", testLogger())

	job.RunOnce()

	require.Len(t, repo.sweeps, 1)
	assert.WithinDuration(t, time.Now().UTC(), repo.sweeps[0], 5*time.Second)
}

func TestCleanupRunOnceToleratesErrors(t *testing.T) {
	repo := &sweepRecorder{err: assert.AnError}
	job := NewCleanupJob(repo, "@daily", testLogger())

	// must not panic, the next scheduled run gets another chance
	job.RunOnce()
	job.RunOnce()
	assert.Len(t, repo.sweeps, 2)
}

func TestCleanupStartRejectsBadSchedule(t *testing.T) {
	job := NewCleanupJob(&sweepRecorder{}, "not a cron spec", testLogger())
	assert.Error(t, job.Start())
}

func TestCleanupStartAndStop(t *testing.T) {
	job := NewCleanupJob(&sweepRecorder{}, "@daily", testLogger())
	require.NoError(t, job.Start())
	job.Stop()
}
