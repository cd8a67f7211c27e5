package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/flemzord/edgechat/internal/memory"
	"github.com/flemzord/edgechat/internal/observability"
)

// SessionCleanupJob removes sessions whose last write is older than MaxIdle.
type SessionCleanupJob struct {
	Store        memory.SessionStore
	MaxIdle      time.Duration
	Logger       *slog.Logger
	Metrics      *observability.Metrics // may be nil
	ScheduleExpr string                 // empty = default "*/5 * * * *"
}

// Compile-time interface check.
var _ Job = (*SessionCleanupJob)(nil)

// Name implements Job.
func (j *SessionCleanupJob) Name() string { return "session_cleanup" }

// Schedule implements Job.
func (j *SessionCleanupJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/5 * * * *"
}

// Run prunes sessions idle longer than MaxIdle.
func (j *SessionCleanupJob) Run(ctx context.Context) error {
	pruned, err := j.Store.PruneIdle(ctx, j.MaxIdle)
	if err != nil {
		return err
	}
	if pruned > 0 {
		j.Logger.Info("cron: pruned idle sessions", "count", pruned, "max_idle", j.MaxIdle)
		if j.Metrics != nil {
			j.Metrics.PrunedSessions.Add(float64(pruned))
		}
	}
	return nil
}

// StoreStatsJob samples the number of stored sessions into the metrics
// gauge so operators can watch retention behave over time.
type StoreStatsJob struct {
	Store        memory.SessionStore
	Logger       *slog.Logger
	Metrics      *observability.Metrics
	ScheduleExpr string // empty = default "* * * * *"
}

// Compile-time interface check.
var _ Job = (*StoreStatsJob)(nil)

// Name implements Job.
func (j *StoreStatsJob) Name() string { return "store_stats" }

// Schedule implements Job.
func (j *StoreStatsJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "* * * * *"
}

// Run counts stored sessions and updates the gauge.
func (j *StoreStatsJob) Run(ctx context.Context) error {
	n, err := j.Store.Sessions(ctx)
	if err != nil {
		return err
	}
	if j.Metrics != nil {
		j.Metrics.StoredSessions.Set(float64(n))
	}
	j.Logger.Debug("cron: store stats sampled", "sessions", n)
	return nil
}
