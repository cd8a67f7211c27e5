package cron

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/flemzord/edgechat/internal/memory"
	"github.com/flemzord/edgechat/internal/provider"
)

func TestSessionCleanupJob_Name(t *testing.T) {
	t.Parallel()
	j := &SessionCleanupJob{Logger: slog.Default()}
	if j.Name() != "session_cleanup" {
		t.Errorf("name = %q, want %q", j.Name(), "session_cleanup")
	}
}

func TestSessionCleanupJob_Schedule(t *testing.T) {
	t.Parallel()

	j := &SessionCleanupJob{Logger: slog.Default()}
	if j.Schedule() != "*/5 * * * *" {
		t.Errorf("schedule = %q, want %q", j.Schedule(), "*/5 * * * *")
	}

	j.ScheduleExpr = "0 * * * *"
	if j.Schedule() != "0 * * * *" {
		t.Errorf("schedule = %q, want the override", j.Schedule())
	}
}

func TestSessionCleanupJob_Run(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemorySessionStore()
	ctx := context.Background()
	msg := []provider.LLMMessage{{Role: provider.MessageRoleUser, Content: "hi"}}
	if err := store.ReplaceHistory(ctx, "old", msg); err != nil {
		t.Fatal(err)
	}

	// Let the first session age past a deliberately tiny idle window,
	// then write the second one right before pruning.
	time.Sleep(20 * time.Millisecond)
	if err := store.ReplaceHistory(ctx, "fresh", msg); err != nil {
		t.Fatal(err)
	}

	j := &SessionCleanupJob{
		Store:   store,
		MaxIdle: 10 * time.Millisecond,
		Logger:  slog.Default(),
	}
	if err := j.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	if n, _ := store.Sessions(ctx); n != 1 {
		t.Errorf("%d sessions remain, want only the fresh one", n)
	}
	if h, _ := store.History(ctx, "fresh"); len(h) != 1 {
		t.Error("fresh session was pruned")
	}
}

type failingStore struct {
	memory.SessionStore
}

func (failingStore) PruneIdle(context.Context, time.Duration) (int, error) {
	return 0, errors.New("store offline")
}

func TestSessionCleanupJob_RunError(t *testing.T) {
	t.Parallel()

	j := &SessionCleanupJob{Store: failingStore{}, Logger: slog.Default()}
	if err := j.Run(context.Background()); err == nil {
		t.Fatal("want the store error surfaced")
	}
}

func TestStoreStatsJob_Run(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemorySessionStore()
	ctx := context.Background()
	_ = store.SetSummary(ctx, "a", "s")
	_ = store.SetSummary(ctx, "b", "s")

	j := &StoreStatsJob{Store: store, Logger: slog.Default()}
	if j.Name() != "store_stats" || j.Schedule() != "* * * * *" {
		t.Errorf("unexpected identity: %q %q", j.Name(), j.Schedule())
	}
	if err := j.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
}
