package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flemzord/edgechat/internal/chat"
	"github.com/flemzord/edgechat/internal/config"
	"github.com/flemzord/edgechat/internal/core"
	"github.com/flemzord/edgechat/internal/cron"
	"github.com/flemzord/edgechat/internal/memory"
	"github.com/flemzord/edgechat/internal/observability"
	"github.com/flemzord/edgechat/internal/provider"
)

// wireChat builds the chat engine from services registered by the loaded
// modules and publishes it for the gateway. Must be called after
// LoadModules and before Start.
func wireChat(
	application *core.App,
	appCtx *core.AppContext,
	cfg *config.Config,
	logger *slog.Logger,
	metrics *observability.Metrics,
) error {
	var chatCfg chat.Config
	if !cfg.Chat.IsZero() {
		if err := cfg.Chat.Decode(&chatCfg); err != nil {
			return fmt.Errorf("decoding chat config: %w", err)
		}
	}

	svc, ok := appCtx.Service("provider.llm")
	if !ok {
		return errors.New("wiring chat: no provider module is configured")
	}
	llm, ok := svc.(provider.Provider)
	if !ok {
		return errors.New("wiring chat: provider.llm service has the wrong type")
	}

	// The sqlite module registers a persistent store; fall back to the
	// in-memory one so the service runs with zero storage config.
	var store memory.SessionStore
	if svc, ok := appCtx.Service("memory.sessions"); ok {
		store, _ = svc.(memory.SessionStore)
	}
	if store == nil {
		store = memory.NewInMemorySessionStore()
		appCtx.RegisterService("memory.sessions", store)
		logger.Info("no memory module configured, sessions are in-memory only")
	}

	engine := chat.NewEngine(chat.EngineParams{
		Store:    store,
		Provider: llm,
		Config:   chatCfg,
		Logger:   logger.With("component", "chat"),
		Metrics:  metrics,
	})
	appCtx.RegisterService("chat.engine", engine)

	return wireMaintenance(application, cfg, store, logger, metrics)
}

// wireMaintenance appends the cron scheduler to the app lifecycle with the
// retention sweep (when configured) and the store-stats sampler.
func wireMaintenance(
	application *core.App,
	cfg *config.Config,
	store memory.SessionStore,
	logger *slog.Logger,
	metrics *observability.Metrics,
) error {
	sched := cron.NewScheduler(logger.With("component", "cron"))

	if cfg.Retention.MaxIdle != "" {
		maxIdle, err := time.ParseDuration(cfg.Retention.MaxIdle)
		if err != nil {
			return fmt.Errorf("parsing retention.max_idle: %w", err)
		}
		job := &cron.SessionCleanupJob{
			Store:        store,
			MaxIdle:      maxIdle,
			Logger:       logger,
			Metrics:      metrics,
			ScheduleExpr: cfg.Retention.Schedule,
		}
		if err := sched.RegisterJob(job); err != nil {
			return err
		}
	}

	if err := sched.RegisterJob(&cron.StoreStatsJob{
		Store:   store,
		Logger:  logger,
		Metrics: metrics,
	}); err != nil {
		return err
	}

	application.AppendModule(&cronModule{sched: sched})
	return nil
}

// cronModule adapts the scheduler to the module lifecycle so it starts
// after the storage modules and stops before them.
type cronModule struct {
	sched *cron.Scheduler
}

func (m *cronModule) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{ID: "cron"}
}

func (m *cronModule) Start() error {
	return m.sched.Start()
}

func (m *cronModule) Stop(ctx context.Context) error {
	return m.sched.Stop(ctx)
}
