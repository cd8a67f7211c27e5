// Package app provides the shared entry point for the edgechat binary.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flemzord/edgechat/internal/config"
	"github.com/flemzord/edgechat/internal/core"
	"github.com/flemzord/edgechat/internal/observability"
	"github.com/flemzord/edgechat/internal/security"
)

// RunParams configures the main application loop.
type RunParams struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is called automatically.
	ConfigPath string

	// Version is injected at build time via ldflags.
	Version string

	// DataDir overrides the default persistent data directory.
	DataDir string

	// LogLevel sets the minimum log level. Defaults to slog.LevelInfo.
	LogLevel slog.Level
}

// Run loads configuration, wires the chat engine between module load and
// start, and blocks until a shutdown signal is received.
func Run(params RunParams) error {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		resolved, err := ResolveConfigPath()
		if err != nil {
			return err
		}
		cfgPath = resolved
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Every log line passes through the redactor so the provider token
	// never leaks, wherever the log call originates.
	credStore := security.NewCredentialStore()
	redactor := security.NewRedactor()
	innerHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: params.LogLevel,
	})
	logger := slog.New(security.NewRedactingHandler(innerHandler, redactor))

	dataDir := params.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	appCtx := core.NewAppContext(logger, dataDir)
	appCtx = appCtx.WithModuleConfigs(cfg.Modules)
	appCtx.RegisterService("security.credentials", credStore)

	application := core.NewApp(appCtx)
	if err := application.LoadModules(config.Resolve(cfg)); err != nil {
		return err
	}

	// Modules registered their resolved secrets during Provision; sync
	// them into the redactor before anything else logs.
	redactor.SyncCredentials(credStore)

	// Wire the engine between LoadModules and Start: modules have
	// registered their services (provider, store) but nothing is
	// listening yet.
	metrics := observability.NewMetrics("edgechat")
	if err := wireChat(application, appCtx, cfg, logger, metrics); err != nil {
		return err
	}

	logger.Info("edgechat starting", "version", params.Version, "config", cfgPath)
	return application.Run()
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/edgechat/edgechat.yaml →
// ~/.config/edgechat/edgechat.yaml → ./edgechat.yaml
func ResolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "edgechat", "edgechat.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "edgechat", "edgechat.yaml"))
	}

	candidates = append(candidates, "edgechat.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

// DefaultDataDir returns the default persistent data directory.
// Uses $XDG_DATA_HOME/edgechat if set, otherwise ~/.local/share/edgechat
// per the XDG spec.
func DefaultDataDir() string {
	if dir, ok := os.LookupEnv("XDG_DATA_HOME"); ok {
		return filepath.Join(dir, "edgechat")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "edgechat")
}
