// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for edgechat.
package config

import (
	"slices"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Modules maps module IDs to their raw YAML configuration.
	// Keys must match registered module IDs (e.g. "provider.workersai").
	Modules map[string]yaml.Node `yaml:"modules"`

	// Chat configures the conversation engine (window sizes, prompts).
	// It is not a module: the engine is wired programmatically in pkg/app.
	Chat yaml.Node `yaml:"chat,omitempty"`

	// Retention configures the periodic idle-session sweep. Zero value
	// disables the sweep.
	Retention RetentionConfig `yaml:"retention,omitempty"`
}

// RetentionConfig controls the cron-driven session cleanup.
type RetentionConfig struct {
	// MaxIdle is how long a session may stay untouched before it is
	// purged (e.g. "720h"). Empty disables cleanup.
	MaxIdle string `yaml:"max_idle"`

	// Schedule is a cron expression for the sweep. Defaults to every
	// five minutes.
	Schedule string `yaml:"schedule"`
}

// Resolve returns a sorted list of module IDs from the configuration.
// The deterministic order ensures consistent module loading.
func Resolve(cfg *Config) []string {
	ids := make([]string, 0, len(cfg.Modules))
	for id := range cfg.Modules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
