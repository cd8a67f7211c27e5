package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/flemzord/edgechat/internal/core"
)

// Validate checks the structural validity of a Config: the version field,
// that at least one module is configured, and that every referenced
// module ID exists in the registry.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	if len(cfg.Modules) == 0 {
		errs = append(errs, errors.New("config: at least one module must be configured"))
	}

	for id := range cfg.Modules {
		if _, ok := core.GetModule(id); !ok {
			errs = append(errs, fmt.Errorf("config: unknown module %q", id))
		}
	}

	if cfg.Retention.MaxIdle != "" {
		if _, err := time.ParseDuration(cfg.Retention.MaxIdle); err != nil {
			errs = append(errs, fmt.Errorf("config: retention.max_idle: %w", err))
		}
	}

	return errors.Join(errs...)
}
