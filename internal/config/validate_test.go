package config

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValidate_VersionRequired(t *testing.T) {
	cfg := &Config{Modules: map[string]yaml.Node{}}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for empty config")
	}
	if !strings.Contains(err.Error(), "version") {
		t.Errorf("error should mention version, got: %v", err)
	}
}

func TestValidate_UnsupportedVersion(t *testing.T) {
	cfg := &Config{
		Version: "2",
		Modules: map[string]yaml.Node{},
	}
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "unsupported version") {
		t.Errorf("expected unsupported version error, got: %v", err)
	}
}

func TestValidate_UnknownModule(t *testing.T) {
	cfg := &Config{
		Version: "1",
		Modules: map[string]yaml.Node{
			"does.not.exist": {},
		},
	}
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "does.not.exist") {
		t.Errorf("expected unknown module error, got: %v", err)
	}
}

func TestValidate_BadRetentionDuration(t *testing.T) {
	cfg := &Config{
		Version:   "1",
		Modules:   map[string]yaml.Node{"does.not.exist": {}},
		Retention: RetentionConfig{MaxIdle: "not-a-duration"},
	}
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "max_idle") {
		t.Errorf("expected retention duration error, got: %v", err)
	}
}
