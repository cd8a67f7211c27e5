package main

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRenderConfig_IsValidYAML(t *testing.T) {
	t.Parallel()

	out := renderConfig("127.0.0.1:9090", "acct123", "@cf/meta/llama-3.3-70b-instruct-fp8-fast", true, "720h")

	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("generated config does not parse: %v\n%s", err, out)
	}
	if parsed["version"] != "1" {
		t.Errorf("version = %v, want \"1\"", parsed["version"])
	}
	for _, want := range []string{"gateway.http", "provider.workersai", "memory.sqlite", "max_idle"} {
		if !strings.Contains(out, want) {
			t.Errorf("generated config missing %q:\n%s", want, out)
		}
	}
}

func TestRenderConfig_Minimal(t *testing.T) {
	t.Parallel()

	out := renderConfig("127.0.0.1:8080", "acct", "m", false, "")

	if strings.Contains(out, "memory.sqlite") {
		t.Error("sqlite section present without persistence")
	}
	if strings.Contains(out, "retention") {
		t.Error("retention section present without a window")
	}
}
