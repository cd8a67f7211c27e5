package gateway

import (
	"testing"

	"gopkg.in/yaml.v3"
)

// yamlNode parses a YAML snippet into the node form Configure receives.
func yamlNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if len(doc.Content) == 0 {
		return &doc
	}
	return doc.Content[0]
}
