package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/aiwr/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		session *internal.Session
	}{
		{
			name:    "basic session",
			session: internal.CreateTestSession("test1"),
		},
		{
			name:    "empty session",
			session: internal.CreateTestSessionWithMessages("test2", []internal.Message{}),
		},
		{
			name: "session with children",
			session: &internal.Session{
				ID:       "test3",
				Agent:    "opencode",
				Source:   "/logs/test3/test3.jsonl",
				Messages: []internal.Message{{Actor: "user", Content: "multi\nline"}},
				Metadata: internal.Metadata{Children: []string{"a", "b"}, MessageCount: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &YAMLExporter{}

			if err := exporter.Export(tt.session, &buf); err != nil {
				t.Fatalf("YAMLExporter.Export() error = %v", err)
			}

			output := buf.String()
			var got internal.Session
			if err := yaml.Unmarshal([]byte(output), &got); err != nil {
				t.Fatalf("Output is not valid YAML: %v\nOutput: %s", err, output)
			}
			if got.ID != tt.session.ID || got.Agent != tt.session.Agent {
				t.Errorf("decoded %s/%s, want %s/%s", got.ID, got.Agent, tt.session.ID, tt.session.Agent)
			}
			if len(got.Messages) != len(tt.session.Messages) {
				t.Errorf("decoded %d messages, want %d", len(got.Messages), len(tt.session.Messages))
			}
			if !strings.Contains(output, "id: "+tt.session.ID) {
				t.Errorf("Output should contain session ID %q", tt.session.ID)
			}
		})
	}
}

func TestYAMLExporter_Extension(t *testing.T) {
	exporter := &YAMLExporter{}
	if got := exporter.Extension(); got != "yaml" {
		t.Errorf("YAMLExporter.Extension() = %v, want yaml", got)
	}
}
