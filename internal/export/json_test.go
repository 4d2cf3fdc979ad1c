package export

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/iksnae/aiwr/internal"
)

func TestJSONExporter_Export(t *testing.T) {
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
			name: "child session with html in content",
			session: &internal.Session{
				ID:       "test3",
				Agent:    "gemini",
				Source:   "/logs/p/test3.jsonl",
				Messages: []internal.Message{{Actor: "assistant", Content: "<div>&</div>"}},
				Metadata: internal.Metadata{ParentID: "p", MessageCount: 1, EventCount: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONExporter{}

			if err := exporter.Export(tt.session, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			output := buf.String()
			var got internal.Session
			if err := json.Unmarshal([]byte(output), &got); err != nil {
				t.Fatalf("Output is not valid JSON: %v\nOutput: %s", err, output)
			}
			if got.ID != tt.session.ID || !reflect.DeepEqual(got.Metadata, tt.session.Metadata) {
				t.Errorf("decoded session = %+v, want %+v", got, *tt.session)
			}
			if !strings.Contains(output, "\n  ") {
				t.Errorf("Output should be pretty-printed with indentation")
			}
			if strings.Contains(output, `\u003c`) {
				t.Errorf("Output should not escape HTML: %s", output)
			}
		})
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	exporter := &JSONExporter{}
	if got := exporter.Extension(); got != "json" {
		t.Errorf("JSONExporter.Extension() = %v, want json", got)
	}
}
