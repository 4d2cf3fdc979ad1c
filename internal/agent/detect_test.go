package agent

import (
	"testing"

	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/testutil"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		events []internal.Event
		want   string
	}{
		{
			name:   "empty log defaults to claude",
			events: nil,
			want:   "claude",
		},
		{
			name: "start marker tag wins",
			events: []internal.Event{
				internal.NewStartEvent("p", "opencode", ""),
				{"type": "init", "session_id": "looks-like-gemini"},
			},
			want: "opencode",
		},
		{
			name: "unknown tag falls back to shape",
			events: []internal.Event{
				{"type": internal.EventTypeStart, "agent": "aider"},
				{"type": "thread.started", "thread_id": "t"},
			},
			want: "codex",
		},
		{
			name:   "gemini init",
			events: []internal.Event{{"type": "init", "session_id": "g"}},
			want:   "gemini",
		},
		{
			name:   "claude session_id",
			events: []internal.Event{internal.NewLinkEvent("p"), {"type": "system", "session_id": "c"}},
			want:   "claude",
		},
		{
			name:   "init without session_id is not gemini",
			events: []internal.Event{{"type": "init"}, {"type": "thread.started"}},
			want:   "codex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.events); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetect_LegacyFixtures(t *testing.T) {
	tests := []struct {
		agent  string
		stream []string
		want   string
	}{
		{"claude", testutil.ClaudeStream, "claude"},
		{"codex", testutil.CodexStream, "codex"},
		{"gemini", testutil.GeminiStream, "gemini"},
		// no tag and no distinguishing shape: misread as the default
		{"opencode", testutil.OpenCodeStream, "claude"},
	}

	for _, tt := range tests {
		t.Run(tt.agent, func(t *testing.T) {
			events := parseStream(t, mustGet(t, tt.agent), tt.stream)
			if got := Detect(events); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}
