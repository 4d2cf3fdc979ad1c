package agent

import (
	"testing"

	"github.com/iksnae/aiwr/testutil"
)

func feedLines(t *testing.T, name string, lines ...string) string {
	t.Helper()
	a := mustGet(t, name)
	acc := NewAccumulator(a)
	for _, line := range lines {
		ev, ok := a.ParseLine(line)
		if !ok {
			t.Fatalf("ParseLine(%q) failed", line)
		}
		acc.Feed(ev)
	}
	return acc.Result()
}

func TestAccumulator_DefaultPolicyReplaces(t *testing.T) {
	got := feedLines(t, "opencode",
		`{"type":"text","part":{"text":"first"}}`,
		`{"type":"text","part":{"text":"second"}}`,
	)
	if got != "second" {
		t.Errorf("Result() = %q, want second", got)
	}
}

func TestAccumulator_NonResultEventsKeepResult(t *testing.T) {
	got := feedLines(t, "codex",
		`{"type":"item.completed","item":{"text":"answer"}}`,
		`{"type":"turn.completed"}`,
	)
	if got != "answer" {
		t.Errorf("Result() = %q, want answer", got)
	}
}

func TestAccumulator_GeminiConcatenatesChunks(t *testing.T) {
	got := feedLines(t, "gemini",
		`{"type":"message","role":"assistant","content":"a"}`,
		`{"type":"message","role":"assistant","content":"b"}`,
		`{"type":"message","role":"assistant","content":"c"}`,
	)
	if got != "abc" {
		t.Errorf("Result() = %q, want abc", got)
	}
}

func TestAccumulator_GeminiResetsOnTools(t *testing.T) {
	got := feedLines(t, "gemini",
		`{"type":"message","role":"assistant","content":"before "}`,
		`{"type":"tool_use","name":"read"}`,
		`{"type":"tool_result","output":"x"}`,
		`{"type":"message","role":"assistant","content":"after"}`,
		`{"type":"result","status":"success"}`,
	)
	if got != "after" {
		t.Errorf("Result() = %q, want after", got)
	}
}

func TestAccumulator_FixtureStreams(t *testing.T) {
	tests := []struct {
		agent  string
		stream []string
		want   string
	}{
		{"claude", testutil.ClaudeStream, "Build fixed."},
		{"codex", testutil.CodexStream, "Tests written."},
		{"gemini", testutil.GeminiStream, "Part one. Part two."},
		{"opencode", testutil.OpenCodeStream, "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.agent, func(t *testing.T) {
			a := mustGet(t, tt.agent)
			acc := NewAccumulator(a)
			for _, ev := range parseStream(t, a, tt.stream) {
				acc.Feed(ev)
			}
			if got := acc.Result(); got != tt.want {
				t.Errorf("Result() = %q, want %q", got, tt.want)
			}
		})
	}
}
