package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/aiwr/testutil"
)

func TestListCommand(t *testing.T) {
	logs := testEnv(t)
	sessionTree(t, logs)

	res := runCLI(t, "list")
	if res.err != nil {
		t.Fatalf("list error = %v", res.err)
	}

	want := strings.Join([]string{
		"Sessions (2026-01-02):",
		`solo  [codex]  [unknown]  "write tests"`,
		"",
		"Sessions (2026-01-01):",
		`r  [claude]  [completed]  "build the feature"`,
		`  └─ c  [opencode]  [unknown]  "review it"`,
		"",
		"",
	}, "\n")
	if res.stdout != want {
		t.Errorf("list output =\n%s\nwant\n%s", res.stdout, want)
	}
}

func TestListCommand_Empty(t *testing.T) {
	testEnv(t)
	res := runCLI(t, "list")
	if res.err != nil {
		t.Fatalf("list error = %v", res.err)
	}
	if res.stdout != "No sessions found.\n" {
		t.Errorf("list output = %q", res.stdout)
	}
}

func TestListCommand_CorruptLog(t *testing.T) {
	logs := testEnv(t)
	testutil.WriteLog(t, filepath.Join(logs, "2026-01-01", "bad.jsonl"), `{"type":"aiwr_start"`)

	if res := runCLI(t, "list"); res.err == nil {
		t.Error("list should fail on a corrupt log")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 50, "short"},
		{strings.Repeat("a", 50), 50, strings.Repeat("a", 50)},
		{strings.Repeat("a", 51), 50, strings.Repeat("a", 47) + "..."},
		{strings.Repeat("é", 60), 50, strings.Repeat("é", 47) + "..."},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
