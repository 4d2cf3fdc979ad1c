package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/testutil"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// testEnv isolates a CLI run: its own log root, no config and no agent override
func testEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	logs := filepath.Join(root, "logs")
	t.Setenv(internal.EnvLogDir, logs)
	t.Setenv(internal.EnvDefaultAgent, "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		internal.SetVerbose(false)
		internal.SetLogOutput(os.Stderr)
	})
	return logs
}

// runCLI executes the root command with fresh flag state
func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	internal.SetLogOutput(&stderr)

	err := rootCmd.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// writeConfig writes a config file and returns its path
func writeConfig(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	testutil.WriteLog(t, path, lines...)
	return path
}

// fakeAgent puts an executable named name on PATH that prints lines
func fakeAgent(t *testing.T, name string, lines []string, code int) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	bin := t.TempDir()
	out := filepath.Join(bin, "stream.txt")
	testutil.WriteLog(t, out, lines...)
	script := "#!/bin/sh\ncat '" + out + "'\nexit " + strconv.Itoa(code) + "\n"
	if err := os.WriteFile(filepath.Join(bin, name), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// sessionTree writes a root session r with child c under bucket 2026-01-01
func sessionTree(t *testing.T, logs string) {
	t.Helper()
	testutil.WriteLog(t, filepath.Join(logs, "2026-01-01", "r", "r.jsonl"),
		`{"agent":"claude","model":"claude-opus-4-6","prompt":"build the feature","type":"aiwr_start"}`,
		`{"session_id":"r","subtype":"init","type":"system"}`,
		`{"result":"Feature built.","session_id":"r","subtype":"success","type":"result"}`,
	)
	testutil.WriteLog(t, filepath.Join(logs, "2026-01-01", "r", "c.jsonl"),
		`{"agent":"opencode","prompt":"review it","type":"aiwr_start"}`,
		`{"parent_id":"r","type":"aiwr_meta"}`,
		`{"part":{"text":"Looks good."},"sessionID":"c","type":"text"}`,
	)
	testutil.WriteLog(t, filepath.Join(logs, "2026-01-02", "solo.jsonl"),
		`{"agent":"codex","prompt":"write tests","type":"aiwr_start"}`,
		`{"thread_id":"solo","type":"thread.started"}`,
	)
}
