package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/testutil"
)

func TestResumeCommand(t *testing.T) {
	logs := testEnv(t)
	sessionTree(t, logs)
	fakeAgent(t, "claude", []string{`{"type":"result","result":"continued","session_id":"r2"}`}, 0)

	res := runCLI(t, "resume", "r", "now add docs")
	if res.err != nil {
		t.Fatalf("resume error = %v", res.err)
	}
	for _, want := range []string{
		`"prompt":"[PREVIOUS SESSION CONTEXT]\nSession ID: r\nAgent: claude\nOriginal prompt: build the feature\nStatus: completed\n`,
		`Please continue from where you left off.\nUser addition: now add docs"`,
		`{"result":"continued","agent":"claude"}`,
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestResumeCommand_UsesSessionAgent(t *testing.T) {
	logs := testEnv(t)
	sessionTree(t, logs)
	fakeAgent(t, "opencode", testutil.OpenCodeStream, 0)

	res := runCLI(t, "resume", "c", "--debug", "--", "--variant", "high")
	if res.err != nil {
		t.Fatalf("resume error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "[DEBUG] opencode run --format json --variant high '[PREVIOUS SESSION CONTEXT]") {
		t.Errorf("resume did not run opencode with the extra args:\n%s", res.stdout)
	}
}

func TestResumeTreeCommand(t *testing.T) {
	logs := testEnv(t)
	sessionTree(t, logs)
	fakeAgent(t, "claude", nil, 0)

	res := runCLI(t, "resume-tree", "r", "--max-lines", "2")
	if res.err != nil {
		t.Fatalf("resume-tree error = %v", res.err)
	}
	for _, want := range []string{
		`"prompt":"[PREVIOUS SESSION TREE]\n\n== Root Session: r (claude) ==\nPrompt: build the feature\nStatus: completed\nOutput:\n`,
		`[1 lines omitted]`,
		`\n\n  == Child Session: c (opencode) ==\n  Prompt: review it\n`,
		`Please continue the root session, considering all child session results."`,
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestResumeCommand_NotFound(t *testing.T) {
	testEnv(t)

	for _, name := range []string{"resume", "resume-tree"} {
		res := runCLI(t, name, "missing")
		var notFound *internal.SessionNotFoundError
		if !errors.As(res.err, &notFound) || notFound.SessionID != "missing" {
			t.Errorf("%s error = %v, want SessionNotFoundError", name, res.err)
		}
	}
}
