package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/iksnae/aiwr/internal"
)

func TestModelsCommand(t *testing.T) {
	testEnv(t)

	res := runCLI(t, "models")
	if res.err != nil {
		t.Fatalf("models error = %v", res.err)
	}
	for _, want := range []string{
		"Claude models:",
		"Codex models:",
		"Gemini models:",
		"Opencode models:",
		"  Alias        Default   Model ID                       Extra args",
		"  opus         ✓         opus                           -",
		"  flash                  gemini-3-flash                 -",
	} {
		if !strings.Contains(res.stdout, want+"\n") {
			t.Errorf("models output missing %q:\n%s", want, res.stdout)
		}
	}
	if strings.HasSuffix(res.stdout, "\n\n") {
		t.Error("models output ends with a blank line")
	}
}

func TestModelsCommand_OneAgent(t *testing.T) {
	testEnv(t)

	res := runCLI(t, "models", "codex")
	if res.err != nil {
		t.Fatalf("models error = %v", res.err)
	}
	if !strings.HasPrefix(res.stdout, "Codex models:\n") || strings.Contains(res.stdout, "Claude") {
		t.Errorf("models codex output =\n%s", res.stdout)
	}

	res = runCLI(t, "models", "nope")
	var unknown *internal.UnknownAgentError
	if !errors.As(res.err, &unknown) {
		t.Errorf("models nope error = %v", res.err)
	}
}
