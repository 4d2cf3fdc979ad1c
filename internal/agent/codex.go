package agent

import "github.com/iksnae/aiwr/internal"

// Codex drives "codex exec --json". Resume is a positional subcommand.
type Codex struct {
	Descriptor
}

func newCodex() *Codex {
	return &Codex{Descriptor{
		name:          "codex",
		command:       "codex",
		resumeFlag:    "resume",
		sessionIDPath: "$.thread_id",
		defaultModel:  "gpt-5.2",
		catalog: Catalog{
			{Alias: "gpt52codex", ID: "gpt-5.2-codex", Default: true},
			{Alias: "gpt52", ID: "gpt-5.2"},
		},
	}}
}

func (c *Codex) BuildCommand(prompt string, extraArgs []string, sessionID string) []string {
	cmd := []string{c.command, "exec", prompt, "--json", "--dangerously-bypass-approvals-and-sandbox"}
	if !hasModelFlag(extraArgs) {
		cmd = append(cmd, "--model", c.defaultModel)
	}
	if sessionID != "" {
		cmd = append(cmd, c.resumeFlag, sessionID)
	}
	return append(cmd, extraArgs...)
}

// ExtractResult reads item.text from item.completed events
func (c *Codex) ExtractResult(ev internal.Event) string {
	if ev.Type() == "item.completed" {
		return ev.Map("item").String("text")
	}
	return ""
}

func (c *Codex) IsFinal(ev internal.Event) bool {
	return ev.Type() == "turn.completed"
}

func (c *Codex) ExtractPrompt(ev internal.Event) string {
	if ev.Type() == "user.input" {
		return ev.String("text")
	}
	return ""
}

func (c *Codex) ExtractStatus(ev internal.Event) string {
	if ev.Type() == "turn.completed" {
		return "completed"
	}
	return ""
}

func (c *Codex) ShouldResetResult(ev internal.Event) bool {
	return resetOnResult(c, ev)
}
