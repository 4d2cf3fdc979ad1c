package agent

import "github.com/iksnae/aiwr/internal"

// Claude drives Claude Code in --print mode with stream-json output
type Claude struct {
	Descriptor
}

func newClaude() *Claude {
	return &Claude{Descriptor{
		name:          "claude",
		command:       "claude",
		resumeFlag:    "--resume",
		sessionIDPath: "$.session_id",
		defaultModel:  "opus",
		catalog: Catalog{
			{Alias: "opus", ID: "opus", Default: true},
			{Alias: "sonnet", ID: "sonnet"},
			{Alias: "haiku", ID: "haiku"},
		},
	}}
}

func (c *Claude) BuildCommand(prompt string, extraArgs []string, sessionID string) []string {
	cmd := []string{c.command, "--verbose", "--output-format", "stream-json"}
	if sessionID != "" {
		cmd = append(cmd, c.resumeFlag, sessionID)
	}
	cmd = append(cmd, "--print", prompt)
	if !hasModelFlag(extraArgs) {
		cmd = append(cmd, "--model", c.defaultModel)
	}
	return append(cmd, extraArgs...)
}

// ExtractResult reads "result" from the type=result event
func (c *Claude) ExtractResult(ev internal.Event) string {
	if ev.Type() == "result" {
		return ev.String("result")
	}
	return ""
}

func (c *Claude) IsFinal(ev internal.Event) bool {
	return ev.Type() == "result"
}

func (c *Claude) ExtractPrompt(ev internal.Event) string {
	if ev.Type() == "user" || (ev.Type() == "message" && ev.String("role") == "user") {
		if content := ev.String("content"); content != "" {
			return content
		}
		return ev.String("message")
	}
	return ""
}

func (c *Claude) ExtractStatus(ev internal.Event) string {
	if ev.Type() == "result" {
		return "completed"
	}
	return ""
}

func (c *Claude) ShouldResetResult(ev internal.Event) bool {
	return resetOnResult(c, ev)
}
