package agent

import "github.com/iksnae/aiwr/internal"

// OpenCode drives "opencode run --format json". It never echoes the prompt.
type OpenCode struct {
	Descriptor
}

func newOpenCode() *OpenCode {
	return &OpenCode{Descriptor{
		name:          "opencode",
		command:       "opencode",
		resumeFlag:    "--session",
		sessionIDPath: "$.sessionID",
		catalog: Catalog{
			{Alias: "glm", ID: "cerebras/zai-glm-4.6", Default: true},
		},
	}}
}

func (o *OpenCode) BuildCommand(prompt string, extraArgs []string, sessionID string) []string {
	cmd := []string{o.command, "run", "--format", "json"}
	if sessionID != "" {
		cmd = append(cmd, o.resumeFlag, sessionID)
	}
	cmd = append(cmd, extraArgs...)
	return append(cmd, prompt)
}

// ExtractResult reads part.text from type=text events
func (o *OpenCode) ExtractResult(ev internal.Event) string {
	if ev.Type() == "text" {
		return ev.Map("part").String("text")
	}
	return ""
}

func (o *OpenCode) IsFinal(ev internal.Event) bool {
	return ev.Type() == "step_finish"
}

func (o *OpenCode) ExtractPrompt(ev internal.Event) string {
	return ""
}

// ExtractStatus maps reason "stop" to "completed" and passes other reasons through
func (o *OpenCode) ExtractStatus(ev internal.Event) string {
	if ev.Type() != "step_finish" {
		return ""
	}
	reason := ev.Map("part").String("reason")
	if reason == "stop" {
		return "completed"
	}
	return reason
}

func (o *OpenCode) ShouldResetResult(ev internal.Event) bool {
	return resetOnResult(o, ev)
}
