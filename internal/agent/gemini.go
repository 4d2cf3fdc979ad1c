package agent

import "github.com/iksnae/aiwr/internal"

// Gemini drives the Gemini CLI with stream-json output. Assistant text
// arrives as consecutive message chunks, so results accumulate.
type Gemini struct {
	Descriptor
}

func newGemini() *Gemini {
	return &Gemini{Descriptor{
		name:          "gemini",
		command:       "gemini",
		resumeFlag:    "--resume",
		sessionIDPath: "$.session_id",
		defaultModel:  "gemini-3-pro-preview",
		catalog: Catalog{
			{Alias: "pro", ID: "gemini-3-pro", Default: true},
			{Alias: "flash", ID: "gemini-3-flash"},
		},
	}}
}

func (g *Gemini) BuildCommand(prompt string, extraArgs []string, sessionID string) []string {
	cmd := []string{g.command, "--yolo", "--output-format", "stream-json"}
	if !hasModelFlag(extraArgs) {
		cmd = append(cmd, "--model", g.defaultModel)
	}
	if sessionID != "" {
		cmd = append(cmd, g.resumeFlag, sessionID)
	}
	cmd = append(cmd, prompt)
	return append(cmd, extraArgs...)
}

func (g *Gemini) ExtractResult(ev internal.Event) string {
	if ev.Type() == "message" && ev.String("role") == "assistant" {
		return ev.String("content")
	}
	return ""
}

func (g *Gemini) IsFinal(ev internal.Event) bool {
	return ev.Type() == "result"
}

func (g *Gemini) ExtractPrompt(ev internal.Event) string {
	if ev.Type() == "message" && ev.String("role") == "user" {
		return ev.String("content")
	}
	return ""
}

// ExtractStatus passes the raw status through ("success" or "error")
func (g *Gemini) ExtractStatus(ev internal.Event) string {
	if ev.Type() == "result" {
		return ev.String("status")
	}
	return ""
}

// ShouldResetResult only resets when a tool call interrupts the message flow
func (g *Gemini) ShouldResetResult(ev internal.Event) bool {
	switch ev.Type() {
	case "tool_use", "tool_result":
		return true
	}
	return false
}
