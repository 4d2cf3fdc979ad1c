// Package agent describes the supported AI coding-assistant CLIs: how to
// invoke each one, and how to read the JSON events it prints.
package agent

import (
	"strings"

	"github.com/iksnae/aiwr/internal"
	"github.com/tidwall/gjson"
)

// Agent is one supported external tool. Every method that takes an event
// treats missing or mistyped fields as absent and returns the zero value.
type Agent interface {
	Name() string
	// Command is the executable looked up on PATH
	Command() string
	ResumeFlag() string
	SessionIDPath() string
	DefaultModel() string
	Models() Catalog

	// BuildCommand returns argv for a run. A non-empty sessionID asks the
	// tool to continue its own session.
	BuildCommand(prompt string, extraArgs []string, sessionID string) []string
	// Model returns the --model value from extraArgs, or the default model
	Model(extraArgs []string) string

	// ParseLine classifies one output line; false means noise
	ParseLine(line string) (internal.Event, bool)
	ExtractSessionID(ev internal.Event) string
	ExtractResult(ev internal.Event) string
	IsFinal(ev internal.Event) bool
	ExtractPrompt(ev internal.Event) string
	ExtractStatus(ev internal.Event) string
	// ShouldResetResult reports whether the accumulated result is cleared
	// before this event's result is added
	ShouldResetResult(ev internal.Event) bool
}

// Descriptor holds the static, per-tool settings shared by all variants
type Descriptor struct {
	name          string
	command       string
	resumeFlag    string
	sessionIDPath string
	defaultModel  string
	catalog       Catalog
}

func (d *Descriptor) Name() string          { return d.name }
func (d *Descriptor) Command() string       { return d.command }
func (d *Descriptor) ResumeFlag() string    { return d.resumeFlag }
func (d *Descriptor) SessionIDPath() string { return d.sessionIDPath }
func (d *Descriptor) DefaultModel() string  { return d.defaultModel }
func (d *Descriptor) Models() Catalog       { return d.catalog }

// Model returns the value following --model in extraArgs, or the default
func (d *Descriptor) Model(extraArgs []string) string {
	if model, ok := modelFlag(extraArgs); ok {
		return model
	}
	return d.defaultModel
}

// ParseLine accepts only lines that start with '{' and decode as a JSON object
func (d *Descriptor) ParseLine(line string) (internal.Event, bool) {
	return ParseLine(line)
}

// ExtractSessionID evaluates the descriptor's "$.a.b" path against the event
func (d *Descriptor) ExtractSessionID(ev internal.Event) string {
	return extractByPath(ev, d.sessionIDPath)
}

// ParseLine is the shared line classifier. Undecodable lines are dropped,
// never reported: adapters interleave plain diagnostics with their events.
func ParseLine(line string) (internal.Event, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return nil, false
	}
	ev, err := internal.DecodeEvent([]byte(line))
	if err != nil {
		return nil, false
	}
	return ev, true
}

// extractByPath resolves a JSONPath-like "$.field.subfield" expression.
// Only string values count; anything else is absent.
func extractByPath(ev internal.Event, path string) string {
	if ev == nil || !strings.HasPrefix(path, "$.") {
		return ""
	}
	data, err := ev.Encode()
	if err != nil {
		return ""
	}
	res := gjson.GetBytes(data, path[2:])
	if res.Type != gjson.String {
		return ""
	}
	return res.String()
}

func modelFlag(args []string) (string, bool) {
	for i, arg := range args {
		if arg == "--model" {
			if i+1 < len(args) {
				return args[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

func hasModelFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--model" {
			return true
		}
	}
	return false
}

// resetOnResult is the common accumulation rule: every new result replaces the last
func resetOnResult(a Agent, ev internal.Event) bool {
	return a.ExtractResult(ev) != ""
}
