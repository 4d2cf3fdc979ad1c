package agent

import "github.com/iksnae/aiwr/internal"

// Detect returns the name of the agent that produced a session log.
// The start marker's agent tag wins. Logs without one fall back to
// matching event shapes, which can misclassify tools that share field
// names (opencode logs look like claude).
func Detect(events []internal.Event) string {
	for _, ev := range events {
		if ev.Type() != internal.EventTypeStart {
			continue
		}
		if name := ev.String("agent"); name != "" {
			if _, err := Get(name); err == nil {
				return name
			}
		}
	}

	for _, ev := range events {
		switch {
		case ev.Type() == "init" && ev.Has("session_id"):
			return "gemini"
		case ev.Type() == "thread.started":
			return "codex"
		case ev.Has("session_id") && !ev.IsLink():
			return "claude"
		}
	}
	return internal.DefaultAgent
}
