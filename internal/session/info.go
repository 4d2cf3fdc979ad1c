package session

import (
	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/internal/agent"
)

// Info is what a session log says about its run
type Info struct {
	ID       string
	Agent    string
	Model    string
	ParentID string
	Prompt   string
	Status   string
	Result   string
	Path     string
	Events   []internal.Event
}

// Extract loads a log and derives the session's agent, prompt, status and
// result using that agent's rules
func Extract(path string) (*Info, error) {
	events, err := Load(path)
	if err != nil {
		return nil, err
	}
	info := Summarize(events)
	info.ID = stem(path)
	info.Path = path
	return info, nil
}

// Summarize derives session info from events already in memory. The first
// prompt wins, the last status wins, and the result follows the agent's
// accumulation rule across the whole stream.
func Summarize(events []internal.Event) *Info {
	info := &Info{Agent: agent.Detect(events), Events: events}

	a, err := agent.Get(info.Agent)
	if err != nil {
		return info
	}
	acc := agent.NewAccumulator(a)

	var startPrompt string
	for _, ev := range events {
		switch ev.Type() {
		case internal.EventTypeMeta:
			if info.ParentID == "" {
				info.ParentID = ev.ParentID()
			}
			continue
		case internal.EventTypeStart:
			if startPrompt == "" {
				startPrompt = ev.String("prompt")
			}
			if info.Model == "" {
				info.Model = ev.String("model")
			}
			continue
		}

		if info.Prompt == "" {
			info.Prompt = a.ExtractPrompt(ev)
		}
		if status := a.ExtractStatus(ev); status != "" {
			info.Status = status
		}
		acc.Feed(ev)
	}

	// tools that never echo the prompt still have it in the start marker
	if info.Prompt == "" {
		info.Prompt = startPrompt
	}
	info.Result = acc.Result()
	return info
}
