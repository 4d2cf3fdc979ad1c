package agent

import "github.com/iksnae/aiwr/internal"

// registry is fixed at startup; adding a tool means adding one entry here
var registry = []Agent{
	newClaude(),
	newGemini(),
	newCodex(),
	newOpenCode(),
}

// Get returns the agent registered under name
func Get(name string) (Agent, error) {
	for _, a := range registry {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, &internal.UnknownAgentError{Name: name, Available: Names()}
}

// Names lists the registered agent names in registration order
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, a := range registry {
		names = append(names, a.Name())
	}
	return names
}

// All returns every registered agent
func All() []Agent {
	return append([]Agent{}, registry...)
}
