package agent

import (
	"strings"

	"github.com/iksnae/aiwr/internal"
)

// Accumulator folds result fragments from a stream of events using the
// agent's reset rule
type Accumulator struct {
	agent  Agent
	result strings.Builder
}

// NewAccumulator creates an empty accumulator for the agent
func NewAccumulator(a Agent) *Accumulator {
	return &Accumulator{agent: a}
}

// Feed applies one event
func (acc *Accumulator) Feed(ev internal.Event) {
	if acc.agent.ShouldResetResult(ev) {
		acc.result.Reset()
	}
	if r := acc.agent.ExtractResult(ev); r != "" {
		acc.result.WriteString(r)
	}
}

// Result returns the accumulated text
func (acc *Accumulator) Result() string {
	return acc.result.String()
}
