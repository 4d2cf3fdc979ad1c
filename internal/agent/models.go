package agent

import (
	"strings"

	"github.com/iksnae/aiwr/internal"
)

// Model is one entry of an agent's model catalog
type Model struct {
	Alias     string
	ID        string
	Default   bool
	ExtraArgs []string
}

// Catalog is an ordered list of model aliases for one agent
type Catalog []Model

// Resolve looks up an alias. The returned ExtraArgs is a copy.
func (c Catalog) Resolve(agentName, alias string) (Model, error) {
	for _, m := range c {
		if m.Alias == alias {
			return m.clone(), nil
		}
	}
	return Model{}, &internal.UnknownModelError{Agent: agentName, Alias: alias, Available: c.Aliases()}
}

// Default returns the entry flagged as default
func (c Catalog) Default(agentName string) (Model, error) {
	for _, m := range c {
		if m.Default {
			return m.clone(), nil
		}
	}
	return Model{}, &internal.NoDefaultModelError{Agent: agentName}
}

// Aliases lists the catalog's aliases in order
func (c Catalog) Aliases() []string {
	aliases := make([]string, 0, len(c))
	for _, m := range c {
		aliases = append(aliases, m.Alias)
	}
	return aliases
}

func (m Model) clone() Model {
	m.ExtraArgs = append([]string{}, m.ExtraArgs...)
	return m
}

// ResolveModel resolves a model alias for a registered agent
func ResolveModel(agentName, alias string) (Model, error) {
	a, err := Get(agentName)
	if err != nil {
		return Model{}, err
	}
	return a.Models().Resolve(agentName, alias)
}

// DefaultModel returns the default catalog entry for a registered agent
func DefaultModel(agentName string) (Model, error) {
	a, err := Get(agentName)
	if err != nil {
		return Model{}, err
	}
	return a.Models().Default(agentName)
}

// MergeExtraArgs combines a model's extra args with the user's. A flag the
// user passes drops the model's copy of that flag and its value; user args
// always come last.
func MergeExtraArgs(modelArgs, cliArgs []string) []string {
	if len(modelArgs) == 0 {
		return cliArgs
	}
	if len(cliArgs) == 0 {
		return modelArgs
	}

	cliFlags := make(map[string]bool)
	for _, arg := range cliArgs {
		if strings.HasPrefix(arg, "-") {
			cliFlags[arg] = true
		}
	}

	merged := make([]string, 0, len(modelArgs)+len(cliArgs))
	for i := 0; i < len(modelArgs); i++ {
		arg := modelArgs[i]
		if strings.HasPrefix(arg, "-") && cliFlags[arg] {
			if i+1 < len(modelArgs) && !strings.HasPrefix(modelArgs[i+1], "-") {
				i++
			}
			continue
		}
		merged = append(merged, arg)
	}
	return append(merged, cliArgs...)
}
