package scenario

import (
	"strings"

	"github.com/tdex-network/template-scenarios/pkg/compiler"
	"github.com/tdex-network/template-scenarios/pkg/template"
)

// ExtendedDefinition is a scenario definition merged with all its ancestors
// down to the default scenario, hence with every field defined.
type ExtendedDefinition struct {
	Data          template.ScenarioData
	SourceOutputs []template.ScenarioOutput
	Transaction   ExtendedTransaction
}

// ExtendedTransaction is the fully defined transaction of an
// ExtendedDefinition.
type ExtendedTransaction struct {
	Inputs   []template.ScenarioInput
	Locktime uint32
	Outputs  []template.ScenarioOutput
	Version  uint32
}

// Definition returns e as a plain scenario definition.
func (e *ExtendedDefinition) Definition() template.ScenarioDefinition {
	data := e.Data
	locktime, version := e.Transaction.Locktime, e.Transaction.Version
	return template.ScenarioDefinition{
		Data:          &data,
		SourceOutputs: e.SourceOutputs,
		Transaction: &template.ScenarioTransaction{
			Inputs:   e.Transaction.Inputs,
			Locktime: &locktime,
			Outputs:  e.Transaction.Outputs,
			Version:  &version,
		},
	}
}

// Extend returns a new definition: e overridden by child as per
// MergeDefinitions. e is left untouched.
func (e *ExtendedDefinition) Extend(child template.ScenarioDefinition) *ExtendedDefinition {
	merged := MergeDefinitions(e.Definition(), child)

	// every field is defined by the parent, so it's also defined in merged
	extended := &ExtendedDefinition{
		Data:          *merged.Data,
		SourceOutputs: merged.SourceOutputs,
		Transaction: ExtendedTransaction{
			Inputs:   merged.Transaction.Inputs,
			Locktime: *merged.Transaction.Locktime,
			Outputs:  merged.Transaction.Outputs,
			Version:  *merged.Transaction.Version,
		},
	}
	if extended.SourceOutputs == nil {
		extended.SourceOutputs = []template.ScenarioOutput{}
	}
	if extended.Transaction.Inputs == nil {
		extended.Transaction.Inputs = []template.ScenarioInput{}
	}
	if extended.Transaction.Outputs == nil {
		extended.Transaction.Outputs = []template.ScenarioOutput{}
	}
	return extended
}

// GenerateExtended resolves the extends chain of scenarioID down to the
// default scenario of cfg. An empty scenarioID returns the default scenario.
func GenerateExtended(
	cfg *compiler.Configuration, scenarioID string,
) (*ExtendedDefinition, error) {
	if cfg == nil {
		return nil, ErrNullConfiguration
	}
	return generateExtended(cfg, scenarioID, nil)
}

// generateExtended walks the chain; path holds the scenario ids visited so
// far and is used to detect cycles.
func generateExtended(
	cfg *compiler.Configuration, scenarioID string, path []string,
) (*ExtendedDefinition, error) {
	if scenarioID == "" {
		return GenerateDefaultDefinition(cfg)
	}

	for _, id := range path {
		if id == scenarioID {
			return nil, newError(
				ErrScenarioCycle,
				"Cannot extend scenario %q: scenario %q extends itself. "+
					"Scenario inheritance path: %s",
				scenarioID, scenarioID, strings.Join(path, " → "),
			)
		}
	}

	definition, ok := cfg.Scenarios[scenarioID]
	if !ok {
		return nil, newError(
			ErrUnknownScenario,
			"Cannot extend scenario %q: a scenario with the identifier %s is "+
				"not included in this compiler configuration.",
			scenarioID, scenarioID,
		)
	}

	var (
		parent *ExtendedDefinition
		err    error
	)
	if definition.Extends == "" {
		parent, err = GenerateDefaultDefinition(cfg)
	} else {
		nextPath := make([]string, len(path), len(path)+1)
		copy(nextPath, path)
		parent, err = generateExtended(
			cfg, definition.Extends, append(nextPath, scenarioID),
		)
	}
	if err != nil {
		return nil, err
	}

	return parent.Extend(definition), nil
}
