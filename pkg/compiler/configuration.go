package compiler

import (
	"hash"

	"github.com/tdex-network/template-scenarios/pkg/template"
)

// HashFunc returns a new hash.Hash, e.g. sha256.New.
type HashFunc func() hash.Hash

// Configuration is the compiler-facing view of a wallet template.
type Configuration struct {
	// EntityOwnership maps variable ids to the id of their owning entity.
	EntityOwnership map[string]string
	// Variables maps variable ids to their definition.
	Variables map[string]template.Variable
	// Scenarios maps scenario ids to their definition.
	Scenarios map[string]template.ScenarioDefinition
	// Scripts maps script ids to their source.
	Scripts map[string]string
	// UnlockingScripts maps unlocking script ids to the id of the locking
	// script they unlock.
	UnlockingScripts map[string]string
	// LockingScriptTypes maps locking script ids to their locking type.
	LockingScriptTypes map[string]string

	// Sha256 and Sha512 are required to derive default HD keys.
	Sha256 HashFunc
	Sha512 HashFunc
}

// NewConfiguration flattens a template into a Configuration. Hash functions
// are left unset.
func NewConfiguration(tpl *template.Template) *Configuration {
	cfg := &Configuration{
		EntityOwnership:    make(map[string]string),
		Variables:          make(map[string]template.Variable),
		Scenarios:          tpl.Scenarios,
		Scripts:            make(map[string]string, len(tpl.Scripts)),
		UnlockingScripts:   make(map[string]string),
		LockingScriptTypes: make(map[string]string),
	}

	for entityID, entity := range tpl.Entities {
		for variableID, variable := range entity.Variables {
			cfg.EntityOwnership[variableID] = entityID
			cfg.Variables[variableID] = variable
		}
	}

	for scriptID, script := range tpl.Scripts {
		cfg.Scripts[scriptID] = script.Script
		if script.IsUnlocking() {
			cfg.UnlockingScripts[scriptID] = script.Unlocks
		}
		if script.LockingType != "" {
			cfg.LockingScriptTypes[scriptID] = script.LockingType
		}
	}
	return cfg
}

// WithScripts returns a shallow copy of c whose script set also includes
// scripts. Entries of scripts take precedence over those of c; c is left
// untouched.
func (c *Configuration) WithScripts(scripts map[string]string) *Configuration {
	merged := make(map[string]string, len(c.Scripts)+len(scripts))
	for id, script := range c.Scripts {
		merged[id] = script
	}
	for id, script := range scripts {
		merged[id] = script
	}

	cfg := *c
	cfg.Scripts = merged
	return &cfg
}

// HasHdKeys returns whether any variable is of type HdKey.
func (c *Configuration) HasHdKeys() bool {
	for _, variable := range c.Variables {
		if variable.Type == template.VariableHdKey {
			return true
		}
	}
	return false
}
