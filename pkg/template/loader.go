package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a template file.
type Format int

const (
	// FormatJSON is JSON, optionally with comments and trailing commas.
	FormatJSON Format = iota
	// FormatYAML is YAML.
	FormatYAML
)

var (
	// ErrNullTemplate ...
	ErrNullTemplate = errors.New("template must not be empty")
	// ErrUnsupportedVersion ...
	ErrUnsupportedVersion = errors.New("template version must be 0")
	// ErrMissingScripts ...
	ErrMissingScripts = errors.New("template must define at least one script")
	// ErrUnknownExtendedScenario ...
	ErrUnknownExtendedScenario = errors.New(
		`If defined, each scenario ID referenced by another scenario's ` +
			`"extends" property must exist.`,
	)
	// ErrUnknownScenarioReference ...
	ErrUnknownScenarioReference = errors.New(
		"Only known scenarios may be referenced by scripts.",
	)
)

// FormatFromPath guesses the format of a template file from its extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses the template file at path.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return Parse(data, FormatFromPath(path))
}

// Parse decodes and validates a template.
func Parse(data []byte, format Format) (*Template, error) {
	if len(strings.TrimSpace(string(data))) <= 0 {
		return nil, ErrNullTemplate
	}

	var jsonData []byte
	switch format {
	case FormatYAML:
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid yaml template: %w", err)
		}
		buf, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("invalid yaml template: %w", err)
		}
		jsonData = buf
	default:
		jsonData = jsonc.ToJSON(data)
	}

	tpl := &Template{}
	if err := json.Unmarshal(jsonData, tpl); err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Validate checks the structural properties of the template that scenario
// generation relies on.
func (t *Template) Validate() error {
	if t.Version != 0 {
		return ErrUnsupportedVersion
	}
	if len(t.Scripts) <= 0 {
		return ErrMissingScripts
	}

	seen := make(map[string]string)
	for entityID, entity := range t.Entities {
		for variableID, variable := range entity.Variables {
			switch variable.Type {
			case VariableKey, VariableHdKey, VariableWalletData, VariableAddressData:
			default:
				return fmt.Errorf(
					"variable %q of entity %q has unknown type %q",
					variableID, entityID, variable.Type,
				)
			}
			if owner, ok := seen[variableID]; ok {
				return fmt.Errorf(
					"variable %q is owned by both entity %q and entity %q",
					variableID, owner, entityID,
				)
			}
			seen[variableID] = entityID
		}
	}

	for scriptID, script := range t.Scripts {
		if !script.IsUnlocking() {
			continue
		}
		if _, ok := t.Scripts[script.Unlocks]; !ok {
			return fmt.Errorf(
				"script %q unlocks %q, which is not defined in this template",
				scriptID, script.Unlocks,
			)
		}
	}

	unknownExtended := make([]string, 0)
	for _, def := range t.Scenarios {
		if def.Extends == "" {
			continue
		}
		if _, ok := t.Scenarios[def.Extends]; !ok {
			unknownExtended = append(unknownExtended, def.Extends)
		}
	}
	if len(unknownExtended) > 0 {
		return fmt.Errorf(
			"%w Unknown scenario IDs: %s.",
			ErrUnknownExtendedScenario, listIDs(unknownExtended),
		)
	}

	unknownReferenced := make([]string, 0)
	for _, script := range t.Scripts {
		referenced := make([]string, 0)
		if script.Estimate != "" {
			referenced = append(referenced, script.Estimate)
		}
		referenced = append(referenced, script.Fails...)
		referenced = append(referenced, script.Invalid...)
		referenced = append(referenced, script.Passes...)
		for _, id := range referenced {
			if _, ok := t.Scenarios[id]; !ok {
				unknownReferenced = append(unknownReferenced, id)
			}
		}
	}
	if len(unknownReferenced) > 0 {
		return fmt.Errorf(
			"%w The following scenario IDs are not provided in this template: %s.",
			ErrUnknownScenarioReference, listIDs(unknownReferenced),
		)
	}
	return nil
}

// listIDs quotes, deduplicates and sorts ids.
func listIDs(ids []string) string {
	unique := make(map[string]struct{}, len(ids))
	quoted := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := unique[id]; ok {
			continue
		}
		unique[id] = struct{}{}
		quoted = append(quoted, fmt.Sprintf("%q", id))
	}
	sort.Strings(quoted)
	return strings.Join(quoted, ", ")
}
