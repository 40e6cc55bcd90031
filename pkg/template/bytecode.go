package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	slotMarker = "slot"
	copyMarker = "copy"
)

var (
	// ErrInvalidBytecodeDefinition ...
	ErrInvalidBytecodeDefinition = errors.New(
		`bytecode must be a hex string, ["slot"] or an object with optional ` +
			`"script" and "overrides" properties`,
	)
	// ErrInvalidScriptReference ...
	ErrInvalidScriptReference = errors.New(
		`"script" must be a script identifier or ["copy"]`,
	)
)

// BytecodeKind tells how a BytecodeDefinition is turned into bytecode.
type BytecodeKind uint8

const (
	// BytecodeCopy compiles the locking or unlocking script under test. This
	// is the zero value, equivalent to the definition {}.
	BytecodeCopy BytecodeKind = iota
	// BytecodeScript compiles the script identified by Script.
	BytecodeScript
	// BytecodeLiteral decodes Hex, no compilation occurs.
	BytecodeLiteral
	// BytecodeSlot marks the script under test (["slot"]).
	BytecodeSlot
)

func (k BytecodeKind) String() string {
	switch k {
	case BytecodeCopy:
		return "copy"
	case BytecodeScript:
		return "script"
	case BytecodeLiteral:
		return "literal"
	case BytecodeSlot:
		return "slot"
	default:
		return fmt.Sprintf("BytecodeKind(%d)", uint8(k))
	}
}

// BytecodeDefinition is the definition of a locking or unlocking bytecode in
// a scenario.
type BytecodeDefinition struct {
	Kind BytecodeKind
	// Hex is set for BytecodeLiteral.
	Hex string
	// Script is set for BytecodeScript.
	Script string
	// Overrides is optionally set for BytecodeScript and BytecodeCopy, and
	// replaces the default overrides of the call site.
	Overrides *ScenarioData
}

// SlotBytecode returns the ["slot"] definition.
func SlotBytecode() *BytecodeDefinition {
	return &BytecodeDefinition{Kind: BytecodeSlot}
}

// LiteralBytecode returns a definition for the given hex-encoded bytecode.
func LiteralBytecode(hex string) *BytecodeDefinition {
	return &BytecodeDefinition{Kind: BytecodeLiteral, Hex: hex}
}

// ScriptBytecode returns a definition compiling scriptID with the given
// (optional) overrides.
func ScriptBytecode(scriptID string, overrides *ScenarioData) *BytecodeDefinition {
	return &BytecodeDefinition{
		Kind:      BytecodeScript,
		Script:    scriptID,
		Overrides: overrides,
	}
}

// CopyBytecode returns a definition compiling the script under test with the
// given (optional) overrides.
func CopyBytecode(overrides *ScenarioData) *BytecodeDefinition {
	return &BytecodeDefinition{Kind: BytecodeCopy, Overrides: overrides}
}

// IsSlot returns whether d is the ["slot"] marker. A nil definition is not.
func (d *BytecodeDefinition) IsSlot() bool {
	return d != nil && d.Kind == BytecodeSlot
}

type bytecodeObject struct {
	Script    json.RawMessage `json:"script,omitempty"`
	Overrides *ScenarioData   `json:"overrides,omitempty"`
}

func (d *BytecodeDefinition) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidBytecodeDefinition
	}

	switch data[0] {
	case '"':
		var hex string
		if err := json.Unmarshal(data, &hex); err != nil {
			return err
		}
		*d = BytecodeDefinition{Kind: BytecodeLiteral, Hex: hex}
		return nil
	case '[':
		marker, err := parseMarker(data)
		if err != nil || marker != slotMarker {
			return ErrInvalidBytecodeDefinition
		}
		*d = BytecodeDefinition{Kind: BytecodeSlot}
		return nil
	case '{':
		var obj bytecodeObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		def := BytecodeDefinition{Kind: BytecodeCopy, Overrides: obj.Overrides}
		if len(obj.Script) > 0 {
			switch obj.Script[0] {
			case '"':
				if err := json.Unmarshal(obj.Script, &def.Script); err != nil {
					return err
				}
				def.Kind = BytecodeScript
			case '[':
				if marker, err := parseMarker(obj.Script); err != nil ||
					marker != copyMarker {
					return ErrInvalidScriptReference
				}
			default:
				return ErrInvalidScriptReference
			}
		}
		*d = def
		return nil
	default:
		return ErrInvalidBytecodeDefinition
	}
}

func (d BytecodeDefinition) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case BytecodeLiteral:
		return json.Marshal(d.Hex)
	case BytecodeSlot:
		return json.Marshal([]string{slotMarker})
	case BytecodeScript:
		script, err := json.Marshal(d.Script)
		if err != nil {
			return nil, err
		}
		return json.Marshal(bytecodeObject{Script: script, Overrides: d.Overrides})
	case BytecodeCopy:
		return json.Marshal(bytecodeObject{Overrides: d.Overrides})
	default:
		return nil, fmt.Errorf("unknown bytecode kind %s", d.Kind)
	}
}

func parseMarker(data []byte) (string, error) {
	var markers []string
	if err := json.Unmarshal(data, &markers); err != nil {
		return "", err
	}
	if len(markers) != 1 {
		return "", ErrInvalidBytecodeDefinition
	}
	return markers[0], nil
}
