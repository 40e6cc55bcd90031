package template

// VariableType is the kind of a template variable.
type VariableType string

const (
	// VariableKey is a private key provided directly in the compilation data.
	VariableKey VariableType = "Key"
	// VariableHdKey is a key derived from an entity's HD private or public key.
	VariableHdKey VariableType = "HdKey"
	// VariableWalletData is bytecode stored by the wallet.
	VariableWalletData VariableType = "WalletData"
	// VariableAddressData is bytecode provided per address.
	VariableAddressData VariableType = "AddressData"
)

const (
	// DefaultHdKeyAddressOffset is used by HdKey variables without an
	// explicit addressOffset.
	DefaultHdKeyAddressOffset uint32 = 0
	// DefaultHdKeyPrivateDerivationPath is used by HdKey variables without an
	// explicit privateDerivationPath.
	DefaultHdKeyPrivateDerivationPath = "m/i"
	// DefaultHdKeyHdPublicKeyDerivationPath is used by HdKey variables without
	// an explicit hdPublicKeyDerivationPath.
	DefaultHdKeyHdPublicKeyDerivationPath = "m"
)

// Template is a wallet template: a declarative description of related
// scripts, the variables they use, the entities owning those variables and
// a set of example scenarios.
type Template struct {
	Schema      string                        `json:"$schema,omitempty"`
	Name        string                        `json:"name,omitempty"`
	Description string                        `json:"description,omitempty"`
	Entities    map[string]Entity             `json:"entities"`
	Scenarios   map[string]ScenarioDefinition `json:"scenarios,omitempty"`
	Scripts     map[string]Script             `json:"scripts"`
	Supported   []string                      `json:"supported"`
	Version     int                           `json:"version"`
}

// Entity is a logical party owning one or more variables.
type Entity struct {
	Name        string              `json:"name,omitempty"`
	Description string              `json:"description,omitempty"`
	Scripts     []string            `json:"scripts,omitempty"`
	Variables   map[string]Variable `json:"variables,omitempty"`
}

// Variable is a named parameter supplied at compile time.
type Variable struct {
	Type        VariableType `json:"type"`
	Name        string       `json:"name,omitempty"`
	Description string       `json:"description,omitempty"`

	// The following fields are only meaningful for HdKey variables.
	AddressOffset             *uint32 `json:"addressOffset,omitempty"`
	HdPublicKeyDerivationPath string  `json:"hdPublicKeyDerivationPath,omitempty"`
	PrivateDerivationPath     string  `json:"privateDerivationPath,omitempty"`
	PublicDerivationPath      string  `json:"publicDerivationPath,omitempty"`
}

// PrivatePath returns the private derivation path of an HdKey variable,
// falling back to the default one.
func (v Variable) PrivatePath() string {
	if v.PrivateDerivationPath == "" {
		return DefaultHdKeyPrivateDerivationPath
	}
	return v.PrivateDerivationPath
}

// Offset returns the address offset of an HdKey variable.
func (v Variable) Offset() uint32 {
	if v.AddressOffset == nil {
		return DefaultHdKeyAddressOffset
	}
	return *v.AddressOffset
}

// Script is a template script. Unlocking scripts set Unlocks to the id of the
// locking script they unlock, locking scripts set LockingType.
type Script struct {
	Name        string `json:"name,omitempty"`
	Script      string `json:"script"`
	LockingType string `json:"lockingType,omitempty"`
	Unlocks     string `json:"unlocks,omitempty"`
	// Passes lists the scenarios in which this unlocking script compiles and
	// passes verification, Fails those in which it compiles but fails
	// verification and Invalid those in which it does not compile.
	Passes  []string `json:"passes,omitempty"`
	Fails   []string `json:"fails,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
	// Estimate is the scenario used to estimate the transaction size of
	// this unlocking script, the default scenario if empty.
	Estimate string `json:"estimate,omitempty"`
}

// IsUnlocking returns whether the script unlocks another script.
func (s Script) IsUnlocking() bool {
	return s.Unlocks != ""
}
