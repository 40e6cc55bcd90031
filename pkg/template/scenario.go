package template

import (
	"encoding/json"
	"fmt"
)

// ScenarioDefinition is a scenario as authored in a template. Every field is
// optional; nil means "inherit from the parent scenario".
type ScenarioDefinition struct {
	Name          string               `json:"name,omitempty"`
	Description   string               `json:"description,omitempty"`
	Extends       string               `json:"extends,omitempty"`
	Data          *ScenarioData        `json:"data,omitempty"`
	SourceOutputs []ScenarioOutput     `json:"sourceOutputs,omitempty"`
	Transaction   *ScenarioTransaction `json:"transaction,omitempty"`
}

// ScenarioData holds the values used when compiling the scripts of a
// scenario.
type ScenarioData struct {
	// Bytecode maps identifiers to scripts compiled before any other script
	// of the scenario.
	Bytecode           map[string]string `json:"bytecode,omitempty"`
	CurrentBlockHeight *int64            `json:"currentBlockHeight,omitempty"`
	CurrentBlockTime   *int64            `json:"currentBlockTime,omitempty"`
	HdKeys             *HdKeys           `json:"hdKeys,omitempty"`
	Keys               *Keys             `json:"keys,omitempty"`
}

// HdKeys holds the HD keys of a scenario, indexed by entity id.
type HdKeys struct {
	AddressIndex  *uint32           `json:"addressIndex,omitempty"`
	HdPublicKeys  map[string]string `json:"hdPublicKeys,omitempty"`
	HdPrivateKeys map[string]string `json:"hdPrivateKeys,omitempty"`
}

// Keys holds hex-encoded private keys indexed by variable id.
type Keys struct {
	PrivateKeys map[string]string `json:"privateKeys,omitempty"`
}

// ScenarioTransaction describes the transaction of a scenario.
type ScenarioTransaction struct {
	Inputs   []ScenarioInput  `json:"inputs,omitempty"`
	Locktime *uint32          `json:"locktime,omitempty"`
	Outputs  []ScenarioOutput `json:"outputs,omitempty"`
	Version  *uint32          `json:"version,omitempty"`
}

// ScenarioInput describes a transaction input. A nil UnlockingBytecode is
// equivalent to the copy definition {}.
type ScenarioInput struct {
	OutpointIndex           *uint32             `json:"outpointIndex,omitempty"`
	OutpointTransactionHash *string             `json:"outpointTransactionHash,omitempty"`
	SequenceNumber          *uint32             `json:"sequenceNumber,omitempty"`
	UnlockingBytecode       *BytecodeDefinition `json:"unlockingBytecode,omitempty"`
}

// ScenarioOutput describes either a source output (the output spent by an
// input) or a transaction output.
type ScenarioOutput struct {
	LockingBytecode *BytecodeDefinition `json:"lockingBytecode,omitempty"`
	ValueSatoshis   *ValueSatoshis      `json:"valueSatoshis,omitempty"`
	Token           *TokenDefinition    `json:"token,omitempty"`
}

// TokenDefinition describes the CashTokens carried by an output.
type TokenDefinition struct {
	Amount   *Amount        `json:"amount,omitempty"`
	Category *string        `json:"category,omitempty"`
	NFT      *NFTDefinition `json:"nft,omitempty"`
}

// NFTDefinition describes the non-fungible token of an output.
type NFTDefinition struct {
	Capability string  `json:"capability,omitempty"`
	Commitment *string `json:"commitment,omitempty"`
}

// Amount is an integer given either as a JSON number or as a decimal string,
// the latter allowing values beyond the range of a float64.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or a numeric string: %s", err)
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// ValueSatoshis is an output value, either a JSON number or a hex-encoded
// 8-byte little-endian string.
type ValueSatoshis struct {
	Number string
	Hex    string
}

// IsHex returns whether the value was given in its hex-encoded form.
func (v ValueSatoshis) IsHex() bool {
	return v.Number == ""
}

func (v *ValueSatoshis) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var hex string
		if err := json.Unmarshal(data, &hex); err != nil {
			return err
		}
		*v = ValueSatoshis{Hex: hex}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("valueSatoshis must be a number or a hex string: %s", err)
	}
	*v = ValueSatoshis{Number: n.String()}
	return nil
}

func (v ValueSatoshis) MarshalJSON() ([]byte, error) {
	if v.IsHex() {
		return json.Marshal(v.Hex)
	}
	return []byte(v.Number), nil
}
