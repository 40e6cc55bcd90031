package scenario

import (
	"encoding/hex"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tdex-network/template-scenarios/pkg/compiler"
	"github.com/tdex-network/template-scenarios/pkg/hdkey"
	"github.com/tdex-network/template-scenarios/pkg/template"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// GenerateDefaultDefinition synthesizes the default scenario of cfg, the root
// of every extends chain.
//
// Key variables and entities are sorted and numbered from 1. Each number,
// as a 32-byte big-endian integer, is the private key of a Key variable or
// the seed of the master HD key of an entity.
func GenerateDefaultDefinition(cfg *compiler.Configuration) (*ExtendedDefinition, error) {
	if cfg == nil {
		return nil, ErrNullConfiguration
	}

	ids, keyVariables := defaultScenarioIDs(cfg)
	values := make(map[string][]byte, len(ids))
	for i, id := range ids {
		values[id] = defaultScenarioValue(i + 1)
	}

	height, blockTime := DefaultCurrentBlockHeight, DefaultCurrentBlockTime
	data := template.ScenarioData{
		CurrentBlockHeight: &height,
		CurrentBlockTime:   &blockTime,
	}
	if len(keyVariables) > 0 {
		privateKeys := make(map[string]string, len(keyVariables))
		for _, id := range keyVariables {
			privateKeys[id] = hex.EncodeToString(values[id])
		}
		data.Keys = &template.Keys{PrivateKeys: privateKeys}
	}

	def := &ExtendedDefinition{
		Data: data,
		SourceOutputs: []template.ScenarioOutput{
			{LockingBytecode: template.SlotBytecode()},
		},
		Transaction: ExtendedTransaction{
			Inputs: []template.ScenarioInput{
				{UnlockingBytecode: template.SlotBytecode()},
			},
			Locktime: DefaultLocktime,
			Outputs: []template.ScenarioOutput{
				{LockingBytecode: template.CopyBytecode(nil)},
			},
			Version: DefaultVersion,
		},
	}

	if !cfg.HasHdKeys() {
		return def, nil
	}

	if cfg.Sha256 == nil {
		return nil, missingHashFunctionError("sha256")
	}
	if cfg.Sha512 == nil {
		return nil, missingHashFunctionError("sha512")
	}
	crypto := hdkey.Crypto{Sha256: cfg.Sha256, Sha512: cfg.Sha512}

	entities := entityIDs(cfg)
	hdPrivateKeys := make(map[string]string, len(entities))
	for _, entityID := range entities {
		node, err := hdkey.DeriveMasterNode(values[entityID], true, crypto)
		if err != nil {
			return nil, err
		}
		key, err := hdkey.EncodePrivateKey(node, &chaincfg.MainNetParams, crypto)
		if err != nil {
			return nil, err
		}
		hdPrivateKeys[entityID] = key
	}

	addressIndex := DefaultAddressIndex
	def.Data.HdKeys = &template.HdKeys{
		AddressIndex:  &addressIndex,
		HdPrivateKeys: hdPrivateKeys,
	}
	return def, nil
}

func missingHashFunctionError(name string) error {
	return newError(
		ErrMissingHashFunction,
		"An implementations of %q is required to generate defaults for HD "+
			"keys, but the %q property is not included in this compiler "+
			"configuration.",
		name, name,
	)
}

// defaultScenarioIDs returns the sorted union of Key variable ids and entity
// ids, and the Key variable ids alone.
func defaultScenarioIDs(cfg *compiler.Configuration) ([]string, []string) {
	keyVariables := make([]string, 0)
	for id, variable := range cfg.Variables {
		if variable.Type == template.VariableKey {
			keyVariables = append(keyVariables, id)
		}
	}

	seen := make(map[string]bool)
	ids := make([]string, 0, len(keyVariables))
	for _, id := range append(keyVariables, entityIDs(cfg)...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	sortIDs(ids)
	sortIDs(keyVariables)
	return ids, keyVariables
}

// entityIDs returns the distinct entities owning at least one variable.
func entityIDs(cfg *compiler.Configuration) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, entityID := range cfg.EntityOwnership {
		if !seen[entityID] {
			seen[entityID] = true
			ids = append(ids, entityID)
		}
	}
	sortIDs(ids)
	return ids
}

// sortIDs sorts ids with the English collation. Collators are not safe for
// concurrent use, hence one per call.
func sortIDs(ids []string) {
	collate.New(language.English).SortStrings(ids)
}

func defaultScenarioValue(index int) []byte {
	return big.NewInt(int64(index)).FillBytes(make([]byte, defaultScenarioSeedSize))
}
