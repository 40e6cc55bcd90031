package scenario

import "github.com/tdex-network/template-scenarios/pkg/template"

// MergeData extends the parent scenario data with the child one. Child values
// override parent values, except for bytecode, hdKeys.hdPrivateKeys,
// hdKeys.hdPublicKeys and keys.privateKeys, which are merged by key so that
// overriding one entry keeps its siblings.
func MergeData(parent, child template.ScenarioData) template.ScenarioData {
	merged := template.ScenarioData{
		CurrentBlockHeight: parent.CurrentBlockHeight,
		CurrentBlockTime:   parent.CurrentBlockTime,
	}
	if child.CurrentBlockHeight != nil {
		merged.CurrentBlockHeight = child.CurrentBlockHeight
	}
	if child.CurrentBlockTime != nil {
		merged.CurrentBlockTime = child.CurrentBlockTime
	}

	if parent.Bytecode != nil || child.Bytecode != nil {
		merged.Bytecode = mergeStrings(parent.Bytecode, child.Bytecode)
	}

	if parent.HdKeys != nil || child.HdKeys != nil {
		merged.HdKeys = mergeHdKeys(parent.HdKeys, child.HdKeys)
	}

	if parent.Keys != nil || child.Keys != nil {
		var parentKeys, childKeys map[string]string
		if parent.Keys != nil {
			parentKeys = parent.Keys.PrivateKeys
		}
		if child.Keys != nil {
			childKeys = child.Keys.PrivateKeys
		}
		merged.Keys = &template.Keys{
			PrivateKeys: mergeStrings(parentKeys, childKeys),
		}
	}

	return merged
}

func mergeHdKeys(parent, child *template.HdKeys) *template.HdKeys {
	if parent == nil {
		parent = &template.HdKeys{}
	}
	if child == nil {
		child = &template.HdKeys{}
	}

	merged := &template.HdKeys{AddressIndex: parent.AddressIndex}
	if child.AddressIndex != nil {
		merged.AddressIndex = child.AddressIndex
	}
	if parent.HdPrivateKeys != nil || child.HdPrivateKeys != nil {
		merged.HdPrivateKeys = mergeStrings(parent.HdPrivateKeys, child.HdPrivateKeys)
	}
	if parent.HdPublicKeys != nil || child.HdPublicKeys != nil {
		merged.HdPublicKeys = mergeStrings(parent.HdPublicKeys, child.HdPublicKeys)
	}
	return merged
}

// MergeDefinitions extends the parent scenario definition with the child one.
// data is merged with MergeData, transaction fields are overridden one by one
// and sourceOutputs is replaced as a whole. Display metadata and extends are
// not carried over.
func MergeDefinitions(parent, child template.ScenarioDefinition) template.ScenarioDefinition {
	merged := template.ScenarioDefinition{}

	if parent.Data != nil || child.Data != nil {
		var parentData, childData template.ScenarioData
		if parent.Data != nil {
			parentData = *parent.Data
		}
		if child.Data != nil {
			childData = *child.Data
		}
		data := MergeData(parentData, childData)
		merged.Data = &data
	}

	if parent.Transaction != nil || child.Transaction != nil {
		tx := template.ScenarioTransaction{}
		if parent.Transaction != nil {
			tx = *parent.Transaction
		}
		if c := child.Transaction; c != nil {
			if c.Inputs != nil {
				tx.Inputs = c.Inputs
			}
			if c.Locktime != nil {
				tx.Locktime = c.Locktime
			}
			if c.Outputs != nil {
				tx.Outputs = c.Outputs
			}
			if c.Version != nil {
				tx.Version = c.Version
			}
		}
		merged.Transaction = &tx
	}

	merged.SourceOutputs = parent.SourceOutputs
	if child.SourceOutputs != nil {
		merged.SourceOutputs = child.SourceOutputs
	}

	return merged
}

func mergeStrings(parent, child map[string]string) map[string]string {
	merged := make(map[string]string, len(parent)+len(child))
	for k, v := range parent {
		merged[k] = v
	}
	for k, v := range child {
		merged[k] = v
	}
	return merged
}
