package cashasm

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/tdex-network/template-scenarios/pkg/hdkey"
	"github.com/tdex-network/template-scenarios/pkg/template"
)

const (
	operationPublicKey  = "public_key"
	operationPrivateKey = "private_key"

	privateKeySize = 32
)

var signatureOperations = []string{
	"signature.", "schnorr_signature.", "data_signature.", "schnorr_data_signature.",
}

func (r *resolver) resolveVariable(
	id, variableID, operation string, variable template.Variable,
) ([]byte, error) {
	switch variable.Type {
	case template.VariableWalletData, template.VariableAddressData:
		if operation != "" {
			return nil, fmt.Errorf(
				"Identifier %q is not valid: %s variables do not support operations.",
				id, variable.Type,
			)
		}
		if r.data.Bytecode == nil {
			return nil, fmt.Errorf(
				"Cannot resolve %q - the \"bytecode\" property was not "+
					"provided in the compilation data.", id,
			)
		}
		bytecode, ok := r.data.Bytecode[variableID]
		if !ok {
			return nil, fmt.Errorf(
				"Identifier %q refers to a %s variable, but %q was not "+
					"provided in the CompilationData \"bytecode\".",
				id, variable.Type, variableID,
			)
		}
		return bytecode, nil

	case template.VariableKey, template.VariableHdKey:
		if operation == "" {
			return nil, fmt.Errorf(
				"Identifier %q refers to a %s variable, an operation must be "+
					"specified (e.g. %q).",
				id, variable.Type, variableID+"."+operationPublicKey,
			)
		}
		for _, prefix := range signatureOperations {
			if strings.HasPrefix(operation, prefix) {
				return nil, fmt.Errorf(
					"Cannot resolve %q - signature operations are not "+
						"supported by this compiler.", id,
				)
			}
		}
		if operation != operationPublicKey && operation != operationPrivateKey {
			return nil, fmt.Errorf(
				"Unknown operation %q for %s variable %q.",
				operation, variable.Type, variableID,
			)
		}
		if variable.Type == template.VariableKey {
			return r.resolveKey(id, variableID, operation)
		}
		return r.resolveHdKey(id, variableID, operation, variable)

	default:
		return nil, fmt.Errorf(
			"Identifier %q refers to a variable of unknown type %q.",
			id, variable.Type,
		)
	}
}

func (r *resolver) resolveKey(id, variableID, operation string) ([]byte, error) {
	var key []byte
	if r.data.Keys != nil {
		key = r.data.Keys.PrivateKeys[variableID]
	}
	if key == nil {
		return nil, fmt.Errorf(
			"Identifier %q refers to a Key variable, but %q was not provided "+
				"in the CompilationData \"keys.privateKeys\".", id, variableID,
		)
	}
	if len(key) != privateKeySize {
		return nil, fmt.Errorf(
			"Cannot resolve %q - the private key of %q must be %d bytes.",
			id, variableID, privateKeySize,
		)
	}

	if operation == operationPrivateKey {
		return key, nil
	}
	_, pubkey := btcec.PrivKeyFromBytes(key)
	return pubkey.SerializeCompressed(), nil
}

func (r *resolver) resolveHdKey(
	id, variableID, operation string, variable template.Variable,
) ([]byte, error) {
	owner, ok := r.cfg.EntityOwnership[variableID]
	if !ok {
		return nil, fmt.Errorf(
			"Cannot resolve %q - HdKey variable %q is not owned by any entity.",
			id, variableID,
		)
	}

	addressIndex := uint32(0)
	var hdPrivateKeys, hdPublicKeys map[string]string
	if hdKeys := r.data.HdKeys; hdKeys != nil {
		if hdKeys.AddressIndex != nil {
			addressIndex = *hdKeys.AddressIndex
		}
		hdPrivateKeys, hdPublicKeys = hdKeys.HdPrivateKeys, hdKeys.HdPublicKeys
	}
	index := addressIndex + variable.Offset()

	if xprv, ok := hdPrivateKeys[owner]; ok {
		path, err := hdkey.ResolveDerivationPath(variable.PrivatePath(), index)
		if err != nil {
			return nil, fmt.Errorf("Cannot resolve %q - %s", id, err)
		}
		var key []byte
		if operation == operationPrivateKey {
			key, err = hdkey.DerivePrivateKey(xprv, path)
		} else {
			key, err = hdkey.DerivePublicKey(xprv, path)
		}
		if err != nil {
			return nil, fmt.Errorf("Cannot resolve %q - %s", id, err)
		}
		return key, nil
	}

	xpub, ok := hdPublicKeys[owner]
	if !ok {
		return nil, fmt.Errorf(
			"Identifier %q refers to an HdKey owned by %q, but an HD private "+
				"key for this entity (or an HD public key, if available) was "+
				"not provided in the compilation data.", id, owner,
		)
	}
	if operation == operationPrivateKey {
		return nil, fmt.Errorf(
			"Identifier %q requires an HD private key for %q, but only an HD "+
				"public key was provided in the compilation data.", id, owner,
		)
	}

	path, err := publicDerivationPath(variable, index)
	if err != nil {
		return nil, fmt.Errorf("Cannot resolve %q - %s", id, err)
	}
	key, err := hdkey.DerivePublicKey(xpub, path)
	if err != nil {
		return nil, fmt.Errorf("Cannot resolve %q - %s", id, err)
	}
	return key, nil
}

// publicDerivationPath returns the path of the variable's public key relative
// to the HD public key of its owner.
func publicDerivationPath(variable template.Variable, index uint32) (hdkey.DerivationPath, error) {
	publicPath := variable.PublicDerivationPath
	if publicPath == "" {
		publicPath = "M" + strings.TrimPrefix(variable.PrivatePath(), "m")
	}
	hdPublicKeyPath := variable.HdPublicKeyDerivationPath
	if hdPublicKeyPath == "" {
		hdPublicKeyPath = template.DefaultHdKeyHdPublicKeyDerivationPath
	}

	full, err := hdkey.ResolveDerivationPath(publicPath, index)
	if err != nil {
		return nil, err
	}
	prefix, err := hdkey.ParseDerivationPath(hdPublicKeyPath)
	if err != nil {
		return nil, err
	}

	if len(full) < len(prefix) {
		return nil, fmt.Errorf(
			"public derivation path %q does not begin with %q",
			publicPath, hdPublicKeyPath,
		)
	}
	for i := range prefix {
		if full[i] != prefix[i] {
			return nil, fmt.Errorf(
				"public derivation path %q does not begin with %q",
				publicPath, hdPublicKeyPath,
			)
		}
	}
	return full[len(prefix):], nil
}
