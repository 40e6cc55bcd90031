package scenario

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/tdex-network/template-scenarios/pkg/compiler"
	"github.com/tdex-network/template-scenarios/pkg/template"
)

// ToCompilationData projects scenario data into compilation data. Absent
// fields stay absent, data.bytecode is ignored (see CompileDataBytecode).
func ToCompilationData(data template.ScenarioData) (compiler.CompilationData, error) {
	result := compiler.CompilationData{}

	if data.CurrentBlockHeight != nil {
		height := *data.CurrentBlockHeight
		result.CurrentBlockHeight = &height
	}
	if data.CurrentBlockTime != nil {
		blockTime := *data.CurrentBlockTime
		result.CurrentBlockTime = &blockTime
	}

	if data.HdKeys != nil {
		hdKeys := &compiler.HdKeys{}
		if data.HdKeys.AddressIndex != nil {
			addressIndex := *data.HdKeys.AddressIndex
			hdKeys.AddressIndex = &addressIndex
		}
		if len(data.HdKeys.HdPrivateKeys) > 0 {
			hdKeys.HdPrivateKeys = copyStrings(data.HdKeys.HdPrivateKeys)
		}
		if data.HdKeys.HdPublicKeys != nil {
			hdKeys.HdPublicKeys = copyStrings(data.HdKeys.HdPublicKeys)
		}
		result.HdKeys = hdKeys
	}

	if data.Keys != nil && len(data.Keys.PrivateKeys) > 0 {
		privateKeys := make(map[string][]byte, len(data.Keys.PrivateKeys))
		for _, id := range sortedKeys(data.Keys.PrivateKeys) {
			key, err := hex.DecodeString(data.Keys.PrivateKeys[id])
			if err != nil {
				return compiler.CompilationData{}, fmt.Errorf(
					"private key of variable %q is not valid hex: %s", id, err,
				)
			}
			privateKeys[id] = key
		}
		result.Keys = &compiler.Keys{PrivateKeys: privateKeys}
	}

	return result, nil
}

// CompileDataBytecode compiles every script of data.bytecode and returns the
// compilation data of data augmented with the results.
//
// Scripts are added to the configuration under ScenarioBytecodeScriptPrefix,
// so that they neither collide with nor shadow template scripts. Failures are
// reported by unprefixed identifier.
func CompileDataBytecode(
	data template.ScenarioData,
	cfg *compiler.Configuration,
	bytecodeCompiler compiler.Compiler,
) (compiler.CompilationData, error) {
	compilationData, err := ToCompilationData(data)
	if err != nil {
		return compiler.CompilationData{}, newError(ErrInvalidData, "%s", err)
	}
	if len(data.Bytecode) == 0 {
		return compilationData, nil
	}

	ids := sortedKeys(data.Bytecode)
	scripts := make(map[string]string, len(ids))
	for _, id := range ids {
		scripts[ScenarioBytecodeScriptPrefix+id] = data.Bytecode[id]
	}
	scratch := cfg.WithScripts(scripts)

	compiled := make(map[string][]byte, len(ids))
	failures := make([]string, 0)
	for _, id := range ids {
		result := bytecodeCompiler.GenerateBytecode(
			ScenarioBytecodeScriptPrefix+id, compilationData, scratch, false,
		)
		if result == nil || !result.Success {
			var errs []compiler.CompilationError
			if result != nil {
				errs = result.Errors
			}
			failures = append(failures, fmt.Sprintf(
				"Compilation error while generating bytecode for %q: %s",
				id, compiler.StringifyErrors(errs),
			))
			continue
		}
		compiled[id] = result.Bytecode
	}

	if len(failures) > 0 {
		return compiler.CompilationData{}, newError(
			ErrInvalidData, "%s", strings.Join(failures, "; "),
		)
	}

	if len(compiled) > 0 {
		compilationData.Bytecode = compiled
	}
	return compilationData, nil
}

func copyStrings(m map[string]string) map[string]string {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
