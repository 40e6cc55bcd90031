package scenario

import (
	"encoding/hex"

	"github.com/tdex-network/template-scenarios/pkg/compiler"
	"github.com/tdex-network/template-scenarios/pkg/template"
)

// BytecodeOpts defines the parameters for compiling one locking or unlocking
// bytecode definition of a scenario.
type BytecodeOpts struct {
	Configuration *compiler.Configuration
	Compiler      compiler.Compiler
	// Definition is the bytecode to compile, nil is equivalent to {}.
	Definition *template.BytecodeDefinition
	// Scenario provides the base data, overridden by Definition.Overrides or,
	// if unset, by DefaultOverrides.
	Scenario         *ExtendedDefinition
	DefaultOverrides template.ScenarioData
	// Context is only set when compiling input scripts.
	Context *compiler.CompilationContext
	// ScriptUnderTest is compiled for copy and slot definitions. If empty,
	// those definitions yield empty bytecode.
	ScriptUnderTest string
}

// BytecodeResult is the outcome of CompileBytecode: either Raw bytecode for
// definitions that don't involve the compiler, or the Compilation returned by
// the compiler.
type BytecodeResult struct {
	Raw         []byte
	Compilation *compiler.CompilationResult
}

// Bytecode returns the compiled bytecode, nil on failure.
func (r BytecodeResult) Bytecode() []byte {
	if r.Compilation == nil {
		return r.Raw
	}
	if !r.Compilation.Success {
		return nil
	}
	return r.Compilation.Bytecode
}

// Failed returns whether the compilation failed.
func (r BytecodeResult) Failed() bool {
	return r.Compilation != nil && !r.Compilation.Success
}

// Errors returns the compilation errors, if any.
func (r BytecodeResult) Errors() []compiler.CompilationError {
	if r.Compilation == nil {
		return nil
	}
	return r.Compilation.Errors
}

// CompileBytecode compiles a single bytecode definition. Literal definitions
// are decoded as is. Any other definition compiles its script, or the script
// under test, against the scenario data merged with the applicable overrides.
func CompileBytecode(opts BytecodeOpts) BytecodeResult {
	def := opts.Definition
	if def == nil {
		def = template.CopyBytecode(nil)
	}

	if def.Kind == template.BytecodeLiteral {
		bytecode, err := hex.DecodeString(def.Hex)
		if err != nil {
			return BytecodeResult{
				Compilation: compiler.NewFailure(
					"bytecode %q is not valid hex: %s", def.Hex, err,
				),
			}
		}
		return BytecodeResult{Raw: bytecode}
	}

	scriptID := opts.ScriptUnderTest
	if def.Kind == template.BytecodeScript {
		scriptID = def.Script
	}
	if scriptID == "" {
		return BytecodeResult{Raw: []byte{}}
	}

	overrides := opts.DefaultOverrides
	if def.Overrides != nil {
		overrides = *def.Overrides
	}
	var base template.ScenarioData
	if opts.Scenario != nil {
		base = opts.Scenario.Data
	}

	data, err := CompileDataBytecode(
		MergeData(base, overrides), opts.Configuration, opts.Compiler,
	)
	if err != nil {
		return BytecodeResult{
			Compilation: compiler.NewFailure(
				"Could not compile scenario \"data.bytecode\": %s", err,
			),
		}
	}
	data.CompilationContext = opts.Context

	result := opts.Compiler.GenerateBytecode(scriptID, data, opts.Configuration, true)
	if result == nil {
		result = compiler.NewFailure("compiler returned no result for %q", scriptID)
	}
	return BytecodeResult{Compilation: result}
}
