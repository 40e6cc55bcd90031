package scenario

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tdex-network/template-scenarios/pkg/compiler"
	"github.com/tdex-network/template-scenarios/pkg/template"
)

const outpointTransactionHashSize = 32

// GenerateOpts defines the parameters for generating a scenario.
type GenerateOpts struct {
	Configuration *compiler.Configuration
	Compiler      compiler.Compiler
	// ScenarioID is the scenario to generate, empty for the default one.
	ScenarioID string
	// UnlockingScriptID is the unlocking script under test. The locking
	// script under test is then the one it unlocks.
	UnlockingScriptID string
	// LockingScriptID is the locking script under test. It must not be set
	// together with UnlockingScriptID.
	LockingScriptID string
}

func (o GenerateOpts) validate() error {
	if o.Configuration == nil {
		return ErrNullConfiguration
	}
	if o.Compiler == nil {
		return ErrNullCompiler
	}
	return nil
}

// Scenario is a generated scenario: the compilation data shared by its
// scripts and the fully compiled program.
type Scenario struct {
	Data    compiler.CompilationData
	Program compiler.Program
}

// DebugResult is the outcome of GenerateDebug. LockingCompilation and
// UnlockingCompilation are the compiler results of the scripts under test.
// They are nil if generation failed before compiling them or if no script of
// that kind is under test.
type DebugResult struct {
	LockingCompilation   *compiler.CompilationResult
	Scenario             *Scenario
	Err                  error
	UnlockingCompilation *compiler.CompilationResult
}

// Generate generates the scenario identified by opts.ScenarioID, compiling
// the scripts under test in its slots.
func Generate(opts GenerateOpts) (*Scenario, error) {
	result := generate(opts)
	return result.Scenario, result.Err
}

// GenerateDebug is like Generate but also returns the compiler results of
// the scripts under test, even when generation fails.
func GenerateDebug(opts GenerateOpts) *DebugResult {
	return generate(opts)
}

func generate(opts GenerateOpts) *DebugResult {
	if err := opts.validate(); err != nil {
		return &DebugResult{Err: err}
	}
	cfg := opts.Configuration
	name := displayName(opts.ScenarioID)

	fail := func(kind error, format string, args ...interface{}) *DebugResult {
		return &DebugResult{Err: newError(
			kind, "Cannot generate %s%s", name, fmt.Sprintf(format, args...),
		)}
	}

	definition := template.ScenarioDefinition{}
	if opts.ScenarioID != "" {
		def, ok := cfg.Scenarios[opts.ScenarioID]
		if !ok {
			return fail(
				ErrUnknownScenario,
				": a scenario definition with the identifier %s is not "+
					"included in this compiler configuration.",
				opts.ScenarioID,
			)
		}
		definition = def
	}

	parent, err := GenerateExtended(cfg, opts.ScenarioID)
	if err != nil {
		return &DebugResult{Err: wrapError(err, "Cannot generate %s: ", name)}
	}
	extended := parent.Extend(definition)

	data, err := CompileDataBytecode(extended.Data, cfg, opts.Compiler)
	if err != nil {
		return &DebugResult{Err: wrapError(err, "Cannot generate %s. ", name)}
	}

	sourceOutputs := extended.SourceOutputs
	inputs := extended.Transaction.Inputs
	outputs := extended.Transaction.Outputs

	if len(inputs) != len(sourceOutputs) {
		return fail(
			ErrInvalidStructure,
			`: could not match source outputs with inputs - "sourceOutputs" `+
				`must be the same length as "transaction.inputs".`,
		)
	}

	slotInputs := make([]int, 0, 1)
	for i, input := range inputs {
		if input.UnlockingBytecode.IsSlot() {
			slotInputs = append(slotInputs, i)
		}
	}
	if len(slotInputs) != 1 {
		return fail(
			ErrInvalidStructure,
			`: the specific input under test in this scenario is ambiguous - `+
				`"transaction.inputs" must include exactly one input that has `+
				`"unlockingBytecode" set to ["slot"].`,
		)
	}

	slotSourceOutputs := make([]int, 0, 1)
	for i, output := range sourceOutputs {
		if output.LockingBytecode.IsSlot() {
			slotSourceOutputs = append(slotSourceOutputs, i)
		}
	}
	if len(slotSourceOutputs) != 1 {
		return fail(
			ErrInvalidStructure,
			`: the source output unlocked by the input under test in this `+
				`scenario is ambiguous - "sourceOutputs" must include exactly `+
				`one output that has "lockingBytecode" set to ["slot"].`,
		)
	}

	slotIndex := slotInputs[0]
	if slotIndex != slotSourceOutputs[0] {
		return fail(
			ErrInvalidStructure,
			`: the source output unlocked by the input under test in this `+
				`scenario is ambiguous - the ["slot"] in "transaction.inputs" `+
				`and "sourceOutputs" must be at the same index.`,
		)
	}

	for i, output := range outputs {
		if output.LockingBytecode.IsSlot() {
			return fail(
				ErrInvalidStructure,
				`: the transaction output at index %d is set to ["slot"], `+
					`only "sourceOutputs" and "transaction.inputs" may `+
					`include a slot.`,
				i,
			)
		}
	}

	if opts.UnlockingScriptID != "" && opts.LockingScriptID != "" {
		return fail(
			ErrInvalidStructure,
			": a scenario cannot be generated with both unlocking and locking "+
				"script IDs defined. If an unlocking script is provided, the "+
				"associated locking script ID must be read from the template.",
		)
	}

	lockingScriptID := opts.LockingScriptID
	if opts.UnlockingScriptID != "" {
		id, ok := cfg.UnlockingScripts[opts.UnlockingScriptID]
		if _, exists := cfg.Scripts[id]; !ok || !exists {
			return fail(
				ErrUnknownLockingScript,
				" using unlocking script %q: the locking script unlocked by "+
					"%q is not provided in this compiler configuration.",
				opts.UnlockingScriptID, opts.UnlockingScriptID,
			)
		}
		lockingScriptID = id
	}

	bytecodeOpts := func(
		def *template.BytecodeDefinition, scriptUnderTest string,
	) BytecodeOpts {
		return BytecodeOpts{
			Configuration:   cfg,
			Compiler:        opts.Compiler,
			Definition:      def,
			Scenario:        extended,
			ScriptUnderTest: scriptUnderTest,
		}
	}

	var lockingCompilation *compiler.CompilationResult
	outputErrors := make([]string, 0)

	compiledSourceOutputs := make([]compiler.Output, len(sourceOutputs))
	for i, output := range sourceOutputs {
		def := output.LockingBytecode
		if def.IsSlot() {
			def = slotDefinition(lockingScriptID)
		}
		result := CompileBytecode(bytecodeOpts(def, lockingScriptID))
		if i == slotIndex {
			lockingCompilation = result.Compilation
		}

		compiled, errs := compileOutput(output, result)
		if len(errs) > 0 {
			outputErrors = append(
				outputErrors, failedCompilations("source output", i, errs)...,
			)
			continue
		}
		compiledSourceOutputs[i] = *compiled
	}

	compiledOutputs := make([]compiler.Output, len(outputs))
	for i, output := range outputs {
		transactionOutputOpts := bytecodeOpts(output.LockingBytecode, lockingScriptID)
		transactionOutputOpts.DefaultOverrides = transactionOutputOverrides()
		result := CompileBytecode(transactionOutputOpts)

		compiled, errs := compileOutput(output, result)
		if len(errs) > 0 {
			outputErrors = append(
				outputErrors, failedCompilations("transaction output", i, errs)...,
			)
			continue
		}
		compiledOutputs[i] = *compiled
	}

	if len(outputErrors) > 0 {
		res := fail(ErrCompilation, ": %s", strings.Join(outputErrors, " "))
		res.LockingCompilation = lockingCompilation
		return res
	}

	contextInputs := make([]compiler.Input, len(inputs))
	inputErrors := make([]string, 0)
	for i, input := range inputs {
		contextInput, err := compileInputContext(i, input)
		if err != nil {
			inputErrors = append(inputErrors, fmt.Sprintf(
				"Failed compilation of input at index %d: %s", i, err,
			))
			continue
		}
		contextInputs[i] = *contextInput
	}

	var unlockingCompilation *compiler.CompilationResult
	compiledInputs := make([]compiler.Input, len(inputs))
	if len(inputErrors) == 0 {
		for i, input := range inputs {
			def := input.UnlockingBytecode
			if def.IsSlot() {
				def = slotDefinition(opts.UnlockingScriptID)
			}
			inputOpts := bytecodeOpts(def, opts.UnlockingScriptID)
			inputOpts.Context = &compiler.CompilationContext{
				InputIndex:    i,
				SourceOutputs: compiledSourceOutputs,
				Transaction: compiler.Transaction{
					Inputs:   contextInputs,
					Locktime: extended.Transaction.Locktime,
					Outputs:  compiledOutputs,
					Version:  extended.Transaction.Version,
				},
			}
			result := CompileBytecode(inputOpts)
			if i == slotIndex {
				unlockingCompilation = result.Compilation
			}
			if result.Failed() {
				inputErrors = append(
					inputErrors,
					failedCompilations("input", i, errorMessages(result.Errors()))...,
				)
				continue
			}

			compiledInput := contextInputs[i]
			compiledInput.UnlockingBytecode = result.Bytecode()
			compiledInputs[i] = compiledInput
		}
	}

	if len(inputErrors) > 0 {
		res := fail(ErrCompilation, ": %s", strings.Join(inputErrors, " "))
		res.LockingCompilation = lockingCompilation
		res.UnlockingCompilation = unlockingCompilation
		return res
	}

	return &DebugResult{
		LockingCompilation: lockingCompilation,
		Scenario: &Scenario{
			Data: data,
			Program: compiler.Program{
				InputIndex:    slotIndex,
				SourceOutputs: compiledSourceOutputs,
				Transaction: compiler.Transaction{
					Inputs:   compiledInputs,
					Locktime: extended.Transaction.Locktime,
					Outputs:  compiledOutputs,
					Version:  extended.Transaction.Version,
				},
			},
		},
		UnlockingCompilation: unlockingCompilation,
	}
}

// slotDefinition returns the definition compiled in place of a slot: the
// script under test or, if none, DefaultSlotBytecode.
func slotDefinition(scriptUnderTest string) *template.BytecodeDefinition {
	if scriptUnderTest == "" {
		return template.LiteralBytecode(DefaultSlotBytecode)
	}
	return template.ScriptBytecode(scriptUnderTest, nil)
}

func transactionOutputOverrides() template.ScenarioData {
	addressIndex := transactionOutputAddressIndex
	return template.ScenarioData{
		HdKeys: &template.HdKeys{AddressIndex: &addressIndex},
	}
}

// failedCompilations returns one clause per error of the item of the given
// kind at index.
func failedCompilations(kind string, index int, messages []string) []string {
	clauses := make([]string, 0, len(messages))
	for _, msg := range messages {
		clauses = append(clauses, fmt.Sprintf(
			"Failed compilation of %s at index %d: %s", kind, index, msg,
		))
	}
	return clauses
}

func errorMessages(errs []compiler.CompilationError) []string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	return messages
}

func compileOutput(
	output template.ScenarioOutput, result BytecodeResult,
) (*compiler.Output, []string) {
	if result.Failed() {
		return nil, errorMessages(result.Errors())
	}
	value, err := CompileValueSatoshis(output.ValueSatoshis)
	if err != nil {
		return nil, []string{err.Error()}
	}
	token, err := CompileToken(output.Token)
	if err != nil {
		return nil, []string{err.Error()}
	}
	return &compiler.Output{
		LockingBytecode: result.Bytecode(),
		ValueSatoshis:   value,
		Token:           token,
	}, nil
}

// compileInputContext returns the input as seen by the scripts of the
// transaction, without unlocking bytecode.
func compileInputContext(index int, input template.ScenarioInput) (*compiler.Input, error) {
	outpointIndex := uint32(index)
	if input.OutpointIndex != nil {
		outpointIndex = *input.OutpointIndex
	}
	hashHex := DefaultOutpointTransactionHash
	if input.OutpointTransactionHash != nil {
		hashHex = *input.OutpointTransactionHash
	}
	hash, err := hex.DecodeString(hashHex)
	if err != nil {
		return nil, fmt.Errorf("outpointTransactionHash is not valid hex: %s", err)
	}
	if len(hash) != outpointTransactionHashSize {
		return nil, fmt.Errorf(
			"outpointTransactionHash must be %d bytes, got %d",
			outpointTransactionHashSize, len(hash),
		)
	}
	sequence := DefaultSequenceNumber
	if input.SequenceNumber != nil {
		sequence = *input.SequenceNumber
	}
	return &compiler.Input{
		OutpointIndex:           outpointIndex,
		OutpointTransactionHash: hash,
		SequenceNumber:          sequence,
	}, nil
}

func displayName(scenarioID string) string {
	if scenarioID == "" {
		return "the default scenario"
	}
	return fmt.Sprintf("scenario %q", scenarioID)
}
