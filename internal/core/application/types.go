package application

import (
	"encoding/hex"
	"fmt"

	"github.com/tdex-network/template-scenarios/pkg/compiler"
	"github.com/tdex-network/template-scenarios/pkg/scenario"
)

// GenerateRequest selects a scenario and the script under test.
type GenerateRequest struct {
	ScenarioID        string
	UnlockingScriptID string
	LockingScriptID   string
	Debug             bool
}

func (r GenerateRequest) opts() scenario.GenerateOpts {
	return scenario.GenerateOpts{
		ScenarioID:        r.ScenarioID,
		UnlockingScriptID: r.UnlockingScriptID,
		LockingScriptID:   r.LockingScriptID,
	}
}

func (r GenerateRequest) String() string {
	name := "default scenario"
	if r.ScenarioID != "" {
		name = fmt.Sprintf("scenario %q", r.ScenarioID)
	}
	switch {
	case r.UnlockingScriptID != "":
		return fmt.Sprintf("%s with unlocking script %q", name, r.UnlockingScriptID)
	case r.LockingScriptID != "":
		return fmt.Sprintf("%s with locking script %q", name, r.LockingScriptID)
	default:
		return name
	}
}

// ScenarioInfo describes a scenario of the template and the unlocking scripts
// tested against it.
type ScenarioInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Extends     string   `json:"extends,omitempty"`
	Passes      []string `json:"passes,omitempty"`
	Fails       []string `json:"fails,omitempty"`
	Invalid     []string `json:"invalid,omitempty"`
}

// Expectation is the expected outcome of running an unlocking script in a
// scenario.
type Expectation string

const (
	// ExpectPass means the scenario compiles and passes verification.
	ExpectPass Expectation = "passes"
	// ExpectFail means the scenario compiles but fails verification.
	ExpectFail Expectation = "fails"
	// ExpectInvalid means the scenario does not compile.
	ExpectInvalid Expectation = "invalid"
)

// ScriptTest is an entry of the passes/fails/invalid matrix of the template.
type ScriptTest struct {
	ScenarioID        string      `json:"scenario"`
	UnlockingScriptID string      `json:"unlockingScript"`
	Expect            Expectation `json:"expect"`
}

func (t ScriptTest) request() GenerateRequest {
	return GenerateRequest{
		ScenarioID:        t.ScenarioID,
		UnlockingScriptID: t.UnlockingScriptID,
	}
}

// TestResult is the outcome of a ScriptTest. Err is the generation or
// verification error, if any.
type TestResult struct {
	ScriptTest
	Passed bool   `json:"passed"`
	Err    string `json:"error,omitempty"`
}

// Estimation is the size and fee of the transaction of a scenario.
type Estimation struct {
	Size int    `json:"size"`
	Fee  uint64 `json:"fee"`
}

// GenerateReply is the JSON friendly view of a generated scenario. Byte
// strings are hex encoded.
type GenerateReply struct {
	Scenario             *ScenarioView    `json:"scenario,omitempty"`
	LockingCompilation   *CompilationView `json:"lockingCompilation,omitempty"`
	UnlockingCompilation *CompilationView `json:"unlockingCompilation,omitempty"`
	Err                  string           `json:"error,omitempty"`
}

type ScenarioView struct {
	Data    DataView    `json:"data"`
	Program ProgramView `json:"program"`
}

type DataView struct {
	Bytecode           map[string]string `json:"bytecode,omitempty"`
	CurrentBlockHeight *int64            `json:"currentBlockHeight,omitempty"`
	CurrentBlockTime   *int64            `json:"currentBlockTime,omitempty"`
	HdKeys             *HdKeysView       `json:"hdKeys,omitempty"`
	PrivateKeys        map[string]string `json:"privateKeys,omitempty"`
}

type HdKeysView struct {
	AddressIndex  *uint32           `json:"addressIndex,omitempty"`
	HdPublicKeys  map[string]string `json:"hdPublicKeys,omitempty"`
	HdPrivateKeys map[string]string `json:"hdPrivateKeys,omitempty"`
}

type ProgramView struct {
	InputIndex    int             `json:"inputIndex"`
	SourceOutputs []OutputView    `json:"sourceOutputs"`
	Transaction   TransactionView `json:"transaction"`
}

type TransactionView struct {
	Inputs   []InputView  `json:"inputs"`
	Locktime uint32       `json:"locktime"`
	Outputs  []OutputView `json:"outputs"`
	Version  uint32       `json:"version"`
}

type InputView struct {
	OutpointIndex           uint32 `json:"outpointIndex"`
	OutpointTransactionHash string `json:"outpointTransactionHash"`
	SequenceNumber          uint32 `json:"sequenceNumber"`
	UnlockingBytecode       string `json:"unlockingBytecode"`
}

type OutputView struct {
	LockingBytecode string     `json:"lockingBytecode"`
	ValueSatoshis   uint64     `json:"valueSatoshis"`
	Token           *TokenView `json:"token,omitempty"`
}

type TokenView struct {
	Amount   string   `json:"amount"`
	Category string   `json:"category"`
	NFT      *NFTView `json:"nft,omitempty"`
}

type NFTView struct {
	Capability string `json:"capability"`
	Commitment string `json:"commitment"`
}

type CompilationView struct {
	Success  bool         `json:"success"`
	Bytecode string       `json:"bytecode,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
	Samples  []SampleView `json:"samples,omitempty"`
}

type SampleView struct {
	Range    string `json:"range"`
	Source   string `json:"source"`
	Bytecode string `json:"bytecode"`
}

func newScenarioView(s *scenario.Scenario) *ScenarioView {
	if s == nil {
		return nil
	}
	return &ScenarioView{
		Data:    newDataView(s.Data),
		Program: newProgramView(s.Program),
	}
}

func newDataView(data compiler.CompilationData) DataView {
	view := DataView{
		CurrentBlockHeight: data.CurrentBlockHeight,
		CurrentBlockTime:   data.CurrentBlockTime,
	}
	if len(data.Bytecode) > 0 {
		view.Bytecode = hexMap(data.Bytecode)
	}
	if data.HdKeys != nil {
		view.HdKeys = &HdKeysView{
			AddressIndex:  data.HdKeys.AddressIndex,
			HdPublicKeys:  data.HdKeys.HdPublicKeys,
			HdPrivateKeys: data.HdKeys.HdPrivateKeys,
		}
	}
	if data.Keys != nil && len(data.Keys.PrivateKeys) > 0 {
		view.PrivateKeys = hexMap(data.Keys.PrivateKeys)
	}
	return view
}

func newProgramView(program compiler.Program) ProgramView {
	inputs := make([]InputView, 0, len(program.Transaction.Inputs))
	for _, in := range program.Transaction.Inputs {
		inputs = append(inputs, InputView{
			OutpointIndex:           in.OutpointIndex,
			OutpointTransactionHash: hex.EncodeToString(in.OutpointTransactionHash),
			SequenceNumber:          in.SequenceNumber,
			UnlockingBytecode:       hex.EncodeToString(in.UnlockingBytecode),
		})
	}
	return ProgramView{
		InputIndex:    program.InputIndex,
		SourceOutputs: newOutputViews(program.SourceOutputs),
		Transaction: TransactionView{
			Inputs:   inputs,
			Locktime: program.Transaction.Locktime,
			Outputs:  newOutputViews(program.Transaction.Outputs),
			Version:  program.Transaction.Version,
		},
	}
}

func newOutputViews(outputs []compiler.Output) []OutputView {
	views := make([]OutputView, 0, len(outputs))
	for _, out := range outputs {
		view := OutputView{
			LockingBytecode: hex.EncodeToString(out.LockingBytecode),
			ValueSatoshis:   out.ValueSatoshis,
		}
		if token := out.Token; token != nil {
			amount := "0"
			if token.Amount != nil {
				amount = token.Amount.String()
			}
			view.Token = &TokenView{
				Amount:   amount,
				Category: hex.EncodeToString(token.Category),
			}
			if nft := token.NFT; nft != nil {
				view.Token.NFT = &NFTView{
					Capability: nft.Capability,
					Commitment: hex.EncodeToString(nft.Commitment),
				}
			}
		}
		views = append(views, view)
	}
	return views
}

func newCompilationView(result *compiler.CompilationResult) *CompilationView {
	if result == nil {
		return nil
	}
	view := &CompilationView{
		Success:  result.Success,
		Bytecode: hex.EncodeToString(result.Bytecode),
	}
	for _, e := range result.Errors {
		view.Errors = append(view.Errors, compiler.StringifyErrors([]compiler.CompilationError{e}))
	}
	for _, s := range result.Samples {
		view.Samples = append(view.Samples, SampleView{
			Range: fmt.Sprintf(
				"%d:%d-%d:%d",
				s.Range.StartLine, s.Range.StartColumn, s.Range.EndLine, s.Range.EndColumn,
			),
			Source:   s.Source,
			Bytecode: hex.EncodeToString(s.Bytecode),
		})
	}
	return view
}

func hexMap(m map[string][]byte) map[string]string {
	res := make(map[string]string, len(m))
	for k, v := range m {
		res[k] = hex.EncodeToString(v)
	}
	return res
}
