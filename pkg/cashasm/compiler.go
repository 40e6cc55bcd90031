// Package cashasm implements compiler.Compiler for a subset of CashAssembly:
// pushes, hex and string literals, numbers, opcodes, script references,
// block built-ins and Key, HdKey, WalletData and AddressData variables.
// Signatures are not supported.
package cashasm

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/txscript"
	"github.com/tdex-network/template-scenarios/pkg/compiler"
)

const (
	builtinBlockHeight = "current_block_height"
	builtinBlockTime   = "current_block_time"
)

// Compiler is safe for concurrent use.
type Compiler struct{}

var _ compiler.Compiler = (*Compiler)(nil)

// New returns a new Compiler.
func New() *Compiler {
	return &Compiler{}
}

// GenerateBytecode compiles the script scriptID of cfg. Samples are reported
// only when debug is set.
func (c *Compiler) GenerateBytecode(
	scriptID string,
	data compiler.CompilationData,
	cfg *compiler.Configuration,
	debug bool,
) *compiler.CompilationResult {
	if cfg == nil {
		return compiler.NewFailure("compiler configuration must not be null")
	}

	r := &resolver{cfg: cfg, data: data}
	bytecode, samples, errs := r.compileScript(scriptID, debug)
	if len(errs) > 0 {
		return &compiler.CompilationResult{Errors: errs, Samples: samples}
	}

	result := compiler.NewSuccess(bytecode)
	result.Samples = samples
	return result
}

// resolver compiles the scripts of one GenerateBytecode call.
type resolver struct {
	cfg  *compiler.Configuration
	data compiler.CompilationData
	// stack holds the scripts being compiled, to detect reference cycles.
	stack []string
}

func (r *resolver) compileScript(
	scriptID string, withSamples bool,
) ([]byte, []compiler.Sample, []compiler.CompilationError) {
	source, ok := r.cfg.Scripts[scriptID]
	if !ok {
		return nil, nil, []compiler.CompilationError{{
			Message: fmt.Sprintf(
				"No script with an ID of %q was provided in the compiler configuration.",
				scriptID,
			),
		}}
	}

	r.stack = append(r.stack, scriptID)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	tokens, err := tokenize(source)
	if err != nil {
		return nil, nil, []compiler.CompilationError{*err}
	}
	nodes, err := parse(tokens)
	if err != nil {
		return nil, nil, []compiler.CompilationError{*err}
	}

	src := []rune(source)
	bytecode := make([]byte, 0)
	var samples []compiler.Sample
	errs := make([]compiler.CompilationError, 0)
	for _, n := range nodes {
		b, nodeErrs := r.evaluate(n)
		if len(nodeErrs) > 0 {
			errs = append(errs, nodeErrs...)
			continue
		}
		bytecode = append(bytecode, b...)
		if withSamples {
			samples = append(samples, compiler.Sample{
				Range:    n.rng,
				Source:   string(src[n.start:n.end]),
				Bytecode: b,
			})
		}
	}

	if len(errs) > 0 {
		return nil, samples, errs
	}
	return bytecode, samples, nil
}

func (r *resolver) evaluate(n node) ([]byte, []compiler.CompilationError) {
	fail := func(format string, args ...interface{}) ([]byte, []compiler.CompilationError) {
		return nil, []compiler.CompilationError{{
			Message: fmt.Sprintf(format, args...),
			Range:   n.rng,
		}}
	}

	switch n.tok.kind {
	case tokenPushOpen:
		inner := make([]byte, 0)
		errs := make([]compiler.CompilationError, 0)
		for _, child := range n.children {
			b, childErrs := r.evaluate(child)
			errs = append(errs, childErrs...)
			inner = append(inner, b...)
		}
		if len(errs) > 0 {
			return nil, errs
		}
		script, err := txscript.NewScriptBuilder().AddData(inner).Script()
		if err != nil {
			return fail("Invalid push: %s.", err)
		}
		return script, nil

	case tokenHex:
		b, err := hex.DecodeString(n.tok.text[2:])
		if err != nil {
			return fail(
				"Improperly formatted hex literal %q: hex literals must "+
					"contain an even number of hex characters.", n.tok.text,
			)
		}
		return b, nil

	case tokenString:
		return []byte(n.tok.text[1 : len(n.tok.text)-1]), nil

	case tokenNumber:
		v, err := strconv.ParseInt(n.tok.text, 10, 64)
		if err != nil {
			return fail("Number %s is out of range.", n.tok.text)
		}
		return encodeScriptNumber(v), nil

	case tokenWord:
		b, err := r.resolveIdentifier(n.tok.text)
		if err != nil {
			return fail("%s", err)
		}
		return b, nil

	default:
		return fail("Unexpected token %q.", n.tok.text)
	}
}

func (r *resolver) resolveIdentifier(id string) ([]byte, error) {
	if strings.HasPrefix(id, "OP_") {
		if opcode, ok := opcodeByName(id); ok {
			return []byte{opcode}, nil
		}
		return nil, fmt.Errorf("Unknown opcode %q.", id)
	}

	switch id {
	case builtinBlockHeight:
		if r.data.CurrentBlockHeight == nil {
			return nil, fmt.Errorf(
				"Cannot resolve %q - the \"currentBlockHeight\" property was "+
					"not provided in the compilation data.", id,
			)
		}
		return encodeScriptNumber(*r.data.CurrentBlockHeight), nil
	case builtinBlockTime:
		if r.data.CurrentBlockTime == nil {
			return nil, fmt.Errorf(
				"Cannot resolve %q - the \"currentBlockTime\" property was "+
					"not provided in the compilation data.", id,
			)
		}
		return encodeScriptNumber(*r.data.CurrentBlockTime), nil
	}

	variableID, operation := id, ""
	if i := strings.Index(id, "."); i >= 0 {
		variableID, operation = id[:i], id[i+1:]
	}
	if variable, ok := r.cfg.Variables[variableID]; ok {
		return r.resolveVariable(id, variableID, operation, variable)
	}

	if _, ok := r.cfg.Scripts[id]; ok {
		for _, scriptID := range r.stack {
			if scriptID == id {
				path := append(append([]string{}, r.stack...), id)
				return nil, fmt.Errorf(
					"Script %q references itself: %s.", id, strings.Join(path, " → "),
				)
			}
		}
		bytecode, _, errs := r.compileScript(id, false)
		if len(errs) > 0 {
			return nil, fmt.Errorf(
				"Compilation error in resolved script %q: %s",
				id, compiler.StringifyErrors(errs),
			)
		}
		return bytecode, nil
	}

	if bytecode, ok := r.data.Bytecode[id]; ok {
		return bytecode, nil
	}

	return nil, fmt.Errorf("Unknown identifier %q.", id)
}

// opcodeByName looks up BCH opcode names first, then those known to txscript.
func opcodeByName(name string) (byte, bool) {
	if opcode, ok := bchOpcodes[name]; ok {
		return opcode, true
	}
	opcode, ok := txscript.OpcodeByName[name]
	return opcode, ok
}

// bchOpcodes are the opcodes whose name or meaning on BCH differs from
// Bitcoin.
var bchOpcodes = map[string]byte{
	"OP_SPLIT":                 0x7f,
	"OP_NUM2BIN":               0x80,
	"OP_BIN2NUM":               0x81,
	"OP_CHECKDATASIG":          0xba,
	"OP_CHECKDATASIGVERIFY":    0xbb,
	"OP_REVERSEBYTES":          0xbc,
	"OP_INPUTINDEX":            0xc0,
	"OP_ACTIVEBYTECODE":        0xc1,
	"OP_TXVERSION":             0xc2,
	"OP_TXINPUTCOUNT":          0xc3,
	"OP_TXOUTPUTCOUNT":         0xc4,
	"OP_TXLOCKTIME":            0xc5,
	"OP_UTXOVALUE":             0xc6,
	"OP_UTXOBYTECODE":          0xc7,
	"OP_OUTPOINTTXHASH":        0xc8,
	"OP_OUTPOINTINDEX":         0xc9,
	"OP_INPUTBYTECODE":         0xca,
	"OP_INPUTSEQUENCENUMBER":   0xcb,
	"OP_OUTPUTVALUE":           0xcc,
	"OP_OUTPUTBYTECODE":        0xcd,
	"OP_UTXOTOKENCATEGORY":     0xce,
	"OP_UTXOTOKENCOMMITMENT":   0xcf,
	"OP_UTXOTOKENAMOUNT":       0xd0,
	"OP_OUTPUTTOKENCATEGORY":   0xd1,
	"OP_OUTPUTTOKENCOMMITMENT": 0xd2,
	"OP_OUTPUTTOKENAMOUNT":     0xd3,
}

// encodeScriptNumber returns the minimal script number encoding of n:
// little-endian magnitude with the sign in the most significant bit.
func encodeScriptNumber(n int64) []byte {
	if n == 0 {
		return []byte{}
	}

	negative := n < 0
	magnitude := uint64(n)
	if negative {
		magnitude = uint64(-(n + 1)) + 1
	}

	result := make([]byte, 0, 9)
	for magnitude > 0 {
		result = append(result, byte(magnitude&0xff))
		magnitude >>= 8
	}

	last := len(result) - 1
	switch {
	case result[last]&0x80 != 0 && negative:
		result = append(result, 0x80)
	case result[last]&0x80 != 0:
		result = append(result, 0x00)
	case negative:
		result[last] |= 0x80
	}
	return result
}
