package transactionutil

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/tdex-network/template-scenarios/pkg/compiler"
)

// DefaultVerifyFlags are the script flags Verify is usually called with.
const DefaultVerifyFlags = txscript.ScriptBip16 |
	txscript.ScriptVerifyStrictEncoding |
	txscript.ScriptVerifyMinimalData |
	txscript.ScriptVerifyCleanStack |
	txscript.ScriptVerifySigPushOnly

// ErrInputIndexOutOfRange ...
var ErrInputIndexOutOfRange = errors.New("program input index is out of range")

// Verify evaluates the input under test of program against the source
// output it spends. Locking scripts are evaluated without their token
// prefix.
func Verify(program compiler.Program, flags txscript.ScriptFlags) error {
	tx := program.Transaction
	if program.InputIndex < 0 ||
		program.InputIndex >= len(tx.Inputs) ||
		program.InputIndex >= len(program.SourceOutputs) {
		return ErrInputIndexOutOfRange
	}
	if len(tx.Inputs) != len(program.SourceOutputs) {
		return fmt.Errorf(
			"program has %d inputs but %d source outputs",
			len(tx.Inputs), len(program.SourceOutputs),
		)
	}

	msgTx, err := ToMsgTx(tx)
	if err != nil {
		return err
	}

	prevOutFetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, txIn := range msgTx.TxIn {
		out := program.SourceOutputs[i]
		if _, err := toTxOut(out); err != nil {
			return fmt.Errorf("source output %d: %w", i, err)
		}
		prevOutFetcher.AddPrevOut(
			txIn.PreviousOutPoint,
			wire.NewTxOut(int64(out.ValueSatoshis), out.LockingBytecode),
		)
	}

	spent := program.SourceOutputs[program.InputIndex]
	vm, err := txscript.NewEngine(
		spent.LockingBytecode, msgTx, program.InputIndex, flags, nil,
		txscript.NewTxSigHashes(msgTx, prevOutFetcher),
		int64(spent.ValueSatoshis), prevOutFetcher,
	)
	if err != nil {
		return err
	}
	return vm.Execute()
}
