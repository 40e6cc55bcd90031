package transactionutil

import (
	"fmt"

	"github.com/btcsuite/btcd/wire"
	"github.com/tdex-network/template-scenarios/pkg/compiler"
)

const (
	// version + locktime
	txBaseSize = 4 + 4
	// hash + index + sequence
	inBaseSize = 32 + 4 + 4
	// value
	outBaseSize = 8
)

// EstimateSize returns the serialized size in bytes of tx, token prefixes
// included. Unlocking scripts are counted as they are, so the estimation is
// exact only once every signature has been compiled.
func EstimateSize(tx compiler.Transaction) (int, error) {
	insSize := 0
	for _, in := range tx.Inputs {
		insSize += inBaseSize + scriptSize(len(in.UnlockingBytecode))
	}

	outsSize := 0
	for i, out := range tx.Outputs {
		prefix, err := EncodeTokenPrefix(out.Token)
		if err != nil {
			return -1, fmt.Errorf("output %d: %w", i, err)
		}
		outsSize += outBaseSize + scriptSize(len(prefix)+len(out.LockingBytecode))
	}

	return txBaseSize +
		wire.VarIntSerializeSize(uint64(len(tx.Inputs))) +
		wire.VarIntSerializeSize(uint64(len(tx.Outputs))) +
		insSize + outsSize, nil
}

// scriptSize is the size of a length-prefixed script of n bytes.
func scriptSize(n int) int {
	return wire.VarIntSerializeSize(uint64(n)) + n
}
