package transactionutil

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/tdex-network/template-scenarios/pkg/bufferutil"
	"github.com/tdex-network/template-scenarios/pkg/compiler"
)

const (
	tokenPrefix = 0xef

	tokenHasCommitmentLength = 0x40
	tokenHasNFT              = 0x20
	tokenHasAmount           = 0x10

	categorySize = 32
)

var (
	// ErrInvalidOutpointHash ...
	ErrInvalidOutpointHash = errors.New("outpoint transaction hash must be 32 bytes")
	// ErrInvalidTokenCategory ...
	ErrInvalidTokenCategory = errors.New("token category must be 32 bytes")
	// ErrInvalidTokenAmount ...
	ErrInvalidTokenAmount = errors.New(
		"token amount must be between 0 and 9223372036854775807",
	)
	// ErrInvalidCapability ...
	ErrInvalidCapability = errors.New(
		"nft capability must be one of none, mutable, minting",
	)
	// ErrInvalidValue ...
	ErrInvalidValue = errors.New("output value exceeds the maximum int64")

	capabilities = map[string]byte{
		"none":    0x00,
		"mutable": 0x01,
		"minting": 0x02,
	}
)

// ToMsgTx converts a compiled transaction into a wire.MsgTx. The locking
// script of every output carrying tokens is prefixed with its token prefix,
// the way it is serialized on the network.
func ToMsgTx(tx compiler.Transaction) (*wire.MsgTx, error) {
	msgTx := wire.NewMsgTx(int32(tx.Version))
	msgTx.LockTime = tx.Locktime

	for i, in := range tx.Inputs {
		outpoint, err := toOutPoint(in)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		txIn := wire.NewTxIn(outpoint, in.UnlockingBytecode, nil)
		txIn.Sequence = in.SequenceNumber
		msgTx.AddTxIn(txIn)
	}

	for i, out := range tx.Outputs {
		txOut, err := toTxOut(out)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		msgTx.AddTxOut(txOut)
	}
	return msgTx, nil
}

// EncodeTokenPrefix returns the token prefix of token, or an empty slice if
// token is nil.
func EncodeTokenPrefix(token *compiler.Token) ([]byte, error) {
	if token == nil {
		return []byte{}, nil
	}
	if len(token.Category) != categorySize {
		return nil, ErrInvalidTokenCategory
	}

	bitfield := byte(0)
	var commitment []byte
	if nft := token.NFT; nft != nil {
		capability, ok := capabilities[nft.Capability]
		if !ok {
			return nil, ErrInvalidCapability
		}
		bitfield |= tokenHasNFT | capability
		if len(nft.Commitment) > 0 {
			bitfield |= tokenHasCommitmentLength
			commitment = nft.Commitment
		}
	}

	var amount uint64
	if token.Amount != nil && token.Amount.Sign() != 0 {
		if token.Amount.Sign() < 0 || !token.Amount.IsInt64() {
			return nil, ErrInvalidTokenAmount
		}
		amount = token.Amount.Uint64()
		bitfield |= tokenHasAmount
	}

	prefix := make([]byte, 0, 2+categorySize+18+len(commitment))
	prefix = append(prefix, tokenPrefix)
	prefix = append(prefix, bufferutil.ReverseBytes(token.Category)...)
	prefix = append(prefix, bitfield)
	if len(commitment) > 0 {
		prefix = appendVarInt(prefix, uint64(len(commitment)))
		prefix = append(prefix, commitment...)
	}
	if bitfield&tokenHasAmount != 0 {
		prefix = appendVarInt(prefix, amount)
	}
	return prefix, nil
}

func toOutPoint(in compiler.Input) (*wire.OutPoint, error) {
	if len(in.OutpointTransactionHash) != chainhash.HashSize {
		return nil, ErrInvalidOutpointHash
	}
	hash, err := chainhash.NewHash(bufferutil.ReverseBytes(in.OutpointTransactionHash))
	if err != nil {
		return nil, err
	}
	return wire.NewOutPoint(hash, in.OutpointIndex), nil
}

func toTxOut(out compiler.Output) (*wire.TxOut, error) {
	if out.ValueSatoshis > math.MaxInt64 {
		return nil, ErrInvalidValue
	}
	prefix, err := EncodeTokenPrefix(out.Token)
	if err != nil {
		return nil, err
	}
	script := make([]byte, 0, len(prefix)+len(out.LockingBytecode))
	script = append(script, prefix...)
	script = append(script, out.LockingBytecode...)
	return wire.NewTxOut(int64(out.ValueSatoshis), script), nil
}

// appendVarInt appends the CompactSize encoding of n.
func appendVarInt(buf []byte, n uint64) []byte {
	var b bytes.Buffer
	// writes to a bytes.Buffer never fail
	_ = wire.WriteVarInt(&b, 0, n)
	return append(buf, b.Bytes()...)
}
