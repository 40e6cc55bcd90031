package compiler

import "math/big"

// CompilationData is the set of resolved values a Compiler may read.
type CompilationData struct {
	// Bytecode maps identifiers to precompiled bytecode.
	Bytecode           map[string][]byte
	CurrentBlockHeight *int64
	CurrentBlockTime   *int64
	HdKeys             *HdKeys
	Keys               *Keys
	// CompilationContext is only set when compiling input scripts.
	CompilationContext *CompilationContext
}

// HdKeys holds encoded HD keys indexed by entity id.
type HdKeys struct {
	AddressIndex  *uint32
	HdPublicKeys  map[string]string
	HdPrivateKeys map[string]string
}

// Keys holds raw private keys indexed by variable id.
type Keys struct {
	PrivateKeys map[string][]byte
}

// CompilationContext is the transaction an input script is compiled for.
type CompilationContext struct {
	InputIndex    int
	SourceOutputs []Output
	Transaction   Transaction
}

// Token holds the CashTokens of an output.
type Token struct {
	Amount   *big.Int
	Category []byte
	NFT      *NFT
}

// NFT is a non-fungible token.
type NFT struct {
	Capability string
	Commitment []byte
}

// Output is a compiled transaction output.
type Output struct {
	LockingBytecode []byte
	ValueSatoshis   uint64
	Token           *Token
}

// Input is a compiled transaction input. OutpointTransactionHash is in
// big-endian (display) byte order.
type Input struct {
	OutpointIndex           uint32
	OutpointTransactionHash []byte
	SequenceNumber          uint32
	UnlockingBytecode       []byte
}

// Transaction is a compiled transaction.
type Transaction struct {
	Inputs   []Input
	Locktime uint32
	Outputs  []Output
	Version  uint32
}

// Program is a transaction together with the outputs it spends and the index
// of the input under test.
type Program struct {
	InputIndex    int
	SourceOutputs []Output
	Transaction   Transaction
}
