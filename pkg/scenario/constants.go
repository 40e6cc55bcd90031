package scenario

const (
	// DefaultAddressIndex is the addressIndex of the default scenario.
	DefaultAddressIndex uint32 = 0
	// DefaultCurrentBlockHeight is the height of the second block mined after
	// the genesis block. It is low enough to simplify debugging of height
	// offsets while differing from 0 and 1.
	DefaultCurrentBlockHeight int64 = 2
	// DefaultCurrentBlockTime is the median time-past of block 2.
	DefaultCurrentBlockTime int64 = 1231469665
	// DefaultLocktime is the transaction locktime of the default scenario.
	DefaultLocktime uint32 = 0
	// DefaultVersion is the transaction version of the default scenario.
	// Version 2 enables OP_CHECKSEQUENCEVERIFY.
	DefaultVersion uint32 = 2
	// DefaultSequenceNumber is the sequence number of inputs without one.
	DefaultSequenceNumber uint32 = 0
	// DefaultValueSatoshis is the value of outputs without one.
	DefaultValueSatoshis uint64 = 0
	// DefaultOutpointTransactionHash is the outpoint hash of inputs without
	// one.
	DefaultOutpointTransactionHash = "0000000000000000000000000000000000000000000000000000000000000001"
	// DefaultTokenCategory is the category of tokens without one.
	DefaultTokenCategory = "0000000000000000000000000000000000000000000000000000000000000002"
	// DefaultNFTCapability is the capability of NFTs without one.
	DefaultNFTCapability = "none"
	// DefaultSlotBytecode is the hex bytecode used for a slot when no script
	// is under test.
	DefaultSlotBytecode = ""
	// ScenarioBytecodeScriptPrefix namespaces the scripts of a scenario's
	// data.bytecode among the template scripts. Scenario scripts refer to
	// each other using this prefix.
	ScenarioBytecodeScriptPrefix = "_scenario."

	// transactionOutputAddressIndex is the addressIndex used by default to
	// compile transaction outputs: change and receiving outputs use the next
	// address.
	transactionOutputAddressIndex uint32 = 1

	// defaultScenarioSeedSize is the size of the values assigned to Key
	// variables and entities by the default scenario.
	defaultScenarioSeedSize = 32
)
