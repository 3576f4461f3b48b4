package types

// Reserved wallet addresses. GenesisAddress is only valid as a Tx's "from"
// inside block 0; StakeAddress and UnstakeAddress are only valid as a
// Tx's "to", routing funds into and out of the sender's stake.
const (
	GenesisAddress = "GENESIS"
	StakeAddress   = "STAKE"
	UnstakeAddress = "UNSTAKE"
)

// GenesisValidator is the validator address recorded on the genesis block:
// base58 of 33 zero bytes (the size of a compressed public key).
var GenesisValidator = EncodeBase58(make([]byte, 33))

// GenesisParentHash is the parent hash recorded on the genesis block:
// base58 of 32 zero bytes.
var GenesisParentHash = EncodeBase58(make([]byte, HashSize))

// GenesisSignature is the literal signature value every genesis
// transaction and the genesis block itself carry.
const GenesisSignature = "GENESIS"
