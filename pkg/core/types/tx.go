package types

import "encoding/binary"

// Tx is a TxData chained into the ledger's hash history: prev_hash links it
// to its predecessor (the previous tx in the same block, or the last tx of
// the preceding block), and Hash commits to that linkage plus the block
// height it was assembled into.
type Tx struct {
	Data     TxData `json:"data"`
	PrevHash string `json:"prev_hash"`
	Block    uint64 `json:"block"`
	Hash     string `json:"hash"`
}

// ComputeHash returns H(prev_hash ‖ block-BE-u64 ‖ data.hash()), base58.
func (t Tx) ComputeHash() string {
	blockBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(blockBuf, t.Block)
	dataHash := t.Data.Hash()
	sum := Sum256Concat([]byte(t.PrevHash), blockBuf, dataHash[:])
	return sum.Base58()
}

// Valid reports whether the transaction's hash and signature are both
// correct. Genesis transactions (Block == 0) bypass the signature
// requirement entirely — they mint funds and carry the literal
// "GENESIS" signature.
func (t Tx) Valid() bool {
	if t.Block == 0 {
		return true
	}
	if t.Hash != t.ComputeHash() {
		return false
	}
	return t.Data.Valid()
}

// NewTx builds a chained Tx from signed data, a predecessor hash and the
// target block height, computing its own Hash.
func NewTx(data TxData, prevHash string, block uint64) Tx {
	tx := Tx{Data: data, PrevHash: prevHash, Block: block}
	tx.Hash = tx.ComputeHash()
	return tx
}
