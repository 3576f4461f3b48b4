package types

import (
	"crypto/ed25519"
	"encoding/binary"
	"encoding/hex"
)

// Block is a signed, ordered collection of transactions committed at a
// specific height, chained to its parent by ParentHash.
type Block struct {
	Idx        uint64 `json:"idx"`
	Validator  string `json:"validator"`
	ParentHash string `json:"parent_hash"`
	MerkleRoot string `json:"merkle_root"`
	Txs        []Tx   `json:"txs"`
	Signature  string `json:"signature"`
}

// ComputeMerkleRoot hashes tx.hash() for every tx (via sha256, pairwise,
// duplicating the last element on odd counts) and returns the root. An
// empty tx set roots to all-zero bytes.
func ComputeMerkleRoot(txs []Tx) string {
	if len(txs) == 0 {
		return ZeroHash.Base58()
	}

	leaves := make([][HashSize]byte, len(txs))
	for i, tx := range txs {
		h, err := HashFromBase58(tx.Hash)
		if err != nil {
			// A tx with a malformed hash cannot contribute a meaningful
			// leaf; treat it as the zero hash so validation downstream
			// (which recomputes from the same txs) still disagrees
			// deterministically with any tampered record.
			h = ZeroHash
		}
		leaves[i] = h
	}

	level := leaves
	for len(level) > 1 {
		var next [][HashSize]byte
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				sum := Sum256Concat(level[i][:], level[i+1][:])
				next = append(next, sum)
			} else {
				sum := Sum256Concat(level[i][:], level[i][:])
				next = append(next, sum)
			}
		}
		level = next
	}

	return Hash(level[0]).Base58()
}

// BlockHash returns H(idx-BE ‖ validator ‖ parent_hash ‖ merkle_root), base58.
func (b Block) BlockHash() string {
	idxBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(idxBuf, b.Idx)
	sum := Sum256Concat(idxBuf, []byte(b.Validator), []byte(b.ParentHash), []byte(b.MerkleRoot))
	return sum.Base58()
}

// LastEventHash returns the hash of the block's last tx, or "" if the block
// has no transactions — used to seed the next block's mempool prev-hash
// cursor.
func (b Block) LastEventHash() string {
	if len(b.Txs) == 0 {
		return ""
	}
	return b.Txs[len(b.Txs)-1].Hash
}

// NewBlock assembles, computes the merkle root of, and signs a new block.
func NewBlock(validator string, priv ed25519.PrivateKey, idx uint64, parentHash string, txs []Tx) Block {
	b := Block{
		Idx:        idx,
		Validator:  validator,
		ParentHash: parentHash,
		MerkleRoot: ComputeMerkleRoot(txs),
		Txs:        txs,
	}
	hash := b.BlockHash()
	sig := ed25519.Sign(priv, []byte(hash))
	b.Signature = hex.EncodeToString(sig)
	return b
}

// NewGenesisBlock assembles block 0: fixed validator/parent-hash sentinels,
// literal "GENESIS" signature, no real signing key required.
func NewGenesisBlock(txs []Tx) Block {
	return Block{
		Idx:        0,
		Validator:  GenesisValidator,
		ParentHash: GenesisParentHash,
		MerkleRoot: ComputeMerkleRoot(txs),
		Txs:        txs,
		Signature:  GenesisSignature,
	}
}

// Valid reports whether the merkle root matches the txs, every tx is
// individually valid, and the validator's signature verifies against the
// block hash. Genesis (Idx == 0, Signature == "GENESIS") bypasses the
// signature check, matching its transactions' own bypass.
func (b Block) Valid() bool {
	if b.MerkleRoot != ComputeMerkleRoot(b.Txs) {
		return false
	}
	for _, tx := range b.Txs {
		if !tx.Valid() {
			return false
		}
	}
	if b.Idx == 0 && b.Signature == GenesisSignature {
		return true
	}

	pubBytes, err := DecodeBase58(b.Validator)
	if err != nil || len(pubBytes) != ed25519.PublicKeySize {
		return false
	}
	sigBytes, err := hex.DecodeString(b.Signature)
	if err != nil {
		return false
	}
	hash := b.BlockHash()
	return ed25519.Verify(ed25519.PublicKey(pubBytes), []byte(hash), sigBytes)
}
