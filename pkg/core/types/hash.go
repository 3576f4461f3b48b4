package types

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// HashSize is the length of all raw hashes in bytes.
const HashSize = 32

// Hash represents a 32-byte hash (SHA-256), textually base58-encoded
// wherever it is embedded in a Tx, Block or wallet address.
type Hash [HashSize]byte

// ZeroHash is the all-zeroes hash, used as a genesis-block parent hash and
// as the merkle root of an empty transaction set.
var ZeroHash Hash

// HashFromBytes creates a Hash from a byte slice. Returns error if len != 32.
func HashFromBytes(b []byte) (Hash, error) {
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// HashFromBase58 decodes a base58 string into a Hash.
func HashFromBase58(s string) (Hash, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid base58: %w", err)
	}
	return HashFromBytes(b)
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// Base58 returns the base58-encoded string form of the hash.
func (h Hash) Base58() string {
	return base58.Encode(h[:])
}

// String implements fmt.Stringer as the base58 form, matching how hashes
// are embedded in entities and logged.
func (h Hash) String() string {
	return h.Base58()
}

// IsZero returns true if every byte is 0x00.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Sum256Concat hashes the concatenation of its arguments with SHA-256. Used
// throughout the ledger for chained hash commitments (tx hash, block hash).
func Sum256Concat(parts ...[]byte) Hash {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// EncodeBase58 base58-encodes raw bytes.
func EncodeBase58(b []byte) string {
	return base58.Encode(b)
}

// DecodeBase58 decodes a base58 string back into raw bytes.
func DecodeBase58(s string) ([]byte, error) {
	return base58.Decode(s)
}
