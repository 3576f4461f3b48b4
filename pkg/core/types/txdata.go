package types

import (
	"encoding/binary"
	"encoding/hex"

	"crypto/ed25519"
)

// TxData is the signed payload of a transaction: a transfer of amount (plus
// fee) from one wallet to another, guarded by a strictly-increasing nonce.
type TxData struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    Decimal `json:"amount"`
	Fee       Decimal `json:"fee"`
	Nonce     uint64  `json:"nonce"`
	Signature string  `json:"signature"`
}

// Hash returns H(from ‖ to ‖ amount-as-string ‖ nonce-BE-u64), the message
// the sender's signature covers.
func (t TxData) Hash() Hash {
	nonceBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(nonceBuf, t.Nonce)
	return Sum256Concat([]byte(t.From), []byte(t.To), []byte(t.Amount.String()), nonceBuf)
}

// Valid decodes From as an ed25519 public key and verifies Signature
// against Hash(). Genesis transactions bypass this check entirely (see
// Tx.Valid), so this is only ever called for non-genesis data.
func (t TxData) Valid() bool {
	pubBytes, err := DecodeBase58(t.From)
	if err != nil || len(pubBytes) != ed25519.PublicKeySize {
		return false
	}
	sigBytes, err := hex.DecodeString(t.Signature)
	if err != nil {
		return false
	}
	msg := t.Hash()
	return ed25519.Verify(ed25519.PublicKey(pubBytes), msg[:], sigBytes)
}

// Sign computes Hash() and signs it with priv, filling in Signature.
func (t *TxData) Sign(priv ed25519.PrivateKey) {
	msg := t.Hash()
	sig := ed25519.Sign(priv, msg[:])
	t.Signature = hex.EncodeToString(sig)
}
