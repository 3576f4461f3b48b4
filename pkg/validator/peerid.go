package validator

import (
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/pkg/errors"

	"github.com/stakenet/snd/pkg/core/types"
)

// PeerIDFromWallet decodes a base58 wallet address (an ed25519 public key)
// and derives the libp2p peer id it corresponds to, so the RPC layer can
// forward a request to whichever node is currently elected validator.
func PeerIDFromWallet(wallet string) (peer.ID, error) {
	raw, err := types.DecodeBase58(wallet)
	if err != nil {
		return "", errors.Wrap(err, "decode wallet address")
	}
	pub, err := crypto.UnmarshalEd25519PublicKey(raw)
	if err != nil {
		return "", errors.Wrap(err, "unmarshal public key")
	}
	return peer.IDFromPublicKey(pub)
}
