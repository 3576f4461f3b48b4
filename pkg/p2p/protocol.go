package p2p

import (
	"github.com/libp2p/go-libp2p/core/protocol"

	"github.com/stakenet/snd/pkg/core/types"
)

// NewBlockTopic is the gossipsub topic committed blocks are broadcast on.
const NewBlockTopic = "new_block"

// Single-message request/response protocols. Each is a closed, JSON-framed
// exchange over its own stream.
const (
	ProtocolGetNonce  = protocol.ID("/get-nonce/0.0.1")
	ProtocolFindBlock = protocol.ID("/find-block/0.0.1")
	ProtocolAddTx     = protocol.ID("/add-tx/0.0.1")
	ProtocolGetFee    = protocol.ID("/get-fee/0.0.1")
)

type getNonceRequest struct {
	Wallet string `json:"wallet"`
}

type getNonceResponse struct {
	Account *types.Account `json:"account,omitempty"`
}

type findBlockRequest struct {
	Idx uint64 `json:"idx"`
}

type findBlockResponse struct {
	Block *types.Block `json:"block,omitempty"`
}

type addTxResponse struct {
	Data  *types.Tx `json:"data,omitempty"`
	Error string    `json:"error,omitempty"`
}

type getFeeRequest struct{}

type getFeeResponse struct {
	Fee types.Decimal `json:"fee"`
}
