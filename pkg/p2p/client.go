package p2p

import (
	"context"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/pkg/errors"

	"github.com/stakenet/snd/pkg/core/types"
)

// Client is the façade used by the RPC layer and CLI tools to reach the
// swarm: dial peers, resolve providers, and issue the four request/response
// calls against a specific remote validator.
type Client struct {
	node *Node
}

// NewClient wraps node in the Client façade.
func NewClient(node *Node) *Client {
	return &Client{node: node}
}

// LocalPeerID returns this node's own libp2p peer id.
func (c *Client) LocalPeerID() peer.ID {
	return c.node.host.ID()
}

// Dial connects to a peer described by a full multiaddr (including its
// /p2p/<id> suffix).
func (c *Client) Dial(ctx context.Context, info peer.AddrInfo) error {
	return c.node.host.Connect(ctx, info)
}

// StartProviding advertises this node as a provider of key on the DHT.
func (c *Client) StartProviding(ctx context.Context, key string) error {
	return c.node.dht.Provide(ctx, contentID(key), true)
}

// GetProviders resolves the current providers of key via the DHT.
func (c *Client) GetProviders(ctx context.Context, key string) ([]peer.AddrInfo, error) {
	providersCh := c.node.dht.FindProvidersAsync(ctx, contentID(key), 0)
	var out []peer.AddrInfo
	for p := range providersCh {
		out = append(out, p)
	}
	return out, nil
}

// GetAccount asks peerID for the named wallet's account via /get-nonce.
func (c *Client) GetAccount(ctx context.Context, peerID peer.ID, wallet string) (*types.Account, error) {
	var resp getNonceResponse
	if err := c.node.request(ctx, peerID, ProtocolGetNonce, getNonceRequest{Wallet: wallet}, &resp); err != nil {
		return nil, errors.Wrap(err, "get-nonce")
	}
	return resp.Account, nil
}

// FindBlock asks peerID for the block at height idx via /find-block.
func (c *Client) FindBlock(ctx context.Context, peerID peer.ID, idx uint64) (*types.Block, error) {
	var resp findBlockResponse
	if err := c.node.request(ctx, peerID, ProtocolFindBlock, findBlockRequest{Idx: idx}, &resp); err != nil {
		return nil, errors.Wrap(err, "find-block")
	}
	return resp.Block, nil
}

// AddTx forwards data to peerID's mempool via /add-tx, used when the
// current validator is not this node.
func (c *Client) AddTx(ctx context.Context, peerID peer.ID, data types.TxData) (*types.Tx, error) {
	var resp addTxResponse
	if err := c.node.request(ctx, peerID, ProtocolAddTx, data, &resp); err != nil {
		return nil, errors.Wrap(err, "add-tx")
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	return resp.Data, nil
}

// GetFee asks peerID for its current mempool fee floor via /get-fee.
func (c *Client) GetFee(ctx context.Context, peerID peer.ID) (types.Decimal, error) {
	var resp getFeeResponse
	if err := c.node.request(ctx, peerID, ProtocolGetFee, getFeeRequest{}, &resp); err != nil {
		return types.ZeroDecimal, errors.Wrap(err, "get-fee")
	}
	return resp.Fee, nil
}
