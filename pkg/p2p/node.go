// Package p2p wires the ledger into a libp2p swarm: gossipsub block
// broadcast, four single-message request/response protocols, and
// kademlia-backed peer discovery.
//
// The source this was adapted from ran a single cooperative event loop
// multiplexing swarm events, façade commands and outgoing blocks, with
// requests correlated to one-shot responders through an explicit pending-
// request id map — a shape forced by rust-libp2p's single-poll-loop Swarm.
// go-libp2p instead hands each inbound stream its own goroutine and lets an
// outbound request block its caller on that same stream, so request/response
// correlation falls out of the stream itself; the explicit id bookkeeping
// has no work left to do and is dropped rather than reproduced for its own
// sake.
package p2p

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"time"

	"github.com/libp2p/go-libp2p"
	dht "github.com/libp2p/go-libp2p-kad-dht"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/stakenet/snd/pkg/core/types"
	"github.com/stakenet/snd/pkg/mempool"
	"github.com/stakenet/snd/pkg/storage"
)

// heartbeatInterval is the gossipsub heartbeat period.
const heartbeatInterval = 10 * time.Second

// Node is the swarm-facing half of the network layer: it owns the libp2p
// host, the new_block gossip topic, the DHT used for peer discovery, and
// the four request/response protocol handlers that serve local state to
// remote peers.
type Node struct {
	host host.Host
	dht  *dht.IpfsDHT
	ps   *pubsub.PubSub

	topic *pubsub.Topic
	sub   *pubsub.Subscription

	store *storage.Store
	state *mempool.State

	log zerolog.Logger
}

// New starts a libp2p host listening on addr, identified by the node's
// signing key, joins the new_block gossip topic and registers the four
// request/response protocol handlers.
func New(ctx context.Context, addr string, signingKey ed25519.PrivateKey, store *storage.Store, state *mempool.State, log zerolog.Logger) (*Node, error) {
	priv, err := identityFromSigningKey(signingKey)
	if err != nil {
		return nil, errors.Wrap(err, "derive libp2p identity")
	}

	h, err := libp2p.New(
		libp2p.ListenAddrStrings(addr),
		libp2p.Identity(priv),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create libp2p host")
	}

	kad, err := dht.New(ctx, h, dht.Mode(dht.ModeServer))
	if err != nil {
		h.Close()
		return nil, errors.Wrap(err, "create dht")
	}

	gossipParams := pubsub.DefaultGossipSubParams()
	gossipParams.HeartbeatInterval = heartbeatInterval

	// Strict validation (signed messages, rejected on verification failure)
	// is gossipsub's default message-signing policy; no extra option needed.
	ps, err := pubsub.NewGossipSub(ctx, h, pubsub.WithGossipSubParams(gossipParams))
	if err != nil {
		h.Close()
		return nil, errors.Wrap(err, "create gossipsub")
	}

	topic, err := ps.Join(NewBlockTopic)
	if err != nil {
		h.Close()
		return nil, errors.Wrap(err, "join new_block topic")
	}
	sub, err := topic.Subscribe()
	if err != nil {
		h.Close()
		return nil, errors.Wrap(err, "subscribe new_block topic")
	}

	n := &Node{
		host:  h,
		dht:   kad,
		ps:    ps,
		topic: topic,
		sub:   sub,
		store: store,
		state: state,
		log:   log.With().Str("component", "p2p").Logger(),
	}
	n.registerProtocols()
	return n, nil
}

// Host exposes the underlying libp2p host, e.g. so callers can log its
// listen addresses and peer id.
func (n *Node) Host() host.Host { return n.host }

// Close tears down the swarm.
func (n *Node) Close() error {
	n.sub.Cancel()
	if err := n.topic.Close(); err != nil {
		n.log.Warn().Err(err).Msg("close topic")
	}
	if err := n.dht.Close(); err != nil {
		n.log.Warn().Err(err).Msg("close dht")
	}
	return n.host.Close()
}

func identityFromSigningKey(signingKey ed25519.PrivateKey) (crypto.PrivKey, error) {
	// stdlib ed25519.PrivateKey is the 64-byte seed||pub encoding, the same
	// raw layout go-libp2p's crypto package expects for Ed25519 keys.
	priv, err := crypto.UnmarshalEd25519PrivateKey(signingKey)
	if err != nil {
		return nil, err
	}
	return priv, nil
}

func (n *Node) registerProtocols() {
	n.host.SetStreamHandler(ProtocolGetNonce, n.handleGetNonce)
	n.host.SetStreamHandler(ProtocolFindBlock, n.handleFindBlock)
	n.host.SetStreamHandler(ProtocolAddTx, n.handleAddTx)
	n.host.SetStreamHandler(ProtocolGetFee, n.handleGetFee)
}

func (n *Node) handleGetNonce(s network.Stream) {
	defer s.Close()
	var req getNonceRequest
	if err := json.NewDecoder(s).Decode(&req); err != nil {
		n.log.Warn().Err(err).Msg("decode get-nonce request")
		return
	}
	acc := n.state.GetAccount(req.Wallet)
	n.reply(s, getNonceResponse{Account: acc})
}

func (n *Node) handleFindBlock(s network.Stream) {
	defer s.Close()
	var req findBlockRequest
	if err := json.NewDecoder(s).Decode(&req); err != nil {
		n.log.Warn().Err(err).Msg("decode find-block request")
		return
	}
	block, err := n.store.GetBlockByIdx(req.Idx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			n.log.Warn().Err(err).Uint64("idx", req.Idx).Msg("find-block lookup failed")
		}
		n.reply(s, findBlockResponse{})
		return
	}
	n.reply(s, findBlockResponse{Block: &block})
}

func (n *Node) handleAddTx(s network.Stream) {
	defer s.Close()
	var data types.TxData
	if err := json.NewDecoder(s).Decode(&data); err != nil {
		n.log.Warn().Err(err).Msg("decode add-tx request")
		return
	}
	tx, err := n.state.AddTx(data)
	if err != nil {
		n.reply(s, addTxResponse{Error: err.Error()})
		return
	}
	n.reply(s, addTxResponse{Data: &tx})
}

func (n *Node) handleGetFee(s network.Stream) {
	defer s.Close()
	var req getFeeRequest
	_ = json.NewDecoder(s).Decode(&req)
	n.reply(s, getFeeResponse{Fee: n.state.CurrentFee()})
}

func (n *Node) reply(s network.Stream, v interface{}) {
	if err := json.NewEncoder(s).Encode(v); err != nil {
		n.log.Warn().Err(err).Msg("write response")
	}
}

// request opens a stream to peerID on proto, writes req as JSON and decodes
// the single JSON response into resp.
func (n *Node) request(ctx context.Context, peerID peer.ID, proto protocol.ID, req, resp interface{}) error {
	s, err := n.host.NewStream(ctx, peerID, proto)
	if err != nil {
		return errors.Wrap(err, "open stream")
	}
	defer s.Close()

	if dl, ok := ctx.Deadline(); ok {
		s.SetDeadline(dl)
	}

	if err := json.NewEncoder(s).Encode(req); err != nil {
		return errors.Wrap(err, "write request")
	}
	s.CloseWrite()
	if err := json.NewDecoder(s).Decode(resp); err != nil {
		return errors.Wrap(err, "read response")
	}
	return nil
}
