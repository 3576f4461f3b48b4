package p2p

import (
	"context"
	"encoding/json"

	"github.com/stakenet/snd/pkg/core/types"
)

// PublishBlocks forwards every block the validator ticker produces onto
// the new_block gossip topic until blocks is closed or ctx is cancelled.
func (n *Node) PublishBlocks(ctx context.Context, blocks <-chan types.Block) {
	for {
		select {
		case <-ctx.Done():
			return
		case block, ok := <-blocks:
			if !ok {
				return
			}
			data, err := json.Marshal(block)
			if err != nil {
				n.log.Error().Err(err).Msg("marshal block for gossip")
				continue
			}
			if err := n.topic.Publish(ctx, data); err != nil {
				n.log.Warn().Err(err).Uint64("height", block.Idx).Msg("publish block")
			}
		}
	}
}

// RunGossipLoop reads committed blocks announced by other nodes and
// attempts to commit them locally. Invalid or out-of-order blocks are
// logged and dropped rather than crashing the loop.
func (n *Node) RunGossipLoop(ctx context.Context, onCommit func(block types.Block)) error {
	for {
		msg, err := n.sub.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if msg.ReceivedFrom == n.host.ID() {
			continue
		}

		var block types.Block
		if err := json.Unmarshal(msg.Data, &block); err != nil {
			n.log.Warn().Err(err).Msg("decode gossiped block")
			continue
		}

		if err := n.store.AddBlock(block); err != nil {
			n.log.Info().Err(err).Uint64("height", block.Idx).Msg("dropped invalid gossiped block")
			continue
		}

		n.log.Info().Uint64("height", block.Idx).Str("from", msg.ReceivedFrom.String()).Msg("committed gossiped block")
		onCommit(block)
	}
}
