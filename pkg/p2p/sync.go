package p2p

import (
	"context"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/pkg/errors"

	"github.com/stakenet/snd/pkg/storage"
)

// SyncFromPeer catches the local chain up with peerID linearly: repeatedly
// ask for the next missing block and commit it, stopping as soon as the
// peer has nothing more to offer or a fetched block fails to commit. This
// never resolves forks; it only follows one peer's chain from wherever the
// local store currently stands.
func (c *Client) SyncFromPeer(ctx context.Context, peerID peer.ID, onCommit func()) error {
	for {
		next, err := c.nextIndex()
		if err != nil {
			return err
		}

		block, err := c.FindBlock(ctx, peerID, next)
		if err != nil {
			return errors.Wrap(err, "find-block during sync")
		}
		if block == nil {
			return nil
		}

		if err := c.node.store.AddBlock(*block); err != nil {
			c.node.log.Warn().Err(err).Uint64("idx", next).Msg("sync: peer block rejected, stopping")
			return nil
		}
		onCommit()
	}
}

func (c *Client) nextIndex() (uint64, error) {
	latest, err := c.node.store.LatestBlock()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return latest.Idx + 1, nil
}
