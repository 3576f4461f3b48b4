package validator

import (
	"context"
	"crypto/ed25519"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/stakenet/snd/pkg/core/types"
	"github.com/stakenet/snd/pkg/mempool"
	"github.com/stakenet/snd/pkg/storage"
)

// TickInterval is the period between block-proposal attempts.
const TickInterval = 12 * time.Second

// publishQueueSize bounds the backlog between block production and P2P
// gossip. A slow gossip layer drops the oldest-pending publish rather than
// stalling block production.
const publishQueueSize = 100

// Ticker drives periodic leader election and, when this node is elected,
// block production: it commits the new block to storage, refreshes the
// mempool snapshot, and hands the block off for gossip.
type Ticker struct {
	wallet string
	priv   ed25519.PrivateKey

	store *storage.Store
	state *mempool.State

	publish chan types.Block

	log zerolog.Logger
}

// NewTicker builds a Ticker for wallet, signing produced blocks with priv.
func NewTicker(wallet string, priv ed25519.PrivateKey, store *storage.Store, state *mempool.State, log zerolog.Logger) *Ticker {
	return &Ticker{
		wallet:  wallet,
		priv:    priv,
		store:   store,
		state:   state,
		publish: make(chan types.Block, publishQueueSize),
		log:     log.With().Str("component", "validator").Logger(),
	}
}

// Published is the channel new, locally-produced blocks are delivered on
// for the P2P layer to gossip. Never closed while the Ticker is running.
func (t *Ticker) Published() <-chan types.Block {
	return t.publish
}

// Run blocks until ctx is cancelled, attempting a proposal every
// TickInterval.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := t.tick(); err != nil {
				t.log.Error().Err(err).Msg("validator tick failed")
			}
		}
	}
}

func (t *Ticker) tick() error {
	latest, err := t.store.LatestBlock()
	latestHash := ""
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return errors.Wrap(err, "load latest block")
		}
	} else {
		latestHash = latest.BlockHash()
	}

	accounts, err := t.store.SnapshotAccounts()
	if err != nil {
		return errors.Wrap(err, "snapshot accounts")
	}

	elected, err := Elect(latestHash, accounts)
	if err != nil {
		if errors.Is(err, ErrNoStake) {
			t.log.Debug().Msg("no stake in the network, skipping tick")
			return nil
		}
		return err
	}

	block := t.state.NewBlock(elected, t.priv)
	if block == nil {
		t.log.Debug().Str("elected", elected).Msg("not elected this tick")
		return nil
	}

	if err := t.store.AddBlock(*block); err != nil {
		return errors.Wrap(err, "commit produced block")
	}

	refreshed, err := t.store.SnapshotAccounts()
	if err != nil {
		return errors.Wrap(err, "snapshot accounts after commit")
	}
	t.state.Update(block.BlockHash(), block.Idx+1, block.LastEventHash(), refreshed)

	t.log.Info().Uint64("height", block.Idx).Int("txs", len(block.Txs)).Msg("produced block")

	select {
	case t.publish <- *block:
	default:
		select {
		case <-t.publish:
		default:
		}
		select {
		case t.publish <- *block:
		default:
		}
		t.log.Warn().Uint64("height", block.Idx).Msg("publish queue full, dropped oldest pending block broadcast")
	}
	return nil
}
