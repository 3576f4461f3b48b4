// Package mempool stages signed, validated-but-uncommitted transactions on
// top of a snapshot of the last committed accounts, gated by leader
// election at block-production time.
package mempool

import (
	"crypto/ed25519"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/stakenet/snd/pkg/core/ledger"
	"github.com/stakenet/snd/pkg/core/types"
)

// InitialFee is the base per-transaction fee floor before congestion.
var InitialFee = mustDecimal("0.00000000001")

func mustDecimal(s string) types.Decimal {
	d, err := types.NewDecimalFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// State is the mutex-guarded mempool: unconfirmed transactions staged on
// top of committed state, gated by stake-weighted leader election at
// block-production time.
type State struct {
	mu sync.Mutex

	validatorWallet string
	currentBlock    uint64
	prevBlockHash   string
	lastEventHash   string
	accounts        map[string]*types.Account
	pending         []types.Tx

	log zerolog.Logger
}

// New creates an empty mempool for validatorWallet. Call Update once at
// startup to seed it from storage before accepting transactions.
func New(validatorWallet string, log zerolog.Logger) *State {
	return &State{
		validatorWallet: validatorWallet,
		accounts:        make(map[string]*types.Account),
		log:             log.With().Str("component", "mempool").Logger(),
	}
}

// Update atomically replaces the committed-state snapshot after a block
// commits (or at startup, from storage). Pending transactions admitted
// under the old snapshot are discarded: Update empties the pending set.
func (s *State) Update(prevBlockHash string, nextBlockIdx uint64, lastEventHash string, accounts map[string]*types.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prevBlockHash = prevBlockHash
	s.currentBlock = nextBlockIdx
	s.lastEventHash = lastEventHash
	s.accounts = accounts
	s.pending = nil

	s.log.Debug().Uint64("height", nextBlockIdx).Msg("mempool snapshot refreshed")
}

// AddTx validates and admits TxData into the pending set, returning the
// chained Tx it was assembled into.
func (s *State) AddTx(data types.TxData) (types.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !data.Valid() {
		return types.Tx{}, fmt.Errorf("Invalid transaction")
	}

	if s.feeAmount(data).Cmp(s.currentFeeLocked()) < 0 {
		return types.Tx{}, fmt.Errorf("Fee is to low")
	}

	tx := types.NewTx(data, s.lastEventHash, s.currentBlock)

	if err := ledger.ApplyTx(s.validatorWallet, tx, s.accounts); err != nil {
		return types.Tx{}, err
	}

	s.pending = append(s.pending, tx)
	s.lastEventHash = tx.Hash

	s.log.Info().Str("hash", tx.Hash).Str("from", data.From).Msg("tx admitted to mempool")
	return tx, nil
}

// feeAmount computes amount/fee, or 0 if fee is zero. Preserved exactly as
// specified, including the inverted-looking ratio.
func (s *State) feeAmount(data types.TxData) types.Decimal {
	if data.Fee.IsZero() {
		return types.ZeroDecimal
	}
	return data.Amount.Div(data.Fee)
}

// GetAccount returns a snapshot copy of the named account, or nil if none
// exists.
func (s *State) GetAccount(wallet string) *types.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[wallet]
	if !ok {
		return nil
	}
	cp := *acc
	return &cp
}

// CurrentFee is InitialFee scaled by one plus the size of the pending set
// — the congestion-based floor every admitted transaction's fee must
// clear. An empty mempool floors at 1x; each already-pending tx raises the
// floor by another 1x.
func (s *State) CurrentFee() types.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentFeeLocked()
}

func (s *State) currentFeeLocked() types.Decimal {
	return InitialFee.MulInt64(int64(len(s.pending)) + 1)
}

// NewBlock drains pending into a signed Block if elected is this node's
// wallet, or returns nil (we are not leader this tick, a no-op).
func (s *State) NewBlock(elected string, priv ed25519.PrivateKey) *types.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elected != s.validatorWallet {
		return nil
	}

	txs := s.pending
	s.pending = nil

	block := types.NewBlock(s.validatorWallet, priv, s.currentBlock, s.prevBlockHash, txs)
	return &block
}
