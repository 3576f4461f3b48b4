package validator

import (
	"crypto/ed25519"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/stakenet/snd/pkg/core/types"
	"github.com/stakenet/snd/pkg/mempool"
	"github.com/stakenet/snd/pkg/storage"
)

func newTestKeypair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub, priv
}

func TestTickerProducesAndCommitsBlockWhenElected(t *testing.T) {
	store, err := storage.Open("", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	pub, priv := newTestKeypair(t)
	wallet := types.EncodeBase58(pub)

	genesisData := types.TxData{From: types.GenesisAddress, To: wallet, Amount: types.NewDecimalFromInt(1000), Fee: types.ZeroDecimal, Signature: types.GenesisSignature}
	genesisTx := types.NewTx(genesisData, "", 0)
	genesis := types.NewGenesisBlock([]types.Tx{genesisTx})
	require.NoError(t, store.AddBlock(genesis))

	// Stake everything so this wallet is the only possible elected validator.
	stakeData := types.TxData{From: wallet, To: types.StakeAddress, Amount: types.NewDecimalFromInt(1000), Fee: types.ZeroDecimal, Nonce: 1}
	stakeData.Sign(priv)
	stakeTx := types.NewTx(stakeData, genesis.LastEventHash(), 1)
	stakeBlock := types.NewBlock(wallet, priv, 1, genesis.BlockHash(), []types.Tx{stakeTx})
	require.NoError(t, store.AddBlock(stakeBlock))

	state := mempool.New(wallet, zerolog.Nop())
	accounts, err := store.SnapshotAccounts()
	require.NoError(t, err)
	latest, err := store.LatestBlock()
	require.NoError(t, err)
	state.Update(latest.BlockHash(), latest.Idx+1, latest.LastEventHash(), accounts)

	tick := NewTicker(wallet, priv, store, state, zerolog.Nop())
	require.NoError(t, tick.tick())

	newLatest, err := store.LatestBlock()
	require.NoError(t, err)
	require.Equal(t, latest.Idx+1, newLatest.Idx)

	select {
	case published := <-tick.Published():
		require.Equal(t, newLatest.BlockHash(), published.BlockHash())
	default:
		t.Fatal("expected the produced block to be published")
	}
}

func TestTickerNoStakeIsANoop(t *testing.T) {
	store, err := storage.Open("", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	pub, priv := newTestKeypair(t)
	wallet := types.EncodeBase58(pub)

	genesisData := types.TxData{From: types.GenesisAddress, To: "someone-unstaked", Amount: types.NewDecimalFromInt(100), Fee: types.ZeroDecimal, Signature: types.GenesisSignature}
	genesisTx := types.NewTx(genesisData, "", 0)
	genesis := types.NewGenesisBlock([]types.Tx{genesisTx})
	require.NoError(t, store.AddBlock(genesis))

	state := mempool.New(wallet, zerolog.Nop())
	accounts, err := store.SnapshotAccounts()
	require.NoError(t, err)
	state.Update(genesis.BlockHash(), 1, genesis.LastEventHash(), accounts)

	tick := NewTicker(wallet, priv, store, state, zerolog.Nop())
	require.NoError(t, tick.tick())

	_, err = store.GetBlockByIdx(1)
	require.ErrorIs(t, err, storage.ErrNotFound, "no stake means no validator can be elected, so no block is produced")
}
