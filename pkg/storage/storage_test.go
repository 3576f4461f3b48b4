package storage

import (
	"crypto/ed25519"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/stakenet/snd/pkg/core/types"
)

func newTestKeypair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub, priv
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func genesisBlock(t *testing.T, wallet string, amount string) types.Block {
	t.Helper()
	amt, err := types.NewDecimalFromString(amount)
	require.NoError(t, err)
	data := types.TxData{From: types.GenesisAddress, To: wallet, Amount: amt, Fee: types.ZeroDecimal, Signature: types.GenesisSignature}
	tx := types.NewTx(data, "", 0)
	return types.NewGenesisBlock([]types.Tx{tx})
}

func TestStoreGetAccountNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetAccount("nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreAddBlockGenesis(t *testing.T) {
	s := openTestStore(t)
	block := genesisBlock(t, "alice", "1000")

	require.NoError(t, s.AddBlock(block))

	acc, err := s.GetAccount("alice")
	require.NoError(t, err)
	require.Equal(t, "1000", acc.Balance.String())

	latest, err := s.LatestBlock()
	require.NoError(t, err)
	require.Equal(t, block.BlockHash(), latest.BlockHash())
}

func TestStoreAddBlockRejectsWrongIndex(t *testing.T) {
	s := openTestStore(t)
	block := genesisBlock(t, "alice", "1000")
	require.NoError(t, s.AddBlock(block))

	bad := block
	bad.Idx = 5
	err := s.AddBlock(bad)
	require.Error(t, err)
}

func TestStoreAddBlockRefreshesAccountCache(t *testing.T) {
	s := openTestStore(t)
	alicePub, alicePriv := newTestKeypair(t)
	aliceWallet := types.EncodeBase58(alicePub)

	genesis := genesisBlock(t, aliceWallet, "1000")
	require.NoError(t, s.AddBlock(genesis))

	// Warm the cache at the pre-transfer balance.
	acc, err := s.GetAccount(aliceWallet)
	require.NoError(t, err)
	require.Equal(t, "1000", acc.Balance.String())

	transferData := types.TxData{From: aliceWallet, To: "bob", Amount: types.NewDecimalFromInt(100), Fee: types.ZeroDecimal, Nonce: 1}
	transferData.Sign(alicePriv)
	tx := types.NewTx(transferData, genesis.LastEventHash(), 1)
	next := types.NewBlock(aliceWallet, alicePriv, 1, genesis.BlockHash(), []types.Tx{tx})

	require.NoError(t, s.AddBlock(next))

	acc2, err := s.GetAccount(aliceWallet)
	require.NoError(t, err)
	require.Equal(t, "900", acc2.Balance.String(), "cache must reflect the second block's debit, not the stale genesis balance")
}

func TestStoreSnapshotAccounts(t *testing.T) {
	s := openTestStore(t)
	block := genesisBlock(t, "alice", "500")
	require.NoError(t, s.AddBlock(block))

	snap, err := s.SnapshotAccounts()
	require.NoError(t, err)
	require.Contains(t, snap, "alice")
	require.Equal(t, "500", snap["alice"].Balance.String())
}

func TestStoreGetBlockByIdxAndHash(t *testing.T) {
	s := openTestStore(t)
	block := genesisBlock(t, "alice", "10")
	require.NoError(t, s.AddBlock(block))

	byIdx, err := s.GetBlockByIdx(0)
	require.NoError(t, err)
	require.Equal(t, block.BlockHash(), byIdx.BlockHash())
	require.Len(t, byIdx.Txs, 1)

	byHash, err := s.GetBlock(block.BlockHash())
	require.NoError(t, err)
	require.Equal(t, byIdx.Txs[0].Hash, byHash.Txs[0].Hash)
}

func TestStoreLatestBlockNotFoundWhenEmpty(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LatestBlock()
	require.ErrorIs(t, err, ErrNotFound)
}
