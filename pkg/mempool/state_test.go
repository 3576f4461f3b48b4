package mempool

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

func seededState(t *testing.T, validatorWallet, aliceWallet string) *State {
	t.Helper()
	s := New(validatorWallet, zerolog.Nop())
	alice := types.NewAccount(aliceWallet)
	alice.Debit(types.NewDecimalFromInt(1000))
	s.Update("", 1, "", map[string]*types.Account{aliceWallet: alice})
	return s
}

func TestStateAddTxAdmitsValidTx(t *testing.T) {
	pub, priv := newTestKeypair(t)
	wallet := types.EncodeBase58(pub)
	s := seededState(t, "validator", wallet)

	data := types.TxData{From: wallet, To: "bob", Amount: types.NewDecimalFromInt(10), Fee: s.CurrentFee(), Nonce: 1}
	data.Sign(priv)

	tx, err := s.AddTx(data)
	require.NoError(t, err)
	require.Equal(t, wallet, tx.Data.From)

	acc := s.GetAccount(wallet)
	require.NotNil(t, acc)
	require.Equal(t, uint64(1), acc.Nonce)
}

func TestStateAddTxRejectsBadSignature(t *testing.T) {
	pub, _ := newTestKeypair(t)
	wallet := types.EncodeBase58(pub)
	s := seededState(t, "validator", wallet)

	data := types.TxData{From: wallet, To: "bob", Amount: types.NewDecimalFromInt(10), Fee: InitialFee, Nonce: 1, Signature: "not-hex"}
	_, err := s.AddTx(data)
	require.Error(t, err)
}

func TestStateAddTxRejectsLowFee(t *testing.T) {
	pub, priv := newTestKeypair(t)
	wallet := types.EncodeBase58(pub)
	s := seededState(t, "validator", wallet)

	data := types.TxData{From: wallet, To: "bob", Amount: types.NewDecimalFromInt(10), Fee: types.ZeroDecimal, Nonce: 1}
	data.Sign(priv)

	_, err := s.AddTx(data)
	require.Error(t, err, "a zero fee scores zero amount/fee and never clears the congestion floor")
}

func TestStateGetAccountUnknownWallet(t *testing.T) {
	s := New("validator", zerolog.Nop())
	require.Nil(t, s.GetAccount("ghost"))
}

func TestStateNewBlockOnlyWhenElected(t *testing.T) {
	pub, priv := newTestKeypair(t)
	wallet := types.EncodeBase58(pub)
	s := seededState(t, wallet, wallet)

	data := types.TxData{From: wallet, To: "bob", Amount: types.NewDecimalFromInt(5), Fee: s.CurrentFee(), Nonce: 1}
	data.Sign(priv)
	_, err := s.AddTx(data)
	require.NoError(t, err)

	require.Nil(t, s.NewBlock("someone-else", priv))

	block := s.NewBlock(wallet, priv)
	require.NotNil(t, block)
	require.Len(t, block.Txs, 1)
	require.True(t, block.Valid())

	// pending drained after producing the block.
	require.Nil(t, s.NewBlock(wallet, priv).Txs)
}

func TestStateUpdateResetsPending(t *testing.T) {
	pub, priv := newTestKeypair(t)
	wallet := types.EncodeBase58(pub)
	s := seededState(t, "validator", wallet)

	data := types.TxData{From: wallet, To: "bob", Amount: types.NewDecimalFromInt(5), Fee: s.CurrentFee(), Nonce: 1}
	data.Sign(priv)
	_, err := s.AddTx(data)
	require.NoError(t, err)

	s.Update("", 2, "", map[string]*types.Account{})
	require.Empty(t, s.pending)
	require.Nil(t, s.GetAccount(wallet))
}

func TestStateCurrentFeeScenarioOne(t *testing.T) {
	pub, priv := newTestKeypair(t)
	wallet := types.EncodeBase58(pub)
	s := seededState(t, "validator", wallet)

	require.Equal(t, "0.00000000001", s.CurrentFee().String())

	data := types.TxData{From: wallet, To: "bob", Amount: types.NewDecimalFromInt(10), Fee: s.CurrentFee(), Nonce: 1}
	data.Sign(priv)
	_, err := s.AddTx(data)
	require.NoError(t, err)

	require.Equal(t, "0.00000000002", s.CurrentFee().String())
}
