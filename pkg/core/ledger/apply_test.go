package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stakenet/snd/pkg/core/types"
)

func decimalOf(t *testing.T, s string) types.Decimal {
	t.Helper()
	d, err := types.NewDecimalFromString(s)
	require.NoError(t, err)
	return d
}

func TestApplyTxGenesisMint(t *testing.T) {
	accounts := map[string]*types.Account{}
	data := types.TxData{From: types.GenesisAddress, To: "alice", Amount: decimalOf(t, "1000"), Fee: decimalOf(t, "0"), Signature: types.GenesisSignature}
	tx := types.NewTx(data, "", 0)

	require.NoError(t, ApplyTx("validator", tx, accounts))
	require.Equal(t, "1000", accounts["alice"].Balance.String())
	require.Equal(t, "1000", accounts[types.GenesisAddress].Balance.String())
}

func TestApplyTxOrdinaryTransfer(t *testing.T) {
	accounts := map[string]*types.Account{
		"alice": types.NewAccount("alice"),
	}
	accounts["alice"].Debit(decimalOf(t, "100"))

	data := types.TxData{From: "alice", To: "bob", Amount: decimalOf(t, "40"), Fee: decimalOf(t, "1"), Nonce: 1}
	tx := types.NewTx(data, "", 1)

	require.NoError(t, ApplyTx("validator", tx, accounts))
	require.Equal(t, "59", accounts["alice"].Balance.String())
	require.Equal(t, "40", accounts["bob"].Balance.String())
	require.Equal(t, "1", accounts["validator"].Balance.String())
	require.Equal(t, uint64(1), accounts["alice"].Nonce)
}

func TestApplyTxInsufficientBalance(t *testing.T) {
	accounts := map[string]*types.Account{"alice": types.NewAccount("alice")}
	data := types.TxData{From: "alice", To: "bob", Amount: decimalOf(t, "40"), Fee: decimalOf(t, "1"), Nonce: 1}
	tx := types.NewTx(data, "", 1)

	err := ApplyTx("validator", tx, accounts)
	require.Error(t, err)
}

func TestApplyTxUnknownSender(t *testing.T) {
	accounts := map[string]*types.Account{}
	data := types.TxData{From: "ghost", To: "bob", Amount: decimalOf(t, "1"), Nonce: 1}
	tx := types.NewTx(data, "", 1)

	err := ApplyTx("validator", tx, accounts)
	require.Error(t, err)
}

func TestApplyTxBadNonce(t *testing.T) {
	accounts := map[string]*types.Account{"alice": types.NewAccount("alice")}
	accounts["alice"].Debit(decimalOf(t, "100"))

	data := types.TxData{From: "alice", To: "bob", Amount: decimalOf(t, "1"), Nonce: 5}
	tx := types.NewTx(data, "", 1)

	err := ApplyTx("validator", tx, accounts)
	require.Error(t, err)
}

func TestApplyTxStakeAndUnstake(t *testing.T) {
	accounts := map[string]*types.Account{"alice": types.NewAccount("alice")}
	accounts["alice"].Debit(decimalOf(t, "100"))

	stakeData := types.TxData{From: "alice", To: types.StakeAddress, Amount: decimalOf(t, "50"), Fee: decimalOf(t, "1"), Nonce: 1}
	stakeTx := types.NewTx(stakeData, "", 1)
	require.NoError(t, ApplyTx("validator", stakeTx, accounts))
	require.Equal(t, "50", accounts["alice"].Stake.String())
	require.Equal(t, "49", accounts["alice"].Balance.String())

	unstakeData := types.TxData{From: "alice", To: types.UnstakeAddress, Amount: decimalOf(t, "20"), Fee: decimalOf(t, "1"), Nonce: 2}
	unstakeTx := types.NewTx(unstakeData, "", 1)
	require.NoError(t, ApplyTx("validator", unstakeTx, accounts))
	require.Equal(t, "30", accounts["alice"].Stake.String())
	require.Equal(t, "68", accounts["alice"].Balance.String())
}

func TestApplyTxStakeMustBeIntegral(t *testing.T) {
	accounts := map[string]*types.Account{"alice": types.NewAccount("alice")}
	accounts["alice"].Debit(decimalOf(t, "100"))

	data := types.TxData{From: "alice", To: types.StakeAddress, Amount: decimalOf(t, "50.5"), Fee: decimalOf(t, "1"), Nonce: 1}
	tx := types.NewTx(data, "", 1)

	err := ApplyTx("validator", tx, accounts)
	require.Error(t, err)
}
