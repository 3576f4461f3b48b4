// Package ledger implements the pure transaction-application rules that
// both the mempool (applying admitted transactions to a snapshot) and
// storage (re-applying a committed block's transactions to verify it)
// share.
package ledger

import (
	"fmt"

	"github.com/stakenet/snd/pkg/core/types"
)

// ApplyTx applies tx to accounts in place, crediting fees to validator.
// It is a pure function of its three arguments: given the same inputs it
// always produces the same result or the same error.
//
// Preconditions are checked in this order and the first failure aborts
// with its descriptive string:
//  1. genesis bootstrap (tx.Data.From == GENESIS, tx.Block == 0): mints
//     amount+fee into the GENESIS account, skips steps 2-4 and goes
//     straight on to steps 5 and 6.
//  2. sender must already exist.
//  3. sender's nonce must advance by exactly one.
//  4. STAKE / UNSTAKE / ordinary transfer dispatch on tx.Data.To.
//  5. receiver account is credited (created if absent).
//  6. the validator account is credited with the fee (created if absent).
func ApplyTx(validator string, tx types.Tx, accounts map[string]*types.Account) error {
	data := tx.Data

	if data.From == types.GenesisAddress && tx.Block == 0 {
		acc, ok := accounts[types.GenesisAddress]
		if !ok {
			acc = types.NewAccount(types.GenesisAddress)
			accounts[types.GenesisAddress] = acc
		}
		acc.Debit(data.Amount.Add(data.Fee))
		return applyReceiver(tx, accounts, validator)
	}

	sender, ok := accounts[data.From]
	if !ok {
		return fmt.Errorf("Not enough balance")
	}

	if err := sender.SetNonce(data.Nonce); err != nil {
		return err
	}

	switch data.To {
	case types.StakeAddress:
		amount, err := types.IntegerFromDecimal(data.Amount)
		if err != nil {
			return fmt.Errorf("Stake must be int")
		}
		if err := sender.StakeAmount(amount, data.Fee); err != nil {
			return err
		}
	case types.UnstakeAddress:
		amount, err := types.IntegerFromDecimal(data.Amount)
		if err != nil {
			return fmt.Errorf("Stake must be int")
		}
		if err := sender.UnstakeAmount(amount, data.Fee); err != nil {
			return err
		}
	default:
		if err := sender.Credit(data.Amount.Add(data.Fee)); err != nil {
			return err
		}
	}

	return applyReceiver(tx, accounts, validator)
}

// applyReceiver credits the recipient (creating the account if needed —
// harmless for STAKE/UNSTAKE sentinel addresses, whose balance never
// matters) and the validator's fee.
func applyReceiver(tx types.Tx, accounts map[string]*types.Account, validator string) error {
	data := tx.Data

	receiver, ok := accounts[data.To]
	if !ok {
		receiver = types.NewAccount(data.To)
		accounts[data.To] = receiver
	}
	receiver.Debit(data.Amount)

	val, ok := accounts[validator]
	if !ok {
		val = types.NewAccount(validator)
		accounts[validator] = val
	}
	val.Debit(data.Fee)

	return nil
}
