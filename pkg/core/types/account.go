package types

import "fmt"

// Account is the persistent per-wallet record of balance, nonce and stake.
type Account struct {
	Wallet  string  `json:"wallet"`
	Balance Decimal `json:"balance"`
	Nonce   uint64  `json:"nonce"`
	Stake   Integer `json:"stake"`
}

// NewAccount returns a freshly-created account for wallet, balance/stake
// zeroed and nonce at 0.
func NewAccount(wallet string) *Account {
	return &Account{
		Wallet:  wallet,
		Balance: ZeroDecimal,
		Nonce:   0,
		Stake:   ZeroInteger,
	}
}

// Debit increases the account's balance by amount. It never fails — funds
// flowing in are always accepted.
func (a *Account) Debit(amount Decimal) {
	a.Balance = a.Balance.Add(amount)
}

// Credit decreases the account's balance by amount, failing if the balance
// would go negative.
func (a *Account) Credit(amount Decimal) error {
	if !a.Balance.GreaterThanOrEqual(amount) {
		return fmt.Errorf("Not enough balance")
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// StakeAmount moves amount (plus fee) out of the balance and into stake.
// amount must be a whole-unit Integer.
func (a *Account) StakeAmount(amount Integer, fee Decimal) error {
	amountDecimal := amount.ToDecimal()
	total := amountDecimal.Add(fee)
	if !a.Balance.GreaterThanOrEqual(total) {
		return fmt.Errorf("Not enough balance")
	}
	a.Balance = a.Balance.Sub(total)
	a.Stake = a.Stake.Add(amount)
	return nil
}

// UnstakeAmount moves amount out of stake and back into the balance, minus
// fee (which still comes out of the balance).
func (a *Account) UnstakeAmount(amount Integer, fee Decimal) error {
	if !a.Balance.GreaterThanOrEqual(fee) {
		return fmt.Errorf("Not enough balance for fee")
	}
	if !a.Stake.GreaterThanOrEqual(amount) {
		return fmt.Errorf("Not enough stake")
	}
	a.Balance = a.Balance.Add(amount.ToDecimal()).Sub(fee)
	a.Stake = a.Stake.Sub(amount)
	return nil
}

// SetNonce advances the account's nonce by exactly one, failing with the
// canonical mismatch string otherwise. This string is a tested contract —
// never change its format.
func (a *Account) SetNonce(n uint64) error {
	expected := a.Nonce + 1
	if n != expected {
		return fmt.Errorf("Invalid nonce, expected: %d, was: %d", expected, n)
	}
	a.Nonce = n
	return nil
}
