// Package validator implements stake-weighted leader election and the
// periodic block-proposal tick.
package validator

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/stakenet/snd/pkg/core/types"
)

// ErrNoStake is returned when the total staked across all accounts is
// zero, so no validator can be elected.
var ErrNoStake = fmt.Errorf("No latest block")

// Elect deterministically selects the current validator from the hash of
// the latest committed block and the full set of accounts. Two nodes
// holding identical accounts and the same latest block always agree.
func Elect(latestBlockHash string, accounts map[string]*types.Account) (string, error) {
	mixed := xxhash.Sum64String(latestBlockHash)

	total := new(big.Int)
	for _, acc := range accounts {
		total.Add(total, acc.Stake.BigInt())
	}
	if total.Sign() == 0 {
		return "", ErrNoStake
	}

	idx := new(big.Int).Mod(new(big.Int).SetUint64(mixed), total)

	wallets := make([]string, 0, len(accounts))
	for w := range accounts {
		wallets = append(wallets, w)
	}
	sort.Strings(wallets)

	running := new(big.Int)
	for _, w := range wallets {
		running.Add(running, accounts[w].Stake.BigInt())
		if running.Cmp(idx) > 0 {
			return w, nil
		}
	}

	// Unreachable if total was computed correctly: running must exceed
	// idx by the time the last account is summed.
	return wallets[len(wallets)-1], nil
}
