package storage

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/stakenet/snd/pkg/core/types"
)

// GetAccount loads an account by wallet, or ErrNotFound if it doesn't
// exist yet (never credited or debited).
func (s *Store) GetAccount(wallet string) (*types.Account, error) {
	if cached, ok := s.accountCache.Get(wallet); ok {
		cp := *cached.(*types.Account)
		return &cp, nil
	}

	var acc types.Account
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(accountKey(wallet))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &acc)
		})
	})
	if err != nil {
		return nil, err
	}

	cp := acc
	s.accountCache.Add(wallet, &cp)
	return &acc, nil
}

// putAccount writes acc within an open transaction. It does not touch the
// all-wallets index; putAccountsAndIndex maintains that.
func putAccount(txn *badger.Txn, acc *types.Account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	return txn.Set(accountKey(acc.Wallet), data)
}

// AllWallets returns every wallet that has ever had an account created.
func (s *Store) AllWallets() ([]string, error) {
	var wallets []string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyAllWallets))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &wallets)
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "read wallet index")
	}
	return wallets, nil
}

func mergeWalletIndex(txn *badger.Txn, existing []string, wallet string) ([]string, bool) {
	for _, w := range existing {
		if w == wallet {
			return existing, false
		}
	}
	return append(existing, wallet), true
}

// SnapshotAccounts returns a full copy of every known account, keyed by
// wallet — the consistent view the mempool and validator election both
// need.
func (s *Store) SnapshotAccounts() (map[string]*types.Account, error) {
	wallets, err := s.AllWallets()
	if err != nil {
		return nil, err
	}

	out := make(map[string]*types.Account, len(wallets))
	for _, w := range wallets {
		acc, err := s.GetAccount(w)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out[w] = acc
	}
	return out, nil
}

// putAccountsAndIndex persists every account in accounts and ensures each
// wallet is present in the all-wallets index, all within a single
// transaction.
func putAccountsAndIndex(txn *badger.Txn, accounts map[string]*types.Account) error {
	var wallets []string
	item, err := txn.Get([]byte(keyAllWallets))
	if err == nil {
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &wallets)
		}); err != nil {
			return err
		}
	} else if err != badger.ErrKeyNotFound {
		return err
	}

	changed := false
	for wallet, acc := range accounts {
		if err := putAccount(txn, acc); err != nil {
			return err
		}
		var added bool
		wallets, added = mergeWalletIndex(txn, wallets, wallet)
		changed = changed || added
	}

	if changed {
		data, err := json.Marshal(wallets)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(keyAllWallets), data); err != nil {
			return err
		}
	}
	return nil
}
