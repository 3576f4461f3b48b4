package storage

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"

	"github.com/stakenet/snd/pkg/core/types"
)

// GetTxByHash loads a single transaction by its hash.
func (s *Store) GetTxByHash(hash string) (types.Tx, error) {
	var tx types.Tx
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(txByHashKey(hash))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &tx)
		})
	})
	return tx, err
}

// TxHashesByBlock returns the hashes of every tx committed in block idx,
// in block order.
func (s *Store) TxHashesByBlock(idx uint64) ([]string, error) {
	return s.readHashList(txByBlockKey(idx))
}

// TxHashesByWallet returns the hashes of every tx sent from wallet, in
// commit order. Transactions that only credit wallet are not indexed here.
func (s *Store) TxHashesByWallet(wallet string) ([]string, error) {
	return s.readHashList(txByWalletKey(wallet))
}

func (s *Store) readHashList(key []byte) ([]string, error) {
	var hashes []string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &hashes)
		})
	})
	return hashes, err
}

// LatestTxHash returns the hash of the most recently committed tx across
// the whole chain, or "" if none has ever been committed.
func (s *Store) LatestTxHash() (string, error) {
	var hash string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyTxLatest))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			hash = string(val)
			return nil
		})
	})
	return hash, err
}

// appendTxIndices writes a committed block's transactions into all three
// indices (by hash, by block, by wallet — the sender's wallet) plus the
// chain-wide latest-tx pointer, within an open write transaction.
func appendTxIndices(txn *badger.Txn, block types.Block) error {
	var blockHashes []string
	newWalletHashes := make(map[string][]string)

	for _, tx := range block.Txs {
		data, err := json.Marshal(tx)
		if err != nil {
			return err
		}
		if err := txn.Set(txByHashKey(tx.Hash), data); err != nil {
			return err
		}
		blockHashes = append(blockHashes, tx.Hash)

		wallet := tx.Data.From
		newWalletHashes[wallet] = append(newWalletHashes[wallet], tx.Hash)
	}

	if len(blockHashes) == 0 {
		return nil
	}

	data, err := json.Marshal(blockHashes)
	if err != nil {
		return err
	}
	if err := txn.Set(txByBlockKey(block.Idx), data); err != nil {
		return err
	}

	for wallet, added := range newWalletHashes {
		existing, err := getHashList(txn, txByWalletKey(wallet))
		if err != nil {
			return err
		}
		merged := append(existing, added...)
		data, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		if err := txn.Set(txByWalletKey(wallet), data); err != nil {
			return err
		}
	}

	return txn.Set([]byte(keyTxLatest), []byte(blockHashes[len(blockHashes)-1]))
}

func getHashList(txn *badger.Txn, key []byte) ([]string, error) {
	item, err := txn.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var hashes []string
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &hashes)
	})
	return hashes, err
}
