package storage

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/stakenet/snd/pkg/core/ledger"
	"github.com/stakenet/snd/pkg/core/types"
)

// blockRecord is the on-disk block shape: identical to types.Block but
// without Txs, which are re-hydrated from the per-block tx index on read.
type blockRecord struct {
	Idx        uint64 `json:"idx"`
	Validator  string `json:"validator"`
	ParentHash string `json:"parent_hash"`
	MerkleRoot string `json:"merkle_root"`
	Signature  string `json:"signature"`
}

func toRecord(b types.Block) blockRecord {
	return blockRecord{
		Idx:        b.Idx,
		Validator:  b.Validator,
		ParentHash: b.ParentHash,
		MerkleRoot: b.MerkleRoot,
		Signature:  b.Signature,
	}
}

// GetBlock loads a block by hash, re-hydrating its transactions from the
// per-block index.
func (s *Store) GetBlock(hash string) (types.Block, error) {
	if cached, ok := s.blockCache.Get(hash); ok {
		return cached.(types.Block), nil
	}

	var rec blockRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blockKey(hash))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return types.Block{}, err
	}

	block, err := s.hydrate(rec)
	if err != nil {
		return types.Block{}, err
	}
	s.blockCache.Add(hash, block)
	return block, nil
}

func (s *Store) hydrate(rec blockRecord) (types.Block, error) {
	hashes, err := s.TxHashesByBlock(rec.Idx)
	if err != nil {
		return types.Block{}, err
	}
	txs := make([]types.Tx, 0, len(hashes))
	for _, h := range hashes {
		tx, err := s.GetTxByHash(h)
		if err != nil {
			return types.Block{}, err
		}
		txs = append(txs, tx)
	}
	return types.Block{
		Idx:        rec.Idx,
		Validator:  rec.Validator,
		ParentHash: rec.ParentHash,
		MerkleRoot: rec.MerkleRoot,
		Txs:        txs,
		Signature:  rec.Signature,
	}, nil
}

// GetBlockByIdx loads a block by height.
func (s *Store) GetBlockByIdx(idx uint64) (types.Block, error) {
	var hash string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blockByIdxKey(idx))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			hash = string(val)
			return nil
		})
	})
	if err != nil {
		return types.Block{}, err
	}
	return s.GetBlock(hash)
}

// LatestBlock loads the chain tip, or ErrNotFound if no block has been
// committed yet.
func (s *Store) LatestBlock() (types.Block, error) {
	var hash string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyBlockLatest))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			hash = string(val)
			return nil
		})
	})
	if err != nil {
		return types.Block{}, err
	}
	return s.GetBlock(hash)
}

// AddBlock validates and commits a block: checks index continuity, tx-hash
// linkage against the chain's last committed tx, every tx's own validity,
// and re-applies every tx against the current accounts snapshot before
// persisting anything. A single failing precondition rejects the whole
// block and leaves storage untouched.
func (s *Store) AddBlock(block types.Block) error {
	latest, latestErr := s.LatestBlock()
	hasLatest := latestErr == nil
	if latestErr != nil && !errors.Is(latestErr, ErrNotFound) {
		return errors.Wrap(latestErr, "read latest block")
	}

	if hasLatest {
		if block.Idx != latest.Idx+1 {
			return fmt.Errorf("Invalid block index, expected: %d, was: %d", latest.Idx+1, block.Idx)
		}
	} else if block.Idx != 0 {
		return fmt.Errorf("Invalid block index, expected: 0, was: %d", block.Idx)
	}

	lastTxHash, err := s.LatestTxHash()
	if err != nil {
		return errors.Wrap(err, "read latest tx hash")
	}
	if lastTxHash != "" && len(block.Txs) > 0 && block.Txs[0].PrevHash != lastTxHash {
		return fmt.Errorf("Invalid transactions")
	}

	for _, tx := range block.Txs {
		if !tx.Valid() {
			return fmt.Errorf("Invalid transactions")
		}
	}

	accounts, err := s.SnapshotAccounts()
	if err != nil {
		return errors.Wrap(err, "snapshot accounts")
	}
	for _, tx := range block.Txs {
		if err := ledger.ApplyTx(block.Validator, tx, accounts); err != nil {
			return fmt.Errorf("Invalid transactions")
		}
	}

	hash := block.BlockHash()
	rec := toRecord(block)
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := putAccountsAndIndex(txn, accounts); err != nil {
			return err
		}
		if err := appendTxIndices(txn, block); err != nil {
			return err
		}
		if err := txn.Set(blockKey(hash), data); err != nil {
			return err
		}
		if err := txn.Set(blockByIdxKey(block.Idx), []byte(hash)); err != nil {
			return err
		}
		return txn.Set([]byte(keyBlockLatest), []byte(hash))
	})
	if err != nil {
		return err
	}

	// accounts were mutated in place by ApplyTx above; refresh the cache so
	// a later GetAccount doesn't serve the pre-block balance.
	for wallet, acc := range accounts {
		cp := *acc
		s.accountCache.Add(wallet, &cp)
	}
	return nil
}
