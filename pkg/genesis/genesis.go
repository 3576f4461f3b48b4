// Package genesis loads the bootstrap credit file and commits it as block
// zero.
package genesis

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/stakenet/snd/pkg/core/types"
	"github.com/stakenet/snd/pkg/storage"
)

// Load reads path as a JSON array of TxData, chains them into genesis
// transactions and commits them as block 0 through the normal commitment
// path, re-using the same ledger semantics every later block goes through.
// A no-op if block 0 already exists.
func Load(store *storage.Store, path string) error {
	if _, err := store.GetBlockByIdx(0); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return errors.Wrap(err, "check existing genesis block")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read genesis file")
	}

	var entries []types.TxData
	if err := json.Unmarshal(raw, &entries); err != nil {
		return errors.Wrap(err, "parse genesis file")
	}

	txs := make([]types.Tx, 0, len(entries))
	prevHash := ""
	for _, data := range entries {
		data.Signature = types.GenesisSignature
		tx := types.NewTx(data, prevHash, 0)
		txs = append(txs, tx)
		prevHash = tx.Hash
	}

	block := types.NewGenesisBlock(txs)
	return errors.Wrap(store.AddBlock(block), "commit genesis block")
}
