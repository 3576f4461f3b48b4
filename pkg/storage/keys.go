package storage

import "fmt"

// Key namespaces. The original schema collapsed the tx-hash, tx-per-block
// and tx-per-wallet records under a single "tx." prefix; per the redesign
// flag this implementation uses disjoint sub-namespaces instead so the
// three record kinds can never collide regardless of alphabet.
const (
	keyAllWallets  = "account.all_wallets"
	keyAccount     = "balance."
	keyTxByHash    = "tx.hash."
	keyTxByBlock   = "tx.block."
	keyTxByWallet  = "tx.wallet."
	keyTxLatest    = "tx.latest"
	keyBlock       = "block."
	keyBlockByIdx  = "block_idx."
	keyBlockLatest = "block.latest"
)

func accountKey(wallet string) []byte    { return []byte(keyAccount + wallet) }
func txByHashKey(hash string) []byte     { return []byte(keyTxByHash + hash) }
func txByBlockKey(idx uint64) []byte     { return []byte(fmt.Sprintf("%s%d", keyTxByBlock, idx)) }
func txByWalletKey(wallet string) []byte { return []byte(keyTxByWallet + wallet) }
func blockKey(hash string) []byte        { return []byte(keyBlock + hash) }
func blockByIdxKey(idx uint64) []byte    { return []byte(fmt.Sprintf("%s%d", keyBlockByIdx, idx)) }
