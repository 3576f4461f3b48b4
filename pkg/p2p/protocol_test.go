package p2p

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stakenet/snd/pkg/core/types"
)

func TestGetNonceWireRoundTrip(t *testing.T) {
	req := getNonceRequest{Wallet: "alice"}
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(req))

	var decoded getNonceRequest
	require.NoError(t, json.NewDecoder(&buf).Decode(&decoded))
	require.Equal(t, req, decoded)
}

func TestGetNonceResponseOmitsAccountWhenAbsent(t *testing.T) {
	resp := getNonceResponse{}
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(data))
}

func TestFindBlockResponseRoundTrip(t *testing.T) {
	block := types.NewGenesisBlock(nil)
	resp := findBlockResponse{Block: &block}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded findBlockResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Block)
	require.Equal(t, block.BlockHash(), decoded.Block.BlockHash())
}

func TestAddTxResponseCarriesEitherDataOrError(t *testing.T) {
	errResp := addTxResponse{Error: "Invalid transaction"}
	data, err := json.Marshal(errResp)
	require.NoError(t, err)
	require.JSONEq(t, `{"error":"Invalid transaction"}`, string(data))
}

func TestProtocolIDsAreDistinct(t *testing.T) {
	ids := []string{string(ProtocolGetNonce), string(ProtocolFindBlock), string(ProtocolAddTx), string(ProtocolGetFee)}
	seen := map[string]bool{}
	for _, id := range ids {
		require.False(t, seen[id], "duplicate protocol id: %s", id)
		seen[id] = true
	}
}
