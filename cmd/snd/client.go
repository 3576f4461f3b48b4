package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stakenet/snd/pkg/core/types"
)

// nodeClient is a thin HTTP client over the three RPC routes, used by the
// find-block and new-tx CLI commands.
type nodeClient struct {
	baseURL string
}

func newNodeClient(baseURL string) *nodeClient {
	return &nodeClient{baseURL: baseURL}
}

func (c *nodeClient) findBlock(idx uint64) (types.Block, error) {
	resp, err := http.Get(fmt.Sprintf("%s/api/blocks/%d", c.baseURL, idx))
	if err != nil {
		return types.Block{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Block{}, apiError(resp)
	}
	var block types.Block
	return block, json.NewDecoder(resp.Body).Decode(&block)
}

func (c *nodeClient) getNonce(wallet string) (uint64, error) {
	resp, err := http.Get(fmt.Sprintf("%s/api/wallets/%s", c.baseURL, wallet))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, apiError(resp)
	}
	var out struct {
		Nonce uint64 `json:"nonce"`
	}
	return out.Nonce, json.NewDecoder(resp.Body).Decode(&out)
}

func (c *nodeClient) submitTx(data types.TxData) (types.Tx, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return types.Tx{}, err
	}

	resp, err := http.Post(fmt.Sprintf("%s/api/txs", c.baseURL), "application/json", bytes.NewReader(body))
	if err != nil {
		return types.Tx{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Tx{}, apiError(resp)
	}
	var tx types.Tx
	return tx, json.NewDecoder(resp.Body).Decode(&tx)
}

func apiError(resp *http.Response) error {
	var out struct {
		Error string `json:"error"`
	}
	body, _ := io.ReadAll(resp.Body)
	if json.Unmarshal(body, &out) == nil && out.Error != "" {
		return fmt.Errorf("%s", out.Error)
	}
	return fmt.Errorf("request failed: %s", resp.Status)
}
