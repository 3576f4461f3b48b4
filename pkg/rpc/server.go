// Package rpc implements the node's HTTP façade: read endpoints served
// straight from local state, and transaction submission routed to whichever
// node is the current validator.
package rpc

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/stakenet/snd/pkg/core/types"
	"github.com/stakenet/snd/pkg/mempool"
	"github.com/stakenet/snd/pkg/p2p"
	"github.com/stakenet/snd/pkg/storage"
	"github.com/stakenet/snd/pkg/validator"
)

// Server is the HTTP façade: GET /api/blocks/{idx}, GET /api/wallets/{wallet}
// and POST /api/txs.
type Server struct {
	ourWallet string
	store     *storage.Store
	state     *mempool.State
	client    *p2p.Client

	log zerolog.Logger
}

// New builds the RPC server. ourWallet is this node's own validator wallet,
// compared against the elected validator to decide local vs. forwarded
// handling of tx submission.
func New(ourWallet string, store *storage.Store, state *mempool.State, client *p2p.Client, log zerolog.Logger) *Server {
	return &Server{
		ourWallet: ourWallet,
		store:     store,
		state:     state,
		client:    client,
		log:       log.With().Str("component", "rpc").Logger(),
	}
}

// Handler builds the mux.Router exposing the three routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/blocks/{idx}", s.getBlock).Methods(http.MethodGet)
	r.HandleFunc("/api/wallets/{wallet}", s.getWallet).Methods(http.MethodGet)
	r.HandleFunc("/api/txs", s.postTx).Methods(http.MethodPost)
	return r
}

func (s *Server) getBlock(w http.ResponseWriter, r *http.Request) {
	idxStr := mux.Vars(r)["idx"]
	idx, err := strconv.ParseUint(idxStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}

	block, err := s.store.GetBlockByIdx(idx)
	if err != nil {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	wallet := mux.Vars(r)["wallet"]
	acc := s.state.GetAccount(wallet)
	nonce := uint64(0)
	if acc != nil {
		nonce = acc.Nonce
	}
	writeJSON(w, http.StatusOK, map[string]uint64{"nonce": nonce})
}

func (s *Server) postTx(w http.ResponseWriter, r *http.Request) {
	var data types.TxData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	elected, err := s.currentValidator()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if elected == s.ourWallet {
		tx, err := s.state.AddTx(data)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, tx)
		return
	}

	peerID, err := validator.PeerIDFromWallet(elected)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Internal server error")
		return
	}

	tx, err := s.client.AddTx(r.Context(), peerID, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// currentValidator elects the validator for the chain tip currently known
// to this node, the same way the validator ticker does.
func (s *Server) currentValidator() (string, error) {
	latestHash := ""
	latest, err := s.store.LatestBlock()
	if err == nil {
		latestHash = latest.BlockHash()
	} else if err != storage.ErrNotFound {
		return "", err
	}

	accounts, err := s.store.SnapshotAccounts()
	if err != nil {
		return "", err
	}
	return validator.Elect(latestHash, accounts)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
