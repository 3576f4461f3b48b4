// Command snd runs a stake-weighted ledger node, or assists it from the
// command line: bootstrapping storage from a genesis file, managing
// wallets, and submitting transactions against a running node.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/stakenet/snd/pkg/config"
	"github.com/stakenet/snd/pkg/core/types"
	"github.com/stakenet/snd/pkg/genesis"
	"github.com/stakenet/snd/pkg/logging"
	"github.com/stakenet/snd/pkg/mempool"
	"github.com/stakenet/snd/pkg/p2p"
	"github.com/stakenet/snd/pkg/rpc"
	"github.com/stakenet/snd/pkg/storage"
	"github.com/stakenet/snd/pkg/validator"
	"github.com/stakenet/snd/pkg/wallet"
)

func main() {
	app := &cli.App{
		Name:  "snd",
		Usage: "stake-weighted ledger node",
		Commands: []*cli.Command{
			initCommand(),
			runCommand(),
			createWalletCommand(),
			findBlockCommand(),
			newTxCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "load the genesis file into a fresh storage directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "storage", Required: true},
			&cli.StringFlag{Name: "genesis", Required: true},
		},
		Action: func(c *cli.Context) error {
			log := logging.New(config.Logs{})
			store, err := storage.Open(c.String("storage"), log)
			if err != nil {
				return err
			}
			defer store.Close()
			return genesis.Load(store, c.String("genesis"))
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the node",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Required: true},
		},
		Action: func(c *cli.Context) error {
			return runNode(c.String("config"))
		},
	}
}

func runNode(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Logs)

	seed, err := types.DecodeBase58(cfg.Secret)
	if err != nil {
		return fmt.Errorf("config: invalid secret: %w", err)
	}
	w, err := wallet.FromSeed(seed)
	if err != nil {
		return fmt.Errorf("config: invalid secret: %w", err)
	}

	store, err := storage.Open(cfg.StoragePath, log)
	if err != nil {
		return err
	}
	defer store.Close()

	state := mempool.New(w.Address(), log)
	if err := refreshMempool(store, state); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	node, err := p2p.New(ctx, cfg.Address, w.Priv, store, state, log)
	if err != nil {
		return err
	}
	defer node.Close()
	client := p2p.NewClient(node)

	log.Info().Str("peer_id", client.LocalPeerID().String()).Str("wallet", w.Address()).Msg("node identity")

	if err := node.Bootstrap(ctx); err != nil {
		log.Warn().Err(err).Msg("dht bootstrap failed")
	}

	tick := validator.NewTicker(w.Address(), w.Priv, store, state, log)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return tick.Run(gctx) })
	group.Go(func() error {
		node.PublishBlocks(gctx, tick.Published())
		return nil
	})
	group.Go(func() error {
		return node.RunGossipLoop(gctx, func(types.Block) {
			if err := refreshMempool(store, state); err != nil {
				log.Error().Err(err).Msg("refresh mempool after gossiped block")
			}
		})
	})

	if len(cfg.Nodes) > 0 {
		group.Go(func() error {
			return dialAndSync(gctx, client, cfg.Nodes[0], store, state, log)
		})
	}

	server := rpc.New(w.Address(), store, state, client, log)
	httpSrv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.HTTPPort), Handler: server.Handler()}
	group.Go(func() error {
		log.Info().Int("port", cfg.HTTPPort).Msg("rpc listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		return httpSrv.Close()
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("shutting down")
		cancel()
	}()

	return group.Wait()
}

func refreshMempool(store *storage.Store, state *mempool.State) error {
	accounts, err := store.SnapshotAccounts()
	if err != nil {
		return err
	}

	latest, err := store.LatestBlock()
	if err != nil {
		if err == storage.ErrNotFound {
			state.Update("", 0, "", accounts)
			return nil
		}
		return err
	}
	state.Update(latest.BlockHash(), latest.Idx+1, latest.LastEventHash(), accounts)
	return nil
}

func dialAndSync(ctx context.Context, client *p2p.Client, addr string, store *storage.Store, state *mempool.State, log zerolog.Logger) error {
	info, err := parseMultiaddr(addr)
	if err != nil {
		return fmt.Errorf("invalid seed node address %q: %w", addr, err)
	}
	if err := client.Dial(ctx, info); err != nil {
		return fmt.Errorf("dial seed node: %w", err)
	}
	return client.SyncFromPeer(ctx, info.ID, func() {
		if err := refreshMempool(store, state); err != nil {
			log.Error().Err(err).Msg("refresh mempool during sync")
		}
	})
}

func parseMultiaddr(addr string) (peer.AddrInfo, error) {
	maddr, err := multiaddr.NewMultiaddr(addr)
	if err != nil {
		return peer.AddrInfo{}, err
	}
	info, err := peer.AddrInfoFromP2pAddr(maddr)
	if err != nil {
		return peer.AddrInfo{}, err
	}
	return *info, nil
}

func createWalletCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-wallet",
		Usage: "generate a new wallet and write its encrypted keystore file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "keystore", Required: true},
			&cli.BoolFlag{Name: "s", Usage: "also print the wallet's base58 secret, for pasting into a node config"},
		},
		Action: func(c *cli.Context) error {
			w, err := wallet.New()
			if err != nil {
				return err
			}
			password, err := readPassword("Enter password: ")
			if err != nil {
				return err
			}
			if err := w.Write(c.String("keystore"), password); err != nil {
				return err
			}
			fmt.Printf("Wallet created, address: %s\n", w.Address())
			if c.Bool("s") {
				fmt.Printf("Secret: %s\n", types.EncodeBase58(w.Seed()))
			}
			return nil
		},
	}
}

func findBlockCommand() *cli.Command {
	return &cli.Command{
		Name:  "find-block",
		Usage: "fetch a committed block by height from a running node",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "node", Required: true},
			&cli.Uint64Flag{Name: "idx", Required: true},
		},
		Action: func(c *cli.Context) error {
			block, err := newNodeClient(c.String("node")).findBlock(c.Uint64("idx"))
			if err != nil {
				return err
			}
			return printJSON(block)
		},
	}
}

func newTxCommand() *cli.Command {
	return &cli.Command{
		Name:  "new-tx",
		Usage: "sign and submit a transfer from a keystore wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "keystore", Required: true},
			&cli.StringFlag{Name: "wallet", Required: true},
			&cli.StringFlag{Name: "node", Required: true},
			&cli.StringFlag{Name: "to", Required: true},
			&cli.StringFlag{Name: "amount", Required: true},
		},
		Action: func(c *cli.Context) error {
			password, err := readPassword("Enter password: ")
			if err != nil {
				return err
			}
			w, err := wallet.Read(c.String("keystore"), c.String("wallet"), password)
			if err != nil {
				return err
			}

			client := newNodeClient(c.String("node"))
			nonce, err := client.getNonce(w.Address())
			if err != nil {
				return err
			}

			amount, err := types.NewDecimalFromString(c.String("amount"))
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}

			data := types.TxData{
				From:   w.Address(),
				To:     c.String("to"),
				Amount: amount,
				Fee:    mempool.InitialFee,
				Nonce:  nonce + 1,
			}
			data.Sign(w.Priv)

			tx, err := client.submitTx(data)
			if err != nil {
				return err
			}
			return printJSON(tx)
		},
	}
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		return password, err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
