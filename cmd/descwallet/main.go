package main

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/descwallet/internal/config"
	"github.com/tdex-network/descwallet/internal/core/application"
	"github.com/tdex-network/descwallet/internal/core/domain"
	"github.com/tdex-network/descwallet/internal/core/ports"
	"github.com/tdex-network/descwallet/internal/infrastructure/node/bitcoind"
	dbbadger "github.com/tdex-network/descwallet/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/descwallet/pkg/mathutil"
	"github.com/tdex-network/descwallet/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var (
	rpcURLFlag = &cli.StringFlag{
		Name:  "rpc-url",
		Usage: "the endpoint of the bitcoind JSON-RPC interface",
	}
	rpcUserFlag = &cli.StringFlag{
		Name:  "rpc-user",
		Usage: "the user for the bitcoind JSON-RPC interface",
	}
	rpcPasswordFlag = &cli.StringFlag{
		Name:  "rpc-password",
		Usage: "the password for the bitcoind JSON-RPC interface",
	}
	networkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "one of mainnet, testnet, signet or regtest",
	}
	datadirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "the directory where the wallet state is stored",
	}
	passphraseFlag = &cli.StringFlag{
		Name:  "passphrase",
		Usage: "the BIP39 passphrase used to derive the wallet keys",
	}
)

func main() {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "descwallet"
	app.Usage = "Command line interface for a bitcoind backed descriptor wallet"
	app.Flags = []cli.Flag{
		rpcURLFlag,
		rpcUserFlag,
		rpcPasswordFlag,
		networkFlag,
		datadirFlag,
		passphraseFlag,
	}
	app.Commands = append(
		app.Commands,
		&descriptors,
		&walletname,
		&run,
		&balance,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

// getConfig loads the config from env and overrides it with the global
// flags explicitly set.
func getConfig(ctx *cli.Context) (*config.Config, error) {
	if ctx.IsSet(datadirFlag.Name) {
		if err := os.Setenv(
			"DESCWALLET_"+config.DatadirKey, ctx.String(datadirFlag.Name),
		); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if ctx.IsSet(rpcURLFlag.Name) {
		cfg.RPCURL = ctx.String(rpcURLFlag.Name)
	}
	if ctx.IsSet(rpcUserFlag.Name) {
		cfg.RPCUser = ctx.String(rpcUserFlag.Name)
	}
	if ctx.IsSet(rpcPasswordFlag.Name) {
		cfg.RPCPassword = ctx.String(rpcPasswordFlag.Name)
	}
	if ctx.IsSet(passphraseFlag.Name) {
		cfg.Passphrase = ctx.String(passphraseFlag.Name)
	}
	if ctx.IsSet(networkFlag.Name) {
		network, err := wallet.ParseNetwork(ctx.String(networkFlag.Name))
		if err != nil {
			return nil, err
		}
		cfg.Network = network
	}

	log.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func getNode(cfg *config.Config) (ports.Node, error) {
	return bitcoind.NewNode(bitcoind.Config{
		RPCURL:    cfg.RPCURL,
		User:      cfg.RPCUser,
		Password:  cfg.RPCPassword,
		Network:   cfg.Network.Params(),
		RateLimit: cfg.RPCRateLimit,
	})
}

func getRepoManager(cfg *config.Config) (ports.RepoManager, error) {
	return dbbadger.NewRepoManager(cfg.DbDir(), log.StandardLogger())
}

// getServices wires node, store and application services and returns a
// cleanup func releasing all of them.
func getServices(cfg *config.Config) (
	ports.Node, ports.RepoManager, application.WalletService, func(), error,
) {
	node, err := getNode(cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	repoManager, err := getRepoManager(cfg)
	if err != nil {
		node.Close()
		return nil, nil, nil, nil, err
	}
	walletSvc := application.NewWalletService(
		node, repoManager, cfg.Network, cfg.Lookahead,
	)
	cleanup := func() {
		repoManager.Close()
		node.Close()
	}
	return node, repoManager, walletSvc, cleanup, nil
}

type balanceJSON struct {
	Confirmed   string `json:"confirmed"`
	Unconfirmed string `json:"unconfirmed"`
	Immature    string `json:"immature"`
	Total       string `json:"total"`
}

func toBalanceJSON(b domain.Balance) balanceJSON {
	return balanceJSON{
		Confirmed:   mathutil.FormatBTC(b.Confirmed),
		Unconfirmed: mathutil.FormatBTC(b.Unconfirmed),
		Immature:    mathutil.FormatBTC(b.Immature),
		Total:       mathutil.FormatBTC(b.Total()),
	}
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

func fatal(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "[descwallet] %v\n", err)
	os.Exit(1)
}
