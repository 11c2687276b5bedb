package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var balance = cli.Command{
	Name:  "balance",
	Usage: "print the stored balance of a previously synced wallet",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "wallet",
			Usage:    "the name of the wallet",
			Required: true,
		},
	},
	Action: balanceAction,
}

func balanceAction(ctx *cli.Context) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	repoManager, err := getRepoManager(cfg)
	if err != nil {
		return err
	}
	defer repoManager.Close()

	name := ctx.String("wallet")
	w, err := repoManager.WalletRepository().GetWallet(context.Background(), name)
	if err != nil {
		return err
	}
	b, err := repoManager.UnspentRepository().GetBalance(
		context.Background(), name,
	)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"wallet_name": w.Name,
		"network":     w.Network,
		"sync_height": w.SyncHeight,
		"balance":     toBalanceJSON(b),
	})

	return nil
}
