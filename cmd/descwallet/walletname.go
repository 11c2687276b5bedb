package main

import (
	"fmt"

	"github.com/tdex-network/descwallet/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var walletname = cli.Command{
	Name:  "walletname",
	Usage: "print the deterministic name of the wallet made of the given descriptors",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "receive",
			Usage:    "the receive descriptor",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "change",
			Usage:    "the change descriptor",
			Required: true,
		},
	},
	Action: walletNameAction,
}

func walletNameAction(ctx *cli.Context) error {
	name, err := wallet.WalletName(ctx.String("receive"), ctx.String("change"))
	if err != nil {
		return err
	}

	fmt.Println(name)

	return nil
}
