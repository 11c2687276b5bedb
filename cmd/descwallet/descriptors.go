package main

import (
	"strings"

	"github.com/tdex-network/descwallet/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var descriptors = cli.Command{
	Name:  "descriptors",
	Usage: "derive the receive and change descriptors of a new or existing mnemonic",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "mnemonic",
			Usage: "the space separated mnemonic to derive from. If omitted, a new one is generated",
		},
		&cli.BoolFlag{
			Name:  "checksum",
			Usage: "append the checksum to the descriptors",
		},
	},
	Action: descriptorsAction,
}

func descriptorsAction(ctx *cli.Context) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	var receive, change string
	if mnemonic := ctx.String("mnemonic"); mnemonic != "" {
		receive, change, err = wallet.DeriveWalletDescriptorsFromMnemonic(
			strings.Fields(mnemonic), cfg.Passphrase, cfg.Network,
		)
	} else {
		receive, change, err = wallet.DeriveWalletDescriptors(
			cfg.Network, cfg.Passphrase,
		)
	}
	if err != nil {
		return err
	}

	if ctx.Bool("checksum") {
		if receive, err = wallet.DescriptorWithChecksum(receive); err != nil {
			return err
		}
		if change, err = wallet.DescriptorWithChecksum(change); err != nil {
			return err
		}
	}

	printRespJSON(map[string]string{
		"receive": receive,
		"change":  change,
	})

	return nil
}
