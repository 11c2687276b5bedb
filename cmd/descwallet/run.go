package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/descwallet/internal/core/application"
	"github.com/urfave/cli/v2"
)

var run = cli.Command{
	Name: "run",
	Usage: "fund a fresh descriptor wallet from the node wallet, send part of " +
		"the coins back and verify the spending transaction",
	Action: runAction,
}

func runAction(ctx *cli.Context) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	node, _, walletSvc, cleanup, err := getServices(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	demoSvc, err := application.NewDemoService(
		node, walletSvc, application.DemoConfig{
			NodeWallet:     cfg.NodeWallet,
			Passphrase:     cfg.Passphrase,
			Network:        cfg.Network,
			FundAmount:     cfg.FundAmount,
			SendAmount:     cfg.SendAmount,
			MaturityBlocks: cfg.MaturityBlocks,
		},
	)
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT, os.Interrupt,
	)
	defer cancel()

	log.Debug("starting run")

	report, err := demoSvc.Run(runCtx)
	if err != nil {
		return err
	}

	printRespJSON(map[string]interface{}{
		"wallet_name":     report.WalletName,
		"receive_address": report.ReceiveAddress,
		"fund_txid":       report.FundTxID,
		"spend_txid":      report.SpendTxID,
		"node_balance":    toBalanceJSON(report.NodeBalance),
		"wallet_balance":  toBalanceJSON(report.WalletBalance),
	})

	return nil
}
