package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/descwallet/internal/core/domain"
	"github.com/tdex-network/descwallet/internal/core/ports"
	"github.com/tdex-network/descwallet/pkg/wallet"
)

// DemoConfig holds the parameters of a send-and-verify cycle. Amounts are in
// satoshis.
type DemoConfig struct {
	NodeWallet     string
	Passphrase     string
	Network        wallet.Network
	FundAmount     int64
	SendAmount     int64
	MaturityBlocks int64
}

func (c DemoConfig) validate() error {
	if len(c.NodeWallet) <= 0 {
		return fmt.Errorf("missing node wallet name")
	}
	if c.FundAmount <= 0 || c.SendAmount <= 0 {
		return ErrInvalidAmount
	}
	if c.SendAmount >= c.FundAmount {
		return fmt.Errorf("send amount must be lower than fund amount")
	}
	if c.MaturityBlocks <= 0 {
		return fmt.Errorf("maturity blocks must be a positive number")
	}
	return nil
}

// DemoService runs the full cycle: fund a node wallet, derive a fresh
// descriptor wallet, receive coins into it and send part of them back.
type DemoService interface {
	Run(ctx context.Context) (*RunReport, error)
}

type demoService struct {
	node      ports.Node
	walletSvc WalletService
	cfg       DemoConfig
}

func NewDemoService(
	node ports.Node, walletSvc WalletService, cfg DemoConfig,
) (DemoService, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &demoService{node, walletSvc, cfg}, nil
}

func (d *demoService) Run(ctx context.Context) (*RunReport, error) {
	logger := log.WithField("run", uuid.New().String())

	if err := d.node.CreateOrLoadWallet(
		ctx, d.cfg.NodeWallet, ports.WalletOpts{},
	); err != nil {
		return nil, err
	}
	nodeWallet, err := d.node.Wallet(d.cfg.NodeWallet)
	if err != nil {
		return nil, err
	}

	minerAddr, err := nodeWallet.NewAddress(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := nodeWallet.GenerateToAddress(
		ctx, d.cfg.MaturityBlocks, minerAddr,
	); err != nil {
		return nil, fmt.Errorf("failed to fund node wallet: %w", err)
	}
	logger.Infof("mined %d blocks to node wallet %s", d.cfg.MaturityBlocks, d.cfg.NodeWallet)

	receive, change, err := wallet.DeriveWalletDescriptors(
		d.cfg.Network, d.cfg.Passphrase,
	)
	if err != nil {
		return nil, err
	}

	w, err := d.walletSvc.CreateWallet(ctx, receive, change)
	if err != nil {
		return nil, err
	}
	logger = logger.WithField("wallet", w.Name)
	logger.Info("created descriptor wallet")

	if _, err := d.walletSvc.Sync(ctx); err != nil {
		return nil, err
	}

	receiveAddr, err := d.walletSvc.NewAddress(ctx)
	if err != nil {
		return nil, err
	}
	fundTxid, err := nodeWallet.SendToAddress(ctx, receiveAddr, d.cfg.FundAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to fund descriptor wallet: %w", err)
	}
	logger.WithField("txid", fundTxid).Infof(
		"sent %d sats to %s", d.cfg.FundAmount, receiveAddr,
	)
	if _, err := nodeWallet.GenerateToAddress(ctx, 1, minerAddr); err != nil {
		return nil, err
	}

	if _, err := d.walletSvc.Sync(ctx); err != nil {
		return nil, err
	}

	nodeAddr, err := nodeWallet.NewAddress(ctx)
	if err != nil {
		return nil, err
	}
	spendTxid, err := d.walletSvc.Send(ctx, nodeAddr, d.cfg.SendAmount)
	if err != nil {
		return nil, err
	}
	logger.WithField("txid", spendTxid).Infof(
		"sent %d sats back to node wallet", d.cfg.SendAmount,
	)
	if _, err := nodeWallet.GenerateToAddress(ctx, 1, minerAddr); err != nil {
		return nil, err
	}

	if _, err := d.walletSvc.Sync(ctx); err != nil {
		return nil, err
	}

	nodeBalance, err := nodeWallet.Balance(ctx)
	if err != nil {
		return nil, err
	}
	walletBalance, err := d.walletSvc.Balance(ctx)
	if err != nil {
		return nil, err
	}

	return &RunReport{
		WalletName:     w.Name,
		ReceiveAddress: receiveAddr,
		FundTxID:       fundTxid,
		SpendTxID:      spendTxid,
		NodeBalance: domain.Balance{
			Confirmed:   nodeBalance.GetConfirmedBalance(),
			Unconfirmed: nodeBalance.GetUnconfirmedBalance(),
			Immature:    nodeBalance.GetImmatureBalance(),
		},
		WalletBalance: walletBalance,
	}, nil
}
