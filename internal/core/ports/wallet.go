package ports

import (
	"context"

	"github.com/btcsuite/btcd/wire"
)

// Node is a bitcoin full node hosting one or more wallets.
type Node interface {
	// CreateOrLoadWallet makes sure the named wallet exists and is loaded
	CreateOrLoadWallet(ctx context.Context, name string, opts WalletOpts) error
	// Wallet returns a client scoped to the named wallet
	Wallet(name string) (NodeWallet, error)
	GetBlockCount(ctx context.Context) (int64, error)
	Close()
}

// NodeWallet is a wallet hosted by a Node.
type NodeWallet interface {
	Name() string
	NewAddress(ctx context.Context) (string, error)
	GenerateToAddress(ctx context.Context, numBlocks int64, addr string) ([]string, error)
	SendToAddress(ctx context.Context, addr string, sats int64) (string, error)
	Balance(ctx context.Context) (Balance, error)
	ListUnspent(ctx context.Context) ([]Utxo, error)
	ImportDescriptors(ctx context.Context, reqs []ImportDescriptorRequest) error
	// FundPsbt returns a base64 PSBT paying the given address→sats outputs,
	// funded with the wallet's coins and with change back to the wallet
	FundPsbt(ctx context.Context, outputs map[string]int64) (string, error)
	GetTransaction(ctx context.Context, txid string) (*wire.MsgTx, error)
	BroadcastTransaction(ctx context.Context, tx *wire.MsgTx) (string, error)
	Close()
}
