package domain

import "context"

type WalletRepository interface {
	AddWallet(ctx context.Context, wallet *Wallet) error
	GetWallet(ctx context.Context, name string) (*Wallet, error)
	UpdateWallet(
		ctx context.Context,
		name string,
		updateFn func(w *Wallet) (*Wallet, error),
	) error
	ListWallets(ctx context.Context) ([]Wallet, error)
	DeleteWallet(ctx context.Context, name string) error
}
