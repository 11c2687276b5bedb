package domain

import "context"

type UnspentRepository interface {
	// AddUnspents inserts the unspents not yet stored and returns how many
	// were added
	AddUnspents(ctx context.Context, unspents []Unspent) (int, error)
	GetAllUnspents(ctx context.Context, walletName string) ([]Unspent, error)
	GetAvailableUnspents(ctx context.Context, walletName string) ([]Unspent, error)
	GetUnspentForKey(ctx context.Context, key UnspentKey) (*Unspent, error)
	SpendUnspents(ctx context.Context, keys []UnspentKey) (int, error)
	// UpdateUnspents overwrites the confirmation count of the stored
	// unspents matching the given ones
	UpdateUnspents(ctx context.Context, unspents []Unspent) (int, error)
	GetBalance(ctx context.Context, walletName string) (Balance, error)
}
