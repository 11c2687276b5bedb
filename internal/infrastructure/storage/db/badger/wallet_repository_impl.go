package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/descwallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type walletRepositoryImpl struct {
	store *badgerhold.Store
}

func (r *walletRepositoryImpl) AddWallet(
	ctx context.Context, wallet *domain.Wallet,
) error {
	if wallet == nil {
		return ErrNullWallet
	}
	if err := r.store.Insert(wallet.Name, wallet); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrWalletAlreadyExists
		}
		return err
	}
	return nil
}

func (r *walletRepositoryImpl) GetWallet(
	ctx context.Context, name string,
) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := r.store.Get(name, &wallet); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// UpdateWallet reads and writes the wallet within the same badger
// transaction, so that concurrent updates never lose an index.
func (r *walletRepositoryImpl) UpdateWallet(
	ctx context.Context, name string,
	updateFn func(w *domain.Wallet) (*domain.Wallet, error),
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var wallet domain.Wallet
		if err := r.store.TxGet(tx, name, &wallet); err != nil {
			if err == badgerhold.ErrNotFound {
				return domain.ErrWalletNotFound
			}
			return err
		}

		updatedWallet, err := updateFn(&wallet)
		if err != nil {
			return err
		}
		if updatedWallet == nil {
			return ErrNullWallet
		}
		if updatedWallet.Name != name {
			return ErrWalletRename
		}

		return r.store.TxUpdate(tx, name, updatedWallet)
	})
}

func (r *walletRepositoryImpl) ListWallets(
	ctx context.Context,
) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	query := (&badgerhold.Query{}).SortBy("CreatedAt")
	if err := r.store.Find(&wallets, query); err != nil {
		return nil, err
	}
	return wallets, nil
}

func (r *walletRepositoryImpl) DeleteWallet(
	ctx context.Context, name string,
) error {
	if err := r.store.Delete(name, domain.Wallet{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.ErrWalletNotFound
		}
		return err
	}

	query := badgerhold.Where("WalletName").Eq(name)
	return r.store.DeleteMatching(domain.Unspent{}, query)
}
