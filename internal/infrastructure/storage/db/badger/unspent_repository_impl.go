package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/descwallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type unspentRepositoryImpl struct {
	store *badgerhold.Store
}

func (r *unspentRepositoryImpl) AddUnspents(
	ctx context.Context, unspents []domain.Unspent,
) (int, error) {
	count := 0
	err := r.store.Badger().Update(func(tx *badger.Txn) error {
		for i := range unspents {
			unspent := unspents[i]
			key := unspent.Key().String()
			if err := r.store.TxInsert(tx, key, &unspent); err != nil {
				if err == badgerhold.ErrKeyExists {
					continue
				}
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *unspentRepositoryImpl) GetAllUnspents(
	ctx context.Context, walletName string,
) ([]domain.Unspent, error) {
	query := badgerhold.Where("WalletName").Eq(walletName)
	return r.findUnspents(query)
}

func (r *unspentRepositoryImpl) GetAvailableUnspents(
	ctx context.Context, walletName string,
) ([]domain.Unspent, error) {
	query := badgerhold.Where("WalletName").Eq(walletName).
		And("Spent").Eq(false)
	return r.findUnspents(query)
}

func (r *unspentRepositoryImpl) GetUnspentForKey(
	ctx context.Context, key domain.UnspentKey,
) (*domain.Unspent, error) {
	var unspent domain.Unspent
	if err := r.store.Get(key.String(), &unspent); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrUtxoNotFound
		}
		return nil, err
	}
	return &unspent, nil
}

func (r *unspentRepositoryImpl) SpendUnspents(
	ctx context.Context, keys []domain.UnspentKey,
) (int, error) {
	return r.updateUnspents(keys, func(u *domain.Unspent) bool {
		if u.Spent {
			return false
		}
		u.Spent = true
		return true
	})
}

func (r *unspentRepositoryImpl) UpdateUnspents(
	ctx context.Context, unspents []domain.Unspent,
) (int, error) {
	confirmations := make(map[domain.UnspentKey]int64, len(unspents))
	keys := make([]domain.UnspentKey, 0, len(unspents))
	for _, u := range unspents {
		confirmations[u.Key()] = u.Confirmations
		keys = append(keys, u.Key())
	}

	return r.updateUnspents(keys, func(u *domain.Unspent) bool {
		c := confirmations[u.Key()]
		if u.Confirmations == c {
			return false
		}
		u.Confirmations = c
		return true
	})
}

func (r *unspentRepositoryImpl) GetBalance(
	ctx context.Context, walletName string,
) (domain.Balance, error) {
	unspents, err := r.GetAvailableUnspents(ctx, walletName)
	if err != nil {
		return domain.Balance{}, err
	}
	return domain.BalanceOf(unspents), nil
}

// updateUnspents applies updateFn to every stored unspent of the given keys
// and persists those for which it returns true. Unknown keys are skipped.
func (r *unspentRepositoryImpl) updateUnspents(
	keys []domain.UnspentKey, updateFn func(u *domain.Unspent) bool,
) (int, error) {
	count := 0
	err := r.store.Badger().Update(func(tx *badger.Txn) error {
		for _, key := range keys {
			var unspent domain.Unspent
			if err := r.store.TxGet(tx, key.String(), &unspent); err != nil {
				if err == badgerhold.ErrNotFound {
					continue
				}
				return err
			}
			if !updateFn(&unspent) {
				continue
			}
			if err := r.store.TxUpdate(tx, key.String(), &unspent); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *unspentRepositoryImpl) findUnspents(
	query *badgerhold.Query,
) ([]domain.Unspent, error) {
	var unspents []domain.Unspent
	if err := r.store.Find(&unspents, query.SortBy("TxID", "VOut")); err != nil {
		return nil, err
	}
	return unspents, nil
}
