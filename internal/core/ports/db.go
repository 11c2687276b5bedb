package ports

import "github.com/tdex-network/descwallet/internal/core/domain"

// RepoManager interface defines the methods for wallet and unspent storage.
type RepoManager interface {
	WalletRepository() domain.WalletRepository
	UnspentRepository() domain.UnspentRepository

	Close()
}
