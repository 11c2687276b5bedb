package application

import "github.com/tdex-network/descwallet/internal/core/domain"

// SyncInfo summarizes the changes applied to the stored unspents by a sync.
type SyncInfo struct {
	Height  int64
	Added   int
	Updated int
	Spent   int
	// Unknown counts node unspents that could not be matched to any
	// derivation index of the wallet
	Unknown int
}

// RunReport is the outcome of a full send-and-verify cycle.
type RunReport struct {
	WalletName     string
	ReceiveAddress string
	FundTxID       string
	SpendTxID      string
	NodeBalance    domain.Balance
	WalletBalance  domain.Balance
}
