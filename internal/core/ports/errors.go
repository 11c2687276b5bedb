package ports

import "errors"

// ErrTransactionNotFound is returned by a NodeWallet when neither the wallet
// nor the node know about a transaction.
var ErrTransactionNotFound = errors.New("transaction not found")
