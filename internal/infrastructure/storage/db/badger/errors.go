package dbbadger

import "errors"

var (
	// ErrNullWallet ...
	ErrNullWallet = errors.New("wallet must not be null")
	// ErrWalletRename ...
	ErrWalletRename = errors.New("wallet name cannot be changed")
)
