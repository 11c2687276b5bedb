package application

import "errors"

var (
	// ErrWalletNotInitialized ...
	ErrWalletNotInitialized = errors.New("wallet not initialized")
	// ErrWalletWatchOnly is returned when trying to spend from a wallet that
	// was opened without its secret descriptors.
	ErrWalletWatchOnly = errors.New("wallet is watch-only, secret descriptors required to spend")
	// ErrWalletNetworkMismatch ...
	ErrWalletNetworkMismatch = errors.New("stored wallet belongs to another network")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive number of satoshis")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("invalid address for the current network")
	// ErrNullTransaction ...
	ErrNullTransaction = errors.New("transaction must not be null")
	// ErrMixedDescriptors ...
	ErrMixedDescriptors = errors.New("receive and change descriptors must be both secret or both public")
)
