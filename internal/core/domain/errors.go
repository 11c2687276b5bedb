package domain

import "errors"

var (
	// ErrWalletNullDescriptor ...
	ErrWalletNullDescriptor = errors.New("receive and change descriptors must not be null")
	// ErrWalletNullName ...
	ErrWalletNullName = errors.New("wallet name must not be null")
	// ErrWalletDescriptorMismatch is returned when the descriptors given to
	// an existing wallet do not match the stored checksums.
	ErrWalletDescriptorMismatch = errors.New(
		"descriptors do not match those stored for the wallet",
	)
	// ErrWalletInvalidKeychain ...
	ErrWalletInvalidKeychain = errors.New("keychain must be either external or internal")
	// ErrWalletNotFound ...
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrWalletAlreadyExists ...
	ErrWalletAlreadyExists = errors.New("wallet already exists")
	// ErrWalletIndexOverflow ...
	ErrWalletIndexOverflow = errors.New("no more addresses can be derived for keychain")

	// ErrUtxoInvalidKey ...
	ErrUtxoInvalidKey = errors.New("utxo key must be in the form txid:vout")
	// ErrUtxoNotFound ...
	ErrUtxoNotFound = errors.New("utxo not found")
)
