package wallet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

var (
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic is null")
	// ErrNullMasterKey ...
	ErrNullMasterKey = errors.New("master key is null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrNullDescriptor ...
	ErrNullDescriptor = errors.New("descriptor must not be null")
	// ErrNullPsbt ...
	ErrNullPsbt = errors.New("psbt base64 must not be null")
	// ErrNullTransaction ...
	ErrNullTransaction = errors.New("transaction must not be null")

	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrInvalidFingerprint ...
	ErrInvalidFingerprint = errors.New(
		"fingerprint must be a 4 byte array in hex format",
	)
	// ErrInvalidChecksum ...
	ErrInvalidChecksum = errors.New("descriptor checksum mismatch")
	// ErrInvalidDescriptorChar ...
	ErrInvalidDescriptorChar = errors.New("invalid character in descriptor")
	// ErrInvalidExtendedKey ...
	ErrInvalidExtendedKey = errors.New("invalid extended key")
	// ErrInvalidNetwork ...
	ErrInvalidNetwork = errors.New(
		"network must be one of mainnet, testnet, signet, regtest",
	)

	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
	// ErrMalformedKeyOrigin ...
	ErrMalformedKeyOrigin = errors.New(
		"key origin must be in the form [fingerprint/path]",
	)
	// ErrUnsupportedDescriptor ...
	ErrUnsupportedDescriptor = errors.New(
		"only single key wpkh() descriptors are supported",
	)
	// ErrUnexpectedPublicKey is returned if deriving a descriptor key from a
	// private master key does not yield a secret descriptor key.
	ErrUnexpectedPublicKey = errors.New(
		"derivation produced a public descriptor key, expected a secret one",
	)
	// ErrNotPrivateKey ...
	ErrNotPrivateKey = errors.New("extended key is not private")
	// ErrNetworkMismatch ...
	ErrNetworkMismatch = errors.New("extended key does not belong to network")
	// ErrDerivationPathTooLong ...
	ErrDerivationPathTooLong = errors.New("derivation path is too long")

	// ErrNothingToSign ...
	ErrNothingToSign = errors.New("no psbt input can be signed with the given keys")
	// ErrUnsupportedSighash ...
	ErrUnsupportedSighash = errors.New("psbt input requests a sighash type the signer does not allow")
	// ErrPsbtNotComplete ...
	ErrPsbtNotComplete = errors.New("psbt could not be finalized")
	// ErrPrevoutNotFound ...
	ErrPrevoutNotFound = errors.New("previous output not found")
	// ErrScriptVerification ...
	ErrScriptVerification = errors.New("script verification failed")

	// ErrEntropyGeneration can be matched with errors.Is against any
	// *EntropyGenerationError.
	ErrEntropyGeneration = errors.New("failed to generate entropy")
	// ErrPathParse can be matched with errors.Is against any *PathParseError.
	ErrPathParse = errors.New("failed to parse derivation path")
)

// EntropyGenerationError is returned when the random source fails while
// generating a new mnemonic.
type EntropyGenerationError struct {
	Err error
}

func (e *EntropyGenerationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrEntropyGeneration, e.Err)
}

func (e *EntropyGenerationError) Unwrap() error { return e.Err }

func (e *EntropyGenerationError) Is(target error) bool {
	return target == ErrEntropyGeneration
}

// PathParseError is returned when a derivation path string is malformed.
type PathParseError struct {
	Path string
	Err  error
}

func (e *PathParseError) Error() string {
	return fmt.Sprintf("%s '%s': %s", ErrPathParse, e.Path, e.Err)
}

func (e *PathParseError) Unwrap() error { return e.Err }

func (e *PathParseError) Is(target error) bool {
	return target == ErrPathParse
}

// Wallet holds a mnemonic and the master key derived from it for a given
// network. It is meant to live only for the time needed to produce the
// descriptors.
type Wallet struct {
	mnemonic  []string
	network   Network
	masterKey *hdkeychain.ExtendedKey
}

// NewWalletOpts is the struct given to the NewWallet method
type NewWalletOpts struct {
	EntropySize   int
	EntropySource io.Reader
	Passphrase    string
	Network       Network
}

func (o NewWalletOpts) validate() error {
	if err := (NewMnemonicOpts{EntropySize: o.EntropySize}).validate(); err != nil {
		return err
	}
	return o.Network.validate()
}

// NewWallet generates a fresh mnemonic and derives its master key
func NewWallet(opts NewWalletOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	mnemonic, err := NewMnemonic(NewMnemonicOpts{
		EntropySize: opts.EntropySize,
		Source:      opts.EntropySource,
	})
	if err != nil {
		return nil, err
	}

	return NewWalletFromMnemonic(NewWalletFromMnemonicOpts{
		Mnemonic:   mnemonic,
		Passphrase: opts.Passphrase,
		Network:    opts.Network,
	})
}

// NewWalletFromMnemonicOpts is the struct given to the NewWalletFromMnemonic
// method
type NewWalletFromMnemonicOpts struct {
	Mnemonic   []string
	Passphrase string
	Network    Network
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if !isMnemonicValid(o.Mnemonic) {
		return ErrInvalidMnemonic
	}
	return o.Network.validate()
}

// NewWalletFromMnemonic restores the master key of the given mnemonic and
// passphrase for the given network
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	seed := generateSeedFromMnemonic(opts.Mnemonic, opts.Passphrase)
	masterKey, err := NewMasterKey(seed, opts.Network)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		mnemonic:  opts.Mnemonic,
		network:   opts.Network,
		masterKey: masterKey,
	}, nil
}

func (w *Wallet) validate() error {
	if len(w.mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if w.masterKey == nil {
		return ErrNullMasterKey
	}
	return nil
}

// Mnemonic is getter for the wallet mnemonic
func (w *Wallet) Mnemonic() ([]string, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w.mnemonic, nil
}

// Network returns the network the master key is bound to
func (w *Wallet) Network() Network {
	return w.network
}

// MasterFingerprint returns the fingerprint of the master key
func (w *Wallet) MasterFingerprint() (Fingerprint, error) {
	if err := w.validate(); err != nil {
		return Fingerprint{}, err
	}
	return KeyFingerprint(w.masterKey)
}

// MasterExtendedKey returns the base58 encoded master extended private key
func (w *Wallet) MasterExtendedKey() (string, error) {
	if err := w.validate(); err != nil {
		return "", err
	}
	return w.masterKey.String(), nil
}

// Zero clears the master key from memory
func (w *Wallet) Zero() {
	if w.masterKey != nil {
		w.masterKey.Zero()
		w.masterKey = nil
	}
}

// String never includes the mnemonic words.
func (w *Wallet) String() string {
	return fmt.Sprintf(
		"Wallet{network: %s, words: %d}", w.network, len(w.mnemonic),
	)
}

func joinMnemonic(mnemonic []string) string {
	return strings.Join(mnemonic, " ")
}
