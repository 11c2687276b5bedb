package wallet

import (
	"crypto/rand"
	"io"
)

type NewMnemonicOpts struct {
	EntropySize int
	// Source defaults to crypto/rand.Reader.
	Source io.Reader
}

func (o NewMnemonicOpts) validate() error {
	if o.EntropySize > 0 {
		if o.EntropySize < 128 || o.EntropySize > 256 || o.EntropySize%32 != 0 {
			return ErrInvalidEntropySize
		}
	}
	if o.EntropySize < 0 {
		return ErrInvalidEntropySize
	}
	return nil
}

// NewMnemonic returns a new mnemonic as a list of words
func NewMnemonic(opts NewMnemonicOpts) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.EntropySize == 0 {
		opts.EntropySize = 128
	}
	if opts.Source == nil {
		opts.Source = rand.Reader
	}

	return generateMnemonic(opts.EntropySize, opts.Source)
}

// IsMnemonicValid returns whether the words form a valid BIP39 mnemonic
func IsMnemonicValid(mnemonic []string) bool {
	return isMnemonicValid(mnemonic)
}
