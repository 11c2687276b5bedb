package wallet

const (
	// ReceivePath is the BIP84 external chain of the first testnet account.
	ReceivePath = "m/84h/1h/0h/0"
	// ChangePath is the BIP84 internal chain of the first testnet account.
	ChangePath = "m/84h/1h/0h/1"
)

// DeriveWalletDescriptors generates a fresh 12-word mnemonic and returns the
// receive and change wpkh() descriptors derived from it with the given
// passphrase. The mnemonic and master key are discarded once the
// descriptors are rendered.
func DeriveWalletDescriptors(
	network Network, passphrase string,
) (string, string, error) {
	w, err := NewWallet(NewWalletOpts{
		Passphrase: passphrase,
		Network:    network,
	})
	if err != nil {
		return "", "", err
	}
	defer w.Zero()

	return w.Descriptors()
}

// DeriveWalletDescriptorsFromMnemonic is the deterministic counterpart of
// DeriveWalletDescriptors for an existing mnemonic.
func DeriveWalletDescriptorsFromMnemonic(
	mnemonic []string, passphrase string, network Network,
) (string, string, error) {
	w, err := NewWalletFromMnemonic(NewWalletFromMnemonicOpts{
		Mnemonic:   mnemonic,
		Passphrase: passphrase,
		Network:    network,
	})
	if err != nil {
		return "", "", err
	}
	defer w.Zero()

	return w.Descriptors()
}

// Descriptors returns the (receive, change) descriptors of the wallet
func (w *Wallet) Descriptors() (string, string, error) {
	descriptors := make([]string, 0, 2)
	for _, path := range []string{ReceivePath, ChangePath} {
		desc, err := w.Descriptor(path)
		if err != nil {
			return "", "", err
		}
		descriptors = append(descriptors, desc.String())
	}
	return descriptors[0], descriptors[1], nil
}

// Descriptor derives the key at the given path and wraps it into a secret
// wpkh() descriptor
func (w *Wallet) Descriptor(path string) (*Descriptor, error) {
	key, err := w.Derive(DeriveOpts{DerivationPath: path})
	if err != nil {
		return nil, err
	}

	switch k := key.(type) {
	case *SecretDescriptorKey:
		return NewWpkhDescriptor(k)
	case *PublicDescriptorKey:
		return nil, ErrUnexpectedPublicKey
	default:
		return nil, ErrUnexpectedPublicKey
	}
}
