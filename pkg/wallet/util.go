package wallet

import (
	"io"
	"math"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/vulpemventures/go-bip39"
)

const (
	// MaxHardenedValue is the max value for hardened indexes of BIP32
	// derivation paths
	MaxHardenedValue = math.MaxUint32 - hdkeychain.HardenedKeyStart
)

func generateMnemonic(entropySize int, source io.Reader) ([]string, error) {
	entropy := make([]byte, entropySize/8)
	if _, err := io.ReadFull(source, entropy); err != nil {
		return nil, &EntropyGenerationError{Err: err}
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, err
	}
	return strings.Split(mnemonic, " "), nil
}

func generateSeedFromMnemonic(mnemonic []string, passphrase string) []byte {
	return bip39.NewSeed(joinMnemonic(mnemonic), passphrase)
}

// isMnemonicValid checks the word count, the wordlist and the BIP39
// checksum of the mnemonic.
func isMnemonicValid(mnemonic []string) bool {
	_, err := bip39.EntropyFromMnemonic(joinMnemonic(mnemonic))
	return err == nil
}

func deriveKey(
	key *hdkeychain.ExtendedKey, path DerivationPath,
) (*hdkeychain.ExtendedKey, error) {
	var err error
	for _, step := range path {
		key, err = key.Derive(step)
		if err != nil {
			return nil, err
		}
	}
	return key, nil
}
