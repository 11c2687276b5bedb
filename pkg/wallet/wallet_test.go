package wallet

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testMnemonic = strings.Fields(
		"abandon abandon abandon abandon abandon abandon " +
			"abandon abandon abandon abandon abandon about",
	)
	testPassphrase = "random password"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy source unavailable")
}

func newTestWallet(passphrase string) (*Wallet, error) {
	return NewWalletFromMnemonic(NewWalletFromMnemonicOpts{
		Mnemonic:   testMnemonic,
		Passphrase: passphrase,
		Network:    NetworkRegtest,
	})
}

func TestNewWallet(t *testing.T) {
	tests := []struct {
		opts          NewWalletOpts
		expectedWords int
	}{
		{NewWalletOpts{}, 12},
		{NewWalletOpts{EntropySize: 128, Passphrase: testPassphrase}, 12},
		{NewWalletOpts{EntropySize: 256, Network: NetworkTestnet}, 24},
	}
	for _, tt := range tests {
		wallet, err := NewWallet(tt.opts)
		require.NoError(t, err)

		mnemonic, err := wallet.Mnemonic()
		require.NoError(t, err)
		assert.Len(t, mnemonic, tt.expectedWords)
		assert.True(t, IsMnemonicValid(mnemonic))
		assert.Equal(t, tt.opts.Network, wallet.Network())
		assert.NotContains(t, wallet.String(), mnemonic[0]+" "+mnemonic[1])
	}
}

func TestFailingNewMnemonic(t *testing.T) {
	tests := []int{-1, 127, 257, 130}
	for _, tt := range tests {
		opts := NewMnemonicOpts{
			EntropySize: tt,
		}
		_, err := NewMnemonic(opts)
		assert.Equal(t, ErrInvalidEntropySize, err)
	}
}

func TestNewMnemonicEntropyFailure(t *testing.T) {
	_, err := NewMnemonic(NewMnemonicOpts{Source: failingReader{}})
	require.Error(t, err)

	var entropyErr *EntropyGenerationError
	assert.True(t, errors.As(err, &entropyErr))
	assert.True(t, errors.Is(err, ErrEntropyGeneration))

	_, err = NewWallet(NewWalletOpts{EntropySource: failingReader{}})
	assert.True(t, errors.Is(err, ErrEntropyGeneration))

	_, err = NewMnemonic(NewMnemonicOpts{Source: strings.NewReader("short")})
	assert.True(t, errors.Is(err, ErrEntropyGeneration))
}

func TestNewMnemonicFromSource(t *testing.T) {
	source := strings.NewReader(string(make([]byte, 16)))
	mnemonic, err := NewMnemonic(NewMnemonicOpts{Source: source})
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, mnemonic)
}

func TestNewWalletFromMnemonic(t *testing.T) {
	wallet, err := newTestWallet("")
	require.NoError(t, err)

	xprv, err := wallet.MasterExtendedKey()
	require.NoError(t, err)
	assert.Equal(
		t,
		"tprv8ZgxMBicQKsPe5YMU9gHen4Ez3ApihUfykaqUorj9t6FDqy3nP6eoXiAo2ssvpAjoLroQxHqr3R5nE3a5dU3DHTjTgJDd7zrbniJr6nrCzd",
		xprv,
	)

	fingerprint, err := wallet.MasterFingerprint()
	require.NoError(t, err)
	assert.Equal(t, "73c5da0a", fingerprint.String())

	wallet.Zero()
	_, err = wallet.MasterFingerprint()
	assert.Equal(t, ErrNullMasterKey, err)
}

func TestFailingNewWalletFromMnemonic(t *testing.T) {
	tests := []struct {
		opts NewWalletFromMnemonicOpts
		err  error
	}{
		{
			opts: NewWalletFromMnemonicOpts{},
			err:  ErrNullMnemonic,
		},
		{
			opts: NewWalletFromMnemonicOpts{
				Mnemonic: append(append([]string{}, testMnemonic[:11]...), "abandon"),
			},
			err: ErrInvalidMnemonic,
		},
		{
			opts: NewWalletFromMnemonicOpts{
				Mnemonic: testMnemonic,
				Network:  Network(42),
			},
			err: ErrInvalidNetwork,
		},
	}
	for _, tt := range tests {
		_, err := NewWalletFromMnemonic(tt.opts)
		assert.Equal(t, tt.err, err)
	}

	_, _, err := DeriveWalletDescriptorsFromMnemonic(
		strings.Fields(strings.Repeat("abandon ", 12)), "", NetworkRegtest,
	)
	assert.Equal(t, ErrInvalidMnemonic, err)
}

func TestIsMnemonicValid(t *testing.T) {
	tests := []struct {
		mnemonic string
		valid    bool
	}{
		{strings.Join(testMnemonic, " "), true},
		{"legal winner thank year wave sausage worth useful legal winner thank yellow", true},
		// known words, wrong checksum
		{strings.Repeat("abandon ", 12), false},
		{"legal winner thank year wave sausage worth useful legal winner thank thank", false},
		{strings.Repeat("abandon ", 11), false},
		{strings.Repeat("abandon ", 11) + "notaword", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsMnemonicValid(strings.Fields(tt.mnemonic)), tt.mnemonic)
	}
}

func TestParseNetwork(t *testing.T) {
	tests := []struct {
		name     string
		expected Network
		err      error
	}{
		{"regtest", NetworkRegtest, nil},
		{"Testnet", NetworkTestnet, nil},
		{" signet ", NetworkSignet, nil},
		{"bitcoin", NetworkMainnet, nil},
		{"mainnet", NetworkMainnet, nil},
		{"liquid", 0, ErrInvalidNetwork},
	}
	for _, tt := range tests {
		network, err := ParseNetwork(tt.name)
		assert.Equal(t, tt.err, err)
		if tt.err == nil {
			assert.Equal(t, tt.expected, network)
			assert.NotNil(t, network.Params())
		}
	}
}
