package wallet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFingerprint(t *testing.T) {
	tests := []struct {
		input string
		err   error
	}{
		{"73c5da0a", nil},
		{"B910EB05", nil},
		{"73c5da", ErrInvalidFingerprint},
		{"73c5da0a00", ErrInvalidFingerprint},
		{"zzzzzzzz", ErrInvalidFingerprint},
	}
	for _, tt := range tests {
		fp, err := ParseFingerprint(tt.input)
		assert.Equal(t, tt.err, err)
		if tt.err == nil {
			assert.Len(t, fp.String(), 8)
		}
	}

	fp, _ := ParseFingerprint("73c5da0a")
	assert.Equal(t, uint32(0x0adac573), fp.Uint32())
}

func TestMasterFingerprint(t *testing.T) {
	tests := []struct {
		passphrase string
		expected   string
	}{
		{"", "73c5da0a"},
		{testPassphrase, "b910eb05"},
	}
	for _, tt := range tests {
		wallet, err := newTestWallet(tt.passphrase)
		require.NoError(t, err)

		fp, err := wallet.MasterFingerprint()
		require.NoError(t, err)
		assert.Equal(t, tt.expected, fp.String())
	}
}

func TestDerive(t *testing.T) {
	wallet, err := newTestWallet("")
	require.NoError(t, err)

	key, err := wallet.Derive(DeriveOpts{DerivationPath: ReceivePath})
	require.NoError(t, err)
	require.IsType(t, &SecretDescriptorKey{}, key)

	assert.True(t, key.IsPrivate())
	assert.Equal(t, "73c5da0a", key.Origin().Fingerprint.String())
	assert.Equal(t, "m/84'/1'/0'/0", key.Origin().Path.String())
	assert.Equal(t, WildcardUnhardened, key.Wildcard())
	assert.Equal(t, uint8(4), key.ExtendedKey().Depth())
	assert.Equal(
		t, "m/84'/1'/0'/0/5", key.FullPath(5).String(),
	)

	pubkey, err := ChildPubKey(key, 0)
	require.NoError(t, err)
	assert.Equal(
		t,
		"02e7ab2537b5d49e970309aae06e9e49f36ce1c9febbd44ec8e0d1cca0b4f9c319",
		hexPubKey(pubkey),
	)
}

func TestFailingDerive(t *testing.T) {
	wallet, err := newTestWallet("")
	require.NoError(t, err)

	tests := []string{"", "m", "m/84h//0", "m/84x/1h/0h/0", "m/4294967296"}
	for _, tt := range tests {
		_, err := wallet.Derive(DeriveOpts{DerivationPath: tt})
		require.Error(t, err)

		var pathErr *PathParseError
		assert.True(t, errors.As(err, &pathErr), tt)
		assert.True(t, errors.Is(err, ErrPathParse), tt)
		assert.Equal(t, tt, pathErr.Path)
	}
}
