package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var descriptorFixtures = []struct {
	passphrase string
	receive    string
	change     string
}{
	{
		passphrase: "",
		receive:    "wpkh([73c5da0a/84'/1'/0'/0]tprv8iw5xrehoTkkSysCdvXEfMeogjchzWiMdmjMwZV4HcWPTzRUdr2v7mKp1gwu9MUimRw5B5f3mdgT9Jk6vNCWZkSNqQPaQTAGRTNCn87Bd16/*)",
		change:     "wpkh([73c5da0a/84'/1'/0'/1]tprv8iw5xrehoTkkUQZsoaMYtLBM9moKBtbws5tnzLfbPtPHaB3gVunBP8dZ75gvv3afiecPdA3zT4yaHWjFi174xH1Z3Lckxs35vAPYPMDigJc/*)",
	},
	{
		passphrase: testPassphrase,
		receive:    "wpkh([b910eb05/84'/1'/0'/0]tprv8hEEDZqhvuMphcnFFykLQsxHrZPFLRVXMhnNRPbj2YqxReaouKLHNeNYSsXHPYkmE8FgxmcnUFwCZz5Z5qhMZ88PsYwivYgjoT4Jo4KoJQ2/*)",
		change:     "wpkh([b910eb05/84'/1'/0'/1]tprv8hEEDZqhvuMpieufKabme426o86ddZ6dSqMfyryWgkWfdQ3hhoPx1prw1iHMrD5KmHfCkyeMr8o8VDBtZhvb1jGCt3UFhFqrY7dxHthb9Js/*)",
	},
}

func TestDeriveWalletDescriptorsFromMnemonic(t *testing.T) {
	for _, tt := range descriptorFixtures {
		receive, change, err := DeriveWalletDescriptorsFromMnemonic(
			testMnemonic, tt.passphrase, NetworkRegtest,
		)
		require.NoError(t, err)
		assert.Equal(t, tt.receive, receive)
		assert.Equal(t, tt.change, change)
	}
}

func TestDeriveWalletDescriptors(t *testing.T) {
	receive, change, err := DeriveWalletDescriptors(NetworkRegtest, testPassphrase)
	require.NoError(t, err)

	for _, desc := range []string{receive, change} {
		assert.True(t, strings.HasPrefix(desc, "wpkh(["))
		assert.True(t, strings.HasSuffix(desc, "/*)"))
		assert.Contains(t, desc, "]tprv")
	}
	assert.NotEqual(t, receive, change)

	otherReceive, otherChange, err := DeriveWalletDescriptors(NetworkRegtest, testPassphrase)
	require.NoError(t, err)
	assert.NotEqual(t, receive, otherReceive)
	assert.NotEqual(t, change, otherChange)

	mainnetReceive, _, err := DeriveWalletDescriptors(NetworkMainnet, "")
	require.NoError(t, err)
	assert.Contains(t, mainnetReceive, "]xprv")
}

func TestDescriptorsDeterminism(t *testing.T) {
	wallet, err := newTestWallet(testPassphrase)
	require.NoError(t, err)

	receive, change, err := wallet.Descriptors()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		r, c, err := wallet.Descriptors()
		require.NoError(t, err)
		assert.Equal(t, receive, r)
		assert.Equal(t, change, c)
	}
}

func TestDescriptorsDistinctness(t *testing.T) {
	wallet, err := newTestWallet("")
	require.NoError(t, err)
	fingerprint, err := wallet.MasterFingerprint()
	require.NoError(t, err)

	receive, change, err := wallet.Descriptors()
	require.NoError(t, err)
	require.NotEqual(t, receive, change)

	receiveDesc, err := ParseDescriptor(receive)
	require.NoError(t, err)
	changeDesc, err := ParseDescriptor(change)
	require.NoError(t, err)

	receiveOrigin, changeOrigin := receiveDesc.Key.Origin(), changeDesc.Key.Origin()
	assert.Equal(t, fingerprint, receiveOrigin.Fingerprint)
	assert.Equal(t, fingerprint, changeOrigin.Fingerprint)

	// only the last step differs
	assert.Equal(t, DefaultBaseDerivationPath, receiveOrigin.Path[:3])
	assert.Equal(t, DefaultBaseDerivationPath, changeOrigin.Path[:3])
	assert.Equal(t, uint32(0), receiveOrigin.Path[3])
	assert.Equal(t, uint32(1), changeOrigin.Path[3])
	assert.NotEqual(
		t,
		receiveDesc.Key.ExtendedKey().String(),
		changeDesc.Key.ExtendedKey().String(),
	)
}

func TestDescriptorsPassphraseSensitivity(t *testing.T) {
	withoutPassphrase, err := newTestWallet("")
	require.NoError(t, err)
	withPassphrase, err := newTestWallet(testPassphrase)
	require.NoError(t, err)

	fp1, _ := withoutPassphrase.MasterFingerprint()
	fp2, _ := withPassphrase.MasterFingerprint()
	assert.NotEqual(t, fp1, fp2)

	r1, c1, err := withoutPassphrase.Descriptors()
	require.NoError(t, err)
	r2, c2, err := withPassphrase.Descriptors()
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2)
	assert.NotEqual(t, c1, c2)
}

func TestDescriptorRoundTrip(t *testing.T) {
	wallet, err := newTestWallet(testPassphrase)
	require.NoError(t, err)

	for _, path := range []string{ReceivePath, ChangePath} {
		key, err := wallet.Derive(DeriveOpts{DerivationPath: path})
		require.NoError(t, err)

		desc, err := wallet.Descriptor(path)
		require.NoError(t, err)

		parsed, err := ParseDescriptor(desc.String())
		require.NoError(t, err)
		require.IsType(t, &SecretDescriptorKey{}, parsed.Key)

		assert.Equal(t, key.Origin(), parsed.Key.Origin())
		assert.Equal(t, key.ExtendedKey().String(), parsed.Key.ExtendedKey().String())
		assert.Equal(t, key.Wildcard(), parsed.Key.Wildcard())
		assert.Equal(t, desc.String(), parsed.String())
	}
}
