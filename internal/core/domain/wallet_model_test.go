package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/descwallet/internal/core/domain"
	"github.com/tdex-network/descwallet/pkg/wallet"
)

const (
	testReceive = "wpkh([73c5da0a/84'/1'/0'/0]tprv8iw5xrehoTkkSysCdvXEfMeogjchzWiMdmjMwZV4HcWPTzRUdr2v7mKp1gwu9MUimRw5B5f3mdgT9Jk6vNCWZkSNqQPaQTAGRTNCn87Bd16/*)"
	testChange  = "wpkh([73c5da0a/84'/1'/0'/1]tprv8iw5xrehoTkkUQZsoaMYtLBM9moKBtbws5tnzLfbPtPHaB3gVunBP8dZ75gvv3afiecPdA3zT4yaHWjFi174xH1Z3Lckxs35vAPYPMDigJc/*)"

	testPublicReceive = "wpkh([73c5da0a/84'/1'/0'/0]tpubDFd87GgwwqSRLStzXaBq4mJvFm8e9quGD5L9E5XMhtJnJUgFGErWJFwgBr9RLyXGdzDhfAChbKF6p2RaZsArrJAgAhTWNWFDWyDkshPRodD/*)#azrtal4y"
	testPublicChange  = "wpkh([73c5da0a/84'/1'/0'/1]tpubDFd87GgwwqSRMsbfhE29HjqTioKFMDnrSPVaGrhtpABgQfJT8JbmZdFRHD1JuEVauWxXSUAkVpH3r5YfG4pDMpacQ2BK88rKBzhvm7HXrVA/*)#h8cazh4h"
)

func TestNewWallet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		receive string
		change  string
	}{
		{testReceive, testChange},
		{testPublicReceive, testPublicChange},
	}

	for _, tt := range tests {
		w, err := domain.NewWallet(tt.receive, tt.change, wallet.NetworkRegtest)
		require.NoError(t, err)
		require.Equal(t, "azrtal4yh8cazh4h", w.Name)
		require.Equal(t, "regtest", w.Network)
		require.Equal(t, "73c5da0a", w.Fingerprint)
		require.Equal(t, testPublicReceive, w.ReceiveDescriptor)
		require.Equal(t, testPublicChange, w.ChangeDescriptor)
		require.Equal(t, "azrtal4y", w.ReceiveChecksum)
		require.Equal(t, "h8cazh4h", w.ChangeChecksum)
		require.Equal(t, int64(-1), w.LastReceiveIndex)
		require.Equal(t, int64(-1), w.LastChangeIndex)
		require.False(t, w.IsSynced())
		require.NoError(t, w.MatchDescriptors(tt.receive, tt.change))
	}
}

func TestFailingNewWallet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		receive       string
		change        string
		expectedError error
	}{
		{"", testChange, domain.ErrWalletNullDescriptor},
		{testReceive, "", domain.ErrWalletNullDescriptor},
		{testReceive, "pkh()", wallet.ErrUnsupportedDescriptor},
	}

	for _, tt := range tests {
		w, err := domain.NewWallet(tt.receive, tt.change, wallet.NetworkRegtest)
		require.Nil(t, w)
		require.EqualError(t, err, tt.expectedError.Error())
	}
}

func TestWalletMatchDescriptors(t *testing.T) {
	t.Parallel()

	w, err := domain.NewWallet(testReceive, testChange, wallet.NetworkRegtest)
	require.NoError(t, err)

	err = w.MatchDescriptors(testChange, testReceive)
	require.EqualError(t, err, domain.ErrWalletDescriptorMismatch.Error())
}

func TestWalletNextIndex(t *testing.T) {
	t.Parallel()

	w, err := domain.NewWallet(testReceive, testChange, wallet.NetworkRegtest)
	require.NoError(t, err)

	for i := uint32(0); i < 3; i++ {
		index, err := w.NextIndex(domain.KeychainExternal)
		require.NoError(t, err)
		require.Equal(t, i, index)
	}
	require.Equal(t, int64(2), w.LastIndex(domain.KeychainExternal))
	require.Equal(t, int64(-1), w.LastIndex(domain.KeychainInternal))

	index, err := w.NextIndex(domain.KeychainInternal)
	require.NoError(t, err)
	require.Zero(t, index)

	_, err = w.NextIndex(domain.Keychain(5))
	require.EqualError(t, err, domain.ErrWalletInvalidKeychain.Error())

	w.LastReceiveIndex = math.MaxInt32
	_, err = w.NextIndex(domain.KeychainExternal)
	require.EqualError(t, err, domain.ErrWalletIndexOverflow.Error())
}

func TestWalletMarkUsed(t *testing.T) {
	t.Parallel()

	w, err := domain.NewWallet(testReceive, testChange, wallet.NetworkRegtest)
	require.NoError(t, err)

	require.NoError(t, w.MarkUsed(domain.KeychainInternal, 3))
	require.Equal(t, int64(3), w.LastIndex(domain.KeychainInternal))
	require.Equal(t, int64(-1), w.LastIndex(domain.KeychainExternal))

	// never moves backwards
	require.NoError(t, w.MarkUsed(domain.KeychainInternal, 1))
	require.Equal(t, int64(3), w.LastIndex(domain.KeychainInternal))

	index, err := w.NextIndex(domain.KeychainInternal)
	require.NoError(t, err)
	require.Equal(t, uint32(4), index)

	require.NoError(t, w.MarkUsed(domain.KeychainExternal, 0))
	require.Equal(t, int64(0), w.LastIndex(domain.KeychainExternal))

	err = w.MarkUsed(domain.Keychain(5), 0)
	require.EqualError(t, err, domain.ErrWalletInvalidKeychain.Error())

	err = w.MarkUsed(domain.KeychainExternal, math.MaxInt32+1)
	require.EqualError(t, err, domain.ErrWalletIndexOverflow.Error())
}

func TestWalletDescriptor(t *testing.T) {
	t.Parallel()

	w, err := domain.NewWallet(testReceive, testChange, wallet.NetworkRegtest)
	require.NoError(t, err)

	desc, err := w.Descriptor(domain.KeychainExternal)
	require.NoError(t, err)
	require.Equal(t, testPublicReceive, desc)

	desc, err = w.Descriptor(domain.KeychainInternal)
	require.NoError(t, err)
	require.Equal(t, testPublicChange, desc)

	w.Synced(120)
	require.True(t, w.IsSynced())
	require.Equal(t, int64(120), w.SyncHeight)
}
