package domain

import (
	"math"
	"time"

	"github.com/tdex-network/descwallet/pkg/wallet"
)

// Keychain selects one of the two descriptors of a wallet.
type Keychain int

const (
	// KeychainExternal is the receive descriptor
	KeychainExternal Keychain = iota
	// KeychainInternal is the change descriptor
	KeychainInternal
)

func (k Keychain) String() string {
	switch k {
	case KeychainExternal:
		return "external"
	case KeychainInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Wallet is the persisted state of a descriptor wallet. Only the public form
// of the descriptors is kept.
type Wallet struct {
	Name              string
	Network           string
	Fingerprint       string
	ReceiveDescriptor string
	ChangeDescriptor  string
	ReceiveChecksum   string
	ChangeChecksum    string
	LastReceiveIndex  int64
	LastChangeIndex   int64
	SyncHeight        int64
	CreatedAt         int64
	UpdatedAt         int64
}

// NewWallet returns a new Wallet for the given pair of descriptors. Secret
// descriptors are accepted and stored in their public form. The wallet name
// is derived deterministically from the descriptors.
func NewWallet(receive, change string, network wallet.Network) (*Wallet, error) {
	if len(receive) <= 0 || len(change) <= 0 {
		return nil, ErrWalletNullDescriptor
	}

	name, err := wallet.WalletName(receive, change)
	if err != nil {
		return nil, err
	}
	publicReceive, err := wallet.PublicDescriptor(receive)
	if err != nil {
		return nil, err
	}
	publicChange, err := wallet.PublicDescriptor(change)
	if err != nil {
		return nil, err
	}

	desc, err := wallet.ParseDescriptor(publicReceive)
	if err != nil {
		return nil, err
	}
	var fingerprint string
	if origin := desc.Key.Origin(); origin != nil {
		fingerprint = origin.Fingerprint.String()
	}

	now := time.Now().Unix()
	return &Wallet{
		Name:              name,
		Network:           network.String(),
		Fingerprint:       fingerprint,
		ReceiveDescriptor: publicReceive,
		ChangeDescriptor:  publicChange,
		ReceiveChecksum:   name[:8],
		ChangeChecksum:    name[8:],
		LastReceiveIndex:  -1,
		LastChangeIndex:   -1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Descriptor returns the public descriptor of the given keychain
func (w *Wallet) Descriptor(keychain Keychain) (string, error) {
	switch keychain {
	case KeychainExternal:
		return w.ReceiveDescriptor, nil
	case KeychainInternal:
		return w.ChangeDescriptor, nil
	default:
		return "", ErrWalletInvalidKeychain
	}
}

// MatchDescriptors checks the given descriptors are the ones the wallet was
// created with
func (w *Wallet) MatchDescriptors(receive, change string) error {
	name, err := wallet.WalletName(receive, change)
	if err != nil {
		return err
	}
	if name != w.ReceiveChecksum+w.ChangeChecksum {
		return ErrWalletDescriptorMismatch
	}
	return nil
}

// NextIndex reserves and returns the next unused derivation index of the
// given keychain
func (w *Wallet) NextIndex(keychain Keychain) (uint32, error) {
	var last *int64
	switch keychain {
	case KeychainExternal:
		last = &w.LastReceiveIndex
	case KeychainInternal:
		last = &w.LastChangeIndex
	default:
		return 0, ErrWalletInvalidKeychain
	}

	// indexes past 2^31-1 would be hardened
	if *last+1 > math.MaxInt32 {
		return 0, ErrWalletIndexOverflow
	}
	*last++
	w.UpdatedAt = time.Now().Unix()
	return uint32(*last), nil
}

// MarkUsed records that index of the given keychain received coins. The
// last reserved index of the keychain only ever moves forward.
func (w *Wallet) MarkUsed(keychain Keychain, index uint32) error {
	if index > math.MaxInt32 {
		return ErrWalletIndexOverflow
	}
	switch keychain {
	case KeychainExternal:
		if int64(index) > w.LastReceiveIndex {
			w.LastReceiveIndex = int64(index)
		}
	case KeychainInternal:
		if int64(index) > w.LastChangeIndex {
			w.LastChangeIndex = int64(index)
		}
	default:
		return ErrWalletInvalidKeychain
	}
	w.UpdatedAt = time.Now().Unix()
	return nil
}

// LastIndex returns the last reserved index of the keychain, or -1
func (w *Wallet) LastIndex(keychain Keychain) int64 {
	if keychain == KeychainInternal {
		return w.LastChangeIndex
	}
	return w.LastReceiveIndex
}

// Synced records the height of the chain tip at the last sync
func (w *Wallet) Synced(height int64) {
	w.SyncHeight = height
	w.UpdatedAt = time.Now().Unix()
}

// IsSynced returns whether the wallet has been synced at least once
func (w *Wallet) IsSynced() bool {
	return w.SyncHeight > 0
}
