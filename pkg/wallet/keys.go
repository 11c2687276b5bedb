package wallet

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// Fingerprint is the first 4 bytes of the hash160 of a compressed public key.
type Fingerprint [4]byte

// ParseFingerprint decodes an 8 chars hex string
func ParseFingerprint(str string) (Fingerprint, error) {
	var fp Fingerprint
	buf, err := hex.DecodeString(str)
	if err != nil || len(buf) != len(fp) {
		return fp, ErrInvalidFingerprint
	}
	copy(fp[:], buf)
	return fp, nil
}

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Uint32 returns the fingerprint in the little-endian form used by PSBT
// bip32 derivation fields.
func (f Fingerprint) Uint32() uint32 {
	return binary.LittleEndian.Uint32(f[:])
}

// NewMasterKey returns the BIP32 root key of the seed, bound to the network
func NewMasterKey(seed []byte, network Network) (*hdkeychain.ExtendedKey, error) {
	if err := network.validate(); err != nil {
		return nil, err
	}
	return hdkeychain.NewMaster(seed, network.Params())
}

// KeyFingerprint returns the fingerprint of the given extended key
func KeyFingerprint(key *hdkeychain.ExtendedKey) (Fingerprint, error) {
	if key == nil {
		return Fingerprint{}, ErrNullMasterKey
	}
	pubkey, err := key.ECPubKey()
	if err != nil {
		return Fingerprint{}, err
	}
	return PubKeyFingerprint(pubkey), nil
}

// PubKeyFingerprint returns the fingerprint of the given public key
func PubKeyFingerprint(pubkey *btcec.PublicKey) Fingerprint {
	var fp Fingerprint
	copy(fp[:], btcutil.Hash160(pubkey.SerializeCompressed())[:4])
	return fp
}

// DeriveOpts is the struct given to the Derive method
type DeriveOpts struct {
	DerivationPath string
}

func (o DeriveOpts) validate() (DerivationPath, error) {
	path, err := ParseDerivationPath(o.DerivationPath)
	if err != nil {
		return nil, &PathParseError{Path: o.DerivationPath, Err: err}
	}
	if len(path) > 255 {
		return nil, &PathParseError{
			Path: o.DerivationPath, Err: ErrDerivationPathTooLong,
		}
	}
	return path, nil
}

// Derive walks the master key down the given path and packs the resulting
// child key together with its origin into a descriptor key
func (w *Wallet) Derive(opts DeriveOpts) (DescriptorKey, error) {
	path, err := opts.validate()
	if err != nil {
		return nil, err
	}
	if err := w.validate(); err != nil {
		return nil, err
	}

	fingerprint, err := KeyFingerprint(w.masterKey)
	if err != nil {
		return nil, err
	}
	child, err := deriveKey(w.masterKey, path)
	if err != nil {
		return nil, err
	}

	origin := &KeyOrigin{Fingerprint: fingerprint, Path: path}
	return intoDescriptorKey(origin, child, nil, WildcardUnhardened), nil
}
