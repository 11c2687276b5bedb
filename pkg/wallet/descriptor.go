package wallet

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

const (
	wpkhPrefix = "wpkh("
	wpkhSuffix = ")"
)

// Descriptor is a single key, witness pay-to-public-key-hash output
// descriptor: wpkh(KEY).
type Descriptor struct {
	Key DescriptorKey
}

// NewWpkhDescriptor wraps the given key into a wpkh() descriptor
func NewWpkhDescriptor(key DescriptorKey) (*Descriptor, error) {
	if key == nil {
		return nil, ErrInvalidExtendedKey
	}
	return &Descriptor{Key: key}, nil
}

func (d *Descriptor) String() string {
	return wpkhPrefix + d.Key.String() + wpkhSuffix
}

// StringWithChecksum returns the descriptor followed by #checksum
func (d *Descriptor) StringWithChecksum() (string, error) {
	return DescriptorWithChecksum(d.String())
}

// Checksum returns the BIP380 checksum of the descriptor
func (d *Descriptor) Checksum() (string, error) {
	return DescriptorChecksum(d.String())
}

// IsPrivate returns whether the descriptor holds private key material
func (d *Descriptor) IsPrivate() bool {
	return d.Key.IsPrivate()
}

// Public returns the descriptor with its key neutered
func (d *Descriptor) Public() (*Descriptor, error) {
	key, err := publicKey(d.Key)
	if err != nil {
		return nil, err
	}
	return &Descriptor{Key: key}, nil
}

// PubKeyHash returns the hash160 of the compressed public key at index
func (d *Descriptor) PubKeyHash(index uint32) ([]byte, error) {
	pubkey, err := ChildPubKey(d.Key, index)
	if err != nil {
		return nil, err
	}
	return btcutil.Hash160(pubkey.SerializeCompressed()), nil
}

// Address returns the P2WPKH address at index for the given network params
func (d *Descriptor) Address(
	index uint32, params *chaincfg.Params,
) (*btcutil.AddressWitnessPubKeyHash, error) {
	if params == nil {
		return nil, ErrInvalidNetwork
	}
	if !d.Key.ExtendedKey().IsForNet(params) {
		return nil, ErrNetworkMismatch
	}
	hash, err := d.PubKeyHash(index)
	if err != nil {
		return nil, err
	}
	return btcutil.NewAddressWitnessPubKeyHash(hash, params)
}

// ScriptPubKey returns the output script at index
func (d *Descriptor) ScriptPubKey(index uint32) ([]byte, error) {
	hash, err := d.PubKeyHash(index)
	if err != nil {
		return nil, err
	}
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(hash).
		Script()
}

// ParseDescriptor parses a wpkh() descriptor with an optional #checksum,
// which is verified if present.
func ParseDescriptor(desc string) (*Descriptor, error) {
	body, _, err := splitChecksum(strings.TrimSpace(desc))
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(body, wpkhPrefix) || !strings.HasSuffix(body, wpkhSuffix) {
		return nil, ErrUnsupportedDescriptor
	}

	key, err := ParseDescriptorKey(
		strings.TrimSuffix(strings.TrimPrefix(body, wpkhPrefix), wpkhSuffix),
	)
	if err != nil {
		return nil, err
	}
	return &Descriptor{Key: key}, nil
}

// ParseDescriptorKey parses a [fingerprint/path]xkey/path/* key expression.
// The returned key is secret or public depending on the extended key.
func ParseDescriptorKey(str string) (DescriptorKey, error) {
	var origin *KeyOrigin

	if strings.HasPrefix(str, "[") {
		end := strings.IndexByte(str, ']')
		if end < 0 {
			return nil, ErrMalformedKeyOrigin
		}
		o, err := parseKeyOrigin(str[1:end])
		if err != nil {
			return nil, err
		}
		origin = o
		str = str[end+1:]
	}

	elems := strings.Split(str, "/")
	key, err := hdkeychain.NewKeyFromString(elems[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExtendedKey, err)
	}

	steps := elems[1:]
	wildcard := WildcardNone
	if n := len(steps); n > 0 {
		switch steps[n-1] {
		case "*":
			wildcard = WildcardUnhardened
		case "*'", "*h", "*H":
			wildcard = WildcardHardened
		}
		if wildcard != WildcardNone {
			steps = steps[:n-1]
		}
	}

	path, err := parseDerivationSteps(steps)
	if err != nil {
		return nil, &PathParseError{Path: str, Err: err}
	}
	if len(path) == 0 {
		path = nil
	}

	return intoDescriptorKey(origin, key, path, wildcard), nil
}

func parseKeyOrigin(str string) (*KeyOrigin, error) {
	elems := strings.Split(str, "/")
	fingerprint, err := ParseFingerprint(elems[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedKeyOrigin, err)
	}

	path, err := parseDerivationSteps(elems[1:])
	if err != nil {
		return nil, &PathParseError{Path: str, Err: err}
	}
	if len(path) == 0 {
		path = nil
	}

	return &KeyOrigin{Fingerprint: fingerprint, Path: path}, nil
}
