package wallet

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// Wildcard tells whether a descriptor key derives children past its path.
type Wildcard int

const (
	WildcardNone Wildcard = iota
	WildcardUnhardened
	WildcardHardened
)

func (w Wildcard) String() string {
	switch w {
	case WildcardUnhardened:
		return "/*"
	case WildcardHardened:
		return "/*'"
	default:
		return ""
	}
}

// KeyOrigin identifies where a descriptor key comes from: the fingerprint
// of the master key and the path from it.
type KeyOrigin struct {
	Fingerprint Fingerprint
	Path        DerivationPath
}

// String renders the origin as [fingerprint/path]
func (o KeyOrigin) String() string {
	return fmt.Sprintf("[%s%s]", o.Fingerprint, o.Path.relative())
}

// DescriptorKey is either a SecretDescriptorKey or a PublicDescriptorKey.
type DescriptorKey interface {
	Origin() *KeyOrigin
	ExtendedKey() *hdkeychain.ExtendedKey
	// Path is the derivation applied to the extended key before the wildcard.
	Path() DerivationPath
	Wildcard() Wildcard
	IsPrivate() bool
	String() string
	// ChildKey returns the extended key at the given wildcard index. The
	// index is ignored for keys without a wildcard.
	ChildKey(index uint32) (*hdkeychain.ExtendedKey, error)
	// FullPath returns the path of the child key at the given index starting
	// from the origin's master key.
	FullPath(index uint32) DerivationPath

	isDescriptorKey()
}

type xkey struct {
	origin   *KeyOrigin
	key      *hdkeychain.ExtendedKey
	path     DerivationPath
	wildcard Wildcard
}

func (k xkey) Origin() *KeyOrigin                   { return k.origin }
func (k xkey) ExtendedKey() *hdkeychain.ExtendedKey { return k.key }
func (k xkey) Path() DerivationPath                 { return k.path }
func (k xkey) Wildcard() Wildcard                   { return k.wildcard }

func (k xkey) String() string {
	var b strings.Builder
	if k.origin != nil {
		b.WriteString(k.origin.String())
	}
	b.WriteString(k.key.String())
	b.WriteString(k.path.relative())
	b.WriteString(k.wildcard.String())
	return b.String()
}

func (k xkey) ChildKey(index uint32) (*hdkeychain.ExtendedKey, error) {
	child, err := deriveKey(k.key, k.path)
	if err != nil {
		return nil, err
	}
	switch k.wildcard {
	case WildcardUnhardened:
		return child.Derive(index)
	case WildcardHardened:
		return child.Derive(hdkeychain.HardenedKeyStart + index)
	default:
		return child, nil
	}
}

func (k xkey) FullPath(index uint32) DerivationPath {
	var path DerivationPath
	if k.origin != nil {
		path = path.Extend(k.origin.Path...)
	}
	path = path.Extend(k.path...)
	switch k.wildcard {
	case WildcardUnhardened:
		path = path.Extend(index)
	case WildcardHardened:
		path = path.Extend(hdkeychain.HardenedKeyStart + index)
	}
	return path
}

// ChildPubKey returns the public key at the given wildcard index
func ChildPubKey(key DescriptorKey, index uint32) (*btcec.PublicKey, error) {
	child, err := key.ChildKey(index)
	if err != nil {
		return nil, err
	}
	return child.ECPubKey()
}

// SecretDescriptorKey is a descriptor key holding an extended private key.
type SecretDescriptorKey struct {
	xkey
}

// NewSecretDescriptorKey fails with ErrNotPrivateKey if key is public
func NewSecretDescriptorKey(
	origin *KeyOrigin, key *hdkeychain.ExtendedKey,
	path DerivationPath, wildcard Wildcard,
) (*SecretDescriptorKey, error) {
	if key == nil {
		return nil, ErrInvalidExtendedKey
	}
	if !key.IsPrivate() {
		return nil, ErrNotPrivateKey
	}
	return &SecretDescriptorKey{xkey{origin, key, path, wildcard}}, nil
}

func (*SecretDescriptorKey) IsPrivate() bool  { return true }
func (*SecretDescriptorKey) isDescriptorKey() {}

// Public returns the same key stripped of its private part
func (k *SecretDescriptorKey) Public() (*PublicDescriptorKey, error) {
	pubkey, err := k.key.Neuter()
	if err != nil {
		return nil, err
	}
	return &PublicDescriptorKey{xkey{k.origin, pubkey, k.path, k.wildcard}}, nil
}

// PrivKey returns the private key at the given wildcard index
func (k *SecretDescriptorKey) PrivKey(index uint32) (*btcec.PrivateKey, error) {
	child, err := k.ChildKey(index)
	if err != nil {
		return nil, err
	}
	return child.ECPrivKey()
}

// PublicDescriptorKey is a descriptor key holding an extended public key.
type PublicDescriptorKey struct {
	xkey
}

// NewPublicDescriptorKey neuters key if it is private
func NewPublicDescriptorKey(
	origin *KeyOrigin, key *hdkeychain.ExtendedKey,
	path DerivationPath, wildcard Wildcard,
) (*PublicDescriptorKey, error) {
	if key == nil {
		return nil, ErrInvalidExtendedKey
	}
	pubkey, err := key.Neuter()
	if err != nil {
		return nil, err
	}
	return &PublicDescriptorKey{xkey{origin, pubkey, path, wildcard}}, nil
}

func (*PublicDescriptorKey) IsPrivate() bool  { return false }
func (*PublicDescriptorKey) isDescriptorKey() {}

func intoDescriptorKey(
	origin *KeyOrigin, key *hdkeychain.ExtendedKey,
	path DerivationPath, wildcard Wildcard,
) DescriptorKey {
	k := xkey{origin, key, path, wildcard}
	if key.IsPrivate() {
		return &SecretDescriptorKey{k}
	}
	return &PublicDescriptorKey{k}
}

// publicKey returns the public variant of any descriptor key
func publicKey(key DescriptorKey) (*PublicDescriptorKey, error) {
	switch k := key.(type) {
	case *SecretDescriptorKey:
		return k.Public()
	case *PublicDescriptorKey:
		return k, nil
	default:
		return nil, fmt.Errorf("unknown descriptor key type %T", key)
	}
}
