package wallet

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/stretchr/testify/assert"
)

const h = hdkeychain.HardenedKeyStart

func TestParseDerivationPath(t *testing.T) {
	tests := []struct {
		input  string
		output DerivationPath
		err    error
	}{
		// Plain absolute derivation paths
		{"m/84'/1'/0'/0", DerivationPath{h + 84, h + 1, h, 0}, nil},
		{"m/84'/1'/0'/128", DerivationPath{h + 84, h + 1, h, 128}, nil},
		{"m/84'/1'/0'/0'", DerivationPath{h + 84, h + 1, h, h}, nil},
		{"m/2147483732/2147483649/2147483648/0", DerivationPath{h + 84, h + 1, h, 0}, nil},

		// Alternative hardened markers
		{"m/84h/1h/0h/0", DerivationPath{h + 84, h + 1, h, 0}, nil},
		{"m/84h/1h/0h/1", DerivationPath{h + 84, h + 1, h, 1}, nil},
		{"m/84H/1H/0H/1", DerivationPath{h + 84, h + 1, h, 1}, nil},
		{"m/84h/1'/0H/1", DerivationPath{h + 84, h + 1, h, 1}, nil},

		// Weird inputs just to ensure they work
		{"	m  /   84			h\n/\n   01	\n\n\t'   /\n0 ' /\t\t	0", DerivationPath{h + 84, h + 1, h, 0}, nil},

		// Relative derivation paths
		{"84'/1'/0/0", DerivationPath{h + 84, h + 1, 0, 0}, nil},
		{"0h/0/0", DerivationPath{h, 0, 0}, nil},
		{"0/0", DerivationPath{0, 0}, nil},

		// Invalid derivation paths
		{"", nil, ErrNullDerivationPath},                  // Empty relative derivation path
		{"m", nil, ErrMalformedDerivationPath},            // Empty absolute derivation path
		{"m/", nil, ErrMalformedDerivationPath},           // Missing last derivation component
		{"/84'/1'/0'/0", nil, ErrMalformedDerivationPath}, // Absolute path without m prefix, might be user error
		{"m/2147483648'", nil, nil},                       // Overflows 32 bit integer (dynamic values on error, not constant)
		{"m/-1h", nil, nil},                               // Cannot contain negative number (dynamic values on error, not constant)
		{"m/84x/1h", nil, nil},                            // Unknown marker
		{"m/h/1h", nil, nil},                              // Marker without index
		{"0", nil, ErrMalformedDerivationPath},            // Bad derivation path
		{"m/0x54'/1'/0'/0", nil, nil},                     // Hexadecimal index
		{"m/0x80000054/0x80000001", nil, nil},             // Hexadecimal hardened index
		{"m/84'/1_0'/0'", nil, nil},                       // Digit separators
		{"m/84'/+5/0", nil, nil},                          // Explicit sign
		{"m/0o17/0", nil, nil},                            // Octal prefix
		{"m/4294967296", nil, nil},                        // Overflows 32 bit integer
	}
	for _, tt := range tests {
		path, err := ParseDerivationPath(tt.input)
		if tt.output == nil {
			assert.Error(t, err, tt.input)
		}
		if err != nil {
			if tt.err != nil {
				assert.Equal(t, tt.err, err)
			}
		}
		assert.Equal(t, tt.output, path)
	}
}

func TestDerivationPathString(t *testing.T) {
	tests := []struct {
		path     DerivationPath
		expected string
	}{
		{DerivationPath{h + 84, h + 1, h, 0}, "m/84'/1'/0'/0"},
		{DerivationPath{0, 1, h + 2}, "m/0/1/2'"},
		{DerivationPath{}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.path.String())
	}
}

func TestDerivationPathHasPrefix(t *testing.T) {
	path := DerivationPath{h + 84, h + 1, h, 0, 7}

	assert.True(t, path.HasPrefix(nil))
	assert.True(t, path.HasPrefix(DefaultBaseDerivationPath))
	assert.True(t, path.HasPrefix(DefaultBaseDerivationPath.Extend(0)))
	assert.False(t, path.HasPrefix(DefaultBaseDerivationPath.Extend(1)))
	assert.False(t, path.HasPrefix(path.Extend(0)))

	extended := DefaultBaseDerivationPath.Extend(1, 2)
	assert.Len(t, DefaultBaseDerivationPath, 3)
	assert.Equal(t, DerivationPath{h + 84, h + 1, h, 1, 2}, extended)
}
