package wallet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// DerivationPath is the internal representation of a hierarchical
// deterministic wallet account
type DerivationPath []uint32

var (
	// DefaultBaseDerivationPath m/84'/1'/0'
	DefaultBaseDerivationPath = DerivationPath{
		hdkeychain.HardenedKeyStart + 84,
		hdkeychain.HardenedKeyStart + 1,
		hdkeychain.HardenedKeyStart + 0,
	}
)

// ParseDerivationPath converts a derivation path string to the
// internal binary representation. Hardened steps can be marked with any of
// the ', h or H suffixes.
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	elems := strings.Split(strPath, "/")
	switch {
	case strPath == "":
		return nil, ErrNullDerivationPath

	case containsEmptyString(elems):
		return nil, ErrMalformedDerivationPath
	case len(elems) < 2:
		return nil, ErrMalformedDerivationPath

	case len(elems) > 1:
		if strings.TrimSpace(elems[0]) == "m" {
			elems = elems[1:]
		}

	default:
		return nil, ErrInvalidDerivationPath
	}

	return parseDerivationSteps(elems)
}

// all elems are relative, append one by one
func parseDerivationSteps(elems []string) (DerivationPath, error) {
	path := make(DerivationPath, 0, len(elems))

	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			return nil, ErrMalformedDerivationPath
		}
		var value uint32

		if hardened, trimmed := trimHardenedMarker(elem); hardened {
			value = hdkeychain.HardenedKeyStart
			elem = trimmed
		}

		// decimal digits only, no sign, base prefix or separators
		index, err := strconv.ParseUint(elem, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid elem '%s' in path", elem)
		}

		max := uint64(math.MaxUint32 - value)
		if index > max {
			if value == 0 {
				return nil, fmt.Errorf("elem %d must be in range [0, %d]", index, max)
			}
			return nil, fmt.Errorf("elem %d must be in hardened range [0, %d]", index, max)
		}
		value += uint32(index)

		path = append(path, value)
	}

	return path, nil
}

// String converts a binary derivation path to its canonical representation
func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}
	return "m" + path.relative()
}

// Extend returns a new path with the given steps appended
func (path DerivationPath) Extend(steps ...uint32) DerivationPath {
	extended := make(DerivationPath, 0, len(path)+len(steps))
	extended = append(extended, path...)
	return append(extended, steps...)
}

// HasPrefix returns whether the path starts with all steps of prefix
func (path DerivationPath) HasPrefix(prefix DerivationPath) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i, step := range prefix {
		if path[i] != step {
			return false
		}
	}
	return true
}

// relative renders the steps as "/84'/1'/0'" without the leading m.
func (path DerivationPath) relative() string {
	var b strings.Builder
	for _, component := range path {
		var hardened bool
		if component >= hdkeychain.HardenedKeyStart {
			component -= hdkeychain.HardenedKeyStart
			hardened = true
		}
		fmt.Fprintf(&b, "/%d", component)
		if hardened {
			b.WriteString("'")
		}
	}
	return b.String()
}

func trimHardenedMarker(elem string) (bool, string) {
	for _, marker := range []string{"'", "h", "H"} {
		if strings.HasSuffix(elem, marker) {
			return true, strings.TrimSpace(strings.TrimSuffix(elem, marker))
		}
	}
	return false, elem
}

func containsEmptyString(composedPath []string) bool {
	for _, s := range composedPath {
		if s == "" {
			return true
		}
	}
	return false
}
