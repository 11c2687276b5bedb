package wallet

import (
	"fmt"
	"strings"
)

const (
	descriptorInputCharset = "0123456789()[],'/*abcdefgh@:$%{}" +
		"IJKLMNOPQRSTUVWXYZ&+-.;<=>?!^_|~" +
		"ijklmnopqrstuvwxyzABCDEFGH`#\"\\ "
	descriptorChecksumCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
	descriptorChecksumLength  = 8
)

var descriptorChecksumGenerator = [5]uint64{
	0xf5dee51989, 0xa9fdca3312, 0x1bab10e32d, 0x3706b1677a, 0x644d626ffd,
}

func descriptorPolymod(c uint64, val int) uint64 {
	c0 := c >> 35
	c = ((c & 0x7ffffffff) << 5) ^ uint64(val)
	for i, gen := range descriptorChecksumGenerator {
		if (c0>>uint(i))&1 == 1 {
			c ^= gen
		}
	}
	return c
}

// DescriptorChecksum returns the 8 chars BIP380 checksum of the given
// descriptor. The descriptor must not contain the #checksum suffix.
func DescriptorChecksum(desc string) (string, error) {
	c := uint64(1)
	cls, clscount := 0, 0
	for _, ch := range desc {
		pos := strings.IndexRune(descriptorInputCharset, ch)
		if pos < 0 {
			return "", fmt.Errorf("%w: %q", ErrInvalidDescriptorChar, ch)
		}
		// symbol position within its group
		c = descriptorPolymod(c, pos&31)
		// group number, packed 3 at a time
		cls = cls*3 + (pos >> 5)
		clscount++
		if clscount == 3 {
			c = descriptorPolymod(c, cls)
			cls, clscount = 0, 0
		}
	}
	if clscount > 0 {
		c = descriptorPolymod(c, cls)
	}
	for i := 0; i < descriptorChecksumLength; i++ {
		c = descriptorPolymod(c, 0)
	}
	c ^= 1

	checksum := make([]byte, descriptorChecksumLength)
	for i := range checksum {
		checksum[i] = descriptorChecksumCharset[(c>>(5*(7-uint(i))))&31]
	}
	return string(checksum), nil
}

// DescriptorWithChecksum appends #checksum to the given descriptor. An
// existing checksum is verified and kept.
func DescriptorWithChecksum(desc string) (string, error) {
	body, checksum, err := splitChecksum(desc)
	if err != nil {
		return "", err
	}
	if checksum == "" {
		if checksum, err = DescriptorChecksum(body); err != nil {
			return "", err
		}
	}
	return body + "#" + checksum, nil
}

// splitChecksum separates the descriptor body from its optional checksum,
// verifying the latter if present.
func splitChecksum(desc string) (string, string, error) {
	if desc == "" {
		return "", "", ErrNullDescriptor
	}
	i := strings.LastIndexByte(desc, '#')
	if i < 0 {
		return desc, "", nil
	}

	body, checksum := desc[:i], desc[i+1:]
	if len(checksum) != descriptorChecksumLength {
		return "", "", ErrInvalidChecksum
	}
	expected, err := DescriptorChecksum(body)
	if err != nil {
		return "", "", err
	}
	if expected != checksum {
		return "", "", ErrInvalidChecksum
	}
	return body, checksum, nil
}
