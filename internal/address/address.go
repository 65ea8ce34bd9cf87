// Package address turns secp256k1 public keys into Ethereum addresses and
// renders them with the EIP-55 mixed-case checksum.
package address

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/olehkaliuzhnyi/walletgen/internal/pubkey"
)

// Sizes in bytes, and the length of the hex form without prefix.
const (
	Size      = 20
	HashSize  = 32
	HexLength = 2 * Size

	prefix = "0x"
)

var (
	// ErrInvalidAddress is returned for input that is not 20 bytes of hex.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrChecksumMismatch is returned for mixed-case input whose case pattern
	// does not match the EIP-55 checksum.
	ErrChecksumMismatch = errors.New("address checksum mismatch")
)

// Address is the last 20 bytes of Keccak-256 over the public key coordinates.
type Address [Size]byte

// Keccak256 hashes the concatenation of data with the original Keccak
// padding (not the NIST SHA3-256 variant).
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// HashPublicKey hashes a 64-byte x||y public key.
func HashPublicKey(xy []byte) ([]byte, error) {
	if len(xy) != pubkey.CoordinatesSize {
		return nil, fmt.Errorf("%w: %d bytes, want %d without format byte",
			pubkey.ErrInvalidPublicKey, len(xy), pubkey.CoordinatesSize)
	}
	return Keccak256(xy), nil
}

// FromHash takes the last 20 bytes of a 32-byte Keccak-256 digest.
func FromHash(hash []byte) (Address, error) {
	var a Address
	if len(hash) != HashSize {
		return a, fmt.Errorf("%w: hash is %d bytes, want %d", ErrInvalidAddress, len(hash), HashSize)
	}
	copy(a[:], hash[HashSize-Size:])
	return a, nil
}

// FromPublicKey computes the address of pk.
func FromPublicKey(pk pubkey.PublicKey) (Address, error) {
	if pk.IsZero() {
		return Address{}, fmt.Errorf("%w: empty public key", pubkey.ErrInvalidPublicKey)
	}
	hash, err := HashPublicKey(pk.XY())
	if err != nil {
		return Address{}, err
	}
	return FromHash(hash)
}

// Bytes returns a copy of the raw address.
func (a Address) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, a[:])
	return out
}

// Hex returns the 0x-prefixed lowercase form.
func (a Address) Hex() string {
	return prefix + hex.EncodeToString(a[:])
}

// String returns the 0x-prefixed checksummed form.
func (a Address) String() string {
	return prefix + Checksum(a)
}

// Checksum returns the 40 EIP-55 characters of a, without prefix.
// The case of each letter is taken from Keccak-256 over the lowercase hex,
// so it must always be computed from the raw bytes.
func Checksum(a Address) string {
	lower := []byte(hex.EncodeToString(a[:]))
	hash := Keccak256(lower)
	for i, c := range lower {
		if c >= 'a' && nibble(hash, i) >= 8 {
			lower[i] = c - 'a' + 'A'
		}
	}
	return string(lower)
}

// ChecksumHex checksums a hex address given in any case, with or without prefix.
func ChecksumHex(s string) (string, error) {
	a, err := decode(s)
	if err != nil {
		return "", err
	}
	return Checksum(a), nil
}

// Decision records how one character of the checksummed form was chosen.
type Decision struct {
	Position int
	Char     byte
	Nibble   uint8
	Upper    bool
}

// Trace explains Checksum character by character.
func Trace(a Address) []Decision {
	lower := hex.EncodeToString(a[:])
	hash := Keccak256([]byte(lower))
	out := make([]Decision, HexLength)
	for i := 0; i < HexLength; i++ {
		c := lower[i]
		n := nibble(hash, i)
		upper := c >= 'a' && n >= 8
		if upper {
			c = c - 'a' + 'A'
		}
		out[i] = Decision{Position: i, Char: c, Nibble: n, Upper: upper}
	}
	return out
}

// Parse decodes a hex address. All-lowercase and all-uppercase input carries
// no checksum and is accepted as is; mixed case must match EIP-55.
func Parse(s string) (Address, error) {
	a, err := decode(s)
	if err != nil {
		return a, err
	}
	digits := trimPrefix(s)
	if digits == strings.ToLower(digits) || digits == strings.ToUpper(digits) {
		return a, nil
	}
	if digits != Checksum(a) {
		return Address{}, fmt.Errorf("%w: %s", ErrChecksumMismatch, s)
	}
	return a, nil
}

// IsChecksummed reports whether s is a valid mixed-case EIP-55 address.
func IsChecksummed(s string) bool {
	a, err := decode(s)
	if err != nil {
		return false
	}
	return trimPrefix(s) == Checksum(a)
}

func decode(s string) (Address, error) {
	var a Address
	digits := trimPrefix(s)
	if len(digits) != HexLength {
		return a, fmt.Errorf("%w: %d hex characters, want %d", ErrInvalidAddress, len(digits), HexLength)
	}
	if _, err := hex.Decode(a[:], []byte(digits)); err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return a, nil
}

func trimPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// nibble returns the i-th hex digit of b.
func nibble(b []byte, i int) uint8 {
	if i%2 == 0 {
		return b[i/2] >> 4
	}
	return b[i/2] & 0x0f
}
