// Package entropy produces the random input of the wallet pipeline.
package entropy

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Accepted entropy sizes in bits.
const (
	MinBits  = 128
	MaxBits  = 256
	BitsStep = 32
)

var (
	// ErrInvalidParameter is returned for unsupported entropy lengths.
	ErrInvalidParameter = errors.New("invalid entropy parameter")
	// ErrEntropyUnavailable is returned when the secure random source fails.
	// It is fatal: there is no fallback source.
	ErrEntropyUnavailable = errors.New("secure entropy unavailable")
)

// Entropy is a fixed-length random buffer of 16, 20, 24, 28 or 32 bytes.
// The zero value is not valid entropy.
type Entropy struct {
	b []byte
}

// ValidBits reports whether bits is an accepted entropy size.
func ValidBits(bits int) bool {
	return bits >= MinBits && bits <= MaxBits && bits%BitsStep == 0
}

// FromBytes wraps a caller-supplied buffer, e.g. an entropy override.
// The input is copied.
func FromBytes(b []byte) (Entropy, error) {
	if !ValidBits(len(b) * 8) {
		return Entropy{}, fmt.Errorf("%w: %d bytes, want 16, 20, 24, 28 or 32", ErrInvalidParameter, len(b))
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	return Entropy{b: buf}, nil
}

// Bytes returns a copy of the entropy.
func (e Entropy) Bytes() []byte {
	out := make([]byte, len(e.b))
	copy(out, e.b)
	return out
}

// Len returns the length in bytes.
func (e Entropy) Len() int { return len(e.b) }

// BitLen returns the length in bits.
func (e Entropy) BitLen() int { return len(e.b) * 8 }

// Zero overwrites the entropy in place.
func (e Entropy) Zero() {
	for i := range e.b {
		e.b[i] = 0
	}
}

// Source generates entropy from a cryptographically secure reader.
type Source struct {
	r io.Reader
}

// New returns a Source reading from r. r must be a CSPRNG outside of tests.
func New(r io.Reader) *Source {
	return &Source{r: r}
}

// Default returns a Source backed by crypto/rand.
func Default() *Source {
	return New(rand.Reader)
}

// Generate returns bitLength bits of fresh entropy. Every call reads new bytes.
func (s *Source) Generate(bitLength int) (Entropy, error) {
	if !ValidBits(bitLength) {
		return Entropy{}, fmt.Errorf("%w: %d bits, want 128-256 in steps of 32", ErrInvalidParameter, bitLength)
	}
	buf := make([]byte, bitLength/8)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return Entropy{}, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return Entropy{b: buf}, nil
}
