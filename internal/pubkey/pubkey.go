// Package pubkey derives secp256k1 public keys from private scalars.
package pubkey

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is required by BIP-32 fingerprints (Hash160)
)

// Serialized sizes.
const (
	PrivateKeySize   = 32
	UncompressedSize = 65
	CompressedSize   = 33
	CoordinatesSize  = 64

	uncompressedPrefix = 0x04
)

var (
	// ErrInvalidPrivateKey is returned for scalars outside [1, n-1].
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrInvalidPublicKey is returned by Parse for bytes that are not a curve point.
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// PublicKey is an uncompressed secp256k1 point: 0x04 || x || y.
type PublicKey struct {
	b [UncompressedSize]byte
}

// ValidateScalar checks that priv is a 32-byte scalar in [1, n-1].
func ValidateScalar(priv []byte) error {
	if len(priv) != PrivateKeySize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrInvalidPrivateKey, len(priv), PrivateKeySize)
	}
	var s btcec.ModNScalar
	defer s.Zero()
	if overflow := s.SetByteSlice(priv); overflow {
		return fmt.Errorf("%w: scalar not below curve order", ErrInvalidPrivateKey)
	}
	if s.IsZero() {
		return fmt.Errorf("%w: zero scalar", ErrInvalidPrivateKey)
	}
	return nil
}

// Derive computes priv * G.
func Derive(priv []byte) (PublicKey, error) {
	if err := ValidateScalar(priv); err != nil {
		return PublicKey{}, err
	}
	key, pub := btcec.PrivKeyFromBytes(priv)
	defer key.Zero()

	var pk PublicKey
	copy(pk.b[:], pub.SerializeUncompressed())
	return pk, nil
}

// Parse accepts a 65-byte uncompressed key, a 64-byte x||y pair or a 33-byte
// compressed key and checks that it lies on the curve.
func Parse(b []byte) (PublicKey, error) {
	in := b
	if len(b) == CoordinatesSize {
		in = append([]byte{uncompressedPrefix}, b...)
	}
	pub, err := btcec.ParsePubKey(in)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	var pk PublicKey
	copy(pk.b[:], pub.SerializeUncompressed())
	return pk, nil
}

// IsZero reports whether pk is the zero value.
func (pk PublicKey) IsZero() bool {
	return pk.b[0] != uncompressedPrefix
}

// Bytes returns the 65-byte uncompressed encoding.
func (pk PublicKey) Bytes() []byte {
	out := make([]byte, UncompressedSize)
	copy(out, pk.b[:])
	return out
}

// XY returns the 64-byte x||y encoding without the format byte.
func (pk PublicKey) XY() []byte {
	out := make([]byte, CoordinatesSize)
	copy(out, pk.b[1:])
	return out
}

// Compressed returns the 33-byte SEC1 compressed encoding.
func (pk PublicKey) Compressed() []byte {
	out := make([]byte, CompressedSize)
	out[0] = 0x02 | pk.b[UncompressedSize-1]&1
	copy(out[1:], pk.b[1:33])
	return out
}

// Hash160 computes RIPEMD160(SHA256(data)).
func Hash160(data []byte) []byte {
	sha := sha256.Sum256(data)
	ripe := ripemd160.New()
	ripe.Write(sha[:])
	return ripe.Sum(nil)
}
