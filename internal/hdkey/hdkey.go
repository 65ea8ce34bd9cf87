// Package hdkey implements BIP-32 private key derivation along BIP-44 style paths.
package hdkey

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/olehkaliuzhnyi/walletgen/internal/log"
	"github.com/olehkaliuzhnyi/walletgen/internal/pubkey"
)

// Seed length bounds accepted by NewMaster (128 to 512 bits).
const (
	MinSeedSize = 16
	MaxSeedSize = 64

	keySize = 32
)

var masterHMACKey = []byte("Bitcoin seed")

var (
	// ErrInvalidSeed is returned when a seed has a bad length or yields an
	// out-of-range master scalar.
	ErrInvalidSeed = errors.New("invalid seed")
	// ErrInvalidChildKey is returned when IL >= n or the child scalar is zero.
	// The standard recovery is to derive the next sibling index instead.
	ErrInvalidChildKey = errors.New("invalid child key")
	// ErrInvalidPath is returned for malformed derivation path strings.
	ErrInvalidPath = errors.New("invalid derivation path")
	// ErrInvalidParameter is returned for out-of-range numeric input.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// hmacSHA512 computes HMAC-SHA512(key, data).
var hmacSHA512 = func(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// ExtendedKey is a private key paired with its chain code and tree position.
// Derivation never mutates a key; every step returns a new one.
type ExtendedKey struct {
	privateKey        [keySize]byte
	chainCode         [keySize]byte
	depth             uint8
	parentFingerprint [4]byte
	childIndex        uint32
}

// NewMaster derives the master key: I = HMAC-SHA512("Bitcoin seed", seed).
func NewMaster(seed []byte) (*ExtendedKey, error) {
	if len(seed) < MinSeedSize || len(seed) > MaxSeedSize {
		return nil, fmt.Errorf("%w: %d bytes, want %d-%d", ErrInvalidSeed, len(seed), MinSeedSize, MaxSeedSize)
	}

	I := hmacSHA512(masterHMACKey, seed)
	defer wipe(I)

	if err := pubkey.ValidateScalar(I[:keySize]); err != nil {
		return nil, fmt.Errorf("%w: master scalar out of range", ErrInvalidSeed)
	}

	k := &ExtendedKey{}
	copy(k.privateKey[:], I[:keySize])
	copy(k.chainCode[:], I[keySize:])
	return k, nil
}

// Child derives the child at segment (CKDpriv). It does not retry: on
// ErrInvalidChildKey the caller moves on to the next index.
func (k *ExtendedKey) Child(seg Segment) (*ExtendedKey, error) {
	if seg.Index >= HardenedOffset {
		return nil, fmt.Errorf("%w: child index %d out of range", ErrInvalidParameter, seg.Index)
	}
	if k.depth == 0xff {
		return nil, fmt.Errorf("%w: maximum depth reached", ErrInvalidParameter)
	}

	pub, err := k.PublicKey()
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, pubkey.CompressedSize+4)
	if seg.Hardened {
		data = append(data, 0x00)
		data = append(data, k.privateKey[:]...)
	} else {
		data = append(data, pub.Compressed()...)
	}
	data = binary.BigEndian.AppendUint32(data, seg.ChildIndex())
	defer wipe(data)

	I := hmacSHA512(k.chainCode[:], data)
	defer wipe(I)

	var il, parent btcec.ModNScalar
	defer il.Zero()
	defer parent.Zero()
	if overflow := il.SetByteSlice(I[:keySize]); overflow {
		return nil, fmt.Errorf("%w: IL not below curve order at index %d", ErrInvalidChildKey, seg.ChildIndex())
	}
	parent.SetByteSlice(k.privateKey[:])
	il.Add(&parent)
	if il.IsZero() {
		return nil, fmt.Errorf("%w: zero child scalar at index %d", ErrInvalidChildKey, seg.ChildIndex())
	}

	child := &ExtendedKey{
		privateKey: il.Bytes(),
		depth:      k.depth + 1,
		childIndex: seg.ChildIndex(),
	}
	copy(child.chainCode[:], I[keySize:])
	copy(child.parentFingerprint[:], pubkey.Hash160(pub.Compressed())[:4])
	return child, nil
}

// DerivePath folds Child over path from k, left to right. A segment that
// yields ErrInvalidChildKey is retried with the next sibling index of the
// same kind. Intermediate keys are zeroed; k itself is left untouched.
func (k *ExtendedKey) DerivePath(path Path) (*ExtendedKey, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}

	current := k.Clone()
	for _, seg := range path {
		child, err := current.childWithRetry(seg)
		current.Zero()
		if err != nil {
			return nil, err
		}
		current = child
	}

	log.HDKey.Debug().
		Str("path", path.String()).
		Uint8("depth", current.depth).
		Uint32("child_index", current.childIndex).
		Msg("derived key")
	return current, nil
}

func (k *ExtendedKey) childWithRetry(seg Segment) (*ExtendedKey, error) {
	for {
		child, err := k.Child(seg)
		if !errors.Is(err, ErrInvalidChildKey) {
			return child, err
		}
		log.HDKey.Warn().
			Uint8("depth", k.depth+1).
			Str("segment", seg.String()).
			Msg("invalid child key, deriving next sibling")
		if seg.Index+1 >= HardenedOffset {
			return nil, fmt.Errorf("%w: sibling indexes exhausted after %s", ErrInvalidParameter, seg)
		}
		seg.Index++
	}
}

// PrivateKey returns a copy of the 32-byte private scalar.
func (k *ExtendedKey) PrivateKey() []byte {
	out := make([]byte, keySize)
	copy(out, k.privateKey[:])
	return out
}

// ChainCode returns a copy of the chain code.
func (k *ExtendedKey) ChainCode() []byte {
	out := make([]byte, keySize)
	copy(out, k.chainCode[:])
	return out
}

// Depth returns the derivation depth (0 for master).
func (k *ExtendedKey) Depth() uint8 { return k.depth }

// ParentFingerprint returns the first 4 bytes of HASH160 of the parent public key.
func (k *ExtendedKey) ParentFingerprint() [4]byte { return k.parentFingerprint }

// ChildIndex returns the serialized child index (hardened indexes include 2^31).
func (k *ExtendedKey) ChildIndex() uint32 { return k.childIndex }

// PublicKey derives the public key paired with the private key.
func (k *ExtendedKey) PublicKey() (pubkey.PublicKey, error) {
	return pubkey.Derive(k.privateKey[:])
}

// Fingerprint returns the first 4 bytes of HASH160 of this key's public key.
func (k *ExtendedKey) Fingerprint() ([4]byte, error) {
	var fp [4]byte
	pub, err := k.PublicKey()
	if err != nil {
		return fp, err
	}
	copy(fp[:], pubkey.Hash160(pub.Compressed())[:4])
	return fp, nil
}

// Clone returns an independent copy.
func (k *ExtendedKey) Clone() *ExtendedKey {
	c := *k
	return &c
}

// Zero overwrites the key material in place.
func (k *ExtendedKey) Zero() {
	for i := range k.privateKey {
		k.privateKey[i] = 0
	}
	for i := range k.chainCode {
		k.chainCode[i] = 0
	}
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
