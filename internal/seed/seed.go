// Package seed derives the 64-byte BIP-39 seed from a mnemonic.
package seed

import (
	"crypto/sha512"
	"strings"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"

	"github.com/olehkaliuzhnyi/walletgen/internal/mnemonic"
)

const (
	// Size is the length of a derived seed in bytes.
	Size = 64
	// Iterations is the PBKDF2 round count fixed by BIP-39.
	Iterations = 2048

	saltPrefix = "mnemonic"
)

// Seed is a BIP-39 seed. It is key material: call Zero when done.
type Seed [Size]byte

// Derive runs PBKDF2-HMAC-SHA512 over the NFKD form of the mnemonic with
// salt "mnemonic"+passphrase. The mnemonic checksum is not checked here.
func Derive(m mnemonic.Mnemonic, passphrase string) *Seed {
	return DerivePhrase(m.String(), passphrase)
}

// DerivePhrase is Derive for a raw phrase. Whitespace runs collapse to a
// single space and the phrase is lowercased before normalization.
func DerivePhrase(phrase, passphrase string) *Seed {
	password := []byte(norm.NFKD.String(strings.ToLower(strings.Join(strings.Fields(phrase), " "))))
	salt := []byte(saltPrefix + norm.NFKD.String(passphrase))
	defer wipe(password)
	defer wipe(salt)

	key := pbkdf2.Key(password, salt, Iterations, Size, sha512.New)
	defer wipe(key)

	var s Seed
	copy(s[:], key)
	return &s
}

// Bytes returns a copy of the seed.
func (s *Seed) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, s[:])
	return out
}

// Zero overwrites the seed in place.
func (s *Seed) Zero() {
	for i := range s {
		s[i] = 0
	}
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
