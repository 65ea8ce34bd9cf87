// Package keystore exports a mnemonic to a password-sealed JSON file.
//
// The mnemonic is encrypted with XChaCha20-Poly1305 under a key derived by
// Argon2id. The KDF parameters and salt are authenticated as associated data.
package keystore

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/olehkaliuzhnyi/walletgen/internal/log"
	"github.com/olehkaliuzhnyi/walletgen/internal/mnemonic"
	"github.com/olehkaliuzhnyi/walletgen/pkg/hexutil"
)

// Format constants.
const (
	Version  = 1
	KDF      = "argon2id"
	SaltSize = 32

	// Upper bounds on Argon2id cost accepted from a keystore file.
	MaxMemory     = 1 << 21 // KiB, 2 GiB
	MaxIterations = 64
)

var (
	// ErrDecrypt is returned for a wrong password or a tampered file.
	ErrDecrypt = errors.New("keystore: decryption failed")
	// ErrFormat is returned for files that are not a supported keystore.
	ErrFormat = errors.New("keystore: unsupported format")
	// ErrEmptyPassword is returned when sealing without a password.
	ErrEmptyPassword = errors.New("keystore: empty password")
	// ErrInvalidParams is returned by Seal for Argon2id costs outside the
	// accepted range.
	ErrInvalidParams = errors.New("keystore: invalid kdf parameters")
)

// Params holds Argon2id parameters.
type Params struct {
	Memory      uint32 `json:"memory"` // in KiB
	Iterations  uint32 `json:"iterations"`
	Parallelism uint8  `json:"parallelism"`
}

// DefaultParams returns recommended Argon2id parameters.
func DefaultParams() Params {
	return Params{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 4,
	}
}

// Sealed is the on-disk form of an exported mnemonic.
type Sealed struct {
	Version    int       `json:"version"`
	KDF        string    `json:"kdf"`
	Params     Params    `json:"params"`
	Salt       string    `json:"salt"`
	Nonce      string    `json:"nonce"`
	Ciphertext string    `json:"ciphertext"`
	Address    string    `json:"address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate checks p against the range argon2.IDKey accepts and the caps above.
func (p Params) Validate() error {
	switch {
	case p.Iterations == 0 || p.Iterations > MaxIterations:
		return fmt.Errorf("iterations %d out of range [1, %d]", p.Iterations, MaxIterations)
	case p.Parallelism == 0:
		return errors.New("parallelism must be positive")
	case p.Memory < 8*uint32(p.Parallelism) || p.Memory > MaxMemory:
		return fmt.Errorf("memory %d KiB out of range [%d, %d]", p.Memory, 8*uint32(p.Parallelism), MaxMemory)
	}
	return nil
}

// deriveKey uses Argon2id to derive a 32-byte encryption key from password and salt.
func deriveKey(password, salt []byte, params Params) []byte {
	return argon2.IDKey(
		password,
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		chacha20poly1305.KeySize,
	)
}

// associatedData binds the version, KDF parameters and salt to the ciphertext.
func associatedData(params Params, salt []byte) []byte {
	ad := make([]byte, 0, 1+len(KDF)+4+4+1+len(salt))
	ad = append(ad, Version)
	ad = append(ad, KDF...)
	ad = binary.LittleEndian.AppendUint32(ad, params.Memory)
	ad = binary.LittleEndian.AppendUint32(ad, params.Iterations)
	ad = append(ad, params.Parallelism)
	ad = append(ad, salt...)
	return ad
}

// Seal encrypts m with password. address is an optional public hint stored
// in the clear (e.g. the first checksummed address).
func Seal(m mnemonic.Mnemonic, password []byte, params Params, address string) (*Sealed, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if err := mnemonic.Validate(m); err != nil {
		return nil, fmt.Errorf("refusing to seal invalid mnemonic: %w", err)
	}

	// Generate random salt.
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	// Derive encryption key.
	key := deriveKey(password, salt, params)
	defer wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	plaintext := []byte(m.String())
	defer wipe(plaintext)
	ciphertext := aead.Seal(nil, nonce, plaintext, associatedData(params, salt))

	log.Keystore.Info().
		Str("kdf", KDF).
		Uint32("memory_kib", params.Memory).
		Uint32("iterations", params.Iterations).
		Str("address", address).
		Msg("mnemonic sealed")

	return &Sealed{
		Version:    Version,
		KDF:        KDF,
		Params:     params,
		Salt:       hexutil.Encode(salt),
		Nonce:      hexutil.Encode(nonce),
		Ciphertext: hexutil.Encode(ciphertext),
		Address:    address,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Open decrypts s with password and validates the recovered mnemonic.
func Open(s *Sealed, password []byte) (mnemonic.Mnemonic, error) {
	if s.Version != Version || s.KDF != KDF {
		return mnemonic.Mnemonic{}, fmt.Errorf("%w: version %d, kdf %q", ErrFormat, s.Version, s.KDF)
	}
	salt, err := hexutil.Decode(s.Salt)
	if err != nil || len(salt) != SaltSize {
		return mnemonic.Mnemonic{}, fmt.Errorf("%w: bad salt", ErrFormat)
	}
	nonce, err := hexutil.Decode(s.Nonce)
	if err != nil || len(nonce) != chacha20poly1305.NonceSizeX {
		return mnemonic.Mnemonic{}, fmt.Errorf("%w: bad nonce", ErrFormat)
	}
	ciphertext, err := hexutil.Decode(s.Ciphertext)
	if err != nil || len(ciphertext) < chacha20poly1305.Overhead {
		return mnemonic.Mnemonic{}, fmt.Errorf("%w: bad ciphertext", ErrFormat)
	}
	if err := s.Params.Validate(); err != nil {
		return mnemonic.Mnemonic{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	key := deriveKey(password, salt, s.Params)
	defer wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return mnemonic.Mnemonic{}, fmt.Errorf("create cipher: %w", err)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, associatedData(s.Params, salt))
	if err != nil {
		log.Keystore.Warn().Str("address", s.Address).Msg("keystore decryption failed")
		return mnemonic.Mnemonic{}, ErrDecrypt
	}
	defer wipe(plaintext)

	m := mnemonic.Parse(string(plaintext))
	if err := mnemonic.Validate(m); err != nil {
		return mnemonic.Mnemonic{}, fmt.Errorf("sealed mnemonic: %w", err)
	}
	return m, nil
}

// WriteFile stores s at path with owner-only permissions. It never
// overwrites an existing file.
func WriteFile(path string, s *Sealed) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode keystore: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create keystore: %w", err)
	}
	if _, err := f.Write(append(raw, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("write keystore: %w", err)
	}
	return f.Close()
}

// ReadFile loads a keystore written by WriteFile.
func ReadFile(path string) (*Sealed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}
	var s Sealed
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return &s, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
