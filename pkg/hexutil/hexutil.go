// Package hexutil implements the hex convention used at the wallet boundary:
// "0x" prefix, two lowercase characters per byte, no separators.
package hexutil

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Prefix is prepended to every encoded buffer.
const Prefix = "0x"

var (
	// ErrOddLength is returned for inputs that do not encode whole bytes.
	ErrOddLength = errors.New("hex string has odd length")
	// ErrNotLowercase is returned when an input carries upper-case digits.
	ErrNotLowercase = errors.New("hex string is not lowercase")
)

// Encode renders b as 0x-prefixed lowercase hex.
func Encode(b []byte) string {
	return Prefix + hex.EncodeToString(b)
}

// Decode parses a hex string produced by Encode. The prefix is optional.
func Decode(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, Prefix)
	if len(s)%2 != 0 {
		return nil, ErrOddLength
	}
	if s != strings.ToLower(s) {
		return nil, ErrNotLowercase
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return b, nil
}
