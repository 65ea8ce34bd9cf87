// Package mnemonic converts entropy to and from BIP-39 word sequences.
package mnemonic

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/text/unicode/norm"

	"github.com/olehkaliuzhnyi/walletgen/internal/entropy"
)

const (
	bitsPerWord = 11
	listSize    = 1 << bitsPerWord
)

var (
	// ErrInvalidWordCount is returned when a mnemonic is not 12, 15, 18, 21 or 24 words.
	ErrInvalidWordCount = errors.New("invalid mnemonic word count")
	// ErrUnknownWord is returned when a word is not in the word list.
	ErrUnknownWord = errors.New("unknown mnemonic word")
	// ErrChecksumMismatch is returned when the embedded checksum does not match the entropy.
	ErrChecksumMismatch = errors.New("mnemonic checksum mismatch")
	// ErrInvalidPermutation is returned by Reorder for an order that is not a permutation.
	ErrInvalidPermutation = errors.New("invalid word permutation")
)

// UnknownWordError reports which word failed the lookup.
type UnknownWordError struct {
	Word     string
	Position int
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("%v: %q at position %d", ErrUnknownWord, e.Word, e.Position)
}

func (e *UnknownWordError) Unwrap() error { return ErrUnknownWord }

var (
	wordList  = wordlists.English
	wordIndex = make(map[string]int, listSize)
)

func init() {
	if len(wordList) != listSize {
		panic(fmt.Sprintf("mnemonic: word list has %d entries, want %d", len(wordList), listSize))
	}
	for i, w := range wordList {
		wordIndex[w] = i
	}
}

// Mnemonic is an ordered sequence of words from the English BIP-39 list.
type Mnemonic struct {
	words []string
}

// Parse splits a phrase into words after NFKD normalization and lowercasing.
// It does not validate the words; use Decode for that.
func Parse(phrase string) Mnemonic {
	normalized := strings.ToLower(norm.NFKD.String(phrase))
	return Mnemonic{words: strings.Fields(normalized)}
}

// FromWords builds a Mnemonic from already split words.
func FromWords(words []string) Mnemonic {
	return Parse(strings.Join(words, " "))
}

// Words returns a copy of the word sequence.
func (m Mnemonic) Words() []string {
	out := make([]string, len(m.words))
	copy(out, m.words)
	return out
}

// Len returns the number of words.
func (m Mnemonic) Len() int { return len(m.words) }

// String returns the words joined by single spaces.
func (m Mnemonic) String() string {
	return strings.Join(m.words, " ")
}

// ValidWordCount reports whether n is a BIP-39 word count.
func ValidWordCount(n int) bool {
	switch n {
	case 12, 15, 18, 21, 24:
		return true
	}
	return false
}

// WordCount returns the number of words encoding bits of entropy.
func WordCount(bits int) int {
	return (bits + bits/32) / bitsPerWord
}

// Word returns the list entry at index i, or "" when out of range.
func Word(i int) string {
	if i < 0 || i >= listSize {
		return ""
	}
	return wordList[i]
}

// Index returns the list position of word.
func Index(word string) (int, bool) {
	i, ok := wordIndex[word]
	return i, ok
}

// Checksum returns the leading ENT/32 bits of SHA-256(entropy) and their count.
func Checksum(e entropy.Entropy) (value uint8, bits int, err error) {
	if !entropy.ValidBits(e.BitLen()) {
		return 0, 0, fmt.Errorf("%w: %d bits", entropy.ErrInvalidParameter, e.BitLen())
	}
	ent := e.Bytes()
	defer wipe(ent)
	bits = e.BitLen() / 32
	return checksumBits(ent, bits), bits, nil
}

// Encode maps entropy to its mnemonic.
func Encode(e entropy.Entropy) (Mnemonic, error) {
	chunks, err := Breakdown(e)
	if err != nil {
		return Mnemonic{}, err
	}
	words := make([]string, len(chunks))
	for i, c := range chunks {
		words[i] = c.Word
	}
	return Mnemonic{words: words}, nil
}

// Decode validates m and recovers the entropy it encodes.
func Decode(m Mnemonic) (entropy.Entropy, error) {
	n := len(m.words)
	if !ValidWordCount(n) {
		return entropy.Entropy{}, fmt.Errorf("%w: %d", ErrInvalidWordCount, n)
	}

	total := n * bitsPerWord
	csBits := total / 33
	entBits := total - csBits

	buf := make([]byte, (total+7)/8)
	defer wipe(buf)
	for i, w := range m.words {
		idx, ok := wordIndex[w]
		if !ok {
			return entropy.Entropy{}, &UnknownWordError{Word: w, Position: i}
		}
		writeBits(buf, i*bitsPerWord, bitsPerWord, idx)
	}

	ent := buf[:entBits/8]
	got := buf[entBits/8] >> (8 - csBits)
	if got != checksumBits(ent, csBits) {
		return entropy.Entropy{}, ErrChecksumMismatch
	}
	return entropy.FromBytes(ent)
}

// Validate reports whether m decodes cleanly.
func Validate(m Mnemonic) error {
	e, err := Decode(m)
	if err != nil {
		return err
	}
	e.Zero()
	return nil
}

func checksumBits(ent []byte, bits int) uint8 {
	sum := sha256.Sum256(ent)
	return sum[0] >> (8 - bits)
}

// readBits reads n bits starting at bit offset off, most significant first.
func readBits(buf []byte, off, n int) int {
	v := 0
	for j := 0; j < n; j++ {
		bit := off + j
		v = v<<1 | int(buf[bit/8]>>(7-bit%8)&1)
	}
	return v
}

func writeBits(buf []byte, off, n, v int) {
	for j := 0; j < n; j++ {
		if v>>(n-1-j)&1 == 1 {
			bit := off + j
			buf[bit/8] |= 1 << (7 - bit%8)
		}
	}
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
