package mnemonic

import (
	"fmt"

	"github.com/olehkaliuzhnyi/walletgen/internal/entropy"
)

// Chunk is one 11-bit group of entropy||checksum and the word it selects.
type Chunk struct {
	Bits  string `json:"bits"`
	Index int    `json:"index"`
	Word  string `json:"word"`
}

// Breakdown splits entropy||checksum into 11-bit groups in order.
func Breakdown(e entropy.Entropy) ([]Chunk, error) {
	if !entropy.ValidBits(e.BitLen()) {
		return nil, fmt.Errorf("%w: %d bits", entropy.ErrInvalidParameter, e.BitLen())
	}
	ent := e.Bytes()
	csBits := len(ent) * 8 / 32

	// At most 8 checksum bits, so one trailing byte holds them all.
	buf := make([]byte, len(ent)+1)
	defer wipe(buf)
	copy(buf, ent)
	wipe(ent)
	buf[len(buf)-1] = checksumBits(buf[:len(buf)-1], csBits) << (8 - csBits)

	n := WordCount(e.BitLen())
	chunks := make([]Chunk, n)
	for i := range chunks {
		idx := readBits(buf, i*bitsPerWord, bitsPerWord)
		chunks[i] = Chunk{
			Bits:  fmt.Sprintf("%011b", idx),
			Index: idx,
			Word:  wordList[idx],
		}
	}
	return chunks, nil
}
