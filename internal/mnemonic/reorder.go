package mnemonic

import "fmt"

// Reorder returns a new mnemonic whose i-th word is m's order[i]-th word.
// The result is not validated: a reordered mnemonic generally fails Decode.
func Reorder(m Mnemonic, order []int) (Mnemonic, error) {
	if len(order) != len(m.words) {
		return Mnemonic{}, fmt.Errorf("%w: %d positions for %d words", ErrInvalidPermutation, len(order), len(m.words))
	}
	seen := make([]bool, len(order))
	out := make([]string, len(order))
	for i, from := range order {
		if from < 0 || from >= len(order) || seen[from] {
			return Mnemonic{}, fmt.Errorf("%w: position %d", ErrInvalidPermutation, from)
		}
		seen[from] = true
		out[i] = m.words[from]
	}
	return Mnemonic{words: out}, nil
}

// Move returns a new mnemonic with the word at from moved to position to.
func Move(m Mnemonic, from, to int) (Mnemonic, error) {
	n := len(m.words)
	if from < 0 || from >= n || to < 0 || to >= n {
		return Mnemonic{}, fmt.Errorf("%w: move %d -> %d of %d", ErrInvalidPermutation, from, to, n)
	}
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i != from {
			order = append(order, i)
		}
	}
	order = append(order[:to], append([]int{from}, order[to:]...)...)
	return Reorder(m, order)
}
