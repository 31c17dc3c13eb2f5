// Package bitset provides a fixed-capacity bit set used to track visited
// token indices during path traversal.
package bitset

const wordBits = 64

// BitSet is a fixed-capacity set of bit flags indexed from zero. The zero
// value is unusable; allocate with NewBitSet.
type BitSet []uint64

// NewBitSet returns a BitSet able to hold n bits, all unset.
func NewBitSet(n uint64) BitSet {
	return make(BitSet, (n+wordBits-1)/wordBits)
}

// IsSet reports whether bit i is set.
func (b BitSet) IsSet(i uint64) bool {
	return b[i/wordBits]&(1<<(i%wordBits)) != 0
}

// Set turns bit i on.
func (b BitSet) Set(i uint64) {
	b[i/wordBits] |= 1 << (i % wordBits)
}

// Unset turns bit i off.
func (b BitSet) Unset(i uint64) {
	b[i/wordBits] &^= 1 << (i % wordBits)
}

// Clear unsets every bit without reallocating.
func (b BitSet) Clear() {
	for i := range b {
		b[i] = 0
	}
}
