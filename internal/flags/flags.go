// Package flags generates the short boolean flag names bound to reveal levels.
//
// Names are ordered by length, then lexicographically: a..z, aa..zz, aaa..
// Within a block of length L, the offset into the block is written as a
// base-26 number of exactly L digits using 'a' for 0 and 'z' for 25.
package flags

import (
	"fmt"
	"math"
)

const alphabet = 26

// At returns the n-th flag name (zero based). It panics on negative n.
func At(n int) string {
	if n < 0 {
		panic(fmt.Sprintf("flags: negative index %d", n))
	}
	length, block := 1, alphabet
	for n >= block {
		n -= block
		length++
		if block > math.MaxInt/alphabet {
			break
		}
		block *= alphabet
	}

	buf := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		buf[i] = byte('a' + n%alphabet)
		n /= alphabet
	}
	return string(buf)
}

// Index is the inverse of At.
func Index(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("flags: empty name")
	}
	offset, block := 0, 1
	for range len(name) - 1 {
		block *= alphabet
		offset += block
	}
	value := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 'a' || c > 'z' {
			return 0, fmt.Errorf("flags: invalid character %q in %q", c, name)
		}
		value = value*alphabet + int(c-'a')
	}
	return offset + value, nil
}

// Allocator hands out flag names in order. The zero value starts at "a".
// It is not safe for concurrent use; construct one per run.
type Allocator struct {
	next int
}

// NewAllocator returns an allocator positioned at the first name.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns a name never returned before by this allocator.
func (a *Allocator) Next() string {
	name := At(a.next)
	a.next++
	return name
}

// Issued reports how many names have been handed out.
func (a *Allocator) Issued() int {
	return a.next
}
