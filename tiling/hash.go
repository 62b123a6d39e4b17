// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tiling

// Hash is a polynomial rolling hash of a base sequence, modulo hashPrime.
//
//   hash(s, e) = (hash(s, e-1) * hashBase + code(seq[e])) mod hashPrime
//   hash(s, s-1) = 0
type Hash uint64

const (
	// hashPrime is the Mersenne prime 2^61-1.
	hashPrime = Hash(1)<<61 - 1
	// hashBase must exceed maxBase. With base 5, a sequence of up to 26 bases
	// is below 2^61-1 before reduction, so such sequences never collide.
	hashBase = Hash(maxBase) + 1
)

// extend appends one base to a hash. h must be < hashPrime; h*hashBase+b then
// fits in 64 bits.
func (h Hash) extend(b uint8) Hash {
	x := h*hashBase + Hash(b)
	x = (x & hashPrime) + (x >> 61)
	if x >= hashPrime {
		x -= hashPrime
	}
	return x
}

// HashOf computes the rolling hash of the whole sequence.
func HashOf(s Seq) Hash {
	var h Hash
	for _, b := range s {
		h = h.extend(b)
	}
	return h
}
