// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tiling

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
)

// Base codes. They start at one so that a run of leading A's still changes
// the rolling hash.
const (
	invalidBase = uint8(0)
	baseA       = uint8(1)
	baseC       = uint8(2)
	baseG       = uint8(3)
	baseT       = uint8(4)
	maxBase     = baseT
)

var (
	asciiToBaseMap   [256]uint8
	baseToASCIIMap   = [...]byte{'N', 'A', 'C', 'G', 'T'}
	baseComplementOf = [...]uint8{invalidBase, baseT, baseG, baseC, baseA}
)

func init() {
	asciiToBaseMap['A'] = baseA
	asciiToBaseMap['C'] = baseC
	asciiToBaseMap['G'] = baseG
	asciiToBaseMap['T'] = baseT
}

// Seq is an encoded DNA sequence, one base code per element.
type Seq []uint8

// Encode converts an ASCII sequence of upper-case A, C, G and T into a Seq.
// Any other byte, lower-case bases included, produces an error for which
// IsInvalidSymbol is true.
func Encode(s string) (Seq, error) {
	seq := make(Seq, len(s))
	for i := 0; i < len(s); i++ {
		b := asciiToBaseMap[s[i]]
		if b == invalidBase {
			return nil, errors.E(errors.Invalid,
				fmt.Sprintf("%q at position %d", s[i], i), errInvalidSymbol)
		}
		seq[i] = b
	}
	return seq, nil
}

// String returns the sequence as upper-case ASCII.
func (s Seq) String() string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, b := range s {
		sb.WriteByte(baseToASCIIMap[b])
	}
	return sb.String()
}

// ReverseComplement returns a new sequence holding the reverse complement of
// s: the bases in reverse order with A<->T and C<->G swapped.
func ReverseComplement(s Seq) Seq {
	n := len(s)
	rc := make(Seq, n)
	for i, b := range s {
		rc[n-1-i] = baseComplementOf[b]
	}
	return rc
}

// tilingError is the type of the sentinel causes attached to the errors of
// this package.
type tilingError string

func (e tilingError) Error() string { return string(e) }

const (
	errInvalidSymbol = tilingError("invalid symbol")
	errNoCover       = tilingError("no cover found")
)

// hasCause reports whether cause appears in the chain of *errors.Error
// wrapping err.
func hasCause(err error, cause tilingError) bool {
	for err != nil {
		if c, ok := err.(tilingError); ok {
			return c == cause
		}
		e, ok := err.(*errors.Error)
		if !ok {
			return false
		}
		err = e.Err
	}
	return false
}

// IsInvalidSymbol reports whether err was caused by a byte outside the
// A/C/G/T alphabet.
func IsInvalidSymbol(err error) bool {
	return hasCause(err, errInvalidSymbol)
}
