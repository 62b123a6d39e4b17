// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tiling

import (
	"encoding/binary"

	"blainsmith.com/go/seahash"
)

// Result is the tiling of one query.
type Result struct {
	// Segments tile the query in order. Their lengths sum to the query length.
	Segments []Segment
	// Stats is copied from the Table computed for the query.
	Stats SolveStats
}

// Checksum returns a digest of the segment list. Two results have the same
// checksum iff (with high probability) they have identical segments.
func (r Result) Checksum() uint64 {
	h := seahash.New()
	var buf [17]byte
	for _, s := range r.Segments {
		binary.LittleEndian.PutUint64(buf[0:], uint64(s.Start))
		binary.LittleEndian.PutUint64(buf[8:], uint64(s.End))
		buf[16] = 0
		if s.Reverse {
			buf[16] = 1
		}
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Tiler tiles queries against one reference. It is thread safe.
type Tiler struct {
	idx *Index
}

// NewTiler builds the index for the reference.
func NewTiler(reference string, opts Opts) (*Tiler, error) {
	idx, err := NewIndex(reference, opts)
	if err != nil {
		return nil, err
	}
	return &Tiler{idx: idx}, nil
}

// Index returns the index shared by all queries.
func (t *Tiler) Index() *Index { return t.idx }

// Tile computes the minimum tiling of query. The error satisfies
// IsInvalidSymbol or IsNoCover on failure.
func (t *Tiler) Tile(query string) (Result, error) {
	q, err := Encode(query)
	if err != nil {
		return Result{}, err
	}
	table := Solve(t.idx, q)
	segs, err := Reconstruct(table)
	if err != nil {
		return Result{Stats: table.Stats}, err
	}
	return Result{Segments: segs, Stats: table.Stats}, nil
}

// Tile computes the minimum tiling of query by substrings of reference.
func Tile(reference, query string, opts Opts) (Result, error) {
	t, err := NewTiler(reference, opts)
	if err != nil {
		return Result{}, err
	}
	return t.Tile(query)
}
