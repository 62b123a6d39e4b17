// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tiling

import (
	"math"

	"github.com/grailbio/base/log"
)

// Unreachable is the Table.Cost value of a query position from which the
// rest of the query cannot be covered.
const Unreachable = math.MaxInt32

// Transition is one entry of Table.Trace. It says that the query range
// [p, Next) matches Seg, where p is the index of the entry in Trace.
type Transition struct {
	Seg  Segment
	Next int
	// Valid is false if no transition has been recorded at this position.
	Valid bool
}

// SolveStats counts index activity during Solve.
type SolveStats struct {
	// Lookups is the # of (start, end) query ranges looked up in the index.
	Lookups int
	// Hits is the # of lookups that found a segment (after verification, if
	// enabled).
	Hits int
	// Collisions is the # of hits rejected by Opts.VerifyMatches.
	Collisions int
	// Updates is the # of times a Trace entry was (re)written.
	Updates int
}

// Table is the result of the minimum-cover dynamic program. Both slices have
// length len(query)+1.
type Table struct {
	// Cost[p] is the fewest segments needed to cover query[p:], or Unreachable.
	// Cost[len(query)] is always zero.
	Cost []int
	// Trace[p] is the transition that achieves Cost[p].
	Trace []Transition
	Stats SolveStats
}

// QueryLen returns the length of the query the table was computed for.
func (t *Table) QueryLen() int { return len(t.Cost) - 1 }

// Solve computes, for every query position, the fewest index segments that
// tile the rest of the query.
//
// Start positions are processed from right to left. For each start, the
// query is extended one base at a time and the rolling hash looked up in the
// index. A hit at [start, end] offers Cost[end+1]+1 segments. The offer is
// taken if it is strictly better than the current Cost[start], or if it ties
// and replaces a reverse-strand transition with a forward-strand one.
func Solve(idx *Index, query Seq) *Table {
	n := len(query)
	t := &Table{
		Cost:  make([]int, n+1),
		Trace: make([]Transition, n+1),
	}
	for p := 0; p < n; p++ {
		t.Cost[p] = Unreachable
	}
	verify := idx.opts.VerifyMatches
	for start := n - 1; start >= 0; start-- {
		var h Hash
		for end := start; end < n; end++ {
			h = h.extend(query[end])
			t.Stats.Lookups++
			seg, ok := idx.Get(h)
			if !ok {
				continue
			}
			if verify && !idx.matches(query[start:end+1], seg) {
				t.Stats.Collisions++
				continue
			}
			t.Stats.Hits++
			next := t.Cost[end+1]
			if next == Unreachable {
				continue
			}
			cand := next + 1
			cur := &t.Trace[start]
			if cand < t.Cost[start] ||
				(cand == t.Cost[start] && !seg.Reverse && cur.Valid && cur.Seg.Reverse) {
				t.Cost[start] = cand
				*cur = Transition{Seg: seg, Next: end + 1, Valid: true}
				t.Stats.Updates++
			}
		}
	}
	if log.At(log.Debug) {
		log.Debug.Printf("tiling: solved %d-base query: cost %d, %+v", n, t.Cost[0], t.Stats)
	}
	return t
}
