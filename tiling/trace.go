// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tiling

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Reconstruct follows the transitions recorded in t from query position 0 and
// returns the matched segments in query order. It returns an error for which
// IsNoCover is true if the query cannot be tiled. An empty query yields an
// empty, non-nil list.
func Reconstruct(t *Table) ([]Segment, error) {
	n := t.QueryLen()
	segs := []Segment{}
	for pos := 0; pos < n; {
		tr := t.Trace[pos]
		if !tr.Valid {
			return nil, errors.E(errors.NotExist,
				fmt.Sprintf("query position %d of %d", pos, n), errNoCover)
		}
		segs = append(segs, tr.Seg)
		pos = tr.Next
	}
	return segs, nil
}

// IsNoCover reports whether err was returned because the query cannot be
// tiled by reference substrings.
func IsNoCover(err error) bool {
	return hasCause(err, errNoCover)
}

// Placement is a Segment together with the query range it covers.
// QueryStart and QueryEnd are inclusive.
type Placement struct {
	QueryStart, QueryEnd int
	Segment
}

// Placements lays out segments end to end starting at query position 0.
func Placements(segs []Segment) []Placement {
	ps := make([]Placement, len(segs))
	pos := 0
	for i, s := range segs {
		ps[i] = Placement{QueryStart: pos, QueryEnd: pos + s.Len() - 1, Segment: s}
		pos += s.Len()
	}
	return ps
}
