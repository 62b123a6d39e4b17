// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tiling

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestReconstruct(t *testing.T) {
	table := &Table{
		Cost: []int{2, 2, 1, 1, 0},
		Trace: []Transition{
			{Seg: Segment{4, 5, true}, Next: 2, Valid: true},
			{}, // never visited
			{Seg: Segment{0, 0, false}, Next: 3, Valid: true},
			{Seg: Segment{7, 7, false}, Next: 4, Valid: true},
			{},
		},
	}
	segs, err := Reconstruct(table)
	assert.NoError(t, err)
	expect.EQ(t, segs, []Segment{{4, 5, true}, {0, 0, false}, {7, 7, false}})
}

func TestReconstructNoCover(t *testing.T) {
	table := &Table{
		Cost: []int{Unreachable, 1, 0},
		Trace: []Transition{
			{},
			{Seg: Segment{0, 0, false}, Next: 2, Valid: true},
			{},
		},
	}
	_, err := Reconstruct(table)
	expect.True(t, IsNoCover(err), err)
	expect.False(t, IsInvalidSymbol(err), err)
}

func TestReconstructEmpty(t *testing.T) {
	segs, err := Reconstruct(&Table{Cost: []int{0}, Trace: []Transition{{}}})
	assert.NoError(t, err)
	expect.EQ(t, segs, []Segment{})
}

func TestPlacements(t *testing.T) {
	ps := Placements([]Segment{{4, 5, true}, {0, 0, false}, {2, 7, false}})
	expect.EQ(t, ps, []Placement{
		{QueryStart: 0, QueryEnd: 1, Segment: Segment{4, 5, true}},
		{QueryStart: 2, QueryEnd: 2, Segment: Segment{0, 0, false}},
		{QueryStart: 3, QueryEnd: 8, Segment: Segment{2, 7, false}},
	})
	expect.EQ(t, len(Placements(nil)), 0)
}

func TestSegmentString(t *testing.T) {
	expect.EQ(t, Segment{0, 3, false}.String(), "[0, 3] reverse=no")
	expect.EQ(t, Segment{2, 2, true}.String(), "[2, 2] reverse=yes")
	expect.EQ(t, Segment{2, 9, true}.Len(), 8)
}
