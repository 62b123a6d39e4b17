// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tiling

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// This file implements the substring index: a map from the rolling hash of
// every reference substring to the first reference segment that produced it.
// The map is physically sharded 256 ways, using the lower 8 bits of
// farmhash(hash) to pick the shard, so that index construction can run on
// several goroutines with little lock contention.

const nIndexShard = 256 // # of shards in the index.

// Segment is an inclusive, 0-based interval [Start, End] of the reference.
// If Reverse is true, the query matched the reverse complement of
// reference[Start..End]. Coordinates are always on the forward strand.
type Segment struct {
	Start, End int
	Reverse    bool
}

// Len returns the number of bases covered by the segment.
func (s Segment) Len() int { return s.End - s.Start + 1 }

// String returns "[start, end] reverse=yes|no".
func (s Segment) String() string {
	rev := "no"
	if s.Reverse {
		rev = "yes"
	}
	return fmt.Sprintf("[%d, %d] reverse=%s", s.Start, s.End, rev)
}

// indexEntry is one value in the index. rank is the position of the segment
// in the sequential insertion order (forward strand first, then ascending
// start, then ascending end). Among segments sharing a hash, the lowest rank
// is kept, which makes the index identical to a first-write-wins map built
// by a single goroutine.
type indexEntry struct {
	seg  Segment
	rank uint64
}

// One shard of Index.
type indexShard struct {
	mu      sync.Mutex
	entries map[Hash]indexEntry
}

// IndexStats summarizes a built index.
type IndexStats struct {
	// RefLen is the length of the reference.
	RefLen int
	// Substrings is the # of substring hashes computed, over all strands.
	Substrings int
	// Entries is the # of distinct hash values stored.
	Entries int
	// Forward and Reverse split Entries by the orientation of the stored
	// segment.
	Forward, Reverse int
}

// Index maps rolling hashes of reference substrings to reference segments.
// It is immutable once NewIndex returns, and Get is thread safe.
type Index struct {
	opts   Opts
	ref    Seq
	refRC  Seq // nil unless opts.ReverseComplement.
	shards [nIndexShard]indexShard
	stats  IndexStats
}

func shardOf(h Hash) int {
	return int(farm.Hash64WithSeed(nil, uint64(h)) & (nIndexShard - 1))
}

// NewIndex builds the index for the given reference. It returns an error for
// which IsInvalidSymbol is true if the reference contains anything but
// A/C/G/T. Building takes O(len(reference)^2) time and space per strand.
func NewIndex(reference string, opts Opts) (*Index, error) {
	ref, err := Encode(reference)
	if err != nil {
		return nil, err
	}
	return newIndex(ref, opts), nil
}

func newIndex(ref Seq, opts Opts) *Index {
	t0 := time.Now()
	idx := &Index{opts: opts, ref: ref}
	for i := range idx.shards {
		idx.shards[i].entries = make(map[Hash]indexEntry)
	}
	idx.insertStrand(ref, false)
	if opts.ReverseComplement {
		idx.refRC = ReverseComplement(ref)
		idx.insertStrand(idx.refRC, true)
	}

	idx.stats.RefLen = len(ref)
	for i := range idx.shards {
		for _, e := range idx.shards[i].entries {
			if e.seg.Reverse {
				idx.stats.Reverse++
			} else {
				idx.stats.Forward++
			}
		}
	}
	idx.stats.Entries = idx.stats.Forward + idx.stats.Reverse
	if log.At(log.Debug) {
		log.Debug.Printf("tiling: indexed %d substrings of a %d-base reference into %d entries in %v",
			idx.stats.Substrings, len(ref), idx.stats.Entries, time.Since(t0))
	}
	return idx
}

// insertStrand adds every substring of seq. seq is the reference itself when
// reverse=false, or its reverse complement when reverse=true. Start
// positions are dealt round-robin to the workers.
func (idx *Index) insertStrand(seq Seq, reverse bool) {
	n := len(seq)
	if n == 0 {
		return
	}
	parallelism := idx.opts.parallelism()
	if parallelism > n {
		parallelism = n
	}
	var strandRank uint64
	if reverse {
		strandRank = uint64(n) * uint64(n)
	}
	err := traverse.Each(parallelism, func(job int) error {
		for start := job; start < n; start += parallelism {
			var h Hash
			for end := start; end < n; end++ {
				h = h.extend(seq[end])
				seg := Segment{Start: start, End: end}
				if reverse {
					// seq[start..end] is the reverse complement of
					// reference[n-1-end..n-1-start].
					seg = Segment{Start: n - 1 - end, End: n - 1 - start, Reverse: true}
				}
				idx.insert(h, indexEntry{seg: seg, rank: strandRank + uint64(start)*uint64(n) + uint64(end)})
			}
		}
		return nil
	})
	if err != nil {
		log.Panic(err)
	}
	idx.stats.Substrings += n * (n + 1) / 2
}

func (idx *Index) insert(h Hash, e indexEntry) {
	shard := &idx.shards[shardOf(h)]
	shard.mu.Lock()
	if old, ok := shard.entries[h]; !ok || e.rank < old.rank {
		shard.entries[h] = e
	}
	shard.mu.Unlock()
}

// Get returns the segment stored for the given hash. Thread safe.
func (idx *Index) Get(h Hash) (Segment, bool) {
	e, ok := idx.shards[shardOf(h)].entries[h]
	return e.seg, ok
}

// Len returns the # of distinct hashes in the index.
func (idx *Index) Len() int { return idx.stats.Entries }

// RefLen returns the length of the indexed reference.
func (idx *Index) RefLen() int { return len(idx.ref) }

// Stats returns the summary of the index.
func (idx *Index) Stats() IndexStats { return idx.stats }

// Opts returns the options the index was built with.
func (idx *Index) Opts() Opts { return idx.opts }

// Reference returns the indexed reference. The caller must not modify it.
func (idx *Index) Reference() Seq { return idx.ref }

// matches checks that q is exactly the sequence that seg denotes: the
// reference substring for a forward segment, or its reverse complement for a
// reverse one.
func (idx *Index) matches(q Seq, seg Segment) bool {
	if seg.Len() != len(q) {
		return false
	}
	if !seg.Reverse {
		return bytes.Equal(q, idx.ref[seg.Start:seg.End+1])
	}
	n := len(idx.ref)
	return bytes.Equal(q, idx.refRC[n-1-seg.End:n-seg.Start])
}
