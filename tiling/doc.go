// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package tiling decomposes a DNA query into the fewest contiguous pieces
// that each occur verbatim in a reference, either on the forward strand or as
// a reverse complement.
//
// The work happens in three steps:
//
//   1. NewIndex hashes every substring of the reference (and optionally of its
//      reverse complement) with a polynomial rolling hash, keeping the first
//      segment seen for each hash value.
//
//   2. Solve runs a right-to-left dynamic program over the query. Cost[p] is
//      the fewest segments that cover query[p:], and Trace[p] records the
//      transition that achieved it.
//
//   3. Reconstruct follows Trace from position 0 and returns the segments in
//      query order.
//
// Tile wraps the three steps. Tiler keeps a built index so that many queries
// can be tiled against one reference, concurrently if desired.
//
// Hash equality is trusted as substring equality. The modulus is 2^61-1 and
// the base exceeds the largest base code, so substrings of up to 26 bases
// never collide, but longer ones can in principle. Set Opts.VerifyMatches to
// compare bases on every index hit.
package tiling
