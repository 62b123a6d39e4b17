// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tiling

import "runtime"

// Opts controls index construction and query tiling.
type Opts struct {
	// ReverseComplement causes the reverse complement of the reference to be
	// indexed in addition to the forward strand. When false, only forward
	// matches are reported.
	ReverseComplement bool

	// VerifyMatches causes every index hit to be checked base by base against
	// the reference. A mismatching hit (a hash collision) is treated as a miss
	// and counted in Stats.Collisions.
	VerifyMatches bool

	// Parallelism is the number of goroutines used to build the index. Zero
	// means runtime.NumCPU(). The built index does not depend on this value.
	Parallelism int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	ReverseComplement: true,  // bio-tile -revcomp
	VerifyMatches:     false, // bio-tile -verify
	Parallelism:       0,     // bio-tile -parallelism
}

func (o Opts) parallelism() int {
	if o.Parallelism <= 0 {
		return runtime.NumCPU()
	}
	return o.Parallelism
}
