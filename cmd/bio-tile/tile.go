// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/seqtile/tiling"
)

type tileFlags struct {
	refPath, queryPath string
	outputPath         string
	format             string
	checksum           bool
	opts               tiling.Opts
}

// tiled is the outcome of one query.
type tiled struct {
	query  namedSeq
	result tiling.Result
}

func tile(ctx context.Context, flags tileFlags, input string, stdin io.Reader, stdout io.Writer) (err error) {
	newWriter, err := resultWriterFactory(flags.format)
	if err != nil {
		return err
	}
	ref, queries, err := readInputs(ctx, flags.refPath, flags.queryPath, input, stdin)
	if err != nil {
		return err
	}
	start := time.Now()
	tiler, err := tiling.NewTiler(ref.seq, flags.opts)
	if err != nil {
		return errors.E(err, "reference", ref.name)
	}
	st := tiler.Index().Stats()
	log.Printf("indexed reference %s (%d bases, %d entries) in %v",
		ref.name, st.RefLen, st.Entries, time.Since(start))

	results := make([]tiled, len(queries))
	err = traverse.Each(len(queries), func(i int) error {
		r, err := tiler.Tile(queries[i].seq)
		if err != nil {
			return errors.E(err, "query", queries[i].name)
		}
		results[i] = tiled{query: queries[i], result: r}
		if log.At(log.Debug) {
			log.Debug.Printf("query %s: %d segments, %d lookups, %d hits, %d collisions",
				queries[i].name, len(r.Segments), r.Stats.Lookups, r.Stats.Hits, r.Stats.Collisions)
		}
		return nil
	})
	if err != nil {
		return err
	}

	out, err := createOutput(ctx, flags.outputPath, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	w := newWriter(out.w, tiler.Index().Reference(), len(results) > 1)
	for _, r := range results {
		if err := w.Write(r); err != nil {
			return errors.E(err, "write", out.path)
		}
		if flags.checksum {
			log.Printf("query %s: %d segments, checksum %016x", r.query.name, len(r.result.Segments), r.result.Checksum())
		}
	}
	if err := w.Flush(); err != nil {
		return errors.E(err, "write", out.path)
	}
	log.Printf("tiled %d queries in %v", len(results), time.Since(start))
	return nil
}

func stats(ctx context.Context, input string, opts tiling.Opts, stdin io.Reader, stdout io.Writer) error {
	seqs, err := readSeqs(ctx, input, stdin)
	if err != nil {
		return err
	}
	if len(seqs) == 0 {
		return errors.E(errors.Invalid, "no reference found in", input)
	}
	ref := seqs[0]
	idx, err := tiling.NewIndex(ref.seq, opts)
	if err != nil {
		return errors.E(err, "reference", ref.name)
	}
	st := idx.Stats()
	_, err = fmt.Fprintf(stdout, "reference\t%s\nlength\t%d\nsubstrings\t%d\nentries\t%d\nforward\t%d\nreverse\t%d\n",
		ref.name, st.RefLen, st.Substrings, st.Entries, st.Forward, st.Reverse)
	return err
}
