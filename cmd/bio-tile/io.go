// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

// This file reads the reference and query sequences and opens the output.

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/seqtile/encoding/fasta"
	"github.com/klauspost/compress/gzip"
)

// namedSeq is one sequence read from the input.
type namedSeq struct {
	name, seq string
}

// readSeqs reads all the sequences in path, in the order of appearance. An
// empty path or "-" reads stdin. Bases are upper-cased so that
// soft-masked FASTA can be tiled.
func readSeqs(ctx context.Context, path string, stdin io.Reader) (seqs []namedSeq, err error) {
	var in io.Reader = stdin
	if path != "" && path != "-" {
		var f file.File
		if f, err = file.Open(ctx, path); err != nil {
			return nil, errors.E(err, "open", path)
		}
		defer file.CloseAndReport(ctx, f, &err)
		in = f.Reader(ctx)
		if u := compress.NewReaderPath(in, f.Name()); u != nil {
			in = u
		}
	} else {
		path = "(stdin)"
	}
	var fa fasta.Fasta
	if fa, err = fasta.New(in); err != nil {
		return nil, errors.E(err, "read", path)
	}
	for _, name := range fa.SeqNames() {
		seq, err := fa.Seq(name)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, namedSeq{name: name, seq: strings.ToUpper(seq)})
	}
	log.Debug.Printf("read %d sequences from %s", len(seqs), path)
	return seqs, nil
}

// readInputs returns the reference and the queries. If refPath is set, the
// reference is the only sequence in refPath and the queries are all the
// sequences in queryPath. Otherwise, inputPath holds the reference followed
// by the queries.
func readInputs(ctx context.Context, refPath, queryPath, inputPath string, stdin io.Reader) (ref namedSeq, queries []namedSeq, err error) {
	if refPath == "" {
		if queryPath != "" {
			return ref, nil, errors.E(errors.Invalid, "-query requires -ref")
		}
		seqs, err := readSeqs(ctx, inputPath, stdin)
		if err != nil {
			return ref, nil, err
		}
		if len(seqs) < 2 {
			return ref, nil, errors.E(errors.Invalid,
				"input must hold a reference and at least one query, found", len(seqs), "sequence(s)")
		}
		return seqs[0], seqs[1:], nil
	}
	if inputPath != "" {
		return ref, nil, errors.E(errors.Invalid, "an input path cannot be combined with -ref")
	}
	if queryPath == "" {
		return ref, nil, errors.E(errors.Invalid, "-ref requires -query")
	}
	if refPath == "-" && queryPath == "-" {
		return ref, nil, errors.E(errors.Invalid, "-ref and -query cannot both read stdin")
	}
	if ref, err = readReference(ctx, refPath, stdin); err != nil {
		return ref, nil, err
	}
	if queries, err = readSeqs(ctx, queryPath, stdin); err != nil {
		return ref, nil, err
	}
	if len(queries) == 0 {
		return ref, nil, errors.E(errors.Invalid, "no query found in", queryPath)
	}
	return ref, queries, nil
}

// readReference reads the single reference sequence in path.
func readReference(ctx context.Context, path string, stdin io.Reader) (namedSeq, error) {
	seqs, err := readSeqs(ctx, path, stdin)
	if err != nil {
		return namedSeq{}, err
	}
	if len(seqs) != 1 {
		return namedSeq{}, errors.E(errors.Invalid,
			"expect exactly one reference sequence in", path, "found", len(seqs))
	}
	return seqs[0], nil
}

// outputFile is the destination of the tiling results.
type outputFile struct {
	path string
	out  file.File // nil for stdout.
	gz   *gzip.Writer
	w    io.Writer
}

// createOutput opens path for writing. An empty path writes to stdout. A path
// ending in ".gz" is gzip-compressed.
func createOutput(ctx context.Context, path string, stdout io.Writer) (*outputFile, error) {
	if path == "" {
		return &outputFile{path: "(stdout)", w: stdout}, nil
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	o := &outputFile{path: path, out: out, w: out.Writer(ctx)}
	if strings.HasSuffix(path, ".gz") {
		o.gz = gzip.NewWriter(o.w)
		o.w = o.gz
	}
	return o, nil
}

// Close flushes and closes the output. It must be called exactly once.
func (o *outputFile) Close(ctx context.Context) error {
	once := errors.Once{}
	if o.gz != nil {
		once.Set(o.gz.Close())
	}
	if o.out != nil {
		once.Set(o.out.Close(ctx))
	}
	if err := once.Err(); err != nil {
		return errors.E(err, "close", o.path)
	}
	return nil
}
