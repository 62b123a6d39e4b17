// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/seqtile/tiling"
)

// resultWriter formats the tiling of each query.
type resultWriter interface {
	Write(r tiled) error
	Flush() error
}

type newResultWriter func(w io.Writer, ref tiling.Seq, named bool) resultWriter

func resultWriterFactory(format string) (newResultWriter, error) {
	switch format {
	case "text":
		return func(w io.Writer, ref tiling.Seq, named bool) resultWriter {
			return &textWriter{w: bufio.NewWriter(w), ref: ref, named: named}
		}, nil
	case "tsv":
		return func(w io.Writer, _ tiling.Seq, _ bool) resultWriter {
			return newTSVWriter(w)
		}, nil
	}
	return nil, errors.E(errors.Invalid, fmt.Sprintf("unknown output format %q, want text or tsv", format))
}

// textWriter prints one segment per line. When named is set, the segments of
// each query follow a ">name" line.
type textWriter struct {
	w     *bufio.Writer
	ref   tiling.Seq
	named bool
}

func (t *textWriter) Write(r tiled) error {
	if t.named {
		fmt.Fprintf(t.w, ">%s\n", r.query.name)
	}
	for _, s := range r.result.Segments {
		t.w.WriteString(formatSegment(s, t.ref))
		t.w.WriteByte('\n')
	}
	return nil
}

func (t *textWriter) Flush() error { return t.w.Flush() }

// formatSegment renders s. Single-base segments name the reference base
// instead of the interval.
func formatSegment(s tiling.Segment, ref tiling.Seq) string {
	if s.Len() != 1 {
		return s.String()
	}
	base := ref[s.Start : s.Start+1].String()
	if s.Reverse {
		return fmt.Sprintf("ref[%d]=%q reverse=yes", s.Start, base)
	}
	return fmt.Sprintf("ref[%d]=%q", s.Start, base)
}

// tsvWriter writes one row per segment with the query interval it covers.
type tsvWriter struct {
	w *tsv.Writer
}

func newTSVWriter(w io.Writer) *tsvWriter {
	t := &tsvWriter{w: tsv.NewWriter(w)}
	for _, col := range []string{"QUERY", "QUERY_START", "QUERY_END", "REF_START", "REF_END", "STRAND"} {
		t.w.WriteString(col)
	}
	t.w.EndLine()
	return t
}

func (t *tsvWriter) Write(r tiled) error {
	for _, p := range tiling.Placements(r.result.Segments) {
		t.w.WriteString(r.query.name)
		t.w.WriteUint32(uint32(p.QueryStart))
		t.w.WriteUint32(uint32(p.QueryEnd))
		t.w.WriteUint32(uint32(p.Start))
		t.w.WriteUint32(uint32(p.End))
		strand := byte('+')
		if p.Reverse {
			strand = '-'
		}
		t.w.WriteByte(strand)
		if err := t.w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

func (t *tsvWriter) Flush() error { return t.w.Flush() }
