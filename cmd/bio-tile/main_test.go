// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqtile/tiling"
	"github.com/grailbio/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func defaultFlags() tileFlags {
	return tileFlags{format: "text", opts: tiling.DefaultOpts}
}

func runTile(t *testing.T, flags tileFlags, stdin string) (string, error) {
	var out bytes.Buffer
	err := tile(vcontext.Background(), flags, "", strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestTileText(t *testing.T) {
	tests := []struct {
		input   string
		revcomp bool
		want    string
	}{
		{"ATCG\nATCG\n", false, "[0, 3] reverse=no\n"},
		{"ATCG\nCGAT\n", true, "[0, 3] reverse=yes\n"},
		{"ATCG\nCGAT\n", false, "[2, 3] reverse=no\n[0, 1] reverse=no\n"},
		// Single bases print the reference base.
		{"ATCG\nGA\n", false, "ref[3]=\"G\"\nref[0]=\"A\"\n"},
		{"ATCG\nGA\n", true, "[1, 2] reverse=yes\n"},
		{"AA\nT\n", true, "ref[1]=\"A\" reverse=yes\n"},
		// Whitespace and blank lines are ignored.
		{"\n  ATCG \n\n\tATCG\n\n", false, "[0, 3] reverse=no\n"},
		{">chr\nAT\nCG\n>read\nATCG\n", false, "[0, 3] reverse=no\n"},
		// Lower-case (soft-masked) bases are upper-cased before tiling.
		{"atcg\ncgAT\n", true, "[0, 3] reverse=yes\n"},
	}
	for _, test := range tests {
		flags := defaultFlags()
		flags.opts.ReverseComplement = test.revcomp
		got, err := runTile(t, flags, test.input)
		require.NoError(t, err, "input %q", test.input)
		require.Equal(t, test.want, got, "input %q revcomp=%v", test.input, test.revcomp)
	}
}

func TestTileMultipleQueries(t *testing.T) {
	const input = ">ref\nATCG\n>q1\nCGAT\n>q2\nGA\n"
	got, err := runTile(t, defaultFlags(), input)
	require.NoError(t, err)
	require.Equal(t, ">q1\n[0, 3] reverse=yes\n>q2\n[1, 2] reverse=yes\n", got)

	flags := defaultFlags()
	flags.format = "tsv"
	got, err = runTile(t, flags, input)
	require.NoError(t, err)
	require.Equal(t, `QUERY	QUERY_START	QUERY_END	REF_START	REF_END	STRAND
q1	0	3	0	3	-
q2	0	1	1	2	-
`, got)
}

func TestTileErrors(t *testing.T) {
	_, err := runTile(t, defaultFlags(), "A\nN\n")
	require.True(t, tiling.IsInvalidSymbol(err), "%v", err)
	_, err = runTile(t, defaultFlags(), "N\nA\n")
	require.True(t, tiling.IsInvalidSymbol(err), "%v", err)

	flags := defaultFlags()
	flags.opts.ReverseComplement = false
	_, err = runTile(t, flags, "AT\nGG\n")
	require.True(t, tiling.IsNoCover(err), "%v", err)
	require.Contains(t, err.Error(), "seq2")

	// A reference without any query.
	_, err = runTile(t, defaultFlags(), "ACGT\n")
	require.Error(t, err)

	flags = defaultFlags()
	flags.format = "json"
	_, err = runTile(t, flags, "ACGT\nA\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown output format")

	flags = defaultFlags()
	flags.queryPath = "queries.fa"
	_, err = runTile(t, flags, "ACGT\nA\n")
	require.Error(t, err)
	require.False(t, tiling.IsInvalidSymbol(err), "%v", err)

	flags = defaultFlags()
	flags.refPath = "-"
	flags.queryPath = "-"
	_, err = runTile(t, flags, "ACGT\nA\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot both read stdin")

	// Only one of them reading stdin is fine.
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	queryPath := filepath.Join(tmpDir, "q.fa")
	writeFile(t, queryPath, ">q\nCGAT\n")
	flags = defaultFlags()
	flags.refPath = "-"
	flags.queryPath = queryPath
	got, err := runTile(t, flags, ">ref\nATCG\n")
	require.NoError(t, err)
	require.Equal(t, "[0, 3] reverse=yes\n", got)
}

func writeFile(t *testing.T, path, data string) {
	if !strings.HasSuffix(path, ".gz") {
		require.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
		return
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	w := gzip.NewWriter(f)
	_, err = w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func readGzipFile(t *testing.T, path string) string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestTileFiles(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()

	refPath := filepath.Join(tmpDir, "ref.fa")
	queryPath := filepath.Join(tmpDir, "queries.fa.gz")
	outPath := filepath.Join(tmpDir, "out.tsv.gz")
	writeFile(t, refPath, ">chr1\nAACC\nGGTT\n")
	writeFile(t, queryPath, ">a\nAACCGGTT\n>b\nCCGG\n>c\nGGTTAA\n")

	flags := defaultFlags()
	flags.refPath = refPath
	flags.queryPath = queryPath
	flags.outputPath = outPath
	flags.format = "tsv"
	flags.checksum = true
	var stdout bytes.Buffer
	require.NoError(t, tile(ctx, flags, "", strings.NewReader(""), &stdout))
	require.Equal(t, "", stdout.String())
	require.Equal(t, `QUERY	QUERY_START	QUERY_END	REF_START	REF_END	STRAND
a	0	7	0	7	+
b	0	3	2	5	+
c	0	3	4	7	+
c	4	5	0	1	+
`, readGzipFile(t, outPath))

	// The same input as one file, with the output in text format.
	inPath := filepath.Join(tmpDir, "in.txt.gz")
	writeFile(t, inPath, "AACCGGTT\nCCGG\n")
	textPath := filepath.Join(tmpDir, "out.txt")
	flags = defaultFlags()
	flags.outputPath = textPath
	require.NoError(t, tile(ctx, flags, inPath, strings.NewReader(""), &stdout))
	data, err := ioutil.ReadFile(textPath)
	require.NoError(t, err)
	require.Equal(t, "[2, 5] reverse=no\n", string(data))

	// A reference file must hold exactly one sequence.
	flags = defaultFlags()
	flags.refPath = queryPath
	flags.queryPath = queryPath
	require.Error(t, tile(ctx, flags, "", strings.NewReader(""), &stdout))

	flags = defaultFlags()
	flags.refPath = filepath.Join(tmpDir, "missing.fa")
	flags.queryPath = queryPath
	require.Error(t, tile(ctx, flags, "", strings.NewReader(""), &stdout))
}

func TestStats(t *testing.T) {
	var out bytes.Buffer
	opts := tiling.Opts{}
	require.NoError(t, stats(vcontext.Background(), "", opts, strings.NewReader(">r\nAAA\n"), &out))
	require.Equal(t, "reference\tr\nlength\t3\nsubstrings\t6\nentries\t3\nforward\t3\nreverse\t0\n", out.String())

	out.Reset()
	opts.ReverseComplement = true
	require.NoError(t, stats(vcontext.Background(), "", opts, strings.NewReader("AC\nA\n"), &out))
	require.Equal(t, "reference\tseq1\nlength\t2\nsubstrings\t6\nentries\t6\nforward\t3\nreverse\t3\n", out.String())

	require.Error(t, stats(vcontext.Background(), "", opts, strings.NewReader(""), &out))
}
