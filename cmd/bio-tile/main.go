// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

// bio-tile splits DNA queries into the fewest pieces that occur verbatim in a
// reference, on either strand.
//
// Example 1: the reference and the query on two lines of one file.
//
//    bio-tile tile pair.txt
//
// Example 2: one reference, many queries, tab-separated output.
//
//    bio-tile tile -ref=ref.fa -query=queries.fa.gz -format=tsv -output=out.tsv.gz
//
// Example 3: index statistics only.
//
//    bio-tile stats -ref=ref.fa

import (
	"flag"
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqtile/tiling"
	"v.io/x/lib/cmdline"
)

func registerOptsFlags(fs *flag.FlagSet, opts *tiling.Opts) {
	*opts = tiling.DefaultOpts
	fs.BoolVar(&opts.ReverseComplement, "revcomp", tiling.DefaultOpts.ReverseComplement,
		"Also match the reverse complement of the reference.")
	fs.BoolVar(&opts.VerifyMatches, "verify", tiling.DefaultOpts.VerifyMatches,
		`Compare bases on every index hit instead of trusting hash equality.
Hits that fail the comparison (hash collisions) are ignored.`)
	fs.IntVar(&opts.Parallelism, "parallelism", tiling.DefaultOpts.Parallelism,
		"Number of goroutines used to build the index. 0 means the number of CPUs.")
}

const inputHelp = `The input holds the reference followed by one or more queries, either one
sequence per line or as FASTA records. If no path is given, or the path is "-",
the input is read from stdin. -ref and -query may be used instead to read the
reference and the queries from separate files. Compressed files (e.g., .gz)
are decompressed based on their suffix.`

func newCmdTile() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "tile",
		Short:    "Tile queries with the fewest reference substrings",
		ArgsName: "[input]",
		Long: `
Tile splits each query into the fewest contiguous pieces that each occur in the
reference, forward or (with -revcomp) as a reverse complement. Each piece is
printed as "[start, end] reverse=yes|no", where [start, end] is a 0-based,
closed interval of the reference. Single-base forward pieces are printed as
ref[start]="X".

` + inputHelp,
	}
	flags := tileFlags{}
	cmd.Flags.StringVar(&flags.refPath, "ref", "", "File containing the reference sequence.")
	cmd.Flags.StringVar(&flags.queryPath, "query", "", "File containing the query sequences. Required if -ref is set.")
	cmd.Flags.StringVar(&flags.outputPath, "output", "", "Output path. Empty means stdout. A .gz suffix gzips the output.")
	cmd.Flags.StringVar(&flags.format, "format", "text", "Output format, either \"text\" or \"tsv\".")
	cmd.Flags.BoolVar(&flags.checksum, "checksum", false, "Log a checksum of the segments of every query.")
	registerOptsFlags(&cmd.Flags, &flags.opts)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) > 1 {
			return fmt.Errorf("tile takes at most one input path, but got %v", argv)
		}
		input := ""
		if len(argv) == 1 {
			input = argv[0]
		}
		return tile(vcontext.Background(), flags, input, env.Stdin, env.Stdout)
	})
	return cmd
}

func newCmdStats() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "stats",
		Short:    "Build the substring index of a reference and print its size",
		ArgsName: "[input]",
		Long: `
Stats builds the substring index for the reference and prints the number of
substrings hashed and the number of distinct entries kept, per strand. Only the
first sequence of the input is read.

` + inputHelp,
	}
	var (
		refPath string
		opts    tiling.Opts
	)
	cmd.Flags.StringVar(&refPath, "ref", "", "File containing the reference sequence.")
	registerOptsFlags(&cmd.Flags, &opts)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) > 1 {
			return fmt.Errorf("stats takes at most one input path, but got %v", argv)
		}
		input := refPath
		if len(argv) == 1 {
			if refPath != "" {
				return fmt.Errorf("stats takes either -ref or an input path, not both")
			}
			input = argv[0]
		}
		return stats(vcontext.Background(), input, opts, env.Stdin, env.Stdout)
	})
	return cmd
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-tile",
			Short:    "Exact tiling of DNA queries by reference substrings",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdTile(),
				newCmdStats(),
			},
		})
}
