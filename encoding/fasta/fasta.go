// Package fasta reads the sequences that bio-tile tiles. Two layouts are
// accepted. FASTA files consist of a number of named sequences that may be
// interrupted by newlines. For example:
//
// >ref
// ACGTAC
// GAGGAC
// >query1
// ACGT
//
// Sequence names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appear after a space are ignored.
// For example, '>chr1 A viral sequence' becomes 'chr1'.
//
// Files whose first non-blank line does not start with '>' are read as plain
// sequences, one per line, named "seq1", "seq2", and so on.
//
// In both layouts, leading and trailing whitespace (including '\r') is
// removed from every line, and blank lines are skipped.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const (
	maxLineSize = 1024 * 1024 * 300 // 300 MB
)

// Fasta represents a set of named sequences.
type Fasta interface {
	// Seq returns the whole sequence. Seq is thread-safe.
	Seq(seqName string) (string, error)

	// SeqNames returns the names of all sequences, in the order of appearance in
	// the input.
	SeqNames() []string
}

type fasta struct {
	seqs     map[string]string
	seqNames []string
}

func (f *fasta) add(seqName, seq string) error {
	if _, ok := f.seqs[seqName]; ok {
		return errors.Errorf("duplicate sequence name: %s", seqName)
	}
	f.seqs[seqName] = seq
	f.seqNames = append(f.seqNames, seqName)
	return nil
}

// New creates a new Fasta that holds all the data from the given reader in
// memory.
func New(r io.Reader) (Fasta, error) {
	f := &fasta{seqs: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineSize)
	var (
		seqName string
		seq     strings.Builder
		inFASTA bool // true once a '>' line has been seen first.
		started bool
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		if !started {
			started = true
			inFASTA = line[0] == '>'
		}
		if !inFASTA {
			if line[0] == '>' {
				return nil, errors.Errorf("malformed input: FASTA header %q after plain sequence lines", line)
			}
			if err := f.add(fmt.Sprintf("seq%d", len(f.seqNames)+1), line); err != nil {
				return nil, err
			}
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if seqName != "" {
				if err := f.add(seqName, seq.String()); err != nil {
					return nil, err
				}
				seq.Reset()
			}
			if seqName = strings.Split(line[1:], " ")[0]; seqName == "" {
				return nil, errors.Errorf("malformed FASTA file: empty sequence name")
			}
		} else {
			seq.WriteString(line)
		}
	}
	if scanner.Err() != nil {
		return nil, errors.Wrap(scanner.Err(), "couldn't read FASTA data")
	}
	if seqName != "" {
		if err := f.add(seqName, seq.String()); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Seq implements Fasta.Seq().
func (f *fasta) Seq(seqName string) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found: %s", seqName)
	}
	return s, nil
}

// SeqNames implements Fasta.SeqNames().
func (f *fasta) SeqNames() []string {
	return f.seqNames
}
