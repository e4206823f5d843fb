// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package consensus

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/bio-consensus/encoding/fasta"
	"github.com/grailbio/bio-consensus/seq"
)

// A BaseCount tallies read support at one contig position, indexed by 2-bit
// base code. uint32 counts keep the per-contig arrays compact.
type BaseCount [seq.NBase]uint32

// Sum returns the total read support at this position.
func (bc *BaseCount) Sum() uint32 {
	return bc[0] + bc[1] + bc[2] + bc[3]
}

// Call returns the consensus base at this position as an uppercase ASCII
// character, or 'N' when no reads cover it. best is the winning count and
// second the runner-up. A tie keeps the lowest base code, so calls are
// deterministic.
func (bc *BaseCount) Call() (call byte, best, second uint32) {
	bestCode := -1
	for code, n := range bc {
		if n > best {
			bestCode = code
			best, second = n, best
		} else if n > second {
			second = n
		}
	}
	if bestCode < 0 {
		return 'N', 0, 0
	}
	return seq.CodeToBase(uint8(bestCode)), best, second
}

// A Contig is one reference sequence together with its accumulated
// positional support.
type Contig struct {
	// ID is the FASTA identifier.
	ID string
	// Serial is the 0-based position of the contig in input order.
	// Consensus headers and the verbose dump key contigs by serial.
	Serial int
	// Seq is the reference sequence, case preserved.
	Seq string
	// Coverage is the coverage figure from the FASTA comment, 0 when absent.
	Coverage int
	// Comment is the free text following the length and coverage figures.
	Comment string
	// Counts holds one BaseCount per consensus position: len(Seq) entries,
	// plus a trailing transition slot when decoding colour space.
	Counts []BaseCount
}

// A Store holds the loaded contigs, preserving input order.
type Store struct {
	mode    Mode
	order   []*Contig
	contigs map[string]*Contig
}

// Mode returns the encoding of the loaded contigs.
func (s *Store) Mode() Mode { return s.mode }

// Len returns the number of contigs.
func (s *Store) Len() int { return len(s.order) }

// Contigs returns the contigs in input order.
func (s *Store) Contigs() []*Contig { return s.order }

// Lookup returns the contig with the given ID, or nil when there is none.
func (s *Store) Lookup(id string) *Contig { return s.contigs[id] }

// Load reads every contig from r. The first record decides the encoding of
// the whole run: a sequence starting with a digit marks the input as colour
// space, which is decoded back to nucleotides on output unless outputColor
// keeps it. Loading fails on empty input, mixed encodings, duplicate contig
// IDs, and on outputColor with nucleotide input, which cannot be converted.
func Load(r io.Reader, outputColor bool) (*Store, error) {
	s := &Store{contigs: make(map[string]*Contig)}
	sc := fasta.NewScanner(r)
	var rec fasta.Record
	for sc.Scan(&rec) {
		if len(s.order) == 0 {
			colorSpace := startsWithDigit(rec.Seq)
			if outputColor && !colorSpace {
				return nil, fmt.Errorf("consensus.Load: cannot convert nucleotide data to colour space")
			}
			s.mode = Mode{ColorSpace: colorSpace, ColorToNT: colorSpace && !outputColor}
		} else if !encodingConsistent(rec.Seq, s.mode.ColorSpace) {
			return nil, fmt.Errorf("consensus.Load: contig %s does not match the %s encoding of the first contig",
				rec.ID, s.mode.encoding())
		}
		if _, ok := s.contigs[rec.ID]; ok {
			return nil, fmt.Errorf("consensus.Load: duplicate contig ID %s", rec.ID)
		}
		numBases := len(rec.Seq)
		if s.mode.ColorToNT {
			// Decoding yields one more nucleotide than there are colours.
			numBases++
		}
		coverage, comment := parseComment(rec.Comment)
		ctg := &Contig{
			ID:       rec.ID,
			Serial:   len(s.order),
			Seq:      rec.Seq,
			Coverage: coverage,
			Comment:  comment,
			Counts:   make([]BaseCount, numBases),
		}
		s.order = append(s.order, ctg)
		s.contigs[rec.ID] = ctg
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(s.order) == 0 {
		return nil, fmt.Errorf("consensus.Load: no contigs")
	}
	return s, nil
}

func (m Mode) encoding() string {
	if m.ColorSpace {
		return "colour-space"
	}
	return "nucleotide"
}

func startsWithDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

func startsWithLetter(s string) bool {
	return len(s) > 0 && ('A' <= s[0] && s[0] <= 'Z' || 'a' <= s[0] && s[0] <= 'z')
}

// encodingConsistent reports whether a later contig's leading symbol has the
// character class of the encoding detected on the first: a digit for colour
// space, a letter for nucleotides.
func encodingConsistent(s string, colorSpace bool) bool {
	if colorSpace {
		return startsWithDigit(s)
	}
	return startsWithLetter(s)
}

// parseComment extracts the coverage figure and trailing free text from a
// contig header comment of the form "<length> <coverage> [text]". The
// leading length figure is redundant with the sequence itself and is
// skipped. A comment that does not lead with the two figures yields
// coverage 0 and no text.
func parseComment(comment string) (coverage int, text string) {
	tok, rest := splitToken(comment)
	if _, err := strconv.Atoi(tok); err != nil {
		return 0, ""
	}
	tok, rest = splitToken(rest)
	coverage, err := strconv.Atoi(tok)
	if err != nil {
		return 0, ""
	}
	return coverage, strings.TrimLeft(rest, " \t")
}

func splitToken(s string) (tok, rest string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}
