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

	"github.com/grailbio/bio-consensus/encoding/aln"
	"github.com/grailbio/bio-consensus/seq"
)

// accumulator streams read alignments into the per-contig base counts.
// Counting is pure increments, so the final counts do not depend on the
// order of the input records.
type accumulator struct {
	store *Store
	mode  Mode
	stats *Stats
}

// addRead tallies every usable alignment of one read. Alignments to unknown
// contigs are skipped and counted. When decoding colour space, a read with
// no alignment starting at read offset zero has no anchor to decode from and
// is skipped whole; otherwise its colours must decode to nucleotides before
// tallying, so that no raw colour code is ever counted as a base. Errors are
// coordinate or symbol violations and end the run.
func (ac *accumulator) addRead(read *aln.Read) error {
	ac.stats.Reads++
	readSeq := read.Seq
	if ac.mode.ColorToNT {
		anchored := false
		for _, a := range read.Alns {
			if a.ReadStart == 0 {
				anchored = true
				break
			}
		}
		if !anchored {
			if len(read.Alns) > 0 {
				ac.stats.UnanchoredReads++
			}
			return nil
		}
		nt, ok := seq.DecodeColors(read.Anchor, readSeq)
		if !ok {
			return fmt.Errorf("consensus: read %s: colour sequence %q (anchor %q) cannot be decoded to nucleotides",
				read.ID, readSeq, read.Anchor)
		}
		readSeq = nt
	}
	for _, a := range read.Alns {
		ac.stats.Alignments++
		ctg := ac.store.Lookup(a.Contig)
		if ctg == nil {
			ac.stats.SkippedAlignments++
			continue
		}
		if err := ac.tally(ctg, readSeq, a, read.ID); err != nil {
			return err
		}
	}
	return nil
}

// tally adds one alignment's window of read symbols to the contig counts.
func (ac *accumulator) tally(ctg *Contig, readSeq string, a aln.Alignment, readID string) error {
	if a.RC {
		if ac.mode.ColorSpace && !ac.mode.ColorToNT {
			readSeq = seq.Reverse(readSeq)
		} else {
			readSeq = seq.ReverseComplement(readSeq)
		}
		a = a.Flip()
	}
	var rmin, rmax int
	if ac.mode.ColorToNT {
		// A decoded colour alignment covers one extra transition position.
		rmin = a.ReadStart
		rmax = a.ReadStart + a.Length + 1
	} else {
		rmin = max(0, a.ReadStart-a.ContigStart)
		rmax = min(a.ReadLength, a.ReadStart+len(ctg.Counts)-a.ContigStart)
	}
	if rmax <= rmin {
		return nil
	}
	off := a.ContigStart - a.ReadStart
	if rmin < 0 || rmax > len(readSeq) || off+rmin < 0 || off+rmax > len(ctg.Counts) {
		return fmt.Errorf("consensus: read %s: window [%d,%d) of alignment %+v lies outside the read or contig bounds",
			readID, rmin, rmax, a)
	}
	for x := rmin; x < rmax; x++ {
		code, ok := seq.BaseToCode(readSeq[x])
		if !ok {
			return fmt.Errorf("consensus: read %s: uncodable symbol %q at read offset %d", readID, readSeq[x], x)
		}
		ctg.Counts[off+x][code]++
	}
	return nil
}

func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func max(x, y int) int {
	if x > y {
		return x
	}
	return y
}
