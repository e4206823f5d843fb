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

	"github.com/grailbio/base/log"
	"github.com/grailbio/bio-consensus/encoding/fasta"
	"github.com/grailbio/bio-consensus/seq"
)

// refBase returns the reference byte under position x. In conversion mode
// the counts run one slot past the reference sequence; the extra slot reads
// as 'N'.
func refBase(ctg *Contig, x int) byte {
	if x < len(ctg.Seq) {
		return ctg.Seq[x]
	}
	return 'N'
}

// processContig calls every position of ctg, writes the per-position pileup
// lines, and decides whether the called sequence is emitted.
//
// A contig with no canonical call at any position is dropped. Otherwise the
// contig-wide agreement ratio sumBest/(sumBest+sumSecond) gates emission:
// below opts.MinAgreement a nucleotide contig is dropped, while a contig
// being converted from colour space is still emitted after a warning, since
// conversion legitimately produces locally low agreement. Calls mirror the
// case of the reference base. The pileup always receives the uppercase call.
func processContig(ctg *Contig, mode Mode, opts *Opts, out *fasta.Writer, pw *pileupWriter, dump io.Writer, stats *Stats) error {
	called := make([]byte, len(ctg.Counts))
	var sumBest, sumSecond uint64
	for x := range ctg.Counts {
		call, best, second := ctg.Counts[x].Call()
		sumBest += uint64(best)
		sumSecond += uint64(second)
		ref := refBase(ctg, x)
		if pw != nil {
			if err := pw.writePos(ctg.ID, x, ref, call, &ctg.Counts[x]); err != nil {
				return err
			}
		}
		if 'a' <= ref && ref <= 'z' {
			call += 'a' - 'A'
		}
		called[x] = call
	}

	supported := false
	for _, b := range called {
		if isCanonical(b) {
			supported = true
			break
		}
	}
	if !supported {
		stats.ContigsUnsupported++
		if opts.Verbose >= 1 {
			log.Error.Printf("contig %s was not supported by a complete read and was omitted", ctg.ID)
		}
		return nil
	}

	denom := sumBest + sumSecond
	lowAgreement := denom == 0
	if !lowAgreement {
		lowAgreement = float64(sumBest)/float64(denom) < opts.MinAgreement
	}
	if lowAgreement {
		stats.ContigsLowAgreement++
		if !mode.ColorToNT {
			return nil
		}
		if opts.Verbose >= 1 {
			log.Error.Printf("contig %s has less than %.0f%% agreement", ctg.ID, 100*opts.MinAgreement)
		}
	}

	if out != nil {
		final := called
		if mode.ColorToNT {
			final = repairColors(append([]byte(nil), called...), ctg.Seq)
		}
		comment := fmt.Sprintf("%d %d", len(final), ctg.Coverage)
		if ctg.Comment != "" {
			comment += " " + ctg.Comment
		}
		rec := fasta.Record{ID: strconv.Itoa(ctg.Serial), Comment: comment, Seq: string(final)}
		if err := out.Write(rec); err != nil {
			return err
		}
		stats.ContigsWritten++
	}

	if dump != nil {
		// A pileup on stdout shares the stream with the dump; pushing its
		// buffered rows out first keeps the two in per-contig order.
		if pw != nil {
			if err := pw.flush(); err != nil {
				return err
			}
		}
		// <serial> <length> <pos> <call> <reference> <A> <C> <G> <T>
		if mode.ColorToNT {
			for i := 0; i+1 < len(called); i++ {
				c := &ctg.Counts[i]
				if _, err := fmt.Fprintf(dump, "%d %d %d %c %c %d %d %d %d\n",
					ctg.Serial, len(called), i, seq.BaseToColor(called[i], called[i+1]),
					refBase(ctg, i), c[0], c[1], c[2], c[3]); err != nil {
					return err
				}
			}
		} else {
			for i := range called {
				c := &ctg.Counts[i]
				if _, err := fmt.Fprintf(dump, "%d %d %d %c %c %d %d %d %d\n",
					ctg.Serial, len(called), i, called[i],
					refBase(ctg, i), c[0], c[1], c[2], c[3]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
