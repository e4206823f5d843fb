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
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/bio-consensus/seq"
)

// pileupWriter renders positional evidence lines. The columns are the
// contig ID, 1-based position, reference base, uppercase call, three fixed
// "25" quality placeholders, read depth, and the per-read evidence string.
type pileupWriter struct {
	w        *tsv.Writer
	variants bool
	evidence []byte // reused between lines
}

// writePos appends the line for 0-based position pos. With a canonical
// reference base the evidence lists the non-reference bases in code order
// and then one '.' per reference-supporting read; any other reference byte
// (including colour digits) lists all four bases. In variants mode, lines
// whose call matches the folded reference are dropped.
func (pw *pileupWriter) writePos(id string, pos int, ref, call byte, bc *BaseCount) error {
	foldRef := ref
	if 'a' <= foldRef && foldRef <= 'z' {
		foldRef -= 'a' - 'A'
	}
	if pw.variants && foldRef == call {
		return nil
	}
	pw.w.WriteString(id)
	pw.w.WriteUint32(uint32(pos + 1)) // 1-based in text output
	pw.w.WriteByte(ref)
	pw.w.WriteByte(call)
	pw.w.WriteString("25\t25\t25")
	pw.w.WriteUint32(bc.Sum())

	ev := pw.evidence[:0]
	if isCanonical(foldRef) {
		refCode, _ := seq.BaseToCode(foldRef)
		for code := uint8(0); code < seq.NBase; code++ {
			if code != refCode {
				ev = appendRepeat(ev, seq.CodeToBase(code), bc[code])
			}
		}
		ev = appendRepeat(ev, '.', bc[refCode])
	} else {
		for code := uint8(0); code < seq.NBase; code++ {
			ev = appendRepeat(ev, seq.CodeToBase(code), bc[code])
		}
	}
	pw.evidence = ev
	pw.w.WriteString(string(ev))
	return pw.w.EndLine()
}

func (pw *pileupWriter) flush() error {
	return pw.w.Flush()
}

func appendRepeat(b []byte, ch byte, n uint32) []byte {
	for ; n > 0; n-- {
		b = append(b, ch)
	}
	return b
}
