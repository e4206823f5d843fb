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

import "github.com/grailbio/bio-consensus/seq"

// repairColors resolves unknown calls in a decoded colour-space consensus.
// called holds the per-position calls (mutated in place); colors is the
// contig's colour sequence, where colour i-1 is the transition into
// position i.
//
// Leading and trailing unknown runs are trimmed away, then interior unknowns
// are decoded left to right from their resolved left neighbour, so each
// decoded base enables the next. A position whose colour cannot be decoded
// stays 'N'. Lowercase placeholders resolve to lowercase bases. The caller
// guarantees at least one canonical base, so the result is never empty.
func repairColors(called []byte, colors string) []byte {
	first, last := -1, -1
	for i, b := range called {
		if isCanonical(b) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	called = called[first : last+1]
	for i := 1; i < len(called); i++ {
		b := called[i]
		if b != 'N' && b != 'n' {
			continue
		}
		// The transition into trimmed position i sits at colors[first+i-1].
		dec := seq.ColorToBase(called[i-1], colors[first+i-1])
		if dec == 'N' {
			continue
		}
		if b == 'n' {
			dec += 'a' - 'A'
		}
		called[i] = dec
	}
	return called
}

func isCanonical(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		return true
	}
	return false
}
