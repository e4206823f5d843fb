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

// Stats represents high-level statistics collected during a run.
type Stats struct {
	// Contigs is the # of contigs loaded from the reference FASTA.
	Contigs int
	// Reads is the # of alignment records consumed from the input.
	Reads int
	// Alignments is the # of per-contig alignments carried by those records.
	Alignments int
	// SkippedAlignments is the # of alignments naming a contig that is not
	// present in the reference.
	SkippedAlignments int
	// UnanchoredReads is the # of colour-space reads dropped in conversion
	// mode because no alignment starts at read position zero.
	UnanchoredReads int
	// ContigsWritten is the # of contigs emitted to the consensus FASTA.
	ContigsWritten int
	// ContigsUnsupported is the # of contigs dropped because no position
	// received a canonical call.
	ContigsUnsupported int
	// ContigsLowAgreement is the # of contigs whose agreement fell below the
	// threshold.
	ContigsLowAgreement int
}
