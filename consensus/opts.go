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

// Opts is the set of run options. An Opts value is fixed before the run
// starts and is shared read-only by every stage.
type Opts struct {
	// Out is the consensus FASTA output path. "" disables consensus output.
	// A .gz suffix selects gzip compression.
	Out string
	// Pileup is the positional evidence TSV output path. "" disables pileup
	// output; "-" writes to stdout. A .gz suffix selects BGZF compression.
	Pileup string
	// Alns is the alignment input path. "-" or "" reads from stdin.
	Alns string
	// OutputColor keeps colour-space contigs in colour space instead of
	// decoding the consensus to nucleotides.
	OutputColor bool
	// Variants restricts the pileup to positions whose call differs from
	// the reference base.
	Variants bool
	// MinAgreement is the contig-wide agreement ratio below which a contig
	// is treated as low-confidence.
	MinAgreement float64
	// Verbose >= 1 logs per-contig warnings; >= 2 also dumps per-position
	// calls and counts to stdout.
	Verbose int
}

// DefaultOpts defines the default values for the run options.
var DefaultOpts = Opts{
	Alns:         "-",
	MinAgreement: 0.9,
}

// Mode is the sequence encoding of a run, fixed once the contigs are loaded.
type Mode struct {
	// ColorSpace reports that the contigs and reads are SOLiD colour space.
	ColorSpace bool
	// ColorToNT reports that colour-space input is decoded to nucleotides
	// on output. Set exactly when ColorSpace is set and OutputColor is not.
	ColorToNT bool
}
