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

/*
Given an assembly FASTA and a stream of read-to-contig alignments,
bio-consensus re-derives each contig as the per-position majority vote of the
reads covering it. It reports, per contig, an agreement ratio between the
winning and runner-up bases, and drops contigs whose agreement falls below a
threshold. Colour-space (SOLiD) assemblies are supported and are converted to
nucleotide space by default.

The alignment stream is whitespace-delimited text, one read per line:

	<read ID> [anchor base] <read sequence> {<contig ID> <contig start> <read start> <align length> <read length> <is RC>}...

with the anchor base present exactly when the assembly is colour space. This
is the record format emitted by the KAligner tool.

An optional pileup output reports the per-position read support that each
call was derived from, one TSV line per position.

Sample usage:
bio-consensus \
    --out consensus.fa \
    --pileup pileup.tsv.gz \
    --alns reads.kalign.gz \
    contigs.fa
*/
package main
