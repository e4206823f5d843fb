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
package main

/*
bio-consensus rebuilds each contig of an assembly from the reads aligned to
it, calling the majority base at every position.
*/

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio-consensus/consensus"
)

var (
	outPath      = flag.String("out", consensus.DefaultOpts.Out, "Output consensus FASTA path; a .gz suffix compresses. This and/or -pileup required")
	pileupPath   = flag.String("pileup", consensus.DefaultOpts.Pileup, "Output pileup TSV path; '-' writes to stdout, a .gz suffix compresses. This and/or -out required")
	alnsPath     = flag.String("alns", consensus.DefaultOpts.Alns, "Input alignment path; '-' reads from stdin")
	outputColor  = flag.Bool("cs", consensus.DefaultOpts.OutputColor, "Keep a colour-space consensus in colour space instead of converting it to nucleotides")
	variants     = flag.Bool("variants", consensus.DefaultOpts.Variants, "Restrict the pileup to positions whose call differs from the reference")
	minAgreement = flag.Float64("min-agreement", consensus.DefaultOpts.MinAgreement, "Contig-wide agreement ratio below which a contig is treated as low-confidence")
	verbose      = flag.Int("verbose", consensus.DefaultOpts.Verbose, "Verbosity; 1 logs per-contig warnings, 2 also dumps per-position calls and counts to stdout")
)

func bioConsensusUsage() {
	fmt.Printf("Usage: %s [OPTIONS] fapath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioConsensusUsage
	shutdown := grail.Init()
	defer shutdown()

	args := flag.Args()
	if len(args) != 1 {
		if len(args) < 1 {
			log.Fatalf("Missing positional argument (contigs fapath required); please check flag syntax: '%s'", strings.Join(args, " "))
		} else {
			log.Fatalf("Too many positional arguments (only the contigs fapath expected); please check flag syntax: '%s'", strings.Join(args, " "))
		}
	}
	ctx := vcontext.Background()
	opts := consensus.Opts{
		Out:          *outPath,
		Pileup:       *pileupPath,
		Alns:         *alnsPath,
		OutputColor:  *outputColor,
		Variants:     *variants,
		MinAgreement: *minAgreement,
		Verbose:      *verbose,
	}
	if err := consensus.Run(ctx, args[0], &opts); err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}
