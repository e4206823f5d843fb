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
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/bio-consensus/encoding/aln"
	"github.com/grailbio/bio-consensus/encoding/fasta"
	"github.com/grailbio/hts/bgzf"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// loadContigs reads the contig FASTA at path, transparently decompressing.
func loadContigs(ctx context.Context, path string, outputColor bool) (store *Store, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	reader, _ := compress.NewReader(in.Reader(ctx))
	defer func() {
		if e := reader.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return Load(reader, outputColor)
}

// Run loads the contigs at contigsPath, accumulates the alignment stream
// named by opts.Alns, and writes the consensus and pileup outputs selected
// by opts. At least one output must be requested.
func Run(ctx context.Context, contigsPath string, opts *Opts) (err error) {
	if opts.Out == "" && opts.Pileup == "" {
		return fmt.Errorf("consensus: neither a consensus output nor a pileup output was requested")
	}
	store, err := loadContigs(ctx, contigsPath, opts.OutputColor)
	if err != nil {
		return err
	}
	log.Printf("Read %d contigs from %s", store.Len(), contigsPath)

	var alnsIn io.Reader = os.Stdin
	if opts.Alns != "" && opts.Alns != "-" {
		var in file.File
		if in, err = file.Open(ctx, opts.Alns); err != nil {
			return err
		}
		defer func() {
			if e := in.Close(ctx); e != nil && err == nil {
				err = e
			}
		}()
		reader, _ := compress.NewReader(in.Reader(ctx))
		defer func() {
			if e := reader.Close(); e != nil && err == nil {
				err = e
			}
		}()
		alnsIn = reader
	}

	var out *fasta.Writer
	if opts.Out != "" {
		var dst file.File
		if dst, err = file.Create(ctx, opts.Out); err != nil {
			return err
		}
		defer file.CloseAndReport(ctx, dst, &err)
		w := io.Writer(dst.Writer(ctx))
		if strings.HasSuffix(opts.Out, ".gz") {
			gz := gzip.NewWriter(w)
			defer func() {
				if e := gz.Close(); e != nil && err == nil {
					err = e
				}
			}()
			w = gz
		}
		out = fasta.NewWriter(w)
	}

	var pw *pileupWriter
	if opts.Pileup != "" {
		w := io.Writer(os.Stdout)
		if opts.Pileup != "-" {
			var dst file.File
			if dst, err = file.Create(ctx, opts.Pileup); err != nil {
				return err
			}
			defer file.CloseAndReport(ctx, dst, &err)
			w = dst.Writer(ctx)
			if strings.HasSuffix(opts.Pileup, ".gz") {
				bw := bgzf.NewWriter(w, 1)
				defer func() {
					if e := bw.Close(); e != nil && err == nil {
						err = e
					}
				}()
				w = bw
			}
		}
		pw = &pileupWriter{w: tsv.NewWriter(w), variants: opts.Variants}
	}

	stats := Stats{Contigs: store.Len()}
	ac := &accumulator{store: store, mode: store.Mode(), stats: &stats}
	sc := aln.NewScanner(alnsIn, store.Mode().ColorSpace)
	var read aln.Read
	for sc.Scan(&read) {
		if err = ac.addRead(&read); err != nil {
			return err
		}
	}
	if e := sc.Err(); e != nil {
		return errors.Wrapf(e, "consensus: alignment input failed after %d reads", stats.Reads)
	}

	var dump io.Writer
	if opts.Verbose >= 2 {
		dump = os.Stdout
	}
	for _, ctg := range store.Contigs() {
		if err = processContig(ctg, store.Mode(), opts, out, pw, dump, &stats); err != nil {
			return err
		}
	}
	// The buffered writers flush before the deferred closers run.
	if out != nil {
		if err = out.Flush(); err != nil {
			return err
		}
	}
	if pw != nil {
		if err = pw.flush(); err != nil {
			return err
		}
	}
	log.Printf("Stats: %+v", stats)
	return nil
}
