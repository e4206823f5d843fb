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
package consensus_test

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio-consensus/consensus"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

func writeFile(ctx context.Context, t *testing.T, path, data string) {
	out, err := file.Create(ctx, path)
	assert.NoError(t, err)
	_, err = out.Writer(ctx).Write([]byte(data))
	assert.NoError(t, err)
	assert.NoError(t, out.Close(ctx))
}

func TestRunNucleotide(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	fapath := filepath.Join(tmpdir, "contigs.fa")
	alnpath := filepath.Join(tmpdir, "reads.aln")
	writeFile(ctx, t, fapath, ">c0 4 11 extra\nACGT\n>c1 2 2\nAC\n")
	writeFile(ctx, t, alnpath, "r0 ACGT c0 0 0 4 4 0\nr1 A c1 0 0 1 1 0\n")

	opts := consensus.Opts{
		Out:          filepath.Join(tmpdir, "out.fa"),
		Pileup:       filepath.Join(tmpdir, "pileup.tsv"),
		Alns:         alnpath,
		MinAgreement: 0.9,
	}
	assert.NoError(t, consensus.Run(ctx, fapath, &opts))

	fa, err := ioutil.ReadFile(opts.Out)
	assert.NoError(t, err)
	// Contigs are renumbered by input order; c1's uncovered tail stays N.
	expect.EQ(t, string(fa), ">0 4 11 extra\nACGT\n>1 2 2\nAN\n")

	pileup, err := ioutil.ReadFile(opts.Pileup)
	assert.NoError(t, err)
	expect.EQ(t, string(pileup), ""+
		"c0\t1\tA\tA\t25\t25\t25\t1\t.\n"+
		"c0\t2\tC\tC\t25\t25\t25\t1\t.\n"+
		"c0\t3\tG\tG\t25\t25\t25\t1\t.\n"+
		"c0\t4\tT\tT\t25\t25\t25\t1\t.\n"+
		"c1\t1\tA\tA\t25\t25\t25\t1\t.\n"+
		"c1\t2\tC\tN\t25\t25\t25\t0\t\n")
}

func TestRunLowAgreementDiscarded(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	fapath := filepath.Join(tmpdir, "contigs.fa")
	alnpath := filepath.Join(tmpdir, "reads.aln")
	writeFile(ctx, t, fapath, ">c0 1 1\nA\n")
	var alns strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&alns, "a%d A c0 0 0 1 1 0\n", i)
	}
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&alns, "c%d C c0 0 0 1 1 0\n", i)
	}
	writeFile(ctx, t, alnpath, alns.String())

	opts := consensus.Opts{
		Out:          filepath.Join(tmpdir, "out.fa"),
		Pileup:       filepath.Join(tmpdir, "pileup.tsv"),
		Alns:         alnpath,
		MinAgreement: 0.9,
	}
	assert.NoError(t, consensus.Run(ctx, fapath, &opts))

	// 5/10 agreement drops the contig, but its pileup was already written.
	fa, err := ioutil.ReadFile(opts.Out)
	assert.NoError(t, err)
	expect.EQ(t, string(fa), "")
	pileup, err := ioutil.ReadFile(opts.Pileup)
	assert.NoError(t, err)
	expect.EQ(t, string(pileup), "c0\t1\tA\tA\t25\t25\t25\t10\tCCCCC.....\n")

	// A permissive threshold keeps the same contig, calling the tie as A.
	opts.Out = filepath.Join(tmpdir, "out2.fa")
	opts.Pileup = ""
	opts.MinAgreement = 0.4
	assert.NoError(t, consensus.Run(ctx, fapath, &opts))
	fa, err = ioutil.ReadFile(opts.Out)
	assert.NoError(t, err)
	expect.EQ(t, string(fa), ">0 1 1\nA\n")
}

func TestRunColorConversion(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	fapath := filepath.Join(tmpdir, "contigs.fa")
	alnpath := filepath.Join(tmpdir, "reads.aln")
	writeFile(ctx, t, fapath, ">c0 3 5\n012\n>c1 2 3\n10\n")
	// Colours 10 anchored on T decode to TGG, covering c1 and its
	// transition slot. c0 has no reads and is omitted.
	writeFile(ctx, t, alnpath, "r0 T 10 c1 0 0 2 2 0\n")

	opts := consensus.Opts{
		Out:          filepath.Join(tmpdir, "out.fa"),
		Alns:         alnpath,
		MinAgreement: 0.9,
	}
	assert.NoError(t, consensus.Run(ctx, fapath, &opts))

	fa, err := ioutil.ReadFile(opts.Out)
	assert.NoError(t, err)
	expect.EQ(t, string(fa), ">1 3 3\nTGG\n")
}

func TestRunVariantsOnly(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	fapath := filepath.Join(tmpdir, "contigs.fa")
	alnpath := filepath.Join(tmpdir, "reads.aln")
	writeFile(ctx, t, fapath, ">c0 2 1\nAC\n")
	writeFile(ctx, t, alnpath, "r0 AG c0 0 0 2 2 0\n")

	opts := consensus.Opts{
		Pileup:       filepath.Join(tmpdir, "pileup.tsv"),
		Alns:         alnpath,
		Variants:     true,
		MinAgreement: 0.9,
	}
	assert.NoError(t, consensus.Run(ctx, fapath, &opts))

	pileup, err := ioutil.ReadFile(opts.Pileup)
	assert.NoError(t, err)
	expect.EQ(t, string(pileup), "c0\t2\tC\tG\t25\t25\t25\t1\tG\n")
}

func TestRunStdoutPileupDumpOrder(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	fapath := filepath.Join(tmpdir, "contigs.fa")
	alnpath := filepath.Join(tmpdir, "reads.aln")
	writeFile(ctx, t, fapath, ">c0 2 1\nAC\n>c1 1 1\nG\n")
	writeFile(ctx, t, alnpath, "r0 AC c0 0 0 2 2 0\nr1 G c1 0 0 1 1 0\n")

	oldStdout := os.Stdout
	defer func() { os.Stdout = oldStdout }()
	r, w, err := os.Pipe()
	assert.NoError(t, err)
	os.Stdout = w

	opts := consensus.Opts{
		Pileup:       "-",
		Alns:         alnpath,
		MinAgreement: 0.9,
		Verbose:      2,
	}
	runErr := consensus.Run(ctx, fapath, &opts)
	os.Stdout = oldStdout
	assert.NoError(t, w.Close())
	assert.NoError(t, runErr)
	data, err := ioutil.ReadAll(r)
	assert.NoError(t, err)

	// The pileup rows (tab separated) and the dump lines (space separated)
	// share stdout; each contig's rows land before its dump lines.
	expect.EQ(t, string(data), ""+
		"c0\t1\tA\tA\t25\t25\t25\t1\t.\n"+
		"c0\t2\tC\tC\t25\t25\t25\t1\t.\n"+
		"0 2 0 A A 1 0 0 0\n"+
		"0 2 1 C C 0 1 0 0\n"+
		"c1\t1\tG\tG\t25\t25\t25\t1\t.\n"+
		"1 1 0 G G 0 0 1 0\n")
}

func TestRunGzipConsensus(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	fapath := filepath.Join(tmpdir, "contigs.fa")
	alnpath := filepath.Join(tmpdir, "reads.aln")
	writeFile(ctx, t, fapath, ">c0 4 11\nACGT\n")
	writeFile(ctx, t, alnpath, "r0 ACGT c0 0 0 4 4 0\n")

	opts := consensus.Opts{
		Out:          filepath.Join(tmpdir, "out.fa.gz"),
		Alns:         alnpath,
		MinAgreement: 0.9,
	}
	assert.NoError(t, consensus.Run(ctx, fapath, &opts))

	raw, err := ioutil.ReadFile(opts.Out)
	assert.NoError(t, err)
	gz, err := gzip.NewReader(bytes.NewReader(raw))
	assert.NoError(t, err)
	data, err := ioutil.ReadAll(gz)
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	expect.EQ(t, string(data), ">0 4 11\nACGT\n")
}

func TestRunNoOutputs(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()

	fapath := filepath.Join(tmpdir, "contigs.fa")
	writeFile(ctx, t, fapath, ">c0 2 1\nAC\n")

	err := consensus.Run(ctx, fapath, &consensus.Opts{Alns: "-", MinAgreement: 0.9})
	assert.NotNil(t, err)
	assert.HasSubstr(t, err.Error(), "neither a consensus output nor a pileup output")
}
