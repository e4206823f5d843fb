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
	"bytes"
	"testing"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestWritePos(t *testing.T) {
	tests := []struct {
		name     string
		variants bool
		pos      int
		ref      byte
		call     byte
		counts   BaseCount
		want     string
	}{
		{
			// A canonical reference lists non-reference bases in code order,
			// then one dot per supporting read.
			"canonical_ref", false, 4, 'C', 'A', BaseCount{2, 1, 0, 1},
			"k\t5\tC\tA\t25\t25\t25\t4\tAAT.\n",
		},
		{
			// Case folds for the evidence layout but not for the ref column.
			"lowercase_ref", false, 0, 'c', 'A', BaseCount{2, 1, 0, 1},
			"k\t1\tc\tA\t25\t25\t25\t4\tAAT.\n",
		},
		{
			"unknown_ref", false, 4, 'n', 'A', BaseCount{2, 1, 0, 1},
			"k\t5\tn\tA\t25\t25\t25\t4\tAACT\n",
		},
		{
			"colour_ref", false, 2, '3', 'G', BaseCount{0, 1, 2, 0},
			"k\t3\t3\tG\t25\t25\t25\t3\tCGG\n",
		},
		{
			"no_coverage", false, 0, 'A', 'N', BaseCount{},
			"k\t1\tA\tN\t25\t25\t25\t0\t\n",
		},
		{
			"variants_suppresses_match", true, 0, 'a', 'A', BaseCount{3, 0, 0, 0},
			"",
		},
		{
			"variants_keeps_mismatch", true, 0, 'A', 'G', BaseCount{0, 0, 3, 0},
			"k\t1\tA\tG\t25\t25\t25\t3\tGGG\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			pw := &pileupWriter{w: tsv.NewWriter(&buf), variants: tt.variants}
			assert.NoError(t, pw.writePos("k", tt.pos, tt.ref, tt.call, &tt.counts))
			assert.NoError(t, pw.flush())
			expect.EQ(t, buf.String(), tt.want)
		})
	}
}
