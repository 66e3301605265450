// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gendata backs the generate-test-data verb (spec.md §6). It is
// explicitly out of scope for correctness — spec.md §1 lists synthetic
// test-data generation as a peripheral concern — but its output must be
// syntactically valid input to internal/report, internal/kraklog and
// internal/extract so the other three verbs can be exercised end to end
// without a real Kraken2 run.
package gendata

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/hts/fai"

	"github.com/kortschak/krakentools/internal/taxrank"
)

// ranks cycles through spec.md §3's closed rank alphabet by depth, root
// first, matching the coarse-to-fine ordering Kraken2 reports use.
var ranks = []byte{taxrank.Root, taxrank.Domain, taxrank.Kingdom, taxrank.Phylum, taxrank.Class, taxrank.Order, taxrank.Family, taxrank.Genus, taxrank.Species}

// Report writes n syntactically valid report lines to w: a random walk
// over depths that starts at a root and may return to depth 0 to start
// further roots, each line's rank taken from its depth in spec.md §3's
// rank alphabet. Counts are drawn at random per line, so a node's
// reads_covered is not guaranteed to cover the sum of its children's.
func Report(w io.Writer, n int, maxDepth int, seed int64) error {
	if n < 1 {
		n = 1
	}
	if maxDepth < 1 || maxDepth > len(ranks)-1 {
		maxDepth = len(ranks) - 1
	}
	rng := rand.New(rand.NewSource(seed))

	type node struct {
		depth    int
		covered  uint64
		assigned uint64
	}
	stack := []node{{depth: -1}}

	for i := 1; i <= n; i++ {
		depth := stack[len(stack)-1].depth + 1
		if depth > maxDepth || (depth > 0 && rng.Intn(3) == 0) {
			depth = rng.Intn(min(len(stack), maxDepth+1))
		}
		for len(stack) > depth+1 {
			stack = stack[:len(stack)-1]
		}

		assigned := uint64(rng.Intn(1000))
		covered := assigned + uint64(rng.Intn(5000))
		rank := ranks[min(depth, len(ranks)-1)]

		pct := 100.0
		if i > 1 {
			pct = 100 * rng.Float64()
		}
		if _, err := fmt.Fprintf(w, "%.2f\t%d\t%d\t%c\t%d\t%*s%s\n",
			pct, covered, assigned, rank, i, 2*depth, "", randomName(rng, i)); err != nil {
			return err
		}

		stack = append(stack, node{depth: depth, covered: covered, assigned: assigned})
	}
	return nil
}

func randomName(rng *rand.Rand, i int) string {
	genus := []string{"Escherichia", "Bacillus", "Staphylococcus", "Pseudomonas", "Clostridium"}
	species := []string{"coli", "subtilis", "aureus", "aeruginosa", "difficile"}
	return fmt.Sprintf("%s %s_%d", genus[rng.Intn(len(genus))], species[rng.Intn(len(species))], i)
}

// Sequences writes n synthetic sequences in fasta (format=="fasta") or
// fastq (format=="fastq") to seqW and a matching Kraken2-style log to
// logW, assigning each sequence a random taxon id from taxa. FASTA records
// are built as a biogo linear.Seq and formatted with the "%60a" verb,
// exactly as the teacher's fragment.go and main.go emit sequences; biogo
// has no FASTQ writer in this lineage, so FASTQ records are written in the
// same direct byte-format style internal/extract already parses.
func Sequences(seqW io.Writer, logW io.Writer, n int, format string, taxa []uint32, seed int64) error {
	if n < 1 {
		n = 1
	}
	if len(taxa) == 0 {
		taxa = []uint32{0}
	}
	rng := rand.New(rand.NewSource(seed))

	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("seq%d", i)
		length := 50 + rng.Intn(200)
		letters := randomDNA(rng, length)
		tid := taxa[rng.Intn(len(taxa))]

		switch format {
		case "fastq":
			if _, err := fmt.Fprintf(seqW, "@%s\n%s\n+\n%s\n", id, string(letters), qualString(len(letters))); err != nil {
				return err
			}
		default:
			s := linear.NewSeq(id, alphabet.BytesToLetters(letters), alphabet.DNA)
			if _, err := fmt.Fprintf(seqW, "%60a\n", s); err != nil {
				return err
			}
		}

		classified := "C"
		if tid == 0 {
			classified = "U"
		}
		if _, err := fmt.Fprintf(logW, "%s\t%s\t%d\t%d\tkmer\n", classified, id, tid, length); err != nil {
			return err
		}
	}
	return nil
}

// Verify confirms that the FASTA file at path is well-formed enough for
// biogo/hts/fai to index, the same check the teacher performs on its query
// genome (cmd/ins/main.go) before any random-access extraction against it.
// generate-test-data does not call it.
func Verify(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fai.NewIndex(f)
	return err
}

func randomDNA(rng *rand.Rand, n int) []byte {
	const bases = "ACGT"
	out := make([]byte, n)
	for i := range out {
		out[i] = bases[rng.Intn(len(bases))]
	}
	return out
}

func qualString(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = 'I'
	}
	return string(out)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
