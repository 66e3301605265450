// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/kortschak/krakentools/internal/errs"
	"github.com/kortschak/krakentools/internal/plan"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
		ok   bool
	}{
		{">a\nACGT\n", FASTA, true},
		{"@a\nACGT\n+\nIIII\n", FASTQ, true},
		{"garbage", 0, false},
	}
	for _, c := range cases {
		got, ok := DetectFormat([]byte(c.in))
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("DetectFormat(%q) = (%v,%v), want (%v,%v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestFASTAExtractInclude(t *testing.T) {
	// Scenario 3 of spec.md §8: headers a,b,c; log maps a->3, b->9, c->3;
	// T={3}; output contains a and c in that order, stats {3: 2}.
	fasta := ">a\nACGT\n>b\nTTTT\n>c\nGGGG\n"
	p := &plan.Plan{
		Include: map[string]struct{}{"a": {}, "c": {}},
		TaxonOf: map[string]uint32{"a": 3, "c": 3},
	}
	var out bytes.Buffer
	res, err := Run(context.Background(), []byte(fasta), &out, Options{Format: FASTA, Plan: p, Workers: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != ">a\nACGT\n>c\nGGGG\n" {
		t.Fatalf("output = %q", out.String())
	}
	if res.TotalExtracted != 2 || res.TotalInput != 3 {
		t.Fatalf("res = %+v", res)
	}
	if res.PerTaxon[3] != 2 {
		t.Fatalf("PerTaxon[3] = %d, want 2", res.PerTaxon[3])
	}
}

func TestUnorderedExtractWritesAllRecords(t *testing.T) {
	// --unordered (spec.md §5) may reorder chunk writes, but every matched
	// record must still appear exactly once.
	fasta := ">a\nACGT\n>b\nTTTT\n>c\nGGGG\n>d\nAAAA\n"
	p := &plan.Plan{
		Include: map[string]struct{}{"a": {}, "b": {}, "c": {}, "d": {}},
	}
	var out bytes.Buffer
	res, err := Run(context.Background(), []byte(fasta), &out, Options{Format: FASTA, Plan: p, Workers: 4, Unordered: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.TotalExtracted != 4 {
		t.Fatalf("TotalExtracted = %d, want 4", res.TotalExtracted)
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		if !strings.Contains(out.String(), ">"+id+"\n") {
			t.Fatalf("output missing record %q:\n%s", id, out.String())
		}
	}
}

func TestFASTQExtractExclude(t *testing.T) {
	// Scenario 4 of spec.md §8: r1..r4 with taxa {3,3,9,0}; T={3},
	// --exclude; output contains r3 and r4.
	rec := func(id string) string {
		return "@" + id + "\nACGT\n+\nIIII\n"
	}
	fastq := rec("r1") + rec("r2") + rec("r3") + rec("r4")
	p := &plan.Plan{
		Include: map[string]struct{}{"r3": {}, "r4": {}}, // pre-computed exclude set
	}
	var out bytes.Buffer
	res, err := Run(context.Background(), []byte(fastq), &out, Options{Format: FASTQ, Plan: p, Workers: 4})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := rec("r3") + rec("r4")
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
	if res.TotalExtracted != 2 {
		t.Fatalf("TotalExtracted = %d, want 2", res.TotalExtracted)
	}
}

func TestFASTQTruncatedRecord(t *testing.T) {
	// Scenario 6 of spec.md §8: final record missing its quality line.
	fastq := "@r1\nACGT\n+\nIIII\n@r2\nACGT\n+\n"
	p := &plan.Plan{Include: map[string]struct{}{}}
	var out bytes.Buffer
	_, err := Run(context.Background(), []byte(fastq), &out, Options{Format: FASTQ, Plan: p, Workers: 1})
	var trunc *errs.TruncatedRecord
	if !asTruncated(err, &trunc) {
		t.Fatalf("Run: want *errs.TruncatedRecord, got %v", err)
	}
	if trunc.Offset == 0 {
		t.Fatalf("TruncatedRecord.Offset should be non-zero")
	}
}

func asTruncated(err error, out **errs.TruncatedRecord) bool {
	if tr, ok := err.(*errs.TruncatedRecord); ok {
		*out = tr
		return true
	}
	return false
}

func TestChunkBoundsFASTQNoSplitInsideQuality(t *testing.T) {
	// A '@' appearing inside a quality string must not be treated as a
	// record boundary (spec.md §4.E, §9).
	rec1 := "@r1\nACGTACGTACGT\n+\n!!!!@!!!!!!!\n"
	rec2 := "@r2\nACGT\n+\nIIII\n"
	buf := []byte(rec1 + rec2)
	bounds := chunkBounds(buf, FASTQ, 8)
	for _, b := range bounds {
		if b != 0 && b != len(rec1) && b != len(buf) {
			t.Fatalf("unexpected chunk boundary %d in %v (rec1 len=%d)", b, bounds, len(rec1))
		}
	}
}

func TestPartitionSoundness(t *testing.T) {
	fasta := ">a\nACGT\n>b\nTTTT\n>c\nGGGG\n>d\nAAAA\n"
	taxonOf := map[string]uint32{"a": 3, "b": 9, "c": 3, "d": 0}
	include := map[string]struct{}{"a": {}, "c": {}}
	exclude := map[string]struct{}{"b": {}, "d": {}}

	var incOut, excOut bytes.Buffer
	_, err := Run(context.Background(), []byte(fasta), &incOut, Options{
		Format:  FASTA,
		Plan:    &plan.Plan{Include: include, TaxonOf: taxonOf},
		Workers: 3,
	})
	if err != nil {
		t.Fatalf("Run include: %v", err)
	}
	_, err = Run(context.Background(), []byte(fasta), &excOut, Options{
		Format:  FASTA,
		Plan:    &plan.Plan{Include: exclude, TaxonOf: taxonOf},
		Workers: 3,
	})
	if err != nil {
		t.Fatalf("Run exclude: %v", err)
	}

	for _, id := range []string{"a", "b", "c", "d"} {
		inInc := strings.Contains(incOut.String(), ">"+id+"\n")
		inExc := strings.Contains(excOut.String(), ">"+id+"\n")
		if inInc == inExc {
			t.Fatalf("record %q: emitted_in_include=%v emitted_in_exclude=%v, want exactly one", id, inInc, inExc)
		}
	}
}
