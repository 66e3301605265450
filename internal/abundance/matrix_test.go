// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abundance

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kortschak/krakentools/internal/report"
	"github.com/kortschak/krakentools/internal/taxrank"
)

func TestBuildTwoReports(t *testing.T) {
	// Scenario 5 of spec.md §8.
	report1 := "" +
		"100.00\t12\t0\tR\t1\troot\n" +
		"41.67\t5\t0\tS\t3\t  E.coli\n" +
		"16.67\t2\t2\tS\t4\t  B.subtilis\n"
	report2 := "" +
		"100.00\t7\t0\tR\t1\troot\n" +
		"100.00\t7\t7\tS\t5\t  S.aureus\n"

	t1, err := report.Parse(strings.NewReader(report1), "r1")
	if err != nil {
		t.Fatalf("parse r1: %v", err)
	}
	t2, err := report.Parse(strings.NewReader(report2), "r2")
	if err != nil {
		t.Fatalf("parse r2: %v", err)
	}

	rank, err := taxrank.Parse([]byte("S"))
	if err != nil {
		t.Fatalf("taxrank.Parse: %v", err)
	}

	m := Build([]*report.Tree{t1, t2}, []string{"r1", "r2"}, rank, Covered, 0, false)

	var buf bytes.Buffer
	if err := m.WriteTSV(&buf); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}

	got := buf.String()
	wantRows := []string{"B.subtilis\t2\t0", "E.coli\t5\t0", "S.aureus\t0\t7"}
	for _, want := range wantRows {
		if !strings.Contains(got, want) {
			t.Errorf("output missing row %q:\n%s", want, got)
		}
	}

	idxB := strings.Index(got, "B.subtilis")
	idxE := strings.Index(got, "E.coli")
	idxS := strings.Index(got, "S.aureus")
	if !(idxB < idxE && idxE < idxS) {
		t.Errorf("rows not in lexicographic order: %s", got)
	}
}

func TestMinAbundanceDropsRow(t *testing.T) {
	report1 := "100.00\t12\t0\tR\t1\troot\n5.00\t1\t1\tS\t3\t  Rare\n"
	t1, err := report.Parse(strings.NewReader(report1), "r1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rank, _ := taxrank.Parse([]byte("S"))
	m := Build([]*report.Tree{t1}, []string{"r1"}, rank, Covered, 2, false)
	var buf bytes.Buffer
	m.WriteTSV(&buf)
	if strings.Contains(buf.String(), "Rare") {
		t.Fatalf("min-abundance filter did not drop row below threshold:\n%s", buf.String())
	}
}
