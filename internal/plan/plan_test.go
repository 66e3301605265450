// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"strings"
	"testing"

	"github.com/kortschak/krakentools/internal/resolve"
)

const fixtureLog = "" +
	"C\ta\t3\t100\tk-mer-a\n" +
	"U\tb\t9\t100\tk-mer-b\n" +
	"C\tc\t3\t100\tk-mer-c\n"

func TestBuildInclude(t *testing.T) {
	p, err := Build(strings.NewReader(fixtureLog), "fixture", resolve.NewSet(3), Include, true)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !p.Contains("a") || !p.Contains("c") || p.Contains("b") {
		t.Fatalf("Include set = %v, want {a,c}", p.Include)
	}
	if p.TaxonOf["a"] != 3 || p.TaxonOf["c"] != 3 {
		t.Fatalf("TaxonOf = %v", p.TaxonOf)
	}
}

func TestBuildExclude(t *testing.T) {
	p, err := Build(strings.NewReader(fixtureLog), "fixture", resolve.NewSet(3), Exclude, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Contains("a") || p.Contains("c") || !p.Contains("b") {
		t.Fatalf("Exclude set = %v, want {b}", p.Include)
	}
	if p.TaxonOf != nil {
		t.Fatalf("TaxonOf should be nil when stats are not requested")
	}
}

func TestBuildExcludeUnknownTaxonIncluded(t *testing.T) {
	// Unknown ids (absent from the resolved set T) are treated as absent
	// from T, so --exclude includes their sequences too (spec.md §9).
	log := "U\tz\t42\t100\tk-mer-z\n"
	p, err := Build(strings.NewReader(log), "fixture", resolve.NewSet(3), Exclude, false)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !p.Contains("z") {
		t.Fatalf("Exclude set should include sequence with unknown taxon id")
	}
}
