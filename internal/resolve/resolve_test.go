// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"strings"
	"testing"

	"github.com/kortschak/krakentools/internal/report"
)

const fixtureReport = "" +
	"100.00\t10\t0\tR\t1\troot\n" +
	"100.00\t10\t0\tD\t2\t  Bacteria\n" +
	"50.00\t5\t5\tS\t3\t    Escherichia coli\n"

func fixture(t *testing.T) *Resolver {
	t.Helper()
	tree, err := report.Parse(strings.NewReader(fixtureReport), "fixture")
	if err != nil {
		t.Fatalf("report.Parse: %v", err)
	}
	return New(tree)
}

func TestDescendantsOfRoot(t *testing.T) {
	r := fixture(t)
	got, unknown := r.Descendants([]uint32{1})
	if len(unknown) != 0 {
		t.Fatalf("unexpected unknown ids: %v", unknown)
	}
	want := NewSet(1, 2, 3)
	if !setEqual(got, want) {
		t.Fatalf("Descendants({1}) = %v, want %v", got.Sorted(), want.Sorted())
	}
}

func TestAncestorsOfLeaf(t *testing.T) {
	r := fixture(t)
	got, _ := r.Ancestors([]uint32{3})
	want := NewSet(1, 2, 3)
	if !setEqual(got, want) {
		t.Fatalf("Ancestors({3}) = %v, want %v", got.Sorted(), want.Sorted())
	}
}

func TestDescendantClosureIdempotent(t *testing.T) {
	r := fixture(t)
	once, _ := r.Descendants([]uint32{1})
	twice, _ := r.Descendants(once.Sorted())
	if !setEqual(once, twice) {
		t.Fatalf("Descendants(Descendants(S)) != Descendants(S): %v vs %v", once.Sorted(), twice.Sorted())
	}
}

func TestExpandPermissiveDropsUnknown(t *testing.T) {
	r := fixture(t)
	exp, err := r.Expand([]uint32{3, 999}, Permissive, true, true)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(exp.Unknown) != 1 || exp.Unknown[0] != 999 {
		t.Fatalf("Unknown = %v, want [999]", exp.Unknown)
	}
	if !exp.Seed.Contains(3) {
		t.Fatalf("seed set missing known id 3")
	}
}

func TestExpandStrictErrorsOnUnknown(t *testing.T) {
	r := fixture(t)
	if _, err := r.Expand([]uint32{999}, Strict, true, true); err == nil {
		t.Fatal("Expand in Strict mode: want error for unknown seed, got nil")
	}
}

func setEqual(a, b Set) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b.Contains(id) {
			return false
		}
	}
	return true
}
