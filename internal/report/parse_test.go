// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bytes"
	"strings"
	"testing"
)

const minimalReport = "" +
	"100.00\t10\t0\tR\t1\troot\n" +
	"100.00\t10\t0\tD\t2\t  Bacteria\n" +
	"50.00\t5\t5\tS\t3\t    Escherichia coli\n"

func TestParseMinimal(t *testing.T) {
	tree, err := Parse(strings.NewReader(minimalReport), "minimal")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tree.Len() != 3 {
		t.Fatalf("got %d nodes, want 3", tree.Len())
	}

	root, ok := tree.ByID(1)
	if !ok || tree.Node(root).Depth != 0 || tree.Node(root).Parent() != -1 {
		t.Fatalf("node 1 not parsed as root: %+v", tree.Node(root))
	}
	bacteria, ok := tree.ByID(2)
	if !ok {
		t.Fatal("node 2 missing")
	}
	if tree.Node(bacteria).Parent() != root {
		t.Fatalf("parent(2) = %d, want %d", tree.Node(bacteria).Parent(), root)
	}
	ecoli, ok := tree.ByID(3)
	if !ok {
		t.Fatal("node 3 missing")
	}
	if tree.Node(ecoli).Parent() != bacteria {
		t.Fatalf("parent(3) = %d, want %d", tree.Node(ecoli).Parent(), bacteria)
	}
	if tree.Node(ecoli).Name != "Escherichia coli" {
		t.Fatalf("name(3) = %q, want %q", tree.Node(ecoli).Name, "Escherichia coli")
	}
}

func TestParentDepthInvariant(t *testing.T) {
	tree, err := Parse(strings.NewReader(minimalReport), "minimal")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		if n.parent < 0 {
			continue
		}
		p := tree.Node(n.parent)
		if p.Depth != n.Depth-1 {
			t.Errorf("node %d: depth(parent)=%d, depth(node)-1=%d", n.ID, p.Depth, n.Depth-1)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	tree, err := Parse(strings.NewReader(minimalReport), "minimal")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buf bytes.Buffer
	if err := tree.Format(&buf); err != nil {
		t.Fatalf("Format: %v", err)
	}
	reparsed, err := Parse(&buf, "round-trip")
	if err != nil {
		t.Fatalf("Parse(Format(tree)): %v", err)
	}
	if reparsed.Len() != tree.Len() {
		t.Fatalf("round-trip node count = %d, want %d", reparsed.Len(), tree.Len())
	}
	for i := range tree.Nodes {
		a, b := tree.Nodes[i], reparsed.Nodes[i]
		if a.ID != b.ID || a.Depth != b.Depth || a.Name != b.Name || a.Rank != b.Rank {
			t.Fatalf("round-trip mismatch at index %d:\n got %+v\nwant %+v", i, b, a)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"too few fields", "100.00\t10\t0\tR\t1\n"},
		{"duplicate id", minimalReport + "10.00\t1\t1\tS\t3\t    Other species\n"},
		{"indentation jump", "100.00\t10\t0\tR\t1\troot\n100.00\t5\t5\tS\t2\t    Deep\n"},
		{"bad rank", "100.00\t10\t0\tZ\t1\troot\n"},
		{"bad count", "100.00\tNaN\t0\tR\t1\troot\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(c.input), "t"); err == nil {
				t.Fatalf("Parse(%q): want error, got nil", c.input)
			}
		})
	}
}
