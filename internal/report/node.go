// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report parses Kraken2 classification reports into a rooted
// taxonomy tree and provides the canonical formatter used to round-trip it
// back to report text (spec.md §8's round-trip property).
//
// The tree is an arena: nodes live in a single flat []Node keyed by
// integer index, child lists are index slices into that arena, and a
// taxon id is resolved to its index through a map built once during
// parsing. There are no pointer-linked nodes and so no cyclic ownership to
// reason about, matching the teacher's own compact record-and-index style
// in blast.Record/store.BlastRecordKey.
package report

import "github.com/kortschak/krakentools/internal/taxrank"

// Node is one taxon in a parsed report.
type Node struct {
	ID             uint32
	Rank           taxrank.Rank
	Name           string
	Depth          int
	ReadsCovered   uint64
	ReadsAssigned  uint64
	Percentage     float64

	parent   int // index into Tree.Nodes, -1 for a root
	children []int
}

// Parent returns the index of n's parent in the owning Tree's Nodes slice,
// or -1 if n is a root.
func (n *Node) Parent() int { return n.parent }

// Children returns the indices of n's children in the owning Tree's Nodes
// slice, in report order.
func (n *Node) Children() []int { return n.children }

// Tree is a rooted forest of taxa, parsed from a single report in
// insertion order.
type Tree struct {
	Nodes []Node
	byID  map[uint32]int
	roots []int
}

// ByID returns the index of the node with the given taxon id, and whether
// it was found.
func (t *Tree) ByID(id uint32) (int, bool) {
	i, ok := t.byID[id]
	return i, ok
}

// Roots returns the indices of every node with no parent, in report order.
func (t *Tree) Roots() []int { return t.roots }

// Node returns a pointer to the node at index i. It panics if i is out of
// range, matching the arena's contract that indices are only ever handed
// out by the Tree itself.
func (t *Tree) Node(i int) *Node { return &t.Nodes[i] }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.Nodes) }
