// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve computes descendant, ancestor and combined closures over
// a parsed taxonomy tree, and answers id/name point queries (spec.md
// §4.C). The tree's parent/child links are exposed to the resolver as a
// gonum/graph directed graph — one edge per parent→child pair, keyed by
// taxon id — the same "wrap domain records as graph nodes, traverse
// generically" shape the teacher uses in cmd/cmpint/main.go for its
// GTF-feature discordance graph, built on the same gonum/graph/simple
// package.
package resolve

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/kortschak/krakentools/internal/errs"
	"github.com/kortschak/krakentools/internal/report"
)

// Mode selects how Resolver.Expand treats seed ids that are absent from
// the tree (spec.md §4.C, §9).
type Mode int

const (
	// Permissive drops unknown seeds, recording them in
	// Expansion.Unknown, and resolves the rest. This is the default for
	// the CLI.
	Permissive Mode = iota
	// Strict aborts the whole operation with an *errs.UnknownTaxon that
	// lists every unknown seed.
	Strict
)

// Set is an unordered collection of taxon ids.
type Set map[uint32]struct{}

// NewSet builds a Set from the given ids.
func NewSet(ids ...uint32) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is a member of s.
func (s Set) Contains(id uint32) bool {
	_, ok := s[id]
	return ok
}

// Union returns a new Set containing every id in s or o.
func (s Set) Union(o Set) Set {
	out := make(Set, len(s)+len(o))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range o {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the members of s in ascending taxon id order, used
// wherever output order must be stable.
func (s Set) Sorted() []uint32 {
	out := make([]uint32, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Expansion is the result of Resolver.Expand: the original seed set and
// the ids added by closure, kept separate because internal/extract's
// statistics distinguish "seed" taxa from "expansion-added" taxa.
type Expansion struct {
	Seed     Set
	Added    Set
	Unknown  []uint32
}

// All returns Seed ∪ Added.
func (e Expansion) All() Set { return e.Seed.Union(e.Added) }

// Resolver answers closure and point queries over a parsed report.Tree.
type Resolver struct {
	tree    *report.Tree
	g       *simple.DirectedGraph
	byName  map[string][]int // lowercased name -> node indices
}

// New builds a Resolver over tree. Construction is O(N) in the number of
// nodes: one graph edge per parent/child pair, plus a lowercased name
// index for ByName.
func New(tree *report.Tree) *Resolver {
	r := &Resolver{
		tree:   tree,
		g:      simple.NewDirectedGraph(),
		byName: make(map[string][]int),
	}
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		r.g.AddNode(simple.Node(int64(n.ID)))
		key := strings.ToLower(n.Name)
		r.byName[key] = append(r.byName[key], i)
	}
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		if n.Parent() < 0 {
			continue
		}
		parentID := tree.Node(n.Parent()).ID
		r.g.SetEdge(simple.Edge{F: simple.Node(int64(parentID)), T: simple.Node(int64(n.ID))})
	}
	return r
}

// ByID returns the node index for id, and whether it exists.
func (r *Resolver) ByID(id uint32) (int, bool) { return r.tree.ByID(id) }

// ByName returns every node whose name matches name case-insensitively.
func (r *Resolver) ByName(name string) []int {
	return r.byName[strings.ToLower(name)]
}

// Descendants computes the descendant closure of seeds: an iterative
// breadth-first walk from each seed, visiting each child exactly once
// (spec.md §4.C). Ids in seeds that are not present in the tree are
// returned separately rather than causing an error; callers choose how to
// react via Mode in Expand.
func (r *Resolver) Descendants(seeds []uint32) (Set, []uint32) {
	out := make(Set)
	var unknown []uint32
	visited := make(map[int64]bool)
	var queue []int64
	for _, id := range seeds {
		if _, ok := r.tree.ByID(id); !ok {
			unknown = append(unknown, id)
			continue
		}
		nid := int64(id)
		if !visited[nid] {
			visited[nid] = true
			queue = append(queue, nid)
			out[id] = struct{}{}
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		it := r.g.From(u)
		for it.Next() {
			v := it.Node().ID()
			if visited[v] {
				continue
			}
			visited[v] = true
			out[uint32(v)] = struct{}{}
			queue = append(queue, v)
		}
	}
	return out, unknown
}

// Ancestors computes the ancestor closure of seeds: repeated parent-chase
// from each seed until a root is reached, including every seed itself
// (spec.md §4.C).
func (r *Resolver) Ancestors(seeds []uint32) (Set, []uint32) {
	out := make(Set)
	var unknown []uint32
	for _, id := range seeds {
		idx, ok := r.tree.ByID(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		for {
			n := r.tree.Node(idx)
			out[n.ID] = struct{}{}
			if n.Parent() < 0 {
				break
			}
			idx = n.Parent()
		}
	}
	return out, unknown
}

// Expand computes the known seed set and adds Descendants(Seed) when
// includeChildren is set and Ancestors(Seed) when includeParents is set;
// with both set, All() is the combined closure. Unknown seed ids are
// handled according to mode: Strict returns an *errs.UnknownTaxon listing
// every unknown id, Permissive records them in Expansion.Unknown and
// proceeds with the rest.
func (r *Resolver) Expand(seeds []uint32, mode Mode, includeChildren, includeParents bool) (Expansion, error) {
	seed, unknownSeed := r.knownSeeds(seeds)
	if mode == Strict && len(unknownSeed.dropped) > 0 {
		return Expansion{}, &errs.UnknownTaxon{Ids: unknownSeed.dropped}
	}

	added := make(Set)
	if includeChildren {
		desc, _ := r.Descendants(seeds)
		added = added.Union(desc)
	}
	if includeParents {
		anc, _ := r.Ancestors(seeds)
		added = added.Union(anc)
	}
	for id := range seed {
		delete(added, id)
	}

	return Expansion{Seed: seed, Added: added, Unknown: unknownSeed.dropped}, nil
}

type knownResult struct{ dropped []uint32 }

func (r *Resolver) knownSeeds(seeds []uint32) (Set, knownResult) {
	out := make(Set, len(seeds))
	var kr knownResult
	for _, id := range seeds {
		if _, ok := r.tree.ByID(id); ok {
			out[id] = struct{}{}
		} else {
			kr.dropped = append(kr.dropped, id)
		}
	}
	return out, kr
}

// Combined returns the combined closure of spec.md §4.C: Descendants(S) ∪
// Ancestors(S), exactly the union of the two, with seeds always included.
func (r *Resolver) Combined(seeds []uint32) (Set, []uint32) {
	desc, unknown := r.Descendants(seeds)
	anc, _ := r.Ancestors(seeds)
	return desc.Union(anc), unknown
}

// SubtreeReport summarizes the subtree rooted at a node: its own
// percentage and counts, plus the distribution of ranks among its
// descendants (including itself), per spec.md §4.C.
type SubtreeReport struct {
	Root          report.Node
	NodeCount     int
	RankCounts    map[string]int
}

// Subtree builds a SubtreeReport for the node with the given taxon id.
func (r *Resolver) Subtree(id uint32) (SubtreeReport, error) {
	idx, ok := r.tree.ByID(id)
	if !ok {
		return SubtreeReport{}, &errs.UnknownTaxon{Ids: []uint32{id}}
	}
	desc, _ := r.Descendants([]uint32{id})
	sr := SubtreeReport{
		Root:       *r.tree.Node(idx),
		NodeCount:  len(desc),
		RankCounts: make(map[string]int),
	}
	for memberID := range desc {
		i, _ := r.tree.ByID(memberID)
		sr.RankCounts[r.tree.Node(i).Rank.String()]++
	}
	return sr, nil
}

var _ graph.Node = simple.Node(0)
