// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

// JSONNode is the tree-shaped JSON representation of spec.md §6: each node
// carries its own fields plus nested children in insertion order. It is
// built from the flat arena on demand — JSON output is not the tree's
// native representation, so there is no cost paid by callers that never
// ask for it.
type JSONNode struct {
	ID            uint32      `json:"id"`
	Rank          string      `json:"rank"`
	Name          string      `json:"name"`
	Depth         int         `json:"depth"`
	Percentage    float64     `json:"percentage"`
	ReadsCovered  uint64      `json:"reads_covered"`
	ReadsAssigned uint64      `json:"reads_assigned"`
	Children      []*JSONNode `json:"children"`
}

// JSON builds the nested JSON tree for t as a slice with one entry per
// root, in report order (Kraken2 reports are expected to have exactly
// one, node id 1, but the parser does not assume this — see spec.md §3).
func (t *Tree) JSON() []*JSONNode {
	out := make([]*JSONNode, 0, len(t.roots))
	for _, r := range t.roots {
		out = append(out, t.jsonNode(r))
	}
	return out
}

func (t *Tree) jsonNode(idx int) *JSONNode {
	n := &t.Nodes[idx]
	jn := &JSONNode{
		ID:            n.ID,
		Rank:          n.Rank.String(),
		Name:          n.Name,
		Depth:         n.Depth,
		Percentage:    n.Percentage,
		ReadsCovered:  n.ReadsCovered,
		ReadsAssigned: n.ReadsAssigned,
		Children:      make([]*JSONNode, 0, len(n.children)),
	}
	for _, c := range n.children {
		jn.Children = append(jn.Children, t.jsonNode(c))
	}
	return jn
}
