// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
)

// Format writes t back out as report text in insertion order, using the
// same six tab-separated fields and 2*depth leading-space indentation that
// Parse reads. Re-parsing the result with Parse yields an equal tree
// (spec.md §8's round-trip property); Format is therefore the canonical
// formatter referenced there, not merely a debugging aid.
func (t *Tree) Format(w io.Writer) error {
	for i := range t.Nodes {
		n := &t.Nodes[i]
		indent := make([]byte, 2*n.Depth)
		for j := range indent {
			indent[j] = ' '
		}
		_, err := fmt.Fprintf(w, "%.2f\t%d\t%d\t%s\t%d\t%s%s\n",
			n.Percentage, n.ReadsCovered, n.ReadsAssigned, n.Rank, n.ID, indent, n.Name)
		if err != nil {
			return err
		}
	}
	return nil
}
