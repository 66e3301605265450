// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"io"
	"strconv"

	"github.com/kortschak/krakentools/internal/errs"
	"github.com/kortschak/krakentools/internal/scan"
	"github.com/kortschak/krakentools/internal/taxrank"
)

const maxUint32 = 1<<32 - 1

// Parse reads a Kraken2 report from r and builds its taxonomy tree in a
// single linear pass, per spec.md §4.B. file is used only to annotate
// errors.
func Parse(r io.Reader, file string) (*Tree, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, &errs.IoError{File: file, Err: err}
	}
	return ParseBytes(buf, file)
}

// ParseBytes parses a report already held in memory. It is split out from
// Parse so that callers that already have the bytes (for example a
// memory-mapped file) can skip the io.ReadAll copy.
func ParseBytes(buf []byte, file string) (*Tree, error) {
	t := &Tree{byID: make(map[uint32]int)}

	// stack[d] holds the index of the most recently parsed node at depth
	// d. Truncating it to the new node's depth and consulting
	// stack[depth-1] for the parent is the whole of the parsing
	// algorithm; see spec.md §4.B steps 1-3.
	var stack []int

	lines := scan.NewLines(buf)
	lineNo := 0
	var fields [][]byte
	for {
		line, _, ok := lines.Next()
		if !ok {
			break
		}
		lineNo++
		if len(line) == 0 {
			continue
		}

		fields = scan.Fields(fields[:0], line, '\t')
		if len(fields) < 6 {
			return nil, &errs.MalformedReport{File: file, Line: lineNo, Reason: "fewer than six tab-separated fields"}
		}

		pct, err := parseFloat(fields[0])
		if err != nil {
			return nil, &errs.MalformedReport{File: file, Line: lineNo, Reason: "invalid percentage: " + err.Error()}
		}
		covered, err := parseUint(fields[1])
		if err != nil {
			return nil, &errs.MalformedReport{File: file, Line: lineNo, Reason: "invalid reads_covered: " + err.Error()}
		}
		assigned, err := parseUint(fields[2])
		if err != nil {
			return nil, &errs.MalformedReport{File: file, Line: lineNo, Reason: "invalid reads_assigned: " + err.Error()}
		}
		rank, err := taxrank.Parse(fields[3])
		if err != nil {
			return nil, &errs.MalformedReport{File: file, Line: lineNo, Reason: "invalid rank code: " + err.Error()}
		}
		id, err := parseID(fields[4])
		if err != nil {
			return nil, &errs.MalformedReport{File: file, Line: lineNo, Reason: "invalid taxon id: " + err.Error()}
		}

		// Fields 6..n were joined back by the tab split if the name
		// itself never contains a tab, which Kraken2 names never do;
		// fields[5] is the raw, indentation-prefixed name.
		raw := fields[5]
		for _, extra := range fields[6:] {
			// Defensive: if a later field existed it was part of the
			// name after all (shouldn't happen for well-formed
			// reports, but keeps the six-field minimum honest rather
			// than silently discarding data).
			raw = append(append(append([]byte{}, raw...), '\t'), extra...)
		}
		nSpaces, nameBytes := scan.TrimLeadingSpaces(raw)
		if nSpaces%2 != 0 {
			return nil, &errs.MalformedReport{File: file, Line: lineNo, Reason: "odd indentation width"}
		}
		depth := nSpaces / 2

		if depth > len(stack) {
			return nil, &errs.MalformedReport{File: file, Line: lineNo, Reason: "indentation jump implies a missing intermediate taxon"}
		}

		if _, dup := t.byID[id]; dup {
			return nil, &errs.MalformedReport{File: file, Line: lineNo, Reason: "duplicate taxon id"}
		}

		idx := len(t.Nodes)
		parent := -1
		if depth > 0 {
			parent = stack[depth-1]
		}
		t.Nodes = append(t.Nodes, Node{
			ID:            id,
			Rank:          rank,
			Name:          string(nameBytes),
			Depth:         depth,
			ReadsCovered:  covered,
			ReadsAssigned: assigned,
			Percentage:    pct,
			parent:        parent,
		})
		t.byID[id] = idx

		if parent < 0 {
			t.roots = append(t.roots, idx)
		} else {
			p := &t.Nodes[parent]
			p.children = append(p.children, idx)
		}

		stack = stack[:depth]
		stack = append(stack, idx)
	}

	return t, nil
}

func parseFloat(b []byte) (float64, error) {
	// Percentages are parsed lossily; a failed parse still errors per
	// spec.md §4.B, but the successful value need not round-trip exactly.
	return strconv.ParseFloat(string(b), 64)
}

func parseUint(b []byte) (uint64, error) {
	return strconv.ParseUint(string(b), 10, 64)
}

func parseID(b []byte) (uint32, error) {
	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0, err
	}
	if n > maxUint32 {
		return 0, errOverflow{b}
	}
	return uint32(n), nil
}

type errOverflow struct{ b []byte }

func (e errOverflow) Error() string {
	return "taxon id " + string(e.b) + " overflows uint32"
}
