// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package abundance aggregates many parsed reports into a taxonomic
// abundance matrix keyed by a chosen rank (spec.md §4.F).
package abundance

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/kortschak/krakentools/internal/report"
	"github.com/kortschak/krakentools/internal/taxrank"
)

// Value selects which field of a matching node contributes to the matrix.
type Value int

const (
	Covered Value = iota
	Percentage
)

// Matrix is a rank-keyed taxonomic abundance table: rows are taxon names
// (union across all samples), columns are input files in argument order.
type Matrix struct {
	Columns []string
	rows    []string
	values  map[string][]float64 // name -> per-column value
}

// Build aggregates reports (already parsed) into a Matrix at the given
// rank, per spec.md §4.F. names must be parallel to reports and holds the
// column header (input file base name) for each. A row is added for every
// name observed at rank across any sample; missing cells are zero.
// minAbundance drops rows whose maximum value across samples falls below
// it; includeUnclassified adds a synthetic row for taxon id 0 carrying
// each sample's root-level unclassified count (or zero if absent).
func Build(reports []*report.Tree, names []string, rank taxrank.Rank, value Value, minAbundance float64, includeUnclassified bool) *Matrix {
	m := &Matrix{
		Columns: append([]string(nil), names...),
		values:  make(map[string][]float64),
	}

	ensure := func(name string) []float64 {
		v, ok := m.values[name]
		if !ok {
			v = make([]float64, len(reports))
			m.values[name] = v
		}
		return v
	}

	for col, tree := range reports {
		for i := range tree.Nodes {
			n := &tree.Nodes[i]
			if n.Rank.Base() != rank.Base() {
				continue
			}
			v := ensure(n.Name)
			if value == Covered {
				v[col] = float64(n.ReadsCovered)
			} else {
				v[col] = n.Percentage
			}
		}
		if includeUnclassified {
			v := ensure("unclassified")
			if idx, ok := tree.ByID(0); ok {
				n := tree.Node(idx)
				if value == Covered {
					v[col] = float64(n.ReadsCovered)
				} else {
					v[col] = n.Percentage
				}
			}
		}
	}

	for name, v := range m.values {
		if minAbundance > 0 && floats.Max(v) < minAbundance {
			delete(m.values, name)
			continue
		}
		m.rows = append(m.rows, name)
	}
	sort.Strings(m.rows)

	return m
}

// Normalize scales each column so its values sum to 1, taking each
// column's sum with gonum/floats.Sum. A column that sums to zero is left
// unchanged.
func (m *Matrix) Normalize() {
	for col := range m.Columns {
		var colVals []float64
		for _, row := range m.rows {
			colVals = append(colVals, m.values[row][col])
		}
		sum := floats.Sum(colVals)
		if sum == 0 {
			continue
		}
		for _, row := range m.rows {
			m.values[row][col] /= sum
		}
	}
}

// WriteTSV writes the matrix as TSV with header "taxon" followed by each
// column's base name, per spec.md §6.
func (m *Matrix) WriteTSV(w io.Writer) error {
	if _, err := fmt.Fprint(w, "taxon"); err != nil {
		return err
	}
	for _, c := range m.Columns {
		if _, err := fmt.Fprintf(w, "\t%s", c); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, row := range m.rows {
		if _, err := fmt.Fprint(w, row); err != nil {
			return err
		}
		for _, v := range m.values[row] {
			if _, err := fmt.Fprintf(w, "\t%g", v); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
