// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plan computes the extraction planner of spec.md §4.D: given a
// resolved taxon set and a Kraken2 log, it decides which sequence
// identifiers the parallel filter (internal/extract) should keep.
package plan

import (
	"io"

	"github.com/kortschak/krakentools/internal/kraklog"
	"github.com/kortschak/krakentools/internal/resolve"
)

// Polarity selects whether Build keeps identifiers whose taxon is in the
// resolved set, or everything else.
type Polarity int

const (
	// Include keeps identifiers whose taxon id is in the resolved set.
	Include Polarity = iota
	// Exclude keeps identifiers whose taxon id is not in the resolved
	// set. Every log line is still read to build the exclusion set;
	// unknown taxon ids (absent from the resolver's tree) are treated as
	// absent from the set, so Exclude includes their sequences too
	// (spec.md §9's open-question resolution).
	Exclude
)

// Plan is the output of Build: the set of sequence identifiers to include,
// plus an optional identifier→taxon map retained only when statistics
// output is requested (spec.md §4.D).
type Plan struct {
	Include      map[string]struct{}
	TaxonOf      map[string]uint32 // nil unless keepTaxonMap was set
	TotalRecords int
}

// Build streams log from r, classifying each record against taxa under
// polarity, per spec.md §4.D's algorithm. file is used only for error
// context.
func Build(r io.Reader, file string, taxa resolve.Set, polarity Polarity, keepTaxonMap bool) (*Plan, error) {
	p := &Plan{Include: make(map[string]struct{})}
	if keepTaxonMap {
		p.TaxonOf = make(map[string]uint32)
	}

	err := kraklog.Walk(r, file, func(rec kraklog.Record) error {
		p.TotalRecords++
		member := taxa.Contains(rec.TaxonID)
		keep := member
		if polarity == Exclude {
			keep = !member
		}
		if keep {
			p.Include[rec.SeqID] = struct{}{}
			if p.TaxonOf != nil {
				p.TaxonOf[rec.SeqID] = rec.TaxonID
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Contains reports whether id was selected by the plan.
func (p *Plan) Contains(id string) bool {
	_, ok := p.Include[id]
	return ok
}
