// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kraklog parses Kraken2 per-read classification log lines
// (spec.md §3's "Log record"). Only the first three tab-separated fields
// — classified flag, sequence id and taxon id — are consumed; the length
// field and k-mer string are skipped without parsing, matching spec.md
// §4.D's complexity guarantee of O(L) in log bytes with no allocation
// beyond what the caller asks for.
package kraklog

import (
	"io"
	"strconv"

	"github.com/kortschak/krakentools/internal/errs"
	"github.com/kortschak/krakentools/internal/scan"
)

// Record is one classified/unclassified read.
type Record struct {
	Classified bool // true for 'C', false for 'U'
	SeqID      string
	TaxonID    uint32
}

// VisitFunc is called once per well-formed log line.
type VisitFunc func(Record) error

// Walk streams r line by line, calling visit for every record. It returns
// the first error from visit (stopping the walk) or an *errs.MalformedLog
// if a line's first three fields fail to parse.
func Walk(r io.Reader, file string, visit VisitFunc) error {
	buf, err := io.ReadAll(r)
	if err != nil {
		return &errs.IoError{File: file, Err: err}
	}
	return WalkBytes(buf, file, visit)
}

// WalkBytes is Walk over an already-read buffer, letting callers that
// memory-map or otherwise already hold the bytes skip the copy.
func WalkBytes(buf []byte, file string, visit VisitFunc) error {
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
		if len(fields) < 3 {
			return &errs.MalformedLog{File: file, Line: lineNo, Reason: "fewer than three tab-separated fields"}
		}

		var rec Record
		switch {
		case len(fields[0]) == 1 && fields[0][0] == 'C':
			rec.Classified = true
		case len(fields[0]) == 1 && fields[0][0] == 'U':
			rec.Classified = false
		default:
			return &errs.MalformedLog{File: file, Line: lineNo, Reason: "classified flag must be 'C' or 'U'"}
		}

		rec.SeqID = string(fields[1])

		id, err := strconv.ParseUint(string(fields[2]), 10, 32)
		if err != nil {
			return &errs.MalformedLog{File: file, Line: lineNo, Reason: "invalid taxon id: " + err.Error()}
		}
		rec.TaxonID = uint32(id)

		if err := visit(rec); err != nil {
			return err
		}
	}
	return nil
}
