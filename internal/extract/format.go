// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package extract implements the parallel FASTA/FASTQ record filter of
// spec.md §4.E and §5: the input is split into record-aligned chunks, each
// chunk is scanned by its own worker against a shared read-only inclusion
// set, and per-chunk output buffers are concatenated back in chunk order.
package extract

import "bytes"

// Format identifies the sequence file format, auto-detected from the
// first non-empty byte (spec.md §3).
type Format int

const (
	FASTA Format = iota
	FASTQ
)

// DetectFormat inspects the first non-whitespace byte of buf.
func DetectFormat(buf []byte) (Format, bool) {
	for _, b := range buf {
		switch b {
		case '\n', '\r', ' ', '\t':
			continue
		case '>':
			return FASTA, true
		case '@':
			return FASTQ, true
		default:
			return 0, false
		}
	}
	return 0, false
}

// idOf extracts the sequence identifier from a FASTA/FASTQ header line:
// strip the leading '>'/'@' and take bytes up to the first whitespace,
// per spec.md §4.E.
func idOf(header []byte) []byte {
	if len(header) == 0 {
		return header
	}
	header = header[1:]
	if i := bytes.IndexAny(header, " \t"); i >= 0 {
		return header[:i]
	}
	return header
}
