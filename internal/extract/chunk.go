// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import "bytes"

// maxFASTQCandidates bounds how many '@' candidates a chunk boundary
// search will validate before giving up, per spec.md §4.E.
const maxFASTQCandidates = 64

// line returns the line starting at pos within buf, without its
// terminator, along with the offset of the byte following the
// terminator (or len(buf) if the line is unterminated).
func line(buf []byte, pos int) (l []byte, next int, ok bool) {
	if pos >= len(buf) {
		return nil, pos, false
	}
	rest := buf[pos:]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		return rest, len(buf), true
	}
	l = rest[:i]
	l = bytes.TrimSuffix(l, []byte{'\r'})
	return l, pos + i + 1, true
}

// chunkBounds computes up to n+1 record-aligned boundaries over buf for
// the given format, per spec.md §4.E. Boundaries are strictly increasing,
// start at 0 and end at len(buf); fewer than n+1 may be returned when
// coarse splits collapse onto the same record (no duplication, no loss).
func chunkBounds(buf []byte, format Format, n int) []int {
	if n < 1 {
		n = 1
	}
	bounds := []int{0}
	for i := 1; i < n; i++ {
		coarse := len(buf) * i / n
		pos, ok := nextRecordStart(buf, coarse, format)
		if !ok {
			// No valid start found ahead of the coarse offset: this
			// chunk inherits the previous chunk's end, i.e. it
			// disappears rather than duplicating or dropping bytes.
			continue
		}
		if pos <= bounds[len(bounds)-1] {
			continue
		}
		bounds = append(bounds, pos)
	}
	if bounds[len(bounds)-1] != len(buf) {
		bounds = append(bounds, len(buf))
	}
	return bounds
}

// nextRecordStart scans forward from from for the next byte that begins a
// valid record in format, per spec.md §4.E's FASTA/FASTQ splitting rules.
func nextRecordStart(buf []byte, from int, format Format) (int, bool) {
	switch format {
	case FASTA:
		return nextFASTAStart(buf, from)
	case FASTQ:
		return nextFASTQStart(buf, from)
	default:
		return 0, false
	}
}

func nextFASTAStart(buf []byte, from int) (int, bool) {
	for i := from; i < len(buf); i++ {
		if buf[i] != '>' {
			continue
		}
		if i == 0 || buf[i-1] == '\n' {
			return i, true
		}
	}
	return 0, false
}

func nextFASTQStart(buf []byte, from int) (int, bool) {
	tried := 0
	for i := from; i < len(buf) && tried < maxFASTQCandidates; i++ {
		if buf[i] != '@' {
			continue
		}
		if !(i == 0 || buf[i-1] == '\n') {
			continue
		}
		tried++
		if validFASTQAt(buf, i) {
			return i, true
		}
	}
	return 0, false
}

// validFASTQAt reports whether a well-formed 4-line FASTQ record begins
// at pos: the third line must start with '+' and the second and fourth
// lines must have equal length (spec.md §4.E). This is the heuristic that
// distinguishes a genuine record start from a '@' that happens to appear
// inside a quality string.
func validFASTQAt(buf []byte, pos int) bool {
	_, p1, ok := line(buf, pos) // header line, starts with '@'
	if !ok {
		return false
	}
	seq, p2, ok := line(buf, p1)
	if !ok {
		return false
	}
	plus, p3, ok := line(buf, p2)
	if !ok || len(plus) == 0 || plus[0] != '+' {
		return false
	}
	qual, _, ok := line(buf, p3)
	if !ok {
		return false
	}
	return len(seq) == len(qual)
}
