// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scan provides allocation-free line and field splitting over an
// owned byte buffer. It is the common substrate for the report parser, the
// log parser and the sequence extractor: all three need to walk a large
// buffer line by line and tab (or other single-byte delimiter) field by
// field without copying, and copy out only the handful of bytes that must
// outlive the buffer.
package scan

import "bytes"

// Lines is an iterator over the newline-delimited lines of buf. Each call
// to Next returns the next line with any trailing '\r' trimmed, and
// advances past the terminating '\n'. The final line need not be
// terminated. Returned slices alias buf; callers that need a value to
// outlive buf must copy it themselves.
type Lines struct {
	buf []byte
	off int
}

// NewLines returns a Lines iterator over buf.
func NewLines(buf []byte) *Lines {
	return &Lines{buf: buf}
}

// Next returns the next line and its starting byte offset within the
// original buffer, and reports whether a line was available.
func (l *Lines) Next() (line []byte, offset int, ok bool) {
	if l.off >= len(l.buf) {
		return nil, 0, false
	}
	offset = l.off
	rest := l.buf[l.off:]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		l.off = len(l.buf)
		line = rest
	} else {
		l.off += i + 1
		line = rest[:i]
	}
	line = bytes.TrimSuffix(line, []byte{'\r'})
	return line, offset, true
}

// Offset reports the current read position within the buffer passed to
// NewLines.
func (l *Lines) Offset() int { return l.off }

// Fields splits line on sep, appending the resulting sub-slices (which
// alias line) to dst and returning the extended slice. It behaves like
// bytes.Split but never allocates a backing array for the delimiter search
// itself and lets callers reuse dst across calls to avoid per-line
// allocation in hot loops.
func Fields(dst [][]byte, line []byte, sep byte) [][]byte {
	for {
		i := bytes.IndexByte(line, sep)
		if i < 0 {
			return append(dst, line)
		}
		dst = append(dst, line[:i])
		line = line[i+1:]
	}
}

// TrimLeadingSpaces counts the number of leading ASCII space bytes in b and
// returns the count along with the remaining slice. It is used by the
// report parser to recover indentation depth from the name field without
// allocating.
func TrimLeadingSpaces(b []byte) (n int, rest []byte) {
	i := 0
	for i < len(b) && b[i] == ' ' {
		i++
	}
	return i, b[i:]
}
