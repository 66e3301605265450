// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extract

import (
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/kortschak/krakentools/internal/errs"
)

// OpenSequence returns the bytes of the sequence file at path, memory-mapped
// when path names a plain regular file (spec.md §5: "the file is
// memory-mapped or fully read"), falling back to a full read for anything
// mmap cannot handle — pipes, "-" for stdin, zero-length files, or a
// platform that refuses the mapping. The returned closer must be called
// once the caller is done with the returned bytes.
func OpenSequence(path string) (data []byte, closer func() error, err error) {
	if path == "-" {
		buf, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, nil, &errs.IoError{File: path, Err: err}
		}
		return buf, func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &errs.IoError{File: path, Err: err}
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, &errs.IoError{File: path, Err: err}
	}
	if !fi.Mode().IsRegular() || fi.Size() == 0 {
		buf, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, nil, &errs.IoError{File: path, Err: err}
		}
		return buf, func() error { return nil }, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		// Some filesystems (notably overlay/network mounts in CI
		// containers) refuse mmap; fall back rather than fail the run.
		f.Seek(0, io.SeekStart)
		buf, rerr := io.ReadAll(f)
		f.Close()
		if rerr != nil {
			return nil, nil, &errs.IoError{File: path, Err: rerr}
		}
		return buf, func() error { return nil }, nil
	}
	return []byte(m), func() error {
		uerr := m.Unmap()
		cerr := f.Close()
		if uerr != nil {
			return uerr
		}
		return cerr
	}, nil
}
