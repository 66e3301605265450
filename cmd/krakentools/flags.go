// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"

	"github.com/kortschak/krakentools/internal/errs"
)

// openRead opens path for reading, transparently decompressing gzip/xz/bz2
// input, the same convenience the teacher's own tooling lacks but the rest
// of the taxonomy-CLI lineage (taxonkit, unikmer) relies on via
// shenwei356/xopen.
func openRead(path string) (*xopen.Reader, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, &errs.IoError{File: path, Err: err}
	}
	return r, nil
}

// openWrite opens path for writing, creating parent semantics identical to
// xopen.Wopen (supports "-" for stdout and a trailing ".gz" for transparent
// compression).
func openWrite(path string) (*xopen.Writer, error) {
	w, err := xopen.Wopen(path)
	if err != nil {
		return nil, &errs.IoError{File: path, Err: err}
	}
	return w, nil
}

// parseTaxids parses a comma-separated list of decimal taxon ids, per
// spec.md §6's `--taxids CSV` flag.
func parseTaxids(csv string) ([]uint32, error) {
	if csv == "" {
		return nil, &errs.InvalidArgument{Flag: "taxids", Reason: "must not be empty"}
	}
	fields := strings.Split(csv, ",")
	ids := make([]uint32, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, &errs.InvalidArgument{Flag: "taxids", Reason: errors.Wrapf(err, "invalid taxon id %q", f).Error()}
		}
		ids = append(ids, uint32(n))
	}
	return ids, nil
}
