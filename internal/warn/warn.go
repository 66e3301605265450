// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package warn prints CLI warnings (such as unknown taxon ids) to
// stderr, coloring them when stderr is a
// terminal. taxonkit and unikmer — the other taxonomy CLIs in this
// lineage — both render diagnostics through go-colorable so that output
// piped to a file or another process never carries escape codes; this
// package follows the same convention.
package warn

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
)

const (
	yellow = "\x1b[33m"
	reset  = "\x1b[0m"
)

// Printer writes warnings to an underlying stream, colored yellow when
// that stream is a terminal; it writes nothing when quiet is set.
type Printer struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
	quiet bool
}

// New wraps stderr for warning output via colorable.NewColorableStderr.
// Warnings are colored only when isTerminal reports that stderr is a
// character device.
func New(quiet bool) *Printer {
	return &Printer{w: colorable.NewColorableStderr(), color: isTerminal(os.Stderr), quiet: quiet}
}

// Printf writes a formatted warning line, prefixed with "warning: " and
// colored when the destination is a terminal. It is a no-op when the
// Printer is quiet.
func (p *Printer) Printf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if p.color {
		fmt.Fprintf(p.w, "%swarning:%s %s\n", yellow, reset, msg)
	} else {
		fmt.Fprintf(p.w, "warning: %s\n", msg)
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
