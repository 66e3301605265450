// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command krakentools analyzes Kraken2 reports, extracts taxon-matching
// sequence records from FASTA/FASTQ files, and builds cross-sample
// abundance matrices.
package main

import (
	"os"

	"github.com/kortschak/krakentools/internal/errs"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := rootCmd()
	err := cmd.Execute()
	if err == nil {
		return errs.ExitOK
	}
	return errs.ExitCode(err)
}
