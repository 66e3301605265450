// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kortschak/krakentools/internal/warn"
)

var (
	threads int
	quiet   bool

	warner *warn.Printer
)

// rootCmd builds the krakentools command tree: analyze, extract,
// abundance-matrix and generate-test-data, matching spec.md §6's four-verb
// surface. The persistent --threads/--quiet flags are read by every verb
// through the package-level vars above, the same pattern the teacher uses
// for its own package-level mode tables in cmd/ins/main.go.
func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "krakentools",
		Short: "Analyze and filter Kraken2 classification output",
		Long: `krakentools parses Kraken2 reports and logs, resolves taxon
hierarchies, extracts matching sequence records from FASTA/FASTQ files and
aggregates per-sample reports into abundance matrices.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			warner = warn.New(quiet)
		},
	}

	cmd.PersistentFlags().IntVar(&threads, "threads", runtime.NumCPU(), "worker pool size for the parallel filter")
	cmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress warnings")

	cmd.AddCommand(
		analyzeCmd(),
		extractCmd(),
		abundanceCmd(),
		gendataCmd(),
	)
	return cmd
}
