// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kortschak/krakentools/internal/errs"
	"github.com/kortschak/krakentools/internal/gendata"
)

var (
	gendataOutput string
	gendataLines  int
	gendataType   string
	gendataSeed   int64
)

// gendataCmd implements generate-test-data, explicitly out of scope for
// correctness per spec.md §6 — it exists to feed the other three verbs'
// test suites with syntactically valid fixtures, not to model any real
// Kraken2 behaviour.
func gendataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-test-data",
		Short: "Generate synthetic report/FASTA/FASTQ fixtures",
		RunE:  runGendata,
	}
	cmd.Flags().StringVar(&gendataOutput, "output", "", "output path (required); sequence types also write PATH.log")
	cmd.Flags().IntVar(&gendataLines, "lines", 10, "number of report lines or sequence records to generate")
	cmd.Flags().StringVar(&gendataType, "type", "report", "fixture type: report, fasta or fastq")
	cmd.Flags().Int64Var(&gendataSeed, "seed", 1, "random seed for reproducible fixtures")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runGendata(cmd *cobra.Command, args []string) error {
	out, err := openWrite(gendataOutput)
	if err != nil {
		return err
	}
	defer out.Close()

	switch gendataType {
	case "report":
		if err := gendata.Report(out, gendataLines, 0, gendataSeed); err != nil {
			return &errs.IoError{File: gendataOutput, Err: err}
		}
	case "fasta", "fastq":
		logPath := gendataOutput + ".log"
		logOut, err := openWrite(logPath)
		if err != nil {
			return err
		}
		defer logOut.Close()
		taxa := []uint32{1, 2, 3}
		if err := gendata.Sequences(out, logOut, gendataLines, gendataType, taxa, gendataSeed); err != nil {
			return &errs.IoError{File: gendataOutput, Err: err}
		}
	default:
		return &errs.InvalidArgument{Flag: "type", Reason: fmt.Sprintf("unknown fixture type %q", gendataType)}
	}
	return nil
}
