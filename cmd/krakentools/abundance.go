// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kortschak/krakentools/internal/abundance"
	"github.com/kortschak/krakentools/internal/errs"
	"github.com/kortschak/krakentools/internal/report"
	"github.com/kortschak/krakentools/internal/taxrank"
)

var (
	abundanceOutput       string
	abundanceLevel        string
	abundanceMinAbundance float64
	abundanceNormalize    bool
	abundanceIncludeUncl  bool
	abundanceProportions  bool
	abundanceAbsolute     bool
)

func abundanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abundance-matrix <report...>",
		Short: "Aggregate per-sample reports into a taxonomic abundance matrix",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAbundance,
	}
	cmd.Flags().StringVar(&abundanceOutput, "output", "", "output TSV path (required)")
	cmd.Flags().StringVar(&abundanceLevel, "level", "S", "rank code to aggregate at")
	cmd.Flags().Float64Var(&abundanceMinAbundance, "min-abundance", 0, "drop rows whose peak value is below this threshold")
	cmd.Flags().BoolVar(&abundanceNormalize, "normalize", false, "scale each column to sum to 1")
	cmd.Flags().BoolVar(&abundanceIncludeUncl, "include-unclassified", false, "add a row for unclassified reads")
	cmd.Flags().BoolVar(&abundanceProportions, "proportions", false, "value cells as each report's own percentage field")
	cmd.Flags().BoolVar(&abundanceAbsolute, "absolute-counts", false, "value cells as raw read counts (default)")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runAbundance(cmd *cobra.Command, args []string) error {
	if abundanceProportions && abundanceAbsolute {
		return &errs.InvalidArgument{Flag: "proportions", Reason: "mutually exclusive with --absolute-counts"}
	}

	rank, err := taxrank.Parse([]byte(abundanceLevel))
	if err != nil {
		return &errs.InvalidArgument{Flag: "level", Reason: err.Error()}
	}

	trees := make([]*report.Tree, 0, len(args))
	names := make([]string, 0, len(args))
	for _, path := range args {
		in, err := openRead(path)
		if err != nil {
			return err
		}
		tree, err := report.Parse(in, path)
		in.Close()
		if err != nil {
			return err
		}
		trees = append(trees, tree)
		names = append(names, filepath.Base(path))
	}

	value := abundance.Covered
	if abundanceProportions {
		value = abundance.Percentage
	}

	m := abundance.Build(trees, names, rank, value, abundanceMinAbundance, abundanceIncludeUncl)
	if abundanceNormalize {
		m.Normalize()
	}

	out, err := openWrite(abundanceOutput)
	if err != nil {
		return err
	}
	defer out.Close()
	return m.WriteTSV(out)
}
