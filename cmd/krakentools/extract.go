// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kortschak/krakentools/internal/errs"
	"github.com/kortschak/krakentools/internal/extract"
	"github.com/kortschak/krakentools/internal/plan"
	"github.com/kortschak/krakentools/internal/report"
	"github.com/kortschak/krakentools/internal/resolve"
)

var (
	extractTaxids         string
	extractOutput         string
	extractReport         string
	extractIncludeChild   bool
	extractIncludeParents bool
	extractExclude        bool
	extractStatsOutput    string
	extractStrict         bool
	extractUnordered      bool
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <sequence> <log>",
		Short: "Extract FASTA/FASTQ records matching a taxon set",
		Args:  cobra.ExactArgs(2),
		RunE:  runExtract,
	}
	cmd.Flags().StringVar(&extractTaxids, "taxids", "", "comma-separated taxon ids to match (required)")
	cmd.Flags().StringVar(&extractOutput, "output", "", "output sequence file path (required)")
	cmd.Flags().StringVar(&extractReport, "report", "", "Kraken2 report, required for --include-children/--include-parents and --stats-output")
	cmd.Flags().BoolVar(&extractIncludeChild, "include-children", false, "expand taxids to their descendants")
	cmd.Flags().BoolVar(&extractIncludeParents, "include-parents", false, "expand taxids to their ancestors")
	cmd.Flags().BoolVar(&extractExclude, "exclude", false, "keep records NOT matching the taxon set")
	cmd.Flags().StringVar(&extractStatsOutput, "stats-output", "", "write a Markdown statistics report to PATH")
	cmd.Flags().BoolVar(&extractStrict, "strict", false, "error instead of warn on an unknown taxon id")
	cmd.Flags().BoolVar(&extractUnordered, "unordered", false, "write matched records as soon as each chunk finishes, not in input order")
	cmd.Flags().MarkHidden("strict")
	cmd.MarkFlagRequired("taxids")
	cmd.MarkFlagRequired("output")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	seqPath, logPath := args[0], args[1]

	seeds, err := parseTaxids(extractTaxids)
	if err != nil {
		return err
	}

	needsReport := extractIncludeChild || extractIncludeParents || extractStatsOutput != ""
	if needsReport && extractReport == "" {
		return &errs.InvalidArgument{Flag: "report", Reason: "required when --include-children, --include-parents or --stats-output is set"}
	}

	var tree *report.Tree
	var exp resolve.Expansion
	taxa := resolve.NewSet(seeds...)
	if extractReport != "" {
		in, err := openRead(extractReport)
		if err != nil {
			return err
		}
		tree, err = report.Parse(in, extractReport)
		in.Close()
		if err != nil {
			return err
		}
		mode := resolve.Permissive
		if extractStrict {
			mode = resolve.Strict
		}
		r := resolve.New(tree)
		exp, err = r.Expand(seeds, mode, extractIncludeChild, extractIncludeParents)
		if err != nil {
			return err
		}
		if len(exp.Unknown) > 0 {
			warner.Printf("%d unknown taxon id(s) ignored: %v", len(exp.Unknown), exp.Unknown)
		}
		taxa = exp.All()
	}

	logIn, err := openRead(logPath)
	if err != nil {
		return err
	}
	polarity := plan.Include
	if extractExclude {
		polarity = plan.Exclude
	}
	p, err := plan.Build(logIn, logPath, taxa, polarity, extractStatsOutput != "")
	logIn.Close()
	if err != nil {
		return err
	}

	buf, closer, err := extract.OpenSequence(seqPath)
	if err != nil {
		return err
	}
	defer closer()

	format, ok := extract.DetectFormat(buf)
	if !ok {
		return &errs.FormatMismatch{Offset: 0, Reason: "unrecognized sequence file format"}
	}

	out, err := openWrite(extractOutput)
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := extract.Run(ctx, buf, out, extract.Options{
		Format:    format,
		Plan:      p,
		Workers:   threads,
		Unordered: extractUnordered,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: extracted %d/%d records\n", seqPath, res.TotalExtracted, res.TotalInput)

	if extractStatsOutput != "" {
		statsOut, err := openWrite(extractStatsOutput)
		if err != nil {
			return err
		}
		defer statsOut.Close()
		if err := extract.WriteStats(statsOut, res, tree, exp); err != nil {
			return err
		}
	}
	return nil
}
