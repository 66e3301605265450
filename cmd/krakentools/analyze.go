// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kortschak/krakentools/internal/report"
	"github.com/kortschak/krakentools/internal/resolve"
)

var (
	analyzeJSON   string
	analyzeTaxID  uint32
	analyzeStrict bool
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <report>",
		Short: "Parse a Kraken2 report and optionally summarize a subtree",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	cmd.Flags().StringVar(&analyzeJSON, "json", "", "write the parsed tree as JSON to PATH")
	cmd.Flags().Uint32Var(&analyzeTaxID, "tax-id", 0, "print a subtree summary for this taxon id")
	cmd.Flags().BoolVar(&analyzeStrict, "strict", false, "error instead of warn on an unknown --tax-id")
	cmd.Flags().MarkHidden("strict")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	in, err := openRead(path)
	if err != nil {
		return err
	}
	defer in.Close()

	tree, err := report.Parse(in, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d taxa, %d root(s)\n", path, tree.Len(), len(tree.Roots()))

	if analyzeJSON != "" {
		out, err := openWrite(analyzeJSON)
		if err != nil {
			return err
		}
		defer out.Close()
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tree.JSON()); err != nil {
			return errors.Wrap(err, "encoding JSON tree")
		}
	}

	if cmd.Flags().Changed("tax-id") {
		r := resolve.New(tree)
		mode := resolve.Permissive
		if analyzeStrict {
			mode = resolve.Strict
		}
		if _, err := r.Expand([]uint32{analyzeTaxID}, mode, false, false); err != nil {
			return err
		}
		if _, ok := r.ByID(analyzeTaxID); !ok {
			warner.Printf("unknown taxon id %d", analyzeTaxID)
			return nil
		}
		sr, err := r.Subtree(analyzeTaxID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "subtree of taxon %d (%s, rank %s):\n", sr.Root.ID, sr.Root.Name, sr.Root.Rank.String())
		fmt.Fprintf(cmd.OutOrStdout(), "  nodes: %d\n", sr.NodeCount)
		for rank, n := range sr.RankCounts {
			fmt.Fprintf(cmd.OutOrStdout(), "  rank %s: %d\n", rank, n)
		}
	}
	return nil
}
