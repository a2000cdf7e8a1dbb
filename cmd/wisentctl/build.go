// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/saferwall/wisent"
)

var (
	buildDisableRLE bool
	buildDisableCSV bool
	buildCSVPrefix  string
)

var buildCmd = &cobra.Command{
	Use:   "build <input.json> <output.wisent>",
	Short: "Build a Wisent tree from a JSON document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		opts := wisent.BuildOptions{
			DisableRLE:         buildDisableRLE,
			DisableCSVHandling: buildDisableCSV,
			CSVPrefix:          buildCSVPrefix,
			Logger:             baseLogger,
		}
		tree, err := wisent.Build(data, opts)
		if err != nil {
			return fmt.Errorf("building tree: %w", err)
		}

		if err := os.WriteFile(args[1], tree.Bytes(), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", args[1], err)
		}
		logger.Infow("built tree", "input", args[0], "output", args[1],
			"arguments", tree.ArgumentCount(), "expressions", tree.ExpressionCount())
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildDisableRLE, "disable-rle", false, "disable tag-run folding")
	buildCmd.Flags().BoolVar(&buildDisableCSV, "disable-csv", false, "store .csv references as plain strings instead of inlining them")
	buildCmd.Flags().StringVar(&buildCSVPrefix, "csv-prefix", "", "directory to resolve .csv sidecar references against")
}
