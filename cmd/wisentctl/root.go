// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/saferwall/wisent/internal/log"
)

// baseLogger is the raw log.Logger handed to wisent.BuildOptions and
// wisent.PipelineConfig so the library logs through the same sink as the
// CLI's own Infow calls below; logger wraps it with the leveled helpers
// this package uses directly.
var baseLogger = log.NewFilter(log.NewStdLogger(os.Stderr))
var logger = log.NewHelper(baseLogger)

var rootCmd = &cobra.Command{
	Use:   "wisentctl",
	Short: "wisentctl builds, compresses, and inspects Wisent trees",
	Long: `wisentctl is a command-line front end for the wisent module: it turns
JSON documents (optionally with inlined CSV sidecars) into the Wisent
single-buffer binary tree format, runs a configurable compression
pipeline over the result, and dumps the structure of an existing tree
for inspection.`,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)
}
