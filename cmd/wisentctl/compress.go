// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/saferwall/wisent"
)

var (
	compressPipelineFlag string
	compressConfigFile   string
	compressDecode       bool
)

var compressCmd = &cobra.Command{
	Use:   "compress <input> <output>",
	Short: "Run a compression pipeline over a Wisent tree, or reverse it with --decode",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadPipelineConfig()
		if err != nil {
			return err
		}
		cfg.Logger = baseLogger

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		var out []byte
		if compressDecode {
			tree, err := wisent.Decompress(data, cfg)
			if err != nil {
				return fmt.Errorf("decompressing %s: %w", args[0], err)
			}
			out = tree.Bytes()
		} else {
			tree, err := wisent.Wrap(data)
			if err != nil {
				return fmt.Errorf("wrapping %s: %w", args[0], err)
			}
			out, err = wisent.Compress(tree, cfg)
			if err != nil {
				return fmt.Errorf("compressing %s: %w", args[0], err)
			}
		}

		if err := os.WriteFile(args[1], out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", args[1], err)
		}
		logger.Infow("compress", "input", args[0], "output", args[1], "codecs", cfg.Codecs, "decode", compressDecode)
		return nil
	},
}

func loadPipelineConfig() (wisent.PipelineConfig, error) {
	if compressConfigFile != "" {
		raw, err := os.ReadFile(compressConfigFile)
		if err != nil {
			return wisent.PipelineConfig{}, fmt.Errorf("reading pipeline config %s: %w", compressConfigFile, err)
		}
		var cfg wisent.PipelineConfig
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return wisent.PipelineConfig{}, fmt.Errorf("parsing pipeline config %s: %w", compressConfigFile, err)
		}
		return cfg, nil
	}
	if compressPipelineFlag == "" {
		return wisent.PipelineConfig{}, fmt.Errorf("one of --pipeline or --config must be given")
	}
	return wisent.PipelineConfig{Codecs: strings.Split(compressPipelineFlag, ",")}, nil
}

func init() {
	compressCmd.Flags().StringVar(&compressPipelineFlag, "pipeline", "", "comma-separated codec list, e.g. delta,rle,huffman")
	compressCmd.Flags().StringVar(&compressConfigFile, "config", "", "YAML pipeline config file (overrides --pipeline)")
	compressCmd.Flags().BoolVar(&compressDecode, "decode", false, "reverse the pipeline instead of applying it")
}
