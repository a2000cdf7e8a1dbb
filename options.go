// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package wisent

import "github.com/saferwall/wisent/internal/log"

// BuildOptions configures the JSON/CSV to Wisent build (§6.4). The zero
// value matches the default behavior described throughout §4: RLE and CSV
// inlining both enabled, CSV sidecar paths resolved relative to the
// current working directory.
type BuildOptions struct {
	// DisableRLE turns off tag-run folding (§4.5); every argument gets its
	// own physical tag byte. Useful for debugging and for the property
	// tests in §8 that compare folded and unfolded trees.
	DisableRLE bool

	// DisableCSVHandling turns off CSV sidecar inlining (§4.4); a string
	// ending in .csv is stored as an ordinary string literal instead of
	// being expanded into a Table expression.
	DisableCSVHandling bool

	// CSVPrefix is joined with a .csv string value before the file is
	// opened, so sidecars can live in a directory distinct from the JSON
	// document's own working directory.
	CSVPrefix string

	// Logger overrides the structured logger (internal/log) that Build,
	// the CSV inliner, and the tag-run folder log through; nil uses
	// log.Default, the same convention saferwall-pe's own Options.Logger
	// follows.
	Logger log.Logger
}

// PipelineConfig is the serializable form of a compression pipeline (§4.8,
// §6.4): an ordered list of codec names/aliases and an optional block
// size. It is what cmd/wisentctl reads from a YAML pipeline file and what
// buildPipeline (compress.go) turns into an executable codec.Pipeline.
type PipelineConfig struct {
	Codecs    []string `yaml:"codecs"`
	BlockSize int      `yaml:"blockSize,omitempty"`

	// Logger overrides the structured logger the codec.Pipeline logs
	// through; nil uses log.Default. Not part of the YAML schema: a
	// logger is a runtime collaborator, not serializable configuration.
	Logger log.Logger `yaml:"-"`
}
