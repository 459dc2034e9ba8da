// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"time"

	"github.com/AleutianAI/labtree/pkg/telemetry"
)

// LabtreeConfig is the top-level structure of labtree.yaml.
type LabtreeConfig struct {
	Logging   LoggingConfig    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`
	Replay    ReplayConfig     `yaml:"replay"`
	Output    OutputConfig     `yaml:"output"`
}

// LoggingConfig controls the command logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`

	// JSON switches stderr logs to JSON.
	JSON bool `yaml:"json"`

	// Dir enables daily JSON log files in this directory.
	Dir string `yaml:"dir"`
}

// ReplayConfig controls transcript replay.
type ReplayConfig struct {
	// MaxDirectories caps directories per transcript. 0 means unbounded.
	MaxDirectories int `yaml:"max_directories" validate:"gte=0"`

	// Concurrency is how many transcripts are replayed at once.
	Concurrency int `yaml:"concurrency" validate:"gte=1,lte=64"`

	// Debounce is how long watch mode waits for writes to settle.
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	// Format is text, yaml or json.
	Format string `yaml:"format" validate:"oneof=text yaml json"`

	// Color is auto, always or never. auto styles output only on a terminal.
	Color string `yaml:"color" validate:"oneof=auto always never"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() LabtreeConfig {
	return LabtreeConfig{
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: telemetry.DefaultConfig(),
		Replay: ReplayConfig{
			MaxDirectories: 0,
			Concurrency:    4,
			Debounce:       200 * time.Millisecond,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
	}
}
