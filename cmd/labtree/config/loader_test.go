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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_METRICS_EXPORTER", "")

	cfg := DefaultConfig()

	require.NoError(t, Validate(cfg))
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Replay.Concurrency)
	assert.Equal(t, 200*time.Millisecond, cfg.Replay.Debounce)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestParse_OverlaysDefaults(t *testing.T) {
	data := []byte(`
logging:
  level: debug
replay:
  debounce: 1s
output:
  format: yaml
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, time.Second, cfg.Replay.Debounce)
	assert.Equal(t, 4, cfg.Replay.Concurrency, "unset fields keep defaults")
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "auto", cfg.Output.Color)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad level", "logging:\n  level: shouty\n"},
		{"bad format", "output:\n  format: xml\n"},
		{"zero concurrency", "replay:\n  concurrency: 0\n"},
		{"negative cap", "replay:\n  max_directories: -1\n"},
		{"bad exporter", "telemetry:\n  trace_exporter: fax\n"},
		{"unknown key", "replay:\n  speed: fast\n"},
		{"not yaml", "logging: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labtree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  color: never\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "never", cfg.Output.Color)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_DefaultPathMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "labtree.yaml")

	require.NoError(t, WriteDefault(path))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: json\n"), 0600))
	require.NoError(t, WriteDefault(path), "existing file is kept")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
}
