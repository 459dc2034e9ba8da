// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/labtree/cmd/labtree/config"
	"github.com/AleutianAI/labtree/services/fstree"
)

const sampleTranscript = `$ cd /
$ ls
dir a
14848514 b.txt
8504156 c.dat
dir d
$ cd a
$ ls
dir e
29116 f
2557 g
62596 h.lst
$ cd e
$ ls
584 i
$ cd ..
$ cd ..
$ cd d
$ ls
4060174 j
8033020 d.log
5626152 d.ext
7214296 k
`

var discard = slog.New(slog.DiscardHandler)

func writeTranscript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func replayCfg() config.ReplayConfig {
	return config.DefaultConfig().Replay
}

// =============================================================================
// replay
// =============================================================================

func TestReplayFiles_KeepsOrder(t *testing.T) {
	dir := t.TempDir()
	small := writeTranscript(t, dir, "small.txt", "$ cd /\n$ ls\n10 x\n")
	full := writeTranscript(t, dir, "full.txt", sampleTranscript)

	results, err := replayFiles(context.Background(), []string{full, small, full}, replayCfg(), discard)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, full, results[0].Path)
	assert.Equal(t, int64(48381165), results[0].FS.TotalSize())
	assert.Equal(t, small, results[1].Path)
	assert.Equal(t, int64(10), results[1].FS.TotalSize())
	assert.Equal(t, full, results[2].Path)
}

func TestReplayFiles_FirstErrorWins(t *testing.T) {
	dir := t.TempDir()
	good := writeTranscript(t, dir, "good.txt", sampleTranscript)
	bad := writeTranscript(t, dir, "bad.txt", "$ cd /\n$ cd nowhere\n")

	_, err := replayFiles(context.Background(), []string{good, bad}, replayCfg(), discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, fstree.ErrUnknownDirectory)
	assert.Contains(t, err.Error(), "bad.txt")
}

func TestReplayFiles_MissingFile(t *testing.T) {
	_, err := replayFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.txt")}, replayCfg(), discard)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReplayFile_MaxDirectories(t *testing.T) {
	path := writeTranscript(t, t.TempDir(), "s.txt", sampleTranscript)
	cfg := replayCfg()
	cfg.MaxDirectories = 2

	_, err := replayFile(context.Background(), path, cfg, discard)
	assert.Error(t, err)
}

// =============================================================================
// output
// =============================================================================

func sampleReports(t *testing.T) []transcriptReport {
	t.Helper()
	path := writeTranscript(t, t.TempDir(), "s.txt", sampleTranscript)
	results, err := replayFiles(context.Background(), []string{path}, replayCfg(), discard)
	require.NoError(t, err)
	return buildReports(results)
}

func TestWriteReports_JSON(t *testing.T) {
	reports := sampleReports(t)

	var buf bytes.Buffer
	require.NoError(t, writeReports(&buf, reports, "json"))

	var decoded []transcriptReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, int64(48381165), decoded[0].TotalSize)
	assert.Equal(t, "/", decoded[0].Directories[0].Path)
	assert.Contains(t, buf.String(), `"total_size"`)
}

func TestWriteReports_YAML(t *testing.T) {
	reports := sampleReports(t)

	var buf bytes.Buffer
	require.NoError(t, writeReports(&buf, reports, "yaml"))

	var decoded []transcriptReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, reports, decoded)
}

func TestWriteReports_Text(t *testing.T) {
	appConfig = config.DefaultConfig()
	reports := sampleReports(t)

	var buf bytes.Buffer
	require.NoError(t, writeReports(&buf, reports, "text"))

	out := buf.String()
	assert.Contains(t, out, "total 48381165")
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "/a/e")
	assert.Contains(t, out, "24933642")
	assert.NotContains(t, out, "\x1b[", "a buffer is not a terminal")
}

func TestWriteReports_UnknownFormat(t *testing.T) {
	err := writeReports(&bytes.Buffer{}, nil, "xml")
	assert.Error(t, err)
}

func TestRenderTree(t *testing.T) {
	path := writeTranscript(t, t.TempDir(), "s.txt", sampleTranscript)
	fs, err := replayFile(context.Background(), path, replayCfg(), discard)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, renderTree(&buf, fs, newRenderer(&buf, "never"), true))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "/ (48381165)", lines[0])
	assert.Contains(t, out, "a (94853)")
	assert.Contains(t, out, "e (584)")
	assert.Contains(t, out, "i 584")
	assert.Contains(t, out, "└──")
}

func TestRenderTree_AfterPrune(t *testing.T) {
	path := writeTranscript(t, t.TempDir(), "s.txt", sampleTranscript)
	fs, err := replayFile(context.Background(), path, replayCfg(), discard)
	require.NoError(t, err)
	require.NoError(t, prune(fs, []string{"/a"}))

	var buf bytes.Buffer
	require.NoError(t, renderTree(&buf, fs, newRenderer(&buf, "never"), false))

	out := buf.String()
	assert.Contains(t, out, "/ (48286312)")
	assert.Contains(t, out, "(detached)/e (584)")
	assert.NotContains(t, out, "a (94853)")
}

func TestPrune_Error(t *testing.T) {
	path := writeTranscript(t, t.TempDir(), "s.txt", sampleTranscript)
	fs, err := replayFile(context.Background(), path, replayCfg(), discard)
	require.NoError(t, err)

	err = prune(fs, []string{"/d", "/"})
	assert.ErrorIs(t, err, fstree.ErrPruneRoot)
	_, err = fs.Find("/d")
	assert.Error(t, err, "earlier paths are pruned before the failure")
}

func TestNewRenderer_Modes(t *testing.T) {
	var buf bytes.Buffer

	never := newRenderer(&buf, "never")
	assert.Equal(t, "x", never.NewStyle().Bold(true).Render("x"))

	always := newRenderer(&buf, "always")
	assert.NotEqual(t, "x", always.NewStyle().Bold(true).Render("x"))

	assert.False(t, isTerminal(&buf))
}
