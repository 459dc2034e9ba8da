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
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFiles_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := writeTranscript(t, dir, "s.txt", sampleTranscript)
	other := filepath.Join(dir, "other.txt")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{path}, 50*time.Millisecond, discard, func() {
			calls.Add(1)
		})
	}()

	// Let the watcher register before writing.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte(sampleTranscript), 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "burst of writes should fire once")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchFiles did not return after cancel")
	}
}

func TestWatchFiles_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone", "s.txt")
	err := watchFiles(context.Background(), []string{missing}, time.Millisecond, discard, func() {})
	assert.Error(t, err)
}
