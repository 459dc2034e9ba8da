// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command labtree rebuilds directory trees from shell transcripts.
//
// A transcript is a terminal session that only runs "cd" and "ls". labtree
// replays it into an in-memory tree and reports directory sizes.
//
// Usage:
//
//	labtree replay session.txt
//	labtree replay --format yaml a.txt b.txt
//	labtree replay --watch --serve :9090 session.txt
//	labtree tree session.txt
//	labtree prune session.txt --path /a
//
// Configuration is read from ~/.labtree/labtree.yaml, or the file given by
// --config. Flags override file values.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer cleanup()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
