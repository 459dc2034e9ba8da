// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package fstree reconstructs a directory tree from a shell transcript.
//
// A transcript is the output of a terminal session that only ever runs
// "cd" and "ls":
//
//	$ cd /
//	$ ls
//	dir a
//	14848514 b.txt
//	$ cd a
//	$ ls
//	29116 f
//
// Parse turns the transcript into Commands. Build replays them against a
// labeltree.Tree[Directory], keeping its own cursor on the current directory,
// and returns a FileSystem that answers size and path queries.
//
// # Thread Safety
//
// A FileSystem is NOT safe for concurrent use. Build separate FileSystems
// per goroutine; they share nothing.
package fstree

import "errors"

// Sentinel errors for parsing and replaying transcripts.
var (
	// ErrMalformedLine is returned for a transcript line that is neither a
	// command nor a listing entry.
	ErrMalformedLine = errors.New("malformed transcript line")

	// ErrUnknownCommand is returned for a "$" line whose command is not cd or ls.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUnknownDirectory is returned when cd or a path query names a
	// directory that has not been listed.
	ErrUnknownDirectory = errors.New("unknown directory")

	// ErrAboveRoot is returned for "cd .." while at the root.
	ErrAboveRoot = errors.New("cannot move above root")

	// ErrPruneRoot is returned when Prune is asked to remove the root.
	ErrPruneRoot = errors.New("cannot prune the root directory")

	// ErrBuildCancelled is returned when the context is cancelled mid-replay.
	ErrBuildCancelled = errors.New("build cancelled")
)
