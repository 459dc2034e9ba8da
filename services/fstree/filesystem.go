// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fstree

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AleutianAI/labtree/pkg/labeltree"
	"github.com/AleutianAI/labtree/pkg/telemetry"
)

// File is a regular file seen in an ls listing.
type File struct {
	Name string `json:"name" yaml:"name"`
	Size int64  `json:"size" yaml:"size"`
}

// Directory is the payload stored in each tree node.
type Directory struct {
	Name  string
	Files []File
}

// DirectSize returns the total size of the files directly in d.
func (d Directory) DirectSize() int64 {
	var total int64
	for _, f := range d.Files {
		total += f.Size
	}
	return total
}

// addFile appends f unless a file with the same name is already present.
func (d *Directory) addFile(f File) bool {
	for _, existing := range d.Files {
		if existing.Name == f.Name {
			return false
		}
	}
	d.Files = append(d.Files, f)
	return true
}

// FileSystem is a directory tree reconstructed from a transcript.
type FileSystem struct {
	tree *labeltree.Tree[Directory]
	root labeltree.NodeID
}

// Tree returns the underlying tree. Changes made through it are visible to
// every FileSystem query.
func (fs *FileSystem) Tree() *labeltree.Tree[Directory] {
	return fs.tree
}

// Root returns the id of the "/" directory.
func (fs *FileSystem) Root() labeltree.NodeID {
	return fs.root
}

// buildOptions configures Build.
type buildOptions struct {
	logger  *slog.Logger
	maxDirs int
}

// BuildOption is a functional option for Build.
type BuildOption func(*buildOptions)

// WithLogger sets the logger used for per-command debug output.
func WithLogger(l *slog.Logger) BuildOption {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxDirectories caps the number of directories the replay may create.
// Zero means unbounded.
func WithMaxDirectories(n int) BuildOption {
	return func(o *buildOptions) {
		o.maxDirs = n
	}
}

// Build replays cmds and returns the reconstructed FileSystem.
//
// Description:
//
//	Inserts "/" as the root, then replays each command against a cursor
//	that starts at the root:
//	  - cd /     moves the cursor to the root
//	  - cd ..    moves the cursor to its parent
//	  - cd name  moves the cursor to the first child called name
//	  - ls       inserts listed directories under the cursor and adds listed
//	             files to the cursor's payload through Update
//
//	Listing the same directory twice never duplicates entries.
//
// Inputs:
//
//	ctx - Checked between commands. Carries the trace span.
//	cmds - Commands from Parse.
//	opts - Optional logger and directory cap.
//
// Outputs:
//
//	*FileSystem - The reconstructed tree.
//	error - Non-nil if the replay could not be completed.
//
// Errors:
//
//	ErrUnknownDirectory - cd into a directory that was never listed
//	ErrAboveRoot - cd .. at the root
//	ErrBuildCancelled - ctx was cancelled
//	labeltree.ErrMaxNodesExceeded - the directory cap was reached
func Build(ctx context.Context, cmds []Command, opts ...BuildOption) (*FileSystem, error) {
	o := buildOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	ctx, span := startBuildSpan(ctx, len(cmds))
	defer span.End()

	fs, err := replay(ctx, cmds, o)
	if err != nil {
		recordBuildMetrics(ctx, time.Since(start), 0, false)
		telemetry.RecordError(span, err)
		return nil, err
	}

	dirCount := fs.tree.Len()
	recordBuildMetrics(ctx, time.Since(start), dirCount, true)
	setBuildSpanResult(span, dirCount, fs.TotalSize())
	telemetry.SetSpanOK(span)

	o.logger.Debug("transcript replayed",
		"commands", len(cmds),
		"directories", dirCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return fs, nil
}

func replay(ctx context.Context, cmds []Command, o buildOptions) (*FileSystem, error) {
	fs := &FileSystem{
		tree: labeltree.New[Directory](labeltree.WithMaxNodes(o.maxDirs)),
	}

	root, err := fs.tree.Insert(labeltree.NoParent, Directory{Name: "/"})
	if err != nil {
		return nil, fmt.Errorf("insert root: %w", err)
	}
	fs.root = root
	cursor := root

	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildCancelled, err)
		}
		recordCommand(ctx, cmd.Kind)

		switch cmd.Kind {
		case CmdRoot:
			cursor = root

		case CmdUp:
			node, _ := fs.tree.Lookup(cursor)
			if !node.HasParent() {
				return nil, fmt.Errorf("%w: line %d", ErrAboveRoot, cmd.Line)
			}
			cursor = node.Parent

		case CmdChangeDir:
			child, ok := fs.childByName(cursor, cmd.Name)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: %s in %s",
					ErrUnknownDirectory, cmd.Line, cmd.Name, fs.Path(cursor))
			}
			cursor = child

		case CmdList:
			if err := fs.applyListing(cursor, cmd.Entries); err != nil {
				return nil, fmt.Errorf("line %d: %w", cmd.Line, err)
			}

		default:
			return nil, fmt.Errorf("%w: line %d: kind %d", ErrUnknownCommand, cmd.Line, cmd.Kind)
		}

		if o.logger.Enabled(ctx, slog.LevelDebug) {
			o.logger.Debug("replayed command",
				"line", cmd.Line,
				"command", cmd.Kind.String(),
				"name", cmd.Name,
				"cwd", fs.Path(cursor),
			)
		}
	}

	return fs, nil
}

func (fs *FileSystem) applyListing(cursor labeltree.NodeID, entries []Entry) error {
	for _, e := range entries {
		if e.Dir {
			if _, exists := fs.childByName(cursor, e.Name); exists {
				continue
			}
			if _, err := fs.tree.Insert(cursor, Directory{Name: e.Name}); err != nil {
				return fmt.Errorf("insert directory %s: %w", e.Name, err)
			}
			continue
		}

		file := File{Name: e.Name, Size: e.Size}
		err := fs.tree.Update(cursor, func(n *labeltree.Node[Directory]) {
			n.Data.addFile(file)
		})
		if err != nil {
			return fmt.Errorf("add file %s: %w", e.Name, err)
		}
	}
	return nil
}

// childByName returns the first child of parent whose directory name is name.
func (fs *FileSystem) childByName(parent labeltree.NodeID, name string) (labeltree.NodeID, bool) {
	node, ok := fs.tree.Lookup(parent)
	if !ok {
		return labeltree.NoParent, false
	}
	for _, c := range node.Children {
		child, ok := fs.tree.Lookup(c)
		if ok && child.Data.Name == name {
			return c, true
		}
	}
	return labeltree.NoParent, false
}
