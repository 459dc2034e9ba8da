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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/labtree/services/fstree"
)

var (
	prunePaths []string

	pruneCmd = &cobra.Command{
		Use:   "prune <transcript> --path <dir> [--path <dir>...]",
		Short: "Remove directories from a rebuilt tree and show what remains",
		Long: `Rebuilds the transcript, then removes each --path in turn. Only the named
directory and its files are removed; its subdirectories are kept and shown
as detached trees.`,
		Args: cobra.ExactArgs(1),
		RunE: runPrune,
	}
)

func init() {
	pruneCmd.Flags().StringSliceVar(&prunePaths, "path", nil, "absolute directory path to remove (repeatable)")
	_ = pruneCmd.MarkFlagRequired("path")
}

func runPrune(cmd *cobra.Command, args []string) error {
	fs, err := replayFile(cmd.Context(), args[0], appConfig.Replay, logger.Slog())
	if err != nil {
		return err
	}
	if err := prune(fs, prunePaths); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if appConfig.Output.Format != "text" {
		return writeReports(out, []transcriptReport{{
			Transcript:  args[0],
			TotalSize:   fs.TotalSize(),
			Directories: fs.Report(),
		}}, appConfig.Output.Format)
	}
	return renderTree(out, fs, newRenderer(out, appConfig.Output.Color), false)
}

// prune removes each path from fs in order.
func prune(fs *fstree.FileSystem, paths []string) error {
	for _, p := range paths {
		if err := fs.Prune(p); err != nil {
			return fmt.Errorf("prune %s: %w", p, err)
		}
		logger.Info("directory pruned", "path", p, "roots", len(fs.Roots()))
	}
	return nil
}
