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
	"github.com/spf13/cobra"
)

var (
	showFiles bool

	treeCmd = &cobra.Command{
		Use:   "tree <transcript>",
		Short: "Draw the directory tree rebuilt from a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := replayFile(cmd.Context(), args[0], appConfig.Replay, logger.Slog())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return renderTree(out, fs, newRenderer(out, appConfig.Output.Color), showFiles)
		},
	}
)

func init() {
	treeCmd.Flags().BoolVar(&showFiles, "files", false, "list files under each directory")
}
