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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/labtree/cmd/labtree/config"
	"github.com/AleutianAI/labtree/services/fstree"
)

var (
	watchFlag bool
	serveAddr string

	replayCmd = &cobra.Command{
		Use:   "replay <transcript>...",
		Short: "Rebuild directory trees from transcripts and report their sizes",
		Long: `Replays each transcript, concurrently when several are given, and prints
one size report per transcript.

With --watch the transcripts are replayed again whenever they change.
With --serve the latest reports are published over HTTP at /report, along
with /metrics when the prometheus metric exporter is enabled.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runReplay,
	}
)

func init() {
	replayCmd.Flags().BoolVar(&watchFlag, "watch", false, "replay again when a transcript changes")
	replayCmd.Flags().StringVar(&serveAddr, "serve", "", "serve reports over HTTP on this address, e.g. :9090")
}

// replayResult pairs a transcript path with the tree rebuilt from it.
type replayResult struct {
	Path string
	FS   *fstree.FileSystem
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	log := logger.Slog()

	store := &reportStore{}
	refresh := func() error {
		results, err := replayFiles(ctx, args, appConfig.Replay, log)
		if err != nil {
			store.fail(err)
			return err
		}
		reports := buildReports(results)
		store.set(reports)
		return writeReports(out, reports, appConfig.Output.Format)
	}

	err := refresh()
	if !watchFlag && serveAddr == "" {
		return err
	}
	if err != nil {
		log.Error("replay failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	if serveAddr != "" {
		g.Go(func() error {
			return serve(ctx, serveAddr, store, log)
		})
	}
	if watchFlag {
		g.Go(func() error {
			return watchFiles(ctx, args, appConfig.Replay.Debounce, log, func() {
				log.Info("transcript changed, replaying")
				if err := refresh(); err != nil {
					log.Error("replay failed", "error", err)
				}
			})
		})
	}
	return g.Wait()
}

// replayFiles rebuilds every transcript, at most cfg.Concurrency at once.
// Results keep the order of paths. The first failure cancels the rest.
func replayFiles(ctx context.Context, paths []string, cfg config.ReplayConfig, log *slog.Logger) ([]replayResult, error) {
	results := make([]replayResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Concurrency, 1))
	for i, path := range paths {
		g.Go(func() error {
			fs, err := replayFile(ctx, path, cfg, log)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = replayResult{Path: path, FS: fs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func replayFile(ctx context.Context, path string, cfg config.ReplayConfig, log *slog.Logger) (*fstree.FileSystem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cmds, err := fstree.Parse(f)
	if err != nil {
		return nil, err
	}

	return fstree.Build(ctx, cmds,
		fstree.WithLogger(log.With("transcript", path)),
		fstree.WithMaxDirectories(cfg.MaxDirectories),
	)
}

// serve runs the report server until ctx is cancelled.
func serve(ctx context.Context, addr string, store *reportStore, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving reports", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
