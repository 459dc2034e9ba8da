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
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/labtree/cmd/labtree/config"
	"github.com/AleutianAI/labtree/pkg/logging"
	"github.com/AleutianAI/labtree/pkg/telemetry"
)

// --- Global Command State ---
var (
	configPath   string
	logLevelFlag string
	jsonLogsFlag bool
	formatFlag   string
	colorFlag    string

	// appConfig is the loaded configuration with flag overrides applied.
	appConfig = config.DefaultConfig()

	// logger is replaced in PersistentPreRunE once the config is known.
	logger = logging.Default()

	shutdownTelemetry func(context.Context) error

	rootCmd = &cobra.Command{
		Use:   "labtree",
		Short: "Rebuild directory trees from cd/ls shell transcripts",
		Long: `labtree replays terminal transcripts made of "cd" and "ls" commands,
reconstructs the directory tree they describe, and reports directory sizes.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.labtree/labtree.yaml)")
	flags.StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&jsonLogsFlag, "json-logs", false, "write logs to stderr as JSON")
	flags.StringVar(&formatFlag, "format", "", "output format: text, yaml, json")
	flags.StringVar(&colorFlag, "color", "", "colour output: auto, always, never")

	rootCmd.AddCommand(replayCmd, treeCmd, pruneCmd, initConfigCmd)
}

// setup loads the config, applies flag overrides and starts logging and
// telemetry. It runs before every subcommand.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevelFlag
	}
	if flags.Changed("json-logs") {
		cfg.Logging.JSON = jsonLogsFlag
	}
	if flags.Changed("format") {
		cfg.Output.Format = formatFlag
	}
	if flags.Changed("color") {
		cfg.Output.Color = colorFlag
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	appConfig = cfg

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger = logging.New(logging.Config{
		Level:   level,
		JSON:    cfg.Logging.JSON,
		LogDir:  cfg.Logging.Dir,
		Service: "labtree",
	})

	shutdown, err := telemetry.Init(cmd.Context(), cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	shutdownTelemetry = shutdown

	logger.Debug("configuration loaded",
		"config", configPath,
		"format", cfg.Output.Format,
		"trace_exporter", cfg.Telemetry.TraceExporter,
		"metric_exporter", cfg.Telemetry.MetricExporter,
	)
	return nil
}

// cleanup flushes telemetry and closes the log file.
func cleanup() {
	if shutdownTelemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
		shutdownTelemetry = nil
	}
	_ = logger.Close()
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write the default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
