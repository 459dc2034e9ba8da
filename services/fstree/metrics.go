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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "labtree.fstree"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)
)

// Metrics for transcript replay.
var (
	buildLatency     metric.Float64Histogram
	buildTotal       metric.Int64Counter
	commandsReplayed metric.Int64Counter
	directoriesBuilt metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics registers the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"fstree_build_duration_seconds",
			metric.WithDescription("Duration of transcript replays"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildTotal, err = meter.Int64Counter(
			"fstree_build_total",
			metric.WithDescription("Total number of transcript replays"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		commandsReplayed, err = meter.Int64Counter(
			"fstree_commands_total",
			metric.WithDescription("Commands replayed, by kind"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		directoriesBuilt, err = meter.Int64Histogram(
			"fstree_directories",
			metric.WithDescription("Directories in each reconstructed tree"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordBuildMetrics records one finished replay.
func recordBuildMetrics(ctx context.Context, duration time.Duration, dirCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))
	buildLatency.Record(ctx, duration.Seconds(), attrs)
	buildTotal.Add(ctx, 1, attrs)

	if success {
		directoriesBuilt.Record(ctx, int64(dirCount))
	}
}

// recordCommand counts one replayed command.
func recordCommand(ctx context.Context, kind CommandKind) {
	if err := initMetrics(); err != nil {
		return
	}
	commandsReplayed.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind.String())))
}

func startBuildSpan(ctx context.Context, commandCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "fstree.Build",
		trace.WithAttributes(attribute.Int("fstree.command_count", commandCount)),
	)
}

func setBuildSpanResult(span trace.Span, dirCount int, totalSize int64) {
	span.SetAttributes(
		attribute.Int("fstree.directory_count", dirCount),
		attribute.Int64("fstree.total_size", totalSize),
	)
}
