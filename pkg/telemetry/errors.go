// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry wires OpenTelemetry tracing and metrics for labtree.
//
// Libraries in this module call otel.Tracer and otel.Meter directly. Init
// installs the global providers so those calls export somewhere; without
// Init they fall back to the otel no-op providers.
//
// # Exporters
//
//   - Traces: "stdout", "otlp" (gRPC), or "none"
//   - Metrics: "stdout", "prometheus", or "none"
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
package telemetry

import "errors"

var (
	// ErrNilContext is returned by Init when called with a nil context.
	ErrNilContext = errors.New("context must not be nil")

	// ErrUnknownExporter is returned when an exporter name is not recognised.
	ErrUnknownExporter = errors.New("unknown exporter")
)
