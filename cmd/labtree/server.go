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
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/labtree/pkg/telemetry"
)

// reportStore holds the most recent replay outcome for the HTTP server.
//
// Thread Safety: Safe for concurrent use.
type reportStore struct {
	mu      sync.RWMutex
	reports []transcriptReport
	updated time.Time
	lastErr string
}

func (s *reportStore) set(reports []transcriptReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = reports
	s.updated = time.Now()
	s.lastErr = ""
}

// fail records err but keeps the last good reports.
func (s *reportStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err.Error()
}

func (s *reportStore) get() ([]transcriptReport, time.Time, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reports, s.updated, s.lastErr
}

// reportResponse is the body of GET /report.
type reportResponse struct {
	Updated     time.Time          `json:"updated"`
	Error       string             `json:"error,omitempty"`
	Transcripts []transcriptReport `json:"transcripts"`
}

// newRouter builds the report server routes.
//
//	GET /health   liveness
//	GET /report   latest replay reports as JSON
//	GET /metrics  prometheus scrape endpoint, when that exporter is enabled
func newRouter(store *reportStore) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("labtree"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/report", func(c *gin.Context) {
		reports, updated, lastErr := store.get()
		if reports == nil && lastErr == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no replay has completed yet"})
			return
		}
		if reports == nil {
			reports = []transcriptReport{}
		}
		c.JSON(http.StatusOK, reportResponse{
			Updated:     updated,
			Error:       lastErr,
			Transcripts: reports,
		})
	})

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	return router
}
