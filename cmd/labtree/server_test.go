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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, store *reportStore, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	newRouter(store).ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	rec := get(t, &reportStore{}, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_ReportBeforeFirstReplay(t *testing.T) {
	rec := get(t, &reportStore{}, "/report")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_Report(t *testing.T) {
	store := &reportStore{}
	store.set(sampleReports(t))

	rec := get(t, store, "/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var body reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Transcripts, 1)
	assert.Equal(t, int64(48381165), body.Transcripts[0].TotalSize)
	assert.Empty(t, body.Error)
	assert.False(t, body.Updated.IsZero())
}

func TestRouter_ReportKeepsLastGoodOnFailure(t *testing.T) {
	store := &reportStore{}
	store.set(sampleReports(t))
	store.fail(errors.New("boom"))

	rec := get(t, store, "/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var body reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "boom", body.Error)
	assert.Len(t, body.Transcripts, 1)
}

func TestRouter_ReportFailureOnly(t *testing.T) {
	store := &reportStore{}
	store.fail(errors.New("bad transcript"))

	rec := get(t, store, "/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var body reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad transcript", body.Error)
	assert.Empty(t, body.Transcripts)
}

func TestRouter_NoMetricsWithoutPrometheus(t *testing.T) {
	rec := get(t, &reportStore{}, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
