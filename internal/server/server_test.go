// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-pruner/internal/gitrepo"
	"github.com/petar-djukic/go-pruner/internal/pruner"
	"github.com/petar-djukic/go-pruner/pkg/types"
)

func TestHandleAnalyze_InvalidURLIsClientError(t *testing.T) {
	srv := newTestServer(t, pruner.Deps{})

	// A URL without an owner/repo suffix never reaches the clone step.
	rec := postJSON(t, srv, "/analyze-dead-code", `{"repo_url": "https://github.com/broken"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "invalid GitHub repository URL")
}

func TestHandleAnalyze_Success(t *testing.T) {
	fixture := writeFixtureTree(t, map[string]string{
		"app.ts": "export function run(): void {}\n\nfunction stale(): void {}\n",
	})

	srv := newTestServer(t, pruner.Deps{
		Clone: copyTreeClone(t, fixture),
	})

	rec := postJSON(t, srv, "/analyze-dead-code", `{"repo_url": "https://github.com/octocat/demo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report types.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "octocat/demo", report.Repository)
	assert.Equal(t, 1, report.TotalUnusedItems)
	require.Len(t, report.UnusedFunctions, 1)
	assert.Equal(t, "stale", report.UnusedFunctions[0].Name)
}

func TestHandleAnalyze_EmptyFindingsAreArrays(t *testing.T) {
	fixture := writeFixtureTree(t, map[string]string{
		"app.ts": "export function run(): void {}\n",
	})

	srv := newTestServer(t, pruner.Deps{Clone: copyTreeClone(t, fixture)})

	rec := postJSON(t, srv, "/analyze-dead-code", `{"repo_url": "https://github.com/octocat/demo"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	raw := rec.Body.String()
	assert.Contains(t, raw, `"unused_functions":[]`)
	assert.Contains(t, raw, `"unused_classes":[]`)
}

func TestHandleAnalyze_CloneFailureIsServerError(t *testing.T) {
	srv := newTestServer(t, pruner.Deps{
		Clone: func(ctx context.Context, url string, cfg gitrepo.Config) (*gitrepo.Repo, error) {
			return nil, gitrepo.ErrClone
		},
	})

	rec := postJSON(t, srv, "/analyze-dead-code", `{"repo_url": "https://github.com/octocat/demo"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "error analyzing repository")
}

func TestHandleAnalyze_BadBody(t *testing.T) {
	srv := newTestServer(t, pruner.Deps{})
	rec := postJSON(t, srv, "/analyze-dead-code", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyze_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, pruner.Deps{})

	req := httptest.NewRequest(http.MethodGet, "/analyze-dead-code", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleRoot(t *testing.T) {
	srv := newTestServer(t, pruner.Deps{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "go-pruner", body["name"])
	assert.Equal(t, "1.2.3", body["version"])
}

func TestHandleRoot_UnknownPath(t *testing.T) {
	srv := newTestServer(t, pruner.Deps{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Test helpers ---

func newTestServer(t *testing.T, deps pruner.Deps) *Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	if deps.Logger == nil {
		deps.Logger = log
	}
	return New(Config{Addr: ":0", Version: "1.2.3"}, pruner.NewRunner(deps), log)
}

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func writeFixtureTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// copyTreeClone stands in for a real clone: it copies the fixture tree
// into the requested work directory, backed by no remote. Good enough for
// analyze-only requests.
func copyTreeClone(t *testing.T, fixture string) func(ctx context.Context, url string, cfg gitrepo.Config) (*gitrepo.Repo, error) {
	return func(ctx context.Context, url string, cfg gitrepo.Config) (*gitrepo.Repo, error) {
		err := filepath.Walk(fixture, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return err
			}
			rel, err := filepath.Rel(fixture, path)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			dst := filepath.Join(cfg.WorkDir, rel)
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			return os.WriteFile(dst, data, 0o644)
		})
		require.NoError(t, err)
		return nil, nil
	}
}
