// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package server exposes the analysis pipeline over HTTP. The endpoints
// are thin glue: request decoding, error-to-status mapping, and JSON
// encoding. All engine behavior lives below internal/pruner.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/petar-djukic/go-pruner/internal/gitrepo"
	"github.com/petar-djukic/go-pruner/internal/pruner"
	"github.com/petar-djukic/go-pruner/internal/publish"
	"github.com/petar-djukic/go-pruner/internal/source"
)

const (
	readTimeout  = 30 * time.Second
	writeTimeout = 10 * time.Minute // Clone + parse of a large repository
	idleTimeout  = 120 * time.Second
)

// Config configures the HTTP server.
type Config struct {
	Addr    string
	Version string
}

// Server serves the dead-code analysis API.
type Server struct {
	cfg    Config
	runner *pruner.Runner
	log    *logrus.Logger
}

// New creates a Server around the given runner.
func New(cfg Config, runner *pruner.Runner, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{cfg: cfg, runner: runner, log: log}
}

// AnalyzeRequest is the body of POST /analyze-dead-code.
type AnalyzeRequest struct {
	RepoURL  string `json:"repo_url"`
	CreatePR bool   `json:"create_pr"`
	Language string `json:"language,omitempty"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze-dead-code", s.handleAnalyze)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.Addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleAnalyze runs one analysis request. Bad repository URLs are the
// client's fault; everything else that fails the run is a server error
// carrying the cause text. A publish failure is neither: the analysis
// succeeded, so the report is returned with the failure in its
// publish_error field.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := s.runner.Run(r.Context(), pruner.Request{
		RepoURL:  req.RepoURL,
		CreatePR: req.CreatePR,
		Language: req.Language,
	})

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, report)
	case errors.Is(err, gitrepo.ErrInvalidRepoURL):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, publish.ErrPublish) && report != nil:
		s.log.WithError(err).Warn("publish failed")
		writeJSON(w, http.StatusOK, report)
	case errors.Is(err, source.ErrLoad), errors.Is(err, gitrepo.ErrClone):
		s.log.WithError(err).Error("analysis failed")
		writeError(w, http.StatusInternalServerError, "error analyzing repository: "+err.Error())
	default:
		s.log.WithError(err).Error("analysis failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleRoot returns API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name":        "go-pruner",
		"version":     s.cfg.Version,
		"description": "API to analyze GitHub repositories for dead code",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
