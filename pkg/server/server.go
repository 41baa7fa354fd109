// pkg/server/server.go
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/David-Botos/retail-pipeline/pkg/config"
	"github.com/David-Botos/retail-pipeline/pkg/pipeline"
	"github.com/David-Botos/retail-pipeline/pkg/store"
)

// Server exposes the pipeline and the read-side analytics over HTTP
type Server struct {
	pipeline *pipeline.Pipeline
	repo     store.Repository
	cfg      *config.ServerConfig
	logger   *zap.Logger
}

// NewServer creates a new Server instance
func NewServer(p *pipeline.Pipeline, repo store.Repository, cfg *config.ServerConfig, logger *zap.Logger) (*Server, error) {
	if p == nil {
		return nil, errors.New("pipeline cannot be nil")
	}
	if repo == nil {
		return nil, errors.New("repository cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("server configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Server{
		pipeline: p,
		repo:     repo,
		cfg:      cfg,
		logger:   logger.Named("server"),
	}, nil
}

// Handler builds the route table wrapped in CORS middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /analytics", s.handleAnalytics)
	mux.HandleFunc("POST /process-data", s.handleProcessData)

	return s.corsMiddleware(mux)
}

// writeJSON serializes a response body with the given status code
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeError serializes an error payload with the given status code
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
