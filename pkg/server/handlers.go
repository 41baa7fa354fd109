// pkg/server/handlers.go
package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/retail-pipeline/pkg/reader"
)

// handleAnalytics serves the current layout joined with the most recent
// analysis result.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	combined, err := s.repo.FetchCombinedStoreData(r.Context())
	if err != nil {
		s.logger.Error("Failed to fetch store data", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   err.Error(),
			"loading": false,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"data":      combined.Layout,
		"analytics": combined.Analytics,
		"loading":   false,
	})
}

// handleProcessData accepts one uploaded sales export and runs the full
// pipeline over it. The uploaded temporary file is removed on every exit
// path.
func (s *Server) handleProcessData(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if filename == "" {
		s.writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	if !reader.SupportedExtension(filename) {
		s.writeError(w, http.StatusBadRequest, "Invalid file type. Supported formats: XLSX, XLS, CSV, TXT")
		return
	}

	path, err := s.saveUpload(file, filename)
	if err != nil {
		s.logger.Error("Failed to save uploaded file",
			zap.String("file", filename),
			zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Error while saving the uploaded file")
		return
	}
	defer func() {
		if err := os.RemoveAll(filepath.Dir(path)); err != nil {
			s.logger.Warn("Failed to remove uploaded file",
				zap.String("path", path),
				zap.Error(err))
		}
	}()

	result, err := s.pipeline.Run(r.Context(), path)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":                "Data processed successfully",
		"category_analysis":      result.Analysis,
		"layout_recommendations": result.Layout,
	})
}

// saveUpload copies the uploaded stream into a fresh directory under the
// configured upload root and returns the stored path. Each upload gets
// its own directory so concurrent uploads with the same client filename
// cannot clobber each other, and the audit log still records the
// original name.
func (s *Server) saveUpload(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp(s.cfg.UploadDir, "upload-")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, filename)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.RemoveAll(dir)
		return "", err
	}

	return path, nil
}

// sanitizeFilename strips any path components from a client-supplied
// filename.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
