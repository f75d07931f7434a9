package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/YuminosukeSato/regplot/pipeline"
	"github.com/YuminosukeSato/regplot/pkg/errors"
	"github.com/YuminosukeSato/regplot/pkg/log"
	"github.com/google/uuid"
)

// multipartMemory is the part of a form kept in memory; the rest spills to
// temporary files. The upload itself is capped by Config.MaxUploadBytes.
const multipartMemory = 32 << 20

const msgTooLarge = "request body too large"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": Version,
	})
}

func (s *Server) handleLinearRegression(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	w.Header().Set("X-Run-Id", runID)
	logger := s.logger.With(log.EstimatorIDKey, runID)

	if s.config.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	}

	req, err := readRequest(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("upload rejected", "error", err, "limit", tooLarge.Limit)
			s.jsonError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		logger.Warn("malformed multipart form", "error", err)
		s.jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	req.ID = runID

	res, err := s.pipeline.Run(req)
	if err != nil {
		status, msg := pipeline.StatusOf(err)
		if status >= http.StatusInternalServerError {
			logger.Error("regression request failed", err)
		}
		s.jsonError(w, status, msg)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Image); err != nil {
		logger.Warn("writing chart", "error", err)
	}
}

// readRequest extracts the upload and column fields. A body that is not a
// multipart form is treated as a request without a file.
func readRequest(r *http.Request) (pipeline.Request, error) {
	var req pipeline.Request

	err := r.ParseMultipartForm(multipartMemory)
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		return req, nil
	case err != nil:
		return req, err
	}
	defer r.MultipartForm.RemoveAll()

	req.Features = r.FormValue("features")
	req.Target = r.FormValue("target")

	file, _, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	}
	if err != nil {
		return req, err
	}
	defer file.Close()

	req.Upload, err = io.ReadAll(file)
	if err != nil {
		return req, err
	}
	req.HasUpload = true
	return req, nil
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encoding response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
