// Package handlers implements the HTTP surface of the access-control
// service. Handlers translate requests into calls on the core
// components and map failures onto the error taxonomy; they hold no
// policy of their own.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/fdumary/HawkEye/internal/credential"
)

// errInvalidRequestBody is the shared message for malformed JSON bodies.
const errInvalidRequestBody = "invalid request body"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// readSample extracts the credential sample bytes from a request:
// the "image" field of a multipart form, or the raw body for direct
// image uploads. Size is capped at credential.MaxSampleBytes.
func readSample(r *http.Request) ([]byte, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(credential.MaxSampleBytes); err != nil {
			return nil, fmt.Errorf("parsing multipart form: %w", err)
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, errors.New("no image provided")
		}
		defer func(f multipart.File) { _ = f.Close() }(file)
		return io.ReadAll(io.LimitReader(file, credential.MaxSampleBytes))
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, credential.MaxSampleBytes))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("no image provided")
	}
	return data, nil
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
