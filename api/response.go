package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/garnizeh/jobboard/internal/apperr"
)

const maxJSONBody = 1 << 20

// envelope is the response body shape shared by every endpoint.
type envelope map[string]any

// exposeErrors adds internal error detail to 500 responses.
var exposeErrors = false

// SetErrorDetail controls whether 500 responses include the internal error.
// It must stay off in production.
func SetErrorDetail(on bool) {
	exposeErrors = on
}

// ErrorReporter receives every failure answered with a 5xx status.
type ErrorReporter interface {
	Report(r *http.Request, err error)
}

var reporter ErrorReporter

// SetErrorReporter installs rep for server errors and recovered panics.
// Passing nil disables reporting.
func SetErrorReporter(rep ErrorReporter) {
	reporter = rep
}

func reportError(r *http.Request, err error) {
	if reporter != nil {
		reporter.Report(r, err)
	}
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func respond(w http.ResponseWriter, status int, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["success"] = true
	writeJSON(w, body, status)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	body := envelope{"success": false}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
		reportError(r, err)
		body["message"] = "Server error."
		if exposeErrors {
			body["error"] = err.Error()
		}
	} else {
		body["message"] = apperr.Message(err, http.StatusText(status))
	}

	writeJSON(w, body, status)
}

// decodeJSON reads a JSON request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return apperr.Validation("Request body too large.")
		}
		return apperr.Validation("Invalid request body.")
	}
	return nil
}
