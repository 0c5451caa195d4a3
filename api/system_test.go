package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garnizeh/jobboard/api"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         api.Pinger
		wantStatus int
		wantState  string
	}{
		{name: "NoDatabase", db: nil, wantStatus: http.StatusOK, wantState: "ok"},
		{name: "Reachable", db: pingerFunc(func(context.Context) error { return nil }), wantStatus: http.StatusOK, wantState: "ok"},
		{name: "Unreachable", db: pingerFunc(func(context.Context) error { return errors.New("down") }), wantStatus: http.StatusServiceUnavailable, wantState: "unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := api.NewSystemHandler(tc.db)
			w := httptest.NewRecorder()
			h.HealthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d got %d", tc.wantStatus, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
				t.Fatalf("expected json content-type, got %q", ct)
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["status"] != tc.wantState || body["service"] != "jobboard" {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	vh := api.NewSystemHandler(nil).VersionHandler("1.2.3", "2026-01-02T00:00:00Z")
	w := httptest.NewRecorder()
	vh(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["version"] != "1.2.3" || body["buildTime"] != "2026-01-02T00:00:00Z" || body["success"] != true {
		t.Fatalf("unexpected body %v", body)
	}
}
