package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/garnizeh/jobboard/internal/auth"
	"github.com/garnizeh/jobboard/pkg/models"
)

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// SessionCookie carries the identity provider session when no Authorization
// header is sent.
const SessionCookie = "__session"

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl := &requestLog{}
		r = r.WithContext(context.WithValue(r.Context(), ctxRequestLog, rl))

		m := httpsnoop.CaptureMetrics(next, w, r)

		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", m.Code),
			slog.Duration("duration", m.Duration),
			slog.Int64("bytes", m.Written),
			slog.String("remote", r.RemoteAddr),
		}
		if rl.actor != nil {
			attrs = append(attrs, slog.Any("actor", rl.actor))
		}

		level := slog.LevelInfo
		if m.Code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(r.Context(), level, "request", attrs...)
	})
}

// securityHeaders are sent on every response, preflight and errors included.
var securityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "SAMEORIGIN"},
	{"Referrer-Policy", "no-referrer"},
	{"X-DNS-Prefetch-Control", "off"},
	{"X-Download-Options", "noopen"},
	{"X-Permitted-Cross-Domain-Policies", "none"},
	{"X-XSS-Protection", "0"},
	{"Strict-Transport-Security", "max-age=15552000; includeSubDomains"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Origin-Agent-Cluster", "?1"},
}

func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, h := range securityHeaders {
			w.Header().Set(h[0], h[1])
		}
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware allows origin ("*" for any) to call the API from a browser.
func CORSMiddleware(origin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			if origin != "*" {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic", slog.Any("err", err), slog.String("path", r.URL.Path))
				reportError(r, fmt.Errorf("panic: %v", err))
				writeJSON(w, envelope{"success": false, "message": "Internal server error."}, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// CompanyAuthenticator resolves a recruiter token to its company.
type CompanyAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Company, error)
}

// CompanyAuthMiddleware requires a recruiter token in the Authorization header
// and attaches the full company record to the request context.
func CompanyAuthMiddleware(companies CompanyAuthenticator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, r, apperr.Unauthorized("Not authorized. Token missing."))
				return
			}

			c, err := companies.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, r, err)
				return
			}

			setActor(r, Recruiter{Company: c})
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxRecruiter, Recruiter{Company: c})))
		})
	}
}

// ApplicantAuthMiddleware requires an identity provider session, read from the
// Authorization header or the session cookie, and attaches the applicant's
// user ID to the request context.
func ApplicantAuthMiddleware(sessions auth.SessionVerifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
					token, ok = c.Value, true
				}
			}
			if !ok || sessions == nil {
				writeError(w, r, apperr.Unauthorized("Not authorized. Please log in."))
				return
			}

			userID, err := sessions.Verify(r.Context(), token)
			if err != nil {
				writeError(w, r, err)
				return
			}

			a := Applicant{UserID: userID}
			setActor(r, a)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxApplicant, a)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}
