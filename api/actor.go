package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/garnizeh/jobboard/pkg/models"
)

type ctxKey string

const (
	ctxRecruiter  ctxKey = "recruiter"
	ctxApplicant  ctxKey = "applicant"
	ctxRequestLog ctxKey = "request_log"
)

// Recruiter is the caller of a request authenticated with a company token.
type Recruiter struct {
	Company *models.Company
}

func (r Recruiter) LogValue() slog.Value {
	return slog.GroupValue(slog.String("kind", "company"), slog.String("id", r.Company.ID))
}

// Applicant is the caller of a request authenticated with an identity
// provider session. The profile row may not exist yet.
type Applicant struct {
	UserID string
}

func (a Applicant) LogValue() slog.Value {
	return slog.GroupValue(slog.String("kind", "applicant"), slog.String("id", a.UserID))
}

// RecruiterFrom returns the recruiter attached by CompanyAuthMiddleware.
func RecruiterFrom(ctx context.Context) (Recruiter, bool) {
	r, ok := ctx.Value(ctxRecruiter).(Recruiter)
	return r, ok && r.Company != nil
}

// ApplicantFrom returns the applicant attached by ApplicantAuthMiddleware.
func ApplicantFrom(ctx context.Context) (Applicant, bool) {
	a, ok := ctx.Value(ctxApplicant).(Applicant)
	return a, ok && a.UserID != ""
}

// requestLog is filled by inner handlers and read back by LoggingMiddleware.
type requestLog struct {
	actor slog.LogValuer
}

func setActor(r *http.Request, actor slog.LogValuer) {
	if rl, ok := r.Context().Value(ctxRequestLog).(*requestLog); ok {
		rl.actor = actor
	}
}

// recruiter fetches the authenticated company or writes a 401.
func recruiter(w http.ResponseWriter, r *http.Request) (*models.Company, bool) {
	rec, ok := RecruiterFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("Not authorized. Token missing."))
		return nil, false
	}
	return rec.Company, true
}

// applicant fetches the authenticated applicant or writes a 401.
func applicant(w http.ResponseWriter, r *http.Request) (Applicant, bool) {
	a, ok := ApplicantFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("Not authorized. Please log in."))
	}
	return a, ok
}
