package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/jobboard/internal/auth"
	"github.com/garnizeh/jobboard/internal/blob"
	"github.com/garnizeh/jobboard/internal/catalog"
	"github.com/garnizeh/jobboard/internal/company"
	"github.com/garnizeh/jobboard/internal/config"
	"github.com/garnizeh/jobboard/internal/db"
	"github.com/garnizeh/jobboard/internal/identity"
	"github.com/garnizeh/jobboard/internal/repository/sqlite"
	"github.com/garnizeh/jobboard/internal/users"
	"github.com/garnizeh/jobboard/internal/workflow"
)

// SetupRoutes wires services over db and blobs and returns the full handler,
// cross-cutting middleware included.
func SetupRoutes(cfg *config.Config, version, buildTime string, d *db.DB, blobs blob.Store) (http.Handler, error) {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	SetErrorDetail(!cfg.IsProduction())

	// Repository
	repo := sqlite.New(d, logger)

	// Services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	companies := company.NewService(repo, blobs, tokens, cfg.BcryptCost, logger)
	jobs := catalog.NewService(repo, logger)
	applications := workflow.NewService(repo, repo, logger)
	profiles := users.NewService(repo, blobs, logger)
	syncer := identity.NewSyncer(repo, logger)

	var sessions auth.SessionVerifier
	keyPEM, err := cfg.SessionKeyPEM()
	if err != nil {
		return nil, err
	}
	if keyPEM != nil {
		v, err := auth.NewProviderSessionVerifier(keyPEM, cfg.Identity.Issuer, cfg.Identity.AuthorizedParties)
		if err != nil {
			return nil, err
		}
		sessions = v
	} else {
		logger.Warn("identity session key not configured; applicant routes will reject every request")
	}

	var hooks identity.Verifier
	if cfg.Identity.WebhookSecret != "" {
		v, err := identity.NewSvixVerifier(cfg.Identity.WebhookSecret)
		if err != nil {
			return nil, fmt.Errorf("identity webhook: %w", err)
		}
		hooks = v
	}

	// Create handlers
	systemHandler := NewSystemHandler(d.GetConn())
	companyHandler := NewCompanyHandler(companies)
	jobHandler := NewJobHandler(jobs)
	applicationHandler := NewApplicationHandler(applications)
	userHandler := NewUserHandler(profiles)
	webhookHandler := NewWebhookHandler(hooks, syncer)

	recruiterOnly := CompanyAuthMiddleware(companies)
	applicantOnly := ApplicantAuthMiddleware(sessions)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/webhooks/identity-provider", webhookHandler.Identity).Methods("POST")

	// Company endpoints
	r.HandleFunc("/company/register", companyHandler.Register).Methods("POST")
	r.HandleFunc("/company/login", companyHandler.Login).Methods("POST")
	r.Handle("/company/profile", recruiterOnly(http.HandlerFunc(companyHandler.Profile))).Methods("GET")
	r.Handle("/company/profile", recruiterOnly(http.HandlerFunc(companyHandler.UpdateProfile))).Methods("PUT")

	// Job endpoints; /jobs/company/list must precede /jobs/{id}
	r.HandleFunc("/jobs", jobHandler.List).Methods("GET")
	r.Handle("/jobs", recruiterOnly(http.HandlerFunc(jobHandler.Create))).Methods("POST")
	r.Handle("/jobs/company/list", recruiterOnly(http.HandlerFunc(jobHandler.ListForCompany))).Methods("GET")
	r.HandleFunc("/jobs/{id}", jobHandler.Get).Methods("GET")
	r.Handle("/jobs/{id}", recruiterOnly(http.HandlerFunc(jobHandler.Update))).Methods("PUT")
	r.Handle("/jobs/{id}", recruiterOnly(http.HandlerFunc(jobHandler.Delete))).Methods("DELETE")
	r.Handle("/jobs/{id}/visibility", recruiterOnly(http.HandlerFunc(jobHandler.ToggleVisibility))).Methods("PATCH")

	// Application endpoints
	r.Handle("/applications/user", applicantOnly(http.HandlerFunc(applicationHandler.ListForApplicant))).Methods("GET")
	r.Handle("/applications/company", recruiterOnly(http.HandlerFunc(applicationHandler.ListForCompany))).Methods("GET")
	r.Handle("/applications/job/{jobId}", recruiterOnly(http.HandlerFunc(applicationHandler.ListForJob))).Methods("GET")
	r.Handle("/applications/{id}/status", recruiterOnly(http.HandlerFunc(applicationHandler.SetStatus))).Methods("PATCH")
	r.Handle("/applications/{jobId}", applicantOnly(http.HandlerFunc(applicationHandler.Apply))).Methods("POST")

	// Applicant profile endpoints
	r.Handle("/users/profile", applicantOnly(http.HandlerFunc(userHandler.Profile))).Methods("GET")
	r.Handle("/users/profile", applicantOnly(http.HandlerFunc(userHandler.UpdateProfile))).Methods("PUT")
	r.Handle("/users/resume", applicantOnly(http.HandlerFunc(userHandler.UploadResume))).Methods("POST")

	logger.Debug("routes registered", slog.String("env", cfg.Env))

	// Middleware chain; wrapped outside the router so preflight and
	// unmatched requests pass through it too.
	var h http.Handler = r
	h = RecoveryMiddleware(h)
	h = CORSMiddleware(cfg.CORSOrigin)(h)
	h = SecurityHeadersMiddleware(h)
	h = LoggingMiddleware(h)

	return h, nil
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, envelope{"success": false, "message": "Route " + r.URL.Path + " not found."}, http.StatusNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, envelope{"success": false, "message": "Method " + r.Method + " not allowed."}, http.StatusMethodNotAllowed)
}
