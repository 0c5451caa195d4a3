// Package workflow governs job applications from submission to decision.
//
// Status is an unconstrained enum: an owning company may set any of the three
// values at any time, including re-opening a decided application.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

type Service struct {
	jobs         repository.JobRepo
	applications repository.ApplicationRepo
	logger       *slog.Logger
}

func NewService(jobs repository.JobRepo, applications repository.ApplicationRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{jobs: jobs, applications: applications, logger: logger}
}

// Apply submits userID's application to jobID. The lookup for an existing
// application is a fast path only; the storage uniqueness constraint decides
// concurrent submissions.
func (s *Service) Apply(ctx context.Context, userID, jobID string) (*models.JobApplication, error) {
	job, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil || !job.Visible {
		return nil, apperr.NotFound("Job not found or is no longer accepting applications.")
	}

	existing, err := s.applications.GetApplicationByUserAndJob(ctx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("lookup application: %w", err)
	}
	if existing != nil {
		return nil, duplicateApplication()
	}

	app := &models.JobApplication{
		ID:        uuid.New().String(),
		UserID:    userID,
		JobID:     job.ID,
		CompanyID: job.CompanyID,
		Status:    models.StatusPending,
	}
	if err := s.applications.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, duplicateApplication()
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.logger.Info("application submitted",
		slog.String("application_id", app.ID),
		slog.String("job_id", app.JobID),
		slog.String("user_id", userID),
	)
	return app, nil
}

func (s *Service) ListForApplicant(ctx context.Context, userID string) ([]models.ApplicationView, error) {
	apps, err := s.applications.ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications for user: %w", err)
	}
	return nonNil(apps), nil
}

// ListForJob requires actor to own the job; a missing job is reported the
// same way so job IDs of other companies cannot be discovered.
func (s *Service) ListForJob(ctx context.Context, actor *models.Company, jobID string) ([]models.ApplicationView, error) {
	job, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil || job.CompanyID != actor.ID {
		return nil, apperr.Forbidden("Not authorized to view applications for this job.")
	}

	apps, err := s.applications.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications for job: %w", err)
	}
	return nonNil(apps), nil
}

func (s *Service) ListForCompany(ctx context.Context, actor *models.Company) ([]models.ApplicationView, error) {
	apps, err := s.applications.ListApplicationsByCompany(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list applications for company: %w", err)
	}
	return nonNil(apps), nil
}

// SetStatus authorizes against the company copied onto the application at
// creation time, not the job's current owner.
func (s *Service) SetStatus(ctx context.Context, actor *models.Company, id, status string) (*models.JobApplication, error) {
	if !models.ValidStatus(status) {
		return nil, apperr.Validation("Invalid status. Must be 'pending', 'accepted', or 'rejected'.")
	}

	app, err := s.applications.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, apperr.NotFound("Application not found.")
	}
	if app.CompanyID != actor.ID {
		return nil, apperr.Forbidden("Not authorized to update this application.")
	}

	if err := s.applications.UpdateApplicationStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}

	s.logger.Info("application status changed",
		slog.String("application_id", id),
		slog.String("from", app.Status),
		slog.String("to", status),
	)
	app.Status = status
	return app, nil
}

func duplicateApplication() error {
	return apperr.New(apperr.ErrDuplicateApplication, "You have already applied for this job.")
}

func nonNil(apps []models.ApplicationView) []models.ApplicationView {
	if apps == nil {
		return []models.ApplicationView{}
	}
	return apps
}
