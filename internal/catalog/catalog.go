// Package catalog owns job postings: creation, public listing, and
// owner-scoped mutation.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Service struct {
	jobs   repository.JobRepo
	logger *slog.Logger
}

func NewService(jobs repository.JobRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{jobs: jobs, logger: logger}
}

// JobInput carries the fields required to create a job.
type JobInput struct {
	Title       string   `validate:"required"`
	Description string   `validate:"required"`
	Location    string   `validate:"required"`
	Category    string   `validate:"required"`
	Level       string   `validate:"required"`
	Salary      *float64 `validate:"required"`
}

// JobPatch holds the mutable fields; nil means leave untouched.
type JobPatch struct {
	Title       *string
	Description *string
	Location    *string
	Category    *string
	Level       *string
	Salary      *float64
	Visible     *bool
}

// Page is one page of the public job list.
type Page struct {
	Jobs  []models.JobListing `json:"jobs"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
	Pages int                 `json:"pages"`
}

func (s *Service) Create(ctx context.Context, owner *models.Company, in JobInput) (*models.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)

	if err := validate.Struct(in); err != nil {
		return nil, apperr.Validation("Please provide all required fields: title, description, location, category, level, salary.")
	}
	if err := checkClassification(in.Category, in.Level, *in.Salary); err != nil {
		return nil, err
	}

	job := &models.Job{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Category:    in.Category,
		Level:       in.Level,
		Salary:      *in.Salary,
		CompanyID:   owner.ID,
		Visible:     true,
	}
	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info("job created", slog.String("job_id", job.ID), slog.String("company_id", owner.ID))
	return job, nil
}

// List returns visible jobs only. page is 1-indexed; values below 1 fall back
// to the defaults and pages past the last one are empty.
func (s *Service) List(ctx context.Context, f models.JobFilter, page, limit int) (*Page, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var jobs []models.JobListing
	// an offset past MaxInt cannot address any row
	if page-1 <= math.MaxInt/limit {
		var err error
		jobs, err = s.jobs.ListVisibleJobs(ctx, f, limit, (page-1)*limit)
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
	}
	total, err := s.jobs.CountVisibleJobs(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	if jobs == nil {
		jobs = []models.JobListing{}
	}

	return &Page{
		Jobs:  jobs,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Get returns a job regardless of its visibility.
func (s *Service) Get(ctx context.Context, id string) (*models.JobListing, error) {
	job, err := s.jobs.GetJobListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, apperr.NotFound("Job not found.")
	}
	return job, nil
}

func (s *Service) ListForCompany(ctx context.Context, owner *models.Company) ([]models.Job, error) {
	jobs, err := s.jobs.ListJobsByCompany(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list company jobs: %w", err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, nil
}

func (s *Service) Update(ctx context.Context, actor *models.Company, id string, p JobPatch) (*models.Job, error) {
	job, err := s.ownedJob(ctx, actor, id, "Not authorized to update this job.")
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		job.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		job.Description = *p.Description
	}
	if p.Location != nil {
		job.Location = strings.TrimSpace(*p.Location)
	}
	if p.Category != nil {
		job.Category = *p.Category
	}
	if p.Level != nil {
		job.Level = *p.Level
	}
	if p.Salary != nil {
		job.Salary = *p.Salary
	}
	if p.Visible != nil {
		job.Visible = *p.Visible
	}

	if job.Title == "" || job.Description == "" || job.Location == "" {
		return nil, apperr.Validation("Title, description and location cannot be empty.")
	}
	if err := checkClassification(job.Category, job.Level, job.Salary); err != nil {
		return nil, err
	}

	if err := s.jobs.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

func (s *Service) Delete(ctx context.Context, actor *models.Company, id string) error {
	if _, err := s.ownedJob(ctx, actor, id, "Not authorized to delete this job."); err != nil {
		return err
	}

	if err := s.jobs.DeleteJob(ctx, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	s.logger.Info("job deleted", slog.String("job_id", id), slog.String("company_id", actor.ID))
	return nil
}

// ToggleVisibility flips the job's visible flag and returns the updated job.
func (s *Service) ToggleVisibility(ctx context.Context, actor *models.Company, id string) (*models.Job, error) {
	job, err := s.ownedJob(ctx, actor, id, "Not authorized.")
	if err != nil {
		return nil, err
	}

	job.Visible = !job.Visible
	if err := s.jobs.UpdateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("toggle visibility: %w", err)
	}
	return job, nil
}

// ownedJob loads a job and checks actor owns it before any mutation.
func (s *Service) ownedJob(ctx context.Context, actor *models.Company, id, forbidden string) (*models.Job, error) {
	job, err := s.jobs.GetJobByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, apperr.NotFound("Job not found.")
	}
	if job.CompanyID != actor.ID {
		return nil, apperr.Forbidden(forbidden)
	}
	return job, nil
}

func checkClassification(category, level string, salary float64) error {
	if !models.ValidCategory(category) {
		return apperr.Validation(fmt.Sprintf("Invalid category. Must be one of: %s.", strings.Join(models.Categories, ", ")))
	}
	if !models.ValidLevel(level) {
		return apperr.Validation(fmt.Sprintf("Invalid level. Must be one of: %s.", strings.Join(models.Levels, ", ")))
	}
	if salary < 0 || math.IsNaN(salary) || math.IsInf(salary, 0) {
		return apperr.Validation("Salary must be a non-negative number.")
	}
	return nil
}
