package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/jobboard/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Getters return (nil, nil) when the record does not exist.

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("unique constraint violation")

type CompanyRepo interface {
	CreateCompany(ctx context.Context, c *models.Company) error
	GetCompanyByID(ctx context.Context, id string) (*models.Company, error)
	GetCompanyByEmail(ctx context.Context, email string) (*models.Company, error)
	UpdateCompany(ctx context.Context, c *models.Company) error
}

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// UpdateUser overwrites name, email and image. Updating an unknown ID
	// matches zero rows and is not an error.
	UpdateUser(ctx context.Context, u *models.User) error
	UpdateUserName(ctx context.Context, id, name string) error
	SetResume(ctx context.Context, id, resume string) error
	DeleteUser(ctx context.Context, id string) error
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) error
	GetJobByID(ctx context.Context, id string) (*models.Job, error)
	GetJobListing(ctx context.Context, id string) (*models.JobListing, error)
	ListVisibleJobs(ctx context.Context, f models.JobFilter, limit, offset int) ([]models.JobListing, error)
	CountVisibleJobs(ctx context.Context, f models.JobFilter) (int64, error)
	ListJobsByCompany(ctx context.Context, companyID string) ([]models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	// DeleteJob removes the job and its applications.
	DeleteJob(ctx context.Context, id string) error
}

type ApplicationRepo interface {
	// CreateApplication returns ErrConflict when the (user, job) pair exists.
	CreateApplication(ctx context.Context, a *models.JobApplication) error
	GetApplicationByID(ctx context.Context, id string) (*models.JobApplication, error)
	GetApplicationByUserAndJob(ctx context.Context, userID, jobID string) (*models.JobApplication, error)
	ListApplicationsByUser(ctx context.Context, userID string) ([]models.ApplicationView, error)
	ListApplicationsByJob(ctx context.Context, jobID string) ([]models.ApplicationView, error)
	ListApplicationsByCompany(ctx context.Context, companyID string) ([]models.ApplicationView, error)
	UpdateApplicationStatus(ctx context.Context, id, status string) error
}
