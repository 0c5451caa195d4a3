// Package company implements recruiter accounts: registration, login,
// token authentication and profile edits.
package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/garnizeh/jobboard/internal/auth"
	"github.com/garnizeh/jobboard/internal/blob"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

const logoFolder = "company-logos"

var validate = validator.New(validator.WithRequiredStructEnabled())

type Service struct {
	repo       repository.CompanyRepo
	blobs      blob.Store
	tokens     *auth.TokenIssuer
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo repository.CompanyRepo, blobs blob.Store, tokens *auth.TokenIssuer, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, blobs: blobs, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Logo     *blob.File
}

type ProfileUpdate struct {
	Name *string
	Logo *blob.File
}

// Session is a freshly issued token with the public projection of its company.
type Session struct {
	Token   string
	Company *models.Company
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	if err := validate.Struct(in); err != nil {
		return nil, registerValidationError(err)
	}

	existing, err := s.repo.GetCompanyByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup company by email: %w", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.ErrDuplicateEmail, "A company with this email already exists.")
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var image string
	if in.Logo != nil {
		image, err = s.blobs.Put(ctx, logoFolder, in.Logo.Filename, in.Logo.ContentType, in.Logo.Body, in.Logo.Size)
		if err != nil {
			return nil, fmt.Errorf("upload logo: %w", err)
		}
	}

	c := &models.Company{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Image:        image,
	}
	if err := s.repo.CreateCompany(ctx, c); err != nil {
		s.discardBlob(ctx, image)
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.New(apperr.ErrDuplicateEmail, "A company with this email already exists.")
		}
		return nil, fmt.Errorf("create company: %w", err)
	}

	token, err := s.tokens.Issue(c.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("company registered", slog.String("company_id", c.ID))
	return &Session{Token: token, Company: c}, nil
}

// Login returns the same error whether the email is unknown or the password
// is wrong.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Please provide email and password.")
	}

	c, err := s.repo.GetCompanyByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup company by email: %w", err)
	}
	if c == nil || !auth.CheckPassword(c.PasswordHash, password) {
		return nil, apperr.New(apperr.ErrInvalidCredentials, "Invalid credentials.")
	}

	token, err := s.tokens.Issue(c.ID)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, Company: c}, nil
}

// Authenticate resolves a recruiter token to its company.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Company, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetCompanyByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup company: %w", err)
	}
	if c == nil {
		return nil, apperr.Unauthorized("Company not found. Token invalid.")
	}

	return c, nil
}

// UpdateProfile applies only the provided fields to the authenticated company.
func (s *Service) UpdateProfile(ctx context.Context, c *models.Company, in ProfileUpdate) (*models.Company, error) {
	updated := *c

	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			updated.Name = name
		}
	}

	if in.Logo != nil {
		url, err := s.blobs.Put(ctx, logoFolder, in.Logo.Filename, in.Logo.ContentType, in.Logo.Body, in.Logo.Size)
		if err != nil {
			return nil, fmt.Errorf("upload logo: %w", err)
		}
		updated.Image = url
	}

	if err := s.repo.UpdateCompany(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}

	return &updated, nil
}

func (s *Service) discardBlob(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.blobs.Delete(ctx, url); err != nil {
		s.logger.Warn("discard logo", slog.String("url", url), slog.Any("err", err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func registerValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch {
			case fe.Tag() == "required":
				return apperr.Validation("Please provide name, email, and password.")
			case fe.Field() == "Email":
				return apperr.Validation("Please provide a valid email address.")
			case fe.Field() == "Password":
				return apperr.Validation("Password must be at least 6 characters.")
			}
		}
	}
	return apperr.Validation("Invalid company details.")
}
