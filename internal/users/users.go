// Package users serves the authenticated applicant's own profile.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/garnizeh/jobboard/internal/blob"
	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

const resumeFolder = "resumes"

type Service struct {
	repo   repository.UserRepo
	blobs  blob.Store
	logger *slog.Logger
}

func NewService(repo repository.UserRepo, blobs blob.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, blobs: blobs, logger: logger}
}

// Profile returns the synced profile of userID.
func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found. Please complete registration.")
	}
	return u, nil
}

// UpdateName changes the display name when name is non-blank and returns the
// resulting profile.
func (s *Service) UpdateName(ctx context.Context, userID, name string) (*models.User, error) {
	u, err := s.existing(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" && name != u.Name {
		if err := s.repo.UpdateUserName(ctx, userID, name); err != nil {
			return nil, fmt.Errorf("update user name: %w", err)
		}
		u.Name = name
	}
	return u, nil
}

// ReplaceResume removes the previous resume blob and stores the new one.
// A failed delete is logged and ignored. A failed upload leaves the stored
// reference untouched.
func (s *Service) ReplaceResume(ctx context.Context, userID string, f *blob.File) (string, error) {
	if f == nil {
		return "", apperr.Validation("Please upload a PDF file.")
	}

	u, err := s.existing(ctx, userID)
	if err != nil {
		return "", err
	}

	if u.Resume != "" {
		if err := s.blobs.Delete(ctx, u.Resume); err != nil {
			s.logger.Warn("delete previous resume",
				slog.String("user_id", userID),
				slog.String("url", u.Resume),
				slog.Any("err", err),
			)
		}
	}

	url, err := s.blobs.Put(ctx, resumeFolder, f.Filename, f.ContentType, f.Body, f.Size)
	if err != nil {
		return "", fmt.Errorf("upload resume: %w", err)
	}

	if err := s.repo.SetResume(ctx, userID, url); err != nil {
		return "", fmt.Errorf("store resume reference: %w", err)
	}

	s.logger.Info("resume replaced", slog.String("user_id", userID))
	return url, nil
}

func (s *Service) existing(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, apperr.NotFound("User not found.")
	}
	return u, nil
}
