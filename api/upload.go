package api

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/garnizeh/jobboard/internal/blob"
)

const (
	// multipartOverhead covers form fields and part headers on top of the file.
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
)

type uploadRule struct {
	field        string
	maxSize      int64
	exts         []string
	contentTypes []string
	reject       string
}

var (
	logoUpload = uploadRule{
		field:        "image",
		maxSize:      5 << 20,
		exts:         []string{".jpeg", ".jpg", ".png", ".webp", ".gif"},
		contentTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		reject:       "Only image files (jpeg, jpg, png, webp, gif) are allowed.",
	}
	resumeUpload = uploadRule{
		field:        "resume",
		maxSize:      10 << 20,
		exts:         []string{".pdf"},
		contentTypes: []string{"application/pdf"},
		reject:       "Only PDF files are allowed for resumes.",
	}
)

func isMultipart(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "multipart/form-data"
}

// parseUpload parses a multipart request and returns the file in rule.field,
// or nil when the part is absent. The caller must call
// r.MultipartForm.RemoveAll once done.
func parseUpload(w http.ResponseWriter, r *http.Request, rule uploadRule) (*blob.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, rule.maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, apperr.Validation("File too large.")
		}
		return nil, apperr.Validation("Invalid multipart form.")
	}

	f, hdr, err := r.FormFile(rule.field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Validation("Invalid file upload.")
	}
	defer f.Close()

	if hdr.Size > rule.maxSize {
		return nil, apperr.Validation("File too large.")
	}

	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	declared, _, _ := mime.ParseMediaType(hdr.Header.Get("Content-Type"))
	if !slices.Contains(rule.exts, ext) || !slices.Contains(rule.contentTypes, declared) {
		return nil, apperr.Validation(rule.reject)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperr.Validation("Invalid file upload.")
	}
	if !slices.ContainsFunc(rule.contentTypes, mimetype.Detect(data).Is) {
		return nil, apperr.Validation(rule.reject)
	}

	return &blob.File{
		Filename:    hdr.Filename,
		ContentType: declared,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
	}, nil
}

func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
