package api

import (
	"net/http"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/garnizeh/jobboard/internal/users"
)

type UserHandler struct {
	users *users.Service
}

func NewUserHandler(u *users.Service) *UserHandler {
	return &UserHandler{users: u}
}

type userProfileRequest struct {
	Name string `json:"name"`
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	a, ok := applicant(w, r)
	if !ok {
		return
	}

	u, err := h.users.Profile(r.Context(), a.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope{"user": u})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	a, ok := applicant(w, r)
	if !ok {
		return
	}

	var req userProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.users.UpdateName(r.Context(), a.UserID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope{
		"message": "Profile updated successfully.",
		"user":    u,
	})
}

func (h *UserHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	a, ok := applicant(w, r)
	if !ok {
		return
	}

	if !isMultipart(r) {
		writeError(w, r, apperr.Validation("Please upload a PDF file."))
		return
	}
	file, err := parseUpload(w, r, resumeUpload)
	defer cleanupForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	url, err := h.users.ReplaceResume(r.Context(), a.UserID, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope{
		"message": "Resume uploaded successfully.",
		"resume":  url,
	})
}
