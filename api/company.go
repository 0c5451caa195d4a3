package api

import (
	"net/http"

	"github.com/garnizeh/jobboard/internal/company"
)

type CompanyHandler struct {
	companies *company.Service
}

func NewCompanyHandler(companies *company.Service) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type companyProfileRequest struct {
	Name *string `json:"name"`
}

// Register accepts multipart (with an optional "image" logo) or JSON.
func (h *CompanyHandler) Register(w http.ResponseWriter, r *http.Request) {
	in := company.RegisterInput{}

	if isMultipart(r) {
		logo, err := parseUpload(w, r, logoUpload)
		defer cleanupForm(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.Name = r.FormValue("name")
		in.Email = r.FormValue("email")
		in.Password = r.FormValue("password")
		in.Logo = logo
	} else {
		var req registerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		in.Name, in.Email, in.Password = req.Name, req.Email, req.Password
	}

	sess, err := h.companies.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, envelope{
		"message": "Company registered successfully.",
		"company": sess.Company,
		"token":   sess.Token,
	})
}

func (h *CompanyHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sess, err := h.companies.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, envelope{
		"message": "Login successful.",
		"company": sess.Company,
		"token":   sess.Token,
	})
}

func (h *CompanyHandler) Profile(w http.ResponseWriter, r *http.Request) {
	c, ok := recruiter(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, envelope{"company": c})
}

// UpdateProfile accepts multipart (name and/or "image") or JSON (name).
func (h *CompanyHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	c, ok := recruiter(w, r)
	if !ok {
		return
	}

	var in company.ProfileUpdate
	if isMultipart(r) {
		logo, err := parseUpload(w, r, logoUpload)
		defer cleanupForm(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if vals, ok := r.MultipartForm.Value["name"]; ok && len(vals) > 0 {
			in.Name = &vals[0]
		}
		in.Logo = logo
	} else {
		var req companyProfileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		in.Name = req.Name
	}

	updated, err := h.companies.UpdateProfile(r.Context(), c, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, envelope{
		"message": "Company profile updated.",
		"company": updated,
	})
}
