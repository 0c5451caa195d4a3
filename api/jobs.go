package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/garnizeh/jobboard/internal/apperr"
	"github.com/garnizeh/jobboard/internal/catalog"
	"github.com/garnizeh/jobboard/pkg/models"
)

type JobHandler struct {
	catalog *catalog.Service
}

func NewJobHandler(c *catalog.Service) *JobHandler {
	return &JobHandler{catalog: c}
}

type jobRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Location    *string         `json:"location"`
	Category    *string         `json:"category"`
	Level       *string         `json:"level"`
	Salary      json.RawMessage `json:"salary"`
	Visible     *bool           `json:"visible"`
}

// parseSalary accepts a JSON number or a numeric string. A missing or null
// salary yields nil.
func parseSalary(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s == "" {
			return nil, nil
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return &n, nil
		}
	}

	return nil, apperr.Validation("Salary must be a number.")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.JobFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Level:    strings.TrimSpace(q.Get("level")),
		Location: strings.TrimSpace(q.Get("location")),
		Search:   strings.TrimSpace(q.Get("search")),
	}
	// invalid numbers become 0 and fall back to the defaults
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	res, err := h.catalog.List(r.Context(), f, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, envelope{
		"jobs": res.Jobs,
		"pagination": envelope{
			"total": res.Total,
			"page":  res.Page,
			"limit": res.Limit,
			"pages": res.Pages,
		},
	})
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope{"job": job})
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := recruiter(w, r)
	if !ok {
		return
	}

	var req jobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	salary, err := parseSalary(req.Salary)
	if err != nil {
		writeError(w, r, err)
		return
	}

	job, err := h.catalog.Create(r.Context(), c, catalog.JobInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Location:    deref(req.Location),
		Category:    deref(req.Category),
		Level:       deref(req.Level),
		Salary:      salary,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, envelope{
		"message": "Job created successfully.",
		"job":     job,
	})
}

func (h *JobHandler) ListForCompany(w http.ResponseWriter, r *http.Request) {
	c, ok := recruiter(w, r)
	if !ok {
		return
	}

	jobs, err := h.catalog.ListForCompany(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope{"jobs": jobs, "total": len(jobs)})
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := recruiter(w, r)
	if !ok {
		return
	}

	var req jobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	salary, err := parseSalary(req.Salary)
	if err != nil {
		writeError(w, r, err)
		return
	}

	job, err := h.catalog.Update(r.Context(), c, mux.Vars(r)["id"], catalog.JobPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
		Level:       req.Level,
		Salary:      salary,
		Visible:     req.Visible,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, envelope{
		"message": "Job updated successfully.",
		"job":     job,
	})
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := recruiter(w, r)
	if !ok {
		return
	}

	if err := h.catalog.Delete(r.Context(), c, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope{"message": "Job deleted successfully."})
}

func (h *JobHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	c, ok := recruiter(w, r)
	if !ok {
		return
	}

	job, err := h.catalog.ToggleVisibility(r.Context(), c, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg := "Job is now hidden."
	if job.Visible {
		msg = "Job is now visible."
	}
	respond(w, http.StatusOK, envelope{"message": msg, "visible": job.Visible, "job": job})
}
