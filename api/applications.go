package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/jobboard/internal/workflow"
)

type ApplicationHandler struct {
	workflow *workflow.Service
}

func NewApplicationHandler(wf *workflow.Service) *ApplicationHandler {
	return &ApplicationHandler{workflow: wf}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	a, ok := applicant(w, r)
	if !ok {
		return
	}

	app, err := h.workflow.Apply(r.Context(), a.UserID, mux.Vars(r)["jobId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusCreated, envelope{
		"message":     "Application submitted successfully.",
		"application": app,
	})
}

func (h *ApplicationHandler) ListForApplicant(w http.ResponseWriter, r *http.Request) {
	a, ok := applicant(w, r)
	if !ok {
		return
	}

	apps, err := h.workflow.ListForApplicant(r.Context(), a.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope{"applications": apps, "total": len(apps)})
}

func (h *ApplicationHandler) ListForCompany(w http.ResponseWriter, r *http.Request) {
	c, ok := recruiter(w, r)
	if !ok {
		return
	}

	apps, err := h.workflow.ListForCompany(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope{"applications": apps, "total": len(apps)})
}

func (h *ApplicationHandler) ListForJob(w http.ResponseWriter, r *http.Request) {
	c, ok := recruiter(w, r)
	if !ok {
		return
	}

	apps, err := h.workflow.ListForJob(r.Context(), c, mux.Vars(r)["jobId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, envelope{"applications": apps, "total": len(apps)})
}

func (h *ApplicationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := recruiter(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	app, err := h.workflow.SetStatus(r.Context(), c, mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, http.StatusOK, envelope{
		"message":     "Application " + app.Status + ".",
		"application": app,
	})
}
