package models

import "slices"

// Domain models matching the database schema in db/migrations/0001_init.up.sql

// Company is a recruiter account. PasswordHash is never serialized.
type Company struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Image        string `json:"image" db:"image"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
}

// User is a job seeker. ID is issued by the identity provider.
type User struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Email   string `json:"email" db:"email"`
	Image   string `json:"image" db:"image"`
	Resume  string `json:"resume" db:"resume"`
	Created int64  `json:"created" db:"created"`
	Updated int64  `json:"updated" db:"updated"`
}

type Job struct {
	ID          string  `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`
	Location    string  `json:"location" db:"location"`
	Category    string  `json:"category" db:"category"`
	Level       string  `json:"level" db:"level"`
	Salary      float64 `json:"salary" db:"salary"`
	CompanyID   string  `json:"company_id" db:"company_id"`
	Visible     bool    `json:"visible" db:"visible"`
	Created     int64   `json:"created" db:"created"`
	Updated     int64   `json:"updated" db:"updated"`
}

// JobApplication links one applicant to one job. CompanyID is copied from the
// job when the application is created and never recomputed.
type JobApplication struct {
	ID        string `json:"id" db:"id"`
	UserID    string `json:"user_id" db:"user_id"`
	JobID     string `json:"job_id" db:"job_id"`
	CompanyID string `json:"company_id" db:"company_id"`
	Status    string `json:"status" db:"status"`
	Created   int64  `json:"created" db:"created"`
	Updated   int64  `json:"updated" db:"updated"`
}

// Read projections used by list and detail endpoints.

type CompanySummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Image string `json:"image"`
}

type JobSummary struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Location string          `json:"location"`
	Category string          `json:"category"`
	Level    string          `json:"level"`
	Salary   float64         `json:"salary,omitempty"`
	Created  int64           `json:"created,omitempty"`
	Company  *CompanySummary `json:"company,omitempty"`
}

type ApplicantSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Image  string `json:"image"`
	Resume string `json:"resume"`
}

// JobListing is a job with its owning company's public fields.
type JobListing struct {
	Job
	Company CompanySummary `json:"company"`
}

// ApplicationView is an application enriched with whichever related records
// the caller is allowed to see.
type ApplicationView struct {
	JobApplication
	Job       *JobSummary       `json:"job,omitempty"`
	Applicant *ApplicantSummary `json:"applicant,omitempty"`
}

// JobFilter holds the optional public listing filters.
type JobFilter struct {
	Category string
	Level    string
	Location string
	Search   string
}

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

var Categories = []string{
	"Programming",
	"Design",
	"Marketing",
	"Finance",
	"Management",
	"Data Science",
	"Sales",
	"Human Resources",
	"Engineering",
	"Other",
}

var Levels = []string{"Beginner", "Intermediate", "Senior", "Lead", "Director"}

var Statuses = []string{StatusPending, StatusAccepted, StatusRejected}

func ValidCategory(s string) bool { return slices.Contains(Categories, s) }

func ValidLevel(s string) bool { return slices.Contains(Levels, s) }

func ValidStatus(s string) bool { return slices.Contains(Statuses, s) }
