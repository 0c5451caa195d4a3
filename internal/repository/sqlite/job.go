package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/garnizeh/jobboard/pkg/models"
)

const jobColumns = `j.id, j.title, j.description, j.location, j.category, j.level, j.salary, j.company_id, j.visible, j.created, j.updated`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner, extra ...any) (*models.Job, error) {
	var j models.Job
	var visible int
	dest := append([]any{&j.ID, &j.Title, &j.Description, &j.Location, &j.Category, &j.Level, &j.Salary, &j.CompanyID, &visible, &j.Created, &j.Updated}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	j.Visible = visible != 0
	return &j, nil
}

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}

	ts := now()
	_, err := r.conn.Exec(ctx, `INSERT INTO jobs (id, title, description, location, category, level, salary, company_id, visible, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Title, j.Description, j.Location, j.Category, j.Level, j.Salary, j.CompanyID, boolToInt(j.Visible), ts, ts)
	if err != nil {
		return translate(err)
	}

	j.Created, j.Updated = ts, ts
	return nil
}

func (r *SQLiteRepo) GetJobByID(ctx context.Context, id string) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = ?`, id)
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return j, nil
}

// GetJobListing returns the job with its company regardless of visibility.
func (r *SQLiteRepo) GetJobListing(ctx context.Context, id string) (*models.JobListing, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+jobColumns+`, c.id, c.name, c.email, c.image FROM jobs j JOIN companies c ON c.id = j.company_id WHERE j.id = ?`, id)
	var c models.CompanySummary
	j, err := scanJob(row, &c.ID, &c.Name, &c.Email, &c.Image)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &models.JobListing{Job: *j, Company: c}, nil
}

// visibleJobsWhere builds the WHERE clause shared by the public list and count.
func visibleJobsWhere(f models.JobFilter) (string, []any) {
	clauses := []string{"j.visible = 1"}
	var args []any

	if f.Category != "" {
		clauses = append(clauses, "j.category = ?")
		args = append(args, f.Category)
	}
	if f.Level != "" {
		clauses = append(clauses, "j.level = ?")
		args = append(args, f.Level)
	}
	if f.Location != "" {
		clauses = append(clauses, "instr(lower(j.location), lower(?)) > 0")
		args = append(args, f.Location)
	}
	if f.Search != "" {
		clauses = append(clauses, "(instr(lower(j.title), lower(?)) > 0 OR instr(lower(j.description), lower(?)) > 0)")
		args = append(args, f.Search, f.Search)
	}

	return strings.Join(clauses, " AND "), args
}

func (r *SQLiteRepo) ListVisibleJobs(ctx context.Context, f models.JobFilter, limit, offset int) ([]models.JobListing, error) {
	where, args := visibleJobsWhere(f)
	args = append(args, limit, offset)

	rows, err := r.conn.QueryRows(ctx, `SELECT `+jobColumns+`, c.id, c.name, c.image FROM jobs j JOIN companies c ON c.id = j.company_id WHERE `+where+` ORDER BY j.created DESC, j.rowid DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.JobListing
	for rows.Next() {
		var c models.CompanySummary
		j, err := scanJob(rows, &c.ID, &c.Name, &c.Image)
		if err != nil {
			return nil, err
		}
		out = append(out, models.JobListing{Job: *j, Company: c})
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountVisibleJobs(ctx context.Context, f models.JobFilter) (int64, error) {
	where, args := visibleJobsWhere(f)

	var total int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM jobs j WHERE `+where, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *SQLiteRepo) ListJobsByCompany(ctx context.Context, companyID string) ([]models.Job, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.company_id = ? ORDER BY j.created DESC, j.rowid DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *j)
	}

	return out, rows.Err()
}

// UpdateJob rewrites the mutable fields. company_id is never updated.
func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}

	ts := now()
	_, err := r.conn.Exec(ctx, `UPDATE jobs SET title = ?, description = ?, location = ?, category = ?, level = ?, salary = ?, visible = ?, updated = ? WHERE id = ?`,
		j.Title, j.Description, j.Location, j.Category, j.Level, j.Salary, boolToInt(j.Visible), ts, j.ID)
	if err != nil {
		return err
	}

	j.Updated = ts
	return nil
}

func (r *SQLiteRepo) DeleteJob(ctx context.Context, id string) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM job_applications WHERE job_id = ?`, id); err != nil {
			return fmt.Errorf("delete applications: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete job: %w", err)
		}
		return nil
	})
}
