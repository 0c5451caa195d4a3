package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/jobboard/pkg/models"
)

const applicationColumns = `a.id, a.user_id, a.job_id, a.company_id, a.status, a.created, a.updated`

func scanApplication(s scanner, extra ...any) (*models.JobApplication, error) {
	var a models.JobApplication
	dest := append([]any{&a.ID, &a.UserID, &a.JobID, &a.CompanyID, &a.Status, &a.Created, &a.Updated}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return &a, nil
}

// applicantColumns are LEFT JOINed so applications outlive a deleted user.
type applicantColumns struct {
	id, name, email, image, resume sql.NullString
}

func (c *applicantColumns) dest() []any {
	return []any{&c.id, &c.name, &c.email, &c.image, &c.resume}
}

func (c *applicantColumns) summary() *models.ApplicantSummary {
	if !c.id.Valid {
		return nil
	}
	return &models.ApplicantSummary{
		ID:     c.id.String,
		Name:   c.name.String,
		Email:  c.email.String,
		Image:  c.image.String,
		Resume: c.resume.String,
	}
}

// CreateApplication relies on UNIQUE(user_id, job_id): concurrent inserts for
// the same pair yield exactly one row and ErrConflict for the rest.
func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.JobApplication) error {
	if a == nil {
		return fmt.Errorf("application is nil")
	}

	ts := now()
	_, err := r.conn.Exec(ctx, `INSERT INTO job_applications (id, user_id, job_id, company_id, status, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.JobID, a.CompanyID, a.Status, ts, ts)
	if err != nil {
		return translate(err)
	}

	a.Created, a.Updated = ts, ts
	return nil
}

func (r *SQLiteRepo) GetApplicationByID(ctx context.Context, id string) (*models.JobApplication, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+applicationColumns+` FROM job_applications a WHERE a.id = ?`, id)
	a, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return a, nil
}

func (r *SQLiteRepo) GetApplicationByUserAndJob(ctx context.Context, userID, jobID string) (*models.JobApplication, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+applicationColumns+` FROM job_applications a WHERE a.user_id = ? AND a.job_id = ?`, userID, jobID)
	a, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return a, nil
}

func (r *SQLiteRepo) ListApplicationsByUser(ctx context.Context, userID string) ([]models.ApplicationView, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+applicationColumns+`,
		j.id, j.title, j.location, j.category, j.level, j.salary, j.created,
		c.id, c.name, c.image
		FROM job_applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN companies c ON c.id = j.company_id
		WHERE a.user_id = ?
		ORDER BY a.created DESC, a.rowid DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ApplicationView
	for rows.Next() {
		var js models.JobSummary
		var cs models.CompanySummary
		a, err := scanApplication(rows,
			&js.ID, &js.Title, &js.Location, &js.Category, &js.Level, &js.Salary, &js.Created,
			&cs.ID, &cs.Name, &cs.Image)
		if err != nil {
			return nil, err
		}
		js.Company = &cs
		out = append(out, models.ApplicationView{JobApplication: *a, Job: &js})
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.ApplicationView, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+applicationColumns+`,
		u.id, u.name, u.email, u.image, u.resume
		FROM job_applications a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.job_id = ?
		ORDER BY a.created DESC, a.rowid DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ApplicationView
	for rows.Next() {
		var u applicantColumns
		a, err := scanApplication(rows, u.dest()...)
		if err != nil {
			return nil, err
		}
		out = append(out, models.ApplicationView{JobApplication: *a, Applicant: u.summary()})
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) ListApplicationsByCompany(ctx context.Context, companyID string) ([]models.ApplicationView, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+applicationColumns+`,
		u.id, u.name, u.email, u.image, u.resume,
		j.id, j.title, j.location, j.category, j.level
		FROM job_applications a
		JOIN jobs j ON j.id = a.job_id
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.company_id = ?
		ORDER BY a.created DESC, a.rowid DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ApplicationView
	for rows.Next() {
		var u applicantColumns
		var js models.JobSummary
		dest := append(u.dest(), &js.ID, &js.Title, &js.Location, &js.Category, &js.Level)
		a, err := scanApplication(rows, dest...)
		if err != nil {
			return nil, err
		}
		out = append(out, models.ApplicationView{JobApplication: *a, Applicant: u.summary(), Job: &js})
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateApplicationStatus(ctx context.Context, id, status string) error {
	_, err := r.conn.Exec(ctx, `UPDATE job_applications SET status = ?, updated = ? WHERE id = ?`, status, now(), id)
	return err
}
