package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/jobboard/pkg/models"
)

const companyColumns = `id, name, email, password_hash, image, created, updated`

func (r *SQLiteRepo) CreateCompany(ctx context.Context, c *models.Company) error {
	if c == nil {
		return fmt.Errorf("company is nil")
	}

	ts := now()
	_, err := r.conn.Exec(ctx, `INSERT INTO companies (`+companyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.PasswordHash, c.Image, ts, ts)
	if err != nil {
		return translate(err)
	}

	c.Created, c.Updated = ts, ts
	return nil
}

func (r *SQLiteRepo) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	return r.getCompany(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
}

func (r *SQLiteRepo) GetCompanyByEmail(ctx context.Context, email string) (*models.Company, error) {
	return r.getCompany(ctx, `SELECT `+companyColumns+` FROM companies WHERE email = ?`, email)
}

func (r *SQLiteRepo) getCompany(ctx context.Context, query string, arg any) (*models.Company, error) {
	row := r.conn.QueryRow(ctx, query, arg)
	var c models.Company
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Image, &c.Created, &c.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &c, nil
}

func (r *SQLiteRepo) UpdateCompany(ctx context.Context, c *models.Company) error {
	if c == nil {
		return fmt.Errorf("company is nil")
	}

	ts := now()
	_, err := r.conn.Exec(ctx, `UPDATE companies SET name = ?, image = ?, updated = ? WHERE id = ?`, c.Name, c.Image, ts, c.ID)
	if err != nil {
		return translate(err)
	}

	c.Updated = ts
	return nil
}
