package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/jobboard/pkg/models"
)

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	ts := now()
	_, err := r.conn.Exec(ctx, `INSERT INTO users (id, name, email, image, resume, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Image, u.Resume, ts, ts)
	if err != nil {
		return translate(err)
	}

	u.Created, u.Updated = ts, ts
	return nil
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, email, image, resume, created, updated FROM users WHERE id = ?`, id)
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Image, &u.Resume, &u.Created, &u.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &u, nil
}

func (r *SQLiteRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE users SET name = ?, email = ?, image = ?, updated = ? WHERE id = ?`, u.Name, u.Email, u.Image, now(), u.ID)
	return translate(err)
}

func (r *SQLiteRepo) UpdateUserName(ctx context.Context, id, name string) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET name = ?, updated = ? WHERE id = ?`, name, now(), id)
	return err
}

func (r *SQLiteRepo) SetResume(ctx context.Context, id, resume string) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET resume = ?, updated = ? WHERE id = ?`, resume, now(), id)
	return err
}

func (r *SQLiteRepo) DeleteUser(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}
