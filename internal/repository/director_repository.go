package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// ErrDirectorNotFound is returned when a director cannot be found in the DB.
var ErrDirectorNotFound = errors.New("director not found")

// DirectorRepo encapsulates the queries on the `directors` table.
type DirectorRepo struct {
	db *sql.DB
}

func NewDirectorRepo(db *sql.DB) *DirectorRepo { return &DirectorRepo{db: db} }

// Create inserts a director and sets its ID.
func (r *DirectorRepo) Create(ctx context.Context, v *model.Director) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO directors (name) VALUES (?)", v.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a director by id.
func (r *DirectorRepo) GetByID(ctx context.Context, id uint64) (*model.Director, error) {
	v := new(model.Director)
	if err := r.db.QueryRowContext(ctx, "SELECT id, name FROM directors WHERE id = ?", id).Scan(&v.ID, &v.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDirectorNotFound
		}
		return nil, err
	}
	return v, nil
}

// List returns all directors ordered by id.
func (r *DirectorRepo) List(ctx context.Context) ([]*model.Director, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM directors ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Director{}
	for rows.Next() {
		v := new(model.Director)
		if err := rows.Scan(&v.ID, &v.Name); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateName renames director id.
func (r *DirectorRepo) UpdateName(ctx context.Context, id uint64, name string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE directors SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes director id.  It returns ErrConflict while movies still
// reference it.
func (r *DirectorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM directors WHERE id = ?", id)
	if err != nil {
		if isForeignKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDirectorNotFound
	}
	return nil
}
