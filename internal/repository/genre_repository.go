// This file defines the Genre model and repository methods. Genres classify
// movies through the movies_genres join table.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Genre represents a genre row. Name is unique by convention.
type Genre struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ErrGenreNotFound is returned when a genre cannot be found in the DB.
var ErrGenreNotFound = errors.New("genre not found")

// GenreRepo encapsulates all database queries related to genres.
type GenreRepo struct {
	db *sql.DB
}

// NewGenreRepo constructs a GenreRepo with the provided DB handle.
func NewGenreRepo(db *sql.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

// Create inserts a new genre and populates its ID.
func (r *GenreRepo) Create(ctx context.Context, g *Genre) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO genres (name) VALUES (?)", g.Name)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// GetByID fetches a genre by its ID, ErrGenreNotFound when missing.
func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (*Genre, error) {
	var g Genre
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM genres WHERE id = ?", id).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns one page of genres ordered by name plus the total row count.
func (r *GenreRepo) List(ctx context.Context, pg Pagination) ([]*Genre, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM genres").Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pg.LimitOffset()
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name FROM genres ORDER BY name ASC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*Genre, 0, limit)
	for rows.Next() {
		g := new(Genre)
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAll returns every genre ordered by name. Used by the movie form
// endpoints which need the full set to compute selected/non-selected splits.
func (r *GenreRepo) ListAll(ctx context.Context) ([]*Genre, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM genres ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Genre
	for rows.Next() {
		g := new(Genre)
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update renames a genre, ErrGenreNotFound when the id does not exist.
func (r *GenreRepo) Update(ctx context.Context, g *Genre) error {
	res, err := r.db.ExecContext(ctx, "UPDATE genres SET name = ? WHERE id = ?", g.Name, g.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM genres WHERE id = ?)", g.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrGenreNotFound
		}
	}
	return nil
}

// Delete removes a genre and its movie links. Deleting a missing id yields
// ErrGenreNotFound so all resources share the same delete semantics.
func (r *GenreRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM movies_genres WHERE genre_id = ?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM genres WHERE id = ?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrGenreNotFound
		return err
	}
	return nil
}
