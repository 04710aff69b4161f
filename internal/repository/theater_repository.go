// This file defines the MovieTheater model and repository methods. A theater
// stores its location as a latitude/longitude pair; no geographic computation
// happens server-side.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// MovieTheater represents a movie theater row.
type MovieTheater struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ErrTheaterNotFound is returned when a movie theater cannot be found in the DB.
var ErrTheaterNotFound = errors.New("movie theater not found")

// TheaterRepo encapsulates all database queries related to movie theaters.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo with the provided DB handle.
func NewTheaterRepo(db *sql.DB) *TheaterRepo {
	return &TheaterRepo{db: db}
}

// Create inserts a new movie theater and populates its ID.
func (r *TheaterRepo) Create(ctx context.Context, t *MovieTheater) error {
	const q = "INSERT INTO movie_theaters (name, latitude, longitude) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Latitude, t.Longitude)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID fetches a movie theater by its ID, ErrTheaterNotFound when missing.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*MovieTheater, error) {
	const q = "SELECT id, name, latitude, longitude FROM movie_theaters WHERE id = ?"
	var t MovieTheater
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Latitude, &t.Longitude); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns one page of theaters ordered by name plus the total row count.
func (r *TheaterRepo) List(ctx context.Context, pg Pagination) ([]*MovieTheater, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movie_theaters").Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pg.LimitOffset()
	const q = `SELECT id, name, latitude, longitude
	           FROM movie_theaters ORDER BY name ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*MovieTheater, 0, limit)
	for rows.Next() {
		t := new(MovieTheater)
		if err := rows.Scan(&t.ID, &t.Name, &t.Latitude, &t.Longitude); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAll returns every movie theater ordered by name.
func (r *TheaterRepo) ListAll(ctx context.Context) ([]*MovieTheater, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, latitude, longitude FROM movie_theaters ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*MovieTheater
	for rows.Next() {
		t := new(MovieTheater)
		if err := rows.Scan(&t.ID, &t.Name, &t.Latitude, &t.Longitude); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites a theater's name and location, ErrTheaterNotFound when
// the id does not exist.
func (r *TheaterRepo) Update(ctx context.Context, t *MovieTheater) error {
	const q = "UPDATE movie_theaters SET name = ?, latitude = ?, longitude = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Latitude, t.Longitude, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM movie_theaters WHERE id = ?)", t.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrTheaterNotFound
		}
	}
	return nil
}

// Delete removes a theater and its movie links, ErrTheaterNotFound when the
// id does not exist.
func (r *TheaterRepo) Delete(ctx context.Context, id uint64) error {
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
	if _, err = tx.ExecContext(ctx, "DELETE FROM movies_theaters WHERE theater_id = ?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM movie_theaters WHERE id = ?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrTheaterNotFound
		return err
	}
	return nil
}
