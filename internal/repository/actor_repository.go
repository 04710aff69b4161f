// This file defines the Actor model and repository methods for CRUD, listing
// and name search. An Actor can appear in many movies; the per-movie cast
// link lives in movie_repository.go.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
	"time"         // time holds the date of birth
)

// Actor represents an actor row persisted in the database. Picture holds the
// URL returned by the file storage service, empty when no picture was
// uploaded.
type Actor struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Biography   string    `json:"biography"`
	Picture     string    `json:"picture"`
}

// ErrActorNotFound is returned when an actor cannot be found in the DB.
var ErrActorNotFound = errors.New("actor not found")

// ActorRepo encapsulates all database queries related to actors.
type ActorRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewActorRepo constructs an ActorRepo with the provided DB handle.
func NewActorRepo(db *sql.DB) *ActorRepo {
	return &ActorRepo{db: db}
}

// Create inserts a new actor. On success the actor's ID field is populated
// with the auto-generated value.
func (r *ActorRepo) Create(ctx context.Context, a *Actor) error {
	const q = "INSERT INTO actors (name, date_of_birth, biography, picture) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, a.Name, a.DateOfBirth, a.Biography, a.Picture)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID fetches an actor by its ID. It returns ErrActorNotFound if no row
// is found.
func (r *ActorRepo) GetByID(ctx context.Context, id uint64) (*Actor, error) {
	const q = "SELECT id, name, date_of_birth, biography, picture FROM actors WHERE id = ?"
	var a Actor
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.DateOfBirth, &a.Biography, &a.Picture); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns one page of actors ordered by name together with the total
// number of actor rows. The count is taken before pagination so list
// responses can report how many records match in total.
func (r *ActorRepo) List(ctx context.Context, pg Pagination) ([]*Actor, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM actors").Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pg.LimitOffset()
	const q = `SELECT id, name, date_of_birth, biography, picture
	           FROM actors ORDER BY name ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*Actor, 0, limit)
	for rows.Next() {
		a := new(Actor)
		if err := rows.Scan(&a.ID, &a.Name, &a.DateOfBirth, &a.Biography, &a.Picture); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// SearchByName returns up to limit actors whose name contains the query,
// case-insensitively, ordered by name. Used by the typeahead on the movie
// form.
func (r *ActorRepo) SearchByName(ctx context.Context, query string, limit int) ([]*Actor, error) {
	const q = `SELECT id, name, date_of_birth, biography, picture
	           FROM actors WHERE LOWER(name) LIKE ? ORDER BY name ASC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Actor
	for rows.Next() {
		a := new(Actor)
		if err := rows.Scan(&a.ID, &a.Name, &a.DateOfBirth, &a.Biography, &a.Picture); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites all mutable fields of an actor. It returns
// ErrActorNotFound when the id does not exist.
func (r *ActorRepo) Update(ctx context.Context, a *Actor) error {
	const q = "UPDATE actors SET name = ?, date_of_birth = ?, biography = ?, picture = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, a.Name, a.DateOfBirth, a.Biography, a.Picture, a.ID)
	if err != nil {
		return err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update, so a
	// missing row must be detected with an existence check first.
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM actors WHERE id = ?)", a.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrActorNotFound
		}
	}
	return nil
}

// Delete removes an actor together with its cast links. Deleting a missing
// id yields ErrActorNotFound.
func (r *ActorRepo) Delete(ctx context.Context, id uint64) error {
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
	if _, err = tx.ExecContext(ctx, "DELETE FROM movies_actors WHERE actor_id = ?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM actors WHERE id = ?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrActorNotFound
		return err
	}
	return nil
}
