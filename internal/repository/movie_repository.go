// This file defines the Movie model and repository methods. A movie links to
// genres and theaters through plain join tables and to actors through a cast
// table that carries a per-movie character name and display order. The
// display order is renumbered 0..n-1 in payload order on every write, so
// reads can rely on order_index being dense and client-supplied values never
// leak into storage.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Movie represents a movie row. Poster holds the URL returned by the file
// storage service, empty when no poster was uploaded.
type Movie struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Trailer     string    `json:"trailer"`
	InTheaters  bool      `json:"inTheaters"`
	ReleaseDate time.Time `json:"releaseDate"`
	Poster      string    `json:"poster"`
}

// CastLink is the write-side shape of one cast entry. The display order is
// derived from slice position, never from the client.
type CastLink struct {
	ActorID   uint64 `json:"id"`
	Character string `json:"character"`
}

// CastMember is the read-side shape of one cast entry, joined with the actor
// row and sorted by stored display order.
type CastMember struct {
	ActorID   uint64 `json:"id"`
	Name      string `json:"name"`
	Picture   string `json:"picture"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// MovieLinks bundles the relation sets attached to a movie on create/update.
type MovieLinks struct {
	GenreIDs   []uint64
	TheaterIDs []uint64
	Cast       []CastLink
}

// MovieDetail aggregates everything a movie detail response needs: the movie
// row, its relations, the average rating across all users and the requesting
// user's own rating.
type MovieDetail struct {
	Movie       `json:"movie"`
	Genres      []*Genre        `json:"genres"`
	Theaters    []*MovieTheater `json:"movieTheaters"`
	Actors      []CastMember    `json:"actors"`
	AverageVote float64         `json:"averageVote"`
	UserVote    int             `json:"userVote"`
}

// ErrMovieNotFound is returned when a movie cannot be found in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo encapsulates all database queries related to movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts a movie together with its genre, theater and cast links in
// one transaction. On success the movie's ID field is populated.
func (r *MovieRepo) Create(ctx context.Context, m *Movie, links MovieLinks) error {
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

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO movies (title, summary, trailer, in_theaters, release_date, poster)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.Title, m.Summary, m.Trailer, m.InTheaters, m.ReleaseDate, m.Poster)
	if err != nil {
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	m.ID = uint64(id)

	err = insertMovieLinks(ctx, tx, m.ID, links)
	return err
}

// Update overwrites a movie row and replaces all of its relation sets in one
// transaction. It returns ErrMovieNotFound when the id does not exist.
func (r *MovieRepo) Update(ctx context.Context, m *Movie, links MovieLinks) error {
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

	var exists bool
	if err = tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM movies WHERE id = ?)", m.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		err = ErrMovieNotFound
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE movies SET title = ?, summary = ?, trailer = ?, in_theaters = ?, release_date = ?, poster = ?
		 WHERE id = ?`,
		m.Title, m.Summary, m.Trailer, m.InTheaters, m.ReleaseDate, m.Poster, m.ID); err != nil {
		return err
	}

	// PUT replaces the relation sets wholesale, so clear and reinsert.
	for _, q := range []string{
		"DELETE FROM movies_genres WHERE movie_id = ?",
		"DELETE FROM movies_theaters WHERE movie_id = ?",
		"DELETE FROM movies_actors WHERE movie_id = ?",
	} {
		if _, err = tx.ExecContext(ctx, q, m.ID); err != nil {
			return err
		}
	}

	err = insertMovieLinks(ctx, tx, m.ID, links)
	return err
}

// insertMovieLinks writes the relation rows for a movie. Cast entries are
// renumbered 0..n-1 in slice order, overwriting whatever order the client
// supplied.
func insertMovieLinks(ctx context.Context, tx *sql.Tx, movieID uint64, links MovieLinks) error {
	for _, gid := range links.GenreIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO movies_genres (movie_id, genre_id) VALUES (?, ?)", movieID, gid); err != nil {
			return err
		}
	}
	for _, tid := range links.TheaterIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO movies_theaters (movie_id, theater_id) VALUES (?, ?)", movieID, tid); err != nil {
			return err
		}
	}
	for i, cl := range links.Cast {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO movies_actors (movie_id, actor_id, cast_character, order_index) VALUES (?, ?, ?, ?)",
			movieID, cl.ActorID, cl.Character, i); err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches a bare movie row, ErrMovieNotFound when missing.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*Movie, error) {
	const q = `SELECT id, title, summary, trailer, in_theaters, release_date, poster
	           FROM movies WHERE id = ?`
	var m Movie
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Title, &m.Summary, &m.Trailer, &m.InTheaters, &m.ReleaseDate, &m.Poster); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetDetail loads a movie with its genres, theaters and ordered cast, plus
// the average rating across all users (0 when unrated) and the requesting
// user's own rating (0 when userID is 0 or the user has not rated).
func (r *MovieRepo) GetDetail(ctx context.Context, id, userID uint64) (*MovieDetail, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &MovieDetail{Movie: *m, Genres: []*Genre{}, Theaters: []*MovieTheater{}, Actors: []CastMember{}}

	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id, g.name FROM genres g
		 JOIN movies_genres mg ON mg.genre_id = g.id
		 WHERE mg.movie_id = ? ORDER BY g.name ASC`, id)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		g := new(Genre)
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			rows.Close()
			return nil, err
		}
		d.Genres = append(d.Genres, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.latitude, t.longitude FROM movie_theaters t
		 JOIN movies_theaters mt ON mt.theater_id = t.id
		 WHERE mt.movie_id = ? ORDER BY t.name ASC`, id)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		t := new(MovieTheater)
		if err := rows.Scan(&t.ID, &t.Name, &t.Latitude, &t.Longitude); err != nil {
			rows.Close()
			return nil, err
		}
		d.Theaters = append(d.Theaters, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Cast sorted by the stored display order, not by insertion order.
	rows, err = r.db.QueryContext(ctx,
		`SELECT a.id, a.name, a.picture, ma.cast_character, ma.order_index
		 FROM movies_actors ma
		 JOIN actors a ON a.id = ma.actor_id
		 WHERE ma.movie_id = ? ORDER BY ma.order_index ASC`, id)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var cm CastMember
		if err := rows.Scan(&cm.ActorID, &cm.Name, &cm.Picture, &cm.Character, &cm.Order); err != nil {
			rows.Close()
			return nil, err
		}
		d.Actors = append(d.Actors, cm)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// COALESCE keeps the average at 0.0 when no ratings exist yet.
	if err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(rate), 0) FROM ratings WHERE movie_id = ?", id).Scan(&d.AverageVote); err != nil {
		return nil, err
	}
	if userID != 0 {
		err := r.db.QueryRowContext(ctx,
			"SELECT rate FROM ratings WHERE movie_id = ? AND user_id = ?", id, userID).Scan(&d.UserVote)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	return d, nil
}

// Landing returns the two lists shown on the landing page: up to limit
// upcoming releases (strictly after now, soonest first) and up to limit
// movies currently in theaters (newest release first).
func (r *MovieRepo) Landing(ctx context.Context, limit int) (upcoming, inTheaters []*Movie, err error) {
	upcoming, err = r.scanMovies(ctx,
		`SELECT id, title, summary, trailer, in_theaters, release_date, poster
		 FROM movies WHERE release_date > NOW()
		 ORDER BY release_date ASC LIMIT ?`, limit)
	if err != nil {
		return nil, nil, err
	}
	inTheaters, err = r.scanMovies(ctx,
		`SELECT id, title, summary, trailer, in_theaters, release_date, poster
		 FROM movies WHERE in_theaters = TRUE
		 ORDER BY release_date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, nil, err
	}
	return upcoming, inTheaters, nil
}

// Delete removes a movie with its relation and rating rows. Deleting a
// missing id yields ErrMovieNotFound. The stored poster is not touched here;
// the handler removes it only after this delete has succeeded.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
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
	for _, q := range []string{
		"DELETE FROM movies_genres WHERE movie_id = ?",
		"DELETE FROM movies_theaters WHERE movie_id = ?",
		"DELETE FROM movies_actors WHERE movie_id = ?",
		"DELETE FROM ratings WHERE movie_id = ?",
	} {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrMovieNotFound
		return err
	}
	return nil
}

// scanMovies runs a query whose columns match the movies table and collects
// the rows.
func (r *MovieRepo) scanMovies(ctx context.Context, query string, args ...any) ([]*Movie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Movie
	for rows.Next() {
		m := new(Movie)
		if err := rows.Scan(&m.ID, &m.Title, &m.Summary, &m.Trailer, &m.InTheaters, &m.ReleaseDate, &m.Poster); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
