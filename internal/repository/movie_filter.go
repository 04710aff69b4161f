package repository

import (
	"context"
	"strings"
)

// MovieFilter defines the optional predicates and pagination for the movie
// search endpoint. All active predicates are ANDed. GenreID 0 is the
// sentinel for "no genre filter", never a valid genre id. The boolean flags
// only narrow the result set when true.
type MovieFilter struct {
	Title            string
	GenreID          uint64
	InTheaters       bool
	UpcomingReleases bool
	Pagination
}

// buildMovieFilter translates a MovieFilter into a WHERE condition and its
// arguments. Title matching is case-insensitive: the LIKE runs over LOWER
// on both sides. Upcoming releases means strictly after now, so
// a movie released today is not upcoming. Factored out of Filter so the
// predicate construction is testable without a database.
func buildMovieFilter(f MovieFilter) (cond string, args []any) {
	where := []string{}

	if t := strings.TrimSpace(f.Title); t != "" {
		where = append(where, "LOWER(m.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(t)+"%")
	}
	if f.InTheaters {
		where = append(where, "m.in_theaters = TRUE")
	}
	if f.UpcomingReleases {
		where = append(where, "m.release_date > NOW()")
	}
	if f.GenreID != 0 {
		where = append(where, "m.id IN (SELECT mg.movie_id FROM movies_genres mg WHERE mg.genre_id = ?)")
		args = append(args, f.GenreID)
	}

	if len(where) == 0 {
		return "1=1", nil
	}
	return strings.Join(where, " AND "), args
}

// Filter returns one page of movies matching f ordered by title ascending,
// together with the total number of matching rows. The count runs over the
// same predicate before LIMIT/OFFSET is applied, so the total is independent
// of which page was requested.
func (r *MovieRepo) Filter(ctx context.Context, f MovieFilter) ([]*Movie, int64, error) {
	cond, args := buildMovieFilter(f)

	var total int64
	countSQL := "SELECT COUNT(*) FROM movies m WHERE " + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := f.LimitOffset()
	dataSQL := `SELECT m.id, m.title, m.summary, m.trailer, m.in_theaters, m.release_date, m.poster
		FROM movies m
		WHERE ` + cond + `
		ORDER BY m.title ASC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	out, err := r.scanMovies(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
