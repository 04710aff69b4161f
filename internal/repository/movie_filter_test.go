package repository

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildMovieFilterEmpty(t *testing.T) {
	cond, args := buildMovieFilter(MovieFilter{})
	if cond != "1=1" {
		t.Fatalf("cond = %q, want 1=1", cond)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want none", args)
	}
}

func TestBuildMovieFilterTitleIsCaseInsensitive(t *testing.T) {
	cond, args := buildMovieFilter(MovieFilter{Title: "  INCEPtion "})
	if cond != "LOWER(m.title) LIKE ?" {
		t.Fatalf("cond = %q", cond)
	}
	if !reflect.DeepEqual(args, []any{"%inception%"}) {
		t.Fatalf("args = %v, want lowercased trimmed pattern", args)
	}
}

func TestBuildMovieFilterGenreZeroMeansNoFilter(t *testing.T) {
	cond, args := buildMovieFilter(MovieFilter{GenreID: 0})
	if strings.Contains(cond, "movies_genres") {
		t.Fatalf("genre id 0 must not produce a genre predicate: %q", cond)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want none", args)
	}

	cond, args = buildMovieFilter(MovieFilter{GenreID: 3})
	if !strings.Contains(cond, "movies_genres") {
		t.Fatalf("genre predicate missing: %q", cond)
	}
	if !reflect.DeepEqual(args, []any{uint64(3)}) {
		t.Fatalf("args = %v, want [3]", args)
	}
}

func TestBuildMovieFilterFlags(t *testing.T) {
	cond, _ := buildMovieFilter(MovieFilter{InTheaters: true})
	if cond != "m.in_theaters = TRUE" {
		t.Fatalf("cond = %q", cond)
	}
	cond, _ = buildMovieFilter(MovieFilter{UpcomingReleases: true})
	if cond != "m.release_date > NOW()" {
		t.Fatalf("cond = %q", cond)
	}
}

func TestBuildMovieFilterConjunctionAndArgOrder(t *testing.T) {
	cond, args := buildMovieFilter(MovieFilter{
		Title:            "war",
		GenreID:          7,
		InTheaters:       true,
		UpcomingReleases: true,
	})
	want := "LOWER(m.title) LIKE ? AND m.in_theaters = TRUE AND m.release_date > NOW() AND m.id IN (SELECT mg.movie_id FROM movies_genres mg WHERE mg.genre_id = ?)"
	if cond != want {
		t.Fatalf("cond = %q\nwant   %q", cond, want)
	}
	// Placeholder order must match the argument order: title pattern first,
	// then genre id.
	if !reflect.DeepEqual(args, []any{"%war%", uint64(7)}) {
		t.Fatalf("args = %v", args)
	}
}
