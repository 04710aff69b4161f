package repository

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// loadSchemaColumns parses scripts/schema.sql into table -> column set.
func loadSchemaColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "..", "scripts", "schema.sql"))
	if err != nil {
		t.Fatalf("read schema.sql: %v", err)
	}

	tables := map[string]map[string]bool{}
	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\) ENGINE`)
	for _, m := range re.FindAllStringSubmatch(string(raw), -1) {
		cols := map[string]bool{}
		for _, line := range strings.Split(m[2], "\n") {
			fields := strings.Fields(strings.TrimSpace(line))
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "PRIMARY", "UNIQUE", "KEY", "CONSTRAINT":
				continue
			}
			cols[fields[0]] = true
		}
		tables[m[1]] = cols
	}
	if len(tables) == 0 {
		t.Fatal("no tables parsed from schema.sql")
	}
	return tables
}

// TestSchemaCoversRepositoryColumns cross-checks the DDL against every
// column the repositories name in their queries. A column missing here
// surfaces in production as MySQL error 1054 on the first query that names
// it, e.g. a login that can never succeed.
func TestSchemaCoversRepositoryColumns(t *testing.T) {
	tables := loadSchemaColumns(t)

	wanted := map[string][]string{
		"users":           {"id", "email", "password_hash", "role", "is_active", "created_at", "updated_at"},
		"refresh_tokens":  {"user_id", "token_hash", "expires_at", "revoked_at"},
		"actors":          {"id", "name", "date_of_birth", "biography", "picture"},
		"genres":          {"id", "name"},
		"movie_theaters":  {"id", "name", "latitude", "longitude"},
		"movies":          {"id", "title", "summary", "trailer", "in_theaters", "release_date", "poster"},
		"movies_genres":   {"movie_id", "genre_id"},
		"movies_theaters": {"movie_id", "theater_id"},
		"movies_actors":   {"movie_id", "actor_id", "cast_character", "order_index"},
		"ratings":         {"movie_id", "user_id", "rate"},
	}
	for table, cols := range wanted {
		got, ok := tables[table]
		if !ok {
			t.Errorf("schema.sql does not create table %s", table)
			continue
		}
		for _, col := range cols {
			if !got[col] {
				t.Errorf("schema.sql table %s is missing column %s", table, col)
			}
		}
	}
}

// TestSchemaRatingsUniquePair guards the unique key the one-statement
// rating upsert depends on.
func TestSchemaRatingsUniquePair(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "scripts", "schema.sql"))
	if err != nil {
		t.Fatalf("read schema.sql: %v", err)
	}
	if !strings.Contains(string(raw), "UNIQUE KEY uq_ratings_movie_user (movie_id, user_id)") {
		t.Fatal("ratings table lost its UNIQUE(movie_id, user_id) key")
	}
}
