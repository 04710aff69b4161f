package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// fakeStorage records delete calls so tests can assert whether and when the
// poster was removed.
type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) Save(ctx context.Context, container, fileName string, content io.Reader) (string, error) {
	return "http://example.com/uploads/" + container + "/" + fileName, nil
}

func (f *fakeStorage) Edit(ctx context.Context, container, fileName string, content io.Reader, oldRoute string) (string, error) {
	f.deleted = append(f.deleted, oldRoute)
	return f.Save(ctx, container, fileName, content)
}

func (f *fakeStorage) Delete(ctx context.Context, fileRoute, container string) error {
	f.deleted = append(f.deleted, fileRoute)
	return nil
}

func newMovieTestHandler(t *testing.T) (*MovieHandler, sqlmock.Sqlmock, *fakeStorage) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	files := &fakeStorage{}
	h := &MovieHandler{
		Cfg:      config.Config{PageSizeDefault: 10, PageSizeMax: 50},
		Movies:   repository.NewMovieRepo(db),
		Genres:   repository.NewGenreRepo(db),
		Theaters: repository.NewTheaterRepo(db),
		Files:    files,
	}
	return h, mock, files
}

func deleteContext(id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/movies/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

const poster = "http://example.com/uploads/movies/abc.jpg"

func expectMovieRow(mock sqlmock.Sqlmock, id uint64) {
	mock.ExpectQuery(`(?s)SELECT id, title,.*FROM movies WHERE id = \?`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "title", "summary", "trailer", "in_theaters", "release_date", "poster"}).
			AddRow(id, "Dune", "", "", true, time.Now(), poster))
}

// The poster leaves storage only after the row delete committed.
func TestMovieDeleteRemovesPosterAfterRow(t *testing.T) {
	h, mock, files := newMovieTestHandler(t)

	expectMovieRow(mock, 7)
	mock.ExpectBegin()
	for _, table := range []string{"movies_genres", "movies_theaters", "movies_actors", "ratings"} {
		mock.ExpectExec(`DELETE FROM ` + table).
			WithArgs(uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(`DELETE FROM movies WHERE`).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := deleteContext("7")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("row delete not completed: %v", err)
	}
	if len(files.deleted) != 1 || files.deleted[0] != poster {
		t.Fatalf("storage deletes = %v, want exactly the poster", files.deleted)
	}
}

// When the row delete fails, the poster must stay in storage, otherwise the
// still-existing movie would point at a dead URL.
func TestMovieDeleteKeepsPosterOnRowFailure(t *testing.T) {
	h, mock, files := newMovieTestHandler(t)

	expectMovieRow(mock, 7)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM movies_genres`).
		WithArgs(uint64(7)).
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	c, rec := deleteContext("7")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if len(files.deleted) != 0 {
		t.Fatalf("poster deleted despite failed row delete: %v", files.deleted)
	}
}

// The count header reports the full match count from the count query, not
// the size of the page sent back.
func TestMovieFilterSetsCountHeader(t *testing.T) {
	h, mock, _ := newMovieTestHandler(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM movies m WHERE m\.in_theaters = TRUE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`(?s)SELECT m\.id,.*WHERE m\.in_theaters = TRUE.*LIMIT \? OFFSET \?`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "title", "summary", "trailer", "in_theaters", "release_date", "poster"}).
			AddRow(1, "Alien", "", "", true, time.Now(), ""))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/movies/filter?inTheaters=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Filter(c); err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("totalAmountOfRecords"); got != "42" {
		t.Fatalf("count header = %q, want 42", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("query sequence: %v", err)
	}
}
