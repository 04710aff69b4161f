package handler // handler package contains movie endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/storage"
	"github.com/labstack/echo/v4"
)

// movieContainer is the storage namespace for movie posters.
const movieContainer = "movies"

// landingCount caps each landing page list.
const landingCount = 6

// MovieHandler bundles the dependencies of the /api/movies endpoints.
type MovieHandler struct {
	Cfg      config.Config
	Movies   *repository.MovieRepo
	Genres   *repository.GenreRepo
	Theaters *repository.TheaterRepo
	Files    storage.FileStorage
}

// NewMovieHandler constructs a MovieHandler and panics if any dependency is nil.
func NewMovieHandler(cfg config.Config, movies *repository.MovieRepo, genres *repository.GenreRepo, theaters *repository.TheaterRepo, files storage.FileStorage) *MovieHandler {
	if movies == nil || genres == nil || theaters == nil || files == nil {
		panic("nil dependency passed to NewMovieHandler")
	}
	return &MovieHandler{Cfg: cfg, Movies: movies, Genres: genres, Theaters: theaters, Files: files}
}

// Landing handles GET /api/movies: the landing page lists of upcoming
// releases and movies currently in theaters, capped at landingCount each.
func (h *MovieHandler) Landing(c echo.Context) error {
	upcoming, inTheaters, err := h.Movies.Landing(c.Request().Context(), landingCount)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if upcoming == nil {
		upcoming = []*repository.Movie{}
	}
	if inTheaters == nil {
		inTheaters = []*repository.Movie{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"upcomingReleases": upcoming,
		"inTheaters":       inTheaters,
	})
}

// Get handles GET /api/movies/:id. The response aggregates genres, theaters
// and the cast sorted by stored display order, plus the average rating and —
// when the caller presented a valid token — the caller's own rating.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	detail, err := h.Movies.GetDetail(c.Request().Context(), id, optionalUserID(c))
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Filter handles GET /api/movies/filter. All predicates are optional and
// conjunctive; genreId=0 means no genre filter. The totalAmountOfRecords
// header reflects the full match count regardless of the page requested.
func (h *MovieHandler) Filter(c echo.Context) error {
	genreID, _ := strconv.ParseUint(c.QueryParam("genreId"), 10, 64)
	f := repository.MovieFilter{
		Title:            strings.TrimSpace(c.QueryParam("title")),
		GenreID:          genreID,
		InTheaters:       c.QueryParam("inTheaters") == "true",
		UpcomingReleases: c.QueryParam("upcomingReleases") == "true",
		Pagination:       bindPagination(c, h.Cfg),
	}
	items, total, err := h.Movies.Filter(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if items == nil {
		items = []*repository.Movie{}
	}
	setTotalCount(c, total)
	return c.JSON(http.StatusOK, items)
}

// PostGet handles GET /api/movies/postget: the reference data the movie
// creation form needs, all genres and all theaters.
func (h *MovieHandler) PostGet(c echo.Context) error {
	genres, err := h.Genres.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	theaters, err := h.Theaters.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if genres == nil {
		genres = []*repository.Genre{}
	}
	if theaters == nil {
		theaters = []*repository.MovieTheater{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"genres":        genres,
		"movieTheaters": theaters,
	})
}

// PutGet handles GET /api/movies/putget/:id: the movie detail plus the
// selected/non-selected split of genres and theaters the edit form needs.
func (h *MovieHandler) PutGet(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	detail, err := h.Movies.GetDetail(c.Request().Context(), id, 0)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	allGenres, err := h.Genres.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	allTheaters, err := h.Theaters.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	selectedGenres := make(map[uint64]bool, len(detail.Genres))
	for _, g := range detail.Genres {
		selectedGenres[g.ID] = true
	}
	nonSelectedGenres := []*repository.Genre{}
	for _, g := range allGenres {
		if !selectedGenres[g.ID] {
			nonSelectedGenres = append(nonSelectedGenres, g)
		}
	}

	selectedTheaters := make(map[uint64]bool, len(detail.Theaters))
	for _, t := range detail.Theaters {
		selectedTheaters[t.ID] = true
	}
	nonSelectedTheaters := []*repository.MovieTheater{}
	for _, t := range allTheaters {
		if !selectedTheaters[t.ID] {
			nonSelectedTheaters = append(nonSelectedTheaters, t)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"movie":                    detail.Movie,
		"selectedGenres":           detail.Genres,
		"nonSelectedGenres":        nonSelectedGenres,
		"selectedMovieTheaters":    detail.Theaters,
		"nonSelectedMovieTheaters": nonSelectedTheaters,
		"actors":                   detail.Actors,
	})
}

// Create handles POST /api/movies with a multipart form: scalar fields,
// JSON-encoded relation lists and an optional poster file.
func (h *MovieHandler) Create(c echo.Context) error {
	movie, links, err := h.bindMovieForm(c)
	if err != nil {
		return err
	}

	if file, err := c.FormFile("poster"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read poster"})
		}
		defer src.Close()
		url, err := h.Files.Save(c.Request().Context(), movieContainer, file.Filename, src)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not store poster"})
		}
		movie.Poster = url
	}

	if err := h.Movies.Create(c.Request().Context(), movie, links); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create movie"})
	}
	return c.JSON(http.StatusCreated, movie)
}

// Update handles PUT /api/movies/:id. The row and all relation sets are
// replaced; a newly uploaded poster replaces the stored one.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	existing, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	movie, links, err := h.bindMovieForm(c)
	if err != nil {
		return err
	}
	movie.ID = id
	movie.Poster = existing.Poster

	if file, err := c.FormFile("poster"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read poster"})
		}
		defer src.Close()
		url, err := h.Files.Edit(c.Request().Context(), movieContainer, file.Filename, src, existing.Poster)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not store poster"})
		}
		movie.Poster = url
	}

	if err := h.Movies.Update(c.Request().Context(), movie, links); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, movie)
}

// Delete handles DELETE /api/movies/:id. The poster is removed from storage
// only after the row deletion succeeded, never before.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	movie, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	if err := h.Files.Delete(c.Request().Context(), movie.Poster, movieContainer); err != nil {
		c.Logger().Warnf("delete movie poster: %v", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// bindMovieForm reads and validates the multipart fields shared by Create
// and Update. Relation lists arrive JSON-encoded in form values: genresIds
// and movieTheatersIds as arrays of ids, actors as an array of
// {id, character} objects in display order.
func (h *MovieHandler) bindMovieForm(c echo.Context) (*repository.Movie, repository.MovieLinks, error) {
	var links repository.MovieLinks

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return nil, links, echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	releaseDate, err := parseDate(c.FormValue("releaseDate"))
	if err != nil {
		return nil, links, echo.NewHTTPError(http.StatusBadRequest, "invalid releaseDate")
	}

	if err := parseIDList(c.FormValue("genresIds"), &links.GenreIDs); err != nil {
		return nil, links, echo.NewHTTPError(http.StatusBadRequest, "invalid genresIds")
	}
	if err := parseIDList(c.FormValue("movieTheatersIds"), &links.TheaterIDs); err != nil {
		return nil, links, echo.NewHTTPError(http.StatusBadRequest, "invalid movieTheatersIds")
	}
	if raw := strings.TrimSpace(c.FormValue("actors")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &links.Cast); err != nil {
			return nil, links, echo.NewHTTPError(http.StatusBadRequest, "invalid actors")
		}
	}

	movie := &repository.Movie{
		Title:       title,
		Summary:     strings.TrimSpace(c.FormValue("summary")),
		Trailer:     strings.TrimSpace(c.FormValue("trailer")),
		InTheaters:  c.FormValue("inTheaters") == "true",
		ReleaseDate: releaseDate,
	}
	return movie, links, nil
}

// parseIDList decodes a JSON array of numeric ids from a form value. An
// empty value leaves the destination nil.
func parseIDList(raw string, dst *[]uint64) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}
