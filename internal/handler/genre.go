package handler // handler package contains genre endpoints

import (
	"net/http"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/labstack/echo/v4"
)

// GenreHandler bundles the dependencies of the /api/genres endpoints.
type GenreHandler struct {
	Cfg    config.Config
	Genres *repository.GenreRepo
}

// NewGenreHandler constructs a GenreHandler and panics if the repo is nil.
func NewGenreHandler(cfg config.Config, genres *repository.GenreRepo) *GenreHandler {
	if genres == nil {
		panic("nil repository passed to NewGenreHandler")
	}
	return &GenreHandler{Cfg: cfg, Genres: genres}
}

// genreReq is the JSON payload for genre create/update.
type genreReq struct {
	Name string `json:"name" validate:"required,max=75"`
}

// List handles GET /api/genres with the shared pagination contract.
func (h *GenreHandler) List(c echo.Context) error {
	pg := bindPagination(c, h.Cfg)
	items, total, err := h.Genres.List(c.Request().Context(), pg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	setTotalCount(c, total)
	return c.JSON(http.StatusOK, items)
}

// ListAll handles GET /api/genres/all: the unpaginated list selection
// widgets need.
func (h *GenreHandler) ListAll(c echo.Context) error {
	items, err := h.Genres.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if items == nil {
		items = []*repository.Genre{}
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/genres/:id.
func (h *GenreHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	genre, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrGenreNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, genre)
}

// Create handles POST /api/genres.
func (h *GenreHandler) Create(c echo.Context) error {
	var body genreReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	genre := &repository.Genre{Name: body.Name}
	if err := h.Genres.Create(c.Request().Context(), genre); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, map[string]string{"error": "genre name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create genre"})
	}
	return c.JSON(http.StatusCreated, genre)
}

// Update handles PUT /api/genres/:id.
func (h *GenreHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body genreReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	genre := &repository.Genre{ID: id, Name: body.Name}
	if err := h.Genres.Update(c.Request().Context(), genre); err != nil {
		switch err {
		case repository.ErrGenreNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "genre not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, map[string]string{"error": "genre name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, genre)
}

// Delete handles DELETE /api/genres/:id. Missing ids yield 404; delete
// semantics are uniform across all catalog resources.
func (h *GenreHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Genres.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrGenreNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "genre not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
