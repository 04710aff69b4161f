package handler // handler package contains movie theater endpoints

import (
	"net/http"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/labstack/echo/v4"
)

// TheaterHandler bundles the dependencies of the /api/movietheaters endpoints.
type TheaterHandler struct {
	Cfg      config.Config
	Theaters *repository.TheaterRepo
}

// NewTheaterHandler constructs a TheaterHandler and panics if the repo is nil.
func NewTheaterHandler(cfg config.Config, theaters *repository.TheaterRepo) *TheaterHandler {
	if theaters == nil {
		panic("nil repository passed to NewTheaterHandler")
	}
	return &TheaterHandler{Cfg: cfg, Theaters: theaters}
}

// theaterReq is the JSON payload for theater create/update. Coordinates are
// validated to their geographic ranges.
type theaterReq struct {
	Name      string  `json:"name" validate:"required,max=75"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// List handles GET /api/movietheaters with the shared pagination contract.
func (h *TheaterHandler) List(c echo.Context) error {
	pg := bindPagination(c, h.Cfg)
	items, total, err := h.Theaters.List(c.Request().Context(), pg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	setTotalCount(c, total)
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/movietheaters/:id.
func (h *TheaterHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	theater, err := h.Theaters.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrTheaterNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "movie theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, theater)
}

// Create handles POST /api/movietheaters.
func (h *TheaterHandler) Create(c echo.Context) error {
	var body theaterReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	theater := &repository.MovieTheater{Name: body.Name, Latitude: body.Latitude, Longitude: body.Longitude}
	if err := h.Theaters.Create(c.Request().Context(), theater); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create movie theater"})
	}
	return c.JSON(http.StatusCreated, theater)
}

// Update handles PUT /api/movietheaters/:id.
func (h *TheaterHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body theaterReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return err
	}
	theater := &repository.MovieTheater{ID: id, Name: body.Name, Latitude: body.Latitude, Longitude: body.Longitude}
	if err := h.Theaters.Update(c.Request().Context(), theater); err != nil {
		if err == repository.ErrTheaterNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "movie theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, theater)
}

// Delete handles DELETE /api/movietheaters/:id.
func (h *TheaterHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Theaters.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrTheaterNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "movie theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
