package handler // handler package contains actor endpoints

import (
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities

	"github.com/iliyamo/movie-catalog/internal/config"     // config supplies page size bounds
	"github.com/iliyamo/movie-catalog/internal/repository" // repository holds database models
	"github.com/iliyamo/movie-catalog/internal/storage"    // storage persists uploaded pictures
	"github.com/labstack/echo/v4"                          // echo is the web framework used for handlers
)

// actorContainer is the storage namespace for actor pictures.
const actorContainer = "actors"

// ActorHandler bundles the dependencies of the /api/actors endpoints.
type ActorHandler struct {
	Cfg    config.Config
	Actors *repository.ActorRepo
	Files  storage.FileStorage
}

// NewActorHandler constructs an ActorHandler and panics if a dependency is nil.
func NewActorHandler(cfg config.Config, actors *repository.ActorRepo, files storage.FileStorage) *ActorHandler {
	if actors == nil || files == nil {
		panic("nil dependency passed to NewActorHandler")
	}
	return &ActorHandler{Cfg: cfg, Actors: actors, Files: files}
}

// List handles GET /api/actors. It reports the pre-pagination row count in
// the totalAmountOfRecords header and returns one page ordered by name.
func (h *ActorHandler) List(c echo.Context) error {
	pg := bindPagination(c, h.Cfg)
	items, total, err := h.Actors.List(c.Request().Context(), pg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	setTotalCount(c, total)
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/actors/:id.
func (h *ActorHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	actor, err := h.Actors.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrActorNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, actor)
}

// SearchByName handles GET /api/actors/searchByName/:query. It feeds the
// cast typeahead on the movie form and returns at most five matches.
func (h *ActorHandler) SearchByName(c echo.Context) error {
	query := strings.ToLower(strings.TrimSpace(c.Param("query")))
	if query == "" {
		return c.JSON(http.StatusOK, []*repository.Actor{})
	}
	items, err := h.Actors.SearchByName(c.Request().Context(), query, 5)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if items == nil {
		items = []*repository.Actor{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/actors with a multipart form: name, dateOfBirth,
// biography and an optional picture file.
func (h *ActorHandler) Create(c echo.Context) error {
	actor, err := h.bindActorForm(c)
	if err != nil {
		return err
	}

	if file, err := c.FormFile("picture"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read picture"})
		}
		defer src.Close()
		url, err := h.Files.Save(c.Request().Context(), actorContainer, file.Filename, src)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not store picture"})
		}
		actor.Picture = url
	}

	if err := h.Actors.Create(c.Request().Context(), actor); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create actor"})
	}
	return c.JSON(http.StatusCreated, actor)
}

// Update handles PUT /api/actors/:id. The row is fully overwritten; when a
// new picture is uploaded the previous one is replaced in storage.
func (h *ActorHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	existing, err := h.Actors.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrActorNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	actor, err := h.bindActorForm(c)
	if err != nil {
		return err
	}
	actor.ID = id
	actor.Picture = existing.Picture

	if file, err := c.FormFile("picture"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read picture"})
		}
		defer src.Close()
		url, err := h.Files.Edit(c.Request().Context(), actorContainer, file.Filename, src, existing.Picture)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not store picture"})
		}
		actor.Picture = url
	}

	if err := h.Actors.Update(c.Request().Context(), actor); err != nil {
		if err == repository.ErrActorNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, actor)
}

// Delete handles DELETE /api/actors/:id. The stored picture is removed only
// after the row delete has succeeded, so a failed delete never orphans the
// database row from its asset.
func (h *ActorHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	actor, err := h.Actors.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrActorNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if err := h.Actors.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrActorNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "actor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	if err := h.Files.Delete(c.Request().Context(), actor.Picture, actorContainer); err != nil {
		// The row is already gone; log-and-continue is handled by echo's
		// logger middleware, the client still gets a success.
		c.Logger().Warnf("delete actor picture: %v", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// bindActorForm reads and validates the scalar multipart fields shared by
// Create and Update. Validation failures come back as echo HTTP errors so
// callers can return them directly.
func (h *ActorHandler) bindActorForm(c echo.Context) (*repository.Actor, error) {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	dob, err := parseDate(c.FormValue("dateOfBirth"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid dateOfBirth")
	}
	return &repository.Actor{
		Name:        name,
		DateOfBirth: dob,
		Biography:   strings.TrimSpace(c.FormValue("biography")),
	}, nil
}
