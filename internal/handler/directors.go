package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

const resDirectors = "directors"

// nameReq is the body of director and genre create/update.
type nameReq struct {
	Name string `json:"name"`
}

// bindName binds a nameReq and returns the trimmed name, or "" when the
// body is unreadable or the name blank.
func bindName(c echo.Context) string {
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.Name)
}

func (h *CatalogHandler) ListDirectors(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Directors.List(ctx)
	if err != nil {
		return internalError(c, "list directors", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) GetDirector(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	d, err := h.Directors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDirectorNotFound) {
			return notFound(c, "director not found")
		}
		return internalError(c, "get director", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *CatalogHandler) CreateDirector(c echo.Context) error {
	name := bindName(c)
	if name == "" {
		return badRequest(c, "name is required")
	}
	d := &model.Director{Name: name}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Directors.Create(ctx, d); err != nil {
		return internalError(c, "create director", err)
	}
	publish(c, h.Events, resDirectors, queue.ActionCreated, d.ID)
	return c.JSON(http.StatusCreated, d)
}

func (h *CatalogHandler) UpdateDirector(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	name := bindName(c)
	if name == "" {
		return badRequest(c, "name is required")
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Directors.UpdateName(ctx, id, name); err != nil {
		if errors.Is(err, repository.ErrDirectorNotFound) {
			return notFound(c, "director not found")
		}
		return internalError(c, "update director", err)
	}
	publish(c, h.Events, resDirectors, queue.ActionUpdated, id)
	return c.NoContent(http.StatusNoContent)
}

// DeleteDirector answers 409 while movies still reference the director.
func (h *CatalogHandler) DeleteDirector(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Directors.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrDirectorNotFound):
			return notFound(c, "director not found")
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "director has movies"})
		}
		return internalError(c, "delete director", err)
	}
	publish(c, h.Events, resDirectors, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}
