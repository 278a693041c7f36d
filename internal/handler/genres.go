package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

const resGenres = "genres"

func (h *CatalogHandler) ListGenres(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	list, err := h.Genres.List(ctx)
	if err != nil {
		return internalError(c, "list genres", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) GetGenre(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	d, err := h.Genres.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return notFound(c, "genre not found")
		}
		return internalError(c, "get genre", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *CatalogHandler) CreateGenre(c echo.Context) error {
	name := bindName(c)
	if name == "" {
		return badRequest(c, "name is required")
	}
	d := &model.Genre{Name: name}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Genres.Create(ctx, d); err != nil {
		return internalError(c, "create genre", err)
	}
	publish(c, h.Events, resGenres, queue.ActionCreated, d.ID)
	return c.JSON(http.StatusCreated, d)
}

func (h *CatalogHandler) UpdateGenre(c echo.Context) error {
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
	if err := h.Genres.UpdateName(ctx, id, name); err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return notFound(c, "genre not found")
		}
		return internalError(c, "update genre", err)
	}
	publish(c, h.Events, resGenres, queue.ActionUpdated, id)
	return c.NoContent(http.StatusNoContent)
}

// DeleteGenre answers 409 while movies still reference the genre.
func (h *CatalogHandler) DeleteGenre(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Genres.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrGenreNotFound):
			return notFound(c, "genre not found")
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "genre has movies"})
		}
		return internalError(c, "delete genre", err)
	}
	publish(c, h.Events, resGenres, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}
