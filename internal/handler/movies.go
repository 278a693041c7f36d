package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

const resMovies = "movies"

type movieReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Trailer     string  `json:"trailer"`
	Year        int     `json:"year"`
	Rating      float64 `json:"rating"`
	GenreID     uint64  `json:"genre_id"`
	DirectorID  uint64  `json:"director_id"`
}

// toMovie validates the payload and returns the movie it describes.
func (r movieReq) toMovie() (*model.Movie, string) {
	title := strings.TrimSpace(r.Title)
	switch {
	case title == "":
		return nil, "title is required"
	case r.GenreID == 0 || r.DirectorID == 0:
		return nil, "genre_id and director_id are required"
	case r.Year < 0:
		return nil, "invalid year"
	case r.Rating < 0 || r.Rating > 10:
		return nil, "rating must be between 0 and 10"
	}
	return &model.Movie{
		Title:       title,
		Description: strings.TrimSpace(r.Description),
		Trailer:     strings.TrimSpace(r.Trailer),
		Year:        r.Year,
		Rating:      r.Rating,
		GenreID:     r.GenreID,
		DirectorID:  r.DirectorID,
	}, ""
}

// ListMovies handles GET /movies.  director_id, genre_id and year narrow
// the result and combine with AND.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	var f model.MovieFilter
	var ok bool
	if f.DirectorID, ok = parseUintQuery(c, "director_id"); !ok {
		return badRequest(c, "invalid director_id")
	}
	if f.GenreID, ok = parseUintQuery(c, "genre_id"); !ok {
		return badRequest(c, "invalid genre_id")
	}
	if raw := c.QueryParam("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y <= 0 {
			return badRequest(c, "invalid year")
		}
		f.Year = y
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	movies, err := h.Movies.List(ctx, f)
	if err != nil {
		return internalError(c, "list movies", err)
	}
	return c.JSON(http.StatusOK, movies)
}

// GetMovie handles GET /movies/:id.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return notFound(c, "movie not found")
		}
		return internalError(c, "get movie", err)
	}
	return c.JSON(http.StatusOK, m)
}

// CreateMovie handles POST /movies.
func (h *CatalogHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	m, msg := req.toMovie()
	if m == nil {
		return badRequest(c, msg)
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Movies.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "unknown genre or director"})
		}
		return internalError(c, "create movie", err)
	}
	publish(c, h.Events, resMovies, queue.ActionCreated, m.ID)
	return c.JSON(http.StatusCreated, m)
}

// UpdateMovie handles PUT /movies/:id.  The body replaces every field.
func (h *CatalogHandler) UpdateMovie(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	m, msg := req.toMovie()
	if m == nil {
		return badRequest(c, msg)
	}
	m.ID = id

	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Movies.Update(ctx, m); err != nil {
		switch {
		case errors.Is(err, repository.ErrMovieNotFound):
			return notFound(c, "movie not found")
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "unknown genre or director"})
		}
		return internalError(c, "update movie", err)
	}
	publish(c, h.Events, resMovies, queue.ActionUpdated, id)
	return c.NoContent(http.StatusNoContent)
}

// DeleteMovie handles DELETE /movies/:id.
func (h *CatalogHandler) DeleteMovie(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return notFound(c, "movie not found")
		}
		return internalError(c, "delete movie", err)
	}
	publish(c, h.Events, resMovies, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}
