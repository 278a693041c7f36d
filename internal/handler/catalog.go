package handler

import (
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// CatalogHandler serves the movies, directors and genres resources.
type CatalogHandler struct {
	Movies    *repository.MovieRepo
	Directors *repository.DirectorRepo
	Genres    *repository.GenreRepo
	Events    service.EventPublisher
}

// NewCatalogHandler panics if a repository is missing; a nil publisher is
// replaced by a no-op one.
func NewCatalogHandler(movies *repository.MovieRepo, directors *repository.DirectorRepo, genres *repository.GenreRepo, events service.EventPublisher) *CatalogHandler {
	if movies == nil || directors == nil || genres == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	if events == nil {
		events = service.NopPublisher{}
	}
	return &CatalogHandler{Movies: movies, Directors: directors, Genres: genres, Events: events}
}
