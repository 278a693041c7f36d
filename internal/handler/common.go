package handler // handler defines the echo handlers of the catalog API

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// dbTimeout bounds every repository call made by a handler.
const dbTimeout = 5 * time.Second

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// parseID reads the :id path parameter.  Zero and non-numeric values are
// rejected.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseUintQuery reads an optional positive integer query parameter.  An
// absent parameter yields 0.
func parseUintQuery(c echo.Context, name string) (uint64, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
}

func internalError(c echo.Context, op string, err error) error {
	c.Logger().Errorf("%s: %v", op, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": op + " failed"})
}

// publish emits a catalog event for a successful mutation.  A failed publish
// is logged and never changes the response.
func publish(c echo.Context, p service.EventPublisher, resource, action string, id uint64) {
	if p == nil {
		return
	}
	ev := queue.CatalogEvent{
		Resource:   resource,
		Action:     action,
		ID:         id,
		Actor:      middleware.Username(c),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := p.PublishCatalogEvent(c.Request().Context(), ev); err != nil {
		c.Logger().Warnf("publish %s %s id=%d: %v", resource, action, id, err)
	}
}
