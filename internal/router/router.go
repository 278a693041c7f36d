package router // package router wires handlers, gates and Redis middleware onto echo

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// Deps collects everything route registration needs.  Limiter, AuthLimiter
// and Cache may be nil, in which case the routes run without them.
type Deps struct {
	DB          *sql.DB
	Auth        *handler.AuthHandler
	Catalog     *handler.CatalogHandler
	Users       *handler.UserHandler
	Tokens      middleware.TokenVerifier
	Gates       map[string]config.ResourceGate
	Limiter     echo.MiddlewareFunc
	AuthLimiter echo.MiddlewareFunc
	Cache       echo.MiddlewareFunc
}

// Register installs every route of the API on e.
func Register(e *echo.Echo, d Deps) {
	// "/movies/" and "/movies" are the same resource.
	e.Pre(echomw.RemoveTrailingSlash())
	if d.Limiter != nil {
		e.Use(d.Limiter)
	}

	RegisterRoutes(e, d.DB)
	RegisterAuth(e, d.Auth, d.Tokens, d.AuthLimiter)

	c := d.Catalog
	registerResource(e, "movies", d, crud{c.ListMovies, c.GetMovie, c.CreateMovie, c.UpdateMovie, c.DeleteMovie})
	registerResource(e, "directors", d, crud{c.ListDirectors, c.GetDirector, c.CreateDirector, c.UpdateDirector, c.DeleteDirector})
	registerResource(e, "genres", d, crud{c.ListGenres, c.GetGenre, c.CreateGenre, c.UpdateGenre, c.DeleteGenre})
	u := d.Users
	registerResource(e, "users", d, crud{u.List, u.Get, u.Create, u.Update, u.Delete})
}

// RegisterRoutes registers the probes, which never require a token.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
}

// RegisterAuth registers login, refresh and /auth/me.  POST /auth and
// PUT /auth are the primary login and refresh routes; /auth/login and
// /auth/refresh are aliases.  limiter, when set, throttles the credential
// endpoints only.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens middleware.TokenVerifier, limiter echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if limiter != nil {
		mw = append(mw, limiter)
	}
	g := e.Group("/auth")
	g.POST("", a.Login, mw...)
	g.PUT("", a.Refresh, mw...)
	g.POST("/login", a.Login, mw...)
	g.POST("/refresh", a.Refresh, mw...)
	g.GET("/me", a.Me, middleware.RequireAuth(tokens))
}

type crud struct {
	list, get, create, update, del echo.HandlerFunc
}

// registerResource mounts /<name> and /<name>/:id with the read policy on
// GET and the write policy on POST, PUT and DELETE.  A resource without a
// configured policy gets the admin gate.
func registerResource(e *echo.Echo, name string, d Deps, h crud) {
	policy, ok := d.Gates[name]
	if !ok {
		policy = config.ResourceGate{Read: config.GateAdmin, Write: config.GateAdmin}
	}
	read := middleware.Gate(d.Tokens, policy.Read)
	write := middleware.Gate(d.Tokens, policy.Write)
	if d.Cache != nil {
		read = append(read, d.Cache)
		write = append(write, d.Cache)
	}

	g := e.Group("/" + name)
	g.GET("", h.list, read...)
	g.GET("/:id", h.get, read...)
	g.POST("", h.create, write...)
	g.PUT("/:id", h.update, write...)
	g.DELETE("/:id", h.del, write...)
}
