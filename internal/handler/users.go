package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/service"
)

const resUsers = "users"

// UserHandler manages accounts.  Passwords are hashed before they reach the
// repository and hashes never leave it in a response.
type UserHandler struct {
	Users  *repository.UserRepo
	Hasher *auth.Hasher
	Events service.EventPublisher
}

func NewUserHandler(users *repository.UserRepo, hasher *auth.Hasher, events service.EventPublisher) *UserHandler {
	if users == nil || hasher == nil {
		panic("nil dependency passed to NewUserHandler")
	}
	if events == nil {
		events = service.NopPublisher{}
	}
	return &UserHandler{Users: users, Hasher: hasher, Events: events}
}

type userReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"` // user | admin, defaults to user
}

// role returns the normalized role, or "" if it is not a known one.
func (r userReq) role() string {
	role := strings.ToLower(strings.TrimSpace(r.Role))
	if role == "" {
		return model.RoleUser
	}
	if !model.ValidRole(role) {
		return ""
	}
	return role
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		return internalError(c, "list users", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound(c, "user not found")
		}
		return internalError(c, "get user", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Create(c echo.Context) error {
	var req userReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return badRequest(c, "username/password required")
	}
	role := req.role()
	if role == "" {
		return badRequest(c, "invalid role")
	}
	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		return internalError(c, "hash password", err)
	}

	u := &model.User{Username: username, PasswordHash: hash, Role: role}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return internalError(c, "create user", err)
	}
	publish(c, h.Events, resUsers, queue.ActionCreated, u.ID)
	return c.JSON(http.StatusCreated, u)
}

// Update handles PUT /users/:id.  The username is immutable; an empty
// password keeps the stored hash and an absent role keeps the stored role.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req userReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	role := ""
	if strings.TrimSpace(req.Role) != "" {
		if role = req.role(); role == "" {
			return badRequest(c, "invalid role")
		}
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound(c, "user not found")
		}
		return internalError(c, "get user", err)
	}
	if req.Password != "" {
		if u.PasswordHash, err = h.Hasher.Hash(req.Password); err != nil {
			return internalError(c, "hash password", err)
		}
	}
	if role != "" {
		u.Role = role
	}
	if err := h.Users.Update(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound(c, "user not found")
		}
		return internalError(c, "update user", err)
	}
	publish(c, h.Events, resUsers, queue.ActionUpdated, id)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound(c, "user not found")
		}
		return internalError(c, "delete user", err)
	}
	publish(c, h.Events, resUsers, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}
