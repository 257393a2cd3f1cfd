package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"salespipeline/internal/service"
)

// UserHandler bundles the user procedures.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.CreateUserInput true "User payload"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /createUser [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req service.CreateUserInput
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err)
	}
	user, err := h.svc.CreateUser(c.Request().Context(), req)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Failure 500 {object} errors.ErrorResponse
// @Router /getUsers [get]
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.svc.GetUsers(c.Request().Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUserByIDRequest is the input of getUserById. An empty id is a lookup that finds nothing.
type GetUserByIDRequest struct {
	ID *string `query:"id" json:"id" validate:"required"`
}

// GetUserByID godoc
// @Summary Get user by id
// @Description Responds with null when no user has the id.
// @Tags users
// @Produce json
// @Param id query string true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /getUserById [get]
func (h *UserHandler) GetUserByID(c echo.Context) error {
	var req GetUserByIDRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return mapError(err)
	}
	user, err := h.svc.GetUserByID(c.Request().Context(), *req.ID)
	if err != nil {
		return mapError(err)
	}
	if user == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, user)
}
