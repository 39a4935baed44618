package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
)

// AccountHandler serves the profile endpoints. All routes sit behind the auth gate.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// GetByID handles GET /v1/api/user/id/:id.
//
// @Summary      Get an account by id
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/api/user/id/{id} [get]
func (h *AccountHandler) GetByID(c echo.Context) error {
	account, err := h.accounts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "User fetched successfully", User: toAccountResponse(account)})
}

// GetByEmail handles GET /v1/api/user/email/:email.
//
// @Summary      Get an account by email
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        email  path      string  true  "Account email"
// @Success      200    {object}  userResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Router       /v1/api/user/email/{email} [get]
func (h *AccountHandler) GetByEmail(c echo.Context) error {
	account, err := h.accounts.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "User fetched successfully", User: toAccountResponse(account)})
}

// List handles GET /v1/api/users.
//
// @Summary      List accounts, newest first
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/api/users [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.accounts.List(c.Request().Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Message: "No users found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Message: "Users fetched successfully", Users: toAccountResponses(accounts)})
}

// Delete handles DELETE /v1/api/user/id/:id. The account is soft-deleted.
//
// @Summary      Soft-delete an account
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/api/user/id/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	account, err := h.accounts.SoftDelete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "User deleted successfully", User: toAccountResponse(account)})
}

// Update handles PATCH /v1/api/user/id/:id.
//
// @Summary      Update profile fields
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                true  "Account id"
// @Param        body  body      updateAccountRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /v1/api/user/id/{id} [patch]
func (h *AccountHandler) Update(c echo.Context) error {
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.accounts.Update(c.Request().Context(), c.Param("id"), toAccountPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "User updated successfully", User: toAccountResponse(account)})
}
