package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devmatch/account-service/internal/api/middleware"
	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
	"github.com/devmatch/account-service/internal/infrastructure/security"
)

type AuthHandler struct {
	accounts     ports.AccountService
	secureCookie bool
}

// NewAuthHandler returns the signup/signin handler. secureCookie marks the
// session cookie Secure and should be true in production.
func NewAuthHandler(accounts ports.AccountService, secureCookie bool) *AuthHandler {
	return &AuthHandler{accounts: accounts, secureCookie: secureCookie}
}

// SignUp creates a new account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  signUpResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /v1/api/signUp [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.accounts.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, signUpResponse{
		Message: "User signed up successfully",
		User:    account.ID,
	})
}

// SignIn checks credentials and starts a session. The token is set as an
// HttpOnly cookie and also returned in the body.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  signInResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /v1/api/signIn [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, account, err := h.accounts.Authenticate(c.Request().Context(), ports.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, domain.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found with the provided email",
			Error:   err.Error(),
		})
	}
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(security.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})

	return c.JSON(http.StatusOK, signInResponse{
		Message: "User signed in successfully",
		User:    account.ID,
		Token:   token,
	})
}
