package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carloszaep/my-prostore/internal/dto"
	"github.com/carloszaep/my-prostore/internal/middleware"
	"github.com/carloszaep/my-prostore/internal/service"
)

type AuthHandler struct {
	authService  service.AuthService
	cartService  service.CartService
	cookieMaxAge int
}

func NewAuthHandler(authService service.AuthService, cartService service.CartService, sessionMaxAge int) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cartService:  cartService,
		cookieMaxAge: sessionMaxAge,
	}
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "name, email and password are required")
	}
	if req.Password != req.ConfirmPassword {
		return fail(c, http.StatusBadRequest, "passwords do not match")
	}

	token, user, err := h.authService.SignUp(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		return err
	}

	h.setSessionCookie(c, token, h.cookieMaxAge)

	return ok(c, "User registered successfully", map[string]string{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	token, user, err := h.authService.SignIn(ctx, req.Email, req.Password, middleware.SessionCartID(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return fail(c, http.StatusUnauthorized, "Invalid email or password")
		}
		return err
	}

	h.setSessionCookie(c, token, h.cookieMaxAge)

	return ok(c, "Signed in successfully", map[string]string{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// SignOut drops the session and the cart behind it, rotating the cart
// cookie so the next visit starts from a fresh anonymous cart.
func (h *AuthHandler) SignOut(c echo.Context) error {
	if err := h.cartService.DeleteBySession(c.Request().Context(), middleware.SessionCartID(c)); err != nil {
		return err
	}

	h.setSessionCookie(c, "", -1)
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCartCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return ok(c, "Signed out", nil)
}

// ForgotPassword always reports success so the endpoint cannot be used to
// probe which emails have accounts.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.authService.ForgotPassword(ctx, req.Email); err != nil && !errors.Is(err, service.ErrUserNotFound) {
		return err
	}

	return ok(c, "If that email exists, a reset link has been sent", nil)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Password == "" || req.Password != req.ConfirmPassword {
		return fail(c, http.StatusBadRequest, "passwords do not match")
	}

	if err := h.authService.ResetPassword(ctx, req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		return err
	}

	return ok(c, "Password has been reset", nil)
}
