package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carloszaep/my-prostore/internal/model"
	"github.com/carloszaep/my-prostore/internal/service"
)

const (
	SessionCookieName = "session"
	UserIDKey         = "user_id"
	UserRoleKey       = "user_role"
)

func tokenFromRequest(c echo.Context) string {
	if ah := c.Request().Header.Get("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimPrefix(ah, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Auth requires a valid session token and puts the user id and role on the
// request context.
func Auth(auth service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}

			userID, role, err := auth.ParseToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			c.Set(UserIDKey, userID)
			c.Set(UserRoleKey, role)
			return next(c)
		}
	}
}

// OptionalAuth resolves the session when present; guests pass through.
func OptionalAuth(auth service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := tokenFromRequest(c); token != "" {
				if userID, role, err := auth.ParseToken(token); err == nil {
					c.Set(UserIDKey, userID)
					c.Set(UserRoleKey, role)
				}
			}
			return next(c)
		}
	}
}

// AdminOnly goes after Auth and rejects non-admin sessions.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if role, _ := c.Get(UserRoleKey).(string); role != model.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin only")
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}

func UserRole(c echo.Context) string {
	role, _ := c.Get(UserRoleKey).(string)
	return role
}
