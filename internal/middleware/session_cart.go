package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCartCookieName = "sessionCartId"
	SessionCartKey        = "session_cart_id"

	sessionCartMaxAge = 30 * 24 * time.Hour
)

// SessionCart guarantees every browser session carries a cart id cookie, so
// guests can build a cart before (or without) signing in.
func SessionCart() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var cartID string
			if cookie, err := c.Cookie(SessionCartCookieName); err == nil && cookie.Value != "" {
				cartID = cookie.Value
			} else {
				cartID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCartCookieName,
					Value:    cartID,
					Path:     "/",
					MaxAge:   int(sessionCartMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(SessionCartKey, cartID)
			return next(c)
		}
	}
}

func SessionCartID(c echo.Context) string {
	id, _ := c.Get(SessionCartKey).(string)
	return id
}
