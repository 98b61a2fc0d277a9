package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"invoicelane-backend/internal/usecase/auth"
)

const (
	ContextUserID = "auth.user_id"
	ContextWallet = "auth.wallet_address"
)

// RequireSession validates the bearer token and stashes the session
// identity in the echo context.
func RequireSession(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			claims, err := tokens.Validate(strings.TrimSpace(token))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextWallet, claims.WalletAddress)
			return next(c)
		}
	}
}

// SessionUserID returns the authenticated user id, empty when the route
// is not behind RequireSession.
func SessionUserID(c echo.Context) string {
	id, _ := c.Get(ContextUserID).(string)
	return id
}

func SessionWallet(c echo.Context) string {
	w, _ := c.Get(ContextWallet).(string)
	return w
}
