package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserEmailKey is the gin context key holding the authenticated email.
const UserEmailKey = "user_email"

// TokenParser turns a bearer token into the email it was issued for.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// SessionChecker reports whether a user currently has an open session.
type SessionChecker interface {
	IsLoggedIn(email string) bool
}

// abortUnauthorized answers in the same ErrorMessage/ReturnValue envelope
// as the handlers.
func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ErrorMessage": msg, "ReturnValue": nil})
}

func JWTAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		email, err := tokens.ParseToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(UserEmailKey, email)
		c.Next()
	}
}

// RequireSession rejects requests from users that logged out after their
// token was issued. It must run after JWTAuthMiddleware.
func RequireSession(sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.IsLoggedIn(c.GetString(UserEmailKey)) {
			abortUnauthorized(c, "User is not logged in")
			return
		}
		c.Next()
	}
}
