package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	cookieName  = "auth_token"
	ctxUserID   = "userID"
	ctxUserMail = "userEmail"
)

// RequireUser rejects requests without a valid token from the Authorization
// header or the auth_token cookie, and stores the user in the gin context.
func RequireUser(s *Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
			return
		}
		claims, err := s.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserMail, claims.Email)
		c.Next()
	}
}

func bearer(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if v, err := c.Cookie(cookieName); err == nil {
		return v
	}
	return ""
}

// UserID returns the authenticated user id, or "" outside RequireUser.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// Email returns the authenticated user's email.
func Email(c *gin.Context) string {
	return c.GetString(ctxUserMail)
}
