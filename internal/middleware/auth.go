package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/semzi/sledge/internal/auth"
	"github.com/semzi/sledge/pkg/response"
)

const (
	// ContextAdminID is the key for the authenticated admin's ID.
	ContextAdminID = "admin_id"
	// ContextAdminEmail is the key for the authenticated admin's email.
	ContextAdminEmail = "admin_email"
	// ContextSessionID is the key for the session's JWT ID (jti).
	ContextSessionID = "session_id"
)

// AdminAuth validates the bearer token and requires a live server-side
// session: a valid token whose session has been deleted (logout) is
// rejected.
func AdminAuth(jwtService *auth.JWTService, sessions *auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		alive, err := sessions.Exists(c.Request.Context(), claims.ID)
		if err != nil || !alive {
			response.Unauthorized(c, "session expired")
			c.Abort()
			return
		}
		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextAdminEmail, claims.Email)
		c.Set(ContextSessionID, claims.ID)
		c.Next()
	}
}
