package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
)

const (
	// UserIDKey is the gin context key holding the authenticated user id.
	UserIDKey = "user_id"
	// RoleKey is the gin context key holding the authenticated user's role.
	RoleKey = "role"
)

// CurrentUserID returns the authenticated user's id, or "" when the request
// passed through no auth middleware.
func CurrentUserID(c *gin.Context) string {
	id, _ := c.Get(UserIDKey)
	if s, ok := id.(string); ok {
		return s
	}
	return ""
}

// CurrentRole returns the authenticated user's role.
func CurrentRole(c *gin.Context) domain.Role {
	v, _ := c.Get(RoleKey)
	if r, ok := v.(domain.Role); ok {
		return r
	}
	return ""
}
