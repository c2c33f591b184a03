package auth

import "github.com/gin-gonic/gin"

type UserContext struct {
	UserID string
	Role   string
}

// GetUserID returns the acting user's id, populated either by the auth
// middleware or by the gateway via the X-User-Id header. Empty when the
// caller is anonymous or a system job.
func GetUserID(c *gin.Context) string {
	if val, ok := c.Get("user_id"); ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return c.GetHeader("X-User-Id")
}

// UserIDPtr is a convenience for optional acting-user columns.
func UserIDPtr(c *gin.Context) *string {
	id := GetUserID(c)
	if id == "" {
		return nil
	}
	return &id
}
