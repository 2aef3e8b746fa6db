package handler

import (
	"github.com/cuongbtq/sitejobs/internal/domain"
	"github.com/gin-gonic/gin"
)

// Requester identity headers, set by the gateway in front of the API
const (
	HeaderUserRole = "X-User-Role"
	HeaderUserID   = "X-User-ID"
)

const (
	contextKeyRole   = "requester_role"
	contextKeyUserID = "requester_id"
)

// RequesterMiddleware reads the requester identity headers into the context
func RequesterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeyRole, domain.ParseRole(c.GetHeader(HeaderUserRole)))
		c.Set(contextKeyUserID, c.GetHeader(HeaderUserID))
		c.Next()
	}
}

func requesterRole(c *gin.Context) domain.Role {
	if v, ok := c.Get(contextKeyRole); ok {
		if role, ok := v.(domain.Role); ok {
			return role
		}
	}
	return domain.ParseRole(c.GetHeader(HeaderUserRole))
}

func requesterID(c *gin.Context) string {
	if v := c.GetString(contextKeyUserID); v != "" {
		return v
	}
	return c.GetHeader(HeaderUserID)
}
