package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tmkhang/Margays/internal/dto"
	"github.com/tmkhang/Margays/internal/model"
)

// Identity headers set by the upstream gateway. The gateway authenticates;
// this service trusts the headers as-is.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	principalKey = "principal"
)

// Identity extracts the calling principal from the gateway headers and
// aborts with 401 when they are missing or malformed.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderUserID)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "missing identity header"})
			return
		}
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid identity header"})
			return
		}
		c.Set(principalKey, model.Principal{
			UserID: uint(userID),
			Admin:  c.GetHeader(HeaderUserRole) == model.RoleAdmin,
		})
		c.Next()
	}
}

// RequireAdmin rejects non-admin principals with 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if !principal.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "admin access required"})
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the principal stored by Identity. Handlers behind the
// middleware can rely on it being present.
func GetPrincipal(c *gin.Context) model.Principal {
	if value, ok := c.Get(principalKey); ok {
		if principal, ok := value.(model.Principal); ok {
			return principal
		}
	}
	return model.Principal{}
}
