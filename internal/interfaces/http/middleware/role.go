package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safespace/backend/internal/domain/identity"
	"github.com/safespace/backend/internal/interfaces/http/dto"
)

// RequireRole allows the request through when the authenticated admin holds
// one of roles. Roles compare case-insensitively. Must run after JWTAuth.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetAdminClaims(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		role := GetAdminRole(c)
		for _, r := range roles {
			if role.Is(r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeForbidden, "You do not have permission to perform this action", GetRequestID(c)))
	}
}

// RequireSuperAdmin restricts a route to superAdmins
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleSuperAdmin)
}
