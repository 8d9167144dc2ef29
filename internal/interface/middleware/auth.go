package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/news-portal-api/internal/application"
	"github.com/oksasatya/news-portal-api/internal/domain/entity"
	"github.com/oksasatya/news-portal-api/pkg/helpers"
	"github.com/oksasatya/news-portal-api/pkg/response"
)

// Context keys set by Auth
const (
	CtxUserInfoKey = "userInfo"
	CtxUserIDKey   = "userID"
	CtxUserRoleKey = "userRole"
)

const bearerPrefix = "Bearer "

// Auth requires an "Authorization: Bearer <token>" header carrying a valid token.
// On success the claims are stored under userInfo, and id and role under userID and userRole.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) || strings.TrimSpace(header[len(bearerPrefix):]) == "" {
			response.Error[any](c, http.StatusUnauthorized, "please login first", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserInfoKey, claims)
		c.Set(CtxUserIDKey, claims.ID)
		c.Set(CtxUserRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRoles lets the request through only when the authenticated role is one of roles.
// It must run after Auth.
func RequireRoles(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(CtxUserInfoKey); !ok {
			response.Error[any](c, http.StatusUnauthorized, "please login first", nil)
			c.Abort()
			return
		}
		role := entity.Role(c.GetString(CtxUserRoleKey))
		if !slices.Contains(roles, role) {
			response.Error[any](c, http.StatusForbidden, "access denied", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFrom returns the authenticated identity of the request, or the zero Caller.
func CallerFrom(c *gin.Context) application.Caller {
	v, ok := c.Get(CtxUserInfoKey)
	if !ok {
		return application.Caller{}
	}
	claims, _ := v.(*helpers.Claims)
	return application.CallerFromClaims(claims)
}
