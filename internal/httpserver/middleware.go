package httpserver

import (
	"context"
	"net/http"
	"strings"

	"flowershop/internal/domain"
	ordersvc "flowershop/internal/service/order"

	"github.com/gin-gonic/gin"
)

type ctxKey string

const actorCtxKey ctxKey = "actor"

// authMiddleware requires a valid bearer token and stores the caller in the request context.
func authMiddleware(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			abortWithMessage(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		claims, err := auth.Verify(token)
		if err != nil {
			abortWithMessage(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		actor := ordersvc.Actor{ID: claims.UserID, Admin: claims.Role == domain.RoleAdmin}
		ctx := context.WithValue(c.Request.Context(), actorCtxKey, actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requireAdmin rejects callers without the admin role. It must run after authMiddleware.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c.Request.Context())
		if !ok {
			abortWithMessage(c, http.StatusUnauthorized, "Not authorized")
			return
		}
		if !actor.Admin {
			abortWithMessage(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func actorFromContext(ctx context.Context) (ordersvc.Actor, bool) {
	a, ok := ctx.Value(actorCtxKey).(ordersvc.Actor)
	return a, ok
}
