package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"goforum/internal/model"
	"goforum/internal/pkg/jwtutil"
	"goforum/internal/repository"
	"goforum/internal/transport/http/response"
)

const ContextUserKey = "current_user"

// AuthRequired verifies the bearer token, re-fetches the user and
// rejects tokens whose embedded admin flag no longer matches the
// database. A promoted or demoted user must log in again.
func AuthRequired(secret string, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Message(c, http.StatusUnauthorized, "Authorization token is required")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Message(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Message(c, http.StatusForbidden, "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := userRepo.GetByID(claims.UserID)
		if err != nil {
			response.Internal(c, "resolve token user", err)
			c.Abort()
			return
		}
		if user == nil || user.IsAdmin != claims.IsAdmin {
			response.Message(c, http.StatusForbidden, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireAdmin must be used after AuthRequired.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Message(c, http.StatusUnauthorized, "Authorization token is required")
			c.Abort()
			return
		}
		if !user.IsAdmin {
			response.Message(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}
