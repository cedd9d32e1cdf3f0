// internal/server/middleware.go
package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"goal-coach/internal/common/auth"
	apperrors "goal-coach/internal/common/errors"
	"goal-coach/internal/common/ratelimit"
)

const userIDKey = "userID"

// AuthRequired verifies the bearer token and stores the subject user id in
// the request context.
func AuthRequired(tokens *auth.TokenManager, errHandler *apperrors.ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			errHandler.Respond(c, apperrors.NewUnauthorizedError("missing bearer token"))
			return
		}

		userID, err := tokens.VerifyAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			errHandler.Respond(c, apperrors.NewUnauthorizedError("invalid or expired token"))
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// RateLimited enforces the per-user fixed-window limit. Must run after
// AuthRequired.
func RateLimited(limiter *ratelimit.Limiter, errHandler *apperrors.ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(userIDKey)
		if userID == "" {
			c.Next()
			return
		}

		if !limiter.Allow(c.Request.Context(), userID) {
			errHandler.Respond(c, apperrors.NewRateLimitedError(int(limiter.Window().Seconds())))
			return
		}
		c.Next()
	}
}
