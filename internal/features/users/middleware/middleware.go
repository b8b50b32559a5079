package users_middleware

import (
	"net/http"
	"strconv"
	"strings"

	users_models "taskflow/internal/features/users/models"
	users_services "taskflow/internal/features/users/services"
	"taskflow/internal/util/logger"
	"taskflow/internal/util/rate_limit"
	"taskflow/internal/util/response"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the JWT and puts the user into the context. The
// token comes from the Authorization header, or from the token query
// parameter for clients that cannot set headers (browser websockets).
func AuthMiddleware(userService *users_services.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			token = ctx.Query("token")
		}

		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, response.Envelope{
				Success: false,
				Message: "Authorization token required",
			})
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		user, err := userService.GetUserFromToken(token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, response.Envelope{
				Success: false,
				Message: "Invalid token",
			})
			return
		}

		ctx.Set("user", user)
		ctx.Next()
	}
}

// RateLimitMiddleware applies the per-user token bucket. It must run after
// AuthMiddleware. When Valkey is unavailable requests pass through.
func RateLimitMiddleware(rateLimiter *rate_limit.RateLimiter, rpsLimit int) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := GetUserFromContext(ctx)
		if !ok {
			ctx.Next()
			return
		}

		result, err := rateLimiter.CheckRateLimit(user.ID, rpsLimit, 0)
		if err != nil {
			logger.GetLogger().Warn("rate limit check failed, allowing request",
				"userId", user.ID,
				"error", err)
			ctx.Next()
			return
		}

		ctx.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			ctx.Header("Retry-After", strconv.Itoa(result.RetryAfterSec))
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, response.Envelope{
				Success: false,
				Message: "Rate limit exceeded. Please try again later.",
			})
			return
		}

		ctx.Next()
	}
}

// GetUserFromContext helper function to extract user from gin context
func GetUserFromContext(ctx *gin.Context) (*users_models.User, bool) {
	userInterface, exists := ctx.Get("user")
	if !exists {
		return nil, false
	}

	user, ok := userInterface.(*users_models.User)

	return user, ok
}
