package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"timebank/models"
	"timebank/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// SessionKey is the gin context key holding the caller's session.
const SessionKey = "session"

// JWTAuthMiddleware validates the bearer token and stores the session in the
// request context. When a token hash is cached for the user, the presented
// token must match it; a cache miss falls back to signature validation alone.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		session, err := utils.SessionFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		authCache := utils.GetAuthCacheClient()
		if authCache != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			cachedHash, err := authCache.Get(ctx, utils.AuthCachePrefix+session.UserID).Result()
			if err == nil && cachedHash != utils.HashToken(tokenString) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
				return
			}
			if err == nil {
				// Keep the cache warm for active sessions.
				_ = authCache.Expire(ctx, utils.AuthCachePrefix+session.UserID, time.Hour).Err()
			} else if err != redis.Nil {
				utils.GetLogger().Sugar().Warnf("auth cache lookup failed, falling back to signature: %v", err)
			}
		}

		c.Set(SessionKey, *session)
		c.Next()
	}
}

// SessionFromContext returns the session stored by JWTAuthMiddleware.
func SessionFromContext(c *gin.Context) (models.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return models.Session{}, false
	}
	session, ok := v.(models.Session)
	return session, ok
}
