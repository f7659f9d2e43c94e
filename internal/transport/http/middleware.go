package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs who called what and how it ended.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		slog.Info("request started",
			"method", req.Method,
			"path", req.URL.Path,
			"ip", c.ClientIP(),
			"origin", req.Header.Get("Origin"),
			"referer", req.Referer(),
			"userAgent", req.UserAgent(),
		)

		c.Next()

		slog.Info("request completed",
			"method", req.Method,
			"path", req.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Timeout bounds the request context; store calls observe the deadline.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CORS is wide open (any origin, method and header) when origins is empty.
// Otherwise only the listed origins and a fixed header set are allowed.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowHeaders = []string{"*"}
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	}
	return cors.New(cfg)
}
