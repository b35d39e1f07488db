package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-sysadmin/internal/logging"
)

// AccessLog 输出基础访问日志：method, path, status, latency, ip
func AccessLog(l *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		l.WithContext(c.Request.Context()).Info("http_access",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
