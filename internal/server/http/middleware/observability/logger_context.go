package observability

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-sysadmin/internal/logging"
)

type loggerKey struct{}

// LoggerContext 把带 trace 字段的 logger 塞进请求 context，handler 用 FromContext 取
func LoggerContext(base *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		lg := base.WithContext(ctx)
		if uid := c.GetInt64("user_id"); uid > 0 {
			lg = lg.With(zap.Int64("user_id", uid))
		}
		ctx = context.WithValue(ctx, loggerKey{}, lg)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// FromContext 取请求级 logger，取不到时退回 nop
func FromContext(ctx context.Context) *zap.Logger {
	if lg, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return lg
	}
	return zap.NewNop()
}
