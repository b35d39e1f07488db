package middleware

import (
	"go-sysadmin/internal/config"

	"github.com/gin-gonic/gin"
)

// ConfigInjector 将全局配置注入 gin.Context，供下游中间件/handler 读取
func ConfigInjector(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg != nil {
			c.Set("app_config", cfg)
		}
		c.Next()
	}
}
