package security

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"go-sysadmin/internal/security/jwt"
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"
)

// Auth 认证中间件
// Authorization 头必须严格形如 "Bearer <token>"：大小写敏感、恰好两段；
// 格式不对直接拒绝，压根不触发验签
func Auth(j *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, retcode.AUTH_ERROR)
			return
		}
		claims, err := j.Verify(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, retcode.ACCESS_TOKEN_TIMEOUT)
				return
			}
			response.Unauthorized(c, retcode.AUTH_ERROR)
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("permissions", claims.Permissions)
		c.Next()
	}
}
