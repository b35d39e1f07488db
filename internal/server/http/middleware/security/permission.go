package security

import (
	"github.com/gin-gonic/gin"

	"go-sysadmin/internal/service"
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"
)

// Require 鉴权中间件
// 超级管理员放行；普通用户要求请求路径在令牌携带的按钮权限集合内
// 超管判定查库失败按内部错误处理，不降级成拒绝或放行
func Require(ps *service.PermissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		super, err := ps.IsSuperAdmin(c.Request.Context(), uid)
		if err != nil {
			response.Fail(c, retcode.INTERNAL_ERROR, "")
			c.Abort()
			return
		}
		if super {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		perms, _ := c.Get("permissions")
		if list, ok := perms.([]string); ok {
			for _, p := range list {
				if p == path {
					c.Next()
					return
				}
			}
		}
		response.Fail(c, retcode.PERMISSION_DENIED, "")
		c.Abort()
	}
}
