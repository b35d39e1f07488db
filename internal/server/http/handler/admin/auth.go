package admin

import (
	"strings"

	"github.com/gin-gonic/gin"

	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"
)

type AuthHandler struct{ d Dependencies }

func NewAuthHandler(d Dependencies) *AuthHandler { return &AuthHandler{d: d} }

// Login 登录换取令牌
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	req.Mobile = strings.TrimSpace(req.Mobile)
	if req.Mobile == "" || req.Password == "" {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	res, err := h.d.Auth.Login(c.Request.Context(), req.Mobile, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, res)
}

// QueryUserMenu 当前用户的菜单树与按钮权限
func (h *AuthHandler) QueryUserMenu(c *gin.Context) {
	uid := c.GetInt64("user_id")
	res, err := h.d.Auth.QueryUserMenu(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, res)
}

// UpdateUserPassword 当前用户修改自己的密码
func (h *AuthHandler) UpdateUserPassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	uid := c.GetInt64("user_id")
	if err := h.d.Auth.UpdatePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword); err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}
