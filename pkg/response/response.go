package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-sysadmin/internal/util/retcode"
)

// Body 统一响应包裹：code/msg/data 三段式
type Body struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Code: retcode.SUCCESS, Msg: retcode.GetMsg(retcode.SUCCESS), Data: data})
}

// Fail 业务失败仍回 200，由 code 区分
func Fail(c *gin.Context, code int, msg string) {
	if msg == "" {
		msg = retcode.GetMsg(code)
	}
	c.JSON(http.StatusOK, Body{Code: code, Msg: msg, Data: nil})
}

// Unauthorized 未认证与令牌过期走 401 并中断
func Unauthorized(c *gin.Context, code int) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Body{Code: code, Msg: retcode.GetMsg(code), Data: nil})
}
