package retcode

// 业务状态码：0 表示成功，负数为各类失败；HTTP 状态除未认证外一律 200
const (
	SUCCESS              = 0
	FAIL                 = -1
	INVALID_PARAMS       = -2
	AUTH_ERROR           = -3
	ACCESS_TOKEN_TIMEOUT = -4
	PERMISSION_DENIED    = -5
	DATA_NOT_EXIST       = -6
	DATA_IN_USE          = -7
	RESERVED_PROTECTED   = -8
	INTERNAL_ERROR       = -9
)

var msgMap = map[int]string{
	SUCCESS:              "ok",
	FAIL:                 "操作失败",
	INVALID_PARAMS:       "请求参数错误",
	AUTH_ERROR:           "登录凭证无效",
	ACCESS_TOKEN_TIMEOUT: "登录已过期,请重新登录",
	PERMISSION_DENIED:    "没有操作权限",
	DATA_NOT_EXIST:       "数据不存在",
	DATA_IN_USE:          "数据被引用,不能删除",
	RESERVED_PROTECTED:   "不能操作超级管理员",
	INTERNAL_ERROR:       "服务内部错误",
}

func GetMsg(code int) string {
	if msg, ok := msgMap[code]; ok {
		return msg
	}
	return msgMap[FAIL]
}

func All() map[int]string { return msgMap }
