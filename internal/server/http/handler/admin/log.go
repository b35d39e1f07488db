package admin

import (
	"github.com/gin-gonic/gin"

	"go-sysadmin/pkg/response"
)

type LogHandler struct{ d Dependencies }

func NewLogHandler(d Dependencies) *LogHandler { return &LogHandler{d: d} }

// List 操作日志列表，可按 user_id 过滤
func (h *LogHandler) List(c *gin.Context) {
	page, limit := pageLimit(c)
	uid := qInt64(c, "user_id")
	res, err := h.d.Log.List(c.Request.Context(), uid, page, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, res)
}
