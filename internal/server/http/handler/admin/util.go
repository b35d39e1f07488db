package admin

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-sysadmin/internal/service"
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"
)

func qInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

func qInt64(c *gin.Context, key string) int64 {
	v := c.Query(key)
	if v == "" {
		return 0
	}
	i, _ := strconv.ParseInt(v, 10, 64)
	return i
}

func qInt8Ptr(c *gin.Context, key string) *int8 {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	iv, err := strconv.ParseInt(v, 10, 8)
	if err != nil {
		return nil
	}
	vv := int8(iv)
	return &vv
}

func pageLimit(c *gin.Context) (int, int) { return qInt(c, "page", 1), qInt(c, "limit", 20) }

// failErr 按业务语义映射状态码；未识别的错误一律按内部错误回，不把底层细节透给前端
func failErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoleNotFound),
		errors.Is(err, service.ErrMenuNotFound):
		response.Fail(c, retcode.DATA_NOT_EXIST, err.Error())
	case errors.Is(err, service.ErrRoleInUse),
		errors.Is(err, service.ErrMenuHasChildren):
		response.Fail(c, retcode.DATA_IN_USE, err.Error())
	case errors.Is(err, service.ErrReservedUser),
		errors.Is(err, service.ErrReservedUserRole),
		errors.Is(err, service.ErrReservedRole),
		errors.Is(err, service.ErrReservedRoleEdit):
		response.Fail(c, retcode.RESERVED_PROTECTED, err.Error())
	case errors.Is(err, service.ErrPasswordIncorrect),
		errors.Is(err, service.ErrUserDisabled),
		errors.Is(err, service.ErrNoRoleOrMenu),
		errors.Is(err, service.ErrMobileExists):
		response.Fail(c, retcode.FAIL, err.Error())
	default:
		response.Fail(c, retcode.INTERNAL_ERROR, "")
	}
}
