package admin

import (
	"strings"

	"github.com/gin-gonic/gin"

	"go-sysadmin/internal/service"
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"
)

type UserHandler struct{ d Dependencies }

func NewUserHandler(d Dependencies) *UserHandler { return &UserHandler{d: d} }

func (h *UserHandler) List(c *gin.Context) {
	page, limit := pageLimit(c)
	status := qInt8Ptr(c, "status")
	res, err := h.d.User.List(c.Request.Context(), c.Query("mobile"), status, page, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, res)
}

func (h *UserHandler) Detail(c *gin.Context) {
	id := qInt64(c, "id")
	res, err := h.d.User.Detail(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, res)
}

func (h *UserHandler) Add(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
		Sort     int    `json:"sort"`
		StatusID int8   `json:"status_id"`
		Remark   string `json:"remark"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	req.Mobile = strings.TrimSpace(req.Mobile)
	if req.Username == "" || req.Mobile == "" || req.Password == "" {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	err := h.d.User.Add(c.Request.Context(), service.AddUserParams{
		Username: req.Username, Mobile: req.Mobile, Password: req.Password,
		Sort: req.Sort, StatusID: req.StatusID, Remark: req.Remark,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *UserHandler) Update(c *gin.Context) {
	var req struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Mobile   string `json:"mobile"`
		Sort     int    `json:"sort"`
		StatusID int8   `json:"status_id"`
		Remark   string `json:"remark"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	err := h.d.User.Edit(c.Request.Context(), service.EditUserParams{
		ID: req.ID, Username: req.Username, Mobile: req.Mobile,
		Sort: req.Sort, StatusID: req.StatusID, Remark: req.Remark,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *UserHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		IDs      []int64 `json:"ids"`
		StatusID int8    `json:"status_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	if err := h.d.User.UpdateStatus(c.Request.Context(), req.IDs, req.StatusID); err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *UserHandler) Delete(c *gin.Context) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	if err := h.d.User.Delete(c.Request.Context(), req.IDs); err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

// QueryUserRole 查询用户绑定的角色 id
func (h *UserHandler) QueryUserRole(c *gin.Context) {
	id := qInt64(c, "user_id")
	if id == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	ids, err := h.d.User.QueryUserRoles(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"role_ids": ids})
}

// UpdateUserRole 整体替换用户角色绑定
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	var req struct {
		UserID  int64   `json:"user_id"`
		RoleIDs []int64 `json:"role_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	if err := h.d.User.UpdateUserRoles(c.Request.Context(), req.UserID, req.RoleIDs); err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}
