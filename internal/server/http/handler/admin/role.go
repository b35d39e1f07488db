package admin

import (
	"github.com/gin-gonic/gin"

	"go-sysadmin/internal/service"
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"
)

type RoleHandler struct{ d Dependencies }

func NewRoleHandler(d Dependencies) *RoleHandler { return &RoleHandler{d: d} }

func (h *RoleHandler) List(c *gin.Context) {
	page, limit := pageLimit(c)
	status := qInt8Ptr(c, "status")
	res, err := h.d.Role.List(c.Request.Context(), c.Query("role_name"), status, page, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, res)
}

// ListAll 角色下拉框数据
func (h *RoleHandler) ListAll(c *gin.Context) {
	res, err := h.d.Role.ListAll(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"list": res})
}

func (h *RoleHandler) Detail(c *gin.Context) {
	id := qInt64(c, "id")
	res, err := h.d.Role.Detail(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, res)
}

func (h *RoleHandler) Add(c *gin.Context) {
	var req struct {
		RoleName string `json:"role_name"`
		Sort     int    `json:"sort"`
		StatusID int8   `json:"status_id"`
		Remark   string `json:"remark"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RoleName == "" {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	err := h.d.Role.Add(c.Request.Context(), service.AddRoleParams{
		RoleName: req.RoleName, Sort: req.Sort, StatusID: req.StatusID, Remark: req.Remark,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *RoleHandler) Update(c *gin.Context) {
	var req struct {
		ID       int64  `json:"id"`
		RoleName string `json:"role_name"`
		Sort     int    `json:"sort"`
		StatusID int8   `json:"status_id"`
		Remark   string `json:"remark"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	err := h.d.Role.Edit(c.Request.Context(), service.EditRoleParams{
		ID: req.ID, RoleName: req.RoleName, Sort: req.Sort, StatusID: req.StatusID, Remark: req.Remark,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *RoleHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		IDs      []int64 `json:"ids"`
		StatusID int8    `json:"status_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	if err := h.d.Role.UpdateStatus(c.Request.Context(), req.IDs, req.StatusID); err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *RoleHandler) Delete(c *gin.Context) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	if err := h.d.Role.Delete(c.Request.Context(), req.IDs); err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

// QueryRoleMenu 查询角色绑定的菜单 id
func (h *RoleHandler) QueryRoleMenu(c *gin.Context) {
	id := qInt64(c, "role_id")
	if id == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	ids, err := h.d.Role.QueryRoleMenu(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"menu_ids": ids})
}

// UpdateRoleMenu 整体替换角色菜单绑定
func (h *RoleHandler) UpdateRoleMenu(c *gin.Context) {
	var req struct {
		RoleID  int64   `json:"role_id"`
		MenuIDs []int64 `json:"menu_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RoleID == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	if err := h.d.Role.UpdateRoleMenu(c.Request.Context(), req.RoleID, req.MenuIDs); err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}
