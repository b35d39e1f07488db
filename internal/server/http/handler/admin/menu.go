package admin

import (
	"github.com/gin-gonic/gin"

	"go-sysadmin/internal/service"
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"
)

type MenuHandler struct{ d Dependencies }

func NewMenuHandler(d Dependencies) *MenuHandler { return &MenuHandler{d: d} }

func (h *MenuHandler) List(c *gin.Context) {
	res, err := h.d.Menu.List(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"list": res})
}

func (h *MenuHandler) Detail(c *gin.Context) {
	id := qInt64(c, "id")
	res, err := h.d.Menu.Detail(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, res)
}

func (h *MenuHandler) Add(c *gin.Context) {
	var req struct {
		ParentID int64  `json:"parent_id"`
		MenuName string `json:"menu_name"`
		MenuType int8   `json:"menu_type"`
		StatusID int8   `json:"status_id"`
		MenuURL  string `json:"menu_url"`
		APIURL   string `json:"api_url"`
		MenuIcon string `json:"menu_icon"`
		Sort     int    `json:"sort"`
		Remark   string `json:"remark"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.MenuName == "" {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	err := h.d.Menu.Add(c.Request.Context(), service.AddMenuParams{
		ParentID: req.ParentID, MenuName: req.MenuName, MenuType: req.MenuType,
		StatusID: req.StatusID, MenuURL: req.MenuURL, APIURL: req.APIURL,
		MenuIcon: req.MenuIcon, Sort: req.Sort, Remark: req.Remark,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *MenuHandler) Update(c *gin.Context) {
	var req struct {
		ID       int64  `json:"id"`
		ParentID int64  `json:"parent_id"`
		MenuName string `json:"menu_name"`
		MenuType int8   `json:"menu_type"`
		StatusID int8   `json:"status_id"`
		MenuURL  string `json:"menu_url"`
		APIURL   string `json:"api_url"`
		MenuIcon string `json:"menu_icon"`
		Sort     int    `json:"sort"`
		Remark   string `json:"remark"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	err := h.d.Menu.Edit(c.Request.Context(), service.EditMenuParams{
		ID: req.ID, ParentID: req.ParentID, MenuName: req.MenuName, MenuType: req.MenuType,
		StatusID: req.StatusID, MenuURL: req.MenuURL, APIURL: req.APIURL,
		MenuIcon: req.MenuIcon, Sort: req.Sort, Remark: req.Remark,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *MenuHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		IDs      []int64 `json:"ids"`
		StatusID int8    `json:"status_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	if err := h.d.Menu.UpdateStatus(c.Request.Context(), req.IDs, req.StatusID); err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

func (h *MenuHandler) Delete(c *gin.Context) {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		response.Fail(c, retcode.INVALID_PARAMS, "")
		return
	}
	if err := h.d.Menu.Delete(c.Request.Context(), req.ID); err != nil {
		failErr(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}
