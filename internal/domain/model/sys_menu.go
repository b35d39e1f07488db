package model

// SysMenu 对应 sys_menu 表（目录/菜单 + 按钮权限）
// parent_id=0 表示根节点；api_url 非空的节点同时约束一个后端接口。

type SysMenu struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	MenuName   string `gorm:"column:menu_name;size:50" json:"menu_name"`
	MenuType   int8   `gorm:"column:menu_type" json:"menu_type"` // 菜单类型(1:目录 2:菜单 3:按钮)
	StatusID   int8   `gorm:"column:status_id" json:"status_id"` // 状态(1:正常，0:禁用)
	Sort       int    `gorm:"column:sort" json:"sort"`
	ParentID   int64  `gorm:"column:parent_id;index" json:"parent_id"`
	MenuURL    string `gorm:"column:menu_url;size:255" json:"menu_url"` // 前端路由路径
	APIURL     string `gorm:"column:api_url;size:255" json:"api_url"`   // 接口 URL，纯 UI 节点为空
	MenuIcon   string `gorm:"column:menu_icon;size:50" json:"menu_icon"`
	Remark     string `gorm:"size:255" json:"remark"`
	CreateTime int64  `gorm:"column:create_time" json:"create_time"`
	UpdateTime int64  `gorm:"column:update_time" json:"update_time"`
}

func (SysMenu) TableName() string { return "sys_menu" }

const (
	MenuTypeDirectory int8 = 1
	MenuTypePage      int8 = 2
	MenuTypeButton    int8 = 3
)
