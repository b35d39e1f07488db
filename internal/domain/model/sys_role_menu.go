package model

// SysRoleMenu 对应 sys_role_menu 关联表（角色 ↔ 菜单，含按钮级授权）

type SysRoleMenu struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleID     int64 `gorm:"column:role_id;index:idx_role_menu,priority:1" json:"role_id"`
	MenuID     int64 `gorm:"column:menu_id;index:idx_role_menu,priority:2" json:"menu_id"`
	StatusID   int8  `gorm:"column:status_id" json:"status_id"`
	Sort       int   `gorm:"column:sort" json:"sort"`
	CreateTime int64 `gorm:"column:create_time" json:"create_time"`
}

func (SysRoleMenu) TableName() string { return "sys_role_menu" }
