package model

// SysRole 对应 sys_role 表
// id=1 为预留超级管理员角色：持有该角色的用户绕过全部菜单/权限过滤。

type SysRole struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName   string `gorm:"column:role_name;size:50" json:"role_name"`
	StatusID   int8   `gorm:"column:status_id" json:"status_id"` // 状态(1:正常，0:禁用)
	Sort       int    `gorm:"column:sort" json:"sort"`
	Remark     string `gorm:"size:255" json:"remark"`
	CreateTime int64  `gorm:"column:create_time" json:"create_time"`
	UpdateTime int64  `gorm:"column:update_time" json:"update_time"`
}

func (SysRole) TableName() string { return "sys_role" }

// SuperAdminRoleID 预留超级管理员角色 id
const SuperAdminRoleID int64 = 1
