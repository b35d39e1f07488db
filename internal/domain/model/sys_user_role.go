package model

// SysUserRole 对应 sys_user_role 关联表（用户 ↔ 角色）

type SysUserRole struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64 `gorm:"column:user_id;index:idx_user_role,priority:1" json:"user_id"`
	RoleID     int64 `gorm:"column:role_id;index:idx_user_role,priority:2" json:"role_id"`
	StatusID   int8  `gorm:"column:status_id" json:"status_id"`
	Sort       int   `gorm:"column:sort" json:"sort"`
	CreateTime int64 `gorm:"column:create_time" json:"create_time"`
}

func (SysUserRole) TableName() string { return "sys_user_role" }
