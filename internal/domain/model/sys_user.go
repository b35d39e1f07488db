package model

// SysUser 对应 sys_user 表（后台操作员）
// id=1 为系统预留超级管理员账号：不能删除、不能修改其角色。

type SysUser struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Mobile     string `gorm:"size:20;uniqueIndex:uk_mobile" json:"mobile"`
	Username   string `gorm:"column:user_name;size:64" json:"user_name"`
	Password   string `gorm:"size:64" json:"-"` // bcrypt；历史库为明文，登录成功后异步升级
	StatusID   int8   `gorm:"column:status_id" json:"status_id"` // 状态(1:正常，0:禁用)
	Sort       int    `gorm:"column:sort" json:"sort"`
	Remark     string `gorm:"size:255" json:"remark"`
	CreateTime int64  `gorm:"column:create_time;index" json:"create_time"`
	UpdateTime int64  `gorm:"column:update_time" json:"update_time"`
}

func (SysUser) TableName() string { return "sys_user" }

// SuperAdminUserID 预留超级管理员用户 id
const SuperAdminUserID int64 = 1
