package handler

import (
	adminh "go-sysadmin/internal/server/http/handler/admin"
)

// HandlerSet 聚合业务 handler，供 router 使用
type HandlerSet struct {
	Auth *adminh.AuthHandler
	User *adminh.UserHandler
	Role *adminh.RoleHandler
	Menu *adminh.MenuHandler
	Log  *adminh.LogHandler
}

func NewHandlerSet(d adminh.Dependencies) *HandlerSet {
	return &HandlerSet{
		Auth: adminh.NewAuthHandler(d),
		User: adminh.NewUserHandler(d),
		Role: adminh.NewRoleHandler(d),
		Menu: adminh.NewMenuHandler(d),
		Log:  adminh.NewLogHandler(d),
	}
}
