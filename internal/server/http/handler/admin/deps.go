package admin

import (
	"go-sysadmin/internal/config"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/security/jwt"
	"go-sysadmin/internal/service"
)

// Dependencies admin 子包的依赖集合
type Dependencies struct {
	Auth   *service.AuthService
	Perm   *service.PermissionService
	User   *service.UserService
	Role   *service.RoleService
	Menu   *service.MenuService
	Log    *service.LogService
	JWT    *jwt.Manager
	Config *config.Config
	Logger *logging.Logger
}
