package boot

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-sysadmin/internal/config"
	"go-sysadmin/internal/discovery/etcd"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/metrics"
	"go-sysadmin/internal/mq/kafka"
	"go-sysadmin/internal/pkg/cache"
	"go-sysadmin/internal/repository/dao"
	jwtsec "go-sysadmin/internal/security/jwt"
	httpSrv "go-sysadmin/internal/server/http"
	"go-sysadmin/internal/service"
)

func ProvideConfig(path string) (*config.Config, error) { return config.Load(path) }

// ProvideLayeredCache L1 本地 + L2 Redis 两层，菜单管理列表用
func ProvideLayeredCache(c *config.Config, r *goredis.Client) cache.Cache {
	l1 := cache.NewSimple(time.Duration(c.Cache.LocalTTLSec) * time.Second)
	l2 := cache.NewRedisAdapter(r)
	return cache.NewLayered(l1, l2)
}

// service 依赖以接口声明，这里把具体 DAO 接上去
func NewPermissionSvc(ur *dao.SysUserRoleDAO, m *dao.SysMenuDAO, mt *metrics.Metrics) *service.PermissionService {
	return service.NewPermissionService(ur, m, mt)
}

func NewAuthSvc(u *dao.SysUserDAO, p *service.PermissionService, j *jwtsec.Manager, l *logging.Logger, mt *metrics.Metrics) *service.AuthService {
	return service.NewAuthService(u, p, j, l, mt)
}

func NewUserSvc(u *dao.SysUserDAO, ur *dao.SysUserRoleDAO) *service.UserService {
	return service.NewUserService(u, ur)
}

func NewRoleSvc(r *dao.SysRoleDAO, ur *dao.SysUserRoleDAO, rm *dao.SysRoleMenuDAO, m *dao.SysMenuDAO) *service.RoleService {
	return service.NewRoleService(r, ur, rm, m)
}

func NewMenuSvc(c *config.Config, m *dao.SysMenuDAO, lc cache.Cache) *service.MenuService {
	return service.NewMenuService(m, lc, time.Duration(c.Cache.RedisTTLSec)*time.Second)
}

func NewLogSvc(l *dao.SysOperateLogDAO) *service.LogService { return service.NewLogService(l) }

func ProvideRouter(c *config.Config, l *logging.Logger, mt *metrics.Metrics, j *jwtsec.Manager, db *gorm.DB, r *goredis.Client, p *kafka.Producer, sender *kafka.AsyncSender, e *etcd.Client, auth *service.AuthService, perm *service.PermissionService, user *service.UserService, role *service.RoleService, menu *service.MenuService, logSvc *service.LogService) *gin.Engine {
	return httpSrv.NewRouter(httpSrv.RouterDeps{
		Config: c, Logger: l, Metrics: mt, JWT: j, DB: db, Redis: r,
		Producer: p, Sender: sender, Etcd: e,
		Auth: auth, Perm: perm, User: user, Role: role, Menu: menu, Log: logSvc,
	})
}

var ProviderSet = wire.NewSet(
	ProvideConfig,
	NewLogger,
	NewMetrics,
	NewPostgres,
	NewRedis,
	NewKafkaProducer,
	NewAsyncSender,
	NewEtcd,
	NewJWTManager,
	ProvideLayeredCache,
	// DAO
	dao.NewSysUserDAO,
	dao.NewSysRoleDAO,
	dao.NewSysMenuDAO,
	dao.NewSysUserRoleDAO,
	dao.NewSysRoleMenuDAO,
	dao.NewSysOperateLogDAO,
	// Service
	NewPermissionSvc,
	NewAuthSvc,
	NewUserSvc,
	NewRoleSvc,
	NewMenuSvc,
	NewLogSvc,
	ProvideRouter,
	NewApp,
)
