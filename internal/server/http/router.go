package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-sysadmin/internal/config"
	"go-sysadmin/internal/discovery/etcd"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/metrics"
	"go-sysadmin/internal/mq/kafka"
	"go-sysadmin/internal/security/jwt"
	handlerset "go-sysadmin/internal/server/http/handler"
	adm "go-sysadmin/internal/server/http/handler/admin"
	"go-sysadmin/internal/server/http/middleware"
	obs "go-sysadmin/internal/server/http/middleware/observability"
	sec "go-sysadmin/internal/server/http/middleware/security"
	"go-sysadmin/internal/service"
)

// RouterDeps 路由装配需要的全部组件
type RouterDeps struct {
	Config   *config.Config
	Logger   *logging.Logger
	Metrics  *metrics.Metrics
	JWT      *jwt.Manager
	DB       *gorm.DB
	Redis    *goredis.Client
	Producer *kafka.Producer
	Sender   *kafka.AsyncSender
	Etcd     *etcd.Client
	Auth     *service.AuthService
	Perm     *service.PermissionService
	User     *service.UserService
	Role     *service.RoleService
	Menu     *service.MenuService
	Log      *service.LogService
}

// NewRouter 只做分组与中间件装配，业务在 handler 层
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.ConfigInjector(d.Config),
		gin.Recovery(),
		middleware.CORS(),
		obs.Trace(),
		obs.LoggerContext(d.Logger),
		obs.AccessLog(d.Logger),
		obs.Metrics(d.Metrics),
	)

	hc := NewHealthChecker(d.DB, d.Redis, d.Producer, d.Etcd, d.Metrics)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, hc.Liveness()) })
	r.GET("/readyz", func(c *gin.Context) {
		if c.Query("refresh") == "1" {
			hc.InvalidateCache()
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		res, code := hc.Readiness(ctx)
		c.JSON(code, res)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlerset.NewHandlerSet(adm.Dependencies{
		Auth: d.Auth, Perm: d.Perm, User: d.User, Role: d.Role, Menu: d.Menu, Log: d.Log,
		JWT: d.JWT, Config: d.Config, Logger: d.Logger,
	})

	// 公共接口：登录不带认证
	pub := r.Group("/api", obs.OperationLog(d.Sender))
	{
		pub.POST("/login", h.Auth.Login)
	}

	// 认证后接口：菜单拉取与改密只要求登录，不做按钮级鉴权
	authed := r.Group("/api", sec.Auth(d.JWT), obs.OperationLog(d.Sender))
	{
		authed.GET("/query_user_menu", h.Auth.QueryUserMenu)
		authed.POST("/update_user_password", h.Auth.UpdateUserPassword)
	}

	// 管理接口：认证 + 按钮级鉴权
	mgr := r.Group("/api", sec.Auth(d.JWT), obs.OperationLog(d.Sender), sec.Require(d.Perm))
	{
		mgr.POST("/add_user", h.User.Add)
		mgr.POST("/delete_user", h.User.Delete)
		mgr.POST("/update_user", h.User.Update)
		mgr.POST("/update_user_status", h.User.UpdateStatus)
		mgr.GET("/query_user_list", h.User.List)
		mgr.GET("/query_user_detail", h.User.Detail)
		mgr.GET("/query_user_role", h.User.QueryUserRole)
		mgr.POST("/update_user_role", h.User.UpdateUserRole)

		mgr.POST("/add_role", h.Role.Add)
		mgr.POST("/delete_role", h.Role.Delete)
		mgr.POST("/update_role", h.Role.Update)
		mgr.POST("/update_role_status", h.Role.UpdateStatus)
		mgr.GET("/query_role_list", h.Role.List)
		mgr.GET("/query_role_all", h.Role.ListAll)
		mgr.GET("/query_role_detail", h.Role.Detail)
		mgr.GET("/query_role_menu", h.Role.QueryRoleMenu)
		mgr.POST("/update_role_menu", h.Role.UpdateRoleMenu)

		mgr.POST("/add_menu", h.Menu.Add)
		mgr.POST("/delete_menu", h.Menu.Delete)
		mgr.POST("/update_menu", h.Menu.Update)
		mgr.POST("/update_menu_status", h.Menu.UpdateStatus)
		mgr.GET("/query_menu_list", h.Menu.List)
		mgr.GET("/query_menu_detail", h.Menu.Detail)

		mgr.GET("/query_operate_log_list", h.Log.List)
	}

	return r
}
