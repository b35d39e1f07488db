package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/metrics"
	"go-sysadmin/internal/security/jwt"
	"go-sysadmin/pkg/crypto"
)

// 登录失败的业务语义；口令比对失败只提示密码不正确，不说明错在哪个字段
var (
	ErrPasswordIncorrect = errors.New("密码不正确")
	ErrUserDisabled      = errors.New("用户已被禁用")
	ErrNoRoleOrMenu      = errors.New("用户没有分配角色或者菜单,不能登录")
)

// 头像地址目前写死，后台暂不提供上传
const defaultAvatarURL = "https://q1.qlogo.cn/g?b=qq&nk=80800600&s=100"

// UserStore 登录与改密依赖的用户读取口
type UserStore interface {
	FindByMobile(ctx context.Context, mobile string) (*model.SysUser, error)
	FindByID(ctx context.Context, id int64) (*model.SysUser, error)
	UpdatePassword(ctx context.Context, id int64, hashed string) error
}

type AuthService struct {
	Users      UserStore
	Permission *PermissionService
	JWT        *jwt.Manager
	Logger     *logging.Logger
	Metrics    *metrics.Metrics
}

func NewAuthService(u UserStore, p *PermissionService, j *jwt.Manager, l *logging.Logger, m *metrics.Metrics) *AuthService {
	return &AuthService{Users: u, Permission: p, JWT: j, Logger: l, Metrics: m}
}

func (s *AuthService) tracer() trace.Tracer { return otel.Tracer("service.auth") }

type LoginResult struct {
	Token       string   `json:"token"`
	UserID      int64    `json:"user_id"`
	Username    string   `json:"username"`
	Permissions []string `json:"permissions"`
	ExpireIn    int64    `json:"expire_in"`
}

// Login 校验口令并签发令牌
// 解析不出任何按钮权限的账号拒绝登录；存储层错误原样上抛，与权限为空是两码事
func (s *AuthService) Login(ctx context.Context, mobile, password string) (*LoginResult, error) {
	ctx, span := s.tracer().Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.Users.FindByMobile(ctx, mobile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.countLogin("store_error")
		return nil, fmt.Errorf("find user by mobile: %w", err)
	}
	if user == nil {
		s.countLogin("not_found")
		return nil, ErrUserNotFound
	}
	if !crypto.VerifyPassword(user.Password, password) {
		s.countLogin("bad_credential")
		return nil, ErrPasswordIncorrect
	}
	if user.StatusID != 1 {
		s.countLogin("disabled")
		return nil, ErrUserDisabled
	}

	permissions, err := s.Permission.ResolveButtonPermissions(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.countLogin("store_error")
		return nil, err
	}
	// 按钮权限为空即拒绝，菜单树只在 query_user_menu 时解析
	if len(permissions) == 0 {
		s.countLogin("no_permission")
		return nil, ErrNoRoleOrMenu
	}

	token, err := s.JWT.Issue(user.ID, user.Username, permissions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.countLogin("issue_error")
		return nil, fmt.Errorf("issue token: %w", err)
	}

	// 存量明文口令登录成功后升级为 bcrypt，失败只记日志不影响本次登录
	if crypto.IsLegacyPlaintext(user.Password) {
		go s.upgradePassword(user.ID, password)
	}

	s.countLogin("success")
	return &LoginResult{
		Token:       token,
		UserID:      user.ID,
		Username:    user.Username,
		Permissions: permissions,
		ExpireIn:    int64(s.JWT.ExpireDuration() / time.Second),
	}, nil
}

// UserMenuResult 登录后首页菜单数据
type UserMenuResult struct {
	Menus     []MenuNode `json:"menus"`
	BtnMenus  []string   `json:"btn_menus"`
	Username  string     `json:"username"`
	AvatarURL string     `json:"avatar_url"`
}

// QueryUserMenu 拉取当前用户可见菜单树与按钮权限
func (s *AuthService) QueryUserMenu(ctx context.Context, userID int64) (*UserMenuResult, error) {
	ctx, span := s.tracer().Start(ctx, "AuthService.QueryUserMenu")
	defer span.End()

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find user %d: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	nodes, btns, err := s.Permission.ResolveMenuTree(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &UserMenuResult{
		Menus:     nodes,
		BtnMenus:  btns,
		Username:  user.Username,
		AvatarURL: defaultAvatarURL,
	}, nil
}

// UpdatePassword 老密码校验通过后写入新 bcrypt 摘要
func (s *AuthService) UpdatePassword(ctx context.Context, userID int64, oldPwd, newPwd string) error {
	ctx, span := s.tracer().Start(ctx, "AuthService.UpdatePassword")
	defer span.End()

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("find user %d: %w", userID, err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !crypto.VerifyPassword(user.Password, oldPwd) {
		return ErrPasswordIncorrect
	}
	hashed, err := crypto.HashPassword(newPwd)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePassword(ctx, userID, hashed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update password of user %d: %w", userID, err)
	}
	return nil
}

func (s *AuthService) upgradePassword(userID int64, plain string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	hashed, err := crypto.HashPassword(plain)
	if err != nil {
		s.logWarn("hash legacy password", userID, err)
		return
	}
	if err := s.Users.UpdatePassword(ctx, userID, hashed); err != nil {
		s.logWarn("upgrade legacy password", userID, err)
	}
}

func (s *AuthService) logWarn(msg string, userID int64, err error) {
	if s.Logger != nil {
		s.Logger.Warn(msg, zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (s *AuthService) countLogin(result string) {
	if s.Metrics != nil {
		s.Metrics.LoginTotal.WithLabelValues(result).Inc()
	}
}
