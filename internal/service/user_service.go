package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/pkg/crypto"
)

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrMobileExists     = errors.New("手机号已存在")
	ErrReservedUser     = errors.New("不能删除超级管理员")
	ErrReservedUserRole = errors.New("不能修改超级管理员的角色")
	ErrReservedRole     = errors.New("不能分配超级管理员角色")
)

// UserAdminStore 用户管理依赖的存储口，由 dao.SysUserDAO 满足
type UserAdminStore interface {
	FindByID(ctx context.Context, id int64) (*model.SysUser, error)
	FindByMobile(ctx context.Context, mobile string) (*model.SysUser, error)
	Create(ctx context.Context, u *model.SysUser) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, ids []int64, status int8) error
	Delete(ctx context.Context, ids []int64) error
	List(ctx context.Context, mobile string, status *int8, offset, limit int) ([]model.SysUser, int64, error)
}

// UserRoleAdminStore 用户-角色关联写入口，由 dao.SysUserRoleDAO 满足
type UserRoleAdminStore interface {
	ListRoleIDsByUser(ctx context.Context, userID int64) ([]int64, error)
	Replace(ctx context.Context, userID int64, roleIDs []int64) error
}

type UserService struct {
	Users     UserAdminStore
	UserRoles UserRoleAdminStore
}

func NewUserService(u UserAdminStore, ur UserRoleAdminStore) *UserService {
	return &UserService{Users: u, UserRoles: ur}
}

func (s *UserService) tracer() trace.Tracer { return otel.Tracer("service.user") }

type AddUserParams struct {
	Username string
	Mobile   string
	Password string
	Sort     int
	StatusID int8
	Remark   string
}

func (s *UserService) Add(ctx context.Context, p AddUserParams) error {
	ctx, span := s.tracer().Start(ctx, "UserService.Add")
	defer span.End()

	exist, err := s.Users.FindByMobile(ctx, p.Mobile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("check mobile exists: %w", err)
	}
	if exist != nil {
		return ErrMobileExists
	}
	hashed, err := crypto.HashPassword(p.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u := &model.SysUser{
		Username: p.Username,
		Mobile:   p.Mobile,
		Password: hashed,
		Sort:     p.Sort,
		StatusID: p.StatusID,
		Remark:   p.Remark,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

type EditUserParams struct {
	ID       int64
	Username string
	Mobile   string
	Sort     int
	StatusID int8
	Remark   string
}

func (s *UserService) Edit(ctx context.Context, p EditUserParams) error {
	ctx, span := s.tracer().Start(ctx, "UserService.Edit")
	defer span.End()

	exist, err := s.Users.FindByID(ctx, p.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("find user %d: %w", p.ID, err)
	}
	if exist == nil {
		return ErrUserNotFound
	}
	fields := map[string]interface{}{
		"user_name": p.Username,
		"mobile":    p.Mobile,
		"sort":      p.Sort,
		"status_id": p.StatusID,
		"remark":    p.Remark,
	}
	if err := s.Users.Update(ctx, p.ID, fields); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update user %d: %w", p.ID, err)
	}
	return nil
}

// UpdateStatus 批量启用/禁用，保留用户不受影响
func (s *UserService) UpdateStatus(ctx context.Context, ids []int64, status int8) error {
	ctx, span := s.tracer().Start(ctx, "UserService.UpdateStatus")
	defer span.End()

	for _, id := range ids {
		if id == model.SuperAdminUserID {
			return ErrReservedUser
		}
	}
	if err := s.Users.UpdateStatus(ctx, ids, status); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update user status: %w", err)
	}
	return nil
}

// Delete 删除用户；保留用户 id=1 在进库前拒绝
func (s *UserService) Delete(ctx context.Context, ids []int64) error {
	ctx, span := s.tracer().Start(ctx, "UserService.Delete")
	defer span.End()

	for _, id := range ids {
		if id == model.SuperAdminUserID {
			return ErrReservedUser
		}
	}
	if err := s.Users.Delete(ctx, ids); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("delete users: %w", err)
	}
	return nil
}

type UserListItem struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Mobile     string `json:"mobile"`
	StatusID   int8   `json:"status_id"`
	Sort       int    `json:"sort"`
	Remark     string `json:"remark"`
	CreateTime int64  `json:"create_time"`
	UpdateTime int64  `json:"update_time"`
}

type UserListResult struct {
	List  []UserListItem `json:"list"`
	Total int64          `json:"total"`
}

func (s *UserService) List(ctx context.Context, mobile string, status *int8, page, pageSize int) (*UserListResult, error) {
	ctx, span := s.tracer().Start(ctx, "UserService.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	users, total, err := s.Users.List(ctx, mobile, status, (page-1)*pageSize, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list users: %w", err)
	}
	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserListItem{
			ID: u.ID, Username: u.Username, Mobile: u.Mobile,
			StatusID: u.StatusID, Sort: u.Sort, Remark: u.Remark,
			CreateTime: u.CreateTime, UpdateTime: u.UpdateTime,
		})
	}
	return &UserListResult{List: items, Total: total}, nil
}

func (s *UserService) Detail(ctx context.Context, id int64) (*UserListItem, error) {
	ctx, span := s.tracer().Start(ctx, "UserService.Detail")
	defer span.End()

	u, err := s.Users.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return &UserListItem{
		ID: u.ID, Username: u.Username, Mobile: u.Mobile,
		StatusID: u.StatusID, Sort: u.Sort, Remark: u.Remark,
		CreateTime: u.CreateTime, UpdateTime: u.UpdateTime,
	}, nil
}

// QueryUserRoles 查询用户当前绑定的角色 id 集合
func (s *UserService) QueryUserRoles(ctx context.Context, userID int64) ([]int64, error) {
	ctx, span := s.tracer().Start(ctx, "UserService.QueryUserRoles")
	defer span.End()

	ids, err := s.UserRoles.ListRoleIDsByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list roles of user %d: %w", userID, err)
	}
	return ids, nil
}

// UpdateUserRoles 整体替换用户的角色绑定
// 保留用户的绑定不允许动，超级管理员角色也不允许分配给其他人
func (s *UserService) UpdateUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	ctx, span := s.tracer().Start(ctx, "UserService.UpdateUserRoles")
	defer span.End()

	if userID == model.SuperAdminUserID {
		return ErrReservedUserRole
	}
	for _, rid := range roleIDs {
		if rid == model.SuperAdminRoleID {
			return ErrReservedRole
		}
	}
	if err := s.UserRoles.Replace(ctx, userID, roleIDs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("replace roles of user %d: %w", userID, err)
	}
	return nil
}
