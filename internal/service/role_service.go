package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go-sysadmin/internal/domain/model"
)

var (
	ErrRoleNotFound     = errors.New("角色不存在")
	ErrRoleInUse        = errors.New("角色已分配给用户,不能删除")
	ErrReservedRoleEdit = errors.New("不能操作超级管理员角色")
)

// RoleAdminStore 角色管理存储口，由 dao.SysRoleDAO 满足
type RoleAdminStore interface {
	FindByID(ctx context.Context, id int64) (*model.SysRole, error)
	ListAll(ctx context.Context) ([]model.SysRole, error)
	List(ctx context.Context, roleName string, status *int8, offset, limit int) ([]model.SysRole, int64, error)
	Create(ctx context.Context, r *model.SysRole) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, ids []int64, status int8) error
	Delete(ctx context.Context, ids []int64) error
}

// RoleBindingStore 角色被用户引用情况的查询口，由 dao.SysUserRoleDAO 满足
type RoleBindingStore interface {
	CountByRoles(ctx context.Context, roleIDs []int64) (int64, error)
}

// RoleMenuAdminStore 角色-菜单关联存储口，由 dao.SysRoleMenuDAO 满足
type RoleMenuAdminStore interface {
	ListMenuIDsByRole(ctx context.Context, roleID int64) ([]int64, error)
	Replace(ctx context.Context, roleID int64, menuIDs []int64) error
	DeleteByRoles(ctx context.Context, roleIDs []int64) error
}

// roleMenuSource 超级管理员角色直接返回全量菜单 id，需要读菜单表
type roleMenuSource interface {
	ListAll(ctx context.Context) ([]model.SysMenu, error)
}

type RoleService struct {
	Roles     RoleAdminStore
	Bindings  RoleBindingStore
	RoleMenus RoleMenuAdminStore
	Menus     roleMenuSource
}

func NewRoleService(r RoleAdminStore, b RoleBindingStore, rm RoleMenuAdminStore, m roleMenuSource) *RoleService {
	return &RoleService{Roles: r, Bindings: b, RoleMenus: rm, Menus: m}
}

func (s *RoleService) tracer() trace.Tracer { return otel.Tracer("service.role") }

type AddRoleParams struct {
	RoleName string
	Sort     int
	StatusID int8
	Remark   string
}

func (s *RoleService) Add(ctx context.Context, p AddRoleParams) error {
	ctx, span := s.tracer().Start(ctx, "RoleService.Add")
	defer span.End()

	r := &model.SysRole{RoleName: p.RoleName, Sort: p.Sort, StatusID: p.StatusID, Remark: p.Remark}
	if err := s.Roles.Create(ctx, r); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

type EditRoleParams struct {
	ID       int64
	RoleName string
	Sort     int
	StatusID int8
	Remark   string
}

func (s *RoleService) Edit(ctx context.Context, p EditRoleParams) error {
	ctx, span := s.tracer().Start(ctx, "RoleService.Edit")
	defer span.End()

	if p.ID == model.SuperAdminRoleID {
		return ErrReservedRoleEdit
	}
	exist, err := s.Roles.FindByID(ctx, p.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("find role %d: %w", p.ID, err)
	}
	if exist == nil {
		return ErrRoleNotFound
	}
	fields := map[string]interface{}{
		"role_name": p.RoleName,
		"sort":      p.Sort,
		"status_id": p.StatusID,
		"remark":    p.Remark,
	}
	if err := s.Roles.Update(ctx, p.ID, fields); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update role %d: %w", p.ID, err)
	}
	return nil
}

func (s *RoleService) UpdateStatus(ctx context.Context, ids []int64, status int8) error {
	ctx, span := s.tracer().Start(ctx, "RoleService.UpdateStatus")
	defer span.End()

	for _, id := range ids {
		if id == model.SuperAdminRoleID {
			return ErrReservedRoleEdit
		}
	}
	if err := s.Roles.UpdateStatus(ctx, ids, status); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update role status: %w", err)
	}
	return nil
}

// Delete 删除角色；仍被用户引用的角色拒绝删除，删除成功后清理菜单关联
func (s *RoleService) Delete(ctx context.Context, ids []int64) error {
	ctx, span := s.tracer().Start(ctx, "RoleService.Delete")
	defer span.End()

	for _, id := range ids {
		if id == model.SuperAdminRoleID {
			return ErrReservedRoleEdit
		}
	}
	inUse, err := s.Bindings.CountByRoles(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("count role bindings: %w", err)
	}
	if inUse > 0 {
		return ErrRoleInUse
	}
	if err := s.Roles.Delete(ctx, ids); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("delete roles: %w", err)
	}
	if err := s.RoleMenus.DeleteByRoles(ctx, ids); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("clean role menus: %w", err)
	}
	return nil
}

type RoleListItem struct {
	ID         int64  `json:"id"`
	RoleName   string `json:"role_name"`
	StatusID   int8   `json:"status_id"`
	Sort       int    `json:"sort"`
	Remark     string `json:"remark"`
	CreateTime int64  `json:"create_time"`
	UpdateTime int64  `json:"update_time"`
}

type RoleListResult struct {
	List  []RoleListItem `json:"list"`
	Total int64          `json:"total"`
}

func (s *RoleService) List(ctx context.Context, roleName string, status *int8, page, pageSize int) (*RoleListResult, error) {
	ctx, span := s.tracer().Start(ctx, "RoleService.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	roles, total, err := s.Roles.List(ctx, roleName, status, (page-1)*pageSize, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list roles: %w", err)
	}
	items := make([]RoleListItem, 0, len(roles))
	for _, r := range roles {
		items = append(items, RoleListItem{
			ID: r.ID, RoleName: r.RoleName, StatusID: r.StatusID,
			Sort: r.Sort, Remark: r.Remark, CreateTime: r.CreateTime, UpdateTime: r.UpdateTime,
		})
	}
	return &RoleListResult{List: items, Total: total}, nil
}

// ListAll 下拉框用，全量角色
func (s *RoleService) ListAll(ctx context.Context) ([]RoleListItem, error) {
	ctx, span := s.tracer().Start(ctx, "RoleService.ListAll")
	defer span.End()

	roles, err := s.Roles.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list all roles: %w", err)
	}
	items := make([]RoleListItem, 0, len(roles))
	for _, r := range roles {
		items = append(items, RoleListItem{
			ID: r.ID, RoleName: r.RoleName, StatusID: r.StatusID,
			Sort: r.Sort, Remark: r.Remark, CreateTime: r.CreateTime, UpdateTime: r.UpdateTime,
		})
	}
	return items, nil
}

func (s *RoleService) Detail(ctx context.Context, id int64) (*RoleListItem, error) {
	ctx, span := s.tracer().Start(ctx, "RoleService.Detail")
	defer span.End()

	r, err := s.Roles.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find role %d: %w", id, err)
	}
	if r == nil {
		return nil, ErrRoleNotFound
	}
	return &RoleListItem{
		ID: r.ID, RoleName: r.RoleName, StatusID: r.StatusID,
		Sort: r.Sort, Remark: r.Remark, CreateTime: r.CreateTime, UpdateTime: r.UpdateTime,
	}, nil
}

// QueryRoleMenu 查询角色绑定的菜单 id；超级管理员角色视同绑定全部菜单
func (s *RoleService) QueryRoleMenu(ctx context.Context, roleID int64) ([]int64, error) {
	ctx, span := s.tracer().Start(ctx, "RoleService.QueryRoleMenu")
	defer span.End()

	if roleID == model.SuperAdminRoleID {
		menus, err := s.Menus.ListAll(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("list all menus: %w", err)
		}
		ids := make([]int64, 0, len(menus))
		for _, m := range menus {
			ids = append(ids, m.ID)
		}
		return ids, nil
	}
	ids, err := s.RoleMenus.ListMenuIDsByRole(ctx, roleID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list menus of role %d: %w", roleID, err)
	}
	return ids, nil
}

// UpdateRoleMenu 整体替换角色的菜单绑定；超级管理员角色无需绑定，拒绝修改
func (s *RoleService) UpdateRoleMenu(ctx context.Context, roleID int64, menuIDs []int64) error {
	ctx, span := s.tracer().Start(ctx, "RoleService.UpdateRoleMenu")
	defer span.End()

	if roleID == model.SuperAdminRoleID {
		return ErrReservedRoleEdit
	}
	if err := s.RoleMenus.Replace(ctx, roleID, menuIDs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("replace menus of role %d: %w", roleID, err)
	}
	return nil
}
