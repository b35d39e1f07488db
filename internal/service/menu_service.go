package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/pkg/cache"
)

var (
	ErrMenuNotFound    = errors.New("菜单不存在")
	ErrMenuHasChildren = errors.New("有下级菜单,不能直接删除")
)

const menuListCacheKey = "menu:list:all"

// MenuAdminStore 菜单管理存储口，由 dao.SysMenuDAO 满足
type MenuAdminStore interface {
	FindByID(ctx context.Context, id int64) (*model.SysMenu, error)
	ListAll(ctx context.Context) ([]model.SysMenu, error)
	CountChildren(ctx context.Context, parentID int64) (int64, error)
	Create(ctx context.Context, m *model.SysMenu) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, ids []int64, status int8) error
	Delete(ctx context.Context, ids []int64) error
}

// MenuService 菜单管理
// 全量列表走两层缓存（管理页高频拉取），任何写操作后整体失效；
// 权限解析不经过这里，永远直读库表
type MenuService struct {
	Menus    MenuAdminStore
	Cache    cache.Cache
	CacheTTL time.Duration
}

func NewMenuService(m MenuAdminStore, c cache.Cache, ttl time.Duration) *MenuService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &MenuService{Menus: m, Cache: c, CacheTTL: ttl}
}

func (s *MenuService) tracer() trace.Tracer { return otel.Tracer("service.menu") }

type MenuListItem struct {
	ID       int64  `json:"id"`
	ParentID int64  `json:"parent_id"`
	MenuName string `json:"menu_name"`
	MenuType int8   `json:"menu_type"`
	StatusID int8   `json:"status_id"`
	MenuURL  string `json:"menu_url"`
	APIURL   string `json:"api_url"`
	MenuIcon string `json:"menu_icon"`
	Sort     int    `json:"sort"`
	Remark   string `json:"remark"`
}

// List 全量菜单列表，缓存命中直接返回
func (s *MenuService) List(ctx context.Context) ([]MenuListItem, error) {
	ctx, span := s.tracer().Start(ctx, "MenuService.List")
	defer span.End()

	if s.Cache != nil {
		if v, _ := s.Cache.Get(ctx, menuListCacheKey); v != "" && !cache.IsNilSentinel(v) {
			var items []MenuListItem
			if json.Unmarshal([]byte(v), &items) == nil {
				return items, nil
			}
		}
	}

	menus, err := s.Menus.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list menus: %w", err)
	}
	items := make([]MenuListItem, 0, len(menus))
	for _, m := range menus {
		items = append(items, MenuListItem{
			ID: m.ID, ParentID: m.ParentID, MenuName: m.MenuName,
			MenuType: m.MenuType, StatusID: m.StatusID,
			MenuURL: m.MenuURL, APIURL: m.APIURL, MenuIcon: m.MenuIcon,
			Sort: m.Sort, Remark: m.Remark,
		})
	}
	if s.Cache != nil {
		if b, err := json.Marshal(items); err == nil {
			_ = s.Cache.SetEX(ctx, menuListCacheKey, cache.WrapNil(string(b)), cache.JitterTTL(s.CacheTTL))
		}
	}
	return items, nil
}

type AddMenuParams struct {
	ParentID int64
	MenuName string
	MenuType int8
	StatusID int8
	MenuURL  string
	APIURL   string
	MenuIcon string
	Sort     int
	Remark   string
}

func (s *MenuService) Add(ctx context.Context, p AddMenuParams) error {
	ctx, span := s.tracer().Start(ctx, "MenuService.Add")
	defer span.End()

	m := &model.SysMenu{
		ParentID: p.ParentID, MenuName: p.MenuName, MenuType: p.MenuType,
		StatusID: p.StatusID, MenuURL: p.MenuURL, APIURL: p.APIURL,
		MenuIcon: p.MenuIcon, Sort: p.Sort, Remark: p.Remark,
	}
	if err := s.Menus.Create(ctx, m); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("create menu: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

type EditMenuParams struct {
	ID       int64
	ParentID int64
	MenuName string
	MenuType int8
	StatusID int8
	MenuURL  string
	APIURL   string
	MenuIcon string
	Sort     int
	Remark   string
}

func (s *MenuService) Edit(ctx context.Context, p EditMenuParams) error {
	ctx, span := s.tracer().Start(ctx, "MenuService.Edit")
	defer span.End()

	exist, err := s.Menus.FindByID(ctx, p.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("find menu %d: %w", p.ID, err)
	}
	if exist == nil {
		return ErrMenuNotFound
	}
	fields := map[string]interface{}{
		"parent_id": p.ParentID,
		"menu_name": p.MenuName,
		"menu_type": p.MenuType,
		"status_id": p.StatusID,
		"menu_url":  p.MenuURL,
		"api_url":   p.APIURL,
		"menu_icon": p.MenuIcon,
		"sort":      p.Sort,
		"remark":    p.Remark,
	}
	if err := s.Menus.Update(ctx, p.ID, fields); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update menu %d: %w", p.ID, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) UpdateStatus(ctx context.Context, ids []int64, status int8) error {
	ctx, span := s.tracer().Start(ctx, "MenuService.UpdateStatus")
	defer span.End()

	if err := s.Menus.UpdateStatus(ctx, ids, status); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update menu status: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// Delete 删除菜单；存在子节点时拒绝，避免悬空的下级
func (s *MenuService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer().Start(ctx, "MenuService.Delete")
	defer span.End()

	children, err := s.Menus.CountChildren(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("count menu children: %w", err)
	}
	if children > 0 {
		return ErrMenuHasChildren
	}
	if err := s.Menus.Delete(ctx, []int64{id}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("delete menu %d: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) Detail(ctx context.Context, id int64) (*MenuListItem, error) {
	ctx, span := s.tracer().Start(ctx, "MenuService.Detail")
	defer span.End()

	m, err := s.Menus.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find menu %d: %w", id, err)
	}
	if m == nil {
		return nil, ErrMenuNotFound
	}
	return &MenuListItem{
		ID: m.ID, ParentID: m.ParentID, MenuName: m.MenuName,
		MenuType: m.MenuType, StatusID: m.StatusID,
		MenuURL: m.MenuURL, APIURL: m.APIURL, MenuIcon: m.MenuIcon,
		Sort: m.Sort, Remark: m.Remark,
	}, nil
}

func (s *MenuService) invalidate(ctx context.Context) {
	if s.Cache != nil {
		_ = s.Cache.Del(ctx, menuListCacheKey)
	}
}
