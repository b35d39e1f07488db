package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/metrics"
)

// UserRoleStore 权限解析依赖的用户-角色关联读取口
type UserRoleStore interface {
	ListRoleIDsByUser(ctx context.Context, userID int64) ([]int64, error)
	HasRole(ctx context.Context, userID, roleID int64) (bool, error)
}

// MenuStore 权限解析依赖的菜单读取口
type MenuStore interface {
	ListAll(ctx context.Context) ([]model.SysMenu, error)
	ListByRoleIDs(ctx context.Context, roleIDs []int64) ([]model.SysMenu, error)
}

// MenuNode 菜单树节点，扁平返回，前端按 parent_id 组装层级
type MenuNode struct {
	ID       int64  `json:"id"`
	ParentID int64  `json:"parent_id"`
	MenuName string `json:"menu_name"`
	MenuType int8   `json:"menu_type"`
	MenuURL  string `json:"menu_url"`
	APIURL   string `json:"api_url"`
	MenuIcon string `json:"menu_icon"`
	Sort     int    `json:"sort"`
}

// PermissionService 负责把用户的角色关联解析为按钮权限集合与可见菜单树
// 解析结果不做缓存：登录与鉴权路径上的权限必须反映库表当前状态
type PermissionService struct {
	UserRoles UserRoleStore
	Menus     MenuStore
	Metrics   *metrics.Metrics
}

func NewPermissionService(ur UserRoleStore, m MenuStore, mt *metrics.Metrics) *PermissionService {
	return &PermissionService{UserRoles: ur, Menus: m, Metrics: mt}
}

func (p *PermissionService) tracer() trace.Tracer { return otel.Tracer("service.permission") }

// IsSuperAdmin 判定用户是否绑定超级管理员角色
// 显式查关联表，不以 join 结果为空来推断
func (p *PermissionService) IsSuperAdmin(ctx context.Context, userID int64) (bool, error) {
	ctx, span := p.tracer().Start(ctx, "PermissionService.IsSuperAdmin")
	defer span.End()

	ok, err := p.UserRoles.HasRole(ctx, userID, model.SuperAdminRoleID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("check super admin role: %w", err)
	}
	return ok, nil
}

// ResolveButtonPermissions 返回用户可调用的接口地址集合（去重、升序）
// 超级管理员取全量菜单的 api_url，普通用户取其角色关联菜单中的 api_url；
// 不按 status 过滤，禁用只影响菜单树的渲染
// 存储层报错时原样上抛，绝不降级成空集合
func (p *PermissionService) ResolveButtonPermissions(ctx context.Context, userID int64) ([]string, error) {
	ctx, span := p.tracer().Start(ctx, "PermissionService.ResolveButtonPermissions")
	defer span.End()
	start := time.Now()
	defer p.observe("buttons", start)

	menus, err := p.loadUserMenus(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	seen := make(map[string]struct{}, len(menus))
	urls := make([]string, 0, len(menus))
	for _, m := range menus {
		if m.APIURL == "" {
			continue
		}
		if _, ok := seen[m.APIURL]; ok {
			continue
		}
		seen[m.APIURL] = struct{}{}
		urls = append(urls, m.APIURL)
	}
	sort.Strings(urls)
	return urls, nil
}

// ResolveMenuTree 返回用户可见菜单节点与按钮权限集合
// 节点集合做补全：命中菜单（含按钮）的祖先链即使未直接授权也会补入，保证树能渲染；
// 禁用节点不出现在最终列表，父节点在菜单表中已不存在的按根节点处理；
// 最终列表里带 api_url 的节点同样计入按钮权限
func (p *PermissionService) ResolveMenuTree(ctx context.Context, userID int64) ([]MenuNode, []string, error) {
	ctx, span := p.tracer().Start(ctx, "PermissionService.ResolveMenuTree")
	defer span.End()
	start := time.Now()
	defer p.observe("tree", start)

	menus, err := p.loadUserMenus(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	all, err := p.Menus.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, fmt.Errorf("list all menus: %w", err)
	}
	byID := make(map[int64]model.SysMenu, len(all))
	for _, m := range all {
		byID[m.ID] = m
	}

	// 授权行可能比全量表新（并发写），兜底补进索引
	for _, m := range menus {
		if _, ok := byID[m.ID]; !ok {
			byID[m.ID] = m
		}
	}

	btnSeen := make(map[string]struct{})
	btnURLs := make([]string, 0)
	addBtn := func(url string) {
		if url == "" {
			return
		}
		if _, ok := btnSeen[url]; ok {
			return
		}
		btnSeen[url] = struct{}{}
		btnURLs = append(btnURLs, url)
	}

	// 工作集：沿 parent_id 向上追到根，未直接授权的祖先依次补入
	idSet := make(map[int64]struct{}, len(menus))
	addWithAncestors := func(id int64) {
		for id != 0 {
			if _, ok := idSet[id]; ok {
				return
			}
			m, ok := byID[id]
			if !ok {
				return
			}
			idSet[id] = struct{}{}
			id = m.ParentID
		}
	}

	for _, m := range menus {
		addBtn(m.APIURL)
		if m.MenuType == model.MenuTypeButton {
			// 按钮不入树，但其挂靠页面及祖先链必须可见
			addWithAncestors(m.ParentID)
			continue
		}
		addWithAncestors(m.ID)
	}

	// 按工作集回查：只保留启用节点，父节点已被删除的挂到根
	nodes := make([]MenuNode, 0, len(idSet))
	for id := range idSet {
		m := byID[id]
		if m.StatusID != 1 {
			continue
		}
		parentID := m.ParentID
		if parentID != 0 {
			if _, ok := byID[parentID]; !ok {
				parentID = 0
			}
		}
		nodes = append(nodes, MenuNode{
			ID:       m.ID,
			ParentID: parentID,
			MenuName: m.MenuName,
			MenuType: m.MenuType,
			MenuURL:  m.MenuURL,
			APIURL:   m.APIURL,
			MenuIcon: m.MenuIcon,
			Sort:     m.Sort,
		})
		addBtn(m.APIURL)
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Sort != nodes[j].Sort {
			return nodes[i].Sort < nodes[j].Sort
		}
		return nodes[i].ID < nodes[j].ID
	})
	sort.Strings(btnURLs)
	return nodes, btnURLs, nil
}

// loadUserMenus 按身份取菜单原始行：超级管理员全量，普通用户按角色关联
func (p *PermissionService) loadUserMenus(ctx context.Context, userID int64) ([]model.SysMenu, error) {
	super, err := p.IsSuperAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if super {
		menus, err := p.Menus.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list all menus: %w", err)
		}
		return menus, nil
	}
	roleIDs, err := p.UserRoles.ListRoleIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list roles of user %d: %w", userID, err)
	}
	if len(roleIDs) == 0 {
		return nil, nil
	}
	menus, err := p.Menus.ListByRoleIDs(ctx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("list menus of roles %v: %w", roleIDs, err)
	}
	return menus, nil
}

func (p *PermissionService) observe(kind string, start time.Time) {
	if p.Metrics != nil {
		p.Metrics.PermissionResolveDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}
