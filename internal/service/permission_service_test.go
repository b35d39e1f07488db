package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sysadmin/internal/domain/model"
)

type fakeUserRoleStore struct {
	roles   map[int64][]int64
	listErr error
	hasErr  error
}

func (f *fakeUserRoleStore) ListRoleIDsByUser(_ context.Context, userID int64) ([]int64, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.roles[userID], nil
}

func (f *fakeUserRoleStore) HasRole(_ context.Context, userID, roleID int64) (bool, error) {
	if f.hasErr != nil {
		return false, f.hasErr
	}
	for _, id := range f.roles[userID] {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}

type fakeMenuStore struct {
	menus     []model.SysMenu
	byRole    map[int64][]int64
	listErr   error
	byRoleErr error
}

func (f *fakeMenuStore) ListAll(_ context.Context) ([]model.SysMenu, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.menus, nil
}

func (f *fakeMenuStore) ListByRoleIDs(_ context.Context, roleIDs []int64) ([]model.SysMenu, error) {
	if f.byRoleErr != nil {
		return nil, f.byRoleErr
	}
	want := make(map[int64]struct{})
	for _, rid := range roleIDs {
		for _, mid := range f.byRole[rid] {
			want[mid] = struct{}{}
		}
	}
	out := make([]model.SysMenu, 0, len(want))
	for _, m := range f.menus {
		if _, ok := want[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// 目录 A(1) > 页面 B(2) > 按钮 C(3)，另有独立目录 D(4) 与禁用页面 E(5)
func permFixture() *fakeMenuStore {
	return &fakeMenuStore{
		menus: []model.SysMenu{
			{ID: 1, ParentID: 0, MenuName: "系统管理", MenuType: model.MenuTypeDirectory, StatusID: 1, Sort: 1},
			{ID: 2, ParentID: 1, MenuName: "用户管理", MenuType: model.MenuTypePage, StatusID: 1, MenuURL: "/user", Sort: 2},
			{ID: 3, ParentID: 2, MenuName: "新增用户", MenuType: model.MenuTypeButton, StatusID: 1, APIURL: "/api/add_user", Sort: 3},
			{ID: 4, ParentID: 0, MenuName: "报表", MenuType: model.MenuTypeDirectory, StatusID: 1, Sort: 4},
			{ID: 5, ParentID: 1, MenuName: "禁用页", MenuType: model.MenuTypePage, StatusID: 2, MenuURL: "/disabled", Sort: 5},
		},
		byRole: map[int64][]int64{},
	}
}

func TestResolveButtonPermissionsNormalUser(t *testing.T) {
	menus := permFixture()
	menus.byRole = map[int64][]int64{10: {2, 3}}
	ur := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := NewPermissionService(ur, menus, nil)

	urls, err := svc.ResolveButtonPermissions(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/add_user"}, urls)
}

func TestResolveButtonPermissionsSuperAdmin(t *testing.T) {
	menus := permFixture()
	// 超管不需要任何菜单绑定，直接全量
	ur := &fakeUserRoleStore{roles: map[int64][]int64{1: {model.SuperAdminRoleID}}}
	svc := NewPermissionService(ur, menus, nil)

	urls, err := svc.ResolveButtonPermissions(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/add_user"}, urls)
}

func TestResolveButtonPermissionsEmptyWhenNoRoles(t *testing.T) {
	menus := permFixture()
	ur := &fakeUserRoleStore{roles: map[int64][]int64{}}
	svc := NewPermissionService(ur, menus, nil)

	urls, err := svc.ResolveButtonPermissions(context.Background(), 200)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestResolveButtonPermissionsStoreErrorNotEmptySet(t *testing.T) {
	menus := permFixture()
	ur := &fakeUserRoleStore{roles: map[int64][]int64{}, listErr: errors.New("db gone")}
	svc := NewPermissionService(ur, menus, nil)

	urls, err := svc.ResolveButtonPermissions(context.Background(), 100)
	require.Error(t, err)
	assert.Nil(t, urls)
}

func TestResolveMenuTreeCompletesAncestors(t *testing.T) {
	menus := permFixture()
	// 只授权按钮 C，目录 A 和页面 B 应被补全
	menus.byRole = map[int64][]int64{10: {3}}
	ur := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := NewPermissionService(ur, menus, nil)

	nodes, btns, err := svc.ResolveMenuTree(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/add_user"}, btns)

	ids := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []int64{1, 2}, ids, "按钮不入树,但其祖先目录与页面要补全")
}

func TestResolveMenuTreeIdempotent(t *testing.T) {
	menus := permFixture()
	menus.byRole = map[int64][]int64{10: {2, 3}}
	ur := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := NewPermissionService(ur, menus, nil)

	first, _, err := svc.ResolveMenuTree(context.Background(), 100)
	require.NoError(t, err)
	second, _, err := svc.ResolveMenuTree(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveMenuTreeOrphanParentBecomesRoot(t *testing.T) {
	menus := &fakeMenuStore{
		menus: []model.SysMenu{
			// 父节点 99 已从菜单表删除
			{ID: 7, ParentID: 99, MenuName: "孤儿页面", MenuType: model.MenuTypePage, StatusID: 1, Sort: 1},
		},
		byRole: map[int64][]int64{10: {7}},
	}
	ur := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := NewPermissionService(ur, menus, nil)

	nodes, _, err := svc.ResolveMenuTree(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, int64(0), nodes[0].ParentID)
}

func TestResolveMenuTreeSkipsDisabled(t *testing.T) {
	menus := permFixture()
	menus.byRole = map[int64][]int64{10: {2, 5}}
	ur := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := NewPermissionService(ur, menus, nil)

	nodes, _, err := svc.ResolveMenuTree(context.Background(), 100)
	require.NoError(t, err)
	for _, n := range nodes {
		assert.NotEqual(t, int64(5), n.ID, "禁用菜单不应出现在树里")
	}
}

func TestResolveButtonPermissionsIncludesDisabledMenus(t *testing.T) {
	// 按钮权限不看 status，禁用只影响菜单树渲染
	menus := &fakeMenuStore{
		menus: []model.SysMenu{
			{ID: 6, ParentID: 0, MenuName: "导出", MenuType: model.MenuTypeButton, StatusID: 2, APIURL: "/api/export", Sort: 1},
		},
		byRole: map[int64][]int64{10: {6}},
	}
	ur := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := NewPermissionService(ur, menus, nil)

	urls, err := svc.ResolveButtonPermissions(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/export"}, urls)
}

func TestResolveMenuTreeExcludesDisabledAncestor(t *testing.T) {
	menus := &fakeMenuStore{
		menus: []model.SysMenu{
			{ID: 1, ParentID: 0, MenuName: "停用目录", MenuType: model.MenuTypeDirectory, StatusID: 2, Sort: 1},
			{ID: 2, ParentID: 1, MenuName: "页面", MenuType: model.MenuTypePage, StatusID: 1, MenuURL: "/page", Sort: 2},
		},
		byRole: map[int64][]int64{10: {2}},
	}
	ur := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := NewPermissionService(ur, menus, nil)

	nodes, _, err := svc.ResolveMenuTree(context.Background(), 100)
	require.NoError(t, err)
	ids := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []int64{2}, ids, "补全进来的祖先同样要过启用过滤")
}

func TestResolveMenuTreeAncestorAPIURLJoinsButtons(t *testing.T) {
	// 自动补全的祖先若带 api_url，也计入按钮权限集合
	menus := &fakeMenuStore{
		menus: []model.SysMenu{
			{ID: 1, ParentID: 0, MenuName: "目录", MenuType: model.MenuTypeDirectory, StatusID: 1, APIURL: "/api/dir", Sort: 1},
			{ID: 2, ParentID: 1, MenuName: "页面", MenuType: model.MenuTypePage, StatusID: 1, MenuURL: "/page", Sort: 2},
		},
		byRole: map[int64][]int64{10: {2}},
	}
	ur := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := NewPermissionService(ur, menus, nil)

	nodes, btns, err := svc.ResolveMenuTree(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Contains(t, btns, "/api/dir")
}

func TestIsSuperAdminExplicitPredicate(t *testing.T) {
	// 用户 id 不为 1，但绑定了超级管理员角色
	ur := &fakeUserRoleStore{roles: map[int64][]int64{7: {model.SuperAdminRoleID, 20}}}
	svc := NewPermissionService(ur, permFixture(), nil)

	super, err := svc.IsSuperAdmin(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, super)

	super, err = svc.IsSuperAdmin(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, super)
}

func TestIsSuperAdminPropagatesStoreError(t *testing.T) {
	ur := &fakeUserRoleStore{hasErr: errors.New("conn reset")}
	svc := NewPermissionService(ur, permFixture(), nil)

	_, err := svc.IsSuperAdmin(context.Background(), 7)
	assert.Error(t, err)
}
