package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sysadmin/internal/domain/model"
)

type fakeRoleAdminStore struct {
	roles   map[int64]*model.SysRole
	deleted []int64
}

func (f *fakeRoleAdminStore) FindByID(_ context.Context, id int64) (*model.SysRole, error) {
	return f.roles[id], nil
}

func (f *fakeRoleAdminStore) ListAll(_ context.Context) ([]model.SysRole, error) {
	out := make([]model.SysRole, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRoleAdminStore) List(_ context.Context, roleName string, status *int8, offset, limit int) ([]model.SysRole, int64, error) {
	list, _ := f.ListAll(context.Background())
	return list, int64(len(list)), nil
}

func (f *fakeRoleAdminStore) Create(_ context.Context, r *model.SysRole) error {
	r.ID = int64(len(f.roles) + 10)
	f.roles[r.ID] = r
	return nil
}

func (f *fakeRoleAdminStore) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	return nil
}

func (f *fakeRoleAdminStore) UpdateStatus(_ context.Context, ids []int64, status int8) error {
	return nil
}

func (f *fakeRoleAdminStore) Delete(_ context.Context, ids []int64) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

type fakeRoleBindingStore struct {
	inUse map[int64]int64
}

func (f *fakeRoleBindingStore) CountByRoles(_ context.Context, roleIDs []int64) (int64, error) {
	var total int64
	for _, id := range roleIDs {
		total += f.inUse[id]
	}
	return total, nil
}

type fakeRoleMenuStore struct {
	menus   map[int64][]int64
	cleaned []int64
}

func (f *fakeRoleMenuStore) ListMenuIDsByRole(_ context.Context, roleID int64) ([]int64, error) {
	return f.menus[roleID], nil
}

func (f *fakeRoleMenuStore) Replace(_ context.Context, roleID int64, menuIDs []int64) error {
	f.menus[roleID] = menuIDs
	return nil
}

func (f *fakeRoleMenuStore) DeleteByRoles(_ context.Context, roleIDs []int64) error {
	f.cleaned = append(f.cleaned, roleIDs...)
	for _, id := range roleIDs {
		delete(f.menus, id)
	}
	return nil
}

func newRoleFixture() (*RoleService, *fakeRoleAdminStore, *fakeRoleBindingStore, *fakeRoleMenuStore) {
	roles := &fakeRoleAdminStore{roles: map[int64]*model.SysRole{
		1:  {ID: 1, RoleName: "超级管理员", StatusID: 1},
		20: {ID: 20, RoleName: "运营", StatusID: 1},
		21: {ID: 21, RoleName: "只读", StatusID: 1},
	}}
	bindings := &fakeRoleBindingStore{inUse: map[int64]int64{20: 3}}
	rm := &fakeRoleMenuStore{menus: map[int64][]int64{20: {2, 3}}}
	menus := permFixture()
	return NewRoleService(roles, bindings, rm, menus), roles, bindings, rm
}

func TestDeleteRoleInUseRejected(t *testing.T) {
	svc, roles, _, _ := newRoleFixture()

	err := svc.Delete(context.Background(), []int64{20})
	assert.ErrorIs(t, err, ErrRoleInUse)
	assert.Empty(t, roles.deleted)
}

func TestDeleteRoleCleansMenuBindings(t *testing.T) {
	svc, roles, _, rm := newRoleFixture()

	err := svc.Delete(context.Background(), []int64{21})
	require.NoError(t, err)
	assert.Equal(t, []int64{21}, roles.deleted)
	assert.Equal(t, []int64{21}, rm.cleaned)
}

func TestDeleteReservedRoleRejected(t *testing.T) {
	svc, _, _, _ := newRoleFixture()

	err := svc.Delete(context.Background(), []int64{model.SuperAdminRoleID})
	assert.ErrorIs(t, err, ErrReservedRoleEdit)
}

func TestEditReservedRoleRejected(t *testing.T) {
	svc, _, _, _ := newRoleFixture()

	err := svc.Edit(context.Background(), EditRoleParams{ID: model.SuperAdminRoleID, RoleName: "改名"})
	assert.ErrorIs(t, err, ErrReservedRoleEdit)
}

func TestQueryRoleMenuSuperAdminGetsAll(t *testing.T) {
	svc, _, _, _ := newRoleFixture()

	ids, err := svc.QueryRoleMenu(context.Background(), model.SuperAdminRoleID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5}, ids)
}

func TestQueryRoleMenuNormalRole(t *testing.T) {
	svc, _, _, _ := newRoleFixture()

	ids, err := svc.QueryRoleMenu(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids)
}

func TestUpdateRoleMenuReservedRejected(t *testing.T) {
	svc, _, _, rm := newRoleFixture()

	err := svc.UpdateRoleMenu(context.Background(), model.SuperAdminRoleID, []int64{1})
	assert.ErrorIs(t, err, ErrReservedRoleEdit)

	err = svc.UpdateRoleMenu(context.Background(), 20, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, rm.menus[20])
}
