package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sysadmin/internal/domain/model"
)

type fakeUserAdminStore struct {
	users   map[int64]*model.SysUser
	deleted []int64
}

func (f *fakeUserAdminStore) FindByID(_ context.Context, id int64) (*model.SysUser, error) {
	return f.users[id], nil
}

func (f *fakeUserAdminStore) FindByMobile(_ context.Context, mobile string) (*model.SysUser, error) {
	for _, u := range f.users {
		if u.Mobile == mobile {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserAdminStore) Create(_ context.Context, u *model.SysUser) error {
	u.ID = int64(len(f.users) + 100)
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserAdminStore) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	return nil
}

func (f *fakeUserAdminStore) UpdateStatus(_ context.Context, ids []int64, status int8) error {
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			u.StatusID = status
		}
	}
	return nil
}

func (f *fakeUserAdminStore) Delete(_ context.Context, ids []int64) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeUserAdminStore) List(_ context.Context, mobile string, status *int8, offset, limit int) ([]model.SysUser, int64, error) {
	out := make([]model.SysUser, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

type fakeUserRoleAdminStore struct {
	bindings map[int64][]int64
}

func (f *fakeUserRoleAdminStore) ListRoleIDsByUser(_ context.Context, userID int64) ([]int64, error) {
	return f.bindings[userID], nil
}

func (f *fakeUserRoleAdminStore) Replace(_ context.Context, userID int64, roleIDs []int64) error {
	f.bindings[userID] = roleIDs
	return nil
}

func newUserFixture() (*UserService, *fakeUserAdminStore, *fakeUserRoleAdminStore) {
	users := &fakeUserAdminStore{users: map[int64]*model.SysUser{
		1: {ID: 1, Username: "超级管理员", Mobile: "13800000001", StatusID: 1},
		2: {ID: 2, Username: "普通用户", Mobile: "13800000002", StatusID: 1},
	}}
	ur := &fakeUserRoleAdminStore{bindings: map[int64][]int64{2: {20}}}
	return NewUserService(users, ur), users, ur
}

func TestDeleteReservedUserRejected(t *testing.T) {
	svc, users, _ := newUserFixture()

	err := svc.Delete(context.Background(), []int64{2, model.SuperAdminUserID})
	assert.ErrorIs(t, err, ErrReservedUser)
	assert.Empty(t, users.deleted, "保留用户校验要发生在进库之前")
}

func TestDeleteNormalUser(t *testing.T) {
	svc, users, _ := newUserFixture()

	err := svc.Delete(context.Background(), []int64{2})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, users.deleted)
}

func TestUpdateStatusReservedUserRejected(t *testing.T) {
	svc, _, _ := newUserFixture()

	err := svc.UpdateStatus(context.Background(), []int64{model.SuperAdminUserID}, 2)
	assert.ErrorIs(t, err, ErrReservedUser)
}

func TestUpdateUserRolesReservedUserRejected(t *testing.T) {
	svc, _, ur := newUserFixture()

	err := svc.UpdateUserRoles(context.Background(), model.SuperAdminUserID, []int64{20})
	assert.ErrorIs(t, err, ErrReservedUserRole)
	assert.NotContains(t, ur.bindings, model.SuperAdminUserID)
}

func TestUpdateUserRolesReservedRoleRejected(t *testing.T) {
	svc, _, ur := newUserFixture()

	err := svc.UpdateUserRoles(context.Background(), 2, []int64{20, model.SuperAdminRoleID})
	assert.ErrorIs(t, err, ErrReservedRole)
	assert.Equal(t, []int64{20}, ur.bindings[2], "原绑定不应被改动")
}

func TestUpdateUserRolesReplaces(t *testing.T) {
	svc, _, ur := newUserFixture()

	err := svc.UpdateUserRoles(context.Background(), 2, []int64{21, 22})
	require.NoError(t, err)
	assert.Equal(t, []int64{21, 22}, ur.bindings[2])
}

func TestAddUserDuplicateMobile(t *testing.T) {
	svc, _, _ := newUserFixture()

	err := svc.Add(context.Background(), AddUserParams{Username: "x", Mobile: "13800000002", Password: "pwd", StatusID: 1})
	assert.ErrorIs(t, err, ErrMobileExists)
}

func TestAddUserHashesPassword(t *testing.T) {
	svc, users, _ := newUserFixture()

	err := svc.Add(context.Background(), AddUserParams{Username: "新用户", Mobile: "13800000003", Password: "plain", StatusID: 1})
	require.NoError(t, err)
	created, err := users.FindByMobile(context.Background(), "13800000003")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEqual(t, "plain", created.Password, "入库口令必须是摘要")
}
