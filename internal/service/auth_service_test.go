package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/security/jwt"
	"go-sysadmin/pkg/crypto"
)

type fakeUserStore struct {
	mu      sync.Mutex
	users   map[string]*model.SysUser
	findErr error
	updated map[int64]string
}

func newFakeUserStore(users ...*model.SysUser) *fakeUserStore {
	m := make(map[string]*model.SysUser, len(users))
	for _, u := range users {
		m[u.Mobile] = u
	}
	return &fakeUserStore{users: m, updated: make(map[int64]string)}
}

func (f *fakeUserStore) FindByMobile(_ context.Context, mobile string) (*model.SysUser, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[mobile], nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id int64) (*model.SysUser, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id int64, hashed string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[id] = hashed
	return nil
}

func (f *fakeUserStore) passwordOf(id int64) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.updated[id]
	return v, ok
}

func newAuthFixture(t *testing.T, users *fakeUserStore, menus *fakeMenuStore, roles *fakeUserRoleStore) *AuthService {
	t.Helper()
	jm := jwt.NewManager("unit-test-secret-0123456789", 3600, "test")
	perm := NewPermissionService(roles, menus, nil)
	return NewAuthService(users, perm, jm, nil, nil)
}

func hashOf(t *testing.T, plain string) string {
	t.Helper()
	h, err := crypto.HashPassword(plain)
	require.NoError(t, err)
	return h
}

func TestLoginSuccess(t *testing.T) {
	users := newFakeUserStore(&model.SysUser{ID: 100, Mobile: "13800000000", Username: "张三", Password: hashOf(t, "secret"), StatusID: 1})
	menus := permFixture()
	menus.byRole = map[int64][]int64{10: {2, 3}}
	roles := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := newAuthFixture(t, users, menus, roles)

	res, err := svc.Login(context.Background(), "13800000000", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64(100), res.UserID)
	assert.Equal(t, []string{"/api/add_user"}, res.Permissions)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserStore(&model.SysUser{ID: 100, Mobile: "13800000000", Password: hashOf(t, "secret"), StatusID: 1})
	svc := newAuthFixture(t, users, permFixture(), &fakeUserRoleStore{roles: map[int64][]int64{}})

	_, err := svc.Login(context.Background(), "13800000000", "wrong")
	assert.ErrorIs(t, err, ErrPasswordIncorrect)
}

func TestLoginUnknownMobile(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthFixture(t, users, permFixture(), &fakeUserRoleStore{roles: map[int64][]int64{}})

	_, err := svc.Login(context.Background(), "13999999999", "whatever")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginDisabledUser(t *testing.T) {
	users := newFakeUserStore(&model.SysUser{ID: 100, Mobile: "13800000000", Password: hashOf(t, "secret"), StatusID: 2})
	svc := newAuthFixture(t, users, permFixture(), &fakeUserRoleStore{roles: map[int64][]int64{}})

	_, err := svc.Login(context.Background(), "13800000000", "secret")
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestLoginNoRoleOrMenuRejected(t *testing.T) {
	users := newFakeUserStore(&model.SysUser{ID: 100, Mobile: "13800000000", Password: hashOf(t, "secret"), StatusID: 1})
	roles := &fakeUserRoleStore{roles: map[int64][]int64{}}
	svc := newAuthFixture(t, users, permFixture(), roles)

	_, err := svc.Login(context.Background(), "13800000000", "secret")
	assert.ErrorIs(t, err, ErrNoRoleOrMenu)
}

func TestLoginRejectedWithoutButtonPermissions(t *testing.T) {
	// 只授权目录和页面、没有任何 api_url，解析出的按钮权限为空，同样拒绝登录
	users := newFakeUserStore(&model.SysUser{ID: 100, Mobile: "13800000000", Password: hashOf(t, "secret"), StatusID: 1})
	menus := permFixture()
	menus.byRole = map[int64][]int64{10: {1, 2}}
	roles := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := newAuthFixture(t, users, menus, roles)

	_, err := svc.Login(context.Background(), "13800000000", "secret")
	assert.ErrorIs(t, err, ErrNoRoleOrMenu)
}

func TestLoginStoreErrorNotConflatedWithEmpty(t *testing.T) {
	users := newFakeUserStore(&model.SysUser{ID: 100, Mobile: "13800000000", Password: hashOf(t, "secret"), StatusID: 1})
	roles := &fakeUserRoleStore{listErr: errors.New("db gone")}
	svc := newAuthFixture(t, users, permFixture(), roles)

	_, err := svc.Login(context.Background(), "13800000000", "secret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoRoleOrMenu)
	assert.NotErrorIs(t, err, ErrPasswordIncorrect)
}

func TestLoginSuperAdminBypassesBindings(t *testing.T) {
	users := newFakeUserStore(&model.SysUser{ID: 1, Mobile: "13800000001", Password: hashOf(t, "admin"), StatusID: 1})
	roles := &fakeUserRoleStore{roles: map[int64][]int64{1: {model.SuperAdminRoleID}}}
	svc := newAuthFixture(t, users, permFixture(), roles)

	res, err := svc.Login(context.Background(), "13800000001", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Permissions)
}

func TestLoginUpgradesLegacyPlaintext(t *testing.T) {
	users := newFakeUserStore(&model.SysUser{ID: 100, Mobile: "13800000000", Password: "plaintext-pwd", StatusID: 1})
	menus := permFixture()
	menus.byRole = map[int64][]int64{10: {2, 3}}
	roles := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := newAuthFixture(t, users, menus, roles)

	_, err := svc.Login(context.Background(), "13800000000", "plaintext-pwd")
	require.NoError(t, err)

	// 升级异步执行，轮询等待写入
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hashed, ok := users.passwordOf(100); ok {
			assert.False(t, crypto.IsLegacyPlaintext(hashed))
			assert.True(t, crypto.VerifyPassword(hashed, "plaintext-pwd"))
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("legacy password was not upgraded")
}

func TestQueryUserMenu(t *testing.T) {
	users := newFakeUserStore(&model.SysUser{ID: 100, Mobile: "13800000000", Username: "张三", Password: hashOf(t, "secret"), StatusID: 1})
	menus := permFixture()
	menus.byRole = map[int64][]int64{10: {2, 3}}
	roles := &fakeUserRoleStore{roles: map[int64][]int64{100: {10}}}
	svc := newAuthFixture(t, users, menus, roles)

	res, err := svc.QueryUserMenu(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "张三", res.Username)
	assert.NotEmpty(t, res.AvatarURL)
	assert.NotEmpty(t, res.Menus)
	assert.Equal(t, []string{"/api/add_user"}, res.BtnMenus)
}

func TestUpdatePasswordChecksOld(t *testing.T) {
	users := newFakeUserStore(&model.SysUser{ID: 100, Mobile: "13800000000", Password: hashOf(t, "old-pwd"), StatusID: 1})
	svc := newAuthFixture(t, users, permFixture(), &fakeUserRoleStore{roles: map[int64][]int64{}})

	err := svc.UpdatePassword(context.Background(), 100, "bad-old", "new-pwd")
	assert.ErrorIs(t, err, ErrPasswordIncorrect)

	err = svc.UpdatePassword(context.Background(), 100, "old-pwd", "new-pwd")
	require.NoError(t, err)
	hashed, ok := users.passwordOf(100)
	require.True(t, ok)
	assert.True(t, crypto.VerifyPassword(hashed, "new-pwd"))
}
