package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/pkg/cache"
)

type fakeMenuAdminStore struct {
	menus    map[int64]*model.SysMenu
	listHits int
	deleted  []int64
}

func (f *fakeMenuAdminStore) FindByID(_ context.Context, id int64) (*model.SysMenu, error) {
	return f.menus[id], nil
}

func (f *fakeMenuAdminStore) ListAll(_ context.Context) ([]model.SysMenu, error) {
	f.listHits++
	out := make([]model.SysMenu, 0, len(f.menus))
	for _, m := range f.menus {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMenuAdminStore) CountChildren(_ context.Context, parentID int64) (int64, error) {
	var n int64
	for _, m := range f.menus {
		if m.ParentID == parentID {
			n++
		}
	}
	return n, nil
}

func (f *fakeMenuAdminStore) Create(_ context.Context, m *model.SysMenu) error {
	m.ID = int64(len(f.menus) + 10)
	f.menus[m.ID] = m
	return nil
}

func (f *fakeMenuAdminStore) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	return nil
}

func (f *fakeMenuAdminStore) UpdateStatus(_ context.Context, ids []int64, status int8) error {
	return nil
}

func (f *fakeMenuAdminStore) Delete(_ context.Context, ids []int64) error {
	f.deleted = append(f.deleted, ids...)
	for _, id := range ids {
		delete(f.menus, id)
	}
	return nil
}

func newMenuFixture() (*MenuService, *fakeMenuAdminStore) {
	store := &fakeMenuAdminStore{menus: map[int64]*model.SysMenu{
		1: {ID: 1, ParentID: 0, MenuName: "系统管理", MenuType: model.MenuTypeDirectory, StatusID: 1},
		2: {ID: 2, ParentID: 1, MenuName: "用户管理", MenuType: model.MenuTypePage, StatusID: 1, MenuURL: "/user"},
	}}
	return NewMenuService(store, cache.NewSimple(time.Minute), time.Minute), store
}

func TestDeleteMenuWithChildrenRejected(t *testing.T) {
	svc, store := newMenuFixture()

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrMenuHasChildren)
	assert.Empty(t, store.deleted)
}

func TestDeleteLeafMenu(t *testing.T) {
	svc, store := newMenuFixture()

	err := svc.Delete(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, store.deleted)
}

func TestMenuListServedFromCache(t *testing.T) {
	svc, store := newMenuFixture()

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, first, second)
	assert.Equal(t, 1, store.listHits)
}

func TestMenuWriteInvalidatesCache(t *testing.T) {
	svc, store := newMenuFixture()

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, store.listHits)

	err = svc.Add(context.Background(), AddMenuParams{ParentID: 0, MenuName: "报表", MenuType: model.MenuTypeDirectory, StatusID: 1})
	require.NoError(t, err)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 2, store.listHits)
}

func TestMenuDetailNotFound(t *testing.T) {
	svc, _ := newMenuFixture()

	_, err := svc.Detail(context.Background(), 999)
	assert.ErrorIs(t, err, ErrMenuNotFound)
}

func TestEditMissingMenu(t *testing.T) {
	svc, _ := newMenuFixture()

	err := svc.Edit(context.Background(), EditMenuParams{ID: 999, MenuName: "不存在"})
	assert.ErrorIs(t, err, ErrMenuNotFound)
}
