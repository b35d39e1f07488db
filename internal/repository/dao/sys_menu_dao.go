package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-sysadmin/internal/domain/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type SysMenuDAO struct{ DB *gorm.DB }

func NewSysMenuDAO(db *gorm.DB) *SysMenuDAO { return &SysMenuDAO{DB: db} }

func (d *SysMenuDAO) tracer() trace.Tracer { return otel.Tracer("dao.sys_menu") }

// ListAll 返回全部菜单（超级管理员候选集 / 管理端列表），sort 升序
func (d *SysMenuDAO) ListAll(ctx context.Context) ([]model.SysMenu, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.ListAll")
	defer span.End()
	var list []model.SysMenu
	if err := d.DB.WithContext(ctx).Order("sort ASC, id ASC").Find(&list).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return list, nil
}

// ListByRoleIDs 经 sys_role_menu 关联取角色可见的菜单行
func (d *SysMenuDAO) ListByRoleIDs(ctx context.Context, roleIDs []int64) ([]model.SysMenu, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.ListByRoleIDs")
	defer span.End()
	if len(roleIDs) == 0 {
		return []model.SysMenu{}, nil
	}
	var list []model.SysMenu
	err := d.DB.WithContext(ctx).
		Joins("JOIN sys_role_menu srm ON srm.menu_id = sys_menu.id").
		Where("srm.role_id IN ?", roleIDs).
		Order("sys_menu.id ASC").
		Distinct("sys_menu.*").
		Find(&list).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list menus by roles: %w", err)
	}
	return list, nil
}

// ListEnabledByIDs 按 id 集合取启用状态菜单，sort 升序去重（菜单树补全后的回查）
func (d *SysMenuDAO) ListEnabledByIDs(ctx context.Context, ids []int64) ([]model.SysMenu, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.ListEnabledByIDs")
	defer span.End()
	if len(ids) == 0 {
		return []model.SysMenu{}, nil
	}
	var list []model.SysMenu
	err := d.DB.WithContext(ctx).
		Where("id IN ? AND status_id = ?", ids, 1).
		Order("sort ASC, id ASC").
		Distinct().
		Find(&list).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list menus by ids: %w", err)
	}
	return list, nil
}

// ListAPIURLs 全量非空 api_url（超级管理员按钮权限）
func (d *SysMenuDAO) ListAPIURLs(ctx context.Context) ([]string, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.ListAPIURLs")
	defer span.End()
	var urls []string
	err := d.DB.WithContext(ctx).Model(&model.SysMenu{}).
		Where("api_url <> ''").
		Pluck("api_url", &urls).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list menu api urls: %w", err)
	}
	return urls, nil
}

func (d *SysMenuDAO) FindByID(ctx context.Context, id int64) (*model.SysMenu, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.FindByID")
	defer span.End()
	var m model.SysMenu
	if err := d.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find menu id=%d: %w", id, err)
	}
	return &m, nil
}

// CountChildren 下级菜单数量（删除守卫）
func (d *SysMenuDAO) CountChildren(ctx context.Context, id int64) (int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.CountChildren")
	defer span.End()
	var n int64
	if err := d.DB.WithContext(ctx).Model(&model.SysMenu{}).Where("parent_id = ?", id).Count(&n).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("count menu children id=%d: %w", id, err)
	}
	return n, nil
}

func (d *SysMenuDAO) Create(ctx context.Context, m *model.SysMenu) error {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.Create")
	defer span.End()
	if err := d.DB.WithContext(ctx).Create(m).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("create menu: %w", err)
	}
	return nil
}

// Update 按字段集更新，update_time 由这里统一盖戳
func (d *SysMenuDAO) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.Update")
	defer span.End()
	fields["update_time"] = time.Now().Unix()
	if err := d.DB.WithContext(ctx).Model(&model.SysMenu{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update menu id=%d: %w", id, err)
	}
	return nil
}

func (d *SysMenuDAO) UpdateStatus(ctx context.Context, ids []int64, status int8) error {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.UpdateStatus")
	defer span.End()
	if len(ids) == 0 {
		return nil
	}
	if err := d.DB.WithContext(ctx).Model(&model.SysMenu{}).Where("id IN ?", ids).Update("status_id", status).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update menu status: %w", err)
	}
	return nil
}

func (d *SysMenuDAO) Delete(ctx context.Context, ids []int64) error {
	ctx, span := d.tracer().Start(ctx, "SysMenuDAO.Delete")
	defer span.End()
	if len(ids) == 0 {
		return nil
	}
	if err := d.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&model.SysMenu{}).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("delete menus: %w", err)
	}
	return nil
}
