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

// SysUserDAO is a data access object for console users.
type SysUserDAO struct {
	DB *gorm.DB
}

func NewSysUserDAO(db *gorm.DB) *SysUserDAO { return &SysUserDAO{DB: db} }

func (d *SysUserDAO) tracer() trace.Tracer { return otel.Tracer("dao.sys_user") }

// FindByMobile 按登录手机号查询；不存在返回 (nil, nil)
func (d *SysUserDAO) FindByMobile(ctx context.Context, mobile string) (*model.SysUser, error) {
	ctx, span := d.tracer().Start(ctx, "SysUserDAO.FindByMobile")
	defer span.End()
	var u model.SysUser
	if err := d.DB.WithContext(ctx).Where("mobile = ?", mobile).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find user by mobile: %w", err)
	}
	return &u, nil
}

// FindByID finds a user by primary id; not-found returns (nil, nil).
func (d *SysUserDAO) FindByID(ctx context.Context, id int64) (*model.SysUser, error) {
	ctx, span := d.tracer().Start(ctx, "SysUserDAO.FindByID")
	defer span.End()
	var u model.SysUser
	if err := d.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("find user id=%d: %w", id, err)
	}
	return &u, nil
}

func (d *SysUserDAO) Create(ctx context.Context, u *model.SysUser) error {
	ctx, span := d.tracer().Start(ctx, "SysUserDAO.Create")
	defer span.End()
	if err := d.DB.WithContext(ctx).Create(u).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update 按字段集更新（密码单独走 UpdatePassword），update_time 由这里统一盖戳
func (d *SysUserDAO) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	ctx, span := d.tracer().Start(ctx, "SysUserDAO.Update")
	defer span.End()
	fields["update_time"] = time.Now().Unix()
	if err := d.DB.WithContext(ctx).Model(&model.SysUser{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update user id=%d: %w", id, err)
	}
	return nil
}

// UpdatePassword 更新密码（入参必须已哈希）
func (d *SysUserDAO) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	ctx, span := d.tracer().Start(ctx, "SysUserDAO.UpdatePassword")
	defer span.End()
	if err := d.DB.WithContext(ctx).Model(&model.SysUser{}).Where("id = ?", id).Update("password", hashed).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update password id=%d: %w", id, err)
	}
	return nil
}

func (d *SysUserDAO) UpdateStatus(ctx context.Context, ids []int64, status int8) error {
	ctx, span := d.tracer().Start(ctx, "SysUserDAO.UpdateStatus")
	defer span.End()
	if len(ids) == 0 {
		return nil
	}
	if err := d.DB.WithContext(ctx).Model(&model.SysUser{}).Where("id IN ?", ids).Update("status_id", status).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update user status: %w", err)
	}
	return nil
}

func (d *SysUserDAO) Delete(ctx context.Context, ids []int64) error {
	ctx, span := d.tracer().Start(ctx, "SysUserDAO.Delete")
	defer span.End()
	if len(ids) == 0 {
		return nil
	}
	if err := d.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&model.SysUser{}).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("delete users: %w", err)
	}
	return nil
}

// List 按手机号/状态过滤并分页
func (d *SysUserDAO) List(ctx context.Context, mobile string, status *int8, offset, limit int) ([]model.SysUser, int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysUserDAO.List")
	defer span.End()
	q := d.DB.WithContext(ctx).Model(&model.SysUser{})
	if mobile != "" {
		q = q.Where("mobile = ?", mobile)
	}
	if status != nil {
		q = q.Where("status_id = ?", *status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if limit <= 0 {
		limit = 500
	}
	var list []model.SysUser
	if err := q.Offset(offset).Limit(limit).Order("sort ASC, id ASC").Find(&list).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return list, total, nil
}
