package dao

import (
	"context"
	"fmt"
	"time"

	"go-sysadmin/internal/domain/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type SysUserRoleDAO struct{ DB *gorm.DB }

func NewSysUserRoleDAO(db *gorm.DB) *SysUserRoleDAO { return &SysUserRoleDAO{DB: db} }

func (d *SysUserRoleDAO) tracer() trace.Tracer { return otel.Tracer("dao.sys_user_role") }

// ListRoleIDsByUser 返回用户持有的角色 id 列表
func (d *SysUserRoleDAO) ListRoleIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysUserRoleDAO.ListRoleIDsByUser")
	defer span.End()
	var ids []int64
	err := d.DB.WithContext(ctx).Model(&model.SysUserRole{}).
		Where("user_id = ?", userID).
		Pluck("role_id", &ids).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list role ids by user=%d: %w", userID, err)
	}
	return ids, nil
}

// HasRole 显式判断用户是否持有指定角色（超级管理员判定专用，不借助 join 失败推断）
func (d *SysUserRoleDAO) HasRole(ctx context.Context, userID, roleID int64) (bool, error) {
	ctx, span := d.tracer().Start(ctx, "SysUserRoleDAO.HasRole")
	defer span.End()
	var n int64
	err := d.DB.WithContext(ctx).Model(&model.SysUserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&n).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("check role user=%d role=%d: %w", userID, roleID, err)
	}
	return n > 0, nil
}

// CountByRoles 引用指定角色的关联行数（角色删除守卫）
func (d *SysUserRoleDAO) CountByRoles(ctx context.Context, roleIDs []int64) (int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysUserRoleDAO.CountByRoles")
	defer span.End()
	if len(roleIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := d.DB.WithContext(ctx).Model(&model.SysUserRole{}).
		Where("role_id IN ?", roleIDs).
		Count(&n).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("count user refs by roles: %w", err)
	}
	return n, nil
}

// Replace 整体替换用户的角色集合（先删后插，同一事务）
func (d *SysUserRoleDAO) Replace(ctx context.Context, userID int64, roleIDs []int64) error {
	ctx, span := d.tracer().Start(ctx, "SysUserRoleDAO.Replace")
	defer span.End()
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.SysUserRole{}).Error; err != nil {
			return err
		}
		if len(roleIDs) == 0 {
			return nil
		}
		now := time.Now().Unix()
		rows := make([]model.SysUserRole, 0, len(roleIDs))
		for _, rid := range roleIDs {
			rows = append(rows, model.SysUserRole{UserID: userID, RoleID: rid, StatusID: 1, Sort: 1, CreateTime: now})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("replace user roles user=%d: %w", userID, err)
	}
	return nil
}
