package dao

import (
	"context"
	"fmt"

	"go-sysadmin/internal/domain/model"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type SysOperateLogDAO struct{ DB *gorm.DB }

func NewSysOperateLogDAO(db *gorm.DB) *SysOperateLogDAO { return &SysOperateLogDAO{DB: db} }

func (d *SysOperateLogDAO) tracer() trace.Tracer { return otel.Tracer("dao.sys_operate_log") }

func (d *SysOperateLogDAO) Create(ctx context.Context, rec *model.SysOperateLog) error {
	ctx, span := d.tracer().Start(ctx, "SysOperateLogDAO.Create")
	defer span.End()
	if err := d.DB.WithContext(ctx).Create(rec).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("create operate log: %w", err)
	}
	return nil
}

func (d *SysOperateLogDAO) List(ctx context.Context, userID int64, offset, limit int) ([]model.SysOperateLog, int64, error) {
	ctx, span := d.tracer().Start(ctx, "SysOperateLogDAO.List")
	defer span.End()
	q := d.DB.WithContext(ctx).Model(&model.SysOperateLog{})
	if userID > 0 {
		q = q.Where("user_id = ?", userID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("count operate logs: %w", err)
	}
	if limit <= 0 {
		limit = 100
	}
	var list []model.SysOperateLog
	if err := q.Offset(offset).Limit(limit).Order("id DESC").Find(&list).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("list operate logs: %w", err)
	}
	return list, total, nil
}
