package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go-sysadmin/internal/domain/model"
)

// OperateLogStore 操作日志存储口，由 dao.SysOperateLogDAO 满足
type OperateLogStore interface {
	List(ctx context.Context, userID int64, offset, limit int) ([]model.SysOperateLog, int64, error)
}

type LogService struct {
	Logs OperateLogStore
}

func NewLogService(l OperateLogStore) *LogService { return &LogService{Logs: l} }

func (s *LogService) tracer() trace.Tracer { return otel.Tracer("service.log") }

type OperateLogResult struct {
	List  []model.SysOperateLog `json:"list"`
	Total int64                 `json:"total"`
}

func (s *LogService) List(ctx context.Context, userID int64, page, pageSize int) (*OperateLogResult, error) {
	ctx, span := s.tracer().Start(ctx, "LogService.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	logs, total, err := s.Logs.List(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list operate logs: %w", err)
	}
	return &OperateLogResult{List: logs, Total: total}, nil
}
