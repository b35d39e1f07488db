package oplog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/repository/dao"
)

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Consumer 消费操作日志消息并落库
type Consumer struct {
	reader *kafkaGo.Reader
	logs   *dao.SysOperateLogDAO
	logger *logging.Logger
}

// Entry 与 OperationLog 中间件产出的消息体对应
type Entry struct {
	ActionName string   `json:"action_name"`
	Path       string   `json:"path"`
	Method     string   `json:"method"`
	Status     int      `json:"status"`
	LatencyMs  int64    `json:"latency_ms"`
	IP         string   `json:"ip"`
	UserID     int64    `json:"user_id"`
	Time       string   `json:"time"`
	Body       string   `json:"body"`
	Errors     []string `json:"errors,omitempty"`
}

func NewConsumer(cfg Config, logs *dao.SysOperateLogDAO, lg *logging.Logger) *Consumer {
	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1 << 10,
		MaxBytes: 10 << 20,
	})
	return &Consumer{reader: reader, logs: logs, logger: lg}
}

// Run 消费循环：提取消息头里的 trace 上下文，开 consumer span 再落库
func (c *Consumer) Run(ctx context.Context) error {
	prop := otel.GetTextMapPropagator()
	tracer := otel.Tracer("kafka-consumer")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		carrier := propagation.MapCarrier{}
		for _, h := range m.Headers {
			carrier[h.Key] = string(h.Value)
		}
		msgCtx := prop.Extract(ctx, carrier)
		msgCtx, span := tracer.Start(msgCtx, "oplog.consume", trace.WithSpanKind(trace.SpanKindConsumer))

		if err := c.handle(msgCtx, m.Value); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Warn("handle oplog message", zap.Error(err))
		}
		span.End()
	}
}

func (c *Consumer) handle(ctx context.Context, value []byte) error {
	var e Entry
	if err := json.Unmarshal(value, &e); err != nil {
		return err
	}
	var ts int64
	if t, err := time.Parse(time.RFC3339, e.Time); err == nil {
		ts = t.Unix()
	} else {
		ts = time.Now().Unix()
	}
	rec := model.SysOperateLog{
		ActionName: e.ActionName,
		UserID:     e.UserID,
		URL:        e.Path,
		Method:     e.Method,
		Status:     e.Status,
		LatencyMs:  e.LatencyMs,
		IP:         e.IP,
		Data:       e.Body,
		AddTime:    ts,
	}
	return c.logs.Create(ctx, &rec)
}

func (c *Consumer) Close() error { return c.reader.Close() }
