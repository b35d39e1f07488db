package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"go-sysadmin/internal/config"
	"go-sysadmin/internal/consumer/oplog"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/repository/dao"
	"go-sysadmin/internal/repository/postgres"
)

// 操作日志消费进程：独立于 api 进程部署，从 Kafka 拉取审计消息落库
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.dev.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.JSON, cfg.App.Name+"-oplog", cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		logger.Error("open postgres failed", zap.Error(err))
		os.Exit(1)
	}

	consumer := oplog.NewConsumer(oplog.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OperateTopic,
		GroupID: cfg.Kafka.ConsumerGroup,
	}, dao.NewSysOperateLogDAO(db), logger)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("oplog_consumer_start", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.OperateTopic))
	if err := consumer.Run(ctx); err != nil {
		logger.Error("oplog_consumer_exit", zap.Error(err))
	}
}
