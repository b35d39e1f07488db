package boot

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	clientv3 "go.etcd.io/etcd/client/v3"
	go_otel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"gorm.io/gorm"

	"go-sysadmin/internal/config"
	"go-sysadmin/internal/discovery/etcd"
	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/logging"
	"go-sysadmin/internal/metrics"
	"go-sysadmin/internal/mq/kafka"
	"go-sysadmin/internal/repository/postgres"
	redisrepo "go-sysadmin/internal/repository/redis"
	"go-sysadmin/internal/security/jwt"
)

// App 聚合进程级组件与生命周期
type App struct {
	Config  *config.Config
	Logger  *logging.Logger
	Metrics *metrics.Metrics
	DB      *gorm.DB
	Redis   *goredis.Client
	Kafka   *kafka.Producer
	Sender  *kafka.AsyncSender
	Etcd    *etcd.Client
	JWT     *jwt.Manager
	HTTP    *gin.Engine

	serviceKey string
	leaseID    clientv3.LeaseID
	tracerProv *sdktrace.TracerProvider
	stopCh     chan struct{}
}

func NewPostgres(c *config.Config) (*gorm.DB, error) { return postgres.Open(c.Postgres) }

func NewRedis(c *config.Config) (*goredis.Client, error) { return redisrepo.New(c.Redis) }

func NewKafkaProducer(c *config.Config) *kafka.Producer {
	return kafka.NewProducer(kafka.Config{Brokers: c.Kafka.Brokers, Topic: c.Kafka.OperateTopic})
}

func NewAsyncSender(p *kafka.Producer, l *logging.Logger) *kafka.AsyncSender {
	return kafka.NewAsyncSender(p, l, 4096, 2)
}

func NewEtcd(c *config.Config) (*etcd.Client, error) { return etcd.New(c.Etcd) }

func NewJWTManager(c *config.Config) *jwt.Manager {
	return jwt.NewManager(c.JWT.Secret, c.JWT.ExpireSeconds, c.JWT.Issuer)
}

func NewLogger(c *config.Config) (*logging.Logger, error) {
	return logging.New(c.Log.Level, c.Log.JSON, c.App.Name, c.App.Env)
}

func NewMetrics(c *config.Config) *metrics.Metrics { return metrics.New("sysadmin") }

func NewApp(c *config.Config, l *logging.Logger, m *metrics.Metrics, db *gorm.DB, r *goredis.Client, k *kafka.Producer, sender *kafka.AsyncSender, e *etcd.Client, j *jwt.Manager, engine *gin.Engine) *App {
	if c.Postgres.AutoMigrate {
		if err := postgres.AutoMigrateModels(db,
			&model.SysUser{},
			&model.SysRole{},
			&model.SysMenu{},
			&model.SysUserRole{},
			&model.SysRoleMenu{},
			&model.SysOperateLog{},
		); err != nil {
			l.Error("auto_migrate_failed", zap.Error(err))
		}
	}
	app := &App{
		Config: c, Logger: l, Metrics: m, DB: db, Redis: r,
		Kafka: k, Sender: sender, Etcd: e, JWT: j, HTTP: engine,
		stopCh: make(chan struct{}),
	}
	sender.Start()
	app.startRedisHeartbeat()
	app.registerService()
	app.initTracing()
	return app
}

// startRedisHeartbeat 周期探活并维护 dependency_up 指标
func (a *App) startRedisHeartbeat() {
	c := a.Config
	interval := time.Duration(c.Etcd.HeartbeatSec) * time.Second
	if interval < 2*time.Second {
		interval = 2 * time.Second
	}
	go func() {
		var lastUp bool
		for {
			select {
			case <-a.stopCh:
				return
			case <-time.After(interval):
				ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.Redis.PingTimeoutMS)*time.Millisecond)
				err := a.Redis.Ping(ctx).Err()
				cancel()
				if err != nil {
					a.Metrics.DepUp.WithLabelValues("redis").Set(0)
					if lastUp {
						a.Logger.Warn("redis_down", zap.Error(err))
					}
					lastUp = false
				} else {
					a.Metrics.DepUp.WithLabelValues("redis").Set(1)
					if !lastUp {
						a.Logger.Info("redis_recovered")
					}
					lastUp = true
				}
			}
		}
	}()
}

// registerService 向 etcd 注册服务节点，带指数退避重试
func (a *App) registerService() {
	c := a.Config
	if a.Etcd == nil || len(c.Etcd.Endpoints) == 0 {
		return
	}
	go func() {
		ctx := context.Background()
		port := hostPort(c.HTTP.Addr)
		ip := firstNonLoopbackIPv4()
		if ip == "" {
			ip = "127.0.0.1"
		}
		serviceKey := fmt.Sprintf("%s/%s/%s/%s/%s:%s", c.Etcd.Prefix, c.App.Name, c.App.Env, c.App.Version, ip, port)
		meta := map[string]interface{}{
			"instance_id":  uuid.NewString(),
			"env":          c.App.Env,
			"version":      c.App.Version,
			"ip":           ip,
			"port":         port,
			"startup_unix": time.Now().Unix(),
		}
		valBytes, _ := json.Marshal(meta)

		for attempt := 1; ; attempt++ {
			leaseID, err := a.Etcd.Register(ctx, serviceKey, string(valBytes), c.Etcd.HeartbeatSec)
			if err == nil {
				a.serviceKey = serviceKey
				a.leaseID = leaseID
				a.Metrics.DepUp.WithLabelValues("etcd").Set(1)
				a.Logger.Info("etcd_registered", zap.String("key", serviceKey))
				return
			}
			if attempt >= 5 {
				a.Logger.Error("etcd_register_failed", zap.Error(err), zap.Int("attempt", attempt))
				return
			}
			backoff := time.Duration(1<<attempt) * 100 * time.Millisecond
			a.Logger.Warn("etcd_register_retry", zap.Error(err), zap.Int("attempt", attempt), zap.Duration("backoff", backoff))
			time.Sleep(backoff)
		}
	}()
}

// initTracing endpoint 为空时不启用导出，span 仍会生成但不上报
func (a *App) initTracing() {
	c := a.Config
	if c.OTel.Endpoint == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(c.OTel.Endpoint)}
	if c.OTel.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	}
	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		a.Logger.Error("otel_exporter_init_failed", zap.Error(err))
		return
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(c.App.Name),
		semconv.ServiceVersionKey.String(c.App.Version),
	))
	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.OTel.SampleRate))
	a.tracerProv = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	go_otel.SetTracerProvider(a.tracerProv)
	a.Logger.Info("otel_tracer_provider_initialized")
}

func (a *App) Close() {
	if a.Etcd != nil && a.serviceKey != "" && a.leaseID != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		a.Etcd.Deregister(ctx, a.serviceKey, a.leaseID)
		cancel()
		a.Metrics.DepUp.WithLabelValues("etcd").Set(0)
	}
	if a.Sender != nil {
		a.Sender.Close()
	}
	if a.Kafka != nil {
		if err := a.Kafka.Close(); err != nil {
			a.Logger.Error("kafka_close_error", zap.Error(err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("redis_close_error", zap.Error(err))
		}
	}
	if a.Etcd != nil {
		if err := a.Etcd.Close(); err != nil {
			a.Logger.Error("etcd_close_error", zap.Error(err))
		}
	}
	if a.tracerProv != nil {
		if err := a.tracerProv.Shutdown(context.Background()); err != nil {
			a.Logger.Error("otel_tracer_shutdown_error", zap.Error(err))
		}
	}
	close(a.stopCh)
	a.Logger.Sync()
}

func hostPort(addr string) string {
	if addr == "" {
		return "8080"
	}
	if addr[0] == ':' {
		return addr[1:]
	}
	if _, p, err := net.SplitHostPort(addr); err == nil {
		return p
	}
	return "0"
}

func firstNonLoopbackIPv4() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsLoopback() {
				continue
			}
			if ip4 := ip.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	return ""
}
