package http

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-sysadmin/internal/discovery/etcd"
	"go-sysadmin/internal/metrics"
	"go-sysadmin/internal/mq/kafka"
)

// HealthChecker 聚合 liveness / readiness 检查
type HealthChecker struct {
	db       *gorm.DB
	redis    *goredis.Client
	producer *kafka.Producer
	etcdCli  *etcd.Client
	metrics  *metrics.Metrics

	cacheMu     sync.Mutex
	cacheResult map[string]interface{}
	cacheExpiry time.Time
	cacheTTL    time.Duration
}

func NewHealthChecker(db *gorm.DB, r *goredis.Client, p *kafka.Producer, e *etcd.Client, m *metrics.Metrics) *HealthChecker {
	return &HealthChecker{db: db, redis: r, producer: p, etcdCli: e, metrics: m, cacheTTL: 2 * time.Second}
}

// Liveness 只说明进程活着，不碰外部依赖
func (h *HealthChecker) Liveness() map[string]interface{} {
	return map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}
}

type depResult struct {
	name string
	up   bool
	err  string
	dur  time.Duration
}

// Readiness 并发探测各下游依赖，结果短暂缓存避免被探针打爆
func (h *HealthChecker) Readiness(ctx context.Context) (map[string]interface{}, int) {
	h.cacheMu.Lock()
	if time.Now().Before(h.cacheExpiry) && h.cacheResult != nil {
		res := h.cacheResult
		h.cacheMu.Unlock()
		return res, httpStatus(res)
	}
	h.cacheMu.Unlock()

	checks := []struct {
		name  string
		check func(context.Context) error
	}{
		{"db", h.checkDB},
		{"redis", h.checkRedis},
		{"kafka", h.checkKafka},
		{"etcd", h.checkEtcd},
	}

	results := make(chan depResult, len(checks))
	var wg sync.WaitGroup
	for _, c := range checks {
		wg.Add(1)
		go func(name string, check func(context.Context) error) {
			defer wg.Done()
			start := time.Now()
			ctx2, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
			defer cancel()
			out := depResult{name: name}
			if err := check(ctx2); err == nil {
				out.up = true
			} else {
				out.err = err.Error()
			}
			out.dur = time.Since(start)
			if h.metrics != nil {
				v := 0.0
				if out.up {
					v = 1.0
				}
				h.metrics.DepUp.WithLabelValues(name).Set(v)
			}
			results <- out
		}(c.name, c.check)
	}
	wg.Wait()
	close(results)

	res := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}
	detail := make([]map[string]interface{}, 0, len(checks))
	upTotal := 0
	for r := range results {
		if r.up {
			res[r.name] = "up"
			upTotal++
		} else {
			res[r.name] = "down"
		}
		detail = append(detail, map[string]interface{}{
			"dep": r.name, "up": r.up, "error": r.err,
			"duration_ms": float64(r.dur.Microseconds()) / 1000.0,
		})
	}
	res["detail"] = detail
	if upTotal < len(checks) {
		res["status"] = "degraded"
	}

	h.cacheMu.Lock()
	h.cacheResult = res
	h.cacheExpiry = time.Now().Add(h.cacheTTL)
	h.cacheMu.Unlock()
	return res, httpStatus(res)
}

// InvalidateCache 探针带 refresh=1 时强制重测
func (h *HealthChecker) InvalidateCache() {
	h.cacheMu.Lock()
	h.cacheExpiry = time.Time{}
	h.cacheMu.Unlock()
}

func httpStatus(res map[string]interface{}) int {
	if res["status"] == "ok" {
		return 200
	}
	return 503
}

func (h *HealthChecker) checkDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (h *HealthChecker) checkRedis(ctx context.Context) error {
	return h.redis.Ping(ctx).Err()
}

func (h *HealthChecker) checkKafka(ctx context.Context) error {
	// WriteMessages 不带消息即触发一次连通性探测
	return h.producer.WriteMessages(ctx)
}

func (h *HealthChecker) checkEtcd(ctx context.Context) error {
	_, err := h.etcdCli.Get(ctx, "health")
	return err
}
