package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 汇总服务侧指标，promauto 注册到默认 Registry
type Metrics struct {
	HTTPRequestTotal          *prometheus.CounterVec
	HTTPRequestDuration       *prometheus.HistogramVec
	LoginTotal                *prometheus.CounterVec
	PermissionResolveDuration *prometheus.HistogramVec
	DepUp                     *prometheus.GaugeVec
	CacheHitTotal             *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	return &Metrics{
		HTTPRequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_total",
			Help:      "HTTP 请求总量",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时分布",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		LoginTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_total",
			Help:      "登录尝试计数，result 区分成功与各类失败",
		}, []string{"result"}),
		PermissionResolveDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "permission_resolve_duration_seconds",
			Help:      "权限解析耗时分布",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"kind"}),
		DepUp: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dependency_up",
			Help:      "下游依赖健康状态，1 可用 0 不可用",
		}, []string{"dependency"}),
		CacheHitTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hit_total",
			Help:      "缓存命中统计，layer 区分本地与 redis",
		}, []string{"layer", "result"}),
	}
}
