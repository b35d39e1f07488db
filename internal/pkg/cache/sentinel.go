package cache

import (
	"math/rand"
	"time"
)

// 空值哨兵：缓存空结果时写入该值，防止穿透，同时能与真实空串区分
const nilSentinel = "\x00nil\x00"

func WrapNil(val string) string {
	if val == "" {
		return nilSentinel
	}
	return val
}

func IsNilSentinel(val string) bool { return val == nilSentinel }

// JitterTTL 在基准 TTL 上叠加最多 20% 的随机抖动，错开批量过期
func JitterTTL(base time.Duration) time.Duration {
	if base <= 0 {
		return base
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 5))
	return base + jitter
}
